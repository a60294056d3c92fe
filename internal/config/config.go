package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the root configuration for pto, stored in ~/.pto/config.json.
// The file supports single-line // comments for documentation purposes.
// Environment variables (and a .env file in the working directory) override
// file values.
type Config struct {
	Humaans HumaansConfig `json:"humaans"`
	Server  ServerConfig  `json:"server"`
	Log     LogConfig     `json:"log"`
}

// HumaansConfig holds upstream API settings.
type HumaansConfig struct {
	// Token is the Humaans API token. Prefer HUMAANS_API_TOKEN over storing it here.
	Token string `json:"token"`
	// BaseURL is the API root.
	BaseURL string `json:"base_url"`
	// Timeout bounds each upstream request.
	Timeout Duration `json:"timeout"`
}

// ServerConfig holds settings for `pto serve`.
type ServerConfig struct {
	Port string `json:"port"`
	// CacheTTL is how long fetched bundles are reused. Zero disables the cache.
	CacheTTL Duration `json:"cache_ttl"`
	// CacheSize is the maximum number of cached bundles.
	CacheSize int `json:"cache_size"`
	// Concurrency bounds parallel fetches when loading a team.
	Concurrency int `json:"concurrency"`
}

// LogConfig holds slog settings.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

const (
	DefaultBaseURL     = "https://app.humaans.io/api"
	DefaultTimeout     = 10 * time.Second
	DefaultPort        = "8080"
	DefaultCacheTTL    = time.Minute
	DefaultCacheSize   = 128
	DefaultConcurrency = 4
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// Environment variables read by Load.
const (
	EnvToken       = "HUMAANS_API_TOKEN"
	EnvBaseURL     = "HUMAANS_API_URL"
	EnvPort        = "PORT"
	EnvCacheTTL    = "CACHE_TTL"
	EnvCacheSize   = "CACHE_SIZE"
	EnvTimeout     = "HTTP_TIMEOUT"
	EnvConcurrency = "TEAM_CONCURRENCY"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFormat   = "LOG_FORMAT"
)

// Duration is a time.Duration written as a Go duration string ("10s") in the
// config file.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns a Config pre-filled with sensible defaults.
func Default() Config {
	return Config{
		Humaans: HumaansConfig{
			BaseURL: DefaultBaseURL,
			Timeout: Duration(DefaultTimeout),
		},
		Server: ServerConfig{
			Port:        DefaultPort,
			CacheTTL:    Duration(DefaultCacheTTL),
			CacheSize:   DefaultCacheSize,
			Concurrency: DefaultConcurrency,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// pto configuration – ~/.pto/config.json
//
// All settings are optional. Environment variables override every value
// here; a .env file in the working directory is read as well.
{
  // ── Humaans API ──────────────────────────────────────────────────────────
  "humaans": {
    // API token. Leave empty and set HUMAANS_API_TOKEN instead where possible.
    "token": "",

    // API root. Override with HUMAANS_API_URL.
    "base_url": "https://app.humaans.io/api",

    // Per-request timeout. Override with HTTP_TIMEOUT.
    "timeout": "10s"
  },

  // ── pto serve ────────────────────────────────────────────────────────────
  "server": {
    // Listen port. Override with PORT.
    "port": "8080",

    // How long fetched data is reused; "0s" disables caching. CACHE_TTL.
    "cache_ttl": "1m0s",

    // Maximum number of cached people. CACHE_SIZE.
    "cache_size": 128,

    // Parallel fetches when loading direct reports. TEAM_CONCURRENCY.
    "concurrency": 4
  },

  // ── Logging ──────────────────────────────────────────────────────────────
  "log": {
    // debug, info, warn or error. LOG_LEVEL.
    "level": "info",

    // text or json. LOG_FORMAT.
    "format": "text"
  }
}
`

// FilePath returns the path to ~/.pto/config.json.
func FilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".pto", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads .env and ~/.pto/config.json, creating the latter with annotated
// defaults on first run, then applies environment overrides.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}
	path, err := FilePath()
	if err != nil {
		cfg := Default()
		cfg.applyEnv()
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config file at path and applies environment overrides.
// A missing file is created from the annotated template.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		cfg.applyEnv()
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		cfg = Default()
		cfg.applyEnv()
		return cfg, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	// cache_ttl is exempt: "0s" disables the cache.
	d := Default()
	if cfg.Humaans.BaseURL == "" {
		cfg.Humaans.BaseURL = d.Humaans.BaseURL
	}
	if cfg.Humaans.Timeout == 0 {
		cfg.Humaans.Timeout = d.Humaans.Timeout
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = d.Server.Port
	}
	if cfg.Server.CacheSize == 0 {
		cfg.Server.CacheSize = d.Server.CacheSize
	}
	if cfg.Server.Concurrency == 0 {
		cfg.Server.Concurrency = d.Server.Concurrency
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = d.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = d.Log.Format
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Humaans.Token = getEnv(EnvToken, c.Humaans.Token)
	c.Humaans.BaseURL = getEnv(EnvBaseURL, c.Humaans.BaseURL)
	c.Humaans.Timeout = Duration(getEnvDuration(EnvTimeout, c.Humaans.Timeout.Std()))
	c.Server.Port = getEnv(EnvPort, c.Server.Port)
	c.Server.CacheTTL = Duration(getEnvDuration(EnvCacheTTL, c.Server.CacheTTL.Std()))
	c.Server.CacheSize = getEnvInt(EnvCacheSize, c.Server.CacheSize)
	c.Server.Concurrency = getEnvInt(EnvConcurrency, c.Server.Concurrency)
	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)
	c.Log.Format = getEnv(EnvLogFormat, c.Log.Format)
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if u, err := url.Parse(c.Humaans.BaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid base URL '%s': %v", c.Humaans.BaseURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid base URL '%s': scheme must be http or https", c.Humaans.BaseURL))
	}
	if c.Humaans.Timeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid timeout %v: must be positive", c.Humaans.Timeout.Std()))
	}

	if port, err := strconv.Atoi(c.Server.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Server.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}
	if c.Server.CacheTTL < 0 {
		problems = append(problems, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.Server.CacheTTL.Std()))
	}
	if c.Server.CacheTTL > 0 && c.Server.CacheSize < 1 {
		problems = append(problems, fmt.Sprintf("invalid cache size %d: must be at least 1 when caching", c.Server.CacheSize))
	}
	if c.Server.Concurrency < 1 {
		problems = append(problems, fmt.Sprintf("invalid concurrency %d: must be at least 1", c.Server.Concurrency))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be text or json", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
