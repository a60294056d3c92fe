package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/pto/internal/config"
	"github.com/Tiliavir/pto/internal/humaans"
	"github.com/Tiliavir/pto/internal/logging"
)

var (
	flagToken   string
	flagBaseURL string
	flagOutput  string
)

var rootCmd = &cobra.Command{
	Use:   "pto",
	Short: "pto – paid time off from the Humaans API",
	Long: `pto fetches people, time-away periods and booked paid time off from the
Humaans HR API. It prints them as YAML or JSON, summarises a person's business
year, exports booked days and serves a browser dashboard.

The API token is taken from --token, HUMAANS_API_TOKEN (environment or .env)
or ~/.pto/config.json, in that order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Humaans API token (overrides "+config.EnvToken+")")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Humaans API root (overrides "+config.EnvBaseURL+")")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", formatYAML, "Output format: yaml, json")

	rootCmd.AddCommand(policiesCmd)
	rootCmd.AddCommand(periodsCmd)
	rootCmd.AddCommand(meCmd)
	rootCmd.AddCommand(personCmd)
	rootCmd.AddCommand(ptoCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config file and environment, then applies the global
// flags. A broken config file is reported and defaults are used.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if flagToken != "" {
		cfg.Humaans.Token = flagToken
	}
	if flagBaseURL != "" {
		cfg.Humaans.BaseURL = flagBaseURL
	}
	return cfg
}

// cliLogger logs to stderr so that stdout stays machine readable.
func cliLogger(cfg config.Config) *slog.Logger {
	return logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
}

func clientOptions(cfg config.Config, logger *slog.Logger) []humaans.Option {
	return []humaans.Option{
		humaans.WithBaseURL(cfg.Humaans.BaseURL),
		humaans.WithTimeout(cfg.Humaans.Timeout.Std()),
		humaans.WithLogger(logger),
	}
}

// newClient builds an authenticated client from config and flags.
func newClient(ctx context.Context) (*humaans.Client, error) {
	cfg := loadConfig()
	return humaans.NewClient(ctx, cfg.Humaans.Token, clientOptions(cfg, cliLogger(cfg))...)
}
