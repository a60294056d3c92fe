// Package server serves the time-off JSON proxy and the rendered dashboard.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Tiliavir/pto/internal/dashboard"
	"github.com/Tiliavir/pto/internal/humaans"
	"github.com/Tiliavir/pto/internal/logging"
	"github.com/Tiliavir/pto/internal/model"
	appweb "github.com/Tiliavir/pto/web"
)

// ClientFactory creates an upstream client for a caller's API key.
type ClientFactory func(ctx context.Context, token string) (dashboard.Fetcher, error)

// HumaansFactory returns a ClientFactory building humaans clients with opts.
func HumaansFactory(opts ...humaans.Option) ClientFactory {
	return func(ctx context.Context, token string) (dashboard.Fetcher, error) {
		c, err := humaans.NewClient(ctx, token, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Options tunes a Server.
type Options struct {
	// CacheTTL is how long a fetched bundle is reused. Zero disables caching.
	CacheTTL    time.Duration
	CacheSize   int
	Concurrency int
	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// Server is the HTTP front end.
type Server struct {
	http.Server
	newClient   ClientFactory
	cache       *expirable.LRU[string, model.PTOBundle]
	templates   *template.Template
	logger      *slog.Logger
	concurrency int
	now         func() time.Time
}

// New configures routes and templates, returning a ready-to-run server.
func New(addr string, factory ClientFactory, opts Options, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           logging.Middleware(logger)(mux),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 16,
		},
		newClient:   factory,
		templates:   t,
		logger:      logger,
		concurrency: opts.Concurrency,
		now:         opts.Now,
	}
	if opts.CacheTTL > 0 && opts.CacheSize > 0 {
		s.cache = expirable.NewLRU[string, model.PTOBundle](opts.CacheSize, nil, opts.CacheTTL)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/pto/me", s.handlePTOMe)
	mux.HandleFunc("GET /api/pto/{personId}", s.handlePTOPerson)
	mux.HandleFunc("GET /api/pto/{$}", s.handleMissingPerson)
	mux.HandleFunc("GET /api/team", s.handleTeam)
	mux.HandleFunc("GET /api/view/{personId}", s.handleView)

	return s, nil
}

// fetcher returns the upstream for the request's API key, behind the bundle
// cache when enabled.
func (s *Server) fetcher(r *http.Request) (dashboard.Fetcher, error) {
	key := r.URL.Query().Get("key")
	if key == "" {
		return nil, humaans.ErrMissingToken
	}
	up, err := s.newClient(r.Context(), key)
	if err != nil {
		return nil, err
	}
	if s.cache == nil {
		return up, nil
	}
	sum := sha256.Sum256([]byte(key))
	return &cachingFetcher{up: up, cache: s.cache, prefix: hex.EncodeToString(sum[:]) + ":"}, nil
}

// cachingFetcher scopes cache entries to one API key.
type cachingFetcher struct {
	up     dashboard.Fetcher
	cache  *expirable.LRU[string, model.PTOBundle]
	prefix string
}

func (c *cachingFetcher) PTOForMe(ctx context.Context) (model.PTOBundle, error) {
	return c.cached(ctx, "me", func() (model.PTOBundle, error) { return c.up.PTOForMe(ctx) })
}

func (c *cachingFetcher) PTOForPerson(ctx context.Context, id string) (model.PTOBundle, error) {
	if id == "" {
		return model.PTOBundle{}, humaans.ErrMissingPersonID
	}
	return c.cached(ctx, "person/"+id, func() (model.PTOBundle, error) { return c.up.PTOForPerson(ctx, id) })
}

func (c *cachingFetcher) cached(ctx context.Context, key string, fetch func() (model.PTOBundle, error)) (model.PTOBundle, error) {
	if b, ok := c.cache.Get(c.prefix + key); ok {
		logging.FromContext(ctx).DebugContext(ctx, "cache hit", "key", key)
		return b, nil
	}
	b, err := fetch()
	if err != nil {
		return model.PTOBundle{}, err
	}
	c.cache.Add(c.prefix+key, b)
	return b, nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
