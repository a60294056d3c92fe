package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/pto/internal/logging"
	"github.com/Tiliavir/pto/internal/server"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the time off dashboard and JSON API",
	Long: `Serve the browser dashboard and the JSON API. Each request carries its own
Humaans API key in the "key" query parameter.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if servePort != "" {
		cfg.Server.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	srv, err := server.New(":"+cfg.Server.Port,
		server.HumaansFactory(clientOptions(cfg, logger)...),
		server.Options{
			CacheTTL:    cfg.Server.CacheTTL.Std(),
			CacheSize:   cfg.Server.CacheSize,
			Concurrency: cfg.Server.Concurrency,
		},
		logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", logging.FieldError, err)
		}
	}()

	logger.Info("Starting pto server", "port", cfg.Server.Port, "cache_ttl", cfg.Server.CacheTTL.Std())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", logging.FieldError, err, "port", cfg.Server.Port)
		return err
	}
	<-shutdownDone
	logger.Info("Server stopped gracefully")
	return nil
}
