package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/somabay/handbook"
	"github.com/somabay/handbook/infrastructure/metrics"
	"github.com/somabay/handbook/internal/config"
)

// clientOptions returns the handbook.Option slice derived from AppConfig.
// Callers append entrypoint-specific options before passing the full slice
// to handbook.New.
func clientOptions(cfg config.AppConfig, logger *slog.Logger) []handbook.Option {
	opts := []handbook.Option{
		handbook.WithDatabaseURL(cfg.DBURL()),
		handbook.WithLogger(logger),
		handbook.WithPruneAllowed(cfg.AllowPrune()),
	}
	if keys := cfg.APIKeys(); len(keys) > 0 {
		opts = append(opts, handbook.WithAPIKeys(keys...))
	}
	return opts
}

// serveOptions adds the options only the HTTP server needs.
func serveOptions(cfg config.AppConfig, logger *slog.Logger) []handbook.Option {
	opts := clientOptions(cfg, logger)
	if cfg.MetricsEnabled() {
		opts = append(opts, handbook.WithMetrics(metrics.New()))
	}
	opts = append(opts, handbook.WithSidebarMirror(filepath.Join(cfg.ExportDir(), "pages.json")))
	return opts
}

// openClient prepares the data directory and opens a client.
func openClient(cfg config.AppConfig, opts []handbook.Option) (*handbook.Client, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	client, err := handbook.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create handbook client: %w", err)
	}
	return client, nil
}

func closeClient(client *handbook.Client, logger *slog.Logger) {
	if err := client.Close(); err != nil {
		logger.Error("failed to close handbook client", slog.Any("error", err))
	}
}
