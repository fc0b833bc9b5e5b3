package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/somabay/handbook/infrastructure/api"
	"github.com/somabay/handbook/internal/config"
	"github.com/somabay/handbook/internal/log"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		envFile  string
		host     string
		port     int
		sitePort int
		noSite   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API and the public site",
		Long: `Start the REST API and the public site.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                   Host to bind to (default: 0.0.0.0)
  PORT                   API port (default: 8080)
  SITE_PORT              Public site port (default: 3000)
  DATA_DIR               Data directory (default: ~/.handbook)
  DB_URL                 Database URL (default: sqlite:///{data_dir}/handbook.db)
  LOG_LEVEL              Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT             Log format: pretty, json (default: pretty)
  API_KEYS               Comma-separated keys guarding /api/admin and /mcp
  PUBLIC_DIR             Directory served by the public site (default: public)
  CORS_ALLOWED_ORIGINS   Comma-separated origins allowed to call the API (default: *)
  REORDER_ALLOW_PRUNE    Let reorder requests drop omitted nodes (default: false)
  DISABLE_SITE           Do not start the public site (default: false)
  ENABLE_METRICS         Expose /metrics (default: true)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), envFile, serveOverrides{host: host, port: port, sitePort: sitePort, noSite: noSite})
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "API port (default: 8080)")
	cmd.Flags().IntVar(&sitePort, "site-port", 0, "Public site port (default: 3000)")
	cmd.Flags().BoolVar(&noSite, "no-site", false, "Serve only the API")

	return cmd
}

type serveOverrides struct {
	host     string
	port     int
	sitePort int
	noSite   bool
}

func runServe(ctx context.Context, envFile string, overrides serveOverrides) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, overrides)

	slogger := log.Configure(cfg)

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	slogger.LogAttrs(ctx, slog.LevelInfo, "starting handbook", attrs...)

	client, err := openClient(cfg, serveOptions(cfg, slogger))
	if err != nil {
		return err
	}
	defer closeClient(client, slogger)

	apiServer := api.NewAPIServer(client,
		api.WithCORSOrigins(cfg.CORSAllowedOrigins()),
		api.WithVersion(version),
	)

	var site *api.Server
	if !cfg.SiteDisabled() {
		server := api.NewServer("site", cfg.SiteAddr(), slogger)
		server.Router().Mount("/", api.NewSiteHandler(api.SiteConfig{
			PublicDir:  cfg.PublicDir(),
			UploadsDir: cfg.UploadsDir(),
			DataDir:    cfg.ExportDir(),
		}, slogger))
		site = &server
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return apiServer.ListenAndServe(cfg.Addr())
	})
	if site != nil {
		g.Go(site.Start)
	}
	g.Go(func() error {
		<-gctx.Done()
		slogger.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("api shutdown: %w", err))
		}
		if site != nil {
			if err := site.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("site shutdown: %w", err))
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, o serveOverrides) config.AppConfig {
	var opts []config.AppConfigOption

	if o.host != "" {
		opts = append(opts, config.WithHost(o.host))
	}
	if o.port != 0 {
		opts = append(opts, config.WithPort(o.port))
	}
	if o.sitePort != 0 {
		opts = append(opts, config.WithSitePort(o.sitePort))
	}
	if o.noSite {
		opts = append(opts, config.WithSiteDisabled(true))
	}

	return cfg.Apply(opts...)
}
