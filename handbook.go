// Package handbook provides the content core of a company handbook: a
// sidebar forest of chapters and pages, navigation menus, widgets and site
// settings, persisted through GORM.
//
// Basic usage:
//
//	client, err := handbook.New(
//	    handbook.WithSQLite("data/handbook.db"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Add a chapter and a page inside it
//	hr, err := client.Pages.Add(ctx, service.PageAddParams{Title: "HR", Chapter: true})
//	_, err = client.Pages.Add(ctx, service.PageAddParams{
//	    Title:    "Benefits",
//	    Content:  "<p>...</p>",
//	    ParentID: hr.ID(),
//	})
//
//	// Reorder the sidebar
//	result, err := client.Pages.Reorder(ctx, order, false)
package handbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/somabay/handbook/application/service"
	"github.com/somabay/handbook/domain/menu"
	"github.com/somabay/handbook/infrastructure/metrics"
	"github.com/somabay/handbook/infrastructure/persistence"
	"github.com/somabay/handbook/internal/database"
)

// ErrClientClosed indicates the client has been closed.
var ErrClientClosed = errors.New("handbook: client is closed")

// ErrNoDatabase indicates no database was configured.
var ErrNoDatabase = errors.New("handbook: no database configured")

// Client is the main entry point for the handbook library.
//
// Access resources via struct fields:
//
//	client.Pages.Sidebar(ctx)
//	client.Menus.Get(ctx, "main")
//	client.Settings.All(ctx)
type Client struct {
	Pages    *service.Pages
	Menus    *service.Menus
	Widgets  *service.Widgets
	Settings *service.Settings

	db         database.Database
	logger     *slog.Logger
	metrics    *metrics.Metrics
	apiKeys    []string
	allowPrune bool
	closed     atomic.Bool
	mu         sync.Mutex
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.dbURL == "" {
		return nil, ErrNoDatabase
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, cfg.dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	if err := persistence.ValidateSchema(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("validate schema: %w", err), errClose)
	}

	pageOpts := []service.PagesOption{service.WithPruneAllowed(cfg.allowPrune)}
	if cfg.metrics != nil {
		pageOpts = append(pageOpts, service.WithReorderObserver(cfg.metrics))
	}
	if cfg.mirrorPath != "" {
		pageOpts = append(pageOpts, service.WithMirror(persistence.NewFileStore(cfg.mirrorPath)))
	}

	client := &Client{
		Pages:      service.NewPages(persistence.NewSidebarStore(db), logger, pageOpts...),
		Menus:      service.NewMenus(persistence.NewMenuStore(db), menu.NewIDGenerator(), logger),
		Widgets:    service.NewWidgets(persistence.NewWidgetStore(db), logger),
		Settings:   service.NewSettings(persistence.NewSettingStore(db), logger),
		db:         db,
		logger:     logger,
		metrics:    cfg.metrics,
		apiKeys:    cfg.apiKeys,
		allowPrune: cfg.allowPrune,
	}

	logger.Info("handbook client ready", slog.Bool("postgres", db.IsPostgres()), slog.Bool("allow_prune", cfg.allowPrune))
	return client, nil
}

// Close releases the database connection.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("handbook client closed")
	return nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Metrics returns the configured metrics, or nil.
func (c *Client) Metrics() *metrics.Metrics {
	return c.metrics
}

// APIKeys returns the keys that guard admin routes.
func (c *Client) APIKeys() []string {
	out := make([]string, len(c.apiKeys))
	copy(out, c.apiKeys)
	return out
}

// Ping checks the database connection.
func (c *Client) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	sqlDB, err := c.db.GORM().DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
