// Package api provides the HTTP servers of the handbook: the REST API and
// the public site.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/server"

	"github.com/somabay/handbook"
	apimiddleware "github.com/somabay/handbook/infrastructure/api/middleware"
	v1 "github.com/somabay/handbook/infrastructure/api/v1"
	mcpinternal "github.com/somabay/handbook/internal/mcp"
)

// requestTimeout bounds every REST request.
const requestTimeout = 60 * time.Second

// APIServer provides an HTTP API backed by a handbook Client.
type APIServer struct {
	client       *handbook.Client
	corsOrigins  []string
	version      string
	server       *Server
	router       chi.Router
	routerCalled bool
	logger       *slog.Logger
}

// APIServerOption configures an APIServer.
type APIServerOption func(*APIServer)

// WithCORSOrigins allows browser clients from the given origins.
func WithCORSOrigins(origins []string) APIServerOption {
	return func(a *APIServer) { a.corsOrigins = origins }
}

// WithVersion sets the version reported by the MCP endpoint.
func WithVersion(version string) APIServerOption {
	return func(a *APIServer) {
		if version != "" {
			a.version = version
		}
	}
}

// NewAPIServer creates a new APIServer wired to the given handbook Client.
// The client's API keys guard every /api/admin route and /mcp, and make the
// public /api routes read-only for callers without a key.
func NewAPIServer(client *handbook.Client, opts ...APIServerOption) *APIServer {
	a := &APIServer{
		client:  client,
		version: "dev",
		logger:  client.Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call MountRoutes().
// If not called, ListenAndServe creates a default router with all standard routes.
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	a.routerCalled = true
	return a.router
}

// MountRoutes wires up all API routes on the router.
// Call this after adding any custom middleware via Router().Use().
func (a *APIServer) MountRoutes() {
	if a.router == nil {
		a.Router()
	}
	a.mountRoutes(a.router)
}

func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client
	auth := apimiddleware.NewAuthConfigWithKeys(c.APIKeys())

	if len(a.corsOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: a.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", apimiddleware.APIKeyHeader, apimiddleware.CorrelationIDHeader},
			ExposedHeaders: []string{apimiddleware.CorrelationIDHeader},
			MaxAge:         300,
		}))
	}
	router.Use(apimiddleware.CorrelationID)
	router.Use(apimiddleware.Logging(a.logger))
	if m := c.Metrics(); m != nil {
		router.Use(m.Middleware)
		router.Handle("/metrics", m.Handler())
	}

	router.Get("/health", a.health)
	router.Get("/healthz", a.health)

	router.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(requestTimeout))

		r.Route("/admin", func(r chi.Router) {
			r.Use(apimiddleware.APIKey(auth))

			sidebar := v1.NewSidebarRouter(c)
			r.Mount("/pages", v1.NewPagesRouter(c).Routes())
			r.Mount("/sidebar", sidebar.Routes())
			r.Post("/slug", sidebar.DeriveSlug)
			r.Mount("/menus", v1.NewMenusRouter(c).Routes())
			r.Mount("/widgets", v1.NewWidgetsRouter(c).Routes())
			r.Mount("/settings", v1.NewSettingsRouter(c).Routes())
		})

		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.WriteProtect(auth))
			r.Mount("/", v1.NewPublicRouter(c).Routes())
		})
	})

	// MCP streams its responses, so it sits outside the Timeout group.
	mcpSrv := mcpinternal.NewServer(c.Pages, c.Menus, a.version, a.logger)
	router.Group(func(r chi.Router) {
		r.Use(apimiddleware.APIKey(auth))
		r.Mount("/mcp", server.NewStreamableHTTPServer(mcpSrv.MCPServer()))
	})
}

func (a *APIServer) health(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		a.logger.Error("health check failed", slog.Any("error", err))
		apimiddleware.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	apimiddleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer("api", addr, a.logger)
	a.server = &server

	if a.routerCalled && a.router != nil {
		server.Router().Mount("/", a.router)
	} else {
		a.mountRoutes(server.Router())
	}

	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the router as an http.Handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.Router()
		a.MountRoutes()
	}
	return a.router
}
