package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/somabay/handbook"
	"github.com/somabay/handbook/infrastructure/api/middleware"
	"github.com/somabay/handbook/infrastructure/api/v1/dto"
)

// PublicRouter serves the published handbook to site visitors.
type PublicRouter struct {
	client *handbook.Client
	logger *slog.Logger
}

// NewPublicRouter creates a new PublicRouter.
func NewPublicRouter(client *handbook.Client) *PublicRouter {
	return &PublicRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for public endpoints.
func (r *PublicRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/sidebar", r.Sidebar)
	router.Get("/pages/{slug}", r.Page)
	router.Get("/menus/{name}", r.Menu)
	router.Get("/settings", r.Settings)

	return router
}

// Sidebar handles GET /api/sidebar. Unpublished chapters hide their subtree.
func (r *PublicRouter) Sidebar(w http.ResponseWriter, req *http.Request) {
	forest, err := r.client.Pages.PublicSidebar(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, forestToDTO(forest))
}

// Page handles GET /api/pages/{slug}.
func (r *PublicRouter) Page(w http.ResponseWriter, req *http.Request) {
	p, err := r.client.Pages.PublicPage(req.Context(), chi.URLParam(req, "slug"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, pageToDTO(p))
}

// Menu handles GET /api/menus/{name}.
func (r *PublicRouter) Menu(w http.ResponseWriter, req *http.Request) {
	m, err := r.client.Menus.Get(req.Context(), chi.URLParam(req, "name"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, serializer.MenuResource(m).Attributes)
}

// Settings handles GET /api/settings.
func (r *PublicRouter) Settings(w http.ResponseWriter, req *http.Request) {
	values, err := r.client.Settings.All(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.SettingsResponse{Settings: settingsToMap(values)})
}
