package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/somabay/handbook"
	"github.com/somabay/handbook/application/service"
	"github.com/somabay/handbook/infrastructure/api/jsonapi"
	"github.com/somabay/handbook/infrastructure/api/middleware"
	"github.com/somabay/handbook/infrastructure/api/v1/dto"
)

// MenusRouter handles admin menu endpoints.
type MenusRouter struct {
	client *handbook.Client
	logger *slog.Logger
}

// NewMenusRouter creates a new MenusRouter.
func NewMenusRouter(client *handbook.Client) *MenusRouter {
	return &MenusRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for admin menu endpoints.
func (r *MenusRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Create)
	router.Get("/{name}", r.Get)
	router.Put("/{name}", r.Update)
	router.Delete("/{name}", r.Delete)
	router.Put("/{name}/order", r.Reorder)

	return router
}

// List handles GET /api/admin/menus.
func (r *MenusRouter) List(w http.ResponseWriter, req *http.Request) {
	menus, err := r.client.Menus.List(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewListResponse(serializer.MenuResources(menus)))
}

// Get handles GET /api/admin/menus/{name}.
func (r *MenusRouter) Get(w http.ResponseWriter, req *http.Request) {
	m, err := r.client.Menus.Get(req.Context(), chi.URLParam(req, "name"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(serializer.MenuResource(m)))
}

// Create handles POST /api/admin/menus.
func (r *MenusRouter) Create(w http.ResponseWriter, req *http.Request) {
	var body dto.MenuCreateRequest
	if err := decodeJSON(w, req, &body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	m, err := r.client.Menus.Create(req.Context(), body.Name, menuItemParams(body.MenuData))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, jsonapi.NewSingleResponse(serializer.MenuResource(m)))
}

// Update handles PUT /api/admin/menus/{name}, replacing every item.
func (r *MenusRouter) Update(w http.ResponseWriter, req *http.Request) {
	var body dto.MenuUpdateRequest
	if err := decodeJSON(w, req, &body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	m, err := r.client.Menus.ReplaceItems(req.Context(), chi.URLParam(req, "name"), menuItemParams(body.MenuData))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(serializer.MenuResource(m)))
}

// Reorder handles PUT /api/admin/menus/{name}/order.
func (r *MenusRouter) Reorder(w http.ResponseWriter, req *http.Request) {
	var body dto.MenuOrderRequest
	if err := decodeJSON(w, req, &body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	m, err := r.client.Menus.Reorder(req.Context(), chi.URLParam(req, "name"), body.Order)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(serializer.MenuResource(m)))
}

// Delete handles DELETE /api/admin/menus/{name}.
func (r *MenusRouter) Delete(w http.ResponseWriter, req *http.Request) {
	if err := r.client.Menus.Delete(req.Context(), chi.URLParam(req, "name")); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func menuItemParams(items []dto.MenuItemSchema) []service.MenuItemParams {
	out := make([]service.MenuItemParams, 0, len(items))
	for _, item := range items {
		out = append(out, service.MenuItemParams{
			ID:     item.ID,
			Title:  item.Title,
			URL:    item.URL,
			Target: item.Target,
		})
	}
	return out
}
