package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/somabay/handbook"
	"github.com/somabay/handbook/infrastructure/api/jsonapi"
	"github.com/somabay/handbook/infrastructure/api/middleware"
	"github.com/somabay/handbook/infrastructure/api/v1/dto"
)

// WidgetsRouter handles admin widget endpoints.
type WidgetsRouter struct {
	client *handbook.Client
	logger *slog.Logger
}

// NewWidgetsRouter creates a new WidgetsRouter.
func NewWidgetsRouter(client *handbook.Client) *WidgetsRouter {
	return &WidgetsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for admin widget endpoints.
func (r *WidgetsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Create)
	router.Get("/{name}", r.Get)
	router.Put("/{name}", r.Update)
	router.Delete("/{name}", r.Delete)

	return router
}

// List handles GET /api/admin/widgets.
func (r *WidgetsRouter) List(w http.ResponseWriter, req *http.Request) {
	widgets, err := r.client.Widgets.List(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewListResponse(serializer.WidgetResources(widgets)))
}

// Get handles GET /api/admin/widgets/{name}.
func (r *WidgetsRouter) Get(w http.ResponseWriter, req *http.Request) {
	wd, err := r.client.Widgets.Get(req.Context(), chi.URLParam(req, "name"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(serializer.WidgetResource(wd)))
}

// Create handles POST /api/admin/widgets.
func (r *WidgetsRouter) Create(w http.ResponseWriter, req *http.Request) {
	var body dto.WidgetCreateRequest
	if err := decodeJSON(w, req, &body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	wd, err := r.client.Widgets.Create(req.Context(), body.Name, body.WidgetType, body.WidgetData)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, jsonapi.NewSingleResponse(serializer.WidgetResource(wd)))
}

// Update handles PUT /api/admin/widgets/{name}.
func (r *WidgetsRouter) Update(w http.ResponseWriter, req *http.Request) {
	var body dto.WidgetUpdateRequest
	if err := decodeJSON(w, req, &body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	wd, err := r.client.Widgets.Update(req.Context(), chi.URLParam(req, "name"), body.WidgetType, body.WidgetData)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(serializer.WidgetResource(wd)))
}

// Delete handles DELETE /api/admin/widgets/{name}.
func (r *WidgetsRouter) Delete(w http.ResponseWriter, req *http.Request) {
	if err := r.client.Widgets.Delete(req.Context(), chi.URLParam(req, "name")); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
