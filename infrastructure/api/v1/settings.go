package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/somabay/handbook"
	"github.com/somabay/handbook/domain/setting"
	"github.com/somabay/handbook/infrastructure/api/middleware"
	"github.com/somabay/handbook/infrastructure/api/v1/dto"
)

// SettingsRouter handles admin settings endpoints.
type SettingsRouter struct {
	client *handbook.Client
	logger *slog.Logger
}

// NewSettingsRouter creates a new SettingsRouter.
func NewSettingsRouter(client *handbook.Client) *SettingsRouter {
	return &SettingsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for admin settings endpoints.
func (r *SettingsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.Get)
	router.Put("/", r.Update)

	return router
}

// Get handles GET /api/admin/settings.
func (r *SettingsRouter) Get(w http.ResponseWriter, req *http.Request) {
	values, err := r.client.Settings.All(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.SettingsResponse{Settings: settingsToMap(values)})
}

// Update handles PUT /api/admin/settings. Unknown keys are ignored and
// reported back.
func (r *SettingsRouter) Update(w http.ResponseWriter, req *http.Request) {
	var body map[string]string
	if err := decodeJSON(w, req, &body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	values, ignored, err := r.client.Settings.Update(req.Context(), body)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.SettingsResponse{Settings: settingsToMap(values), Ignored: ignored})
}

func settingsToMap(values setting.Values) map[string]string {
	out := make(map[string]string, len(setting.Keys))
	for _, k := range setting.Keys {
		out[string(k)] = values[k]
	}
	return out
}
