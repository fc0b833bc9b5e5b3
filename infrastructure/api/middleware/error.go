package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/somabay/handbook/domain/page"
	"github.com/somabay/handbook/domain/tree"
	"github.com/somabay/handbook/infrastructure/api/jsonapi"
	"github.com/somabay/handbook/internal/database"
	"github.com/somabay/handbook/internal/domain"
)

// ContentTypeJSONAPI is the media type of error documents.
const ContentTypeJSONAPI = "application/vnd.api+json"

// sourced is implemented by errors that can point at the offending request
// field.
type sourced interface {
	SourcePointer() string
}

// classify maps an error to its HTTP status and title. The error text is
// surfaced unchanged as the detail.
func classify(err error) (int, string, string) {
	var (
		apiErr  *APIError
		authErr *AuthenticationError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Code(), "API Error", apiErr.Message()
	case errors.As(err, &authErr):
		return http.StatusUnauthorized, "Unauthorized", authErr.Error()
	case errors.Is(err, tree.ErrDuplicateID):
		return http.StatusInternalServerError, "Corrupt Snapshot", err.Error()
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound, "Not Found", err.Error()
	case errors.Is(err, tree.ErrUnknownNode):
		return http.StatusBadRequest, "Unknown Node", err.Error()
	case errors.Is(err, tree.ErrDuplicateReference):
		return http.StatusBadRequest, "Duplicate Reference", err.Error()
	case errors.Is(err, tree.ErrIncompleteOrder):
		return http.StatusBadRequest, "Incomplete Order", err.Error()
	case errors.Is(err, tree.ErrStructuralViolation):
		return http.StatusBadRequest, "Structural Violation", err.Error()
	case errors.Is(err, tree.ErrValidation), errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "Validation Error", err.Error()
	case errors.Is(err, page.ErrSlugTaken), errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "Conflict", err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Forbidden", err.Error()
	case errors.Is(err, tree.ErrSessionBusy):
		return http.StatusConflict, "Busy", err.Error()
	}
	return http.StatusInternalServerError, "Internal Server Error", err.Error()
}

// StatusFor returns the HTTP status WriteError would use for err.
func StatusFor(err error) int {
	status, _, _ := classify(err)
	return status
}

// WriteError writes a JSON:API formatted error response.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status, title, detail := classify(err)
	correlationID := GetCorrelationID(r.Context())

	if logger != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(r.Context(), level, "request error",
			slog.Int("status", status),
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
		)
	}

	apiErr := jsonapi.Error{
		ID:     correlationID,
		Status: strconv.Itoa(status),
		Title:  title,
		Detail: detail,
	}
	var src sourced
	if errors.As(err, &src) {
		apiErr.Source = &jsonapi.ErrorSource{Pointer: src.SourcePointer()}
	}
	doc := jsonapi.NewErrorResponse(apiErr)

	w.Header().Set("Content-Type", ContentTypeJSONAPI)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(doc)
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
