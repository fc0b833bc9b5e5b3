package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveReorder(t *testing.T) {
	m := New()
	m.ObserveReorder("applied")
	m.ObserveReorder("applied")
	m.ObserveReorder("rejected")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reordersTotal.WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reordersTotal.WithLabelValues("rejected")))
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()
	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/api/pages/{slug}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, slug := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodGet, "/api/pages/"+slug, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/api/pages/{slug}", "404"))
	assert.Equal(t, 2.0, got)
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.ObserveReorder("applied")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `handbook_sidebar_reorders_total{outcome="applied"} 1`))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
