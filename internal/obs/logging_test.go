package obs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRequestLoggerWritesRouteAndStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "json", "info")

	var scoped *zerolog.Logger
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger{Logger: logger}.Middleware)
	r.Get("/api/v1/products", func(w http.ResponseWriter, r *http.Request) {
		scoped = zerolog.Ctx(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	require.NotNil(t, scoped)
	require.NotEqual(t, zerolog.Disabled, scoped.GetLevel())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "http_request", entry["message"])
	require.Equal(t, "/api/v1/products", entry["route"])
	require.Equal(t, float64(http.StatusTeapot), entry["status"])
	require.NotEmpty(t, entry["request_id"])
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	var buf bytes.Buffer
	logger := newLogger(&buf, "json", "nonsense")
	logger.Debug().Msg("hidden")
	require.Zero(t, buf.Len())
	logger.Info().Msg("shown")
	require.NotZero(t, buf.Len())
}
