package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/middleware/metadata"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/requestcontext"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIdentity(t *testing.T) {
	var seen uuid.UUID
	var requestID string
	r := chi.NewRouter()
	r.Use(chimw.RequestID, Identity(discard()))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		seen = uuid.UUID(requestcontext.UserID(req.Context()))
		requestID = requestcontext.RequestID(req.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid header populates the user id", func(t *testing.T) {
		userID := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderUserID, userID.String())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID, seen)
		assert.NotEmpty(t, requestID)
	})

	t.Run("missing header leaves the user anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uuid.Nil, seen)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderUserID, "staff-7")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := chi.NewRouter()
	r.Use(metadata.ClientMetadata, AccessLog(logger))
	r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.7, 172.16.0.1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "status=503")
	assert.Contains(t, out, "client_ip=10.0.0.7")
}
