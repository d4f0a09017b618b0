package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siron93/moms-app/pkg/ctxutil"
)

func TestRecovery_NoPanic(t *testing.T) {
	called := false
	wrapped := Recovery(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))(okHandler(&called))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecovery_Panic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	wrapped := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("normalizer exploded")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/subjects/s1/timeline", nil)
	req = req.WithContext(ctxutil.WithRequestID(req.Context(), "req-9"))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "internal server error", body["error"])

	out := buf.String()
	assert.Contains(t, out, "panic recovered")
	assert.Contains(t, out, "normalizer exploded")
	assert.Contains(t, out, "req-9")
	assert.Contains(t, out, "stack=")
}

func TestRecovery_AbortHandlerRepanics(t *testing.T) {
	wrapped := Recovery(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
