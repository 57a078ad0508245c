package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulease/guidance/internal/domain"
)

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		status   int
		codeStr  string
	}{
		{domain.ErrInvalidArgument, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrNotConfigured, http.StatusUnauthorized, "NOT_CONFIGURED"},
		{domain.ErrAuth, http.StatusUnauthorized, "UPSTREAM_AUTH"},
		{domain.ErrForbidden, http.StatusForbidden, "UPSTREAM_FORBIDDEN"},
		{domain.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{domain.ErrTransport, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE"},
		{domain.ErrMalformedResponse, http.StatusBadGateway, "MALFORMED_RESPONSE"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.codeStr, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			writeError(rec, req, fmt.Errorf("wrap: %w", tc.err), nil)
			assert.Equal(t, tc.status, rec.Code)

			var env errorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tc.codeStr, env.Error.Code)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestSessionRequired(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(SessionFrom(r)))
	})
	h := SessionRequired(next)

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("oversized header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		long := make([]byte, maxSessionIDLen+1)
		for i := range long {
			long[i] = 'a'
		}
		req.Header.Set("X-Session-Id", string(long))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("valid header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Session-Id", "session-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "session-123", rec.Body.String())
	})
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRequestIDGenerated(t *testing.T) {
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
