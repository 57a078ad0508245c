package groq

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulease/guidance/internal/config"
	"github.com/soulease/guidance/internal/domain"
)

func testCfg(baseURL string) config.Config {
	return config.Config{
		GroqAPIKey:      "test-key",
		GroqBaseURL:     baseURL,
		ChatModel:       "llama-3.3-70b-versatile",
		ChatMaxTokens:   256,
		ChatTemperature: 0.7,
		ChatTopP:        1.0,
		ChatTimeout:     5 * time.Second,
	}
}

func okReply(content string) string {
	return `{"model":"llama-3.3-70b-versatile","choices":[{"message":{"content":` + jsonString(content) + `}}]}`
}

func jsonString(s string) string { return `"` + s + `"` }

func TestCompleteSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okReply("hello there")))
	}))
	defer srv.Close()

	c := New(testCfg(srv.URL))
	out, err := c.Complete(context.Background(), []domain.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCompleteStatusClassification(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrAuth},
		{http.StatusForbidden, domain.ErrForbidden},
		{http.StatusTooManyRequests, domain.ErrRateLimited},
		{http.StatusInternalServerError, domain.ErrTransport},
		{http.StatusBadGateway, domain.ErrTransport},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
			}))
			defer srv.Close()

			c := New(testCfg(srv.URL))
			_, err := c.Complete(context.Background(), []domain.Message{{Role: "user", Content: "hi"}})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			// Calls are never retried here.
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	c := New(testCfg(srv.URL))
	_, err := c.Complete(context.Background(), []domain.Message{{Role: "user", Content: "hi"}})
	assert.True(t, errors.Is(err, domain.ErrTransport))
}

func TestCompleteNotConfigured(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(okReply("should not happen")))
	}))
	defer srv.Close()

	cfg := testCfg(srv.URL)
	cfg.GroqAPIKey = ""
	c := New(cfg)
	assert.False(t, c.IsConfigured())

	_, err := c.Complete(context.Background(), []domain.Message{{Role: "user", Content: "hi"}})
	assert.True(t, errors.Is(err, domain.ErrNotConfigured))
	// Without a key no network call is made at all.
	assert.Equal(t, int32(0), calls.Load())
}

func TestCompleteEmptyMessages(t *testing.T) {
	c := New(testCfg("http://127.0.0.1:0"))
	_, err := c.Complete(context.Background(), nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestTestConnection(t *testing.T) {
	reply := "OK"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(okReply(reply)))
	}))
	defer srv.Close()

	c := New(testCfg(srv.URL))
	assert.True(t, c.TestConnection(context.Background()))

	reply = "I cannot comply."
	assert.False(t, c.TestConnection(context.Background()))
}

func TestTestConnectionNotConfigured(t *testing.T) {
	cfg := testCfg("http://127.0.0.1:0")
	cfg.GroqAPIKey = ""
	assert.False(t, New(cfg).TestConnection(context.Background()))
}
