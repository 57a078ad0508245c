// Package app wires configuration, adapters, and routes into the running
// HTTP service.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/soulease/guidance/internal/adapter/httpserver"
	"github.com/soulease/guidance/internal/adapter/observability"
	"github.com/soulease/guidance/internal/config"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming spaces.
// If the input is empty, returns ["*"].
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TimeoutMiddleware(90 * time.Second))
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Quota-Remaining"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Session-scoped routes. Completion-backed endpoints are additionally
	// rate limited per client IP.
	r.Group(func(sr chi.Router) {
		sr.Use(httpserver.SessionRequired)

		sr.Put("/v1/profile", srv.ProfileSaveHandler())
		sr.Get("/v1/profile", srv.ProfileGetHandler())

		sr.Group(func(cr chi.Router) {
			cr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, 1*time.Minute))
			cr.Post("/v1/recommendations", srv.RecommendationsHandler())
			cr.Post("/v1/careers/analyze", srv.AnalyzeHandler())
			cr.Post("/v1/advice", srv.AdviceHandler())
			cr.Post("/v1/chat/{persona}", srv.ChatSendHandler())
		})

		sr.Get("/v1/chat/{persona}", srv.ChatHistoryHandler())
		sr.Delete("/v1/chat/{persona}", srv.ChatClearHandler())

		sr.Put("/v1/mood", srv.MoodUpsertHandler())
		sr.Get("/v1/mood", srv.MoodListHandler())
	})

	// Global read-only endpoints.
	r.Get("/v1/content/verse", srv.VerseHandler())
	r.Get("/v1/content/hadith", srv.HadithHandler())
	r.Get("/v1/quota", srv.QuotaHandler())
	r.Get("/v1/key/check", srv.KeyCheckHandler())

	// Health and metrics.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) { promhttp.Handler().ServeHTTP(w, r) })
	r.Get("/readyz", srv.ReadyzHandler())

	return httpserver.SecurityHeaders(r)
}
