package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/soulease/guidance/internal/config"
	"github.com/soulease/guidance/internal/domain"
	"github.com/soulease/guidance/internal/service/quota"
	"github.com/soulease/guidance/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Guidance   usecase.GuidanceService
	Chat       usecase.ChatService
	Mood       usecase.MoodService
	Profiles   usecase.ProfileService
	Verses     domain.VerseProvider
	Hadiths    domain.HadithProvider
	Client     domain.CompletionClient
	Quota      *quota.Window
	RedisCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, guidance usecase.GuidanceService, chat usecase.ChatService, mood usecase.MoodService, profiles usecase.ProfileService, verses domain.VerseProvider, hadiths domain.HadithProvider, client domain.CompletionClient, q *quota.Window, redisCheck func(context.Context) error) *Server {
	return &Server{
		Cfg:        cfg,
		Guidance:   guidance,
		Chat:       chat,
		Mood:       mood,
		Profiles:   profiles,
		Verses:     verses,
		Hadiths:    hadiths,
		Client:     client,
		Quota:      q,
		RedisCheck: redisCheck,
	}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// decodeJSON decodes a capped JSON body and runs struct validation.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument)
	}
	if err := getValidator().Struct(dst); err != nil {
		verrs := map[string]string{}
		if ve, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range ve {
				verrs[strings.ToLower(fe.Field())] = fe.Tag()
			}
		}
		return fmt.Errorf("%w: validation failed (%v)", domain.ErrInvalidArgument, verrs)
	}
	return nil
}

// setQuotaHeader exposes the advisory remaining budget on completion-backed
// responses. It never blocks anything.
func (s *Server) setQuotaHeader(w http.ResponseWriter) {
	w.Header().Set("X-Quota-Remaining", strconv.Itoa(s.Quota.Remaining()))
}

// ProfileSaveHandler overwrites the session's assessment profile.
func (s *Server) ProfileSaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		profile := domain.UserProfile{}
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := s.Profiles.Save(r.Context(), SessionFrom(r), profile); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
	}
}

// ProfileGetHandler returns the stored profile.
func (s *Server) ProfileGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.Profiles.Get(r.Context(), SessionFrom(r))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

// RecommendationsHandler runs the recommendation pipeline.
func (s *Server) RecommendationsHandler() http.HandlerFunc {
	type req struct {
		Refresh bool `json:"refresh"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in req
		if r.ContentLength > 0 {
			if err := decodeJSON(w, r, &in); err != nil {
				writeError(w, r, err, nil)
				return
			}
		}
		recs, source, err := s.Guidance.Recommend(r.Context(), SessionFrom(r), in.Refresh)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		s.setQuotaHeader(w)
		writeJSON(w, http.StatusOK, map[string]any{
			"recommendations": recs,
			"source":          source,
		})
	}
}

// AnalyzeHandler returns a compatibility analysis for one career.
func (s *Server) AnalyzeHandler() http.HandlerFunc {
	type req struct {
		CareerTitle string `json:"career_title" validate:"required,max=200"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in req
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, err, nil)
			return
		}
		analysis, source, err := s.Guidance.Analyze(r.Context(), SessionFrom(r), in.CareerTitle)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		s.setQuotaHeader(w)
		writeJSON(w, http.StatusOK, map[string]any{
			"analysis": analysis,
			"source":   source,
		})
	}
}

// AdviceHandler answers a free-form career question with plain text.
func (s *Server) AdviceHandler() http.HandlerFunc {
	type req struct {
		Question string `json:"question" validate:"required,max=2000"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in req
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, err, nil)
			return
		}
		advice, source, err := s.Guidance.Advise(r.Context(), SessionFrom(r), in.Question)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		s.setQuotaHeader(w)
		writeJSON(w, http.StatusOK, map[string]any{
			"advice": advice,
			"source": source,
		})
	}
}

// ChatSendHandler sends a message to one persona and returns the reply.
func (s *Server) ChatSendHandler() http.HandlerFunc {
	type req struct {
		Message string `json:"message" validate:"required,max=4000"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in req
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, err, nil)
			return
		}
		reply, err := s.Chat.Send(r.Context(), SessionFrom(r), chi.URLParam(r, "persona"), in.Message)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		s.setQuotaHeader(w)
		writeJSON(w, http.StatusOK, map[string]any{"message": reply})
	}
}

// ChatHistoryHandler returns the persisted conversation window.
func (s *Server) ChatHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := s.Chat.History(r.Context(), SessionFrom(r), chi.URLParam(r, "persona"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"messages": history})
	}
}

// ChatClearHandler deletes one persona's conversation.
func (s *Server) ChatClearHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Chat.Clear(r.Context(), SessionFrom(r), chi.URLParam(r, "persona")); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}

// MoodUpsertHandler records today's mood entry, replacing any earlier one
// for the same date.
func (s *Server) MoodUpsertHandler() http.HandlerFunc {
	type req struct {
		Mood      int    `json:"mood" validate:"required,min=1,max=5"`
		Note      string `json:"note" validate:"max=2000"`
		Gratitude bool   `json:"gratitude"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in req
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, err, nil)
			return
		}
		entry, err := s.Mood.Upsert(r.Context(), SessionFrom(r), in.Mood, in.Note, in.Gratitude)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entry": entry})
	}
}

// MoodListHandler returns the full journal, oldest first.
func (s *Server) MoodListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.Mood.List(r.Context(), SessionFrom(r))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
	}
}

// VerseHandler serves the verse of the day.
func (s *Server) VerseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		verse, err := s.Verses.VerseOfDay(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, verse)
	}
}

// HadithHandler serves the hadith of the day.
func (s *Server) HadithHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hadith, err := s.Hadiths.HadithOfDay(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, hadith)
	}
}

// QuotaHandler reports the advisory request budget.
func (s *Server) QuotaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"limit":     s.Quota.Limit(),
			"used":      s.Quota.Used(),
			"remaining": s.Quota.Remaining(),
			"window":    "1m",
		})
	}
}

// KeyCheckHandler probes the completion provider with a minimal request and
// reports whether the configured key works.
func (s *Server) KeyCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.Client.IsConfigured() {
			writeJSON(w, http.StatusOK, map[string]any{"configured": false, "valid": false})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		writeJSON(w, http.StatusOK, map[string]any{
			"configured": true,
			"valid":      s.Client.TestConnection(ctx),
		})
	}
}

// ReadyzHandler probes Redis.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 1)
		if s.RedisCheck != nil {
			if err := s.RedisCheck(ctx); err != nil {
				checks = append(checks, check{Name: "redis", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "redis", OK: true})
			}
		}
		ok := true
		for _, c := range checks {
			if !c.OK {
				ok = false
				break
			}
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
