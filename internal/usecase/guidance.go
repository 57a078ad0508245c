// Package usecase contains application business logic services.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/soulease/guidance/internal/adapter/ai"
	"github.com/soulease/guidance/internal/adapter/observability"
	"github.com/soulease/guidance/internal/domain"
	"github.com/soulease/guidance/internal/service/quota"
)

// Result sources reported to callers so the UI can distinguish a cached or
// fallback result from a fresh completion.
const (
	SourceAI       = "ai"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// GuidanceService runs the recommendation pipeline: prompt construction,
// completion call, tolerant normalization, caching, and the fallback
// diversion. Configuration / auth / rate-limit / transport failures surface
// to the caller; a malformed reply is absorbed and the fallback catalog is
// returned instead.
type GuidanceService struct {
	Client            domain.CompletionClient
	Store             domain.SessionStore
	Prompts           *ai.PromptBuilder
	Normalizer        *ai.Normalizer
	Fallback          *ai.Fallback
	Quota             *quota.Window
	AnalysisFreshness time.Duration
}

// NewGuidanceService constructs a GuidanceService with its dependencies.
func NewGuidanceService(client domain.CompletionClient, store domain.SessionStore, q *quota.Window, analysisFreshness time.Duration) GuidanceService {
	return GuidanceService{
		Client:            client,
		Store:             store,
		Prompts:           ai.NewPromptBuilder(),
		Normalizer:        ai.NewNormalizer(),
		Fallback:          ai.NewFallback(),
		Quota:             q,
		AnalysisFreshness: analysisFreshness,
	}
}

// Recommend returns the career recommendation set for the session's stored
// profile. Recommendation lists have no freshness window; refresh bypasses
// the cache read but still overwrites the cached value on success.
func (s GuidanceService) Recommend(ctx context.Context, session string, refresh bool) ([]domain.CareerRecommendation, string, error) {
	profile, ok, err := s.loadProfile(ctx, session)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", fmt.Errorf("%w: no assessment profile for session", domain.ErrNotFound)
	}

	key := recommendationsKey(session, profile)
	if !refresh {
		var cached []domain.CareerRecommendation
		hit, err := s.Store.GetJSON(ctx, key, 0, &cached)
		if err != nil {
			return nil, "", err
		}
		observability.ObserveCacheLookup("recommendations", hit, false)
		if hit {
			return cached, SourceCache, nil
		}
	}

	if !s.Client.IsConfigured() {
		return nil, "", fmt.Errorf("%w: configure an API key to generate recommendations", domain.ErrNotConfigured)
	}

	s.Quota.Record()
	raw, err := s.Client.Complete(ctx, s.Prompts.Recommend(profile))
	if err != nil {
		return nil, "", err
	}

	recs, err := s.Normalizer.Recommendations(raw)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedResponse) {
			slog.Warn("recommendation reply unusable; serving fallback", slog.Any("error", err))
			observability.FallbacksTotal.WithLabelValues("recommendations").Inc()
			return s.Fallback.Recommendations(), SourceFallback, nil
		}
		return nil, "", err
	}

	// Fallback results are never cached; only normalizer output is.
	if err := s.Store.PutJSON(ctx, key, recs); err != nil {
		slog.Warn("recommendation cache write failed", slog.Any("error", err))
	}
	return recs, SourceAI, nil
}

// Analyze returns the compatibility analysis for one career. Analyses are
// cached per sanitized career title inside the freshness window.
func (s GuidanceService) Analyze(ctx context.Context, session, careerTitle string) (domain.CompatibilityAnalysis, string, error) {
	if strings.TrimSpace(careerTitle) == "" {
		return domain.CompatibilityAnalysis{}, "", fmt.Errorf("%w: career title required", domain.ErrInvalidArgument)
	}

	key := analysisKey(session, careerTitle)
	var cached domain.CompatibilityAnalysis
	hit, err := s.Store.GetJSON(ctx, key, s.AnalysisFreshness, &cached)
	if err != nil {
		return domain.CompatibilityAnalysis{}, "", err
	}
	observability.ObserveCacheLookup("analysis", hit, false)
	if hit {
		return cached, SourceCache, nil
	}

	if !s.Client.IsConfigured() {
		return domain.CompatibilityAnalysis{}, "", fmt.Errorf("%w: configure an API key to analyze careers", domain.ErrNotConfigured)
	}

	profile, _, err := s.loadProfile(ctx, session)
	if err != nil {
		return domain.CompatibilityAnalysis{}, "", err
	}

	s.Quota.Record()
	raw, err := s.Client.Complete(ctx, s.Prompts.Analyze(profile, careerTitle))
	if err != nil {
		return domain.CompatibilityAnalysis{}, "", err
	}

	analysis, err := s.Normalizer.Analysis(raw, careerTitle)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedResponse) {
			slog.Warn("analysis reply unusable; serving fallback", slog.String("career", careerTitle), slog.Any("error", err))
			observability.FallbacksTotal.WithLabelValues("analysis").Inc()
			return s.Fallback.Analysis(careerTitle), SourceFallback, nil
		}
		return domain.CompatibilityAnalysis{}, "", err
	}

	if err := s.Store.PutJSON(ctx, key, analysis); err != nil {
		slog.Warn("analysis cache write failed", slog.String("career", careerTitle), slog.Any("error", err))
	}
	return analysis, SourceAI, nil
}

// Advise answers a free-form question with plain text. Advice is not cached.
func (s GuidanceService) Advise(ctx context.Context, session, question string) (string, string, error) {
	if strings.TrimSpace(question) == "" {
		return "", "", fmt.Errorf("%w: question required", domain.ErrInvalidArgument)
	}
	if !s.Client.IsConfigured() {
		return "", "", fmt.Errorf("%w: configure an API key to ask for advice", domain.ErrNotConfigured)
	}

	profile, _, err := s.loadProfile(ctx, session)
	if err != nil {
		return "", "", err
	}

	s.Quota.Record()
	raw, err := s.Client.Complete(ctx, s.Prompts.Advise(profile, question))
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(raw) == "" {
		observability.FallbacksTotal.WithLabelValues("advice").Inc()
		return s.Fallback.Advice(), SourceFallback, nil
	}
	return strings.TrimSpace(raw), SourceAI, nil
}

// loadProfile reads the session's stored profile; absence is not an error
// here because Analyze and Advise tolerate partial context.
func (s GuidanceService) loadProfile(ctx context.Context, session string) (domain.UserProfile, bool, error) {
	profile := domain.UserProfile{}
	ok, err := s.Store.GetJSON(ctx, profileKey(session), 0, &profile)
	if err != nil {
		return nil, false, err
	}
	return profile, ok, nil
}
