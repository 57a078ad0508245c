package ai

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"github.com/soulease/guidance/internal/domain"
)

// Documented defaults substituted for fields the model omitted. The prompt
// carries the full schema example, but nothing enforces it on the remote
// side, so the normalizer guarantees the entity shape instead.
const (
	DefaultCompatibility = 75
	MinCompatibility     = 60
	MaxCompatibility     = 95
	DefaultGrowth        = domain.GrowthMedium
	DefaultIndustry      = "Various"
	DefaultSalaryRange   = "Competitive"
	DefaultEnvironment   = "Varies"
	DefaultEducation     = "Varies by role"
)

// Normalizer converts raw completion text into typed entities, tolerating
// deviation from the requested format. It is a pure transform: the same raw
// text always yields field-for-field identical entities.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer constructs a Normalizer using wall-clock time for generation
// timestamps.
func NewNormalizer() *Normalizer { return &Normalizer{now: time.Now} }

// NewNormalizerAt constructs a Normalizer with an injected clock.
func NewNormalizerAt(now func() time.Time) *Normalizer { return &Normalizer{now: now} }

type recommendationPayload struct {
	Recommendations []recommendationItem `json:"recommendations"`
}

type recommendationItem struct {
	Title              string                    `json:"title"`
	Description        string                    `json:"description"`
	Industry           string                    `json:"industry"`
	Compatibility      *float64                  `json:"compatibility"`
	SalaryRange        string                    `json:"salaryRange"`
	Growth             string                    `json:"growth"`
	WorkEnvironment    string                    `json:"workEnvironment"`
	EducationRequired  string                    `json:"educationRequired"`
	MatchReasons       []string                  `json:"matchReasons"`
	IslamicPerspective domain.IslamicPerspective `json:"islamicPerspective"`
	Skills             []string                  `json:"skills"`
	Companies          []string                  `json:"companies"`
	JobTitles          []string                  `json:"jobTitles"`
	NextSteps          []string                  `json:"nextSteps"`
}

type analysisPayload struct {
	Compatibility      *float64                  `json:"compatibility"`
	MatchReasons       []string                  `json:"matchReasons"`
	Challenges         []string                  `json:"challenges"`
	IslamicPerspective domain.IslamicPerspective `json:"islamicPerspective"`
	NextSteps          []string                  `json:"nextSteps"`
}

// Recommendations extracts and normalizes a recommendation set from raw
// completion text. Returns domain.ErrMalformedResponse when no parsable JSON
// object with a non-empty recommendations list can be recovered.
func (n *Normalizer) Recommendations(raw string) ([]domain.CareerRecommendation, error) {
	var payload recommendationPayload
	if err := n.decode(raw, &payload); err != nil {
		return nil, err
	}
	if len(payload.Recommendations) == 0 {
		return nil, fmt.Errorf("%w: reply has no recommendations", domain.ErrMalformedResponse)
	}
	out := make([]domain.CareerRecommendation, 0, len(payload.Recommendations))
	for i, item := range payload.Recommendations {
		rec := domain.CareerRecommendation{
			ID:                 slugOr(item.Title, fmt.Sprintf("career-%d", i+1)),
			Title:              defaultStr(item.Title, fmt.Sprintf("Career %d", i+1)),
			Description:        item.Description,
			Industry:           defaultStr(item.Industry, DefaultIndustry),
			Compatibility:      clampCompatibility(item.Compatibility),
			SalaryRange:        defaultStr(item.SalaryRange, DefaultSalaryRange),
			Growth:             defaultStr(item.Growth, DefaultGrowth),
			WorkEnvironment:    defaultStr(item.WorkEnvironment, DefaultEnvironment),
			EducationRequired:  defaultStr(item.EducationRequired, DefaultEducation),
			MatchReasons:       orEmpty(item.MatchReasons),
			IslamicPerspective: item.IslamicPerspective,
			Skills:             orEmpty(item.Skills),
			Companies:          orEmpty(item.Companies),
			JobTitles:          orEmpty(item.JobTitles),
			NextSteps:          orEmpty(item.NextSteps),
		}
		out = append(out, rec)
	}
	return out, nil
}

// Analysis extracts and normalizes a single-career compatibility analysis.
func (n *Normalizer) Analysis(raw, careerTitle string) (domain.CompatibilityAnalysis, error) {
	var payload analysisPayload
	if err := n.decode(raw, &payload); err != nil {
		return domain.CompatibilityAnalysis{}, err
	}
	return domain.CompatibilityAnalysis{
		CareerTitle:        careerTitle,
		Compatibility:      clampCompatibility(payload.Compatibility),
		MatchReasons:       orEmpty(payload.MatchReasons),
		Challenges:         orEmpty(payload.Challenges),
		IslamicPerspective: payload.IslamicPerspective,
		NextSteps:          orEmpty(payload.NextSteps),
		GeneratedAt:        n.now().UTC(),
	}, nil
}

// decode runs the tolerant extraction chain: strip fences, locate the first
// balanced object, parse, and as a last resort repair and re-parse.
func (n *Normalizer) decode(raw string, dst any) error {
	obj := extractJSONObject(stripCodeFences(raw))
	if obj == "" {
		return fmt.Errorf("%w: no json object in reply", domain.ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(obj), dst); err == nil {
		return nil
	}
	repaired, err := jsonrepair.JSONRepair(obj)
	if err != nil {
		return fmt.Errorf("%w: repair failed: %v", domain.ErrMalformedResponse, err)
	}
	if err := json.Unmarshal([]byte(repaired), dst); err != nil {
		slog.Debug("repaired reply still unparsable", slog.Any("error", err))
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}

// clampCompatibility applies the documented default and clamps to the
// [MinCompatibility, MaxCompatibility] display range.
func clampCompatibility(v *float64) int {
	if v == nil {
		return DefaultCompatibility
	}
	c := int(math.Round(*v))
	if c < MinCompatibility {
		return MinCompatibility
	}
	if c > MaxCompatibility {
		return MaxCompatibility
	}
	return c
}

func defaultStr(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugOr derives a stable id from a title so normalization stays idempotent.
func slugOr(title, def string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return def
	}
	return s
}
