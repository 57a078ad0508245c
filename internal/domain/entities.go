// Package domain holds the core entities and ports of the guidance service.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrNotConfigured     = errors.New("completion client not configured")
	ErrAuth              = errors.New("invalid credentials")
	ErrForbidden         = errors.New("forbidden")
	ErrRateLimited       = errors.New("rate limited")
	ErrTransport         = errors.New("transport failure")
	ErrMalformedResponse = errors.New("malformed response")
)

// UserProfile is a flat mapping of assessment-question keys to answers.
// Keys are not enforced; any of them may be absent. Values are strings,
// numbers on a 1-5 scale, or lists of strings depending on the question.
type UserProfile map[string]any

// Growth levels reported on recommendations.
const (
	GrowthLow      = "Low"
	GrowthMedium   = "Medium"
	GrowthHigh     = "High"
	GrowthVeryHigh = "Very High"
)

// CareerRecommendation is one recommended career for a profile.
// Immutable once created; a refresh produces a new set of objects.
type CareerRecommendation struct {
	ID                 string             `json:"id"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	Industry           string             `json:"industry"`
	Compatibility      int                `json:"compatibility"`
	SalaryRange        string             `json:"salaryRange"`
	Growth             string             `json:"growth"`
	WorkEnvironment    string             `json:"workEnvironment"`
	EducationRequired  string             `json:"educationRequired"`
	MatchReasons       []string           `json:"matchReasons"`
	IslamicPerspective IslamicPerspective `json:"islamicPerspective"`
	Skills             []string           `json:"skills"`
	Companies          []string           `json:"companies"`
	JobTitles          []string           `json:"jobTitles"`
	NextSteps          []string           `json:"nextSteps"`
}

// CompatibilityAnalysis is a deep analysis of one (career, profile) pair.
type CompatibilityAnalysis struct {
	CareerTitle        string             `json:"careerTitle"`
	Compatibility      int                `json:"compatibility"`
	MatchReasons       []string           `json:"matchReasons"`
	Challenges         []string           `json:"challenges"`
	IslamicPerspective IslamicPerspective `json:"islamicPerspective"`
	NextSteps          []string           `json:"nextSteps"`
	GeneratedAt        time.Time          `json:"generatedAt"`
}

// ChatRole identifies the author of a chat message.
type ChatRole string

// Chat roles.
const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// Citation is an optional verse or hadith reference attached to a message.
type Citation struct {
	Source    string `json:"source"` // "quran" or "hadith"
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// ChatMessage is one entry in a mentor conversation. Sequences are
// append-only per (session, persona) and persisted as a bounded window.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Citation  *Citation `json:"citation,omitempty"`
}

// MoodEntry is one journal entry. One entry per calendar day; writing a new
// entry for today replaces any existing entry for that date.
type MoodEntry struct {
	ID        string `json:"id"`
	Date      string `json:"date"` // YYYY-MM-DD
	Mood      int    `json:"mood"` // 1-5
	Emoji     string `json:"emoji"`
	Note      string `json:"note,omitempty"`
	Gratitude bool   `json:"gratitude,omitempty"`
}

// Verse is a Quran verse fetched from the content API.
type Verse struct {
	Reference   string `json:"reference"`
	Surah       string `json:"surah"`
	Number      int    `json:"number"`
	ArabicText  string `json:"arabicText"`
	Translation string `json:"translation"`
}

// Hadith is a hadith fetched from the content API.
type Hadith struct {
	Collection string `json:"collection"`
	Reference  string `json:"reference"`
	Narrator   string `json:"narrator"`
	Text       string `json:"text"`
}

// Message is one chat-completion message on the wire.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionClient (port)
//
// Complete sends the message sequence to the hosted completion service and
// returns the assistant's raw text. The call is not retried here; callers
// classify the returned sentinel and decide. Sampling is nondeterministic
// (temperature 0.7), so repeated calls may differ.
type CompletionClient interface {
	IsConfigured() bool
	Complete(ctx context.Context, msgs []Message) (string, error)
	TestConnection(ctx context.Context) bool
}

// SessionStore (port)
//
// String-keyed JSON persistence scoped per user session. Every stored value
// carries a generation timestamp; GetJSON reports a miss when the entry is
// absent or older than maxAge (maxAge <= 0 disables the freshness check).
// Writes are unconditional; concurrent writers race and the last write wins.
type SessionStore interface {
	GetJSON(ctx context.Context, key string, maxAge time.Duration, dst any) (bool, error)
	PutJSON(ctx context.Context, key string, v any) error
	Del(ctx context.Context, keys ...string) error
}

// Content providers (ports). Both return untrusted external data; adapters
// must decode defensively.
type VerseProvider interface {
	VerseOfDay(ctx context.Context) (Verse, error)
}

// HadithProvider fetches a hadith for display.
type HadithProvider interface {
	HadithOfDay(ctx context.Context) (Hadith, error)
}
