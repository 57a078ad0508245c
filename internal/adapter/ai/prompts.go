// Package ai implements the prompt, normalization, and fallback layers of the
// guidance pipeline.
package ai

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soulease/guidance/internal/domain"
)

// PromptBuilder assembles chat-completion message sequences from a user
// profile and a task. It is pure and never fails on missing profile keys;
// every absent answer renders as "Not specified".
type PromptBuilder struct{}

// NewPromptBuilder constructs a PromptBuilder.
func NewPromptBuilder() *PromptBuilder { return &PromptBuilder{} }

const notSpecified = "Not specified"

// assessmentFields fixes the order and labels of the known assessment answers
// embedded into prompts. Unknown profile keys are appended after these.
var assessmentFields = []struct {
	key   string
	label string
}{
	{"education_level", "Education level"},
	{"work_style", "Preferred work style"},
	{"interests", "Interests"},
	{"strengths", "Strengths"},
	{"skills", "Current skills"},
	{"halal_importance", "Importance of halal income (1-5)"},
	{"ummah_service", "Desire to serve the community (1-5)"},
	{"work_life_balance", "Work-life balance priority (1-5)"},
	{"career_goals", "Career goals"},
}

const recommendSystem = `You are an experienced career counselor specializing in guidance for Muslim professionals. You weigh both worldly career factors (salary, growth, environment) and Islamic considerations (halal income, benefit to the community, work-life balance for worship and family).

CRITICAL: Respond with ONLY valid JSON matching the shape you are given. No prose, no markdown, no explanations outside the JSON.`

const recommendSchema = `{
  "recommendations": [
    {
      "title": "Software Engineer",
      "description": "One or two sentences describing the career.",
      "industry": "Technology",
      "compatibility": 85,
      "salaryRange": "$70,000 - $120,000",
      "growth": "High",
      "workEnvironment": "Office or remote, collaborative teams",
      "educationRequired": "Bachelor's degree in a related field",
      "matchReasons": ["Reason tied to the profile"],
      "islamicPerspective": {
        "alignment": "High",
        "description": "How the career aligns with Islamic values.",
        "considerations": ["Point to be mindful of"]
      },
      "skills": ["Skill"],
      "companies": ["Example employer"],
      "jobTitles": ["Related title"],
      "nextSteps": ["Concrete first step"]
    }
  ]
}`

const analyzeSystem = `You are an experienced career counselor specializing in guidance for Muslim professionals. You produce honest compatibility analyses: real strengths, real challenges, and the Islamic dimension of the work.

CRITICAL: Respond with ONLY valid JSON matching the shape you are given. No prose, no markdown, no explanations outside the JSON.`

const analyzeSchema = `{
  "compatibility": 82,
  "matchReasons": ["Strength from the profile"],
  "challenges": ["Honest difficulty to expect"],
  "islamicPerspective": "How this career relates to Islamic values for this person.",
  "nextSteps": ["Concrete action"]
}`

const adviseSystem = `You are a warm, practical career mentor for Muslim professionals. Answer the question directly, in plain text, grounding advice in both professional experience and Islamic values. Keep the answer under 300 words.`

// Recommend builds the message pair for a full recommendation set.
func (b *PromptBuilder) Recommend(p domain.UserProfile) []domain.Message {
	var sb strings.Builder
	sb.WriteString("Based on the assessment answers below, recommend 5 careers for this person, ordered by compatibility.\n\n")
	sb.WriteString("Assessment answers:\n")
	sb.WriteString(b.profileSection(p))
	sb.WriteString("\nRespond with ONLY valid JSON exactly matching this shape (example values shown):\n")
	sb.WriteString(recommendSchema)
	return []domain.Message{
		{Role: "system", Content: recommendSystem},
		{Role: "user", Content: sb.String()},
	}
}

// Analyze builds the message pair for a single-career compatibility analysis.
func (b *PromptBuilder) Analyze(p domain.UserProfile, careerTitle string) []domain.Message {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze how compatible the career %q is for the person described by the assessment answers below.\n\n", careerTitle)
	sb.WriteString("Assessment answers:\n")
	sb.WriteString(b.profileSection(p))
	sb.WriteString("\nRespond with ONLY valid JSON exactly matching this shape (example values shown):\n")
	sb.WriteString(analyzeSchema)
	return []domain.Message{
		{Role: "system", Content: analyzeSystem},
		{Role: "user", Content: sb.String()},
	}
}

// Advise builds the message pair for free-form career advice.
func (b *PromptBuilder) Advise(p domain.UserProfile, question string) []domain.Message {
	var sb strings.Builder
	sb.WriteString("Context about the person asking (assessment answers, may be incomplete):\n")
	sb.WriteString(b.profileSection(p))
	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	return []domain.Message{
		{Role: "system", Content: adviseSystem},
		{Role: "user", Content: sb.String()},
	}
}

// Chat builds the full message sequence for a mentor conversation: the
// persona's system prompt, the bounded history, then the new user message.
func (b *PromptBuilder) Chat(persona Persona, history []domain.ChatMessage, userMsg string) []domain.Message {
	msgs := make([]domain.Message, 0, len(history)+2)
	msgs = append(msgs, domain.Message{Role: "system", Content: persona.System})
	for _, m := range history {
		msgs = append(msgs, domain.Message{Role: string(m.Role), Content: m.Content})
	}
	msgs = append(msgs, domain.Message{Role: "user", Content: userMsg})
	return msgs
}

// profileSection serializes the profile with stable ordering. Known fields
// come first with readable labels; leftover keys follow alphabetically.
func (b *PromptBuilder) profileSection(p domain.UserProfile) string {
	var sb strings.Builder
	seen := make(map[string]bool, len(assessmentFields))
	for _, f := range assessmentFields {
		seen[f.key] = true
		fmt.Fprintf(&sb, "- %s: %s\n", f.label, formatAnswer(p[f.key]))
	}
	extras := make([]string, 0)
	for k := range p {
		if !seen[k] {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	for _, k := range extras {
		fmt.Fprintf(&sb, "- %s: %s\n", k, formatAnswer(p[k]))
	}
	return sb.String()
}

// formatAnswer renders any answer value; absent or empty answers become the
// "Not specified" placeholder rather than failing.
func formatAnswer(v any) string {
	switch t := v.(type) {
	case nil:
		return notSpecified
	case string:
		if strings.TrimSpace(t) == "" {
			return notSpecified
		}
		return t
	case []string:
		if len(t) == 0 {
			return notSpecified
		}
		return strings.Join(t, ", ")
	case []any:
		if len(t) == 0 {
			return notSpecified
		}
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, formatAnswer(e))
		}
		return strings.Join(parts, ", ")
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
