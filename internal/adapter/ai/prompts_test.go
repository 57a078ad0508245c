package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulease/guidance/internal/domain"
)

func TestRecommendEmptyProfile(t *testing.T) {
	b := NewPromptBuilder()
	msgs := b.Recommend(domain.UserProfile{})
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "user", msgs[1].Role)
	// Every known assessment field renders as the placeholder.
	assert.Equal(t, len(assessmentFields), strings.Count(msgs[1].Content, notSpecified))
}

func TestRecommendPopulatedProfile(t *testing.T) {
	b := NewPromptBuilder()
	p := domain.UserProfile{
		"education_level":  "Bachelor's",
		"interests":        []any{"technology", "teaching"},
		"halal_importance": float64(5),
		"custom_note":      "prefers remote work",
	}
	msgs := b.Recommend(p)
	require.Len(t, msgs, 2)
	user := msgs[1].Content
	assert.Contains(t, user, "Education level: Bachelor's")
	assert.Contains(t, user, "technology, teaching")
	assert.Contains(t, user, "Importance of halal income (1-5): 5")
	// Unknown keys are appended, not dropped.
	assert.Contains(t, user, "custom_note: prefers remote work")
	// The schema example rides along so the model sees the exact shape.
	assert.Contains(t, user, `"recommendations"`)
}

func TestAnalyzeIncludesCareer(t *testing.T) {
	b := NewPromptBuilder()
	msgs := b.Analyze(domain.UserProfile{}, "Data Scientist")
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, `"Data Scientist"`)
	assert.Contains(t, msgs[1].Content, `"challenges"`)
}

func TestAdviseIncludesQuestion(t *testing.T) {
	b := NewPromptBuilder()
	msgs := b.Advise(domain.UserProfile{}, "Should I switch to nursing?")
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, "Should I switch to nursing?")
}

func TestChatMessageSequence(t *testing.T) {
	b := NewPromptBuilder()
	persona, ok := PersonaByID("scholar")
	require.True(t, ok)
	history := []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: "Assalamu alaikum"},
		{Role: domain.ChatRoleAssistant, Content: "Wa alaikum assalam"},
	}
	msgs := b.Chat(persona, history, "What does Islam say about ambition?")
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, persona.System, msgs[0].Content)
	assert.Equal(t, "user", msgs[1].Role)
	assert.Equal(t, "assistant", msgs[2].Role)
	assert.Equal(t, "What does Islam say about ambition?", msgs[3].Content)
}

func TestFormatAnswer(t *testing.T) {
	assert.Equal(t, notSpecified, formatAnswer(nil))
	assert.Equal(t, notSpecified, formatAnswer("  "))
	assert.Equal(t, notSpecified, formatAnswer([]any{}))
	assert.Equal(t, "a, b", formatAnswer([]string{"a", "b"}))
	assert.Equal(t, "3", formatAnswer(float64(3)))
	assert.Equal(t, "3.5", formatAnswer(float64(3.5)))
	assert.Equal(t, "true", formatAnswer(true))
}
