package tokencount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulease/guidance/internal/domain"
)

func TestCalculateUsage(t *testing.T) {
	msgs := []domain.Message{
		{Role: "system", Content: "You are a helpful career counselor."},
		{Role: "user", Content: "What career suits someone who loves teaching?"},
	}
	usage, err := CalculateUsage(msgs, "Teaching itself is a strong fit.", "llama-3.3-70b-versatile")
	require.NoError(t, err)
	assert.Greater(t, usage.PromptTokens, 0)
	assert.Greater(t, usage.CompletionTokens, 0)
	assert.Equal(t, usage.PromptTokens+usage.CompletionTokens, usage.TotalTokens)
}

func TestCalculateUsageEmptyCompletion(t *testing.T) {
	usage, err := CalculateUsage([]domain.Message{{Role: "user", Content: "hi"}}, "", "gpt-4")
	require.NoError(t, err)
	assert.Equal(t, 0, usage.CompletionTokens)
	assert.Greater(t, usage.PromptTokens, 0)
}
