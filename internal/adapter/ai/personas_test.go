package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonaCatalog(t *testing.T) {
	ids := PersonaIDs()
	require.Equal(t, []string{"scholar", "companion", "counselor"}, ids)
	for _, id := range ids {
		p, ok := PersonaByID(id)
		require.True(t, ok, id)
		assert.Equal(t, id, p.ID)
		assert.NotEmpty(t, p.Name, id)
		assert.NotEmpty(t, p.Tone, id)
		assert.NotEmpty(t, p.System, id)
	}
}

func TestPersonaUnknown(t *testing.T) {
	_, ok := PersonaByID("imam")
	assert.False(t, ok)
}
