package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentMeta(t *testing.T) {
	assert.False(t, AgentMeta{}.Failed())
	assert.Equal(t, OutcomeOK, AgentMeta{}.OutcomeOrOK())

	failed := AgentMeta{Outcome: OutcomeError}
	assert.True(t, failed.Failed())
	assert.Equal(t, OutcomeError, failed.OutcomeOrOK())
}

func TestTokenUsageEmpty(t *testing.T) {
	assert.True(t, TokenUsage{Model: "llama"}.Empty())
	assert.False(t, TokenUsage{CompletionTokens: 1}.Empty())
}
