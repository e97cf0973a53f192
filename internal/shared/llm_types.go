package shared

import "time"

// TokenUsage is what a model reported for one call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// Empty reports whether the model returned no token counts at all.
func (u TokenUsage) Empty() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// Outcomes of an agent execution.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// AgentMeta describes one model call made on behalf of an agent (the planner
// or the clipper).
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
	Outcome   string
}

// Failed reports whether the call ended in an error. An unset outcome counts
// as success.
func (m AgentMeta) Failed() bool {
	return m.Outcome == OutcomeError
}

// OutcomeOrOK returns the outcome label, defaulting to OutcomeOK.
func (m AgentMeta) OutcomeOrOK() string {
	if m.Outcome == "" {
		return OutcomeOK
	}
	return m.Outcome
}
