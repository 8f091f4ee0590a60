package core

import "context"

// Memory assembles the model-facing conversation: system prompt, session
// context summary and recent history, trimmed to the token budget.
type Memory interface {
	BuildContext(ctx context.Context, sessionID, contextSummary string) ([]Message, error)
	SaveMessage(ctx context.Context, sessionID string, msg Message) error
}
