package core

import "context"

// AIProvider is the chat backend. Implementations cover the upstream
// vendors plus anything speaking the OpenAI-compatible dialect.
type AIProvider interface {
	Chat(ctx context.Context, history []Message, tools []Tool) (Message, error)
	Models(ctx context.Context) ([]Model, error)
}

// StreamingProvider delivers assistant output incrementally. Fragments are
// forwarded exactly as the upstream sent them: a fragment may be a fresh
// delta, a cumulative re-send of the whole answer so far, or an overlapping
// chunk. Callers that need clean increments must deduplicate downstream.
type StreamingProvider interface {
	ChatStream(ctx context.Context, history []Message, tools []Tool, onFragment func(string)) (Message, error)
}

// MCPServer is the tool plane: everything callable, native or remote,
// behind one flat namespace.
type MCPServer interface {
	GetTools(ctx context.Context) ([]Tool, error)
	CallTool(ctx context.Context, name string, args string) (string, error)
}
