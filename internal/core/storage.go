package core

import "context"

// MessagesRepository persists chat history per session.
type MessagesRepository interface {
	AddMessage(ctx context.Context, sessionID string, msg Message) error
	GetMessages(ctx context.Context, sessionID string, limit int) ([]Message, error)
}

// SessionContextRepository persists tracked session context across
// restarts. GetContext's bool reports whether the session was known.
type SessionContextRepository interface {
	SaveContext(ctx context.Context, sc SessionContext) error
	GetContext(ctx context.Context, sessionID string) (SessionContext, bool, error)
	ListSessionIDs(ctx context.Context) ([]string, error)
	DeleteContext(ctx context.Context, sessionID string) error
}
