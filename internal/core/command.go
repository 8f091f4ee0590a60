package core

import "context"

// Command is one slash command, transport-agnostic.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}

// CmdRouter intercepts slash commands before input reaches the agent.
type CmdRouter interface {
	// Execute runs input as a command. The bool reports whether input
	// was a command at all; plain chat falls through to the agent.
	Execute(ctx context.Context, sessionID, input string) (string, bool)
	ListCommands() []Command
}
