package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/scoutbot/internal/core"
)

// Router dispatches slash commands. Input without the / prefix is not
// ours and falls through to the agent.
type Router struct {
	commands map[string]core.Command
}

func New(commands []core.Command) *Router {
	r := &Router{commands: make(map[string]core.Command, len(commands))}
	for _, cmd := range commands {
		r.commands[cmd.Name()] = cmd
	}
	return r
}

func (r *Router) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	name, args, ok := parse(input)
	if !ok {
		return "", false
	}

	cmd, known := r.commands[name]
	if !known {
		return fmt.Sprintf("Unknown command: /%s", name), true
	}

	out, err := cmd.Execute(ctx, sessionID, args)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}
	return out, true
}

func parse(input string) (name string, args []string, ok bool) {
	if !strings.HasPrefix(input, "/") {
		return "", nil, false
	}
	parts := strings.Fields(input)
	return strings.TrimPrefix(parts[0], "/"), parts[1:], true
}

func (r *Router) ListCommands() []core.Command {
	out := make([]core.Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	return out
}
