package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/scoutbot/internal/core"
	"github.com/sandevgo/scoutbot/internal/service/agent"
)

type ContextCommand struct {
	registry  *agent.SessionRegistry
	formatter *ResponseFormatter
}

func NewContextCommand(registry *agent.SessionRegistry) core.Command {
	return &ContextCommand{
		registry:  registry,
		formatter: NewResponseFormatter(),
	}
}

func (c *ContextCommand) Name() string {
	return "context"
}

func (c *ContextCommand) Description() string {
	return "Show or clear what the scout remembers about this chat"
}

func (c *ContextCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	sess := c.registry.Acquire(ctx, sessionID)

	if len(args) > 0 && args[0] == "clear" {
		sess.Tracker.Clear()
		return c.formatter.Combine(
			c.formatter.Success("Session context cleared"),
		), nil
	}

	if sess.Tracker.Empty() {
		return c.formatter.Combine(
			c.formatter.Info("Session Context"),
			c.formatter.Label("Status", "nothing tracked yet"),
			c.formatter.Tip("Mention a city or ask for venues and I will keep track"),
		), nil
	}

	sc := sess.Tracker.Snapshot(sessionID)

	sections := []string{c.formatter.Info("Session Context")}
	if sc.Location != "" {
		sections = append(sections, c.formatter.Label("Location", sc.Location))
	}
	if sc.Topic != "" {
		sections = append(sections, c.formatter.Label("Topic", sc.Topic))
	}
	if len(sc.Entities) > 0 {
		items := make([]string, len(sc.Entities))
		for i, e := range sc.Entities {
			items[i] = fmt.Sprintf("**%s** (`%s`)", e.Name, e.StableID)
		}
		sections = append(sections, "**Recent venues**:\n"+c.formatter.List(items...))
	}

	return c.formatter.Combine(sections...), nil
}
