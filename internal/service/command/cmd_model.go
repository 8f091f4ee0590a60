package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/scoutbot/internal/core"
)

// ModelCommand inspects or hot-swaps the active model without a restart.
type ModelCommand struct {
	cfg       core.ProviderConfig
	state     core.GlobalState
	formatter *ResponseFormatter
}

func NewModelCommand(cfg core.ProviderConfig, state core.GlobalState) core.Command {
	return &ModelCommand{cfg: cfg, state: state, formatter: NewResponseFormatter()}
}

func (c *ModelCommand) Name() string {
	return "model"
}

func (c *ModelCommand) Description() string {
	return "Show the active model or switch to another"
}

func (c *ModelCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.show(), nil
	}
	return c.change(ctx, args[0])
}

func (c *ModelCommand) show() string {
	return c.formatter.Combine(
		c.formatter.Info("Current Model"),
		c.formatter.Label("Provider", c.cfg.GetProvider()),
		c.formatter.Label("Model", c.cfg.GetModel()),
		c.formatter.Usage("/model [model-id]"),
		c.formatter.Examples(
			"/model gpt-4o-mini",
			"/model anthropic/claude-3.5-sonnet",
			"/model google/gemma-3-27b-it:free",
		),
	)
}

func (c *ModelCommand) change(ctx context.Context, id string) (string, error) {
	if err := c.state.ChangeModel(ctx, id); err != nil {
		return "", fmt.Errorf("failed to set model: %w", err)
	}

	changed := fmt.Sprintf("Model changed to: `%s/%s`", c.cfg.GetProvider(), c.cfg.GetModel())
	return c.formatter.Success(changed), nil
}
