package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/scoutbot/internal/config"
	"github.com/sandevgo/scoutbot/internal/core"
	"github.com/sandevgo/scoutbot/internal/service/agent"
	"github.com/sandevgo/scoutbot/pkg/log"
)

// Every console conversation shares one session, so history and context
// survive across restarts of the process.
const localSession = "cli-local"

// ReadLine drives the agent from an interactive terminal. It speaks the
// same command router and agent as the other transports.
type ReadLine struct {
	agent  *agent.Agent
	router core.CmdRouter
	rl     *readline.Instance
}

func NewReadLine(agent *agent.Agent, router core.CmdRouter, cfg *config.AppConfig) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	history := filepath.Join(cfg.RuntimePath, "input_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open terminal: %w", err)
	}

	return &ReadLine{agent: agent, router: router, rl: rl}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("console chat ready, type 'exit' to quit")

	for {
		// Readline blocks without honouring ctx, so poll for shutdown
		// between reads.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			return nil
		}

		if reply, handled := r.router.Execute(ctx, localSession, line); handled {
			fmt.Fprintln(r.rl.Stdout(), reply)
			continue
		}

		r.converse(ctx, line)
	}
}

// converse streams one agent turn to the terminal.
func (r *ReadLine) converse(ctx context.Context, line string) {
	out := r.rl.Stdout()

	var streamed bool
	_, err := r.agent.Run(ctx, localSession, line, func(increment string) {
		streamed = true
		fmt.Fprint(out, increment)
	})
	if streamed {
		fmt.Fprintln(out)
	}

	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("agent run failed")
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl == nil {
		return nil
	}
	return r.rl.Close()
}
