package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sandevgo/scoutbot/internal/core"
	"github.com/sandevgo/scoutbot/internal/service/dedup"
	"github.com/sandevgo/scoutbot/internal/service/memory"
	"github.com/sandevgo/scoutbot/pkg/log"
)

// Agent relays one user turn to the upstream assistant and owns the two
// compensating controls around it: per-turn deduplication of the streamed
// output and per-session context retention.
type Agent struct {
	dedupCfg core.DedupConfig
	ai       core.AIProvider
	mcp      core.MCPServer
	mem      core.Memory
	executor *Executor
	registry *SessionRegistry
}

func NewAgent(
	dedupCfg core.DedupConfig,
	ai core.AIProvider,
	mcp core.MCPServer,
	mem core.Memory,
	executor *Executor,
	registry *SessionRegistry,
) *Agent {
	return &Agent{
		dedupCfg: dedupCfg,
		ai:       ai,
		mcp:      mcp,
		mem:      mem,
		executor: executor,
		registry: registry,
	}
}

// Run processes one turn. Cleaned increments stream to onIncrement as they
// survive deduplication; the return value is the whole cleaned answer.
// Turns within one session are serialized. An error aborts the turn and
// the session's entity memory stays untouched.
func (a *Agent) Run(ctx context.Context, sessionID, input string, onIncrement func(string)) (string, error) {
	turnID := uuid.NewString()
	logger := log.FromCtx(ctx).With().
		Str("session_id", sessionID).
		Str("turn_id", turnID).
		Logger()
	ctx = logger.WithContext(ctx)

	sess := a.registry.Acquire(ctx, sessionID)
	sess.Lock()
	defer sess.Unlock()

	tracker := sess.Tracker
	tracker.ObserveUser(ctx, input)

	userMsg := core.Message{Role: core.RoleUser, Content: input}
	if err := a.mem.SaveMessage(ctx, sessionID, userMsg); err != nil {
		return "", fmt.Errorf("failed to save user message: %w", err)
	}

	summary := a.buildSummary(tracker, input)
	pipe := dedup.NewPipeline(dedup.Params{
		SessionID:  sessionID,
		TurnID:     turnID,
		WindowSize: a.dedupCfg.GetDedupWindowSize(),
		Threshold:  a.dedupCfg.GetDedupThreshold(),
	})

	emit := func(fragment string) {
		for _, inc := range pipe.Process(ctx, fragment) {
			if onIncrement != nil {
				onIncrement(inc)
			}
		}
	}

	for {
		tools, err := a.mcp.GetTools(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to get tools: %w", err)
		}

		messages, err := a.mem.BuildContext(ctx, sessionID, summary)
		if err != nil {
			return "", fmt.Errorf("failed to build context: %w", err)
		}
		messages = sanitizeToolCalls(ctx, messages)

		roundStart := len(pipe.Accumulated())
		responseMsg, err := a.complete(ctx, messages, tools, emit)
		if err != nil {
			return "", fmt.Errorf("upstream chat failed: %w", err)
		}

		// The cleaned text is the canonical answer; raw frames never
		// reach storage.
		stored := responseMsg
		stored.Content = pipe.Accumulated()[roundStart:]
		if err := a.mem.SaveMessage(ctx, sessionID, stored); err != nil {
			logger.Error().Err(err).Msg("failed to save assistant message")
		}

		if len(responseMsg.ToolCalls) == 0 {
			break
		}

		for _, toolMsg := range a.executor.Execute(ctx, responseMsg.ToolCalls) {
			if err := a.mem.SaveMessage(ctx, sessionID, toolMsg); err != nil {
				logger.Error().Err(err).Msg("failed to save tool message")
			}
		}
	}

	pipe.Finalize(ctx)
	final := pipe.Accumulated()
	if final != "" {
		tracker.ObserveAssistant(ctx, final)
	}
	return final, nil
}

// complete runs one upstream round, streaming when the provider supports
// it and degrading to a single whole-answer fragment when it does not.
func (a *Agent) complete(ctx context.Context, messages []core.Message, tools []core.Tool, emit func(string)) (core.Message, error) {
	if sp, ok := a.ai.(core.StreamingProvider); ok {
		return sp.ChatStream(ctx, messages, tools, emit)
	}

	responseMsg, err := a.ai.Chat(ctx, messages, tools)
	if err != nil {
		return core.Message{}, err
	}
	if responseMsg.Content != "" {
		emit(responseMsg.Content)
	}
	return responseMsg, nil
}

// buildSummary renders the session context and, when the user message
// looks like a vague reference, names the entity it most likely points at.
func (a *Agent) buildSummary(tracker *memory.Tracker, input string) string {
	summary := tracker.Render()

	ref := tracker.ResolveReference(input).UnwrapOr(memory.Entity{})
	if ref.StableID == "" {
		return summary
	}
	hint := fmt.Sprintf("user likely refers to: %s (%s)", ref.Name, ref.StableID)
	if summary == "" {
		return hint
	}
	return summary + " | " + hint
}

// sanitizeToolCalls drops tool results that no longer pair with a pending
// assistant tool call. Budget-trimmed histories can start in the middle of
// a tool exchange and upstreams reject such orphans.
func sanitizeToolCalls(ctx context.Context, messages []core.Message) []core.Message {
	var out []core.Message
	pending := make(map[string]struct{})

	for _, msg := range messages {
		switch msg.Role {
		case core.RoleAssistant:
			pending = make(map[string]struct{}, len(msg.ToolCalls))
			for _, tc := range msg.ToolCalls {
				pending[tc.ID] = struct{}{}
			}
		case core.RoleUser:
			pending = make(map[string]struct{})
		case core.RoleTool:
			if _, ok := pending[msg.ToolCallID]; !ok {
				log.FromCtx(ctx).Debug().
					Str("tool_call_id", msg.ToolCallID).
					Msg("dropping orphaned tool result")
				continue
			}
		}
		out = append(out, msg)
	}
	return out
}
