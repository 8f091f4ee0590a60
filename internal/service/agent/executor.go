package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/scoutbot/internal/core"
	"github.com/sandevgo/scoutbot/pkg/log"
)

// Tool output is clipped before it re-enters the conversation; a scraped
// page can be far larger than the model needs.
const (
	toolResultBudget = 2000
	toolResultHead   = 500
)

// Executor resolves the model's tool calls against the tool plane and
// shapes the results into tool-role messages.
type Executor struct {
	mcp core.MCPServer
}

func NewExecutor(mcp core.MCPServer) *Executor {
	return &Executor{mcp: mcp}
}

func (e *Executor) Execute(ctx context.Context, toolCalls []core.ToolCall) []core.Message {
	results := make([]core.Message, 0, len(toolCalls))
	for _, tc := range toolCalls {
		results = append(results, core.Message{
			Role:       core.RoleTool,
			Content:    clipResult(e.callOne(ctx, tc)),
			ToolCallID: tc.ID,
		})
	}
	return results
}

// callOne runs a single tool call. Failures come back as text; the model
// decides how to recover.
func (e *Executor) callOne(ctx context.Context, tc core.ToolCall) string {
	logger := log.FromCtx(ctx)
	started := time.Now()

	res, err := e.mcp.CallTool(ctx, tc.Function.Name, tc.Function.Arguments)
	if err != nil {
		logger.Error().Err(err).Str("tool", tc.Function.Name).Msg("tool call failed")
		return fmt.Sprintf("Error: %v", err)
	}

	logger.Info().Str("tool", tc.Function.Name).Dur("took", time.Since(started)).Msg("tool executed")
	return res
}

// clipResult keeps the head and tail of oversized output.
func clipResult(input string) string {
	if len(input) <= toolResultBudget {
		return input
	}

	head := input[:toolResultHead]
	tail := input[len(input)-(toolResultBudget-toolResultHead):]
	return fmt.Sprintf("%s\n\n... [TRUNCATED %d bytes] ...\n\n%s", head, len(input)-toolResultBudget, tail)
}
