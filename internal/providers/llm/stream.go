package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sandevgo/scoutbot/internal/core"
)

// streamChunk mirrors one data frame of a chat.completion.chunk event.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Role      string          `json:"role"`
			Content   string          `json:"content"`
			Reasoning string          `json:"reasoning"`
			ToolCalls []toolCallDelta `json:"tool_calls"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

type toolCallDelta struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

// ChatStream requests a streamed completion and forwards every content
// fragment to onFragment as it arrives, verbatim. The returned message is
// the assembled final answer including any tool calls.
func (o *OpenAICompatible) ChatStream(ctx context.Context, history []core.Message, tools []core.Tool, onFragment func(string)) (core.Message, error) {
	body := chatPayload(o.model, history, tools)
	body["stream"] = true

	resp, err := o.doRequest(ctx, http.MethodPost, "/v1/chat/completions", body, o.headers)
	if err != nil {
		return core.Message{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return core.Message{}, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	final := core.Message{Role: core.RoleAssistant}
	var calls []toolCallDelta

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// a malformed frame must not kill the stream
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta
		if delta.Content != "" {
			final.Content += delta.Content
			onFragment(delta.Content)
		}
		if delta.Reasoning != "" {
			final.Reasoning += delta.Reasoning
		}
		for _, tc := range delta.ToolCalls {
			calls = mergeToolCallDelta(calls, tc)
		}
	}
	if err := scanner.Err(); err != nil {
		return core.Message{}, fmt.Errorf("read stream: %w", err)
	}

	for _, tc := range calls {
		final.ToolCalls = append(final.ToolCalls, core.ToolCall{
			ID:   tc.ID,
			Type: tc.Type,
			Function: core.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return final, nil
}

// mergeToolCallDelta folds one delta into the accumulated calls. Providers
// send the ID and function name on the first delta for an index and stream
// the arguments across the rest.
func mergeToolCallDelta(calls []toolCallDelta, tc toolCallDelta) []toolCallDelta {
	for tc.Index >= len(calls) {
		calls = append(calls, toolCallDelta{Index: len(calls)})
	}
	cur := &calls[tc.Index]
	if tc.ID != "" {
		cur.ID = tc.ID
	}
	if tc.Type != "" {
		cur.Type = tc.Type
	}
	if tc.Function.Name != "" {
		cur.Function.Name = tc.Function.Name
	}
	cur.Function.Arguments += tc.Function.Arguments
	return calls
}
