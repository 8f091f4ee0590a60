package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/sandevgo/scoutbot/internal/core"
)

func sseServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		if payload["stream"] != true {
			t.Errorf("payload stream = %v, want true", payload["stream"])
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, f := range frames {
			io.WriteString(w, f+"\n\n")
		}
	}))
}

func streamingClient(url string) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:    url,
		APIKey:     "test-key",
		Model:      "test-model",
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
	})
}

func TestChatStreamForwardsFragmentsVerbatim(t *testing.T) {
	srv := sseServer(t, []string{
		`data: {"choices":[{"delta":{"role":"assistant","content":"Hello, "}}]}`,
		`data: {"choices":[{"delta":{"content":"Hello, how are you?"}}]}`,
		`data: [DONE]`,
	})
	defer srv.Close()

	var fragments []string
	msg, err := streamingClient(srv.URL).ChatStream(context.Background(), nil, nil, func(f string) {
		fragments = append(fragments, f)
	})
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}

	want := []string{"Hello, ", "Hello, how are you?"}
	if !reflect.DeepEqual(fragments, want) {
		t.Errorf("fragments = %q, want %q", fragments, want)
	}
	if msg.Content != "Hello, Hello, how are you?" {
		t.Errorf("final content = %q, want raw concatenation", msg.Content)
	}
	if msg.Role != core.RoleAssistant {
		t.Errorf("role = %q, want %q", msg.Role, core.RoleAssistant)
	}
}

func TestChatStreamMergesToolCallDeltas(t *testing.T) {
	srv := sseServer(t, []string{
		`data: {"choices":[{"delta":{"tool_calls":[{"index":0,"id":"call_1","type":"function","function":{"name":"fetch_venue_page","arguments":"{\"url\":"}}]}}]}`,
		`data: {"choices":[{"delta":{"tool_calls":[{"index":0,"function":{"arguments":"\"https://example.com\"}"}}]}}]}`,
		`data: [DONE]`,
	})
	defer srv.Close()

	msg, err := streamingClient(srv.URL).ChatStream(context.Background(), nil, nil, func(string) {})
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}

	if len(msg.ToolCalls) != 1 {
		t.Fatalf("got %d tool calls, want 1", len(msg.ToolCalls))
	}
	tc := msg.ToolCalls[0]
	if tc.ID != "call_1" || tc.Type != "function" {
		t.Errorf("tool call header = %q/%q, want call_1/function", tc.ID, tc.Type)
	}
	if tc.Function.Name != "fetch_venue_page" {
		t.Errorf("tool name = %q, want fetch_venue_page", tc.Function.Name)
	}
	wantArgs := `{"url":"https://example.com"}`
	if tc.Function.Arguments != wantArgs {
		t.Errorf("arguments = %q, want %q", tc.Function.Arguments, wantArgs)
	}
}

func TestChatStreamSkipsMalformedFrames(t *testing.T) {
	srv := sseServer(t, []string{
		`data: {"choices":[{"delta":{"content":"ok "}}]}`,
		`data: {not json`,
		`: keep-alive comment`,
		`data: {"choices":[{"delta":{"content":"fine"}}]}`,
		`data: [DONE]`,
	})
	defer srv.Close()

	msg, err := streamingClient(srv.URL).ChatStream(context.Background(), nil, nil, func(string) {})
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}
	if msg.Content != "ok fine" {
		t.Errorf("content = %q, want %q", msg.Content, "ok fine")
	}
}

func TestChatStreamAccumulatesReasoning(t *testing.T) {
	srv := sseServer(t, []string{
		`data: {"choices":[{"delta":{"reasoning":"thinking "}}]}`,
		`data: {"choices":[{"delta":{"reasoning":"hard","content":"Answer."}}]}`,
		`data: [DONE]`,
	})
	defer srv.Close()

	var fragments []string
	msg, err := streamingClient(srv.URL).ChatStream(context.Background(), nil, nil, func(f string) {
		fragments = append(fragments, f)
	})
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}
	if msg.Reasoning != "thinking hard" {
		t.Errorf("reasoning = %q, want %q", msg.Reasoning, "thinking hard")
	}
	if len(fragments) != 1 || fragments[0] != "Answer." {
		t.Errorf("fragments = %q, reasoning must not be forwarded", fragments)
	}
}

func TestChatStreamErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := streamingClient(srv.URL).ChatStream(context.Background(), nil, nil, func(string) {})
	if err == nil {
		t.Fatal("ChatStream() error = nil, want http status error")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error = %v, want status code in message", err)
	}
}

func TestChatStreamStopsAtDone(t *testing.T) {
	srv := sseServer(t, []string{
		`data: {"choices":[{"delta":{"content":"before"}}]}`,
		`data: [DONE]`,
		`data: {"choices":[{"delta":{"content":" after"}}]}`,
	})
	defer srv.Close()

	msg, err := streamingClient(srv.URL).ChatStream(context.Background(), nil, nil, func(string) {})
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}
	if msg.Content != "before" {
		t.Errorf("content = %q, want %q", msg.Content, "before")
	}
}
