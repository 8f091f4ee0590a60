package core

import (
	"encoding/json"
	"time"
)

const (
	ScoutName          = "ScoutBot"
	ScoutUserAgent     = "ScoutBot-Relay/0.3"
	ScoutRepositoryURL = "https://github.com/sandevgo/scoutbot"
	ScoutVersion       = "0.3.0"
)

// Chat roles as the OpenAI-style wire format spells them.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one chat turn in the provider wire format. Assistant turns
// may carry tool calls; tool turns answer them through ToolCallID.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Reasoning  string     `json:"reasoning,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// FunctionCall names the function and carries its raw JSON arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall is the model asking for one tool invocation.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// Tool advertises one callable function to the model.
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

type Function struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"` // JSON Schema
}

// Model describes one model offered by a provider.
type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	ContextLength int    `json:"context_length,omitempty"`
}

// TrackedEntity is a venue or item the assistant surfaced with a stable
// identifier, kept so vague follow-ups ("book the second one") can be
// resolved without another upstream round trip.
type TrackedEntity struct {
	Name       string    `json:"name"`
	StableID   string    `json:"stable_id"`
	Location   string    `json:"location,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
}

// SessionContext is the persisted form of one session's conversational
// context. Entities are ordered most recent first.
type SessionContext struct {
	SessionID string
	Location  string
	Topic     string
	Entities  []TrackedEntity
	UpdatedAt time.Time
}
