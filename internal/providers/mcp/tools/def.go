package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// Definition describes one native tool: what the model sees plus the
// handler that serves it.
type Definition struct {
	Description string
	Schema      string
	Handler     func(context.Context, json.RawMessage) (string, error)
}

// decodeArgs unmarshals a tool call's arguments into the handler's input
// type.
func decodeArgs[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("invalid arguments: %w", err)
	}
	return v, nil
}
