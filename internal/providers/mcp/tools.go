package mcp

import (
	"encoding/json"

	"github.com/sandevgo/scoutbot/internal/core"
	"github.com/sandevgo/scoutbot/internal/providers/mcp/tools"
)

type nativeTool interface {
	GetDefinitions() map[string]tools.Definition
}

// asTool converts a native definition into the provider wire shape.
func asTool(name string, def tools.Definition) core.Tool {
	fn := core.Function{Name: name, Description: def.Description}
	fn.Parameters = json.RawMessage(def.Schema)
	return core.Tool{Type: "function", Function: fn}
}

// RegisterNativeTools wires the built-in tools: the venue-page fetcher
// and the local command runner.
func RegisterNativeTools(runtimePath string) (map[string]NativeHandler, []core.Tool) {
	handlers := make(map[string]NativeHandler)
	var defs []core.Tool

	register := func(t nativeTool) {
		for name, def := range t.GetDefinitions() {
			handlers[name] = def.Handler
			defs = append(defs, asTool(name, def))
		}
	}

	register(tools.NewShell(runtimePath))
	register(tools.NewFetch())

	return handlers, defs
}
