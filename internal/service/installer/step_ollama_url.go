package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

const defaultOllamaURL = "http://localhost:11434"

// NewOllamaURLStep asks where the local daemon listens. Empty input
// keeps the stock address.
func NewOllamaURLStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.Placeholder = defaultOllamaURL
	ti.Width = 50

	return &textStep{
		prompt: "Enter Ollama Base URL:",
		input:  ti,
		applies: func(state *InstallState) bool {
			return state.EnvVars["LLM_PROVIDER"] == "ollama"
		},
		commit: func(state *InstallState, val string) bool {
			val = strings.TrimSpace(val)
			if val == "" {
				val = defaultOllamaURL
			}
			state.EnvVars["SCOUT_OLLAMA_BASE_URL"] = val
			return true
		},
	}
}
