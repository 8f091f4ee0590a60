package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

// NewCustomURLStep asks for the base URL of a self-hosted
// OpenAI-compatible endpoint. There is no sensible default, so the
// step insists on a value.
func NewCustomURLStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.Placeholder = "https://api.example.com/v1"
	ti.Width = 50

	return &textStep{
		prompt: "Enter Custom OpenAI Base URL:",
		input:  ti,
		applies: func(state *InstallState) bool {
			return state.EnvVars["LLM_PROVIDER"] == "custom"
		},
		commit: func(state *InstallState, val string) bool {
			val = strings.TrimSpace(val)
			if val == "" {
				return false
			}
			state.EnvVars["SCOUT_CUSTOM_OPENAI_BASE_URL"] = val
			return true
		},
	}
}
