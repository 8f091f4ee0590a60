package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type keySpec struct {
	envKey      string
	title       string
	placeholder string
	optional    bool
	secret      bool
}

var providerKeys = map[string]keySpec{
	"anthropic":  {envKey: "SCOUT_ANTHROPIC_API_KEY", title: "Anthropic API Key", placeholder: "sk-ant-...", secret: true},
	"openai":     {envKey: "SCOUT_OPENAI_API_KEY", title: "OpenAI API Key", placeholder: "sk-...", secret: true},
	"openrouter": {envKey: "SCOUT_OPENROUTER_API_KEY", title: "OpenRouter API Key", placeholder: "sk-or-v1-...", secret: true},
	"ollama":     {envKey: "SCOUT_OLLAMA_API_KEY", title: "Ollama API Key", placeholder: "Optional - press Enter to skip", optional: true},
	"custom":     {envKey: "SCOUT_CUSTOM_OPENAI_API_KEY", title: "Custom Endpoint API Key", placeholder: "Optional - press Enter to skip", optional: true},
}

// APIKeyStep collects the credential for whichever provider was picked.
// It configures itself lazily because the provider answer does not
// exist when the step is constructed.
type APIKeyStep struct {
	input textinput.Model
	spec  keySpec
	ready bool
}

func NewAPIKeyStep() Step {
	return &APIKeyStep{}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return wake()
}

func (s *APIKeyStep) configure(state *InstallState) bool {
	if s.ready {
		return true
	}
	spec, ok := providerKeys[state.EnvVars["LLM_PROVIDER"]]
	if !ok {
		return false
	}

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = spec.placeholder
	if spec.secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}

	s.input = ti
	s.spec = spec
	s.ready = true
	return true
}

func (s *APIKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.ready {
		if !s.configure(state) {
			return nil, nil
		}
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		state.EnvVars[s.spec.envKey] = s.input.Value()
		return nil, nil
	}
	return s, cmd
}

func (s *APIKeyStep) View(state *InstallState) string {
	if !s.configure(state) {
		return "Loading..."
	}

	hint := ""
	if s.spec.optional {
		hint = " (optional - press Enter to skip)"
	}
	return fmt.Sprintf("Enter your %s%s:\n\n%s\n\n(press enter to confirm)\n",
		s.spec.title, hint, s.input.View())
}
