package installer

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep derives the flags the runtime reads from the raw
// wizard answers and strips the intermediate ones.
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return wake()
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	env := state.EnvVars

	env["ENABLE_TELEGRAM"] = strconv.FormatBool(env["TELEGRAM_TOKEN"] != "")
	if env["SCOUT_DEBUG"] == "" {
		env["SCOUT_DEBUG"] = "0"
	}

	// The channel answer only routed the wizard; it is not config.
	delete(env, "SCOUT_CHAT_CHANNEL")

	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}
