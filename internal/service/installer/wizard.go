package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	rowStyle     = lipgloss.NewStyle().PaddingLeft(2)
	cursorStyle  = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	alertStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Step is one screen of the setup wizard. Update returns a nil Step when
// the screen is finished and the wizard should move on.
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

type (
	errMsg     error
	catalogMsg []list.Item
	wakeMsg    struct{}
)

// wake nudges a freshly entered step so its Update runs without waiting
// for real input. Steps that gate on earlier answers need it to skip
// themselves.
func wake() tea.Cmd {
	return func() tea.Msg { return wakeMsg{} }
}

// wizard drives the steps in order and owns the shared answer state.
type wizard struct {
	steps  []Step
	pos    int
	state  *InstallState
	size   tea.WindowSizeMsg
	err    error
	halted bool
}

func newWizard() wizard {
	return wizard{
		steps: []Step{
			NewProviderStep(),
			NewOllamaURLStep(),
			NewCustomURLStep(),
			NewAPIKeyStep(),
			NewModelStep(),
			NewDedupStep(),
			NewChannelStep(),
			NewTelegramTokenStep(),
			NewTelegramOwnerStep(),
			NewFinalizationStep(),
			NewSaveEnvStep(),
			NewInitializeFilesStep(),
		},
		state: NewInstallState(),
	}
}

func (w wizard) Init() tea.Cmd {
	return w.steps[0].Init()
}

func (w wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if w.halted {
		return w, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.size = msg
	case errMsg:
		w.err = msg
		return w, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			w.halted = true
			return w, tea.Quit
		}
	}

	if w.pos >= len(w.steps) {
		return w, tea.Quit
	}

	next, cmd := w.steps[w.pos].Update(msg, w.state, w.size.Width, w.size.Height)
	if next == nil {
		w.pos++
		if w.pos == len(w.steps) {
			return w, tea.Quit
		}
		return w, w.steps[w.pos].Init()
	}
	w.steps[w.pos] = next
	return w, cmd
}

func (w wizard) View() string {
	switch {
	case w.halted:
		return "Setup cancelled.\n"
	case w.err != nil:
		return alertStyle.Render(fmt.Sprintf("Error: %v", w.err)) + "\n\n(press ctrl+c to quit)\n"
	case w.pos >= len(w.steps):
		return "Setup complete.\n"
	}
	return headingStyle.Render("ScoutBot setup 🧭") + "\n\n" + w.steps[w.pos].View(w.state)
}

// RunWizard walks the owner through first-run configuration and returns
// the collected answers.
func RunWizard() (*InstallState, error) {
	p := tea.NewProgram(newWizard(), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	w := m.(wizard)
	if w.halted {
		return nil, fmt.Errorf("setup interrupted")
	}
	return w.state, nil
}
