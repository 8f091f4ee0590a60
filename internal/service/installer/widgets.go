package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type option struct {
	id    string
	label string
}

// pickStep is a cursor list over a fixed set of options. Enter commits
// the highlighted option and finishes the step.
type pickStep struct {
	prompt  string
	options []option
	cursor  int
	commit  func(*InstallState, option)
}

func (s *pickStep) Init() tea.Cmd {
	return nil
}

func (s *pickStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.options)-1 {
			s.cursor++
		}
	case "enter":
		s.commit(state, s.options[s.cursor])
		return nil, nil
	}
	return s, nil
}

func (s *pickStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.prompt + "\n\n")
	for i, opt := range s.options {
		marker, style := " ", rowStyle
		if i == s.cursor {
			marker, style = "❯", cursorStyle
		}
		b.WriteString(style.Render(marker+" "+opt.label) + "\n")
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}

// textStep is a single text prompt. applies gates the step on earlier
// answers; a step that does not apply finishes immediately. commit
// reports whether the entered value was accepted.
type textStep struct {
	prompt  string
	input   textinput.Model
	active  bool
	applies func(*InstallState) bool
	commit  func(*InstallState, string) bool
}

func (s *textStep) Init() tea.Cmd {
	return wake()
}

func (s *textStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.applies != nil && !s.applies(state) {
		return nil, nil
	}
	if !s.active {
		s.active = true
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if s.commit(state, s.input.Value()) {
			return nil, nil
		}
	}
	return s, cmd
}

func (s *textStep) View(state *InstallState) string {
	return s.prompt + "\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
}
