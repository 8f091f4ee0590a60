package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandevgo/scoutbot/internal/config"
	"github.com/sandevgo/scoutbot/internal/providers/llm"
)

const catalogTimeout = 30 * time.Second

type modelEntry struct {
	id     string
	name   string
	detail string
}

func (e modelEntry) Title() string       { return e.name }
func (e modelEntry) Description() string { return e.detail }
func (e modelEntry) FilterValue() string { return e.id }

// ModelStep lets the owner pick a model out of the provider's catalog.
type ModelStep struct {
	list     list.Model
	waiting  bool
	inFlight bool
	err      error
}

func NewModelStep() Step {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Choose a model"
	l.SetFilteringEnabled(true)
	l.SetShowStatusBar(true)
	l.Styles.Title = headingStyle

	return &ModelStep{
		list:    l,
		waiting: true,
	}
}

func (s *ModelStep) Init() tea.Cmd {
	return wake()
}

// providerConfigFromState builds a throwaway provider config out of the
// wizard answers collected so far, before anything is written to disk.
func providerConfigFromState(state *InstallState) *config.ProviderConfig {
	return &config.ProviderConfig{
		Provider:            state.EnvVars["LLM_PROVIDER"],
		AnthropicAPIKey:     state.EnvVars["SCOUT_ANTHROPIC_API_KEY"],
		OpenAIAPIKey:        state.EnvVars["SCOUT_OPENAI_API_KEY"],
		OpenRouterAPIKey:    state.EnvVars["SCOUT_OPENROUTER_API_KEY"],
		OllamaAPIKey:        state.EnvVars["SCOUT_OLLAMA_API_KEY"],
		OllamaBaseURL:       state.EnvVars["SCOUT_OLLAMA_BASE_URL"],
		CustomOpenAIBaseURL: state.EnvVars["SCOUT_CUSTOM_OPENAI_BASE_URL"],
		CustomOpenAIAPIKey:  state.EnvVars["SCOUT_CUSTOM_OPENAI_API_KEY"],
	}
}

func fetchCatalog(cfg *config.ProviderConfig) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
		defer cancel()

		p, err := llm.NewProvider(ctx, cfg)
		if err != nil {
			return errMsg(err)
		}
		models, err := p.Models(ctx)
		if err != nil {
			return errMsg(err)
		}

		items := make([]list.Item, 0, len(models))
		for _, mod := range models {
			name := mod.Name
			if name == "" {
				name = mod.ID
			}
			items = append(items, modelEntry{
				id:     mod.ID,
				name:   name,
				detail: fmt.Sprintf("ID: %s | Context: %d", mod.ID, mod.ContextLength),
			})
		}
		return catalogMsg(items)
	}
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	// Kick off the catalog fetch exactly once per entry into the step.
	if s.waiting && !s.inFlight {
		s.inFlight = true
		return s, fetchCatalog(providerConfigFromState(state))
	}

	s.list.SetSize(width, height-4)

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case catalogMsg:
		s.list.SetItems(msg)
		s.waiting = false
		s.inFlight = false
		return s, nil

	case errMsg:
		s.waiting = false
		s.inFlight = false
		s.err = msg
		return s, nil

	case tea.KeyMsg:
		if s.err != nil {
			// Enter re-arms the fetch, anything else stays on the error.
			if msg.String() == "enter" {
				s.err = nil
				s.waiting = true
				s.inFlight = false
			}
			return s, nil
		}

		if msg.String() == "enter" {
			filtering := s.list.FilterState() == list.Filtering
			s.list, cmd = s.list.Update(msg)
			if filtering || s.list.FilterState() == list.Filtering {
				return s, cmd
			}

			if e, ok := s.list.SelectedItem().(modelEntry); ok {
				state.EnvVars["SCOUT_MODEL"] = e.id
				return nil, nil
			}
			return s, cmd
		}
	}

	s.list, cmd = s.list.Update(msg)

	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	switch {
	case s.err != nil:
		return alertStyle.Render(fmt.Sprintf("Error fetching models: %v", s.err)) +
			"\n\nCheck your API key and internet connection.\n\n(press enter to retry, ctrl+c to quit)\n"
	case s.waiting:
		return "Fetching available models...\n"
	}
	return s.list.View()
}
