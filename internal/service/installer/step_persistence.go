package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	fs "github.com/sandevgo/scoutbot/configs"
	"github.com/sandevgo/scoutbot/internal/config"
)

// SaveEnvStep writes the collected answers to the runtime .env file.
// An existing file is never overwritten; re-running setup on a
// configured machine should fail loudly instead of clobbering keys.
type SaveEnvStep struct {
	saved bool
	err   error
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return wake()
}

func writeEnvFile(state *InstallState) error {
	path := config.GetRuntimePath()
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(path, ".env")
	if _, err := os.Stat(envPath); err == nil {
		return fmt.Errorf(".env file already exists at %s", envPath)
	}

	var content strings.Builder
	for key, value := range state.EnvVars {
		fmt.Fprintf(&content, "%s=%s\n", key, value)
	}
	return os.WriteFile(envPath, []byte(content.String()), 0600)
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}

	if err := writeEnvFile(state); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return alertStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved.\n"
	}
	return "Saving configuration...\n"
}

// seedFiles are the embedded defaults a fresh runtime directory starts
// with. SYSTEM.md carries a %s the runtime path is substituted into.
var seedFiles = []string{
	"IDENTITY.md",
	"SYSTEM.md",
	"USER.md",
	"mcp_config.json",
	"locations.txt",
	"topics.txt",
}

// InitializeFilesStep unpacks the embedded runtime files next to the
// .env the previous step wrote.
type InitializeFilesStep struct {
	done bool
	err  error
}

func NewInitializeFilesStep() Step {
	return &InitializeFilesStep{}
}

func (s *InitializeFilesStep) Init() tea.Cmd {
	return nil
}

func unpackSeedFiles() error {
	path := config.GetRuntimePath()
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	for _, name := range seedFiles {
		data, err := fs.FS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read embedded %s: %w", name, err)
		}

		if name == "SYSTEM.md" {
			data = []byte(fmt.Sprintf(string(data), path))
		}

		dst := filepath.Join(path, name)
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dst, err)
		}
	}
	return nil
}

func (s *InitializeFilesStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.done {
		return nil, nil
	}

	if err := unpackSeedFiles(); err != nil {
		s.err = err
		return s, nil
	}

	s.done = true
	return nil, nil
}

func (s *InitializeFilesStep) View(state *InstallState) string {
	if s.err != nil {
		return alertStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.done {
		return "Runtime files ready.\n"
	}
	return "Initializing runtime files...\n"
}
