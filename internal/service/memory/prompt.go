package memory

import (
	"os"

	"github.com/sandevgo/scoutbot/internal/core"
)

// SysPrompt assembles the standing system messages from the runtime
// directory. Missing or empty files are skipped rather than treated as
// errors; the relay runs fine on a bare directory.
type SysPrompt struct {
	cfg core.PromptConfig
}

func NewSysPrompt(cfg core.PromptConfig) *SysPrompt {
	return &SysPrompt{cfg: cfg}
}

func (p *SysPrompt) Build() []core.Message {
	paths := []string{
		p.cfg.GetSystemPath(),
		p.cfg.GetIdentityPath(),
		p.cfg.GetUserProfilePath(),
	}

	var messages []core.Message
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil || len(content) == 0 {
			continue
		}
		messages = append(messages, core.Message{Role: core.RoleSystem, Content: string(content)})
	}
	return messages
}
