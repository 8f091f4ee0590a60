package memory

import (
	"context"
	"fmt"

	"github.com/sandevgo/scoutbot/internal/core"
)

// Memory assembles the message list for one upstream request: static
// prompts, the session context summary and as much recent history as the
// token budget allows.
type Memory struct {
	cfg      core.AppConfig
	msgRepo  core.MessagesRepository
	prompter *SysPrompt
}

func NewMemory(cfg core.AppConfig, msgRepo core.MessagesRepository, prompter *SysPrompt) *Memory {
	return &Memory{
		cfg:      cfg,
		msgRepo:  msgRepo,
		prompter: prompter,
	}
}

func (s *Memory) BuildContext(ctx context.Context, sessionID, contextSummary string) ([]core.Message, error) {
	messages := s.prompter.Build()

	if contextSummary != "" {
		messages = append(messages, core.Message{
			Role:    core.RoleSystem,
			Content: "Known conversation context: " + contextSummary,
		})
	}

	history, err := s.msgRepo.GetMessages(ctx, sessionID, s.cfg.GetHistoryFetchLimit())
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	messages = append(messages, TrimToBudget(history, s.cfg.GetContextBudgetTokens())...)

	return messages, nil
}

func (s *Memory) SaveMessage(ctx context.Context, sessionID string, msg core.Message) error {
	return s.msgRepo.AddMessage(ctx, sessionID, msg)
}
