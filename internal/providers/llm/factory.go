package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/scoutbot/internal/core"
	"github.com/sandevgo/scoutbot/pkg/log"
)

// NewProvider builds the vendor client the config names.
func NewProvider(ctx context.Context, cfg core.ProviderConfig) (core.AIProvider, error) {
	model := cfg.GetModel()

	log.FromCtx(ctx).Info().
		Str("provider", cfg.GetProvider()).
		Str("model", model).
		Msg("starting llm provider")

	switch cfg.GetProvider() {
	case "openai":
		return NewOpenAI(cfg.GetOpenAIAPIKey(), model), nil
	case "anthropic":
		return NewAnthropic(cfg.GetAnthropicAPIKey(), model), nil
	case "openrouter":
		return NewOpenRouter(cfg.GetOpenRouterAPIKey(), model), nil
	case "ollama":
		return NewOllama(cfg.GetOllamaBaseURL(), cfg.GetOllamaAPIKey(), model), nil
	case "custom":
		return NewCustomOpenAI(cfg.GetCustomOpenAIBaseURL(), cfg.GetCustomOpenAIAPIKey(), model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.GetProvider())
	}
}
