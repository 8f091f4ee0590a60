package llm

import (
	"context"

	"github.com/sandevgo/scoutbot/internal/core"
)

type OpenAI struct {
	*OpenAICompatible
}

func NewOpenAI(apiKey, model string) *OpenAI {
	cfg := OpenAICompatibleConfig{
		BaseURL:    "https://api.openai.com",
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
	}
	return &OpenAI{OpenAICompatible: NewOpenAICompatible(cfg)}
}

func (o *OpenAI) Models(ctx context.Context) ([]core.Model, error) {
	return o.listModels(ctx)
}
