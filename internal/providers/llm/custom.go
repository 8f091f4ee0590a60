package llm

import (
	"context"

	"github.com/sandevgo/scoutbot/internal/core"
)

// CustomOpenAI points the compatible client at a user-supplied endpoint,
// for self-hosted gateways and proxies.
type CustomOpenAI struct {
	*OpenAICompatible
}

func NewCustomOpenAI(baseURL, apiKey, model string) *CustomOpenAI {
	cfg := OpenAICompatibleConfig{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
	}
	return &CustomOpenAI{OpenAICompatible: NewOpenAICompatible(cfg)}
}

func (c *CustomOpenAI) Models(ctx context.Context) ([]core.Model, error) {
	return c.listModels(ctx)
}
