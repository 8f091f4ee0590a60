package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sandevgo/scoutbot/internal/core"
)

// OpenRouter fronts many vendors behind one key. The referer headers
// identify the relay in their usage dashboard.
type OpenRouter struct {
	*OpenAICompatible
}

func NewOpenRouter(apiKey, model string) *OpenRouter {
	cfg := OpenAICompatibleConfig{
		BaseURL:    "https://openrouter.ai/api",
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
		ExtraHeaders: map[string]string{
			"HTTP-Referer": core.ScoutRepositoryURL,
			"X-Title":      core.ScoutName,
		},
	}
	return &OpenRouter{OpenAICompatible: NewOpenAICompatible(cfg)}
}

// Models uses OpenRouter's richer catalog, which carries display names
// and context windows the picker can show.
func (o *OpenRouter) Models(ctx context.Context) ([]core.Model, error) {
	resp, err := o.doGet(ctx, "/v1/models", o.headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openrouter status %d: %s", resp.StatusCode, string(body))
	}

	var catalog struct {
		Data []core.Model `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("decode models response: %w", err)
	}
	return catalog.Data, nil
}
