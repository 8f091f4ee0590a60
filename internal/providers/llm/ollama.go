package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sandevgo/scoutbot/internal/core"
)

// ollamaProbeTimeout keeps the model picker snappy when no local daemon
// is running.
const ollamaProbeTimeout = 5 * time.Second

type Ollama struct {
	*OpenAICompatible
}

// NewOllama talks to a local daemon through its OpenAI shim. The key is
// optional; stock installs run unauthenticated.
func NewOllama(baseURL, apiKey, model string) *Ollama {
	cfg := OpenAICompatibleConfig{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
	}
	return &Ollama{OpenAICompatible: NewOpenAICompatible(cfg)}
}

// Models asks the native tags endpoint; ollama's OpenAI shim does not
// list local models.
func (o *Ollama) Models(ctx context.Context) ([]core.Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	client := &http.Client{Timeout: ollamaProbeTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama not reachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama status %d", resp.StatusCode)
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, err
	}

	// The tags endpoint reports no context size; assume a roomy default.
	models := make([]core.Model, 0, len(tags.Models))
	for _, m := range tags.Models {
		models = append(models, core.Model{ID: m.Name, Name: m.Name, ContextLength: 32768})
	}
	return models, nil
}
