package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sandevgo/scoutbot/internal/core"
)

// OpenAICompatible speaks the chat-completions dialect most vendors
// expose. The concrete providers wrap it with their base URL, auth
// scheme, and model-list quirks.
type OpenAICompatible struct {
	baseProvider
	headers map[string]string
}

type OpenAICompatibleConfig struct {
	BaseURL string
	APIKey  string
	Model   string

	// AuthHeader and AuthPrefix shape the credential header, usually
	// "Authorization" with "Bearer ".
	AuthHeader   string
	AuthPrefix   string
	ExtraHeaders map[string]string
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	headers := make(map[string]string, len(cfg.ExtraHeaders)+1)
	if cfg.AuthHeader != "" && cfg.APIKey != "" {
		headers[cfg.AuthHeader] = cfg.AuthPrefix + cfg.APIKey
	}
	for k, v := range cfg.ExtraHeaders {
		headers[k] = v
	}

	return &OpenAICompatible{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.Model),
		headers:      headers,
	}
}

// chatPayload builds the request body shared by Chat and ChatStream.
func chatPayload(model string, history []core.Message, tools []core.Tool) map[string]any {
	payload := map[string]any{
		"model":    model,
		"messages": history,
	}
	if len(tools) > 0 {
		payload["tools"] = tools
	}
	return payload
}

func (o *OpenAICompatible) Chat(ctx context.Context, history []core.Message, tools []core.Tool) (core.Message, error) {
	body := chatPayload(o.model, history, tools)

	resp, err := o.doRequest(ctx, http.MethodPost, "/v1/chat/completions", body, o.headers)
	if err != nil {
		return core.Message{}, err
	}
	defer resp.Body.Close()

	return decodeChatCompletion(resp)
}

func decodeChatCompletion(resp *http.Response) (core.Message, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Message{}, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return core.Message{}, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var completion struct {
		Choices []struct {
			Message core.Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &completion); err != nil {
		return core.Message{}, fmt.Errorf("decode: %w", err)
	}
	if len(completion.Choices) == 0 {
		return core.Message{}, fmt.Errorf("empty choices: %s", string(data))
	}
	return completion.Choices[0].Message, nil
}

// listModels serves providers whose /v1/models answer is a bare id list.
func (o *OpenAICompatible) listModels(ctx context.Context) ([]core.Model, error) {
	resp, err := o.doGet(ctx, "/v1/models", o.headers)
	if err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var parsed struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode models response: %w", err)
	}

	models := make([]core.Model, 0, len(parsed.Data))
	for _, m := range parsed.Data {
		models = append(models, core.Model{ID: m.ID, Name: m.ID})
	}
	return models, nil
}
