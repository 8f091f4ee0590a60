package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sandevgo/scoutbot/internal/core"
)

const anthropicVersion = "2023-06-01"

// Anthropic speaks the native messages API rather than the OpenAI
// dialect, so it gets its own client.
type Anthropic struct {
	baseProvider
}

func NewAnthropic(apiKey, model string) *Anthropic {
	base := newBaseProvider("https://api.anthropic.com", apiKey, model)
	return &Anthropic{baseProvider: base}
}

func (a *Anthropic) headers() map[string]string {
	return map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicVersion,
	}
}

type anthropicMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicTurns drops system prompts from the history; the messages API
// takes the system prompt out of band.
func anthropicTurns(history []core.Message) []anthropicMsg {
	turns := make([]anthropicMsg, 0, len(history))
	for _, m := range history {
		if m.Role != core.RoleSystem {
			turns = append(turns, anthropicMsg{Role: m.Role, Content: m.Content})
		}
	}
	return turns
}

func (a *Anthropic) Chat(ctx context.Context, history []core.Message, tools []core.Tool) (core.Message, error) {
	payload := map[string]any{
		"model":      a.model,
		"messages":   anthropicTurns(history),
		"max_tokens": 4096,
	}

	resp, err := a.doRequest(ctx, http.MethodPost, "/v1/messages", payload, a.headers())
	if err != nil {
		return core.Message{}, err
	}
	defer resp.Body.Close()

	return decodeClaudeMessage(resp)
}

func decodeClaudeMessage(resp *http.Response) (core.Message, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Message{}, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return core.Message{}, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var answer struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(data, &answer); err != nil {
		return core.Message{}, fmt.Errorf("decode: %w", err)
	}

	var text strings.Builder
	for _, block := range answer.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return core.Message{Role: core.RoleAssistant, Content: text.String()}, nil
}

// Models pages through the catalog; the API caps one page at 1000.
func (a *Anthropic) Models(ctx context.Context) ([]core.Model, error) {
	var models []core.Model

	afterID := ""
	for {
		page, err := a.modelsPage(ctx, afterID)
		if err != nil {
			return nil, err
		}

		for _, m := range page.Data {
			if m.Type != "model" {
				continue
			}
			// The catalog does not report context length.
			models = append(models, core.Model{ID: m.ID, Name: m.DisplayName})
		}

		if !page.HasMore {
			return models, nil
		}
		afterID = page.LastID
	}
}

type anthropicModelsPage struct {
	Data []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		Type        string `json:"type"`
	} `json:"data"`
	HasMore bool   `json:"has_more"`
	LastID  string `json:"last_id"`
}

func (a *Anthropic) modelsPage(ctx context.Context, afterID string) (*anthropicModelsPage, error) {
	path := "/v1/models?limit=1000"
	if afterID != "" {
		path = fmt.Sprintf("%s&after_id=%s", path, url.QueryEscape(afterID))
	}

	resp, err := a.doGet(ctx, path, a.headers())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	page := &anthropicModelsPage{}
	if err := json.Unmarshal(data, page); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return page, nil
}
