package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	envfile "github.com/sandevgo/scoutbot/pkg/env"
	"github.com/sandevgo/scoutbot/pkg/log"
)

type ProviderConfig struct {
	Provider string `env:"LLM_PROVIDER" envDefault:"openrouter"`
	Model    string `env:"SCOUT_MODEL" envDefault:"google/gemma-3-27b-it:free"`

	AnthropicAPIKey  string `env:"SCOUT_ANTHROPIC_API_KEY"`
	OpenAIAPIKey     string `env:"SCOUT_OPENAI_API_KEY"`
	OpenRouterAPIKey string `env:"SCOUT_OPENROUTER_API_KEY"`

	OllamaAPIKey  string `env:"SCOUT_OLLAMA_API_KEY"`
	OllamaBaseURL string `env:"SCOUT_OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`

	CustomOpenAIBaseURL string `env:"SCOUT_CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"SCOUT_CUSTOM_OPENAI_API_KEY"`
}

func NewProviderConfig(ctx context.Context) *ProviderConfig {
	c := &ProviderConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Provider config")
	}
	return c
}

func (c ProviderConfig) GetProvider() string {
	return c.Provider
}

func (c ProviderConfig) GetModel() string {
	return c.Model
}

func (c ProviderConfig) GetAnthropicAPIKey() string {
	return c.AnthropicAPIKey
}

func (c ProviderConfig) GetOpenAIAPIKey() string {
	return c.OpenAIAPIKey
}

func (c ProviderConfig) GetOpenRouterAPIKey() string {
	return c.OpenRouterAPIKey
}

func (c ProviderConfig) GetOllamaAPIKey() string {
	return c.OllamaAPIKey
}

func (c ProviderConfig) GetOllamaBaseURL() string {
	return c.OllamaBaseURL
}

func (c ProviderConfig) GetCustomOpenAIBaseURL() string {
	return c.CustomOpenAIBaseURL
}

func (c ProviderConfig) GetCustomOpenAIAPIKey() string {
	return c.CustomOpenAIAPIKey
}

// SetModel updates the active model and persists it to the runtime .env
// file so the choice survives restarts.
func (c *ProviderConfig) SetModel(model string) error {
	c.Model = model

	content, err := envfile.MarshalEnv(c)
	if err != nil {
		return fmt.Errorf("marshal provider config: %w", err)
	}

	envPath := filepath.Join(GetRuntimePath(), ".env")
	merged, err := mergeEnvFile(envPath, content)
	if err != nil {
		return err
	}
	if err := os.WriteFile(envPath, []byte(merged), 0600); err != nil {
		return fmt.Errorf("write %s: %w", envPath, err)
	}
	return nil
}

// mergeEnvFile replaces the keys owned by content in the existing file,
// keeping every other line untouched.
func mergeEnvFile(path, content string) (string, error) {
	owned := make(map[string]bool)
	for _, line := range strings.Split(content, "\n") {
		if k, _, ok := strings.Cut(line, "="); ok {
			owned[k] = true
		}
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	var kept []string
	for _, line := range strings.Split(string(data), "\n") {
		if k, _, ok := strings.Cut(line, "="); ok && owned[k] {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}

	kept = append(kept, strings.TrimRight(content, "\n"))
	return strings.Join(kept, "\n") + "\n", nil
}
