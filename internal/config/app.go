package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v9"
	"github.com/sandevgo/scoutbot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"SCOUTBOT_RUNTIME_PATH" envDefault:".scoutbot"`
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"openrouter"`

	// Which transports come up on start.
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"ENABLE_CLI" envDefault:"true"`

	// How much history a session drags along.
	ContextBudgetTokens int `env:"SCOUT_CONTEXT_BUDGET" envDefault:"6000"`
	HistoryFetchLimit   int `env:"HISTORY_FETCH_LIMIT" envDefault:"30"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	// A relative runtime path is resolved against the home directory, so
	// every derived path matches GetRuntimePath.
	if !filepath.IsAbs(c.RuntimePath) {
		home, _ := os.UserHomeDir()
		c.RuntimePath = filepath.Join(home, c.RuntimePath)
	}
	return c
}

// inRuntime resolves a name inside the runtime directory.
func (c AppConfig) inRuntime(name string) string {
	return filepath.Join(c.RuntimePath, name)
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return c.inRuntime("scoutbot.db")
}

func (c AppConfig) GetMCPConfigPath() string {
	return c.inRuntime("mcp_config.json")
}

func (c AppConfig) GetSystemPath() string {
	return c.inRuntime("SYSTEM.md")
}

func (c AppConfig) GetIdentityPath() string {
	return c.inRuntime("IDENTITY.md")
}

func (c AppConfig) GetUserProfilePath() string {
	return c.inRuntime("USER.md")
}

func (c AppConfig) GetLocationsPath() string {
	return c.inRuntime("locations.txt")
}

func (c AppConfig) GetTopicsPath() string {
	return c.inRuntime("topics.txt")
}

func (c AppConfig) GetContextBudgetTokens() int {
	return c.ContextBudgetTokens
}

func (c AppConfig) GetHistoryFetchLimit() int {
	return c.HistoryFetchLimit
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}
