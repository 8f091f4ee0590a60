package core

import "context"

// AppConfig covers runtime paths and the conversation budget knobs.
type AppConfig interface {
	GetRuntimePath() string
	GetDatabasePath() string
	GetMCPConfigPath() string
	GetContextBudgetTokens() int
	GetHistoryFetchLimit() int
	IsTelegramSelected() bool
}

// PromptConfig locates the prompt and vocabulary files in the runtime
// directory.
type PromptConfig interface {
	GetSystemPath() string
	GetIdentityPath() string
	GetUserProfilePath() string
	GetLocationsPath() string
	GetTopicsPath() string
}

// ProviderConfig exposes backend selection and the credentials for every
// supported vendor. SetModel persists the choice for the process.
type ProviderConfig interface {
	GetProvider() string
	GetModel() string
	SetModel(model string) error

	GetAnthropicAPIKey() string
	GetOpenAIAPIKey() string
	GetOpenRouterAPIKey() string
	GetOllamaBaseURL() string
	GetOllamaAPIKey() string
	GetCustomOpenAIBaseURL() string
	GetCustomOpenAIAPIKey() string
}

// DedupConfig tunes the repeated-answer suppressor.
type DedupConfig interface {
	GetDedupThreshold() float64
	GetDedupWindowSize() int
}

type TelegramConfig interface {
	GetTelegramToken() string
	GetTelegramOwnerID() int64
}

// GlobalState is process-wide mutable state the chat commands act on.
type GlobalState interface {
	ChangeModel(ctx context.Context, model string) error
}
