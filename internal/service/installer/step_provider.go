package installer

// NewProviderStep picks the LLM vendor. The id is what the config layer
// expects in LLM_PROVIDER.
func NewProviderStep() Step {
	return &pickStep{
		prompt: "Select your AI Provider:",
		options: []option{
			{id: "anthropic", label: "Anthropic"},
			{id: "openai", label: "OpenAI"},
			{id: "openrouter", label: "OpenRouter"},
			{id: "ollama", label: "Ollama"},
			{id: "custom", label: "Custom (OpenAI-compatible)"},
		},
		commit: func(state *InstallState, opt option) {
			state.EnvVars["LLM_PROVIDER"] = opt.id
		},
	}
}
