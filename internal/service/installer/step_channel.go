package installer

// NewChannelStep picks where the owner wants to talk to the scout. The
// answer only routes the remaining wizard steps; the .env flags are
// derived later from what was actually configured.
func NewChannelStep() Step {
	return &pickStep{
		prompt: "Select your Chat Channel:",
		options: []option{
			{id: "telegram", label: "Telegram"},
			{id: "cli", label: "CLI only"},
		},
		commit: func(state *InstallState, opt option) {
			state.EnvVars["SCOUT_CHAT_CHANNEL"] = opt.id
		},
	}
}
