package installer

type dedupPreset struct {
	threshold string
	window    string
}

// NewDedupStep tunes how aggressively repeated answer text is
// suppressed. A lower threshold and a longer comparison window both
// mean stricter.
func NewDedupStep() Step {
	presets := map[string]dedupPreset{
		"strict":   {threshold: "0.80", window: "75"},
		"standard": {threshold: "0.85", window: "50"},
		"relaxed":  {threshold: "0.92", window: "25"},
	}

	return &pickStep{
		prompt: "How strictly should repeated answers be filtered?",
		options: []option{
			{id: "strict", label: "Strict (drops anything close to a repeat)"},
			{id: "standard", label: "Standard (recommended)"},
			{id: "relaxed", label: "Relaxed (only near-identical repeats)"},
		},
		cursor: 1,
		commit: func(state *InstallState, opt option) {
			p := presets[opt.id]
			state.EnvVars["SCOUT_DEDUP_THRESHOLD"] = p.threshold
			state.EnvVars["SCOUT_DEDUP_WINDOW"] = p.window
		},
	}
}
