package installer

import (
	"github.com/charmbracelet/bubbles/textinput"
)

func wantsTelegram(state *InstallState) bool {
	return state.EnvVars["SCOUT_CHAT_CHANNEL"] == "telegram"
}

// NewTelegramTokenStep collects the bot token issued by BotFather.
func NewTelegramTokenStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = "123456789:ABCDEF..."
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'

	return &textStep{
		prompt:  "Enter your Telegram Bot Token:",
		input:   ti,
		applies: wantsTelegram,
		commit: func(state *InstallState, val string) bool {
			state.EnvVars["TELEGRAM_TOKEN"] = val
			return true
		},
	}
}

// NewTelegramOwnerStep collects the numeric user id the relay will obey.
func NewTelegramOwnerStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = "123456789"

	return &textStep{
		prompt:  "Enter your Telegram User ID (Owner):",
		input:   ti,
		applies: wantsTelegram,
		commit: func(state *InstallState, val string) bool {
			state.EnvVars["TELEGRAM_OWNER_ID"] = val
			return true
		},
	}
}
