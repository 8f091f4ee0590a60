package main

import (
	"context"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/scoutbot/internal/config"
	"github.com/sandevgo/scoutbot/internal/service/ui"
	"github.com/sandevgo/scoutbot/pkg/log"
	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "ScoutBot — a venue-scouting assistant",
	Long:  `ScoutBot is a personal assistant that scouts venues, keeps track of what you talked about and relays answers without repeating itself.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

// setupLogger builds the process logger, honouring both the --debug flag
// and the SCOUT_DEBUG environment switch.
func setupLogger(ctx context.Context) (context.Context, func()) {
	return log.NewContextWithLogger(ctx, debug || config.IsDebug())
}

// CustomizeHelp swaps cobra's default help for a styled template.
func CustomizeHelp(rootCmd *cobra.Command) {
	styles := map[string]lipgloss.Style{
		"StyleTitle": ui.TitleStyle,
		"StyleUsage": ui.UsageStyle,
		"StyleFlag":  ui.FlagStyle,
		"StyleDesc":  ui.DescStyle,
	}
	for name, style := range styles {
		style := style
		cobra.AddTemplateFunc(name, func(s string) string { return style.Render(s) })
	}

	rootCmd.SetHelpTemplate(`
{{StyleTitle "USAGE"}}
  {{.UseLine}}
{{if gt (len .Commands) 0}}{{StyleTitle "COMMANDS"}}
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}
{{end}}{{end}}
{{if .HasAvailableLocalFlags}}{{StyleTitle "FLAGS"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}
`)
}
