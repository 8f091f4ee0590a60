package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/scoutbot/pkg/log"
	"github.com/sandevgo/scoutbot/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the relay and its transports",
	Long:  `Brings up every configured transport (Telegram, local console) together with the background workers, and runs until interrupted.`,
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ctx, flush := setupLogger(ctx)
	defer flush()
	logger := log.FromCtx(ctx)

	logger.Info().Msg("starting scoutbot")
	services := NewServices(ctx)
	srv.StartServices(ctx, services)

	// Blocks until the interrupt lands, then unwinds the services.
	srv.ShutdownServices(ctx, services)

	logger.Info().Msg("scoutbot stopped")
	return nil
}
