package main

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/scoutbot/internal/config"
	"github.com/sandevgo/scoutbot/internal/service/installer"
	"github.com/sandevgo/scoutbot/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:          "install",
	Short:        "Set up the runtime directory and configuration",
	SilenceUsage: true,
	RunE:         runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, _ []string) error {
	ctx, flush := setupLogger(cmd.Context())
	defer flush()
	logger := log.FromCtx(ctx)

	if _, err := installer.RunWizard(); err != nil {
		return err
	}

	// The wizard just wrote .env; load it so the config layer sees the
	// fresh values in this same process.
	runtimePath := config.GetRuntimePath()
	envPath := filepath.Join(runtimePath, ".env")
	if err := godotenv.Load(envPath); err != nil {
		logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
	}

	logger.Info().Str("path", runtimePath).Msg("runtime directory initialized")
	logger.Info().Msg("setup complete, start the relay with 'scout start'")
	return nil
}
