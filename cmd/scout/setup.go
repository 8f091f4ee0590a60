package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/scoutbot/internal/config"
	"github.com/sandevgo/scoutbot/internal/core"
	"github.com/sandevgo/scoutbot/internal/providers/llm"
	"github.com/sandevgo/scoutbot/internal/providers/mcp"
	"github.com/sandevgo/scoutbot/internal/service/agent"
	"github.com/sandevgo/scoutbot/internal/service/command"
	"github.com/sandevgo/scoutbot/internal/service/memory"
	"github.com/sandevgo/scoutbot/internal/service/state"
	"github.com/sandevgo/scoutbot/internal/storage/sqlite"
	"github.com/sandevgo/scoutbot/internal/transport/cli"
	"github.com/sandevgo/scoutbot/internal/transport/telegram"
	"github.com/sandevgo/scoutbot/pkg/log"
	"github.com/sandevgo/scoutbot/pkg/srv"
)

// NewServices assembles the whole relay: storage, session tracking, the
// LLM provider, tool servers, the agent loop and every enabled transport.
// Construction failures are fatal; the process is useless half-built.
func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	must := func(what string, err error) {
		if err != nil {
			logger.Fatal().Err(err).Msg(what)
		}
	}

	must("failed to init env", loadEnvFile(ctx, config.GetRuntimePath()))

	appCfg := config.NewAppConfig(ctx)
	providerCfg := config.NewProviderConfig(ctx)
	dedupCfg := config.NewDedupConfig(ctx)

	var services []srv.Service

	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	must("failed to initialize storage", err)
	services = append(services, srv.NewCleanup(db.Close))

	messagesRepo := sqlite.NewMessagesRepo(db)
	contextRepo := sqlite.NewSessionContextRepo(db)

	// Persisted session contexts are restored lazily per session; the
	// flusher writes dirty ones back in the background.
	vocab := memory.LoadVocabulary(appCfg.GetLocationsPath(), appCfg.GetTopicsPath())
	registry := agent.NewSessionRegistry(contextRepo, memory.NewRuleExtractor(vocab))
	services = append(services, agent.NewFlusher(registry))

	aiProvider, err := llm.NewDynamicProvider(ctx, providerCfg)
	must("failed to initialize LLM provider", err)

	mcpService, mcpRegistry, err := initMCP(ctx, appCfg)
	must("failed to initialize MCP service", err)
	services = append(services, mcpService)

	mem := memory.NewMemory(appCfg, messagesRepo, memory.NewSysPrompt(appCfg))
	ag := agent.NewAgent(dedupCfg, aiProvider, mcpService, mem, agent.NewExecutor(mcpService), registry)

	router := command.New(command.NewCommands(
		providerCfg,
		state.NewGlobalState(aiProvider),
		mcpService,
		mcpRegistry,
		registry,
	))

	transports, err := initTransports(ctx, appCfg, ag, router)
	must("failed to initialize transports", err)

	return append(services, transports...)
}

func initMCP(ctx context.Context, cfg *config.AppConfig) (*mcp.Service, *mcp.Registry, error) {
	storage := mcp.NewFileStorage(cfg.GetMCPConfigPath())
	registry := mcp.NewRegistry(storage)
	svc, err := mcp.NewService(cfg.GetRuntimePath(), mcp.NewPool(), registry, mcp.NewToolCache())
	return svc, registry, err
}

func initTransports(ctx context.Context, cfg *config.AppConfig, ag *agent.Agent, router core.CmdRouter) ([]srv.Service, error) {
	var transports []srv.Service

	if cfg.IsTelegramSelected() {
		bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), ag, router)
		if err != nil {
			return nil, err
		}
		transports = append(transports, bot)
	}

	if cfg.EnableCLI {
		console, err := cli.NewReadLine(ag, router, cfg)
		if err != nil {
			return nil, err
		}
		transports = append(transports, console)
	}

	return transports, nil
}

// loadEnvFile loads the runtime .env when it exists. A missing file is
// fine; a fresh install runs on environment variables alone.
func loadEnvFile(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	path := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", path).Msg("loaded .env file")
	return nil
}
