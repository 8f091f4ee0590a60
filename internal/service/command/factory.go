package command

import (
	"github.com/sandevgo/scoutbot/internal/core"
	"github.com/sandevgo/scoutbot/internal/providers/mcp"
	"github.com/sandevgo/scoutbot/internal/service/agent"
)

func NewCommands(
	cfg core.ProviderConfig,
	state core.GlobalState,
	tools core.MCPServer,
	servers *mcp.Registry,
	sessions *agent.SessionRegistry,
) []core.Command {
	return []core.Command{
		NewModelCommand(cfg, state),
		NewSourcesCommand(tools, servers),
		NewContextCommand(sessions),
	}
}
