package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/scoutbot/internal/core"
	"github.com/sandevgo/scoutbot/internal/providers/mcp"
)

type SourcesCommand struct {
	tools     core.MCPServer
	servers   *mcp.Registry
	formatter *ResponseFormatter
}

func NewSourcesCommand(tools core.MCPServer, servers *mcp.Registry) core.Command {
	return &SourcesCommand{
		tools:     tools,
		servers:   servers,
		formatter: NewResponseFormatter(),
	}
}

func (c *SourcesCommand) Name() string {
	return "sources"
}

func (c *SourcesCommand) Description() string {
	return "Show or manage the tool servers available for scouting"
}

func (c *SourcesCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.list(ctx)
	}

	switch args[0] {
	case "add":
		return c.add(ctx, args[1:])
	case "remove":
		return c.remove(ctx, args[1:])
	default:
		return c.formatter.Combine(
			c.formatter.Info("Scouting Sources"),
			c.formatter.Usage("/sources [add <name> <url-or-command> [args...]] [remove <name>]"),
			c.formatter.Examples(
				"/sources",
				"/sources add maps https://maps.example.com/mcp",
				"/sources add places npx -y @example/places-mcp",
				"/sources remove maps",
			),
		), nil
	}
}

func (c *SourcesCommand) list(ctx context.Context) (string, error) {
	tools, err := c.tools.GetTools(ctx)
	if err != nil {
		return "", err
	}

	sections := []string{c.formatter.Info("Scouting Sources")}

	servers := c.servers.List()
	if len(servers) > 0 {
		items := make([]string, 0, len(servers))
		for name, cfg := range servers {
			target := cfg.URL
			if target == "" {
				target = strings.TrimSpace(cfg.Command + " " + strings.Join(cfg.Args, " "))
			}
			items = append(items, fmt.Sprintf("**%s**: `%s`", name, target))
		}
		sections = append(sections,
			c.formatter.Label("Configured servers", fmt.Sprintf("%d", len(servers))),
			c.formatter.List(items...),
		)
	}

	if len(tools) == 0 {
		return c.formatter.Combine(append(sections,
			c.formatter.Label("Status", "No tools are currently connected."),
			c.formatter.Tip("Add a server with /sources add, or check your MCP configuration"),
		)...), nil
	}

	items := make([]string, len(tools))
	for i, tool := range tools {
		description := strings.ReplaceAll(strings.ReplaceAll(tool.Function.Description, "\n", " "), "\r", " ")
		description = strings.Join(strings.Fields(description), " ")
		if len(description) > 120 {
			description = description[:117] + "..."
		}
		items[i] = fmt.Sprintf("**%s**: %s", tool.Function.Name, description)
	}

	return c.formatter.Combine(append(sections,
		c.formatter.Label("Connected tools", fmt.Sprintf("%d", len(tools))),
		"\n",
		c.formatter.List(items...),
	)...), nil
}

func (c *SourcesCommand) add(ctx context.Context, args []string) (string, error) {
	if len(args) < 2 {
		return c.formatter.Combine(
			c.formatter.Usage("/sources add <name> <url-or-command> [args...]"),
			c.formatter.Examples(
				"/sources add maps https://maps.example.com/mcp",
				"/sources add places npx -y @example/places-mcp",
			),
		), nil
	}

	name, target := args[0], args[1]
	var cfg mcp.ServerConfig
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		cfg.URL = target
	} else {
		cfg.Command = target
		cfg.Args = args[2:]
	}

	if err := c.servers.Add(ctx, name, cfg); err != nil {
		return "", fmt.Errorf("failed to add server: %w", err)
	}

	return c.formatter.Combine(
		c.formatter.Success(fmt.Sprintf("Server `%s` added", name)),
		c.formatter.Tip("Connecting in the background; run /sources to see its tools"),
	), nil
}

func (c *SourcesCommand) remove(ctx context.Context, args []string) (string, error) {
	if len(args) < 1 {
		return c.formatter.Combine(
			c.formatter.Usage("/sources remove <name>"),
		), nil
	}

	name := args[0]
	if _, ok := c.servers.Get(name); !ok {
		return "", fmt.Errorf("unknown server: %s", name)
	}

	if err := c.servers.Remove(ctx, name); err != nil {
		return "", fmt.Errorf("failed to remove server: %w", err)
	}

	return c.formatter.Combine(
		c.formatter.Success(fmt.Sprintf("Server `%s` removed", name)),
	), nil
}
