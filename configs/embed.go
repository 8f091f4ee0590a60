package configs

import "embed"

//go:embed IDENTITY.md SYSTEM.md USER.md mcp_config.json locations.txt topics.txt
var FS embed.FS
