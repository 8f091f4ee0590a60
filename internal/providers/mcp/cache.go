package mcp

import (
	"sync"

	"github.com/sandevgo/scoutbot/internal/core"
)

// ToolCache memoizes the merged tool list between config changes so a
// chat round does not re-list every connected server.
type ToolCache struct {
	mu      sync.RWMutex
	tools   []core.Tool
	routing map[string]string // prefixed tool name -> server name
	valid   bool
}

func NewToolCache() *ToolCache {
	return &ToolCache{routing: make(map[string]string)}
}

// Get returns copies of the cached tool list and routing table, or
// ok=false when the cache is stale.
func (c *ToolCache) Get() (tools []core.Tool, routing map[string]string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid {
		return nil, nil, false
	}
	return copyTools(c.tools), copyRouting(c.routing), true
}

// Update replaces the cached view. Inputs are copied.
func (c *ToolCache) Update(tools []core.Tool, routing map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = true
	c.tools = copyTools(tools)
	c.routing = copyRouting(routing)
}

// Invalidate marks the cache stale until the next Update.
func (c *ToolCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = false
	c.tools = nil
	c.routing = make(map[string]string)
}

func copyTools(src []core.Tool) []core.Tool {
	dst := make([]core.Tool, len(src))
	copy(dst, src)
	return dst
}

func copyRouting(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
