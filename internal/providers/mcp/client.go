package mcp

import (
	"sync"

	"github.com/mark3labs/mcp-go/client"
)

// ManagedClient wraps an mcp-go client with an idempotent Close so the
// pool can drop a connection from several paths without double-closing.
type ManagedClient struct {
	*client.Client

	mu     sync.RWMutex
	closed bool
	name   string
}

// Name reports which configured server this client belongs to.
func (mc *ManagedClient) Name() string {
	return mc.name
}

func (mc *ManagedClient) Close() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.closed {
		return nil
	}
	mc.closed = true

	// The embedded client is nil in unit tests.
	if mc.Client == nil {
		return nil
	}
	return mc.Client.Close()
}

func (mc *ManagedClient) IsClosed() bool {
	mc.mu.RLock()
	closed := mc.closed
	mc.mu.RUnlock()
	return closed
}
