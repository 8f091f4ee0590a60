package llm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sandevgo/scoutbot/internal/core"
)

// DynamicProvider lets /model swap the backing provider mid-run without
// the transports noticing.
type DynamicProvider struct {
	config core.ProviderConfig

	mu     sync.RWMutex
	active atomic.Value // holds held
}

// held keeps atomic.Value happy: the stored concrete type must never
// change, the provider behind it may.
type held struct {
	provider core.AIProvider
}

func NewDynamicProvider(ctx context.Context, config core.ProviderConfig) (*DynamicProvider, error) {
	provider, err := NewProvider(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial provider: %w", err)
	}

	d := &DynamicProvider{config: config}
	d.active.Store(held{provider: provider})
	return d, nil
}

func (d *DynamicProvider) provider() core.AIProvider {
	return d.active.Load().(held).provider
}

func (d *DynamicProvider) Chat(ctx context.Context, history []core.Message, tools []core.Tool) (core.Message, error) {
	return d.provider().Chat(ctx, history, tools)
}

// ChatStream forwards to the active provider when it streams. Providers
// without streaming fall back to a single fragment carrying the whole
// answer.
func (d *DynamicProvider) ChatStream(ctx context.Context, history []core.Message, tools []core.Tool, onFragment func(string)) (core.Message, error) {
	provider := d.provider()
	if sp, ok := provider.(core.StreamingProvider); ok {
		return sp.ChatStream(ctx, history, tools, onFragment)
	}

	msg, err := provider.Chat(ctx, history, tools)
	if err != nil {
		return core.Message{}, err
	}
	if msg.Content != "" {
		onFragment(msg.Content)
	}
	return msg, nil
}

func (d *DynamicProvider) Models(ctx context.Context) ([]core.Model, error) {
	return d.provider().Models(ctx)
}

func (d *DynamicProvider) GetModel() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.config.GetModel()
}

// SetModel persists the choice first, then swaps in a fresh provider so
// in-flight chats finish on the old one.
func (d *DynamicProvider) SetModel(ctx context.Context, model string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.config.SetModel(model); err != nil {
		return err
	}

	provider, err := NewProvider(ctx, d.config)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	d.active.Store(held{provider: provider})
	return nil
}
