package mcp

import (
	"context"
	"sync"
)

// Storage persists the tool-server catalog and reports external edits.
type Storage interface {
	Load(ctx context.Context) (*Config, error)
	Save(ctx context.Context, cfg *Config) error
	Watch(ctx context.Context) (<-chan Config, error)
}

// Registry is the in-memory view of the configured tool servers, kept in
// step with storage. Mutations persist first and apply in memory only
// once the write succeeded.
type Registry struct {
	storage Storage

	mu      sync.RWMutex
	servers map[string]ServerConfig
}

func NewRegistry(storage Storage) *Registry {
	return &Registry{storage: storage, servers: map[string]ServerConfig{}}
}

// Load replaces the in-memory catalog with the stored one.
func (r *Registry) Load(ctx context.Context) error {
	cfg, err := r.storage.Load(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.servers = cfg.MCPServers
	return nil
}

// Add persists a server under name and makes it visible to Get and List.
func (r *Registry) Add(ctx context.Context, name string, cfg ServerConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := cloneServers(r.servers)
	next[name] = cfg
	return r.commit(ctx, next)
}

// Remove persists the catalog without name. Removing an unknown server
// still rewrites the file.
func (r *Registry) Remove(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := cloneServers(r.servers)
	delete(next, name)
	return r.commit(ctx, next)
}

// commit writes next to storage and adopts it on success. Callers hold mu.
func (r *Registry) commit(ctx context.Context, next map[string]ServerConfig) error {
	if err := r.storage.Save(ctx, &Config{MCPServers: next}); err != nil {
		return err
	}
	r.servers = next
	return nil
}

func (r *Registry) Get(name string) (ServerConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, found := r.servers[name]
	return cfg, found
}

// List returns a copy; callers may mutate it freely.
func (r *Registry) List() map[string]ServerConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneServers(r.servers)
}

// Watch mirrors storage change events into the catalog and forwards them.
// The returned channel closes when ctx ends or the storage watch stops.
func (r *Registry) Watch(ctx context.Context) (<-chan Config, error) {
	changes, err := r.storage.Watch(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan Config)
	go r.forward(ctx, changes, out)
	return out, nil
}

func (r *Registry) forward(ctx context.Context, in <-chan Config, out chan<- Config) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-in:
			if !ok {
				return
			}
			r.adopt(cfg)
			select {
			case out <- cfg:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (r *Registry) adopt(cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg.MCPServers == nil {
		r.servers = make(map[string]ServerConfig)
		return
	}
	r.servers = cfg.MCPServers
}

func cloneServers(src map[string]ServerConfig) map[string]ServerConfig {
	dst := make(map[string]ServerConfig, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
