package mcp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// catalogStore is an in-memory Storage for registry tests. The watch
// channel is fed by the test itself.
type catalogStore struct {
	mu      sync.Mutex
	cfg     *Config
	saves   int
	loadErr error
	saveErr error

	watchCh  chan Config
	watchErr error
}

func newCatalogStore(servers map[string]ServerConfig) *catalogStore {
	if servers == nil {
		servers = make(map[string]ServerConfig)
	}
	return &catalogStore{
		cfg:     &Config{MCPServers: servers},
		watchCh: make(chan Config),
	}
}

func (s *catalogStore) Load(ctx context.Context) (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return &Config{MCPServers: cloneServers(s.cfg.MCPServers)}, nil
}

func (s *catalogStore) Save(ctx context.Context, cfg *Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.cfg = &Config{MCPServers: cloneServers(cfg.MCPServers)}
	s.saves++
	return nil
}

func (s *catalogStore) Watch(ctx context.Context) (<-chan Config, error) {
	if s.watchErr != nil {
		return nil, s.watchErr
	}
	return s.watchCh, nil
}

func (s *catalogStore) stored() map[string]ServerConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneServers(s.cfg.MCPServers)
}

func (s *catalogStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func loadedRegistry(t *testing.T, store *catalogStore) *Registry {
	t.Helper()
	r := NewRegistry(store)
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return r
}

func TestRegistryLoad(t *testing.T) {
	store := newCatalogStore(map[string]ServerConfig{
		"maps":   {Command: "npx", Args: []string{"-y", "@modelcontextprotocol/server-google-maps"}},
		"places": {URL: "http://localhost:8931/mcp"},
	})

	r := loadedRegistry(t, store)

	if got := len(r.List()); got != 2 {
		t.Fatalf("List() size = %d, want 2", got)
	}
	cfg, ok := r.Get("maps")
	if !ok {
		t.Fatal("Get(maps) missed after Load")
	}
	if cfg.Command != "npx" {
		t.Errorf("maps command = %q, want %q", cfg.Command, "npx")
	}
}

func TestRegistryLoadPropagatesStorageError(t *testing.T) {
	store := newCatalogStore(nil)
	store.loadErr = errors.New("disk gone")

	r := NewRegistry(store)
	if err := r.Load(context.Background()); !errors.Is(err, store.loadErr) {
		t.Errorf("Load() error = %v, want %v", err, store.loadErr)
	}
}

func TestRegistryLoadReplacesCatalog(t *testing.T) {
	store := newCatalogStore(map[string]ServerConfig{"maps": {Command: "npx"}})
	r := loadedRegistry(t, store)
	ctx := context.Background()

	if err := r.Add(ctx, "reviews", ServerConfig{Command: "uvx"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// An edit from another process: reload must win over local state.
	store.mu.Lock()
	store.cfg = &Config{MCPServers: map[string]ServerConfig{"places": {URL: "http://localhost:8931/mcp"}}}
	store.mu.Unlock()

	if err := r.Load(ctx); err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if _, ok := r.Get("places"); !ok {
		t.Error("reloaded server missing")
	}
	if _, ok := r.Get("reviews"); ok {
		t.Error("stale local server survived reload")
	}
}

func TestRegistryAdd(t *testing.T) {
	store := newCatalogStore(nil)
	r := loadedRegistry(t, store)
	ctx := context.Background()

	cfg := ServerConfig{
		Command: "npx",
		Args:    []string{"-y", "@modelcontextprotocol/server-google-maps"},
		Env:     map[string]string{"GOOGLE_MAPS_API_KEY": "test-key"},
	}
	if err := r.Add(ctx, "maps", cfg); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, ok := r.Get("maps")
	if !ok {
		t.Fatal("Get() missed after Add")
	}
	if got.Env["GOOGLE_MAPS_API_KEY"] != "test-key" {
		t.Errorf("env not carried: %v", got.Env)
	}

	saved := store.stored()
	if _, ok := saved["maps"]; !ok {
		t.Error("Add did not reach storage")
	}

	// Same name again replaces the entry, in memory and on disk.
	if err := r.Add(ctx, "maps", ServerConfig{Command: "uvx"}); err != nil {
		t.Fatalf("overwrite Add() error = %v", err)
	}
	got, _ = r.Get("maps")
	if got.Command != "uvx" {
		t.Errorf("overwritten command = %q, want %q", got.Command, "uvx")
	}
	if len(r.List()) != 1 {
		t.Errorf("List() size = %d, want 1", len(r.List()))
	}
}

func TestRegistryAddKeepsMemoryOnSaveFailure(t *testing.T) {
	store := newCatalogStore(map[string]ServerConfig{"maps": {Command: "npx"}})
	r := loadedRegistry(t, store)

	store.saveErr = errors.New("read-only filesystem")

	err := r.Add(context.Background(), "places", ServerConfig{Command: "uvx"})
	if !errors.Is(err, store.saveErr) {
		t.Fatalf("Add() error = %v, want %v", err, store.saveErr)
	}

	// Persist-first: the failed write must not leave a phantom entry.
	if _, ok := r.Get("places"); ok {
		t.Error("unpersisted server visible in registry")
	}
	if got := len(r.List()); got != 1 {
		t.Errorf("List() size = %d, want 1", got)
	}
	if _, ok := store.stored()["places"]; ok {
		t.Error("storage gained an entry despite the save error")
	}
}

func TestRegistryRemove(t *testing.T) {
	store := newCatalogStore(map[string]ServerConfig{
		"maps":   {Command: "npx"},
		"places": {Command: "uvx"},
	})
	r := loadedRegistry(t, store)
	ctx := context.Background()

	if err := r.Remove(ctx, "maps"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok := r.Get("maps"); ok {
		t.Error("removed server still visible")
	}
	if _, ok := store.stored()["maps"]; ok {
		t.Error("removed server still in storage")
	}
	if _, ok := r.Get("places"); !ok {
		t.Error("Remove dropped an unrelated server")
	}

	// An unknown name is not an error, but the catalog is still rewritten.
	before := store.saveCount()
	if err := r.Remove(ctx, "reviews"); err != nil {
		t.Fatalf("Remove() on unknown name = %v", err)
	}
	if store.saveCount() != before+1 {
		t.Error("Remove of unknown name skipped the rewrite")
	}
}

func TestRegistryRemoveKeepsMemoryOnSaveFailure(t *testing.T) {
	store := newCatalogStore(map[string]ServerConfig{"maps": {Command: "npx"}})
	r := loadedRegistry(t, store)

	store.saveErr = errors.New("disk full")

	if err := r.Remove(context.Background(), "maps"); !errors.Is(err, store.saveErr) {
		t.Fatalf("Remove() error = %v, want %v", err, store.saveErr)
	}
	if _, ok := r.Get("maps"); !ok {
		t.Error("server vanished although the write failed")
	}
}

func TestRegistryListReturnsCopy(t *testing.T) {
	store := newCatalogStore(map[string]ServerConfig{"maps": {Command: "npx"}})
	r := loadedRegistry(t, store)

	list := r.List()
	delete(list, "maps")
	list["rogue"] = ServerConfig{Command: "evil"}

	if _, ok := r.Get("maps"); !ok {
		t.Error("mutating the List result reached the registry")
	}
	if _, ok := r.Get("rogue"); ok {
		t.Error("List insertion reached the registry")
	}
}

func TestRegistryWatchAdoptsAndForwards(t *testing.T) {
	store := newCatalogStore(nil)
	r := NewRegistry(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := r.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	store.watchCh <- Config{MCPServers: map[string]ServerConfig{
		"maps": {Command: "npx"},
	}}

	select {
	case cfg := <-out:
		if _, ok := cfg.MCPServers["maps"]; !ok {
			t.Error("forwarded config lost the server")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no config forwarded")
	}

	if _, ok := r.Get("maps"); !ok {
		t.Error("watched config was not adopted")
	}

	// A config whose server map is null still resets the catalog.
	store.watchCh <- Config{}
	select {
	case <-out:
	case <-time.After(2 * time.Second):
		t.Fatal("nil-map config not forwarded")
	}
	if got := len(r.List()); got != 0 {
		t.Errorf("List() size after nil-map update = %d, want 0", got)
	}

	close(store.watchCh)
	select {
	case _, ok := <-out:
		if ok {
			t.Error("forward channel open after storage watch ended")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("forward channel did not close")
	}
}

func TestRegistryWatchPropagatesError(t *testing.T) {
	store := newCatalogStore(nil)
	store.watchErr = errors.New("inotify budget exhausted")

	r := NewRegistry(store)
	if _, err := r.Watch(context.Background()); !errors.Is(err, store.watchErr) {
		t.Errorf("Watch() error = %v, want %v", err, store.watchErr)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	store := newCatalogStore(nil)
	r := loadedRegistry(t, store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				name := fmt.Sprintf("server-%d-%d", id, j)
				_ = r.Add(ctx, name, ServerConfig{Command: "npx"})
				r.Get(name)
				r.List()
				_ = r.Remove(ctx, name)
			}
		}(i)
	}
	wg.Wait()
}
