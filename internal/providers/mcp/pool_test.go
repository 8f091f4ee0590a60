package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
)

// A nil mcp-go client is safe here: ManagedClient.Close short-circuits
// before touching it, so no test ever dials a real server.
func stubDial(err error) Transport {
	return func(ctx context.Context, cfg ServerConfig) (*client.Client, error) {
		if err != nil {
			return nil, err
		}
		return nil, nil
	}
}

func stubFactory(tr Transport, err error) TransportFactory {
	return func(TransportType) (Transport, error) {
		if err != nil {
			return nil, err
		}
		return tr, nil
	}
}

func seedPool(p *Pool, names ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, name := range names {
		p.conns[name] = &ManagedClient{name: name}
	}
}

func waitClosed(t *testing.T, mc *ManagedClient) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if mc.IsClosed() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("client was not closed in time")
}

func TestPoolAdd(t *testing.T) {
	errNoTransport := errors.New("unsupported transport")
	errRefused := errors.New("connection refused")

	stdioCfg := ServerConfig{Command: "npx", Args: []string{"-y", "@modelcontextprotocol/server-google-maps"}}

	tests := []struct {
		name    string
		factory TransportFactory
		cfg     ServerConfig
		wantOK  bool
		wantErr error
	}{
		{
			name:    "stdio server connects",
			factory: stubFactory(stubDial(nil), nil),
			cfg:     stdioCfg,
			wantOK:  true,
		},
		{
			name:    "empty config is rejected before dialing",
			factory: stubFactory(stubDial(nil), nil),
			cfg:     ServerConfig{},
		},
		{
			name:    "factory failure",
			factory: stubFactory(nil, errNoTransport),
			cfg:     stdioCfg,
			wantErr: errNoTransport,
		},
		{
			name:    "dial failure",
			factory: stubFactory(stubDial(errRefused), nil),
			cfg:     stdioCfg,
			wantErr: errRefused,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPoolWithFactory(tt.factory)

			mc, err := p.Add(context.Background(), "maps", tt.cfg)

			if tt.wantOK {
				if err != nil {
					t.Fatalf("Add() error = %v", err)
				}
				if mc == nil {
					t.Fatal("Add() returned nil client")
				}
				if mc.Name() != "maps" {
					t.Errorf("Name() = %q, want %q", mc.Name(), "maps")
				}
				if _, ok := p.Get("maps"); !ok {
					t.Error("added server missing from pool")
				}
				return
			}

			if err == nil {
				t.Fatal("Add() error = nil, want failure")
			}
			if mc != nil {
				t.Error("Add() returned a client alongside an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Add() error = %v, want wrapped %v", err, tt.wantErr)
			}
			if _, ok := p.Get("maps"); ok {
				t.Error("failed Add left an entry in the pool")
			}
		})
	}
}

func TestPoolAddWrapsDialErrorWithServerName(t *testing.T) {
	p := NewPoolWithFactory(stubFactory(stubDial(errors.New("boom")), nil))

	_, err := p.Add(context.Background(), "places", ServerConfig{Command: "uvx"})
	if err == nil {
		t.Fatal("Add() error = nil, want dial failure")
	}
	if !strings.Contains(err.Error(), "dial places") {
		t.Errorf("error %q does not name the server", err)
	}
}

func TestPoolAddReplacesAndClosesOld(t *testing.T) {
	p := NewPoolWithFactory(stubFactory(stubDial(nil), nil))
	ctx := context.Background()

	first, err := p.Add(ctx, "maps", ServerConfig{Command: "npx"})
	if err != nil {
		t.Fatalf("first Add() error = %v", err)
	}

	second, err := p.Add(ctx, "maps", ServerConfig{Command: "uvx"})
	if err != nil {
		t.Fatalf("second Add() error = %v", err)
	}
	if first == second {
		t.Fatal("replacement returned the old client")
	}

	if got := len(p.All()); got != 1 {
		t.Errorf("pool size = %d, want 1", got)
	}
	current, _ := p.Get("maps")
	if current != second {
		t.Error("pool holds the stale client after replacement")
	}

	// The superseded client is closed on a background goroutine.
	waitClosed(t, first)
	if second.IsClosed() {
		t.Error("replacement client was closed")
	}
}

func TestPoolDel(t *testing.T) {
	p := NewPool()
	seedPool(p, "maps", "places")

	maps, _ := p.Get("maps")
	if err := p.Del("maps"); err != nil {
		t.Fatalf("Del() error = %v", err)
	}
	if !maps.IsClosed() {
		t.Error("Del did not close the client")
	}
	if _, ok := p.Get("maps"); ok {
		t.Error("deleted server still in pool")
	}
	if _, ok := p.Get("places"); !ok {
		t.Error("Del removed an unrelated server")
	}

	if err := p.Del("reviews"); err != nil {
		t.Errorf("Del() on unknown name = %v, want nil", err)
	}
}

func TestPoolAllReturnsSnapshot(t *testing.T) {
	p := NewPool()
	seedPool(p, "maps", "places")

	all := p.All()
	if len(all) != 2 {
		t.Fatalf("All() size = %d, want 2", len(all))
	}

	delete(all, "maps")
	all["rogue"] = &ManagedClient{name: "rogue"}

	if _, ok := p.Get("maps"); !ok {
		t.Error("mutating the snapshot reached the pool")
	}
	if _, ok := p.Get("rogue"); ok {
		t.Error("snapshot insertion reached the pool")
	}
}

func TestPoolClose(t *testing.T) {
	p := NewPool()
	seedPool(p, "maps", "places", "reviews")

	held := p.All()

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	for name, mc := range held {
		if !mc.IsClosed() {
			t.Errorf("client %q left open after Close", name)
		}
	}
	if got := len(p.All()); got != 0 {
		t.Errorf("pool size after Close = %d, want 0", got)
	}

	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestManagedClientCloseIdempotent(t *testing.T) {
	mc := &ManagedClient{name: "maps"}

	if mc.IsClosed() {
		t.Fatal("fresh client reports closed")
	}
	if err := mc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !mc.IsClosed() {
		t.Fatal("client not marked closed")
	}
	if err := mc.Close(); err != nil {
		t.Errorf("repeat Close() error = %v", err)
	}
}

func TestPoolAddHonoursContext(t *testing.T) {
	p := NewPoolWithFactory(stubFactory(func(ctx context.Context, cfg ServerConfig) (*client.Client, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Add(ctx, "maps", ServerConfig{Command: "npx"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Add() error = %v, want context.Canceled", err)
	}
}

func TestPoolConcurrentAccess(t *testing.T) {
	p := NewPoolWithFactory(stubFactory(stubDial(nil), nil))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				name := fmt.Sprintf("server-%d", j%3)
				_, _ = p.Add(ctx, name, ServerConfig{Command: "npx"})
				p.Get(name)
				p.All()
				if j%5 == 0 {
					_ = p.Del(name)
				}
			}
		}(i)
	}
	wg.Wait()

	if err := p.Close(); err != nil {
		t.Fatalf("Close() after concurrent use = %v", err)
	}
}
