package mcp

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ConnectionPool tracks one live client per configured server name.
type ConnectionPool interface {
	Get(name string) (*ManagedClient, bool)
	All() map[string]*ManagedClient
	Add(ctx context.Context, name string, cfg ServerConfig) (*ManagedClient, error)
	Del(name string) error
	Close() error
}

// TransportFactory resolves a transport type to its dial function; tests
// swap it to avoid spawning real servers.
type TransportFactory func(TransportType) (Transport, error)

type Pool struct {
	factory TransportFactory

	mu    sync.RWMutex
	conns map[string]*ManagedClient
}

var _ ConnectionPool = (*Pool)(nil)

func NewPool() *Pool {
	return NewPoolWithFactory(NewTransport)
}

func NewPoolWithFactory(factory TransportFactory) *Pool {
	return &Pool{
		factory: factory,
		conns:   make(map[string]*ManagedClient),
	}
}

// Add dials the server and stores the client under name. A client already
// held under that name is closed in the background once replaced, so a
// reconnect never races the connection it supersedes.
func (p *Pool) Add(ctx context.Context, name string, cfg ServerConfig) (*ManagedClient, error) {
	managed, err := p.dial(ctx, name, cfg)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.conns[name]; ok {
		go old.Close()
	}
	p.conns[name] = managed
	return managed, nil
}

func (p *Pool) dial(ctx context.Context, name string, cfg ServerConfig) (*ManagedClient, error) {
	tt, err := cfg.GetTransport()
	if err != nil {
		return nil, err
	}

	transport, err := p.factory(tt)
	if err != nil {
		return nil, err
	}

	cli, err := transport(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", name, err)
	}
	return &ManagedClient{Client: cli, name: name}, nil
}

// Del closes and forgets the named client. Unknown names are a no-op.
func (p *Pool) Del(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cli, ok := p.conns[name]
	if !ok {
		return nil
	}
	delete(p.conns, name)
	return cli.Close()
}

func (p *Pool) Get(name string) (*ManagedClient, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	cli, ok := p.conns[name]
	return cli, ok
}

// All returns a snapshot of the live clients.
func (p *Pool) All() map[string]*ManagedClient {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make(map[string]*ManagedClient, len(p.conns))
	for k, v := range p.conns {
		result[k] = v
	}
	return result
}

// Close shuts every client down and reports the joined failures.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for _, cli := range p.conns {
		if err := cli.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.conns = make(map[string]*ManagedClient)

	return errors.Join(errs...)
}
