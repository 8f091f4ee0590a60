package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	mcpproto "github.com/mark3labs/mcp-go/mcp"

	"github.com/sandevgo/scoutbot/internal/core"
	"github.com/sandevgo/scoutbot/pkg/log"
)

// Timeouts bound the three slow paths of tool serving. Tool calls get the
// long budget: a venue-page fetch through a remote server can take a while.
type Timeouts struct {
	Connect  time.Duration
	ToolList time.Duration
	ToolCall time.Duration
}

func NewDefaultTimeouts() *Timeouts {
	return &Timeouts{Connect: 30 * time.Second, ToolList: 5 * time.Second, ToolCall: 2 * time.Minute}
}

// NativeHandler is an in-process tool implementation.
type NativeHandler func(ctx context.Context, args json.RawMessage) (string, error)

var _ core.MCPServer = (*Service)(nil)

// Service merges native tools with every connected server's tools behind
// the core.MCPServer seam and keeps connections in sync with the stored
// catalog.
type Service struct {
	registry *Registry
	pool     ConnectionPool
	cache    *ToolCache
	timeouts *Timeouts

	nativeTools    map[string]NativeHandler
	nativeToolDefs []core.Tool

	mu     sync.RWMutex
	active map[string]ServerConfig
}

func NewService(runtimePath string, pool ConnectionPool, registry *Registry, cache *ToolCache) (*Service, error) {
	handlers, defs := RegisterNativeTools(runtimePath)

	return &Service{
		pool:           pool,
		registry:       registry,
		cache:          cache,
		timeouts:       NewDefaultTimeouts(),
		nativeTools:    handlers,
		nativeToolDefs: defs,
		active:         make(map[string]ServerConfig),
	}, nil
}

// Start loads the catalog, connects every configured server in the
// background, and begins following config edits. Connection failures are
// logged, not fatal: the relay runs fine with a subset of its tools.
func (s *Service) Start(ctx context.Context) error {
	if err := s.registry.Load(ctx); err != nil {
		return err
	}

	servers := s.registry.List()
	s.mu.Lock()
	for name, cfg := range servers {
		s.active[name] = cfg
	}
	s.mu.Unlock()

	for name, cfg := range servers {
		go s.connect(ctx, name, cfg)
	}

	updates, err := s.registry.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch registry: %w", err)
	}
	go s.follow(ctx, updates)

	return nil
}

func (s *Service) Shutdown(ctx context.Context) error {
	return s.pool.Close()
}

func (s *Service) connect(ctx context.Context, name string, cfg ServerConfig) {
	cctx, cancel := context.WithTimeout(ctx, s.timeouts.Connect)
	defer cancel()

	logger := log.FromCtx(ctx).With().Str("server", name).Logger()
	logger.Info().
		Str("url", cfg.URL).
		Str("command", cfg.Command).
		Msg("connecting tool server")

	if _, err := s.pool.Add(cctx, name, cfg); err != nil {
		logger.Error().Err(err).Msg("tool server connection failed")
		return
	}

	s.cache.Invalidate()
	logger.Info().Msg("tool server connected")
}

func (s *Service) follow(ctx context.Context, updates <-chan Config) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-updates:
			if !ok {
				return
			}
			s.reconcile(ctx, cfg.MCPServers)
		}
	}
}

// reconcile aligns live connections with the desired catalog: gone
// servers are disconnected, changed ones redialed, new ones connected.
func (s *Service) reconcile(ctx context.Context, desired map[string]ServerConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, have := range s.active {
		want, ok := desired[name]
		if !ok {
			log.FromCtx(ctx).Info().Str("server", name).Msg("tool server removed")
			s.pool.Del(name)
			delete(s.active, name)
			s.cache.Invalidate()
			continue
		}
		if !reflect.DeepEqual(have, want) {
			log.FromCtx(ctx).Info().Str("server", name).Msg("tool server config changed, reconnecting")
			s.connect(ctx, name, want)
			s.active[name] = want
			s.cache.Invalidate()
		}
	}

	for name, want := range desired {
		if _, ok := s.active[name]; !ok {
			log.FromCtx(ctx).Info().Str("server", name).Msg("tool server added")
			s.connect(ctx, name, want)
			s.active[name] = want
			s.cache.Invalidate()
		}
	}
}

// GetTools returns the native tools plus every connected server's tools,
// external names prefixed "server.tool" so calls route back to their
// origin.
func (s *Service) GetTools(ctx context.Context) ([]core.Tool, error) {
	if tools, _, ok := s.cache.Get(); ok {
		return tools, nil
	}

	all := make([]core.Tool, len(s.nativeToolDefs))
	copy(all, s.nativeToolDefs)

	byServer, routing := s.listExternalTools(ctx)
	for _, tools := range byServer {
		all = append(all, tools...)
	}

	s.cache.Update(all, routing)
	return all, nil
}

func (s *Service) listExternalTools(ctx context.Context) (map[string][]core.Tool, map[string]string) {
	type result struct {
		server string
		tools  []core.Tool
		err    error
	}

	clients := s.pool.All()
	results := make(chan result, len(clients))
	var wg sync.WaitGroup

	for name, cli := range clients {
		wg.Add(1)
		go func(name string, cli *ManagedClient) {
			defer wg.Done()
			tools, err := s.listServerTools(ctx, name, cli)
			results <- result{server: name, tools: tools, err: err}
		}(name, cli)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	byServer := make(map[string][]core.Tool)
	routing := make(map[string]string)
	for res := range results {
		if res.err != nil {
			log.FromCtx(ctx).Error().Err(res.err).Str("server", res.server).Msg("listing tools failed")
			continue
		}
		byServer[res.server] = res.tools
		for _, t := range res.tools {
			routing[t.Function.Name] = res.server
		}
	}
	return byServer, routing
}

func (s *Service) listServerTools(ctx context.Context, name string, cli *ManagedClient) ([]core.Tool, error) {
	lctx, cancel := context.WithTimeout(ctx, s.timeouts.ToolList)
	defer cancel()

	resp, err := cli.ListTools(lctx, mcpproto.ListToolsRequest{})
	if err != nil {
		return nil, err
	}

	tools := make([]core.Tool, 0, len(resp.Tools))
	for _, t := range resp.Tools {
		schema, _ := json.Marshal(t.InputSchema)
		tools = append(tools, core.Tool{
			Type: "function",
			Function: core.Function{
				Name:        name + "." + t.Name,
				Description: t.Description,
				Parameters:  schema,
			},
		})
	}
	return tools, nil
}

// CallTool runs a native tool directly or routes a prefixed name to its
// server, stripping the prefix from the wire request.
func (s *Service) CallTool(ctx context.Context, name string, args string) (string, error) {
	log.FromCtx(ctx).Info().Str("tool", name).Str("args", args).Msg("executing tool")

	if handler, ok := s.nativeTools[name]; ok {
		return handler(ctx, json.RawMessage(args))
	}

	_, routing, _ := s.cache.Get()
	server, ok := routing[name]
	if !ok {
		return "", fmt.Errorf("tool not found: %s", name)
	}

	cli, ok := s.pool.Get(server)
	if !ok {
		return "", fmt.Errorf("server %s is not available", server)
	}

	argsMap := make(map[string]any)
	if args != "" {
		if err := json.Unmarshal([]byte(args), &argsMap); err != nil {
			return "", fmt.Errorf("invalid json arguments: %w", err)
		}
	}

	req := mcpproto.CallToolRequest{}
	req.Params.Name = strings.TrimPrefix(name, server+".")
	req.Params.Arguments = argsMap

	cctx, cancel := context.WithTimeout(ctx, s.timeouts.ToolCall)
	defer cancel()

	res, err := cli.CallTool(cctx, req)
	if err != nil {
		return "", err
	}

	output := flattenContent(res.Content)
	if res.IsError {
		return "", fmt.Errorf("tool execution failed: %s", output)
	}
	return output, nil
}

func flattenContent(content []mcpproto.Content) string {
	var b strings.Builder
	for _, c := range content {
		switch t := c.(type) {
		case mcpproto.TextContent:
			b.WriteString(t.Text)
			b.WriteString("\n")
		case *mcpproto.TextContent:
			b.WriteString(t.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}
