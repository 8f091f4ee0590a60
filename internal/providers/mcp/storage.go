package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sandevgo/scoutbot/pkg/log"
)

// watchInterval is how often the config file is polled for edits made
// outside the process.
const watchInterval = time.Second

// FileStorage keeps the tool-server catalog in a JSON file inside the
// runtime directory.
type FileStorage struct {
	path string
	mu   sync.RWMutex
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads the catalog, seeding an empty file on first run. The runtime
// directory itself must already exist.
func (s *FileStorage) Load(ctx context.Context) (*Config, error) {
	s.mu.RLock()
	data, err := os.ReadFile(s.path)
	s.mu.RUnlock()

	switch {
	case os.IsNotExist(err):
		return s.seed(ctx)
	case err != nil:
		return nil, fmt.Errorf("read mcp config: %w", err)
	}
	return decodeConfig(data)
}

func (s *FileStorage) seed(ctx context.Context) (*Config, error) {
	if _, err := os.Stat(filepath.Dir(s.path)); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %w", err)
	}

	log.FromCtx(ctx).Info().Msg("mcp_config.json not found, creating default")

	cfg := &Config{MCPServers: make(map[string]ServerConfig)}
	if err := s.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("create default config: %w", err)
	}
	return cfg, nil
}

func (s *FileStorage) Save(ctx context.Context, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal mcp config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write mcp config: %w", err)
	}
	return nil
}

// Watch polls the file mtime and emits the parsed catalog on every
// change. An edit that does not parse is logged and skipped; the previous
// state stays active until the file parses again.
func (s *FileStorage) Watch(ctx context.Context) (<-chan Config, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("stat mcp config: %w", err)
	}
	lastMod := info.ModTime()

	updates := make(chan Config)
	go func() {
		defer close(updates)

		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cfg, next, emit := s.poll(ctx, lastMod)
				lastMod = next
				if !emit {
					continue
				}

				select {
				case updates <- *cfg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return updates, nil
}

// poll reads the file once and decides whether to emit. It returns the
// value lastMod should take: zero after a read fault so the next good
// read always emits, unchanged when nothing newer was found.
func (s *FileStorage) poll(ctx context.Context, lastMod time.Time) (*Config, time.Time, bool) {
	s.mu.RLock()
	data, err := os.ReadFile(s.path)
	s.mu.RUnlock()
	if err != nil {
		return nil, time.Time{}, false
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return nil, time.Time{}, false
	}
	if !info.ModTime().After(lastMod) {
		return nil, lastMod, false
	}

	cfg, err := decodeConfig(data)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("tool server config changed but does not parse")
		return nil, lastMod, false
	}
	return cfg, info.ModTime(), true
}

func decodeConfig(data []byte) (*Config, error) {
	cfg := &Config{MCPServers: make(map[string]ServerConfig)}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse mcp config: %w", err)
	}
	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]ServerConfig)
	}
	return cfg, nil
}
