package agent

import (
	"context"
	"time"

	"github.com/sandevgo/scoutbot/pkg/log"
)

const FlushInterval = 15 * time.Second

// Flusher periodically persists dirty session contexts so a restart loses
// at most one interval of tracked context.
type Flusher struct {
	registry *SessionRegistry
	interval time.Duration
}

func NewFlusher(registry *SessionRegistry) *Flusher {
	return &Flusher{
		registry: registry,
		interval: FlushInterval,
	}
}

func (f *Flusher) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx).With().Str("component", "context_flusher").Logger()
	logger.Info().Msg("starting session context flusher")

	if f.registry.repo != nil {
		if ids, err := f.registry.repo.ListSessionIDs(ctx); err == nil && len(ids) > 0 {
			logger.Info().Int("sessions", len(ids)).Msg("persisted session contexts available for restore")
		}
	}

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down session context flusher")
			return nil
		case <-ticker.C:
			if n := f.registry.FlushDirty(ctx); n > 0 {
				logger.Debug().Int("sessions", n).Msg("flushed session contexts")
			}
		}
	}
}

// Shutdown flushes one last time. The parent context is already cancelled
// at this point, so the flush runs detached from it.
func (f *Flusher) Shutdown(ctx context.Context) error {
	f.registry.FlushDirty(context.WithoutCancel(ctx))
	return nil
}
