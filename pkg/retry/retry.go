// Package retry implements capped exponential backoff for flaky I/O
// such as LLM calls and page fetches.
package retry

import (
	"context"
	"math/rand"
	"time"
)

type Operation = func() error

// Config shapes the backoff curve. The delay grows by BackoffFactor per
// attempt up to MaxDelay, with jitter on top so callers do not sync up.
type Config struct {
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	Jitter        time.Duration
	MaxRetries    int
}

func NewDefaultConfig() *Config {
	return &Config{
		InitialDelay:  300 * time.Millisecond,
		MaxDelay:      20 * time.Second,
		BackoffFactor: 2.15,
		Jitter:        50 * time.Millisecond,
		MaxRetries:    5,
	}
}

type Retrier struct {
	cfg *Config
}

func NewRetrier(cfg *Config) *Retrier {
	return &Retrier{cfg: cfg}
}

// Do runs op until it succeeds, retries run out, or ctx ends. The error
// of the final attempt is returned.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	delay := r.cfg.InitialDelay

	for attempt := 0; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if attempt >= r.cfg.MaxRetries {
			return err
		}

		if err := r.sleep(ctx, delay); err != nil {
			return err
		}

		delay = time.Duration(float64(delay) * r.cfg.BackoffFactor)
		if delay > r.cfg.MaxDelay {
			delay = r.cfg.MaxDelay
		}
	}
}

func (r *Retrier) sleep(ctx context.Context, delay time.Duration) error {
	if delay > r.cfg.MaxDelay {
		delay = r.cfg.MaxDelay
	}
	delay += time.Duration(rand.Float64() * float64(r.cfg.Jitter))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
