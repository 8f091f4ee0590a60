package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/scoutbot/pkg/log"
)

type DedupConfig struct {
	Threshold  float64 `env:"SCOUT_DEDUP_THRESHOLD" envDefault:"0.85"`
	WindowSize int     `env:"SCOUT_DEDUP_WINDOW" envDefault:"50"`
}

func NewDedupConfig(ctx context.Context) *DedupConfig {
	c := &DedupConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Dedup config")
	}
	return c
}

func (c DedupConfig) GetDedupThreshold() float64 {
	return c.Threshold
}

func (c DedupConfig) GetDedupWindowSize() int {
	return c.WindowSize
}
