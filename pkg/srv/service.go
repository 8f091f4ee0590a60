package srv

import (
	"context"

	"github.com/sandevgo/scoutbot/pkg/log"
)

// Service is anything with a lifecycle the process manages: transports,
// watchers, background flushers.
type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices launches every service on its own goroutine. A service
// that cannot start takes the process down.
func StartServices(ctx context.Context, services []Service) {
	logger := log.FromCtx(ctx)
	for _, svc := range services {
		go func() {
			if err := svc.Start(ctx); err != nil {
				logger.Fatal().Err(err).Msgf("%T failed to start", svc)
			}
		}()
	}
}

// ShutdownServices blocks until ctx ends, then stops services in slice
// order.
func ShutdownServices(ctx context.Context, services []Service) {
	<-ctx.Done()

	logger := log.FromCtx(ctx)
	for _, svc := range services {
		if err := svc.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msgf("%T failed to shutdown", svc)
		}
	}
}
