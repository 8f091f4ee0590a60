package srv

import "context"

// cleanupFunc adapts a bare teardown function to the Service interface
// so resource closers ride the same shutdown path as the transports.
type cleanupFunc func() error

func (f cleanupFunc) Start(context.Context) error { return nil }

func (f cleanupFunc) Shutdown(context.Context) error {
	if f == nil {
		return nil
	}
	return f()
}

func NewCleanup(fn func() error) Service {
	return cleanupFunc(fn)
}
