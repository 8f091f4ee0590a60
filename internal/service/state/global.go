package state

import "context"

// modelSetter is the slice of the config provider the global state
// needs.
type modelSetter interface {
	SetModel(ctx context.Context, model string) error
}

// GlobalState holds owner-wide settings that outlive any one chat
// session. Today that is just the active model.
type GlobalState struct {
	cfg modelSetter
}

func NewGlobalState(cfg modelSetter) *GlobalState {
	return &GlobalState{cfg: cfg}
}

// ChangeModel switches the model for every session and persists the
// choice.
func (s *GlobalState) ChangeModel(ctx context.Context, model string) error {
	return s.cfg.SetModel(ctx, model)
}
