package agent

import (
	"context"
	"sync"

	"github.com/sandevgo/scoutbot/internal/core"
	"github.com/sandevgo/scoutbot/internal/service/memory"
	"github.com/sandevgo/scoutbot/pkg/log"
)

// Session pairs a context tracker with the mutex serializing its turns.
// Two turns in the same session must never interleave; turns in different
// sessions run in parallel.
type Session struct {
	mu      sync.Mutex
	Tracker *memory.Tracker
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// SessionRegistry owns every live session keyed by session ID. A session
// not seen since startup is restored from storage on first acquire.
type SessionRegistry struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	repo      core.SessionContextRepository
	extractor memory.MentionExtractor
}

func NewSessionRegistry(repo core.SessionContextRepository, extractor memory.MentionExtractor) *SessionRegistry {
	return &SessionRegistry{
		sessions:  make(map[string]*Session),
		repo:      repo,
		extractor: extractor,
	}
}

// Acquire returns the session for the given ID, creating and restoring it
// when this is the first touch since startup. Restore failures start the
// session fresh rather than blocking the turn.
func (r *SessionRegistry) Acquire(ctx context.Context, sessionID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, ok := r.sessions[sessionID]; ok {
		return sess
	}

	sess := &Session{Tracker: memory.NewTracker(r.extractor)}
	if r.repo != nil {
		sc, found, err := r.repo.GetContext(ctx, sessionID)
		switch {
		case err != nil:
			log.FromCtx(ctx).Warn().
				Err(err).
				Str("session_id", sessionID).
				Msg("failed to restore session context, starting fresh")
		case found:
			sess.Tracker.Restore(sc)
		}
	}
	r.sessions[sessionID] = sess
	return sess
}

// FlushDirty persists every session context modified since the last flush
// and returns how many were written. A failed write re-flags the session
// so the next flush retries.
func (r *SessionRegistry) FlushDirty(ctx context.Context) int {
	if r.repo == nil {
		return 0
	}

	r.mu.Lock()
	live := make(map[string]*Session, len(r.sessions))
	for id, sess := range r.sessions {
		live[id] = sess
	}
	r.mu.Unlock()

	logger := log.FromCtx(ctx)
	flushed := 0
	for id, sess := range live {
		sc, dirty := sess.Tracker.SnapshotIfDirty(id)
		if !dirty {
			continue
		}

		var err error
		if sess.Tracker.Empty() {
			err = r.repo.DeleteContext(ctx, id)
		} else {
			err = r.repo.SaveContext(ctx, sc)
		}
		if err != nil {
			sess.Tracker.MarkDirty()
			logger.Error().Err(err).Str("session_id", id).Msg("failed to persist session context")
			continue
		}
		flushed++
	}
	return flushed
}

// Len returns how many sessions are live in memory.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
