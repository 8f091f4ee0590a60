package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/sandevgo/scoutbot/internal/core"
	"github.com/sandevgo/scoutbot/pkg/log"
)

// RecentCapacity bounds how many surfaced entities a session remembers.
const RecentCapacity = 5

// Tracker holds one session's conversational context: the active location
// and topic, latest mention winning, and the most recently surfaced
// entities. Sessions never share a Tracker; all access goes through its
// methods.
type Tracker struct {
	mu        sync.RWMutex
	extractor MentionExtractor

	location fn.Option[string]
	topic    fn.Option[string]
	recent   []Entity // most recent first

	updatedAt time.Time
	dirty     bool

	now func() time.Time
}

func NewTracker(extractor MentionExtractor) *Tracker {
	if extractor == nil {
		extractor = NewRuleExtractor(DefaultVocabulary())
	}
	return &Tracker{extractor: extractor, now: time.Now}
}

// ObserveUser folds a user message into the context. A newer location or
// topic mention replaces the older one. Extraction faults leave the
// context untouched.
func (t *Tracker) ObserveUser(ctx context.Context, text string) {
	mentions, err := t.extractor.ExtractMentions(text).Unpack()
	if err != nil {
		log.FromCtx(ctx).Debug().Err(err).Msg("mention extraction failed, keeping context as is")
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, m := range mentions {
		switch m := m.(type) {
		case LocationMention:
			t.location = fn.Some(m.Place)
			t.touch()
		case TopicMention:
			t.topic = fn.Some(m.Topic)
			t.touch()
		}
	}
}

// ObserveAssistant records entities surfaced in a completed assistant
// answer. Callers must not feed aborted turns here. Entities listed in one
// answer keep their listed order in the recency list, newest answer first,
// and re-surfacing a known identifier moves it to the front instead of
// duplicating it.
func (t *Tracker) ObserveAssistant(ctx context.Context, text string) {
	mentions, err := t.extractor.ExtractMentions(text).Unpack()
	if err != nil {
		log.FromCtx(ctx).Debug().Err(err).Msg("mention extraction failed, keeping context as is")
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(mentions) - 1; i >= 0; i-- {
		em, ok := mentions[i].(EntityMention)
		if !ok {
			continue
		}
		t.pushEntity(Entity{
			Name:       em.Name,
			StableID:   em.StableID,
			Location:   t.location,
			ObservedAt: t.now(),
		})
	}
}

func (t *Tracker) pushEntity(e Entity) {
	for i := range t.recent {
		if t.recent[i].StableID == e.StableID {
			t.recent = append(t.recent[:i], t.recent[i+1:]...)
			break
		}
	}
	t.recent = append([]Entity{e}, t.recent...)
	if len(t.recent) > RecentCapacity {
		t.recent = t.recent[:RecentCapacity]
	}
	t.touch()
}

var ordinals = []struct {
	word string
	pos  int
}{
	{"first", 0}, {"1st", 0},
	{"second", 1}, {"2nd", 1},
	{"third", 2}, {"3rd", 2},
	{"fourth", 3}, {"4th", 3},
	{"fifth", 4}, {"5th", 4},
}

var demonstratives = []string{"that one", "this one", "the one"}

// ResolveReference maps a vague phrase to a tracked entity. Ordinals index
// the recency list, demonstratives pick the most recent entity, and
// anything else resolves to nothing so the caller can ask instead of
// guessing.
func (t *Tracker) ResolveReference(phrase string) fn.Option[Entity] {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.recent) == 0 {
		return fn.None[Entity]()
	}

	lower := strings.ToLower(phrase)
	for _, ord := range ordinals {
		if !containsWord(lower, ord.word) {
			continue
		}
		if ord.pos < len(t.recent) {
			return fn.Some(t.recent[ord.pos])
		}
		return fn.None[Entity]()
	}
	for _, d := range demonstratives {
		if strings.Contains(lower, d) {
			return fn.Some(t.recent[0])
		}
	}
	return fn.None[Entity]()
}

// Render produces the compact summary injected into upstream requests.
// Field order is fixed so the output is deterministic. Empty context
// renders as an empty string and must not be injected.
func (t *Tracker) Render() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var parts []string
	if loc := t.location.UnwrapOr(""); loc != "" {
		parts = append(parts, "location: "+loc)
	}
	if topic := t.topic.UnwrapOr(""); topic != "" {
		parts = append(parts, "topic: "+topic)
	}
	if len(t.recent) > 0 {
		names := make([]string, 0, len(t.recent))
		for _, e := range t.recent {
			names = append(names, fmt.Sprintf("%s (%s)", e.Name, e.StableID))
		}
		parts = append(parts, "recent: "+strings.Join(names, ", "))
	}
	return strings.Join(parts, " | ")
}

// Clear drops the whole session context.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.location = fn.None[string]()
	t.topic = fn.None[string]()
	t.recent = nil
	t.updatedAt = t.now()
	t.dirty = true
}

// Empty reports whether there is nothing worth persisting.
func (t *Tracker) Empty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.location.IsNone() && t.topic.IsNone() && len(t.recent) == 0
}

// Snapshot exports the context for persistence.
func (t *Tracker) Snapshot(sessionID string) core.SessionContext {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshotLocked(sessionID)
}

// SnapshotIfDirty atomically exports the context and clears the dirty
// flag. Callers that fail to persist the snapshot should MarkDirty so the
// next flush retries.
func (t *Tracker) SnapshotIfDirty(sessionID string) (core.SessionContext, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.dirty {
		return core.SessionContext{}, false
	}
	t.dirty = false
	return t.snapshotLocked(sessionID), true
}

func (t *Tracker) snapshotLocked(sessionID string) core.SessionContext {
	sc := core.SessionContext{
		SessionID: sessionID,
		Location:  t.location.UnwrapOr(""),
		Topic:     t.topic.UnwrapOr(""),
		UpdatedAt: t.updatedAt,
	}
	for _, e := range t.recent {
		sc.Entities = append(sc.Entities, core.TrackedEntity{
			Name:       e.Name,
			StableID:   e.StableID,
			Location:   e.Location.UnwrapOr(""),
			ObservedAt: e.ObservedAt,
		})
	}
	return sc
}

// MarkDirty re-flags the context for the next flush.
func (t *Tracker) MarkDirty() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dirty = true
}

// Restore loads a persisted context, replacing whatever is tracked now.
func (t *Tracker) Restore(sc core.SessionContext) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.location = fn.None[string]()
	if sc.Location != "" {
		t.location = fn.Some(sc.Location)
	}
	t.topic = fn.None[string]()
	if sc.Topic != "" {
		t.topic = fn.Some(sc.Topic)
	}
	t.recent = nil
	for _, e := range sc.Entities {
		loc := fn.None[string]()
		if e.Location != "" {
			loc = fn.Some(e.Location)
		}
		t.recent = append(t.recent, Entity{
			Name:       e.Name,
			StableID:   e.StableID,
			Location:   loc,
			ObservedAt: e.ObservedAt,
		})
	}
	if len(t.recent) > RecentCapacity {
		t.recent = t.recent[:RecentCapacity]
	}
	t.updatedAt = sc.UpdatedAt
	t.dirty = false
}

func (t *Tracker) touch() {
	t.updatedAt = t.now()
	t.dirty = true
}
