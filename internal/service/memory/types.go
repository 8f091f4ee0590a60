package memory

import (
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// Entity is a venue or item the assistant surfaced with a stable
// identifier. Entities are immutable once created; recency eviction is the
// only way one leaves the tracker.
type Entity struct {
	Name       string
	StableID   string
	Location   fn.Option[string]
	ObservedAt time.Time
}

// Mention is one structured detection in a message. The set of
// implementations is closed; consumers switch on the concrete type.
type Mention interface {
	mention()
}

// LocationMention is a place the user is scouting in.
type LocationMention struct {
	Place string
}

// TopicMention is the kind of venue being looked for.
type TopicMention struct {
	Topic string
}

// EntityMention is a surfaced item together with its stable identifier.
type EntityMention struct {
	Name     string
	StableID string
}

func (LocationMention) mention() {}
func (TopicMention) mention()    {}
func (EntityMention) mention()   {}

// MentionExtractor turns one message into structured mentions. Extraction
// must be deterministic; faults are reported through the Result and the
// caller keeps its existing context untouched.
type MentionExtractor interface {
	ExtractMentions(text string) fn.Result[[]Mention]
}
