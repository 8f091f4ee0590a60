package dedup

import (
	"crypto/sha256"
	"strings"
)

// ExactFilter drops content blocks already emitted this turn, keyed by
// SHA-256 so there are no false positives at any realistic volume. State
// lives and dies with a single turn.
type ExactFilter struct {
	seen map[[sha256.Size]byte]struct{}
}

func NewExactFilter() *ExactFilter {
	return &ExactFilter{seen: make(map[[sha256.Size]byte]struct{})}
}

// IsNew reports whether content has not been recorded this turn. Empty or
// whitespace-only content is never new.
func (f *ExactFilter) IsNew(content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	_, ok := f.seen[sha256.Sum256([]byte(content))]
	return !ok
}

// Record marks content as emitted. Whitespace-only content is not recorded
// so it can never poison the set.
func (f *ExactFilter) Record(content string) {
	if strings.TrimSpace(content) == "" {
		return
	}
	f.seen[sha256.Sum256([]byte(content))] = struct{}{}
}

// Len returns how many distinct blocks have been recorded.
func (f *ExactFilter) Len() int {
	return len(f.seen)
}
