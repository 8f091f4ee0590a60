package dedup

import "strings"

// Classification says how a fragment relates to the content already
// accumulated this turn.
type Classification int

const (
	// ClassCumulative means the fragment restates the accumulated text and
	// extends it; only the unseen suffix is new.
	ClassCumulative Classification = iota
	// ClassStandalone means the fragment does not contain the accumulated
	// text as a prefix and is taken whole.
	ClassStandalone
)

func (c Classification) String() string {
	if c == ClassCumulative {
		return "cumulative"
	}
	return "standalone"
}

// Normalize reduces a raw fragment to its genuinely new content. A fragment
// that starts with everything accumulated so far is cumulative and yields
// only the suffix past the overlap; anything else is standalone and yields
// the fragment unchanged. With nothing accumulated yet every fragment is
// cumulative and entirely new.
func Normalize(fragment, accumulated string) (string, Classification) {
	if strings.HasPrefix(fragment, accumulated) {
		return fragment[len(accumulated):], ClassCumulative
	}
	return fragment, ClassStandalone
}
