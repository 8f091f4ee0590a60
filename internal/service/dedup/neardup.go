package dedup

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/sandevgo/scoutbot/pkg/log"
)

// minSentenceLength is the floor below which sentences carry too little
// signal for a meaningful score and always pass.
const minSentenceLength = 10

// DefaultThreshold is the near-duplicate cutoff: a sentence scoring at or
// above it against any window member is suppressed.
const DefaultThreshold = 0.85

// Verdict is the outcome of one near-duplicate check.
type Verdict struct {
	Duplicate bool
	Matched   fn.Option[string]
	Score     fn.Option[float64]
}

// NearDupFilter rejects sentences that score at or above the threshold
// against any recently emitted sentence. A comparator fault degrades to
// score zero for that pair: a broken comparator must never suppress real
// content.
type NearDupFilter struct {
	window    *sentenceWindow
	cmp       Comparator
	threshold float64
}

func NewNearDupFilter(windowSize int, threshold float64, cmp Comparator) *NearDupFilter {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	if cmp == nil {
		cmp = DiceComparator{}
	}
	return &NearDupFilter{
		window:    newSentenceWindow(windowSize),
		cmp:       cmp,
		threshold: threshold,
	}
}

// Check scores a sentence against the window without admitting it. Short or
// empty sentences and the first sentences of a turn are never duplicates.
func (f *NearDupFilter) Check(ctx context.Context, sentence string) Verdict {
	if utf8.RuneCountInString(strings.TrimSpace(sentence)) < minSentenceLength {
		return Verdict{}
	}
	if f.window.size() == 0 {
		return Verdict{}
	}

	var best float64
	var bestMatch string
	for _, prev := range f.window.all() {
		score, err := f.cmp.Compare(sentence, prev).Unpack()
		if err != nil {
			log.FromCtx(ctx).Debug().Err(err).Msg("similarity comparison failed, treating pair as distinct")
			continue
		}
		if score > best {
			best = score
			bestMatch = prev
		}
	}

	if best >= f.threshold {
		return Verdict{
			Duplicate: true,
			Matched:   fn.Some(bestMatch),
			Score:     fn.Some(best),
		}
	}
	return Verdict{}
}

// Admit records an emitted sentence, evicting the oldest past the bound.
func (f *NearDupFilter) Admit(sentence string) {
	f.window.add(sentence)
}

// WindowLen returns how many sentences the window currently holds.
func (f *NearDupFilter) WindowLen() int {
	return f.window.size()
}
