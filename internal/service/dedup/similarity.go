package dedup

import (
	"strings"
	"unicode"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// Comparator scores how similar two sentences are, 0 for nothing in common
// through 1 for identical. Scores must be symmetric. Implementations report
// faults through the Result instead of panicking; callers treat a failed
// comparison as not similar.
type Comparator interface {
	Compare(a, b string) fn.Result[float64]
}

// DiceComparator scores sentences by the Sørensen–Dice coefficient over
// their unique token sets. Token order does not matter, so light rewording
// and punctuation shuffles still score high while genuinely new content
// scores low.
type DiceComparator struct{}

func (DiceComparator) Compare(a, b string) fn.Result[float64] {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 && len(tb) == 0 {
		return fn.Ok(1.0)
	}
	if len(ta) == 0 || len(tb) == 0 {
		return fn.Ok(0.0)
	}

	common := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			common++
		}
	}
	return fn.Ok(2 * float64(common) / float64(len(ta)+len(tb)))
}

// tokenSet lowercases and splits on anything that is not a letter or digit.
func tokenSet(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
