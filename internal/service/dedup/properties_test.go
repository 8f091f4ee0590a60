package dedup

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"pgregory.net/rapid"
)

func TestSplitSpansReconstructionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.String().Draw(t, "input")

		var rebuilt strings.Builder
		for _, sp := range splitSpans(input) {
			rebuilt.WriteString(sp.raw)
			if strings.TrimSpace(sp.sentence) == "" {
				t.Fatalf("empty sentence unit for input %q", input)
			}
		}

		if strings.TrimSpace(input) == "" {
			if rebuilt.Len() != 0 {
				t.Fatalf("whitespace-only input %q produced spans", input)
			}
			return
		}
		if rebuilt.String() != input {
			t.Fatalf("spans of %q rebuild to %q", input, rebuilt.String())
		}
	})
}

func TestNormalizeSuffixProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		accumulated := rapid.String().Draw(t, "accumulated")
		suffix := rapid.String().Draw(t, "suffix")

		got, class := Normalize(accumulated+suffix, accumulated)
		if got != suffix || class != ClassCumulative {
			t.Fatalf("Normalize(acc+suffix, acc) = (%q, %v), want (%q, cumulative)", got, class, suffix)
		}
	})
}

func TestDiceScoreProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.String().Draw(t, "a")
		b := rapid.String().Draw(t, "b")

		ab, err := DiceComparator{}.Compare(a, b).Unpack()
		if err != nil {
			t.Fatalf("Compare returned error: %v", err)
		}
		ba, _ := DiceComparator{}.Compare(b, a).Unpack()

		if ab != ba {
			t.Fatalf("Compare(%q, %q) = %v, reversed %v, want symmetric", a, b, ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Fatalf("Compare(%q, %q) = %v, want within [0, 1]", a, b, ab)
		}

		self, _ := DiceComparator{}.Compare(a, a).Unpack()
		if self != 1 {
			t.Fatalf("Compare(%q, %q) = %v, want 1 for identical input", a, a, self)
		}
	})
}

func TestExactFilterRecordProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		content := rapid.String().Draw(t, "content")

		f := NewExactFilter()
		f.Record(content)
		if f.IsNew(content) {
			t.Fatalf("IsNew(%q) = true right after Record", content)
		}
	})
}

func TestWindowBoundProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(1, 8).Draw(t, "limit")
		admits := rapid.SliceOfN(rapid.String(), 0, 40).Draw(t, "admits")

		w := newSentenceWindow(limit)
		for _, s := range admits {
			w.add(s)
		}
		if w.size() > limit {
			t.Fatalf("window holds %d items, limit %d", w.size(), limit)
		}
	})
}

// overlappingSentences draws short venue blurbs from a tiny vocabulary so
// near-duplicate pairs actually occur.
func overlappingSentences() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		words := rapid.SliceOfN(rapid.SampledFrom([]string{
			"wine", "bar", "rooftop", "terrace", "jazz", "vinyl",
			"tapas", "courtyard", "garden", "espresso",
		}), 2, 6).Draw(t, "words")
		return strings.Join(words, " ") + "."
	})
}

func TestNearDupThresholdMonotonicityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		window := rapid.SliceOfN(overlappingSentences(), 1, 10).Draw(t, "window")
		candidate := overlappingSentences().Draw(t, "candidate")
		a := rapid.Float64Range(0.05, 1).Draw(t, "a")
		b := rapid.Float64Range(0.05, 1).Draw(t, "b")
		if a > b {
			a, b = b, a
		}

		strict := NewNearDupFilter(len(window), a, nil)
		loose := NewNearDupFilter(len(window), b, nil)
		for _, s := range window {
			strict.Admit(s)
			loose.Admit(s)
		}

		ctx := context.Background()
		if loose.Check(ctx, candidate).Duplicate && !strict.Check(ctx, candidate).Duplicate {
			t.Fatalf("candidate %q flagged at threshold %.2f but not at lower %.2f", candidate, b, a)
		}
	})
}

func TestNearDupAdmittedPairsStayDistinctProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		candidates := rapid.SliceOfN(overlappingSentences(), 1, 30).Draw(t, "candidates")

		f := NewNearDupFilter(DefaultWindowSize, DefaultThreshold, nil)
		ctx := context.Background()

		var admitted []string
		for _, s := range candidates {
			if f.Check(ctx, s).Duplicate {
				continue
			}
			f.Admit(s)
			admitted = append(admitted, s)
		}

		// Short sentences bypass the check, so only longer ones carry the
		// pairwise guarantee.
		for i, later := range admitted {
			if utf8.RuneCountInString(strings.TrimSpace(later)) < minSentenceLength {
				continue
			}
			for _, earlier := range admitted[:i] {
				score, err := DiceComparator{}.Compare(later, earlier).Unpack()
				if err != nil {
					t.Fatalf("Compare returned error: %v", err)
				}
				if score >= DefaultThreshold {
					t.Fatalf("admitted %q scores %.2f against earlier admitted %q", later, score, earlier)
				}
			}
		}
	})
}

func TestPipelineAccumulatesEveryIncrementProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fragments := rapid.SliceOfN(rapid.String(), 0, 12).Draw(t, "fragments")

		p := NewPipeline(Params{SessionID: "prop", TurnID: "prop"})
		ctx := context.Background()

		var emitted strings.Builder
		for _, f := range fragments {
			for _, inc := range p.Process(ctx, f) {
				emitted.WriteString(inc)
			}
		}

		if emitted.String() != p.Accumulated() {
			t.Fatalf("concatenated increments %q != Accumulated() %q", emitted.String(), p.Accumulated())
		}

		p.Finalize(ctx)
		if inc := p.Process(ctx, "anything after the end."); inc != nil {
			t.Fatalf("Process after Finalize returned %q", inc)
		}
	})
}
