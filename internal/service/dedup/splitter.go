package dedup

import (
	"strings"
	"unicode"
)

// sentenceTerminators close a unit when a run of them is followed by
// whitespace or end of input. Decimal points and version numbers survive
// because the rune after them is not whitespace.
var sentenceTerminators = map[rune]bool{
	'.': true,
	'!': true,
	'?': true,
}

// span is one sentence-like unit of the original text. raw holds the exact
// bytes including trailing punctuation and whitespace, so concatenating the
// raw fields of consecutive spans reproduces the input. sentence is the
// trimmed form used for comparison.
type span struct {
	raw      string
	sentence string
}

// SplitSentences splits text into trimmed sentence-like units. Text with no
// terminator boundary falls back to blank-line paragraphs, and failing that
// the whole input is one unit. Never panics; whitespace-only input yields
// nothing.
func SplitSentences(text string) []string {
	spans := splitSpans(text)
	if len(spans) == 0 {
		return nil
	}
	out := make([]string, 0, len(spans))
	for _, sp := range spans {
		out = append(out, sp.sentence)
	}
	return out
}

func splitSpans(text string) (spans []span) {
	defer func() {
		if recover() != nil {
			spans = coalesce([]span{newSpan(text)})
		}
	}()

	if strings.TrimSpace(text) == "" {
		return nil
	}

	spans = terminatorSpans(text)
	if len(spans) == 0 {
		spans = paragraphSpans(text)
	}
	if len(spans) == 0 {
		spans = []span{newSpan(text)}
	}
	return coalesce(spans)
}

// terminatorSpans cuts text after terminator runs. Returns nil when no
// boundary exists so the caller can fall back.
func terminatorSpans(text string) []span {
	var spans []span
	runes := []rune(text)
	start := 0
	i := 0
	for i < len(runes) {
		if !sentenceTerminators[runes[i]] {
			i++
			continue
		}
		for i < len(runes) && sentenceTerminators[runes[i]] {
			i++
		}
		if i < len(runes) && !unicode.IsSpace(runes[i]) {
			continue
		}
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		spans = append(spans, newSpan(string(runes[start:i])))
		start = i
	}
	if len(spans) == 0 {
		return nil
	}
	if start < len(runes) {
		spans = append(spans, newSpan(string(runes[start:])))
	}
	return spans
}

// paragraphSpans cuts text at blank lines, keeping each separator attached
// to the paragraph before it. Returns nil when there is no blank line.
func paragraphSpans(text string) []span {
	var spans []span
	rest := text
	for {
		idx := strings.Index(rest, "\n\n")
		if idx < 0 {
			break
		}
		end := idx
		for end < len(rest) && (rest[end] == '\n' || rest[end] == '\r') {
			end++
		}
		spans = append(spans, newSpan(rest[:end]))
		rest = rest[end:]
	}
	if len(spans) == 0 {
		return nil
	}
	if rest != "" {
		spans = append(spans, newSpan(rest))
	}
	return spans
}

func newSpan(raw string) span {
	return span{raw: raw, sentence: strings.TrimSpace(raw)}
}

// coalesce folds units that trimmed to nothing into their neighbours so no
// empty sentence survives while every raw byte stays accounted for.
func coalesce(spans []span) []span {
	var out []span
	var lead string
	for _, sp := range spans {
		if sp.sentence == "" {
			if len(out) > 0 {
				out[len(out)-1].raw += sp.raw
			} else {
				lead += sp.raw
			}
			continue
		}
		if lead != "" {
			sp.raw = lead + sp.raw
			lead = ""
		}
		out = append(out, sp)
	}
	return out
}
