package dedup

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			input:    "   \n\t  ",
			expected: nil,
		},
		{
			name:     "single sentence",
			input:    "Found 3 venues.",
			expected: []string{"Found 3 venues."},
		},
		{
			name:     "two sentences",
			input:    "Hello there. How are you?",
			expected: []string{"Hello there.", "How are you?"},
		},
		{
			name:     "terminator run stays with its sentence",
			input:    "Wait... really?! Yes.",
			expected: []string{"Wait...", "really?!", "Yes."},
		},
		{
			name:     "decimal point is not a boundary",
			input:    "Rated 4.5 stars overall. Worth a visit.",
			expected: []string{"Rated 4.5 stars overall.", "Worth a visit."},
		},
		{
			name:     "trailing partial sentence kept",
			input:    "First one done. And then",
			expected: []string{"First one done.", "And then"},
		},
		{
			name:     "no terminators falls back to paragraphs",
			input:    "first paragraph\n\nsecond paragraph",
			expected: []string{"first paragraph", "second paragraph"},
		},
		{
			name:     "no boundaries at all yields whole input",
			input:    "just one run of words with no stops",
			expected: []string{"just one run of words with no stops"},
		},
		{
			name:     "unterminated fragment with trailing space",
			input:    "Hello, how ",
			expected: []string{"Hello, how"},
		},
		{
			name:     "newline after terminator counts as whitespace",
			input:    "Done here.\nNext line!",
			expected: []string{"Done here.", "Next line!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("SplitSentences(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSplitSpansPreservesRawBytes(t *testing.T) {
	inputs := []string{
		"Hello there. How are you? Still here",
		"Hello, how ",
		"para one\n\n\npara two\n\ntail",
		"  leading space. Then more.  ",
		"Wait... punctuation?! Dense.",
	}

	for _, input := range inputs {
		var rebuilt strings.Builder
		for _, sp := range splitSpans(input) {
			rebuilt.WriteString(sp.raw)
		}
		if rebuilt.String() != input {
			t.Errorf("concatenated spans of %q = %q, want the input back", input, rebuilt.String())
		}
	}
}

func TestSplitSentencesNoEmptyUnits(t *testing.T) {
	inputs := []string{
		"...",
		". . .",
		"!?. end",
		"\n\n\n\nword\n\n",
	}

	for _, input := range inputs {
		for _, s := range SplitSentences(input) {
			if strings.TrimSpace(s) == "" {
				t.Errorf("SplitSentences(%q) produced an empty unit in %q", input, SplitSentences(input))
			}
		}
	}
}
