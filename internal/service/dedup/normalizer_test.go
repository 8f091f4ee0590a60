package dedup

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		fragment    string
		accumulated string
		expected    string
		class       Classification
	}{
		{
			name:        "first fragment of a turn",
			fragment:    "Hello, how ",
			accumulated: "",
			expected:    "Hello, how ",
			class:       ClassCumulative,
		},
		{
			name:        "cumulative restatement yields suffix",
			fragment:    "Hello, how are you?",
			accumulated: "Hello, how ",
			expected:    "are you?",
			class:       ClassCumulative,
		},
		{
			name:        "identical fragment yields nothing",
			fragment:    "Found 3 venues.",
			accumulated: "Found 3 venues.",
			expected:    "",
			class:       ClassCumulative,
		},
		{
			name:        "fresh delta is standalone",
			fragment:    "And a second one.",
			accumulated: "Found 3 venues. ",
			expected:    "And a second one.",
			class:       ClassStandalone,
		},
		{
			name:        "overlap without full prefix is standalone",
			fragment:    "how are you?",
			accumulated: "Hello, how ",
			expected:    "how are you?",
			class:       ClassStandalone,
		},
		{
			name:        "empty fragment",
			fragment:    "",
			accumulated: "something",
			expected:    "",
			class:       ClassStandalone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, class := Normalize(tt.fragment, tt.accumulated)
			if got != tt.expected || class != tt.class {
				t.Errorf("Normalize(%q, %q) = (%q, %v), want (%q, %v)",
					tt.fragment, tt.accumulated, got, class, tt.expected, tt.class)
			}
		})
	}
}
