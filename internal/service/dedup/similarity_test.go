package dedup

import (
	"math"
	"testing"
)

func TestDiceComparator(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{
			name:     "identical sentences",
			a:        "Found the Alpha Diner, ID 123.",
			b:        "Found the Alpha Diner, ID 123.",
			expected: 1.0,
		},
		{
			name:     "light rewording scores high",
			a:        "Found the Alpha Diner, ID 123.",
			b:        "Found Alpha Diner, ID: 123.",
			expected: 10.0 / 11.0,
		},
		{
			name:     "nothing in common",
			a:        "Found the Alpha Diner, ID 123.",
			b:        "Try the rooftop bar instead maybe?",
			expected: 0.0,
		},
		{
			name:     "case and punctuation ignored",
			a:        "ALPHA diner!!!",
			b:        "alpha, diner",
			expected: 1.0,
		},
		{
			name:     "both empty",
			a:        "",
			b:        "",
			expected: 1.0,
		},
		{
			name:     "one empty",
			a:        "Found 3 venues.",
			b:        "",
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiceComparator{}.Compare(tt.a, tt.b).Unpack()
			if err != nil {
				t.Fatalf("Compare(%q, %q) returned error: %v", tt.a, tt.b, err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Compare(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestDiceComparatorSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Found the Alpha Diner, ID 123.", "Found Alpha Diner, ID: 123."},
		{"great coffee in Paris", "coffee shops around Paris are great"},
		{"one two three", "three four five"},
	}

	for _, pair := range pairs {
		ab, _ := DiceComparator{}.Compare(pair[0], pair[1]).Unpack()
		ba, _ := DiceComparator{}.Compare(pair[1], pair[0]).Unpack()
		if ab != ba {
			t.Errorf("Compare(%q, %q) = %v but reversed = %v, want symmetric", pair[0], pair[1], ab, ba)
		}
	}
}
