package dedup

import "testing"

func TestExactFilter(t *testing.T) {
	f := NewExactFilter()

	if !f.IsNew("Found 3 venues.") {
		t.Error("unseen content reported as already seen")
	}
	f.Record("Found 3 venues.")
	if f.IsNew("Found 3 venues.") {
		t.Error("recorded content reported as new")
	}
	if !f.IsNew("Found 4 venues.") {
		t.Error("different content reported as seen")
	}
	if f.Len() != 1 {
		t.Errorf("Len() = %d, want 1", f.Len())
	}
}

func TestExactFilterWhitespace(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "spaces", content: "   "},
		{name: "newlines and tabs", content: "\n\t \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewExactFilter()
			if f.IsNew(tt.content) {
				t.Errorf("IsNew(%q) = true, want false for whitespace-only content", tt.content)
			}
			f.Record(tt.content)
			if f.Len() != 0 {
				t.Errorf("Record(%q) stored a hash, whitespace must not be recorded", tt.content)
			}
		})
	}
}

func TestExactFilterScopedPerInstance(t *testing.T) {
	a := NewExactFilter()
	a.Record("shared text across turns.")

	b := NewExactFilter()
	if !b.IsNew("shared text across turns.") {
		t.Error("fresh filter inherited state from another instance")
	}
}
