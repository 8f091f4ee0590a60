package telegram

import (
	"strings"
	"testing"
)

func TestSplitHTMLShortText(t *testing.T) {
	chunks := splitHTML("hello", maxTelegramMsgLen)
	if len(chunks) != 1 || chunks[0] != "hello" {
		t.Errorf("splitHTML() = %v, want single chunk", chunks)
	}
}

func TestSplitHTMLPrefersNewlines(t *testing.T) {
	first := strings.Repeat("x", 3000)
	second := strings.Repeat("y", 2000)

	chunks := splitHTML(first+"\n"+second, 4000)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0] != first {
		t.Errorf("first chunk len = %d, want split at the newline", len(chunks[0]))
	}
	if chunks[1] != second {
		t.Errorf("second chunk len = %d, want remainder after newline", len(chunks[1]))
	}
}

func TestSplitHTMLHardCutWithoutNewlines(t *testing.T) {
	text := strings.Repeat("z", 9000)

	chunks := splitHTML(text, 4000)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 4000 {
			t.Errorf("chunk %d len = %d, exceeds limit", i, len(chunk))
		}
	}
	if strings.Join(chunks, "") != text {
		t.Error("chunks do not reassemble into the original text")
	}
}
