package memory

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/sandevgo/scoutbot/internal/core"
)

// messageOverheadTokens approximates the per-message framing the upstream
// adds around the content itself.
const messageOverheadTokens = 4

var (
	tkOnce sync.Once
	tk     *tiktoken.Tiktoken
)

// getTokenizer loads the cl100k_base encoding once. The encoding files are
// fetched on first use, so on an offline host this can fail; callers fall
// back to a bytes-per-token estimate instead of giving up.
func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		tk, _ = tiktoken.GetEncoding("cl100k_base")
	})
	return tk
}

// CountTokens measures text in upstream tokens, estimating at four bytes
// per token when the tokenizer is unavailable.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}
	if enc := getTokenizer(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return (len(text) + 3) / 4
}

// TrimToBudget drops the oldest messages until the rest fit maxTokens.
// A non-positive budget disables trimming. The newest message always
// survives even when it alone is over budget.
func TrimToBudget(history []core.Message, maxTokens int) []core.Message {
	if maxTokens <= 0 || len(history) == 0 {
		return history
	}

	total := 0
	for i := len(history) - 1; i >= 0; i-- {
		total += CountTokens(history[i].Content) + messageOverheadTokens
		if total > maxTokens && i < len(history)-1 {
			return history[i+1:]
		}
	}
	return history
}
