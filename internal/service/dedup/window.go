package dedup

// DefaultWindowSize bounds how many recently emitted sentences are kept for
// near-duplicate comparison. Content older than the window can repeat
// unnoticed; that is the price of O(W) checks per sentence.
const DefaultWindowSize = 50

// sentenceWindow is a FIFO of the most recently emitted sentences.
type sentenceWindow struct {
	limit int
	items []string
}

func newSentenceWindow(limit int) *sentenceWindow {
	if limit <= 0 {
		limit = DefaultWindowSize
	}
	return &sentenceWindow{limit: limit, items: make([]string, 0, limit)}
}

func (w *sentenceWindow) add(sentence string) {
	if len(w.items) == w.limit {
		w.items = append(w.items[1:], sentence)
		return
	}
	w.items = append(w.items, sentence)
}

func (w *sentenceWindow) all() []string {
	return w.items
}

func (w *sentenceWindow) size() int {
	return len(w.items)
}
