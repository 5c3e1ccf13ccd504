package pipeline

import "sync"

// DefaultHistorySize bounds the in-memory activity log.
const DefaultHistorySize = 20

// history is a bounded FIFO of recent Results. Oldest entries fall off.
type history struct {
	mu      sync.Mutex
	max     int
	entries []Result
}

func newHistory(max int) *history {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &history{max: max}
}

func (h *history) add(r Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, r)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

func (h *history) snapshot() []Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Result, len(h.entries))
	copy(out, h.entries)
	return out
}
