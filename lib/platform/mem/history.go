package mem

import (
	"sync"

	"example.com/swarmpolicy/lib/core/adapter/history"
	"example.com/swarmpolicy/lib/core/domain"
)

// History keeps rounds in memory. Record may be called from another
// goroutine than the readers.
type History struct {
	mu     sync.RWMutex
	rounds [][]domain.Download
}

var _ history.History = &History{}

func NewHistory(rounds ...[]domain.Download) *History {
	h := &History{}
	for _, r := range rounds {
		h.Record(r)
	}
	return h
}

// Record appends the downloads of the round that just finished.
func (h *History) Record(downloads []domain.Download) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rounds = append(h.rounds, append([]domain.Download(nil), downloads...))
}

func (h *History) CurrentRound() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rounds)
}

func (h *History) Downloads(round int) []domain.Download {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if round < 0 || round >= len(h.rounds) {
		return nil
	}
	return append([]domain.Download(nil), h.rounds[round]...)
}

func (h *History) Range(from, to int) [][]domain.Download {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if from < 0 {
		return nil
	}
	if to > len(h.rounds) {
		to = len(h.rounds)
	}
	if from >= to {
		return nil
	}
	res := make([][]domain.Download, 0, to-from)
	for _, r := range h.rounds[from:to] {
		res = append(res, append([]domain.Download(nil), r...))
	}
	return res
}

// Truncate returns a copy holding only the first n rounds, as the ledger
// looked when round n was being decided.
func (h *History) Truncate(n int) *History {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n > len(h.rounds) {
		n = len(h.rounds)
	}
	if n < 0 {
		n = 0
	}
	return NewHistory(h.rounds[:n]...)
}
