package ledger

import (
	"errors"
	"fmt"
	"sync"

	"example.com/swarmpolicy/lib/core/adapter/history"
	"example.com/swarmpolicy/lib/core/adapter/persistentmetadata"
	"example.com/swarmpolicy/lib/core/domain"
	"example.com/swarmpolicy/lib/logger"
	"example.com/swarmpolicy/lib/platform/mem"
)

var l_ledger = logger.Named("ledger")

const kRounds = "rounds"

func roundKey(n int) string {
	return fmt.Sprintf("round/%d", n)
}

type roundRecord struct {
	Downloads []domain.Download
}

// Ledger is a History that writes every recorded round through to a
// persistent store and reads it back on Open.
type Ledger struct {
	mu     sync.Mutex
	store  persistentmetadata.PersistentMetadata
	rounds *mem.History
}

var _ history.History = &Ledger{}

func Open(store persistentmetadata.PersistentMetadata) (*Ledger, error) {
	l := &Ledger{store: store, rounds: mem.NewHistory()}

	var n int
	err := store.Get(kRounds, &n)
	if errors.Is(err, persistentmetadata.ErrNotFound) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read round count: %w", err)
	}
	for i := 0; i < n; i++ {
		var rec roundRecord
		if err := store.Get(roundKey(i), &rec); err != nil {
			return nil, fmt.Errorf("read round %d: %w", i, err)
		}
		l.rounds.Record(rec.Downloads)
	}
	l_ledger.Sugar().Debugw("ledger opened", "rounds", n)
	return l, nil
}

// Record appends a round. The round is stored before the count is bumped,
// so a failed write never leaves a gap.
func (l *Ledger) Record(downloads []domain.Download) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.rounds.CurrentRound()
	if err := l.store.Put(roundKey(n), roundRecord{Downloads: downloads}); err != nil {
		return fmt.Errorf("write round %d: %w", n, err)
	}
	if err := l.store.Put(kRounds, n+1); err != nil {
		return fmt.Errorf("write round count: %w", err)
	}
	l.rounds.Record(downloads)
	l_ledger.Sugar().Debugw("round recorded", "round", n, "downloads", len(downloads))
	return nil
}

func (l *Ledger) CurrentRound() int {
	return l.rounds.CurrentRound()
}

func (l *Ledger) Downloads(round int) []domain.Download {
	return l.rounds.Downloads(round)
}

func (l *Ledger) Range(from, to int) [][]domain.Download {
	return l.rounds.Range(from, to)
}

