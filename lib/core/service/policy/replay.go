package policy

import (
	"fmt"

	"example.com/swarmpolicy/lib/core/adapter/history"
	"example.com/swarmpolicy/lib/core/domain"
)

// Replay walks a fresh policy through every round already in h, as if it had
// been running since round 0 with nobody asking it for blocks. Tyrant only
// builds its estimates at round 0 and std remembers its optimistic target, so
// deciding in the middle of a history without this starts from empty state.
func Replay(p Policy, agent domain.Agent, peers []domain.PeerView, h history.History) error {
	n := h.CurrentRound()
	for round := 0; round < n; round++ {
		if _, err := p.Uploads(agent, nil, peers, prefix{h: h, n: round}); err != nil {
			return fmt.Errorf("replaying round %d: %w", round, err)
		}
	}
	if n > 0 {
		l_policy.Sugar().Debugw("replayed history", "agent", agent.ID, "rounds", n)
	}
	return nil
}

// prefix is h as it stood while round n was being decided.
type prefix struct {
	h history.History
	n int
}

func (p prefix) CurrentRound() int {
	return p.n
}

func (p prefix) Downloads(round int) []domain.Download {
	if round >= p.n {
		return nil
	}
	return p.h.Downloads(round)
}

func (p prefix) Range(from, to int) [][]domain.Download {
	if to > p.n {
		to = p.n
	}
	return p.h.Range(from, to)
}
