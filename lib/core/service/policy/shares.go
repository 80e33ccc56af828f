package policy

import (
	"fmt"
	"math"

	"example.com/swarmpolicy/lib/core/adapter/random"
	"example.com/swarmpolicy/lib/core/domain"
)

const (
	shareTolerance = 1e-4
	shareDecrement = 1e-7
)

// shares maps peers to a fraction of upload capacity, in insertion order.
type shares struct {
	ids  []string
	frac map[string]float64
}

func newShares() *shares {
	return &shares{frac: make(map[string]float64)}
}

func (s *shares) add(id string, frac float64) {
	if _, ok := s.frac[id]; !ok {
		s.ids = append(s.ids, id)
	}
	s.frac[id] += frac
}

func (s *shares) sum() float64 {
	var total float64
	for _, id := range s.ids {
		total += s.frac[id]
	}
	return total
}

// proportional splits budget among peers by their block counts. Nothing is
// added when there are no blocks to go by.
func (s *shares) proportional(received []peerBlocks, budget float64) {
	var total float64
	for _, pb := range received {
		total += pb.blocks
	}
	if total <= 0 {
		return
	}
	for _, pb := range received {
		if pb.blocks > 0 {
			s.add(pb.id, budget*pb.blocks/total)
		}
	}
}

// explore gives frac to one peer drawn by choose among requesters without a
// share, or adds it to a uniformly drawn requester when all have one.
func (s *shares) explore(rng random.Rand, ids []string, frac float64, choose func(unchosen []string) string) {
	unchosen := without(ids, s.ids)
	if len(unchosen) > 0 {
		s.add(choose(unchosen), frac)
		return
	}
	s.add(pick(rng, ids), frac)
}

// uploads checks normalisation and scales by capacity. A share sum away from 1
// is a bug in the arithmetic above, not a runtime condition.
func (s *shares) uploads(agent domain.Agent) []domain.Upload {
	if sum := s.sum(); math.Abs(sum-1) >= shareTolerance {
		panic(fmt.Sprintf("total proportion of upload bandwidth is not 1: %f", sum))
	}
	upBW := float64(agent.UpBW)
	bws := make([]float64, len(s.ids))
	var total float64
	for i, id := range s.ids {
		bws[i] = s.frac[id] * upBW
		total += bws[i]
	}
	return uploadsOf(agent, s.ids, fitCapacity(bws, total, upBW))
}

// fitCapacity shaves float rounding off every share when the sum overshoots.
func fitCapacity(bws []float64, total, capacity float64) []float64 {
	if total <= capacity {
		return bws
	}
	for i := range bws {
		bws[i] = math.Max(0, bws[i]-shareDecrement)
	}
	return bws
}
