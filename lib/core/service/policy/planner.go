package policy

import (
	"sort"

	"example.com/swarmpolicy/lib/core/adapter/random"
	"example.com/swarmpolicy/lib/core/domain"
)

// Planner requests the rarest needed pieces first. With a positive Penalty,
// pieces already requested earlier in the same round sort later, spreading
// requests over more pieces.
type Planner struct {
	Penalty float64
	rng     random.Rand
}

func NewPlanner(penalty float64, rng random.Rand) Planner {
	return Planner{Penalty: penalty, rng: rng}
}

type pieceRarity struct {
	piece int
	count int
}

func (p Planner) Plan(agent domain.Agent, peers []domain.PeerView) []domain.Request {
	candidates := rarity(agent, peers)
	if len(candidates) == 0 || agent.MaxRequests <= 0 {
		return nil
	}

	order := domain.FilterPool(peers, domain.FilterUseful(agent))
	p.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	requested := make(map[int]int)
	key := func(c pieceRarity) float64 {
		return float64(c.count) + p.Penalty*float64(requested[c.piece])
	}

	var requests []domain.Request
	for _, peer := range order {
		// fresh tie order for every peer
		p.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
		sort.SliceStable(candidates, func(i, j int) bool {
			return key(candidates[i]) < key(candidates[j])
		})

		n := 0
		for _, c := range candidates {
			if n >= agent.MaxRequests {
				break
			}
			if !peer.Has(c.piece) {
				continue
			}
			n++
			requested[c.piece]++
			requests = append(requests, domain.Request{
				RequesterID: agent.ID,
				ProviderID:  peer.ID,
				PieceIndex:  c.piece,
				StartBlock:  agent.Pieces[c.piece],
			})
		}
	}
	l_policy.Sugar().Debugw("planned requests", "agent", agent.ID, "peers", len(peers), "requests", len(requests))
	return requests
}

// rarity counts, for every needed piece someone offers, how many peers offer it.
func rarity(agent domain.Agent, peers []domain.PeerView) []pieceRarity {
	counts := make(map[int]int)
	var pieces []int
	for _, peer := range peers {
		for _, piece := range peer.Available.Pieces() {
			if !agent.Needs(piece) {
				continue
			}
			if _, ok := counts[piece]; !ok {
				pieces = append(pieces, piece)
			}
			counts[piece]++
		}
	}
	res := make([]pieceRarity, 0, len(pieces))
	for _, piece := range pieces {
		res = append(res, pieceRarity{piece: piece, count: counts[piece]})
	}
	return res
}
