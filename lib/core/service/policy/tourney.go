package policy

import (
	"math"

	"example.com/swarmpolicy/lib/core/adapter/history"
	"example.com/swarmpolicy/lib/core/adapter/random"
	"example.com/swarmpolicy/lib/core/domain"
)

// Tourney is PropShare tuned for competition: shares follow a discounted sum
// over the last LenHistory rounds, exploration favours peers holding pieces we
// need, and the planner avoids piling requests onto the same pieces.
type Tourney struct {
	params  Params
	rng     random.Rand
	planner Planner
}

var _ Policy = &Tourney{}

func NewTourney(params Params, rng random.Rand) *Tourney {
	return &Tourney{
		params:  params,
		rng:     rng,
		planner: NewPlanner(params.RequestCountFactor, rng),
	}
}

func (t *Tourney) Requests(agent domain.Agent, peers []domain.PeerView, _ history.History) []domain.Request {
	return t.planner.Plan(agent, peers)
}

func (t *Tourney) Uploads(agent domain.Agent, requests []domain.Request, peers []domain.PeerView, h history.History) ([]domain.Upload, error) {
	if len(requests) == 0 {
		return nil, nil
	}
	ids := requesterIDs(requests)
	if err := checkRequesters(ids, peers); err != nil {
		return nil, err
	}
	round := h.CurrentRound()

	from := round - t.params.LenHistory
	if from < 0 {
		from = 0
	}
	received := t.discounted(h.Range(from, round), ids)

	frac := t.params.FracRandomBW
	sh := newShares()
	sh.proportional(received, 1-frac)
	if len(sh.ids) == 0 {
		sh.add(pick(t.rng, ids), 1-frac)
	}
	sh.explore(t.rng, ids, frac, func(unchosen []string) string {
		return t.weightedPick(agent, domain.FilterPool(peers, domain.FilterIn(unchosen)))
	})
	l_policy.Sugar().Debugw("tourney split", "agent", agent.ID, "round", round, "shares", sh.frac)
	return sh.uploads(agent), nil
}

// discounted weights the most recent round by 1, the one before by
// HistoryDiscount, and so on.
func (t *Tourney) discounted(rounds [][]domain.Download, ids []string) []peerBlocks {
	newestFirst := make([][]domain.Download, len(rounds))
	weights := make([]float64, len(rounds))
	for i := range rounds {
		newestFirst[i] = rounds[len(rounds)-1-i]
		weights[i] = math.Pow(t.params.HistoryDiscount, float64(i))
	}
	return blocksFrom(newestFirst, weights, ids)
}

// weightedPick draws a peer with weight 1 + number of needed pieces it offers.
func (t *Tourney) weightedPick(agent domain.Agent, candidates []domain.PeerView) string {
	weights := make([]int, len(candidates))
	total := 0
	for i, c := range candidates {
		weights[i] = 1 + agent.UsefulPieces(c)
		total += weights[i]
	}
	x := t.rng.Intn(total)
	for i, w := range weights {
		if x < w {
			return candidates[i].ID
		}
		x -= w
	}
	return candidates[len(candidates)-1].ID
}
