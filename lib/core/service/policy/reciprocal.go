package policy

import (
	"sort"

	"example.com/swarmpolicy/lib/core/adapter/history"
	"example.com/swarmpolicy/lib/core/adapter/random"
	"example.com/swarmpolicy/lib/core/domain"
)

// Reciprocal is the classic tit-for-tat choker: Slots-1 slots go to the peers
// that uploaded most to us last round, one to an optimistic unchoke that is
// rotated every OptimisticRounds rounds, and capacity is split evenly.
type Reciprocal struct {
	params  Params
	rng     random.Rand
	planner Planner

	optimistic string
}

var _ Policy = &Reciprocal{}

func NewReciprocal(params Params, rng random.Rand) *Reciprocal {
	return &Reciprocal{
		params:  params,
		rng:     rng,
		planner: NewPlanner(0, rng),
	}
}

// OptimisticUnchoke returns the remembered optimistic target, if any.
func (s *Reciprocal) OptimisticUnchoke() (string, bool) {
	return s.optimistic, s.optimistic != ""
}

func (s *Reciprocal) Requests(agent domain.Agent, peers []domain.PeerView, _ history.History) []domain.Request {
	return s.planner.Plan(agent, peers)
}

func (s *Reciprocal) Uploads(agent domain.Agent, requests []domain.Request, peers []domain.PeerView, h history.History) ([]domain.Upload, error) {
	if len(requests) == 0 {
		return nil, nil
	}
	ids := requesterIDs(requests)
	if err := checkRequesters(ids, peers); err != nil {
		return nil, err
	}
	round := h.CurrentRound()

	var chosen []string
	if round > 0 {
		last := blocksFrom([][]domain.Download{h.Downloads(round - 1)}, []float64{1}, ids)
		sort.SliceStable(last, func(i, j int) bool { return last[i].blocks > last[j].blocks })
		for _, pb := range last {
			if len(chosen) >= s.params.Slots-1 {
				break
			}
			chosen = append(chosen, pb.id)
		}
	}

	if round%s.params.OptimisticRounds == 0 || s.optimistic == "" {
		if id, ok := s.pickOptimistic(ids, peers, chosen); ok {
			chosen = append(chosen, id)
			s.optimistic = id
		}
	} else if !contains(chosen, s.optimistic) {
		chosen = append(chosen, s.optimistic)
	}

	unchosen := without(ids, chosen)
	if k := s.params.Slots - len(chosen); k > 0 && len(unchosen) > 0 {
		if k > len(unchosen) {
			k = len(unchosen)
		}
		chosen = append(chosen, sample(s.rng, unchosen, k)...)
	}

	shares := domain.EvenSplit(agent.UpBW, len(chosen))
	bws := make([]float64, len(shares))
	for i, share := range shares {
		bws[i] = float64(share)
	}
	l_policy.Sugar().Debugw("std unchoke", "agent", agent.ID, "round", round, "chosen", chosen, "optimistic", s.optimistic)
	return uploadsOf(agent, chosen, bws), nil
}

// pickOptimistic prefers a requester not already chosen and falls back to any
// visible peer not already chosen.
func (s *Reciprocal) pickOptimistic(ids []string, peers []domain.PeerView, chosen []string) (string, bool) {
	if unchosen := without(ids, chosen); len(unchosen) > 0 {
		return pick(s.rng, unchosen), true
	}
	others := domain.FilterPool(peers, domain.FilterNotIn(chosen))
	if len(others) == 0 {
		return "", false
	}
	return pick(s.rng, domain.PeerIDs(others)), true
}
