package policy

import (
	"sort"

	"example.com/swarmpolicy/lib/core/adapter/history"
	"example.com/swarmpolicy/lib/core/adapter/random"
	"example.com/swarmpolicy/lib/core/domain"
)

// RateCost ranks peers by return on investment: f is the rate a peer
// reciprocated at when we last unchoked it, tau the bandwidth we believe it
// takes to stay in its unchoke set. Peers are unchoked greedily by f/tau
// until the capacity cap would be exceeded.
type RateCost struct {
	params  Params
	rng     random.Rand
	planner Planner

	f            map[string]float64
	tau          map[string]float64
	prevUnchoked []string
}

var _ Policy = &RateCost{}

func NewRateCost(params Params, rng random.Rand) *RateCost {
	return &RateCost{
		params:  params,
		rng:     rng,
		planner: NewPlanner(0, rng),
		f:       make(map[string]float64),
		tau:     make(map[string]float64),
	}
}

// Estimate returns the current f and tau for a peer.
func (t *RateCost) Estimate(id string) (f, tau float64, ok bool) {
	f, ok = t.f[id]
	if !ok {
		return 0, 0, false
	}
	return f, t.tau[id], true
}

// Known lists every peer with an estimate, sorted.
func (t *RateCost) Known() []string {
	ids := make([]string, 0, len(t.f))
	for id := range t.f {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (t *RateCost) PrevUnchoked() []string {
	return append([]string(nil), t.prevUnchoked...)
}

func (t *RateCost) Requests(agent domain.Agent, peers []domain.PeerView, _ history.History) []domain.Request {
	return t.planner.Plan(agent, peers)
}

func (t *RateCost) Uploads(agent domain.Agent, requests []domain.Request, peers []domain.PeerView, h history.History) ([]domain.Upload, error) {
	ids := requesterIDs(requests)
	if err := checkRequesters(ids, peers); err != nil {
		return nil, err
	}

	round := h.CurrentRound()
	if round == 0 {
		for _, p := range peers {
			t.f[p.ID] = 1
			t.tau[p.ID] = float64(agent.UpBW) / 4
		}
	} else {
		t.update(h, round)
	}

	if len(ids) == 0 {
		t.prevUnchoked = nil
		return nil, nil
	}
	chosen, bws := t.selectPeers(agent, ids)
	t.prevUnchoked = chosen
	l_policy.Sugar().Debugw("tyrant unchoke", "agent", agent.ID, "round", round, "chosen", chosen)
	return uploadsOf(agent, chosen, bws), nil
}

// update learns from last round: a peer we unchoked that sent nothing back is
// assumed to need more, one that did tells us its rate. Peers unchoking us for
// R rounds in a row get cheaper.
func (t *RateCost) update(h history.History, round int) {
	delivered := make(map[string]int)
	for _, d := range h.Downloads(round - 1) {
		delivered[d.FromID] += d.Blocks
	}
	for _, id := range t.prevUnchoked {
		if blocks := delivered[id]; blocks > 0 {
			t.f[id] = float64(blocks)
		} else {
			t.tau[id] *= 1 + t.params.Alpha
		}
	}
	for id := range chronicUnchokers(h.Range(round-t.params.R, round), t.params.R) {
		if _, ok := t.tau[id]; ok {
			t.tau[id] *= 1 - t.params.Gamma
		}
	}
}

// chronicUnchokers intersects the senders of every round; fewer than r
// rounds means nobody qualifies yet.
func chronicUnchokers(rounds [][]domain.Download, r int) map[string]struct{} {
	if len(rounds) != r {
		return nil
	}
	var common map[string]struct{}
	for _, downloads := range rounds {
		senders := make(map[string]struct{})
		for _, d := range downloads {
			if d.Blocks > 0 {
				senders[d.FromID] = struct{}{}
			}
		}
		if common == nil {
			common = senders
			continue
		}
		for id := range common {
			if _, ok := senders[id]; !ok {
				delete(common, id)
			}
		}
	}
	return common
}

type ratio struct {
	id  string
	roi float64
}

func (t *RateCost) selectPeers(agent domain.Agent, ids []string) ([]string, []float64) {
	capacity := float64(agent.UpBW)
	if t.params.Cap > 0 && t.params.Cap < capacity {
		capacity = t.params.Cap
	}

	known := t.Known()
	ratios := make([]ratio, 0, len(known))
	for _, id := range known {
		ratios = append(ratios, ratio{id: id, roi: t.f[id] / t.tau[id]})
	}
	t.rng.Shuffle(len(ratios), func(i, j int) { ratios[i], ratios[j] = ratios[j], ratios[i] })
	sort.SliceStable(ratios, func(i, j int) bool { return ratios[i].roi > ratios[j].roi })

	var chosen []string
	var bws []float64
	var sum float64
	capped := false
	for _, r := range ratios {
		if !contains(ids, r.id) {
			continue
		}
		if sum+t.tau[r.id] > capacity {
			capped = true
			break
		}
		chosen = append(chosen, r.id)
		bws = append(bws, t.tau[r.id])
		sum += t.tau[r.id]
	}

	fresh := len(t.prevUnchoked) == 0
	if t.params.SpareCapacity && fresh && !capped && len(chosen) > 0 && sum < capacity {
		spare := (capacity - sum) / float64(len(chosen))
		sum = 0
		for i := range bws {
			bws[i] += spare
			sum += bws[i]
		}
	}
	return chosen, fitCapacity(bws, sum, float64(agent.UpBW))
}
