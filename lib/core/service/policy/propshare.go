package policy

import (
	"example.com/swarmpolicy/lib/core/adapter/history"
	"example.com/swarmpolicy/lib/core/adapter/random"
	"example.com/swarmpolicy/lib/core/domain"
)

// PropShare splits capacity in proportion to what each requester uploaded to
// us last round, keeping FracRandomBW for a random requester.
type PropShare struct {
	params  Params
	rng     random.Rand
	planner Planner
}

var _ Policy = &PropShare{}

func NewPropShare(params Params, rng random.Rand) *PropShare {
	return &PropShare{
		params:  params,
		rng:     rng,
		planner: NewPlanner(0, rng),
	}
}

func (p *PropShare) Requests(agent domain.Agent, peers []domain.PeerView, _ history.History) []domain.Request {
	return p.planner.Plan(agent, peers)
}

func (p *PropShare) Uploads(agent domain.Agent, requests []domain.Request, peers []domain.PeerView, h history.History) ([]domain.Upload, error) {
	if len(requests) == 0 {
		return nil, nil
	}
	ids := requesterIDs(requests)
	if err := checkRequesters(ids, peers); err != nil {
		return nil, err
	}
	round := h.CurrentRound()

	var received []peerBlocks
	if round > 0 {
		received = blocksFrom([][]domain.Download{h.Downloads(round - 1)}, []float64{1}, ids)
	}
	sh := p.split(ids, received)
	l_policy.Sugar().Debugw("propshare split", "agent", agent.ID, "round", round, "shares", sh.frac)
	return sh.uploads(agent), nil
}

func (p *PropShare) split(ids []string, received []peerBlocks) *shares {
	frac := p.params.FracRandomBW
	sh := newShares()
	sh.proportional(received, 1-frac)
	if len(sh.ids) == 0 {
		sh.add(pick(p.rng, ids), 1-frac)
	}
	sh.explore(p.rng, ids, frac, func(unchosen []string) string {
		return pick(p.rng, unchosen)
	})
	return sh
}
