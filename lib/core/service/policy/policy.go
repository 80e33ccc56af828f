package policy

import (
	"errors"
	"fmt"

	"example.com/swarmpolicy/lib/core/adapter/history"
	"example.com/swarmpolicy/lib/core/adapter/random"
	"example.com/swarmpolicy/lib/core/domain"
	"example.com/swarmpolicy/lib/logger"
)

var l_policy = logger.Named("policy")

var (
	ErrUnknownPolicy    = errors.New("unknown policy")
	ErrUnknownRequester = errors.New("requester is not among visible peers")
)

const (
	NameStd       = "std"
	NamePropShare = "propshare"
	NameTourney   = "tourney"
	NameTyrant    = "tyrant"
)

// Policy decides, once per round, what the agent requests and how it spends
// its upload capacity. Requests is called before Uploads. A Policy carries
// memory between rounds and belongs to exactly one agent.
type Policy interface {
	Requests(agent domain.Agent, peers []domain.PeerView, h history.History) []domain.Request
	Uploads(agent domain.Agent, requests []domain.Request, peers []domain.PeerView, h history.History) ([]domain.Upload, error)
}

func Names() []string {
	return []string{NameStd, NamePropShare, NameTourney, NameTyrant}
}

func New(name string, params Params, rng random.Rand) (Policy, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	switch name {
	case NameStd:
		return NewReciprocal(params, rng), nil
	case NamePropShare:
		return NewPropShare(params, rng), nil
	case NameTourney:
		return NewTourney(params, rng), nil
	case NameTyrant:
		return NewRateCost(params, rng), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// requesterIDs lists distinct requesters in first-seen order.
func requesterIDs(requests []domain.Request) []string {
	seen := make(map[string]struct{}, len(requests))
	var ids []string
	for _, r := range requests {
		if _, ok := seen[r.RequesterID]; ok {
			continue
		}
		seen[r.RequesterID] = struct{}{}
		ids = append(ids, r.RequesterID)
	}
	return ids
}

func checkRequesters(ids []string, peers []domain.PeerView) error {
	visible := make(map[string]struct{}, len(peers))
	for _, p := range peers {
		visible[p.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := visible[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownRequester, id)
		}
	}
	return nil
}

type peerBlocks struct {
	id     string
	blocks float64
}

// blocksFrom sums weight×blocks per sender over the given rounds, keeping only
// senders in ids. Weights apply per round; the result is in first-seen order.
func blocksFrom(rounds [][]domain.Download, weights []float64, ids []string) []peerBlocks {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	index := make(map[string]int)
	var res []peerBlocks
	for i, downloads := range rounds {
		for _, d := range downloads {
			if _, ok := wanted[d.FromID]; !ok {
				continue
			}
			j, ok := index[d.FromID]
			if !ok {
				j = len(res)
				index[d.FromID] = j
				res = append(res, peerBlocks{id: d.FromID})
			}
			res[j].blocks += weights[i] * float64(d.Blocks)
		}
	}
	return res
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func without(ids []string, drop []string) []string {
	var res []string
	for _, id := range ids {
		if !contains(drop, id) {
			res = append(res, id)
		}
	}
	return res
}

func pick(rng random.Rand, ids []string) string {
	return ids[rng.Intn(len(ids))]
}

// sample draws k distinct ids uniformly, leaving ids untouched.
func sample(rng random.Rand, ids []string, k int) []string {
	pool := append([]string(nil), ids...)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

func uploadsOf(agent domain.Agent, ids []string, bws []float64) []domain.Upload {
	uploads := make([]domain.Upload, 0, len(ids))
	for i, id := range ids {
		uploads = append(uploads, domain.Upload{UploaderID: agent.ID, ReceiverID: id, Bandwidth: bws[i]})
	}
	return uploads
}
