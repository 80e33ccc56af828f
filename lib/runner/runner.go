package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"example.com/swarmpolicy/lib/core/domain"
	"example.com/swarmpolicy/lib/core/service/policy"
	"example.com/swarmpolicy/lib/logger"
	"example.com/swarmpolicy/lib/platform/dummy"
	"example.com/swarmpolicy/lib/platform/mathrand"
	"example.com/swarmpolicy/lib/platform/mem"
)

var l_runner = logger.Named("runner")

var ErrViolation = errors.New("invariant violated")

const capacitySlack = 1e-6

// Trial drives one policy through Rounds rounds of a generated swarm.
type Trial struct {
	Policy string
	Seed   int64
	Rounds int
	Swarm  dummy.SwarmConf
	Params policy.Params
}

type Result struct {
	Trial  Trial
	Rounds int
	// Uploads counts upload grants over all rounds.
	Uploads int
	// PeakUsage is the largest share of UpBW handed out in one round.
	PeakUsage float64
	Err       error
}

// Trials crosses every policy with seeds 0..seeds-1 on top of base.
func Trials(policies []string, seeds int, base Trial) []Trial {
	trials := make([]Trial, 0, len(policies)*seeds)
	for _, name := range policies {
		for seed := 0; seed < seeds; seed++ {
			tr := base
			tr.Policy = name
			tr.Seed = base.Seed + int64(seed)
			trials = append(trials, tr)
		}
	}
	return trials
}

type Runner struct {
	Workers int
	// OnResult is called once per finished trial, never concurrently.
	OnResult func(Result)
}

// Start runs trials on at most Workers goroutines. Results keep the order of
// trials.
func (r Runner) Start(ctx context.Context, trials []Trial) []Result {
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	goroutinelim := make(chan struct{}, workers)
	results := make([]Result, len(trials))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i, tr := range trials {
		wg.Add(1)
		go func(i int, tr Trial) {
			defer wg.Done()
			goroutinelim <- struct{}{}
			defer func() { <-goroutinelim }()

			res := Run(ctx, tr)
			results[i] = res
			if r.OnResult != nil {
				mu.Lock()
				r.OnResult(res)
				mu.Unlock()
			}
		}(i, tr)
	}
	wg.Wait()
	return results
}

func Failed(results []Result) []Result {
	var failed []Result
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

func Run(ctx context.Context, tr Trial) (res Result) {
	res.Trial = tr
	defer func() {
		if v := recover(); v != nil {
			res.Err = fmt.Errorf("%w: round %d: %v", ErrViolation, res.Rounds, v)
		}
		if res.Err != nil {
			l_runner.Sugar().Infow("trial failed", "policy", tr.Policy, "seed", tr.Seed, "err", res.Err)
		}
	}()

	p, err := policy.New(tr.Policy, tr.Params, mathrand.New(tr.Seed))
	if err != nil {
		res.Err = err
		return res
	}
	rng := mathrand.New(tr.Seed + 1)
	agent, peers := dummy.Swarm(rng, tr.Swarm)
	h := mem.NewHistory()

	for round := 0; round < tr.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}

		reqs := p.Requests(agent, peers, h)
		if err := checkRequests(agent, peers, reqs); err != nil {
			res.Err = fmt.Errorf("round %d: %w", round, err)
			return res
		}

		incoming := dummy.Requests(rng, agent, peers)
		uploads, err := p.Uploads(agent, incoming, peers, h)
		if err != nil {
			res.Err = fmt.Errorf("round %d: %w", round, err)
			return res
		}
		if err := checkUploads(agent, peers, incoming, uploads); err != nil {
			res.Err = fmt.Errorf("round %d: %w", round, err)
			return res
		}
		if agent.UpBW > 0 {
			if usage := domain.TotalBandwidth(uploads) / float64(agent.UpBW); usage > res.PeakUsage {
				res.PeakUsage = usage
			}
		}

		dummy.Deliver(&agent, reqs)
		h.Record(dummy.Downloads(rng, agent, peers))
		res.Rounds++
		res.Uploads += len(uploads)
	}
	return res
}

func checkRequests(agent domain.Agent, peers []domain.PeerView, reqs []domain.Request) error {
	visible := make(map[string]domain.PeerView, len(peers))
	for _, p := range peers {
		visible[p.ID] = p
	}
	perPeer := make(map[string]int)
	for _, r := range reqs {
		p, ok := visible[r.ProviderID]
		switch {
		case r.RequesterID != agent.ID:
			return fmt.Errorf("%w: request made on behalf of %s", ErrViolation, r.RequesterID)
		case !ok:
			return fmt.Errorf("%w: request to unknown peer %s", ErrViolation, r.ProviderID)
		case !p.Has(r.PieceIndex):
			return fmt.Errorf("%w: %s does not have piece %d", ErrViolation, r.ProviderID, r.PieceIndex)
		case !agent.Needs(r.PieceIndex):
			return fmt.Errorf("%w: piece %d is complete", ErrViolation, r.PieceIndex)
		case r.StartBlock != agent.Pieces[r.PieceIndex]:
			return fmt.Errorf("%w: piece %d starts at %d, not %d", ErrViolation, r.PieceIndex, r.StartBlock, agent.Pieces[r.PieceIndex])
		}
		perPeer[r.ProviderID]++
		if perPeer[r.ProviderID] > agent.MaxRequests {
			return fmt.Errorf("%w: more than %d requests to %s", ErrViolation, agent.MaxRequests, r.ProviderID)
		}
	}
	return nil
}

func checkUploads(agent domain.Agent, peers []domain.PeerView, incoming []domain.Request, uploads []domain.Upload) error {
	if len(incoming) == 0 && len(uploads) > 0 {
		return fmt.Errorf("%w: uploads without requests", ErrViolation)
	}
	if total := domain.TotalBandwidth(uploads); total > float64(agent.UpBW)+capacitySlack {
		return fmt.Errorf("%w: %f handed out of %d", ErrViolation, total, agent.UpBW)
	}
	ids := domain.PeerIDs(peers)
	for _, u := range uploads {
		switch {
		case u.UploaderID != agent.ID:
			return fmt.Errorf("%w: upload from %s", ErrViolation, u.UploaderID)
		case u.Bandwidth < 0:
			return fmt.Errorf("%w: negative bandwidth to %s", ErrViolation, u.ReceiverID)
		case len(domain.FilterPool(peers, domain.FilterIn([]string{u.ReceiverID}))) == 0:
			return fmt.Errorf("%w: upload to %s, not among %v", ErrViolation, u.ReceiverID, ids)
		}
	}
	return nil
}
