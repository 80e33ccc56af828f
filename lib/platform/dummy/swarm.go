package dummy

import (
	"fmt"

	"example.com/swarmpolicy/lib/core/adapter/random"
	"example.com/swarmpolicy/lib/core/domain"
)

// SwarmConf sizes a generated swarm.
type SwarmConf struct {
	Peers          int
	Pieces         int
	BlocksPerPiece int
	UpBW           int
	MaxRequests    int
}

func DefaultSwarmConf() SwarmConf {
	return SwarmConf{
		Peers:          10,
		Pieces:         32,
		BlocksPerPiece: 4,
		UpBW:           64,
		MaxRequests:    4,
	}
}

// Swarm builds an agent with random partial progress and peers each holding
// a random half of the pieces.
func Swarm(rng random.Rand, conf SwarmConf) (domain.Agent, []domain.PeerView) {
	agent := domain.Agent{
		ID:          "agent",
		Pieces:      make([]int, conf.Pieces),
		Conf:        domain.Conf{BlocksPerPiece: conf.BlocksPerPiece},
		UpBW:        conf.UpBW,
		MaxRequests: conf.MaxRequests,
	}
	for i := range agent.Pieces {
		agent.Pieces[i] = rng.Intn(conf.BlocksPerPiece + 1)
	}

	peers := make([]domain.PeerView, 0, conf.Peers)
	for i := 0; i < conf.Peers; i++ {
		avail := domain.NewPieceList(conf.Pieces)
		for piece := 0; piece < conf.Pieces; piece++ {
			if rng.Intn(2) == 0 {
				_ = avail.SetPiece(piece)
			}
		}
		peers = append(peers, domain.PeerView{ID: fmt.Sprintf("peer%d", i), Available: avail})
	}
	return agent, peers
}

// Requests has every peer ask the agent for a piece with probability 1/3.
func Requests(rng random.Rand, agent domain.Agent, peers []domain.PeerView) []domain.Request {
	var reqs []domain.Request
	for _, p := range peers {
		if rng.Intn(3) != 0 || len(agent.Pieces) == 0 {
			continue
		}
		reqs = append(reqs, domain.Request{
			RequesterID: p.ID,
			ProviderID:  agent.ID,
			PieceIndex:  rng.Intn(len(agent.Pieces)),
		})
	}
	return reqs
}

// Downloads makes up what half of the peers sent the agent this round.
func Downloads(rng random.Rand, agent domain.Agent, peers []domain.PeerView) []domain.Download {
	var downloads []domain.Download
	for _, p := range peers {
		if rng.Intn(2) != 0 {
			continue
		}
		downloads = append(downloads, domain.Download{FromID: p.ID, ToID: agent.ID, Blocks: rng.Intn(agent.Conf.BlocksPerPiece + 1)})
	}
	return downloads
}

// Deliver advances the agent by one block for every granted request, as if
// each provider sent it.
func Deliver(agent *domain.Agent, reqs []domain.Request) {
	for _, r := range reqs {
		if agent.Needs(r.PieceIndex) {
			agent.Pieces[r.PieceIndex]++
		}
	}
}
