package policy

import (
	"math/rand"
	"testing"

	"example.com/swarmpolicy/lib/core/adapter/random"
	"example.com/swarmpolicy/lib/core/domain"
	"github.com/stretchr/testify/require"
)

func seeded(seed int64) random.Rand {
	return rand.New(rand.NewSource(seed))
}

// fixedRand always draws the same index and never reorders.
type fixedRand struct{ n int }

func (r fixedRand) Intn(n int) int {
	if r.n >= n {
		return n - 1
	}
	return r.n
}

func (fixedRand) Shuffle(int, func(i, j int)) {}

func newAgent(upBW int, pieces ...int) domain.Agent {
	return domain.Agent{
		ID:          "me",
		Pieces:      pieces,
		Conf:        domain.Conf{BlocksPerPiece: 4},
		UpBW:        upBW,
		MaxRequests: 2,
	}
}

// peerViews builds views from id -> pieces, in the order given by ids.
func peerViews(t *testing.T, pieceCount int, ids []string, has map[string][]int) []domain.PeerView {
	t.Helper()
	var views []domain.PeerView
	for _, id := range ids {
		avail, err := domain.PieceListOf(pieceCount, has[id]...)
		require.NoError(t, err)
		views = append(views, domain.PeerView{ID: id, Available: avail})
	}
	return views
}

func requestsFrom(ids ...string) []domain.Request {
	var reqs []domain.Request
	for _, id := range ids {
		reqs = append(reqs, domain.Request{RequesterID: id, ProviderID: "me", PieceIndex: 0, StartBlock: 0})
	}
	return reqs
}

func got(from string, blocks int) domain.Download {
	return domain.Download{FromID: from, ToID: "me", Blocks: blocks}
}

func bandwidthOf(uploads []domain.Upload) map[string]float64 {
	res := make(map[string]float64)
	for _, u := range uploads {
		res[u.ReceiverID] += u.Bandwidth
	}
	return res
}
