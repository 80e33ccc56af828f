package policy

import (
	"testing"

	"example.com/swarmpolicy/lib/core/domain"
	"example.com/swarmpolicy/lib/platform/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertEstimate(t *testing.T, p *RateCost, id string, f, tau float64) {
	t.Helper()
	gotF, gotTau, ok := p.Estimate(id)
	require.True(t, ok, "no estimate for %s", id)
	assert.InDelta(t, f, gotF, 1e-9, "f of %s", id)
	assert.InDelta(t, tau, gotTau, 1e-9, "tau of %s", id)
}

func TestRateCost(t *testing.T) {
	agent := newAgent(100, 0, 0, 0, 0)

	t.Run("round zero knows every visible peer", func(t *testing.T) {
		p := NewRateCost(DefaultParams(), seeded(1))
		peers := peerViews(t, 4, []string{"A", "B", "C"}, nil)
		uploads, err := p.Uploads(agent, nil, peers, mem.NewHistory())
		require.NoError(t, err)
		assert.Empty(t, uploads)

		assert.Equal(t, []string{"A", "B", "C"}, p.Known())
		for _, id := range []string{"A", "B", "C"} {
			assertEstimate(t, p, id, 1, 25)
		}
		_, _, ok := p.Estimate("D")
		assert.False(t, ok)
	})

	t.Run("learns from the peers it unchoked", func(t *testing.T) {
		p := NewRateCost(DefaultParams(), seeded(2))
		peers := peerViews(t, 4, []string{"A", "B", "C", "D"}, nil)
		uploads, err := p.Uploads(agent, requestsFrom("A", "B"), peers, mem.NewHistory())
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"A": 50, "B": 50}, bandwidthOf(uploads))
		assert.ElementsMatch(t, []string{"A", "B"}, p.PrevUnchoked())

		h := mem.NewHistory([]domain.Download{got("A", 7), got("C", 4)})
		_, err = p.Uploads(agent, nil, peers, h)
		require.NoError(t, err)

		assertEstimate(t, p, "A", 7, 25)
		assertEstimate(t, p, "B", 1, 30)
		assertEstimate(t, p, "C", 1, 25)
		assertEstimate(t, p, "D", 1, 25)
		assert.Empty(t, p.PrevUnchoked())
	})

	t.Run("unchoked peers get tau once running", func(t *testing.T) {
		p := NewRateCost(DefaultParams(), seeded(10))
		peers := peerViews(t, 4, []string{"A", "B"}, nil)
		uploads, err := p.Uploads(agent, requestsFrom("A", "B"), peers, mem.NewHistory())
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"A": 50, "B": 50}, bandwidthOf(uploads))

		h := mem.NewHistory([]domain.Download{got("A", 7)})
		uploads, err = p.Uploads(agent, requestsFrom("A"), peers, h)
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"A": 25}, bandwidthOf(uploads))
		assertEstimate(t, p, "A", 7, 25)
	})

	t.Run("chronic unchokers get cheaper", func(t *testing.T) {
		p := NewRateCost(DefaultParams(), seeded(3))
		peers := peerViews(t, 4, []string{"A", "B"}, nil)
		full := mem.NewHistory(
			[]domain.Download{got("A", 1), got("B", 1)},
			[]domain.Download{got("A", 2)},
			[]domain.Download{got("A", 3), got("B", 1)},
		)
		for round := 0; round <= 2; round++ {
			_, err := p.Uploads(agent, nil, peers, full.Truncate(round))
			require.NoError(t, err)
			assertEstimate(t, p, "A", 1, 25)
		}
		_, err := p.Uploads(agent, nil, peers, full)
		require.NoError(t, err)
		assertEstimate(t, p, "A", 1, 23.75)
		assertEstimate(t, p, "B", 1, 25)
	})

	t.Run("greedy by ratio until the cap", func(t *testing.T) {
		p := NewRateCost(DefaultParams(), seeded(4))
		p.f = map[string]float64{"A": 10, "B": 5, "C": 1, "D": 0.01}
		p.tau = map[string]float64{"A": 40, "B": 30, "C": 50, "D": 1}
		peers := peerViews(t, 4, []string{"A", "B", "C", "D"}, nil)

		uploads, err := p.Uploads(agent, requestsFrom("D", "C", "B", "A"), peers, mem.NewHistory(nil))
		require.NoError(t, err)
		// C overflows, D would fit but ranks after C
		assert.Equal(t, []domain.Upload{
			{UploaderID: "me", ReceiverID: "A", Bandwidth: 40},
			{UploaderID: "me", ReceiverID: "B", Bandwidth: 30},
		}, uploads)
		assert.Equal(t, []string{"A", "B"}, p.PrevUnchoked())
	})

	t.Run("explicit cap", func(t *testing.T) {
		params := DefaultParams()
		params.Cap = 50
		p := NewRateCost(params, seeded(5))
		p.f = map[string]float64{"A": 10, "B": 5}
		p.tau = map[string]float64{"A": 40, "B": 30}
		peers := peerViews(t, 4, []string{"A", "B"}, nil)

		uploads, err := p.Uploads(agent, requestsFrom("A", "B"), peers, mem.NewHistory(nil))
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"A": 40}, bandwidthOf(uploads))
	})

	t.Run("filling capacity exactly", func(t *testing.T) {
		p := NewRateCost(DefaultParams(), seeded(6))
		peers := peerViews(t, 4, []string{"A", "B", "C", "D"}, nil)
		uploads, err := p.Uploads(agent, requestsFrom("A", "B", "C", "D"), peers, mem.NewHistory())
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"A": 25, "B": 25, "C": 25, "D": 25}, bandwidthOf(uploads))
	})

	t.Run("peers never seen are not ranked", func(t *testing.T) {
		p := NewRateCost(DefaultParams(), seeded(7))
		_, err := p.Uploads(agent, nil, peerViews(t, 4, []string{"A", "B"}, nil), mem.NewHistory())
		require.NoError(t, err)

		peers := peerViews(t, 4, []string{"A", "B", "N"}, nil)
		uploads, err := p.Uploads(agent, requestsFrom("N"), peers, mem.NewHistory(nil))
		require.NoError(t, err)
		assert.Empty(t, uploads)
		assert.Equal(t, []string{"A", "B"}, p.Known())
	})

	t.Run("single requester at round zero", func(t *testing.T) {
		peers := peerViews(t, 4, []string{"Y", "Z"}, nil)

		p := NewRateCost(DefaultParams(), seeded(8))
		uploads, err := p.Uploads(agent, requestsFrom("Z"), peers, mem.NewHistory())
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"Z": 100}, bandwidthOf(uploads))

		params := DefaultParams()
		params.SpareCapacity = false
		p = NewRateCost(params, seeded(8))
		uploads, err = p.Uploads(agent, requestsFrom("Z"), peers, mem.NewHistory())
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"Z": 25}, bandwidthOf(uploads))
	})

	t.Run("unknown requester leaves state alone", func(t *testing.T) {
		p := NewRateCost(DefaultParams(), seeded(9))
		_, err := p.Uploads(agent, requestsFrom("Q"), peerViews(t, 4, []string{"A"}, nil), mem.NewHistory())
		assert.ErrorIs(t, err, ErrUnknownRequester)
		assert.Empty(t, p.Known())
	})
}
