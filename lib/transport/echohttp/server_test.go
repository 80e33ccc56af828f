package echohttp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"example.com/swarmpolicy/lib/core/domain"
	"example.com/swarmpolicy/lib/core/service/session"
	"example.com/swarmpolicy/lib/platform/gcache"
	"example.com/swarmpolicy/lib/platform/mathrand"
	"example.com/swarmpolicy/lib/platform/realclock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"
)

func newServer() *echo.Echo {
	h := &HTTPServe{Sessions: session.NewStore(gcache.NewCache(16), realclock.RealClock{}, mathrand.New)}
	return h.Echo()
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func snapshotJSON(t *testing.T, requesters ...string) string {
	t.Helper()
	snap := domain.Snapshot{
		Agent: domain.AgentRecord{ID: "me", Pieces: []int{0, 1, 2}, BlocksPerPiece: 2, UpBW: 40, MaxRequests: 2},
		Peers: []domain.PeerRecord{{ID: "a", Pieces: []int{0, 1}}, {ID: "b", Pieces: []int{1}}},
		Downloads: [][]domain.Download{
			{{FromID: "a", ToID: "me", Blocks: 2}},
		},
	}
	for _, id := range requesters {
		snap.Requests = append(snap.Requests, domain.Request{RequesterID: id, ProviderID: "me", PieceIndex: 2})
	}
	b, err := json.Marshal(snap)
	require.NoError(t, err)
	return string(b)
}

func createSession(t *testing.T, e *echo.Echo, body string) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/sessions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var c created
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.NotEmpty(t, c.ID)
	return c.ID
}

func TestHealthAndPolicies(t *testing.T) {
	e := newServer()
	rec := do(e, http.MethodGet, "/health", "")
	assert.Equal(t, 200, rec.Code)

	rec = do(e, http.MethodGet, "/policies", "")
	assert.Equal(t, 200, rec.Code)
	assert.JSONEq(t, `["std","propshare","tourney","tyrant"]`, rec.Body.String())
}

func TestSessionLifecycle(t *testing.T) {
	e := newServer()
	id := createSession(t, e, `{"policy":"propshare","seed":7,"params":{"frac_random_bw":0.2}}`)

	rec := do(e, http.MethodGet, "/sessions/"+id, "")
	require.Equal(t, 200, rec.Code)
	var sum session.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, "propshare", sum.Policy)
	assert.Equal(t, 0.2, sum.Params.FracRandomBW)
	assert.Equal(t, 4, sum.Params.Slots)
	assert.Equal(t, 0, sum.Rounds)

	rec = do(e, http.MethodPost, "/sessions/"+id+"/rounds", snapshotJSON(t, "a", "b"))
	require.Equal(t, 200, rec.Code, rec.Body.String())
	var d session.Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.InDelta(t, 40, domain.TotalBandwidth(d.Uploads), 1e-4)
	assert.NotEmpty(t, d.Requests)

	rec = do(e, http.MethodGet, "/sessions/"+id, "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 1, sum.Rounds)

	rec = do(e, http.MethodHead, "/sessions/"+id, "")
	assert.Equal(t, "get,delete", rec.Header().Get("Allow"))

	rec = do(e, http.MethodDelete, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(e, http.MethodGet, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(e, http.MethodDelete, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFirstRoundWithHistory(t *testing.T) {
	e := newServer()
	id := createSession(t, e, `{"policy":"tyrant","seed":2}`)

	rec := do(e, http.MethodPost, "/sessions/"+id+"/rounds", snapshotJSON(t, "a", "b"))
	require.Equal(t, 200, rec.Code, rec.Body.String())
	var d session.Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Len(t, d.Uploads, 2)
	assert.InDelta(t, 40, domain.TotalBandwidth(d.Uploads), 1e-4)
}

func TestBadRequests(t *testing.T) {
	e := newServer()
	id := createSession(t, e, `{"policy":"tyrant"}`)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown policy", http.MethodPost, "/sessions", `{"policy":"nope"}`, http.StatusBadRequest},
		{"invalid params", http.MethodPost, "/sessions", `{"policy":"std","params":{"slots":0}}`, http.StatusBadRequest},
		{"malformed config", http.MethodPost, "/sessions", `{"policy":`, http.StatusBadRequest},
		{"unknown session", http.MethodPost, "/sessions/nope/rounds", snapshotJSON(t, "a"), http.StatusNotFound},
		{"unknown requester", http.MethodPost, "/sessions/" + id + "/rounds", snapshotJSON(t, "ghost"), http.StatusBadRequest},
		{"missing agent", http.MethodPost, "/sessions/" + id + "/rounds", `{"peers":[]}`, http.StatusBadRequest},
		{"piece out of range", http.MethodPost, "/sessions/" + id + "/rounds",
			`{"agent":{"id":"me","pieces":[0],"blocks_per_piece":1,"up_bw":1,"max_requests":1},"peers":[{"id":"a","pieces":[9]}]}`,
			http.StatusBadRequest},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := do(e, c.method, c.path, c.body)
			assert.Equal(t, c.want, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestServe(t *testing.T) {
	ln, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)

	h := &HTTPServe{Sessions: session.NewStore(gcache.NewCache(4), realclock.RealClock{}, mathrand.New)}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(b), "OK")

	cancel()
	assert.NoError(t, <-done)
}
