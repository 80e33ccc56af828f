package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"example.com/swarmpolicy/lib/core/adapter/cache"
	"example.com/swarmpolicy/lib/core/adapter/clock"
	"example.com/swarmpolicy/lib/core/adapter/history"
	"example.com/swarmpolicy/lib/core/adapter/random"
	"example.com/swarmpolicy/lib/core/domain"
	"example.com/swarmpolicy/lib/core/service/policy"
	"example.com/swarmpolicy/lib/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var l_session = logger.Named("session")

var ErrNotFound = errors.New("session not found")

// Config picks the policy a session runs. Seed fixes its random choices.
type Config struct {
	Policy string        `json:"policy"`
	Seed   int64         `json:"seed"`
	Params policy.Params `json:"params"`
}

// Session is one remote agent's policy instance. Decide calls are serialised.
type Session struct {
	ID     string
	Config Config

	mu          sync.Mutex
	clock       clock.Clock
	policy      policy.Policy
	primed      bool
	rounds      int
	created     time.Time
	lastDecided time.Time
}

type Decision struct {
	Requests []domain.Request `json:"requests"`
	Uploads  []domain.Upload  `json:"uploads"`
}

type Summary struct {
	ID          string        `json:"id"`
	Policy      string        `json:"policy"`
	Seed        int64         `json:"seed"`
	Params      policy.Params `json:"params"`
	Rounds      int           `json:"rounds"`
	Created     time.Time     `json:"created"`
	LastDecided *time.Time    `json:"last_decided,omitempty"`
}

// Decide runs one round: requests first, then the upload split.
func (s *Session) Decide(agent domain.Agent, peers []domain.PeerView, incoming []domain.Request, h history.History) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// a session may join an agent whose history is already running
	if !s.primed {
		if err := policy.Replay(s.policy, agent, peers, h); err != nil {
			return Decision{}, err
		}
		s.primed = true
	}
	reqs := s.policy.Requests(agent, peers, h)
	uploads, err := s.policy.Uploads(agent, incoming, peers, h)
	if err != nil {
		return Decision{}, err
	}
	s.rounds++
	s.lastDecided = s.clock.Now()
	l_session.Sugar().Debugw("round decided", "session", s.ID, "round", h.CurrentRound(), "requests", len(reqs), "uploads", len(uploads))
	return Decision{Requests: reqs, Uploads: uploads}, nil
}

func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := Summary{
		ID:      s.ID,
		Policy:  s.Config.Policy,
		Seed:    s.Config.Seed,
		Params:  s.Config.Params,
		Rounds:  s.rounds,
		Created: s.created,
	}
	if s.rounds > 0 {
		last := s.lastDecided
		sum.LastDecided = &last
	}
	return sum
}

// Store keeps sessions in a bounded cache; the least recently used session
// is dropped when it is full.
type Store struct {
	cache   cache.Cache
	clock   clock.Clock
	newRand func(seed int64) random.Rand
}

func NewStore(c cache.Cache, clk clock.Clock, newRand func(seed int64) random.Rand) *Store {
	return &Store{cache: c, clock: clk, newRand: newRand}
}

func (st *Store) Create(cfg Config) (*Session, error) {
	p, err := policy.New(cfg.Policy, cfg.Params, st.newRand(cfg.Seed))
	if err != nil {
		return nil, err
	}
	s := &Session{
		ID:      uuid.NewString(),
		Config:  cfg,
		clock:   st.clock,
		policy:  p,
		created: st.clock.Now(),
	}
	if _, err := st.cache.Cached(s.ID, func() (interface{}, error) { return s, nil }); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	l_session.Info("session created",
		zap.String("session", s.ID),
		zap.String("policy", cfg.Policy),
		zap.Int64("seed", cfg.Seed))
	return s, nil
}

func (st *Store) Get(id string) (*Session, error) {
	v, err := st.cache.Get(id)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

func (st *Store) Delete(id string) error {
	if !st.cache.Remove(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
