package domain

import (
	"errors"
	"fmt"
	"io"

	"github.com/jackpal/bencode-go"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is everything a policy sees in one round, in a form that can be
// stored as a bencoded file or sent as JSON.
type Snapshot struct {
	Agent     AgentRecord  `bencode:"agent" json:"agent"`
	Peers     []PeerRecord `bencode:"peers" json:"peers"`
	Requests  []Request    `bencode:"requests" json:"requests"`
	Downloads [][]Download `bencode:"downloads" json:"downloads"`
}

type AgentRecord struct {
	ID             string `bencode:"id" json:"id"`
	Pieces         []int  `bencode:"pieces" json:"pieces"`
	BlocksPerPiece int    `bencode:"blocks_per_piece" json:"blocks_per_piece"`
	UpBW           int    `bencode:"up_bw" json:"up_bw"`
	MaxRequests    int    `bencode:"max_requests" json:"max_requests"`
}

type PeerRecord struct {
	ID     string `bencode:"id" json:"id"`
	Pieces []int  `bencode:"pieces" json:"pieces"`
}

func ParseSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := bencode.Unmarshal(r, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrInvalidSnapshot, err.Error())
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func (s Snapshot) Encode(w io.Writer) error {
	return bencode.Marshal(w, s)
}

func (s Snapshot) Validate() error {
	if s.Agent.ID == "" {
		return fmt.Errorf("%w: agent id is empty", ErrInvalidSnapshot)
	}
	if s.Agent.BlocksPerPiece <= 0 {
		return fmt.Errorf("%w: blocks per piece must be positive", ErrInvalidSnapshot)
	}
	if s.Agent.UpBW < 0 || s.Agent.MaxRequests < 0 {
		return fmt.Errorf("%w: negative capacity", ErrInvalidSnapshot)
	}
	return nil
}

func (s Snapshot) ToAgent() Agent {
	return Agent{
		ID:          s.Agent.ID,
		Pieces:      append([]int(nil), s.Agent.Pieces...),
		Conf:        Conf{BlocksPerPiece: s.Agent.BlocksPerPiece},
		UpBW:        s.Agent.UpBW,
		MaxRequests: s.Agent.MaxRequests,
	}
}

// PeerViews builds bitfields sized to the agent's piece count.
func (s Snapshot) PeerViews() ([]PeerView, error) {
	views := make([]PeerView, 0, len(s.Peers))
	for _, p := range s.Peers {
		avail, err := PieceListOf(len(s.Agent.Pieces), p.Pieces...)
		if err != nil {
			return nil, fmt.Errorf("%w: peer %s: %s", ErrInvalidSnapshot, p.ID, err.Error())
		}
		views = append(views, PeerView{ID: p.ID, Available: avail})
	}
	return views, nil
}
