package domain

// Conf is the piece sizing shared by every peer in a swarm.
type Conf struct {
	BlocksPerPiece int `bencode:"blocks_per_piece" json:"blocks_per_piece"`
}

// Agent is the local peer as handed over by the simulator each round.
// Pieces holds the number of blocks received for every piece index.
type Agent struct {
	ID          string
	Pieces      []int
	Conf        Conf
	UpBW        int
	MaxRequests int
}

func (a Agent) Needs(pieceNo int) bool {
	if pieceNo < 0 || pieceNo >= len(a.Pieces) {
		return false
	}
	return a.Pieces[pieceNo] < a.Conf.BlocksPerPiece
}

// NeededPieces returns the indices of pieces not yet complete, ascending.
func (a Agent) NeededPieces() []int {
	var needed []int
	for i := range a.Pieces {
		if a.Needs(i) {
			needed = append(needed, i)
		}
	}
	return needed
}

// UsefulPieces counts the pieces a peer offers that the agent still needs.
func (a Agent) UsefulPieces(v PeerView) int {
	n := 0
	for _, pieceNo := range v.Available.Pieces() {
		if a.Needs(pieceNo) {
			n++
		}
	}
	return n
}
