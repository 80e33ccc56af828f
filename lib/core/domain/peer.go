package domain

import (
	"errors"
	"fmt"
)

var ErrPieceOutOfBound = errors.New("piece out of bound")

// PieceList is a bitfield of piece indices, high bit first, the same layout
// as the wire bitfield message.
type PieceList []byte

func NewPieceList(piecesCount int) PieceList {
	return make(PieceList, (piecesCount+7)/8)
}

// PieceListOf builds a bitfield sized for piecesCount holding the given pieces.
func PieceListOf(piecesCount int, pieces ...int) (PieceList, error) {
	p := NewPieceList(piecesCount)
	for _, pieceNo := range pieces {
		if pieceNo >= piecesCount {
			return nil, fmt.Errorf("%w: %d of %d", ErrPieceOutOfBound, pieceNo, piecesCount)
		}
		if err := p.SetPiece(pieceNo); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p PieceList) ContainPiece(pieceNo int) bool {
	if pieceNo < 0 || pieceNo/8 >= len(p) {
		return false
	}
	return p[pieceNo/8]>>(7-uint(pieceNo%8))&1 == 1
}

func (p PieceList) SetPiece(pieceNo int) error {
	if pieceNo < 0 || pieceNo/8 >= len(p) {
		return ErrPieceOutOfBound
	}
	p[pieceNo/8] |= 1 << (7 - uint(pieceNo%8))
	return nil
}

// Pieces lists the set indices in ascending order.
func (p PieceList) Pieces() []int {
	var res []int
	for i, b := range p {
		if b == 0 {
			continue
		}
		for j := 0; j < 8; j++ {
			if b>>(7-uint(j))&1 == 1 {
				res = append(res, i*8+j)
			}
		}
	}
	return res
}

func (p PieceList) Count() int {
	n := 0
	for _, b := range p {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

// PeerView is what the local agent can see of another peer in one round.
type PeerView struct {
	ID        string
	Available PieceList
}

func (v PeerView) Has(pieceNo int) bool {
	return v.Available.ContainPiece(pieceNo)
}
