// zobrist.go holds the incremental position hash keys. In a full build
// these would be loaded from one of the precomputed blob files described
// in spec §6 ("Precomputed table blobs"); this module generates them once
// from a fixed seed at init, matching the teacher's approach
// (engine/zobrist.go) of a deterministic math/rand source rather than a
// loaded file, so a fresh process always agrees with itself and with
// perft/test fixtures.
package board

import "math/rand"

var (
	zobristPiece     [PieceArraySize][SquareArraySize]uint64
	zobristEnPassant [SquareArraySize]uint64
	zobristCastle    [16]uint64
	zobristColor     uint64
)

func rand64(r *rand.Rand) uint64 {
	return uint64(r.Int63())<<32 ^ uint64(r.Int63())
}

func init() {
	r := rand.New(rand.NewSource(1))
	for p := Piece(1); p < PieceArraySize; p++ {
		for sq := 0; sq < SquareArraySize; sq++ {
			zobristPiece[p][sq] = rand64(r)
		}
	}
	for sq := 0; sq < SquareArraySize; sq++ {
		zobristEnPassant[sq] = rand64(r)
	}
	for i := range zobristCastle {
		zobristCastle[i] = rand64(r)
	}
	zobristColor = rand64(r)
}

// zobristFor computes the hash of a position from scratch; used by
// FEN loading and by the debug-only integrity checker.
func zobristFor(b *Board) uint64 {
	var h uint64
	for sq := Square(0); sq < SquareArraySize; sq++ {
		if p := b.pieceAt[sq]; p != NoPiece {
			h ^= zobristPiece[p][sq]
		}
	}
	if b.EnPassant != SquareNone {
		h ^= zobristEnPassant[b.EnPassant]
	}
	h ^= zobristCastle[b.Castling]
	if b.SideToMove == Black {
		h ^= zobristColor
	}
	return h
}
