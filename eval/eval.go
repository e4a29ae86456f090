// Package eval is a minimal static evaluator: material plus a compact
// piece-square table. The position evaluation function itself sits outside
// the core's scope (it is consumed only through the Evaluate contract); this
// package supplies the concrete implementation that makes the engine
// runnable end to end, grounded on the teacher's engine/material.go reduced
// to material + PST (its king-safety/pawn-structure/mobility terms are the
// teacher's own refinements, not part of this evaluator's contract).
package eval

import "github.com/gochess/gochess/board"

// Score bounds, grounded on the teacher's material.go constants.
const (
	// KnownWin is strictly greater than any evaluation score (mate excluded).
	KnownWin = 25000
	// KnownLoss is strictly smaller than any evaluation score (mated excluded).
	KnownLoss = -KnownWin
	// Mate minus N is mate in N plies.
	Mate = 30000
	// Mated plus N is mated in N plies.
	Mated = -Mate
	// Infinity is larger than any possible score, including Mate.
	Infinity = 32000
)

// pawnPST and the other tables are indexed by Square from White's
// perspective; Black's tables are obtained by vertical mirroring.
var pawnPST = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int32{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var kingPST = [64]int32{
	20, 30, 10, 0, 0, 10, 30, 20,
	20, 20, 0, 0, 0, 0, 20, 20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
}

func pstFor(pt board.PieceType) *[64]int32 {
	switch pt {
	case board.Pawn:
		return &pawnPST
	case board.Knight:
		return &knightPST
	case board.King:
		return &kingPST
	default:
		return nil
	}
}

func mirror(sq board.Square) board.Square {
	return board.RankFile(7-sq.Rank(), sq.File())
}

// Evaluate returns the position's static score from White's point of view,
// in centipawns.
func Evaluate(b *board.Board) int32 {
	var score int32
	for pt := board.Pawn; pt <= board.King; pt++ {
		value := board.MaterialValue[pt]
		pst := pstFor(pt)

		white := b.ByColorAndType(board.White, pt)
		for bb := white; bb != 0; {
			sq := bb.Pop()
			score += value
			if pst != nil {
				score += pst[sq]
			}
		}
		black := b.ByColorAndType(board.Black, pt)
		for bb := black; bb != 0; {
			sq := bb.Pop()
			score -= value
			if pst != nil {
				score -= pst[mirror(sq)]
			}
		}
	}
	return score
}

// Relative returns Evaluate from the point of view of the side to move,
// which is what the negamax search framework expects.
func Relative(b *board.Board) int32 {
	s := Evaluate(b)
	if b.SideToMove == board.Black {
		return -s
	}
	return s
}
