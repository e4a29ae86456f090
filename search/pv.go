// pv.go extracts the principal variation by walking best moves out of the
// transposition table from the root, per spec §4.5's reporting step.
package search

import (
	"github.com/gochess/gochess/board"
	"github.com/gochess/gochess/ttable"
)

// ExtractPV walks TT best-moves from b's current position, applying each
// in turn, until no move is stored, an illegal/null move is hit, or a
// position has been visited three times in this walk (guards against a
// cycle of TT entries pointing back on themselves).
func ExtractPV(b *board.Board, tt *ttable.Table) []board.Move {
	var pv []board.Move
	seen := make(map[uint64]int)
	var moves board.MoveList

	for len(pv) < maxPly {
		if seen[b.Zobrist] >= 3 {
			break
		}
		seen[b.Zobrist]++

		m, ok := tt.BestMove(b.Zobrist)
		if !ok || m == board.NullMove {
			break
		}

		moves.Reset()
		b.GenerateAll(&moves)
		if !containsMove(moves.Slice(), m) {
			break
		}

		if !b.Make(m) {
			break
		}
		pv = append(pv, m)
	}

	for i := len(pv) - 1; i >= 0; i-- {
		b.Unmake(pv[i])
	}
	return pv
}

func containsMove(moves []board.Move, m board.Move) bool {
	for _, candidate := range moves {
		if candidate == m {
			return true
		}
	}
	return false
}
