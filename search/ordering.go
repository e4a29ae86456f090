// ordering.go scores pseudo-legal moves for the selection-sort move loop
// in search.go (spec §4.5 point 7-8). The score bands themselves are
// spec §4.5's literal values; the killer/history bookkeeping is grounded
// on the teacher's killer/history tables (engine/engine.go's stack and
// historyTable), simplified to the flat history[piece][to] array the spec
// itself names rather than the teacher's hashed, evicting variant.
package search

import "github.com/gochess/gochess/board"

const (
	scoreTTMove  = 2_000_000
	scoreCapture = 1_000_000
	scoreKiller1 = 900_000
	scoreKiller2 = 800_000

	maxPly = 128
)

// killers holds the two most recent quiet moves that caused a beta cutoff
// at each ply, newest first.
type killers [maxPly][2]board.Move

func (k *killers) add(ply int, m board.Move) {
	if ply >= maxPly {
		return
	}
	if k[ply][0] == m {
		return
	}
	k[ply][1] = k[ply][0]
	k[ply][0] = m
}

func (k *killers) score(ply int, m board.Move) (int32, bool) {
	if ply >= maxPly {
		return 0, false
	}
	switch m {
	case k[ply][0]:
		return scoreKiller1, true
	case k[ply][1]:
		return scoreKiller2, true
	default:
		return 0, false
	}
}

// history tracks how often a quiet (piece, to) pairing has improved alpha,
// addressed directly by piece and destination square as spec §4.5 names it.
type history [board.PieceArraySize][board.SquareArraySize]int32

func (h *history) add(p board.Piece, to board.Square, depth int) {
	h[p][to] += int32(depth)
}

func (h *history) score(p board.Piece, to board.Square) int32 {
	return h[p][to]
}

// mvvLva scores a capture: victim value dominates, attacker value breaks
// ties inversely so a cheap piece capturing an expensive one outranks the
// reverse (spec §4.5's "pawn capturing a queen scores higher than a queen
// capturing a pawn").
func mvvLva(victim, attacker board.PieceType) int32 {
	return int32(victim)<<3 - int32(attacker)
}

// orderingScore returns m's move-ordering score at the given search node.
func orderingScore(b *board.Board, m board.Move, ttMove board.Move, k *killers, h *history, ply int) int32 {
	if m == ttMove {
		return scoreTTMove
	}
	if m.IsCapture() {
		victim := m.Flag()
		var victimType board.PieceType
		if victim == board.FlagEnPassant {
			victimType = board.Pawn
		} else {
			victimType = b.PieceAt(m.To()).Type()
		}
		attackerType := b.PieceAt(m.From()).Type()
		return scoreCapture + mvvLva(victimType, attackerType)
	}
	if s, ok := k.score(ply, m); ok {
		return s
	}
	return h.score(b.PieceAt(m.From()), m.To())
}

// pickBest does a selection-sort pass over moves[start:], swapping the
// highest-scoring remaining move into position start and returning it.
// Cheap because legal move lists average ~30 entries (spec §4.5 point 7).
func pickBest(moves []board.Move, scores []int32, start int) board.Move {
	best := start
	for i := start + 1; i < len(moves); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	moves[start], moves[best] = moves[best], moves[start]
	scores[start], scores[best] = scores[best], scores[start]
	return moves[start]
}
