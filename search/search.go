// Package search implements iterative-deepening principal-variation
// search over a Board, sharing one transposition table across Lazy SMP
// workers (package smp). Grounded on the teacher's engine.go negamax
// framework (searchTree/searchQuiescence/tryMove), generalized to this
// module's board/ttable/eval types and the spec's exact amendment order
// (stop check, leaf, draw, check extension, TT probe, NMP, PVS move loop,
// cutoff handling, terminal, TT store).
package search

import (
	"sync/atomic"

	"github.com/gochess/gochess/board"
	"github.com/gochess/gochess/eval"
	"github.com/gochess/gochess/ttable"
)

const pawnValue = 100

// Stats accumulates statistics for one completed iterative-deepening
// depth, reported to the coordinator (spec §4.5's iterative deepening
// step, §4.6's reporting).
type Stats struct {
	Depth     int
	Score     int32
	Nodes     uint64
	Leaves    uint64
	FailHigh  uint64
	FailHighF uint64 // fail-high on the first move searched
	BestMove  board.Move
	PV        []board.Move
}

// Worker runs iterative-deepening PVS against a shared transposition
// table. Each Lazy SMP worker owns one Worker and its own Board clone;
// nothing here is shared except the Table and the TimeControl's stop flag.
type Worker struct {
	Board *board.Board
	TT    *ttable.Table
	TC    *TimeControl

	NullMoveEnabled bool

	rootPly int
	killers killers
	history history

	nodes, leaves, failHigh, failHighF uint64
	checkpoint                         uint64

	// nodesAtomic mirrors nodes so a coordinator on another goroutine can
	// read a live total for reporting (e.g. UCI "info nodes") without
	// synchronizing with the search loop itself.
	nodesAtomic atomic.Uint64
}

// NodeCount returns a live, concurrency-safe snapshot of nodes searched so
// far, for a coordinator to sum across workers while a search runs.
func (w *Worker) NodeCount() uint64 {
	return w.nodesAtomic.Load()
}

const checkpointStep = 1024

// NewWorker constructs a Worker over b sharing tt and tc.
func NewWorker(b *board.Board, tt *ttable.Table, tc *TimeControl) *Worker {
	return &Worker{Board: b, TT: tt, TC: tc, NullMoveEnabled: true}
}

func (w *Worker) ply() int {
	return w.Board.Ply - w.rootPly
}

// stopped polls the shared stop flag, sampling only every checkpointStep
// nodes to keep the check itself cheap and contention-free under Lazy SMP
// (spec §4.6's "cheap cached-result path sampled every 1024 nodes").
func (w *Worker) stopped() bool {
	if w.nodes < w.checkpoint {
		return false
	}
	w.checkpoint = w.nodes + checkpointStep
	w.nodesAtomic.Store(w.nodes)
	return w.TC.Stopped() || w.TC.NodeLimitReached(w.nodes)
}

// IterativeDeepen runs depth = start, start+1, … until the time manager
// disallows another depth, reporting Stats after each completed depth via
// report. Returns the last completed depth's Stats.
func (w *Worker) IterativeDeepen(start int, report func(Stats)) Stats {
	var last Stats
	prevScore := int32(0)

	for depth := start; w.TC.EnoughTimeForNextDepth(depth); depth++ {
		score, ok := w.aspirationSearch(depth, prevScore)
		if !ok {
			break
		}
		prevScore = score

		w.nodesAtomic.Store(w.nodes)

		pv := ExtractPV(w.Board, w.TT)
		best := board.NullMove
		if len(pv) > 0 {
			best = pv[0]
		}
		last = Stats{
			Depth:     depth,
			Score:     score,
			Nodes:     w.nodes,
			Leaves:    w.leaves,
			FailHigh:  w.failHigh,
			FailHighF: w.failHighF,
			BestMove:  best,
			PV:        pv,
		}
		report(last)

		if score > eval.KnownWin || score < eval.KnownLoss {
			break // a forced mate was found; deeper search cannot improve on it
		}
	}
	return last
}

// aspirationSearch runs depth with a window around prevScore, widening on
// fail-low/fail-high per spec §4.5. ok is false if the search was stopped
// before completing depth (its result must be discarded).
func (w *Worker) aspirationSearch(depth int, prevScore int32) (score int32, ok bool) {
	window := int32(pawnValue / 2)
	alpha := prevScore - window
	beta := prevScore + window
	if depth <= 1 {
		alpha, beta = -eval.Infinity, eval.Infinity
	}

	w.rootPly = w.Board.Ply
	attempt := 0
	for {
		score = w.negamaxNode(alpha, beta, depth)
		if w.TC.Stopped() {
			return 0, false
		}
		if score <= alpha {
			attempt++
			widen := int32(20)
			for i := 0; i < attempt; i++ {
				widen *= 10
			}
			alpha -= widen + window
			if alpha < -eval.Infinity {
				alpha = -eval.Infinity
			}
			continue
		}
		if score >= beta {
			attempt++
			widen := int32(20)
			for i := 0; i < attempt; i++ {
				widen *= 10
			}
			beta += widen + window
			if beta > eval.Infinity {
				beta = eval.Infinity
			}
			continue
		}
		return score, true
	}
}

// mateIn returns the score for being mated at the given ply from root.
func mateIn(ply int) int32 { return eval.Mate - int32(ply) }

// negamaxNode is the core alpha-beta/PVS routine (spec §4.5 points 1-10).
// Fails soft: the returned score may lie outside [alpha, beta]. ply is
// derived from w.ply() rather than threaded as a parameter, since it is
// always w.Board.Ply - w.rootPly.
func (w *Worker) negamaxNode(alpha, beta int32, depth int) int32 {
	ply := w.ply()
	pvNode := alpha+1 < beta
	b := w.Board

	// 1. Stop check.
	w.nodes++
	if w.stopped() {
		return alpha
	}

	// 2. Leaf.
	if depth <= 0 {
		return w.quiescence(alpha, beta)
	}

	// 3. Draw detection.
	if ply >= 1 {
		if b.FiftyMoveRule() || b.ThreeFoldRepetition() > 0 {
			return 0
		}
	}

	// 4. Check extension.
	inCheck := b.IsChecked(b.SideToMove)
	if inCheck {
		depth++
	}

	// Mate-distance pruning: an ancestor with a shorter mate makes this
	// subtree irrelevant once its best possible score can't beat it.
	if mateIn(ply) <= alpha {
		return eval.KnownWin
	}

	// 5. TT probe.
	ttMove := board.NullMove
	if res := w.TT.Probe(b.Zobrist, ply, depth, alpha, beta); res.Outcome == ttable.CutOff {
		return res.Score
	} else if res.Outcome == ttable.Pv {
		ttMove = res.Move
	}

	// 6. Null-move pruning.
	if w.NullMoveEnabled && !pvNode && !inCheck && ply != 0 && depth >= 4 &&
		b.MinorOrMajorPieces(b.SideToMove) &&
		alpha > eval.KnownLoss && beta < eval.KnownWin {
		b.MakeNull()
		score := -w.negamaxNode(-beta, -beta+1, depth-4)
		b.UnmakeNull()
		if score >= beta && score < eval.KnownWin {
			return beta
		}
	}

	var moves board.MoveList
	b.GenerateAll(&moves)
	scores := make([]int32, moves.N)
	for i, m := range moves.Slice() {
		scores[i] = orderingScore(b, m, ttMove, &w.killers, &w.history, ply)
	}

	bestMove := board.NullMove
	bestScore := int32(-eval.Infinity)
	legalMoves := 0
	alphaRaised := false

	for i := 0; i < moves.N; i++ {
		m := pickBest(moves.Slice(), scores, i)

		if !b.Make(m) {
			continue
		}
		legalMoves++

		var score int32
		if legalMoves == 1 {
			score = -w.negamaxNode(-beta, -alpha, depth-1)
		} else {
			score = -w.negamaxNode(-alpha-1, -alpha, depth-1)
			if score > alpha && score < beta {
				score = -w.negamaxNode(-beta, -alpha, depth-1)
			}
		}
		b.Unmake(m)

		if score > bestScore {
			bestScore = score
			bestMove = m
		}

		// 8. Cutoff handling.
		if score >= beta {
			w.failHigh++
			if legalMoves == 1 {
				w.failHighF++
			}
			if m.IsQuiet() {
				w.killers.add(ply, m)
			}
			w.TT.Store(b.Zobrist, ply, depth, beta, m, ttable.KindBeta)
			return beta
		}
		if score > alpha {
			alpha = score
			alphaRaised = true
			if m.IsQuiet() {
				w.history.add(b.PieceAt(m.From()), m.To(), depth)
			}
		}
	}

	// 9. Terminal.
	if legalMoves == 0 {
		w.leaves++
		if inCheck {
			return -mateIn(ply)
		}
		return 0
	}

	// 10. TT store.
	kind := ttable.KindAlpha
	if alphaRaised {
		kind = ttable.KindExact
	}
	w.TT.Store(b.Zobrist, ply, depth, bestScore, bestMove, kind)

	return bestScore
}

const futilityMargin = 150

// quiescence searches captures (and, if in check, all moves) to a
// capture-free horizon, per spec §4.5's quiescence contract. No TT use.
func (w *Worker) quiescence(alpha, beta int32) int32 {
	w.nodes++
	w.leaves++
	if w.stopped() {
		return alpha
	}

	b := w.Board
	ply := w.ply()
	if ply >= 1 && (b.FiftyMoveRule() || b.ThreeFoldRepetition() > 0) {
		return 0
	}

	inCheck := b.IsChecked(b.SideToMove)
	static := eval.Relative(b)
	if !inCheck {
		if static >= beta {
			return static
		}
		if static > alpha {
			alpha = static
		}
	}

	var moves board.MoveList
	if inCheck {
		b.GenerateAll(&moves)
	} else {
		b.GenerateCaptures(&moves)
	}
	scores := make([]int32, moves.N)
	for i, m := range moves.Slice() {
		scores[i] = orderingScore(b, m, board.NullMove, &w.killers, &w.history, ply)
	}

	legalMoves := 0
	for i := 0; i < moves.N; i++ {
		m := pickBest(moves.Slice(), scores, i)

		if !inCheck && m.IsCapture() {
			victimType := b.PieceAt(m.To()).Type()
			if m.Flag() != board.FlagEnPassant && static+board.MaterialValue[victimType]+futilityMargin <= alpha {
				continue
			}
		}

		if !b.Make(m) {
			continue
		}
		legalMoves++
		score := -w.quiescence(-beta, -alpha)
		b.Unmake(m)

		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}

	if inCheck && legalMoves == 0 {
		return -mateIn(ply)
	}
	return alpha
}
