package search

import (
	"context"
	"testing"

	"github.com/gochess/gochess/board"
	"github.com/gochess/gochess/ttable"
)

func newTestWorker(t *testing.T, fen string) *Worker {
	t.Helper()
	b, err := board.FromFEN(fen)
	if err != nil {
		t.Fatalf("FromFEN(%q): %v", fen, err)
	}
	tt := ttable.New(context.Background(), 1<<20)
	tc := NewTimeControl(Params{Depth: 64})
	return NewWorker(b, tt, tc)
}

func TestMateIn1(t *testing.T) {
	w := newTestWorker(t, "6k1/5ppp/8/8/8/8/5PPP/R3R1K1 w - - 0 1")
	stats := w.IterativeDeepen(1, func(Stats) {})

	want := board.NewMove(board.SquareE1, board.SquareE8, board.FlagQuiet)
	if stats.BestMove != want {
		t.Fatalf("expected %v, got %v (score %d)", want, stats.BestMove, stats.Score)
	}
	if stats.Score < 29000 {
		t.Fatalf("expected a mate score, got %d", stats.Score)
	}
}

func TestSearchIsDeterministicSingleThreaded(t *testing.T) {
	fen := board.StartFEN
	run := func() board.Move {
		w := newTestWorker(t, fen)
		w.NullMoveEnabled = false
		w.TC = NewTimeControl(Params{Depth: 5})
		stats := w.IterativeDeepen(1, func(Stats) {})
		return stats.BestMove
	}

	first := run()
	second := run()
	if first != second {
		t.Fatalf("search is not deterministic: %v vs %v", first, second)
	}
}

func TestNullMoveSafeZugzwangDoesNotMisevaluate(t *testing.T) {
	// A pure king-and-pawn position where the side to move is in zugzwang:
	// any king move loses the opposition. Null-move pruning's mate guard
	// must prevent this from being scored as a win for the side to move.
	w := newTestWorker(t, "8/8/8/4k3/4P3/4K3/8/8 b - - 0 1")
	w.TC = NewTimeControl(Params{Depth: 8})
	stats := w.IterativeDeepen(1, func(Stats) {})

	if stats.Score > 900 {
		t.Fatalf("expected a roughly balanced or losing evaluation for the side in zugzwang, got %d", stats.Score)
	}
}
