package smp

import (
	"context"
	"testing"
	"time"

	"github.com/gochess/gochess/board"
	"github.com/gochess/gochess/search"
)

func TestGoSingleWorkerFindsMateInOne(t *testing.T) {
	b, err := board.FromFEN("6k1/5ppp/8/8/8/8/5PPP/R3R1K1 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	c := NewCoordinator(context.Background(), 1<<20, 1)
	stats := c.Go(context.Background(), b, search.Params{Depth: 3}, nil)

	want := board.NewMove(board.SquareE1, board.SquareE8, board.FlagQuiet)
	if stats.BestMove != want {
		t.Fatalf("expected %v, got %v (score %d)", want, stats.BestMove, stats.Score)
	}
}

func TestGoMultiWorkerFindsMateInOne(t *testing.T) {
	b, err := board.FromFEN("6k1/5ppp/8/8/8/8/5PPP/R3R1K1 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	c := NewCoordinator(context.Background(), 1<<20, 4)
	stats := c.Go(context.Background(), b, search.Params{Depth: 3}, nil)

	want := board.NewMove(board.SquareE1, board.SquareE8, board.FlagQuiet)
	if stats.BestMove != want {
		t.Fatalf("expected %v, got %v (score %d)", want, stats.BestMove, stats.Score)
	}
	if stats.Nodes == 0 {
		t.Fatalf("expected a nonzero aggregate node count across workers")
	}
}

func TestStopEndsAnInfiniteSearch(t *testing.T) {
	b, err := board.FromFEN(board.StartFEN)
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	c := NewCoordinator(context.Background(), 1<<20, 2)

	done := make(chan struct{})
	go func() {
		c.Go(context.Background(), b, search.Params{Infinite: true}, nil)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	c.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Go did not return within 5s of Stop")
	}
}

func TestGoReportsEachCompletedDepth(t *testing.T) {
	b, err := board.FromFEN(board.StartFEN)
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	c := NewCoordinator(context.Background(), 1<<20, 1)
	var depths []int
	c.Go(context.Background(), b, search.Params{Depth: 3}, ReporterFunc(func(s search.Stats) {
		depths = append(depths, s.Depth)
	}))

	if len(depths) == 0 {
		t.Fatalf("expected at least one depth report")
	}
	for i, d := range depths {
		if d != i+1 {
			t.Fatalf("expected sequential depths starting at 1, got %v", depths)
		}
	}
}
