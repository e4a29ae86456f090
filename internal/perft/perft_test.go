package perft

import (
	"testing"

	"github.com/gochess/gochess/board"
)

func TestStartposPerft(t *testing.T) {
	want := []uint64{1, 20, 400, 8902, 197281, 4865609}

	for depth, n := range want {
		b, err := board.FromFEN(board.StartFEN)
		if err != nil {
			t.Fatalf("FromFEN: %v", err)
		}
		if got := Count(b, depth); got != n {
			t.Errorf("depth %d: got %d nodes, want %d", depth, got, n)
		}
	}
}

func TestKiwipetePerft(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	b, err := board.FromFEN(fen)
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	const depth = 3
	const want = 97862
	if got := Count(b, depth); got != want {
		t.Errorf("depth %d: got %d nodes, want %d", depth, got, want)
	}
}
