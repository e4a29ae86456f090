package search

import (
	"testing"

	"github.com/gochess/gochess/eval"
)

// Table of known forced mates, grounded on the positions a mate-solving
// test suite would exercise: the shallow search depth here only needs to
// reach the mate, not search past it.
func TestFindsForcedMates(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		depth    int
		wantMate bool
	}{
		{
			name:     "back rank mate in 1",
			fen:      "6k1/5ppp/8/8/8/8/5PPP/R3R1K1 w - - 0 1",
			depth:    3,
			wantMate: true,
		},
		{
			name:     "queen and king mate in 1",
			fen:      "7k/8/6K1/8/8/8/8/6Q1 w - - 0 1",
			depth:    3,
			wantMate: true,
		},
		{
			name:     "no forced mate, quiet middlegame",
			fen:      "r1bqkb1r/pppp1ppp/2n2n2/4p3/4P3/2N2N2/PPPP1PPP/R1BQKB1R w KQkq - 4 4",
			depth:    3,
			wantMate: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorker(t, tc.fen)
			w.TC = NewTimeControl(Params{Depth: tc.depth})
			stats := w.IterativeDeepen(1, func(Stats) {})

			gotMate := stats.Score > eval.KnownWin || stats.Score < eval.KnownLoss
			if gotMate != tc.wantMate {
				t.Fatalf("%s: score %d, wantMate=%v", tc.fen, stats.Score, tc.wantMate)
			}
		})
	}
}
