package ttable

import (
	"context"
	"testing"

	"github.com/gochess/gochess/board"
	"github.com/gochess/gochess/eval"
)

func TestStoreProbeRoundTrip(t *testing.T) {
	tt := New(context.Background(), 1<<20)
	key := uint64(0x0123456789abcdef)
	move := board.NewMove(board.SquareE2, board.SquareE4, board.FlagDoublePush)

	tt.Store(key, 0, 6, 123, move, KindExact)

	res := tt.Probe(key, 0, 6, -1000, 1000)
	if res.Outcome != CutOff {
		t.Fatalf("expected CutOff, got %v", res.Outcome)
	}
	if res.Score != 123 {
		t.Fatalf("expected score 123, got %d", res.Score)
	}
	if res.Move != move {
		t.Fatalf("expected move %v, got %v", move, res.Move)
	}
}

func TestProbeMissOnEmptySlot(t *testing.T) {
	tt := New(context.Background(), 1<<16)
	res := tt.Probe(0xdeadbeef, 0, 4, -1000, 1000)
	if res.Outcome != NoHit {
		t.Fatalf("expected NoHit on an empty table, got %v", res.Outcome)
	}
}

func TestProbeShallowerThanRequestedDepthIsPv(t *testing.T) {
	tt := New(context.Background(), 1<<20)
	key := uint64(42)
	move := board.NewMove(board.SquareG1, board.SquareF3, board.FlagQuiet)
	tt.Store(key, 0, 2, 50, move, KindExact)

	res := tt.Probe(key, 0, 8, -1000, 1000)
	if res.Outcome != Pv {
		t.Fatalf("expected Pv for a shallower stored entry, got %v", res.Outcome)
	}
	if res.Move != move {
		t.Fatalf("expected the stored move to still be returned for ordering, got %v", res.Move)
	}
}

func TestStoreDoesNotOverwriteDeeperSameAgeEntry(t *testing.T) {
	tt := New(context.Background(), 1<<20)
	key := uint64(7)
	deep := board.NewMove(board.SquareD2, board.SquareD4, board.FlagDoublePush)
	shallow := board.NewMove(board.SquareA2, board.SquareA3, board.FlagQuiet)

	tt.Store(key, 0, 10, 1, deep, KindExact)
	tt.Store(key, 0, 3, 2, shallow, KindExact)

	res := tt.Probe(key, 0, 10, -1000, 1000)
	if res.Move != deep {
		t.Fatalf("expected the deeper entry to survive, got move %v", res.Move)
	}
}

func TestAdvanceAllowsShallowerEntryToReplace(t *testing.T) {
	tt := New(context.Background(), 1<<20)
	key := uint64(7)
	deep := board.NewMove(board.SquareD2, board.SquareD4, board.FlagDoublePush)
	shallow := board.NewMove(board.SquareA2, board.SquareA3, board.FlagQuiet)

	tt.Store(key, 0, 10, 1, deep, KindExact)
	tt.Advance()
	tt.Store(key, 0, 3, 2, shallow, KindExact)

	res := tt.Probe(key, 0, 3, -1000, 1000)
	if res.Move != shallow {
		t.Fatalf("expected the new-age entry to replace the stale deep one, got move %v", res.Move)
	}
}

func TestMateScoreRenormalizedAcrossPly(t *testing.T) {
	tt := New(context.Background(), 1<<20)
	key := uint64(99)
	move := board.NewMove(board.SquareE1, board.SquareE8, board.FlagQuiet)

	// A mate found 3 plies into the search from a node at ply=3.
	localScore := int32(eval.Mate - 1)
	tt.Store(key, 3, 1, localScore, move, KindExact)

	// Probed again from the root (ply=0): the renormalized score must be
	// higher, since the same node now sits 3 plies nearer the root and its
	// mate is 3 plies sooner.
	res := tt.Probe(key, 0, 1, -eval.Infinity, eval.Infinity)
	if res.Outcome != CutOff {
		t.Fatalf("expected CutOff, got %v", res.Outcome)
	}
	if res.Score <= localScore {
		t.Fatalf("expected root-relative score > local score, got %d vs local %d", res.Score, localScore)
	}
}

func TestTornReadIsRejectedAsNoHit(t *testing.T) {
	tt := New(context.Background(), 1<<16)
	key := uint64(123)
	idx := tt.index(key)

	// Simulate a torn write: data word updated, verifier word stale. A real
	// concurrent writer could leave exactly this half-written state visible
	// to a reader between the two atomic stores.
	tt.slots[idx].data.Store(packData(10, board.NullMove, 1, KindExact, 0))
	tt.slots[idx].verifier.Store(0)

	res := tt.Probe(key, 0, 1, -1000, 1000)
	if res.Outcome != NoHit {
		t.Fatalf("expected a torn read to be treated as NoHit, got %v", res.Outcome)
	}
}
