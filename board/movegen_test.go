package board

import "testing"

func TestStartposMoveCounts(t *testing.T) {
	b, err := FromFEN(StartFEN)
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	var moves MoveList
	b.GenerateAll(&moves)
	if moves.N != 20 {
		t.Errorf("expected 20 legal moves from the start position, got %d", moves.N)
	}
}

func TestEnPassantGeneration(t *testing.T) {
	b, err := FromFEN("rnbqkbnr/1ppppp1p/8/p4Pp1/8/8/PPPPP1PP/RNBQKBNR w KQkq g6 0 3")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	var moves MoveList
	b.GenerateAll(&moves)

	want := NewMove(SquareF5, SquareG6, FlagEnPassant)
	found := false
	for _, m := range moves.Slice() {
		if m == want {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected f5g6 flagged as en-passant capture in move list")
	}
}

func TestCastlingBlockedByAttackedSquare(t *testing.T) {
	// White king e1, rook h1; black rook on f2 covers f1, which kingside
	// castling must pass through.
	b, err := FromFEN("4k3/8/8/8/8/8/5r2/4K2R w K - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	var moves MoveList
	b.GenerateAll(&moves)

	castle := NewMove(SquareE1, SquareG1, FlagCastleKingside)
	for _, m := range moves.Slice() {
		if m == castle {
			t.Fatalf("expected kingside castle to be excluded while f1 is attacked")
		}
	}
}

func TestPawnCaptureDirectionsAreNotAmbiguous(t *testing.T) {
	// White pawn on d4 can capture on c5 or e5; each capture's source
	// must resolve back to d4, not to a square on the wrong diagonal.
	b, err := FromFEN("8/8/8/2p1p3/3P4/8/8/4K2k w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	var moves MoveList
	b.GenerateAll(&moves)

	wantLeft := NewMove(SquareD4, SquareC5, FlagCapture)
	wantRight := NewMove(SquareD4, SquareE5, FlagCapture)
	var haveLeft, haveRight bool
	for _, m := range moves.Slice() {
		if m == wantLeft {
			haveLeft = true
		}
		if m == wantRight {
			haveRight = true
		}
	}
	if !haveLeft || !haveRight {
		t.Fatalf("expected both d4xc5 and d4xe5 captures, got left=%v right=%v", haveLeft, haveRight)
	}
}
