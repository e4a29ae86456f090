package board

import "testing"

func TestFENRoundTrip(t *testing.T) {
	data := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/1ppppp1p/8/p4Pp1/8/8/PPPPP1PP/RNBQKBNR w KQkq g6 0 3",
	}

	for _, fen := range data {
		b, err := FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", fen, err)
		}
		if got := b.FEN(); got != fen {
			t.Errorf("FEN round trip: got %q, want %q", got, fen)
		}
	}
}

func TestFromFENRejectsMalformedInput(t *testing.T) {
	data := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w XQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9 0 1",
	}
	for _, fen := range data {
		if _, err := FromFEN(fen); err == nil {
			t.Errorf("FromFEN(%q): expected an error, got none", fen)
		}
	}
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	positions := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/1ppppp1p/8/p4Pp1/8/8/PPPPP1PP/RNBQKBNR w KQkq g6 0 3",
	}

	for _, fen := range positions {
		b, err := FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", fen, err)
		}

		wantZobrist := b.Zobrist
		wantAll := b.All

		var moves MoveList
		b.GenerateAll(&moves)
		for _, m := range moves.Slice() {
			legal := b.Make(m)
			if legal {
				b.Unmake(m)
			}

			if b.Zobrist != wantZobrist {
				t.Fatalf("%v: zobrist mismatch after make/unmake %v (legal=%v)", fen, m, legal)
			}
			if b.All != wantAll {
				t.Fatalf("%v: occupancy mismatch after make/unmake %v (legal=%v)", fen, m, legal)
			}
			b.CheckIntegrity()
		}
	}
}

func TestIsCheckedDetectsAttacks(t *testing.T) {
	b, err := FromFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	if !b.IsChecked(White) {
		t.Fatalf("expected White's king on e1 to be attacked by the queen on h4")
	}
}
