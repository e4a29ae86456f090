package uci

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestUCIHandshake(t *testing.T) {
	var out bytes.Buffer
	u := New(&out)
	ctx := context.Background()

	if err := u.Execute(ctx, "uci"); err != nil {
		t.Fatalf("uci: %v", err)
	}
	if !strings.Contains(out.String(), "uciok") {
		t.Fatalf("expected uciok, got %q", out.String())
	}

	out.Reset()
	if err := u.Execute(ctx, "isready"); err != nil {
		t.Fatalf("isready: %v", err)
	}
	if strings.TrimSpace(out.String()) != "readyok" {
		t.Fatalf("expected readyok, got %q", out.String())
	}
}

func TestPositionStartposThenMoves(t *testing.T) {
	u := New(&bytes.Buffer{})
	ctx := context.Background()

	if err := u.Execute(ctx, "position startpos moves e2e4 e7e5"); err != nil {
		t.Fatalf("position: %v", err)
	}
	if u.position.SideToMove.String() != "w" {
		t.Fatalf("expected white to move after e2e4 e7e5, got %v", u.position.SideToMove)
	}
}

func TestPositionInvalidMoveRevertsToStartpos(t *testing.T) {
	u := New(&bytes.Buffer{})
	ctx := context.Background()

	// Seed a non-default position so a revert is observable.
	if err := u.Execute(ctx, "position startpos moves e2e4"); err != nil {
		t.Fatalf("position: %v", err)
	}

	err := u.Execute(ctx, "position startpos moves e2e5")
	if err == nil {
		t.Fatalf("expected an error for an illegal move token")
	}
	if u.position.FEN() != mustStartFEN(t) {
		t.Fatalf("expected revert to startpos, got %v", u.position.FEN())
	}
}

func TestGoRejectsConcurrentSearch(t *testing.T) {
	u := New(&bytes.Buffer{})
	ctx := context.Background()
	if err := u.Execute(ctx, "position startpos"); err != nil {
		t.Fatalf("position: %v", err)
	}
	if err := u.Execute(ctx, "go depth 10"); err != nil {
		t.Fatalf("go: %v", err)
	}
	if err := u.Execute(ctx, "go depth 1"); err == nil {
		t.Fatalf("expected an error for a concurrent go")
	}
	u.coord.StopAndWait()
}

func mustStartFEN(t *testing.T) string {
	t.Helper()
	u := New(&bytes.Buffer{})
	return u.position.FEN()
}
