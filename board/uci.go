package board

import "fmt"

// MoveFromUCI resolves a UCI move string (e.g. "e2e4", "e7e8q") against the
// position's pseudo-legal moves, returning the one whose from/to/promotion
// match. Grounded on the teacher's Position.UCIToMove: the wire format
// carries no flag nibble, so the move must be looked up rather than decoded
// directly.
func (b *Board) MoveFromUCI(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NullMove, fmt.Errorf("invalid UCI move %q", s)
	}
	from, err := SquareFromString(s[0:2])
	if err != nil {
		return NullMove, fmt.Errorf("invalid UCI move %q: %w", s, err)
	}
	to, err := SquareFromString(s[2:4])
	if err != nil {
		return NullMove, fmt.Errorf("invalid UCI move %q: %w", s, err)
	}
	var promo PieceType
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NullMove, fmt.Errorf("invalid UCI move %q: bad promotion piece", s)
		}
	}

	var moves MoveList
	b.GenerateAll(&moves)
	for _, m := range moves.Slice() {
		if m.From() == from && m.To() == to && m.PromotionType() == promo {
			return m, nil
		}
	}
	return NullMove, fmt.Errorf("no legal move %q in current position", s)
}
