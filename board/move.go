package board

// Move is a position-independent, 16-bit packed move: bits 0-5 are the
// source square, bits 6-11 the destination square, bits 12-15 a flag
// nibble. This is the dragontoothmg/chego style of packed accessor (see
// DESIGN.md): a uint16 with To()/From() style readers and a NewMove
// constructor instead of a multi-field struct, sized so a transposition table slot's
// data word (score+move+depth+kind+age, spec §4.4) fits 64 bits.
//
// NullMove (all bits zero) is distinct from any legal move because
// from==to==A1 never occurs for a real move (a piece cannot move to its
// own square).
type Move uint16

// Flag is the 4-bit nibble in bits 12-15 of a Move.
type Flag uint8

const (
	FlagQuiet Flag = iota
	FlagDoublePush
	FlagCastleKingside
	FlagCastleQueenside
	FlagCapture
	FlagEnPassant
	_reserved6
	_reserved7
	FlagPromoKnight
	FlagPromoBishop
	FlagPromoRook
	FlagPromoQueen
	FlagPromoKnightCapture
	FlagPromoBishopCapture
	FlagPromoRookCapture
	FlagPromoQueenCapture
)

const (
	moveFromShift = 0
	moveToShift   = 6
	moveFlagShift = 12
	moveSqMask    = 0x3F
)

// NullMove is the all-zero, non-legal sentinel move.
const NullMove Move = 0

// NewMove packs from, to and flag into a Move.
func NewMove(from, to Square, flag Flag) Move {
	return Move(uint16(from)<<moveFromShift | uint16(to)<<moveToShift | uint16(flag)<<moveFlagShift)
}

func (m Move) From() Square { return Square((m >> moveFromShift) & moveSqMask) }
func (m Move) To() Square   { return Square((m >> moveToShift) & moveSqMask) }
func (m Move) Flag() Flag   { return Flag(m >> moveFlagShift) }

// IsCapture returns true for ordinary, en-passant and capture-promotion
// flags.
func (m Move) IsCapture() bool {
	f := m.Flag()
	return f == FlagCapture || f == FlagEnPassant || f >= FlagPromoKnightCapture
}

// IsPromotion returns true for any of the eight promotion flags.
func (m Move) IsPromotion() bool {
	return m.Flag() >= FlagPromoKnight
}

// IsCastle returns true for either castling flag.
func (m Move) IsCastle() bool {
	f := m.Flag()
	return f == FlagCastleKingside || f == FlagCastleQueenside
}

// IsQuiet returns true if the move is neither a capture nor a promotion;
// used to decide killer/history eligibility (spec §4.5 point 8).
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// PromotionType returns the promoted-to piece type, or NoPieceType if m is
// not a promotion.
func (m Move) PromotionType() PieceType {
	switch m.Flag() {
	case FlagPromoKnight, FlagPromoKnightCapture:
		return Knight
	case FlagPromoBishop, FlagPromoBishopCapture:
		return Bishop
	case FlagPromoRook, FlagPromoRookCapture:
		return Rook
	case FlagPromoQueen, FlagPromoQueenCapture:
		return Queen
	default:
		return NoPieceType
	}
}

// promoFlag returns the quiet promotion flag for pt, optionally the
// capture variant.
func promoFlag(pt PieceType, capture bool) Flag {
	var f Flag
	switch pt {
	case Knight:
		f = FlagPromoKnight
	case Bishop:
		f = FlagPromoBishop
	case Rook:
		f = FlagPromoRook
	case Queen:
		f = FlagPromoQueen
	}
	if capture {
		f += FlagPromoKnightCapture - FlagPromoKnight
	}
	return f
}

var promotionSymbol = map[PieceType]byte{Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q'}

func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if pt := m.PromotionType(); pt != NoPieceType {
		s += string(promotionSymbol[pt])
	}
	return s
}
