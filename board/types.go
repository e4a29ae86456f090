// Package board implements the bitboard position representation: square,
// piece and color primitives, the packed move encoding, Zobrist hashing,
// magic-bitboard attack lookup, legal move generation and make/unmake.
//
// All higher layers (transposition table, search) trust that a Board
// returned by Make is legal and that Unmake restores the prior state
// bit-for-bit; correctness here is a hard requirement of the engine.
package board

import "fmt"

// Square identifies a location on the board in [0,64). Files A-H map to
// 0-7, ranks 1-8 map to 0-7: sq = file + 8*rank.
type Square uint8

const (
	SquareA1 Square = iota
	SquareB1
	SquareC1
	SquareD1
	SquareE1
	SquareF1
	SquareG1
	SquareH1
	SquareA2
	SquareB2
	SquareC2
	SquareD2
	SquareE2
	SquareF2
	SquareG2
	SquareH2
	SquareA3
	SquareB3
	SquareC3
	SquareD3
	SquareE3
	SquareF3
	SquareG3
	SquareH3
	SquareA4
	SquareB4
	SquareC4
	SquareD4
	SquareE4
	SquareF4
	SquareG4
	SquareH4
	SquareA5
	SquareB5
	SquareC5
	SquareD5
	SquareE5
	SquareF5
	SquareG5
	SquareH5
	SquareA6
	SquareB6
	SquareC6
	SquareD6
	SquareE6
	SquareF6
	SquareG6
	SquareH6
	SquareA7
	SquareB7
	SquareC7
	SquareD7
	SquareE7
	SquareF7
	SquareG7
	SquareH7
	SquareA8
	SquareB8
	SquareC8
	SquareD8
	SquareE8
	SquareF8
	SquareG8
	SquareH8

	SquareArraySize = 64

	// SquareNone marks "no square" (e.g. no en-passant target). It is
	// outside the valid [0,64) range so it can never alias a real square.
	SquareNone Square = 64
)

// RankFile returns the square on rank r (0-7), file f (0-7).
func RankFile(r, f int) Square {
	return Square(r*8 + f)
}

// Rank returns 0-7.
func (sq Square) Rank() int { return int(sq / 8) }

// File returns 0-7.
func (sq Square) File() int { return int(sq % 8) }

// Bitboard returns a board with just sq set.
func (sq Square) Bitboard() Bitboard { return Bitboard(1) << uint(sq) }

func (sq Square) String() string {
	return string([]byte{byte(sq.File() + 'a'), byte(sq.Rank() + '1')})
}

var errInvalidSquare = fmt.Errorf("invalid square")

// SquareFromString parses a square in [a-h][1-8] form.
func SquareFromString(s string) (Square, error) {
	if len(s) != 2 {
		return SquareA1, errInvalidSquare
	}
	f, r := -1, -1
	if 'a' <= s[0] && s[0] <= 'h' {
		f = int(s[0] - 'a')
	}
	if '1' <= s[1] && s[1] <= '8' {
		r = int(s[1] - '1')
	}
	if f < 0 || r < 0 {
		return SquareA1, errInvalidSquare
	}
	return RankFile(r, f), nil
}

// Color is White or Black.
type Color uint8

const (
	White Color = iota
	Black

	ColorArraySize = 2
)

// Flip returns the opposite color.
func (c Color) Flip() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// PieceType is a figure without color.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King

	PieceTypeArraySize = 7
)

var pieceTypeSymbol = [...]byte{0, 'P', 'N', 'B', 'R', 'Q', 'K'}

func (pt PieceType) String() string {
	if pt == NoPieceType {
		return ""
	}
	return string(pieceTypeSymbol[pt])
}

// MaterialValue is the centipawn value of each piece type, indexed by
// PieceType. Values match spec §3 exactly: 100/325/325/550/1000/15000.
var MaterialValue = [PieceTypeArraySize]int32{0, 100, 325, 325, 550, 1000, 15000}

// Piece is a PieceType owned by a Color, packed as 2*(pieceType-1) + 1 +
// color so that NoPiece == 0 and all 12 pieces fit [1,13) densely for
// array indices.
type Piece uint8

const NoPiece Piece = 0

const (
	piecePawnW Piece = 1 + iota
	piecePawnB
	pieceKnightW
	pieceKnightB
	pieceBishopW
	pieceBishopB
	pieceRookW
	pieceRookB
	pieceQueenW
	pieceQueenB
	pieceKingW
	pieceKingB

	PieceArraySize = 13
)

// MakePiece builds the Piece value for a (color, pieceType) pair.
func MakePiece(c Color, pt PieceType) Piece {
	if pt == NoPieceType {
		return NoPiece
	}
	return Piece(2*(int(pt)-1) + 1 + int(c))
}

// Color returns the piece's color. Undefined for NoPiece.
func (p Piece) Color() Color {
	return Color((p - 1) & 1)
}

// Type returns the piece's figure. Returns NoPieceType for NoPiece.
func (p Piece) Type() PieceType {
	if p == NoPiece {
		return NoPieceType
	}
	return PieceType((p-1)/2 + 1)
}

var pieceSymbol = [PieceArraySize]byte{0, 'P', 'p', 'N', 'n', 'B', 'b', 'R', 'r', 'Q', 'q', 'K', 'k'}

func (p Piece) String() string {
	if p == NoPiece {
		return "."
	}
	return string(pieceSymbol[p])
}

// Castle is a nibble of castling rights: WK, WQ, BK, BQ.
type Castle uint8

const (
	WhiteOO Castle = 1 << iota
	WhiteOOO
	BlackOO
	BlackOOO

	NoCastle  Castle = 0
	AnyCastle Castle = WhiteOO | WhiteOOO | BlackOO | BlackOOO
)

// castleMask[sq] holds the bits that are cleared when either endpoint of a
// move touches sq: the king or rook leaving/being captured on its home
// square invalidates the corresponding right. Built once in init.
var castleMask [SquareArraySize]Castle

func init() {
	for i := range castleMask {
		castleMask[i] = AnyCastle
	}
	castleMask[SquareE1] &^= WhiteOO | WhiteOOO
	castleMask[SquareH1] &^= WhiteOO
	castleMask[SquareA1] &^= WhiteOOO
	castleMask[SquareE8] &^= BlackOO | BlackOOO
	castleMask[SquareH8] &^= BlackOO
	castleMask[SquareA8] &^= BlackOOO
}

// ApplyCastleLoss ANDs the castling mask for both move endpoints, clearing
// any right invalidated by a piece touching from or to.
func ApplyCastleLoss(rights Castle, from, to Square) Castle {
	return rights & castleMask[from] & castleMask[to]
}

func (c Castle) String() string {
	if c == 0 {
		return "-"
	}
	var b []byte
	if c&WhiteOO != 0 {
		b = append(b, 'K')
	}
	if c&WhiteOOO != 0 {
		b = append(b, 'Q')
	}
	if c&BlackOO != 0 {
		b = append(b, 'k')
	}
	if c&BlackOOO != 0 {
		b = append(b, 'q')
	}
	return string(b)
}
