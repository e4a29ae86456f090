package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the initial position in Forsyth-Edwards Notation.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// undoEntry is the per-ply HistoryEntry record spec §3 requires: enough to
// reverse exactly one Make call.
type undoEntry struct {
	move          Move
	captured      PieceType // NoPieceType if the move was not a capture
	halfMoveClock int
	enPassant     Square
	castling      Castle
	zobrist       uint64
}

// Board is the complete mutable game state. Every mutation keeps its
// cached derived fields (bitboards, material, counts, king squares,
// Zobrist key) in lockstep; CheckIntegrity recomputes them from scratch as
// a debug-only oracle (spec §9 "incremental state vs recomputation").
type Board struct {
	ByPiece [PieceArraySize]Bitboard
	ByColor [ColorArraySize]Bitboard
	All     Bitboard
	pieceAt [SquareArraySize]Piece

	SideToMove     Color
	EnPassant      Square
	Castling       Castle
	HalfMoveClock  int
	FullMoveNumber int
	Ply            int

	KingSquare [ColorArraySize]Square
	Material   [ColorArraySize]int32
	PieceCount [ColorArraySize][PieceTypeArraySize]int8

	Zobrist uint64

	history []undoEntry
}

// NewBoard returns an empty board (no pieces placed). Use FromFEN to build
// a playable position.
func NewBoard() *Board {
	b := &Board{EnPassant: SquareNone, FullMoveNumber: 1}
	for sq := range b.pieceAt {
		b.pieceAt[sq] = NoPiece
	}
	return b
}

// Clone returns an independent copy of b, including its undo history, so
// a Lazy SMP worker can search from it without contending with the
// coordinator's board (spec §5: "Board (cloned from coordinator)... No
// sharing; no contention").
func (b *Board) Clone() *Board {
	clone := *b
	clone.history = append([]undoEntry(nil), b.history...)
	return &clone
}

// PieceAt returns the piece occupying sq, or NoPiece.
func (b *Board) PieceAt(sq Square) Piece { return b.pieceAt[sq] }

// ByPieceType returns the union of both colors' bitboards for pt.
func (b *Board) ByPieceType(pt PieceType) Bitboard {
	return b.ByPiece[MakePiece(White, pt)] | b.ByPiece[MakePiece(Black, pt)]
}

// ByColorAndType returns the bitboard for (c, pt).
func (b *Board) ByColorAndType(c Color, pt PieceType) Bitboard {
	return b.ByPiece[MakePiece(c, pt)]
}

// place adds piece p at sq, updating every cache. sq must currently be
// empty.
func (b *Board) place(p Piece, sq Square) {
	b.pieceAt[sq] = p
	bb := sq.Bitboard()
	b.ByPiece[p] |= bb
	b.ByColor[p.Color()] |= bb
	b.All |= bb
	b.Material[p.Color()] += MaterialValue[p.Type()]
	b.PieceCount[p.Color()][p.Type()]++
	if p.Type() == King {
		b.KingSquare[p.Color()] = sq
	}
	b.Zobrist ^= zobristPiece[p][sq]
}

// remove clears sq, which must hold piece p.
func (b *Board) remove(p Piece, sq Square) {
	b.pieceAt[sq] = NoPiece
	bb := sq.Bitboard()
	b.ByPiece[p] &^= bb
	b.ByColor[p.Color()] &^= bb
	b.All &^= bb
	b.Material[p.Color()] -= MaterialValue[p.Type()]
	b.PieceCount[p.Color()][p.Type()]--
	b.Zobrist ^= zobristPiece[p][sq]
}

// FromFEN parses fen, tolerating 4-6 fields (halfmove/fullmove counters
// are optional and ignored when absent, per spec §6).
func FromFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, &FENError{Reason: "expected 4 to 6 fields", FEN: fen}
	}

	b := NewBoard()
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, &FENError{Reason: "expected 8 ranks", FEN: fen}
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			if file >= 8 {
				return nil, &FENError{Reason: "too many files in rank", FEN: fen}
			}
			p, err := pieceFromFENChar(byte(ch))
			if err != nil {
				return nil, err
			}
			b.place(p, RankFile(rank, file))
			file++
		}
		if file != 8 {
			return nil, &FENError{Reason: "wrong file count in rank", FEN: fen}
		}
	}

	switch fields[1] {
	case "w":
		b.SideToMove = White
	case "b":
		b.SideToMove = Black
		b.Zobrist ^= zobristColor
	default:
		return nil, &FENError{Reason: "invalid side to move", FEN: fen}
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				b.Castling |= WhiteOO
			case 'Q':
				b.Castling |= WhiteOOO
			case 'k':
				b.Castling |= BlackOO
			case 'q':
				b.Castling |= BlackOOO
			default:
				return nil, &FENError{Reason: "invalid castling token", FEN: fen}
			}
		}
	}
	b.Zobrist ^= zobristCastle[b.Castling]

	if fields[3] != "-" {
		sq, err := SquareFromString(fields[3])
		if err != nil {
			return nil, &FENError{Reason: "invalid en-passant square", FEN: fen}
		}
		b.EnPassant = sq
		b.Zobrist ^= zobristEnPassant[sq]
	}

	if len(fields) >= 5 {
		if n, err := strconv.Atoi(fields[4]); err == nil {
			b.HalfMoveClock = n
		}
	}
	if len(fields) >= 6 {
		if n, err := strconv.Atoi(fields[5]); err == nil {
			b.FullMoveNumber = n
		}
	}

	return b, nil
}

func pieceFromFENChar(ch byte) (Piece, error) {
	var c Color
	if ch >= 'a' && ch <= 'z' {
		c = Black
	} else {
		c = White
	}
	var pt PieceType
	switch ch | 0x20 { // lowercase
	case 'p':
		pt = Pawn
	case 'n':
		pt = Knight
	case 'b':
		pt = Bishop
	case 'r':
		pt = Rook
	case 'q':
		pt = Queen
	case 'k':
		pt = King
	default:
		return NoPiece, &FENError{Reason: fmt.Sprintf("invalid piece symbol %q", string(ch))}
	}
	return MakePiece(c, pt), nil
}

// FEN formats the position back into Forsyth-Edwards Notation.
func (b *Board) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.pieceAt[RankFile(rank, file)]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(p.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(b.SideToMove.String())
	sb.WriteByte(' ')
	sb.WriteString(b.Castling.String())
	sb.WriteByte(' ')
	if b.EnPassant == SquareNone {
		sb.WriteByte('-')
	} else {
		sb.WriteString(b.EnPassant.String())
	}
	fmt.Fprintf(&sb, " %d %d", b.HalfMoveClock, b.FullMoveNumber)
	return sb.String()
}

// FENError is returned by FromFEN for any malformed input (spec §7).
type FENError struct {
	Reason string
	FEN    string
}

func (e *FENError) Error() string {
	return fmt.Sprintf("invalid FEN %q: %s", e.FEN, e.Reason)
}

// IsChecked returns true if c's king is attacked in the current position.
func (b *Board) IsChecked(c Color) bool {
	return b.IsAttacked(b.KingSquare[c], c.Flip())
}

// IsAttacked returns true if any piece of color by attacks sq given the
// current occupancy (spec §4.2 "attack test").
func (b *Board) IsAttacked(sq Square, by Color) bool {
	occ := b.All
	if PawnAttacks(by.Flip(), sq)&b.ByColorAndType(by, Pawn) != 0 {
		return true
	}
	if KnightAttacks(sq)&b.ByColorAndType(by, Knight) != 0 {
		return true
	}
	if KingAttacks(sq)&b.ByColorAndType(by, King) != 0 {
		return true
	}
	bishops := b.ByColorAndType(by, Bishop) | b.ByColorAndType(by, Queen)
	if BishopAttacks(sq, occ)&bishops != 0 {
		return true
	}
	rooks := b.ByColorAndType(by, Rook) | b.ByColorAndType(by, Queen)
	if RookAttacks(sq, occ)&rooks != 0 {
		return true
	}
	return false
}

// ThreeFoldRepetition returns how many times the current Zobrist key has
// occurred previously in the irreversible-move window (history entries
// back to the last pawn move or capture, as given by the halfmove clock),
// not counting
// the current position itself.
func (b *Board) ThreeFoldRepetition() int {
	count := 0
	limit := len(b.history) - b.HalfMoveClock
	if limit < 0 {
		limit = 0
	}
	for i := len(b.history) - 1; i >= limit; i-- {
		if b.history[i].zobrist == b.Zobrist {
			count++
		}
	}
	return count
}

// FiftyMoveRule returns true once the halfmove clock has reached 100.
func (b *Board) FiftyMoveRule() bool { return b.HalfMoveClock >= 100 }

// MinorOrMajorPieces returns true if c has at least one knight, bishop,
// rook or queen — the standard "not a pawn endgame" gate used by
// null-move pruning (spec §9's discussion of the ambiguous NMP gate).
func (b *Board) MinorOrMajorPieces(c Color) bool {
	return b.ByColorAndType(c, Knight)|b.ByColorAndType(c, Bishop)|
		b.ByColorAndType(c, Rook)|b.ByColorAndType(c, Queen) != 0
}

// CheckIntegrity recomputes every derived field from the mailbox array and
// panics on mismatch. Debug-only oracle per spec §9; callers gate this
// behind a build tag or explicit flag in release builds.
func (b *Board) CheckIntegrity() {
	var wantByPiece [PieceArraySize]Bitboard
	var wantByColor [ColorArraySize]Bitboard
	var wantMaterial [ColorArraySize]int32
	var wantCount [ColorArraySize][PieceTypeArraySize]int8
	var wantAll Bitboard

	for sq := Square(0); sq < SquareArraySize; sq++ {
		p := b.pieceAt[sq]
		if p == NoPiece {
			continue
		}
		bb := sq.Bitboard()
		wantByPiece[p] |= bb
		wantByColor[p.Color()] |= bb
		wantAll |= bb
		wantMaterial[p.Color()] += MaterialValue[p.Type()]
		wantCount[p.Color()][p.Type()]++
	}

	if wantAll != b.All {
		panic("board: occupancy cache mismatch")
	}
	for p := Piece(1); p < PieceArraySize; p++ {
		if wantByPiece[p] != b.ByPiece[p] {
			panic(fmt.Sprintf("board: piece bitboard mismatch for %v", p))
		}
	}
	for c := White; c <= Black; c++ {
		if wantByColor[c] != b.ByColor[c] {
			panic("board: color occupancy mismatch")
		}
		if wantMaterial[c] != b.Material[c] {
			panic("board: material mismatch")
		}
		if wantCount[c] != b.PieceCount[c] {
			panic("board: piece count mismatch")
		}
		if b.pieceAt[b.KingSquare[c]].Type() != King || b.pieceAt[b.KingSquare[c]].Color() != c {
			panic("board: king square cache mismatch")
		}
	}
	if zobristFor(b) != b.Zobrist {
		panic("board: zobrist hash mismatch")
	}
}
