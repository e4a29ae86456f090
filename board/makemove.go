// makemove.go applies and reverses moves in place, per spec §4.3. Grounded
// on the teacher's Position.DoMove/UndoMove (engine/position.go): push a
// state record, mutate piece placement and side-effect fields, then on
// Unmake restore everything from the record rather than recomputing it.
package board

// Make applies m and reports whether the resulting position is legal (the
// side that just moved is not left in check). If illegal, Make calls
// Unmake itself before returning false, so the board is left unchanged
// and the caller must not call Unmake again.
func (b *Board) Make(m Move) bool {
	us := b.SideToMove
	them := us.Flip()
	from, to := m.From(), m.To()
	moving := b.pieceAt[from]

	captured := NoPieceType
	capSq := to
	if m.Flag() == FlagEnPassant {
		capSq = RankFile(from.Rank(), to.File())
	}
	if cp := b.pieceAt[capSq]; cp != NoPiece {
		captured = cp.Type()
	}

	b.history = append(b.history, undoEntry{
		move:          m,
		captured:      captured,
		halfMoveClock: b.HalfMoveClock,
		enPassant:     b.EnPassant,
		castling:      b.Castling,
		zobrist:       b.Zobrist,
	})

	if b.EnPassant != SquareNone {
		b.Zobrist ^= zobristEnPassant[b.EnPassant]
	}
	b.EnPassant = SquareNone

	if captured != NoPieceType {
		b.remove(MakePiece(them, captured), capSq)
	}

	b.remove(moving, from)
	if pt := m.PromotionType(); pt != NoPieceType {
		b.place(MakePiece(us, pt), to)
	} else {
		b.place(moving, to)
	}

	if m.IsCastle() {
		rookFrom, rookTo := castleRookSquares(m.Flag(), to)
		rook := b.pieceAt[rookFrom]
		b.remove(rook, rookFrom)
		b.place(rook, rookTo)
	}

	if m.Flag() == FlagDoublePush {
		ep := RankFile((from.Rank()+to.Rank())/2, from.File())
		b.EnPassant = ep
		b.Zobrist ^= zobristEnPassant[ep]
	}

	b.Zobrist ^= zobristCastle[b.Castling]
	b.Castling = ApplyCastleLoss(b.Castling, from, to)
	b.Zobrist ^= zobristCastle[b.Castling]

	if captured != NoPieceType || moving.Type() == Pawn {
		b.HalfMoveClock = 0
	} else {
		b.HalfMoveClock++
	}
	if us == Black {
		b.FullMoveNumber++
	}

	b.Ply++
	b.SideToMove = them
	b.Zobrist ^= zobristColor

	if b.IsChecked(us) {
		b.Unmake(m)
		return false
	}
	return true
}

// Unmake reverses the last call to Make.
func (b *Board) Unmake(m Move) {
	n := len(b.history) - 1
	entry := b.history[n]
	b.history = b.history[:n]

	them := b.SideToMove
	us := them.Flip()
	from, to := m.From(), m.To()

	b.SideToMove = us
	b.Ply--
	if us == Black {
		b.FullMoveNumber--
	}

	if m.IsCastle() {
		rookFrom, rookTo := castleRookSquares(m.Flag(), to)
		rook := b.pieceAt[rookTo]
		b.remove(rook, rookTo)
		b.place(rook, rookFrom)
	}

	moved := b.pieceAt[to]
	b.remove(moved, to)
	if m.PromotionType() != NoPieceType {
		b.place(MakePiece(us, Pawn), from)
	} else {
		b.place(moved, from)
	}

	if entry.captured != NoPieceType {
		capSq := to
		if m.Flag() == FlagEnPassant {
			capSq = RankFile(from.Rank(), to.File())
		}
		b.place(MakePiece(them, entry.captured), capSq)
	}

	b.Castling = entry.castling
	b.EnPassant = entry.enPassant
	b.HalfMoveClock = entry.halfMoveClock
	b.Zobrist = entry.zobrist
}

// MakeNull flips the side to move without moving a piece, clearing the
// en-passant square (a null move forfeits any en-passant capture). Used by
// null-move pruning (spec §4.5 point 6); the caller must never call this
// when in check.
func (b *Board) MakeNull() {
	b.history = append(b.history, undoEntry{
		move:      NullMove,
		captured:  NoPieceType,
		enPassant: b.EnPassant,
		castling:  b.Castling,
		zobrist:   b.Zobrist,
	})
	if b.EnPassant != SquareNone {
		b.Zobrist ^= zobristEnPassant[b.EnPassant]
	}
	b.EnPassant = SquareNone
	b.SideToMove = b.SideToMove.Flip()
	b.Zobrist ^= zobristColor
	b.Ply++
}

// UnmakeNull reverses MakeNull.
func (b *Board) UnmakeNull() {
	n := len(b.history) - 1
	entry := b.history[n]
	b.history = b.history[:n]

	b.Ply--
	b.SideToMove = b.SideToMove.Flip()
	b.EnPassant = entry.enPassant
	b.Zobrist = entry.zobrist
}

// castleRookSquares returns the rook's from/to squares for a castling move,
// given the flag and the king's destination square (whose rank tells white
// from black, since both colors share the same kingside/queenside flags).
func castleRookSquares(flag Flag, kingTo Square) (from, to Square) {
	if kingTo.Rank() == 0 { // white
		if flag == FlagCastleKingside {
			return SquareH1, SquareF1
		}
		return SquareA1, SquareD1
	}
	if flag == FlagCastleKingside {
		return SquareH8, SquareF8
	}
	return SquareA8, SquareD8
}
