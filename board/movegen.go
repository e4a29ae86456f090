package board

// MoveList is an append-only, fixed-capacity output buffer for move
// generation (avoids a heap allocation per call in the hot search path;
// grounded on treepeck-chego's fixed [218]Move list, the documented upper
// bound on legal moves in any reachable chess position).
type MoveList struct {
	Moves [218]Move
	N     int
}

func (l *MoveList) add(m Move) {
	l.Moves[l.N] = m
	l.N++
}

// Slice returns the moves generated so far.
func (l *MoveList) Slice() []Move { return l.Moves[:l.N] }

// Reset empties the list for reuse.
func (l *MoveList) Reset() { l.N = 0 }

// GenerateAll appends every pseudo-legal move in the position to out.
// Legality with respect to leaving one's own king in check is validated
// by Make, which rolls back illegal moves (spec §4.2).
func (b *Board) GenerateAll(out *MoveList) {
	b.generate(out, true)
}

// GenerateCaptures appends only pseudo-legal captures (including
// en-passant and capturing promotions to all four piece types), used by
// quiescence search. Non-capturing promotions are not generated.
func (b *Board) GenerateCaptures(out *MoveList) {
	b.generate(out, false)
}

func (b *Board) generate(out *MoveList, quiets bool) {
	us, them := b.SideToMove, b.SideToMove.Flip()
	own, enemy := b.ByColor[us], b.ByColor[them]
	empty := ^b.All

	b.generatePawnMoves(out, us, own, enemy, empty, quiets)
	b.generateLeaperMoves(out, Knight, KnightAttacks, us, own, enemy, quiets)
	b.generateLeaperMoves(out, King, KingAttacks, us, own, enemy, quiets)
	b.generateSliderMoves(out, Bishop, BishopAttacks, us, own, enemy, quiets)
	b.generateSliderMoves(out, Rook, RookAttacks, us, own, enemy, quiets)
	b.generateSliderMoves(out, Queen, QueenAttacks, us, own, enemy, quiets)
	if quiets {
		b.generateCastles(out, us)
	}
}

func (b *Board) generateLeaperMoves(out *MoveList, pt PieceType, attacksOf func(Square) Bitboard, us Color, own, enemy Bitboard, quiets bool) {
	pieces := b.ByColorAndType(us, pt)
	for pieces != 0 {
		from := pieces.Pop()
		targets := attacksOf(from) &^ own
		if !quiets {
			targets &= enemy
		}
		for targets != 0 {
			to := targets.Pop()
			flag := FlagQuiet
			if to.Bitboard()&enemy != 0 {
				flag = FlagCapture
			}
			out.add(NewMove(from, to, flag))
		}
	}
}

func (b *Board) generateSliderMoves(out *MoveList, pt PieceType, attacksOf func(Square, Bitboard) Bitboard, us Color, own, enemy Bitboard, quiets bool) {
	pieces := b.ByColorAndType(us, pt)
	occ := b.All
	for pieces != 0 {
		from := pieces.Pop()
		targets := attacksOf(from, occ) &^ own
		if !quiets {
			targets &= enemy
		}
		for targets != 0 {
			to := targets.Pop()
			flag := FlagQuiet
			if to.Bitboard()&enemy != 0 {
				flag = FlagCapture
			}
			out.add(NewMove(from, to, flag))
		}
	}
}

func (b *Board) generatePawnMoves(out *MoveList, us Color, own, enemy, empty Bitboard, quiets bool) {
	pawns := b.ByColorAndType(us, Pawn)
	promoRank := RankBb(7)
	fourthRank := RankBb(3)
	if us == Black {
		promoRank = RankBb(0)
		fourthRank = RankBb(4)
	}

	if quiets {
		singlePush := Forward(us, pawns) & empty
		for t := singlePush; t != 0; {
			to := t.Pop()
			from := Backward(us, to.Bitboard()).AsSquare()
			b.addPawnMoves(out, from, to, false, promoRank)
		}
		doublePush := Forward(us, singlePush) & empty & fourthRank
		for t := doublePush; t != 0; {
			to := t.Pop()
			from := Backward(us, Backward(us, to.Bitboard())).AsSquare()
			out.add(NewMove(from, to, FlagDoublePush))
		}
	}

	// Captures, including promotion-captures. fwd/back are a matched pair
	// of diagonal shifts so the source square of a capture landing on `to`
	// can be recovered unambiguously (PawnAttacks(to) would conflate both
	// diagonals into one bitboard).
	type diag struct{ fwd, back func(Bitboard) Bitboard }
	var diagonals [2]diag
	if us == White {
		diagonals = [2]diag{{NorthWest, SouthEast}, {NorthEast, SouthWest}}
	} else {
		diagonals = [2]diag{{SouthWest, NorthEast}, {SouthEast, NorthWest}}
	}
	for _, d := range diagonals {
		targets := d.fwd(pawns) & enemy
		for targets != 0 {
			to := targets.Pop()
			from := d.back(to.Bitboard()).AsSquare()
			b.addPawnMoves(out, from, to, true, promoRank)
		}
	}

	// En-passant.
	if b.EnPassant != SquareNone {
		ep := b.EnPassant
		attackers := PawnAttacks(us.Flip(), ep) & pawns
		for attackers != 0 {
			from := attackers.Pop()
			out.add(NewMove(from, ep, FlagEnPassant))
		}
	}
}

func (b *Board) addPawnMoves(out *MoveList, from, to Square, capture bool, promoRank Bitboard) {
	if to.Bitboard()&promoRank != 0 {
		for _, pt := range [4]PieceType{Knight, Bishop, Rook, Queen} {
			out.add(NewMove(from, to, promoFlag(pt, capture)))
		}
		return
	}
	flag := FlagQuiet
	if capture {
		flag = FlagCapture
	}
	out.add(NewMove(from, to, flag))
}

func (b *Board) generateCastles(out *MoveList, us Color) {
	occ := b.All
	if us == White {
		if b.Castling&WhiteOO != 0 &&
			occ&(SquareF1.Bitboard()|SquareG1.Bitboard()) == 0 &&
			!b.IsAttacked(SquareE1, Black) && !b.IsAttacked(SquareF1, Black) {
			out.add(NewMove(SquareE1, SquareG1, FlagCastleKingside))
		}
		if b.Castling&WhiteOOO != 0 &&
			occ&(SquareD1.Bitboard()|SquareC1.Bitboard()|SquareB1.Bitboard()) == 0 &&
			!b.IsAttacked(SquareE1, Black) && !b.IsAttacked(SquareD1, Black) {
			out.add(NewMove(SquareE1, SquareC1, FlagCastleQueenside))
		}
	} else {
		if b.Castling&BlackOO != 0 &&
			occ&(SquareF8.Bitboard()|SquareG8.Bitboard()) == 0 &&
			!b.IsAttacked(SquareE8, White) && !b.IsAttacked(SquareF8, White) {
			out.add(NewMove(SquareE8, SquareG8, FlagCastleKingside))
		}
		if b.Castling&BlackOOO != 0 &&
			occ&(SquareD8.Bitboard()|SquareC8.Bitboard()|SquareB8.Bitboard()) == 0 &&
			!b.IsAttacked(SquareE8, White) && !b.IsAttacked(SquareD8, White) {
			out.add(NewMove(SquareE8, SquareC8, FlagCastleQueenside))
		}
	}
}
