package board

// MakeMove applies m to the board and returns the same Move, now fully
// populated as its own undo record (spec.md §3/§4.1). It is not
// allocation-free: every piece it places is stored through a new pointer,
// and a capture allocates its Captured record and appends to Captures.
// It emits no events and does not validate legality — the
// caller (GenerateLegalMoves, or the AI search) is responsible for
// having already established that m is legal. This is the hot inner
// loop used by search; UnmakeMove is its exact inverse.
func (b *Board) MakeMove(m Move) Move {
	m.PrevEnPassant = b.EnPassant
	m.PrevCastlingRights = b.Castling
	m.PrevHalfMoveClock = b.HalfMoveClock
	m.PrevHash = b.Hash

	mover := *b.squares[m.From]
	m.Moved = mover

	resetClock := mover.Kind == Pawn

	// Remove the mover from its origin square.
	b.rawClear(m.From)
	b.pieceKeyXOR(m.From, mover)

	switch m.Special {
	case SpecialEnPassant:
		capSq := enPassantCaptureSquare(m.To, mover.Side)
		captured := *b.squares[capSq]
		b.pieceKeyXOR(capSq, captured)
		b.rawClear(capSq)
		b.Captures[mover.Side] = append(b.Captures[mover.Side], captured)
		m.Captured = &Captured{Square: capSq, Piece: captured}
		resetClock = true

	case SpecialCastleKingside, SpecialCastleQueenside:
		rank := m.From.Rank()
		var rookFrom, rookTo Square
		if m.Special == SpecialCastleKingside {
			rookFrom, rookTo = NewSquare(7, rank), NewSquare(5, rank)
		} else {
			rookFrom, rookTo = NewSquare(0, rank), NewSquare(3, rank)
		}
		rook := *b.squares[rookFrom]
		m.RookFrom, m.RookTo = rookFrom, rookTo
		m.RookHadMoved = rook.HasMoved

		b.pieceKeyXOR(rookFrom, rook)
		b.rawClear(rookFrom)
		rook.HasMoved = true
		b.rawSet(rookTo, rook)
		b.pieceKeyXOR(rookTo, rook)

	default:
		if target := b.squares[m.To]; target != nil {
			captured := *target
			b.pieceKeyXOR(m.To, captured)
			b.Captures[mover.Side] = append(b.Captures[mover.Side], captured)
			m.Captured = &Captured{Square: m.To, Piece: captured}
			resetClock = true
		}
	}

	placed := mover
	placed.HasMoved = true
	if m.Special == SpecialPromotion {
		placed.Kind = m.Promoted
	}
	b.rawSet(m.To, placed)
	b.pieceKeyXOR(m.To, placed)

	// En-passant target is set only the move immediately after a pawn
	// double-push, cleared at the start of every subsequent move
	// (spec.md §3).
	if b.EnPassant != NoSquare {
		b.Hash ^= ZobristEnPassant(b.EnPassant.File())
	}
	b.EnPassant = NoSquare
	if mover.Kind == Pawn {
		df := int(m.To.Rank()) - int(m.From.Rank())
		if df == 2 || df == -2 {
			b.EnPassant = NewSquare(m.From.File(), (m.From.Rank()+m.To.Rank())/2)
			b.Hash ^= ZobristEnPassant(b.EnPassant.File())
		}
	}

	if resetClock {
		b.HalfMoveClock = 0
	} else {
		b.HalfMoveClock++
	}

	b.SideToMove = b.SideToMove.Other()
	b.Hash ^= ZobristSideToMove()

	b.updateCastlingRights()

	return m
}

// UnmakeMove restores the board to exactly the state it was in before m
// was applied, using the undo fields m.MakeMove populated.
func (b *Board) UnmakeMove(m Move) {
	switch m.Special {
	case SpecialCastleKingside, SpecialCastleQueenside:
		king := m.Moved
		b.rawClear(m.To)
		b.rawSet(m.From, king)

		rook := Piece{Kind: Rook, Side: m.Moved.Side, HasMoved: m.RookHadMoved}
		b.rawClear(m.RookTo)
		b.rawSet(m.RookFrom, rook)

	case SpecialEnPassant:
		b.rawClear(m.To)
		b.rawSet(m.From, m.Moved)
		b.rawSet(m.Captured.Square, m.Captured.Piece)
		b.popCapture(m.Moved.Side)

	default:
		b.rawClear(m.To)
		b.rawSet(m.From, m.Moved)
		if m.Captured != nil {
			b.rawSet(m.Captured.Square, m.Captured.Piece)
			b.popCapture(m.Moved.Side)
		}
	}

	b.EnPassant = m.PrevEnPassant
	b.Castling = m.PrevCastlingRights
	b.HalfMoveClock = m.PrevHalfMoveClock
	b.Hash = m.PrevHash
	b.SideToMove = m.Moved.Side
}

func (b *Board) popCapture(capturingSide Color) {
	n := len(b.Captures[capturingSide])
	if n == 0 {
		return
	}
	b.Captures[capturingSide] = b.Captures[capturingSide][:n-1]
}

func enPassantCaptureSquare(to Square, side Color) Square {
	return NewSquare(to.File(), to.Rank()-pawnForward(side))
}
