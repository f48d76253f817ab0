package board

// offset pairs for leaping/sliding pieces, expressed as (deltaFile, deltaRank).
var knightOffsets = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2},
	{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

var kingOffsets = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

var bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var rookDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

func inBounds(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

func pawnForward(side Color) int {
	if side == White {
		return 1
	}
	return -1
}

func pawnHomeRank(side Color) int {
	if side == White {
		return 1
	}
	return 6
}

func pawnPromotionRank(side Color) int {
	if side == White {
		return 7
	}
	return 0
}

// GeneratePseudoLegal appends every pseudo-legal move of the piece on sq
// to ml. Pseudo-legal means "obeys piece movement and occupancy rules"
// but may leave the mover's own King in check (spec.md §4.1).
func (b *Board) GeneratePseudoLegal(sq Square, ml *MoveList) {
	p := b.squares[sq]
	if p == nil {
		return
	}
	start := ml.Len()
	defer func() {
		// Record what each new move captures, so IsCapture and MVV-LVA
		// ordering see it before the move is made.
		moves := ml.Slice()
		for i := start; i < len(moves); i++ {
			m := &moves[i]
			capSq := m.To
			if m.Special == SpecialEnPassant {
				capSq = enPassantCaptureSquare(m.To, p.Side)
			}
			if t := b.squares[capSq]; t != nil {
				m.Captured = &Captured{Square: capSq, Piece: *t}
			}
		}
	}()
	switch p.Kind {
	case Pawn:
		b.genPawnMoves(sq, *p, ml)
	case Knight:
		b.genLeaperMoves(sq, *p, knightOffsets[:], ml)
	case Bishop:
		b.genSliderMoves(sq, *p, bishopDirs[:], ml)
	case Rook:
		b.genSliderMoves(sq, *p, rookDirs[:], ml)
	case Queen:
		b.genSliderMoves(sq, *p, bishopDirs[:], ml)
		b.genSliderMoves(sq, *p, rookDirs[:], ml)
	case King:
		b.genLeaperMoves(sq, *p, kingOffsets[:], ml)
		b.genCastling(sq, *p, ml)
	}
}

func (b *Board) genLeaperMoves(sq Square, p Piece, offsets [][2]int, ml *MoveList) {
	f, r := sq.File(), sq.Rank()
	for _, d := range offsets {
		nf, nr := f+d[0], r+d[1]
		if !inBounds(nf, nr) {
			continue
		}
		to := NewSquare(nf, nr)
		target := b.squares[to]
		if target != nil && target.Side == p.Side {
			continue
		}
		ml.Add(Move{From: sq, To: to, Moved: p})
	}
}

func (b *Board) genSliderMoves(sq Square, p Piece, dirs [][2]int, ml *MoveList) {
	f, r := sq.File(), sq.Rank()
	for _, d := range dirs {
		nf, nr := f+d[0], r+d[1]
		for inBounds(nf, nr) {
			to := NewSquare(nf, nr)
			target := b.squares[to]
			if target == nil {
				ml.Add(Move{From: sq, To: to, Moved: p})
			} else {
				if target.Side != p.Side {
					ml.Add(Move{From: sq, To: to, Moved: p})
				}
				break
			}
			nf += d[0]
			nr += d[1]
		}
	}
}

func (b *Board) genPawnMoves(sq Square, p Piece, ml *MoveList) {
	f, r := sq.File(), sq.Rank()
	fwd := pawnForward(p.Side)
	promoRank := pawnPromotionRank(p.Side)

	addPawnMove := func(to Square) {
		if to.Rank() == promoRank {
			for _, k := range []PieceType{Queen, Rook, Bishop, Knight} {
				ml.Add(Move{From: sq, To: to, Moved: p, Special: SpecialPromotion, Promoted: k})
			}
			return
		}
		ml.Add(Move{From: sq, To: to, Moved: p})
	}

	// single push
	if inBounds(f, r+fwd) {
		one := NewSquare(f, r+fwd)
		if b.squares[one] == nil {
			addPawnMove(one)

			// double push from home rank
			if !p.HasMoved && r == pawnHomeRank(p.Side) && inBounds(f, r+2*fwd) {
				two := NewSquare(f, r+2*fwd)
				if b.squares[two] == nil {
					ml.Add(Move{From: sq, To: two, Moved: p})
				}
			}
		}
	}

	// captures (including en passant)
	for _, df := range []int{-1, 1} {
		nf, nr := f+df, r+fwd
		if !inBounds(nf, nr) {
			continue
		}
		to := NewSquare(nf, nr)
		if target := b.squares[to]; target != nil {
			if target.Side != p.Side {
				addPawnMove(to)
			}
			continue
		}
		if to == b.EnPassant {
			ml.Add(Move{From: sq, To: to, Moved: p, Special: SpecialEnPassant})
		}
	}
}

func (b *Board) genCastling(sq Square, king Piece, ml *MoveList) {
	if king.HasMoved {
		return
	}
	rank := sq.Rank()
	kingSideFlag, queenSideFlag := WhiteKingSide, WhiteQueenSide
	if king.Side == Black {
		kingSideFlag, queenSideFlag = BlackKingSide, BlackQueenSide
	}

	if b.Castling&kingSideFlag != 0 {
		pathOK := b.squares[NewSquare(5, rank)] == nil && b.squares[NewSquare(6, rank)] == nil
		if pathOK && !b.InCheck(king.Side) &&
			!b.IsSquareAttacked(NewSquare(5, rank), king.Side.Other()) &&
			!b.IsSquareAttacked(NewSquare(6, rank), king.Side.Other()) {
			ml.Add(Move{From: sq, To: NewSquare(6, rank), Moved: king, Special: SpecialCastleKingside})
		}
	}
	if b.Castling&queenSideFlag != 0 {
		pathOK := b.squares[NewSquare(1, rank)] == nil && b.squares[NewSquare(2, rank)] == nil && b.squares[NewSquare(3, rank)] == nil
		if pathOK && !b.InCheck(king.Side) &&
			!b.IsSquareAttacked(NewSquare(3, rank), king.Side.Other()) &&
			!b.IsSquareAttacked(NewSquare(2, rank), king.Side.Other()) {
			ml.Add(Move{From: sq, To: NewSquare(2, rank), Moved: king, Special: SpecialCastleQueenside})
		}
	}
}

// IsSquareAttacked reports whether sq is attacked by any piece of
// attacker (spec.md §4.1). Pawn attack geometry counts the two
// diagonal-forward squares as attacked even when they are empty.
func (b *Board) IsSquareAttacked(sq Square, attacker Color) bool {
	f, r := sq.File(), sq.Rank()

	// Pawns: a pawn of `attacker` on one of the two squares diagonally
	// behind sq (from attacker's forward direction) attacks sq.
	behind := -pawnForward(attacker)
	for _, df := range []int{-1, 1} {
		nf, nr := f+df, r+behind
		if !inBounds(nf, nr) {
			continue
		}
		if p := b.squares[NewSquare(nf, nr)]; p != nil && p.Side == attacker && p.Kind == Pawn {
			return true
		}
	}

	for _, d := range knightOffsets {
		nf, nr := f+d[0], r+d[1]
		if !inBounds(nf, nr) {
			continue
		}
		if p := b.squares[NewSquare(nf, nr)]; p != nil && p.Side == attacker && p.Kind == Knight {
			return true
		}
	}

	for _, d := range kingOffsets {
		nf, nr := f+d[0], r+d[1]
		if !inBounds(nf, nr) {
			continue
		}
		if p := b.squares[NewSquare(nf, nr)]; p != nil && p.Side == attacker && p.Kind == King {
			return true
		}
	}

	if b.slidingAttack(f, r, attacker, bishopDirs[:], Bishop, Queen) {
		return true
	}
	if b.slidingAttack(f, r, attacker, rookDirs[:], Rook, Queen) {
		return true
	}
	return false
}

func (b *Board) slidingAttack(f, r int, attacker Color, dirs [][2]int, kind1, kind2 PieceType) bool {
	for _, d := range dirs {
		nf, nr := f+d[0], r+d[1]
		for inBounds(nf, nr) {
			p := b.squares[NewSquare(nf, nr)]
			if p != nil {
				if p.Side == attacker && (p.Kind == kind1 || p.Kind == kind2) {
					return true
				}
				break
			}
			nf += d[0]
			nr += d[1]
		}
	}
	return false
}

// GenerateLegalMoves returns every fully legal move for side: pseudo-legal
// moves filtered by make-then-undo check detection (spec.md §4.1). When
// side's King has not yet arrived, no filtering applies (find_king
// returns "none" and is safe, since "in check" requires a King).
func (b *Board) GenerateLegalMoves(side Color) *MoveList {
	out := &MoveList{}
	var pseudo MoveList
	for sq := A1; sq <= H8; sq++ {
		p := b.squares[sq]
		if p == nil || p.Side != side {
			continue
		}
		pseudo.Clear()
		b.GeneratePseudoLegal(sq, &pseudo)
		for i := 0; i < pseudo.Len(); i++ {
			m := pseudo.Get(i)
			undo := b.MakeMove(m)
			if !b.InCheck(side) {
				out.Add(m)
			}
			b.UnmakeMove(undo)
		}
	}
	return out
}

// LegalMovesFrom returns the subset of GenerateLegalMoves for side
// originating at sq (spec.md §8: "get_legal_moves(square) is a subset of
// the potential moves").
func (b *Board) LegalMovesFrom(sq Square) *MoveList {
	p := b.squares[sq]
	out := &MoveList{}
	if p == nil {
		return out
	}
	var pseudo MoveList
	b.GeneratePseudoLegal(sq, &pseudo)
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		undo := b.MakeMove(m)
		if !b.InCheck(p.Side) {
			out.Add(m)
		}
		b.UnmakeMove(undo)
	}
	return out
}
