package board

// FindTripletAt scans horizontally and vertically from sq for the
// longest run of pieces sharing the same Kind (side does not matter),
// including the piece on sq itself. If either axis yields a run of three
// or more, it returns that run's squares in ascending file/rank order
// along the axis, the axis name ("horizontal" or "vertical"), and true.
// Horizontal wins on a tie (spec.md §4.1 "Triplet detection").
func (b *Board) FindTripletAt(sq Square) (run []Square, axis string, ok bool) {
	p := b.squares[sq]
	if p == nil {
		return nil, "", false
	}
	kind := p.Kind

	h := b.runAlong(sq, kind, 1, 0)
	v := b.runAlong(sq, kind, 0, 1)

	if len(h) >= 3 && len(h) >= len(v) {
		return h, "horizontal", true
	}
	if len(v) >= 3 {
		return v, "vertical", true
	}
	return nil, "", false
}

// runAlong returns every square in the maximal contiguous run along axis
// (df, dr) — and its opposite — through sq whose piece has the given
// Kind, sorted from the low end of the axis to the high end.
func (b *Board) runAlong(sq Square, kind PieceType, df, dr int) []Square {
	f, r := sq.File(), sq.Rank()
	positions := []Square{sq}

	nf, nr := f+df, r+dr
	for inBounds(nf, nr) {
		s2 := NewSquare(nf, nr)
		p := b.squares[s2]
		if p == nil || p.Kind != kind {
			break
		}
		positions = append(positions, s2)
		nf += df
		nr += dr
	}

	nf, nr = f-df, r-dr
	for inBounds(nf, nr) {
		s2 := NewSquare(nf, nr)
		p := b.squares[s2]
		if p == nil || p.Kind != kind {
			break
		}
		positions = append(positions, s2)
		nf -= df
		nr -= dr
	}

	axisKey := func(s Square) int {
		if df != 0 {
			return s.File()
		}
		return s.Rank()
	}
	for i := 1; i < len(positions); i++ {
		for j := i; j > 0 && axisKey(positions[j-1]) > axisKey(positions[j]); j-- {
			positions[j-1], positions[j] = positions[j], positions[j-1]
		}
	}
	return positions
}

// RemovePiece unconditionally clears sq, returning the piece that stood
// there (if any). Used by triplet-clear resolution (spec.md §4.7) to bump
// pieces off the board outside the normal move/capture path.
func (b *Board) RemovePiece(sq Square) (Piece, bool) {
	p := b.squares[sq]
	if p == nil {
		return NoPiece, false
	}
	removed := *p
	b.pieceKeyXOR(sq, removed)
	b.rawClear(sq)
	if removed.Kind == King {
		b.KingSquare[removed.Side] = NoSquare
	}
	b.updateCastlingRights()
	return removed, true
}
