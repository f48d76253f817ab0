package game

import "github.com/tomgun/saktris/internal/board"

// tripletOutcome is the result of resolving a triplet-clear at a square,
// independent of any event or status side effects — GameState turns this
// into a TripletCleared event and, if KingBumped, a TripletWin status.
type tripletOutcome struct {
	axis         string
	cleared      [3]board.Square
	bumpedSquare board.Square // NoSquare if nothing stood beyond the triplet
	bumpedPiece  board.Piece
	kingBumped   bool
	kingSide     board.Color
}

// resolveTriplet implements spec.md §4.7's triplet-clear rule and
// SPEC_FULL.md Open Question 1's resolution. dest is the square the last
// move landed on; from is that move's origin square, used to derive the
// direction of travel and the "mid-triplet" direction fallback.
//
// Triplet membership itself can never include a King — there are only
// ever two Kings in a Saktris game, never three of the same kind — so
// "the bumped piece" in spec.md §4.7 ("If the bumped piece is the
// opponent's King, the game ends with TripletWin") necessarily refers to
// the secondary-bump victim beyond the triplet, not a member of the
// triplet itself. That is the interpretation this function implements.
func resolveTriplet(b *board.Board, from, dest board.Square) (tripletOutcome, bool) {
	run, axis, ok := b.FindTripletAt(dest)
	if !ok {
		return tripletOutcome{}, false
	}

	window := tripletWindow(run, dest)
	direction := tripletDirection(axis, from, dest, window)

	var cleared [3]board.Square
	copy(cleared[:], window)

	leading := window[0]
	if direction > 0 {
		leading = window[len(window)-1]
	}
	beyond := squareBeyond(leading, axis, direction)

	out := tripletOutcome{
		axis:         axis,
		cleared:      cleared,
		bumpedSquare: board.NoSquare,
	}

	for _, sq := range window {
		b.RemovePiece(sq)
	}

	if beyond != board.NoSquare {
		if p, had := b.PieceAt(beyond); had {
			b.RemovePiece(beyond)
			out.bumpedSquare = beyond
			out.bumpedPiece = p
			if p.Kind == board.King {
				out.kingBumped = true
				out.kingSide = p.Side
			}
		}
	}

	return out, true
}

// tripletWindow returns exactly 3 contiguous squares from run that
// include dest, preferring the window closest to dest when run is longer
// than 3 (FindTripletAt returns the full contiguous same-kind run, which
// can exceed 3).
func tripletWindow(run []board.Square, dest board.Square) []board.Square {
	if len(run) <= 3 {
		return run
	}
	idx := 0
	for i, sq := range run {
		if sq == dest {
			idx = i
			break
		}
	}
	start := idx - 1
	if start < 0 {
		start = 0
	}
	if start > len(run)-3 {
		start = len(run) - 3
	}
	return run[start : start+3]
}

// tripletDirection returns +1 or -1 along axis: the direction the mover
// traveled on its final step, or — when dest sits strictly between the
// window's ends (the move filled a gap rather than extending the run,
// only possible when the move's own axis delta was zero) — the
// direction away from the mover's origin square, falling back to +1 if
// that too carries no information along this axis.
func tripletDirection(axis string, from, dest board.Square, window []board.Square) int {
	if d := axisDelta(axis, from, dest); d != 0 {
		if d > 0 {
			return 1
		}
		return -1
	}
	origin := axisCoord(axis, from)
	mid := (axisCoord(axis, window[0]) + axisCoord(axis, window[len(window)-1])) / 2
	if origin <= mid {
		return 1 // origin is on the low side: away-from-origin points high
	}
	return -1
}

func axisDelta(axis string, a, b board.Square) int {
	return axisCoord(axis, b) - axisCoord(axis, a)
}

func axisCoord(axis string, sq board.Square) int {
	if axis == "horizontal" {
		return sq.File()
	}
	return sq.Rank()
}

// squareBeyond returns the square one step past sq along axis/direction,
// or NoSquare if that would leave the board.
func squareBeyond(sq board.Square, axis string, direction int) board.Square {
	f, r := sq.File(), sq.Rank()
	if axis == "horizontal" {
		f += direction
	} else {
		r += direction
	}
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return board.NoSquare
	}
	return board.NewSquare(f, r)
}
