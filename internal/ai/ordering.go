package ai

import "github.com/tomgun/saktris/internal/board"

// mvvLva scores a capture by victim value first, attacker value second
// (Most Valuable Victim - Least Valuable Attacker), the teacher's own
// ordering idiom (internal/engine/ordering.go) stripped of its killer,
// history, and countermove tables — Saktris' search is too shallow for
// those to pay for themselves, and the spec calls only for a
// deterministic, allocation-free ordering (spec.md §4.8).
func mvvLvaScore(m board.Move) int {
	if m.Captured == nil {
		return 0
	}
	return m.Captured.Piece.Kind.Value()*10 - m.Moved.Kind.Value()
}

// OrderMoves sorts ml in place, highest-priority move first: captures
// before quiet moves, ordered by MVV-LVA among themselves, with a
// lexicographic (From, To) tie-break so that two equally-scored moves
// always compare the same way regardless of generation order (spec.md
// §4.8 "deterministic for equal scores via a stable tie-break").
func OrderMoves(ml *board.MoveList) {
	moves := ml.Slice()
	for i := 1; i < len(moves); i++ {
		for j := i; j > 0 && lessPriority(moves[j-1], moves[j]); j-- {
			moves[j-1], moves[j] = moves[j], moves[j-1]
		}
	}
}

// lessPriority reports whether a should be searched after b.
func lessPriority(a, b board.Move) bool {
	sa, sb := mvvLvaScore(a), mvvLvaScore(b)
	if sa != sb {
		return sa < sb
	}
	if a.From != b.From {
		return a.From > b.From
	}
	return a.To > b.To
}
