// Package ai implements the alpha-beta move-choosing engine (spec.md
// §4.8): material-weighted evaluation with simple positional terms,
// search over make/undo (each node's legal-move list is a fresh heap
// allocation from board.GenerateLegalMoves), and a background Engine that
// delivers its result through a single-shot channel. Trimmed down from
// the teacher's NNUE-backed, transposition-tabled, Lazy-SMP search into
// the single-threaded, non-learning engine the spec calls for; the
// evaluation weights and piece-square idiom are the teacher's own
// (internal/engine/eval.go in hailam/chessplay), just far smaller.
package ai

import "github.com/tomgun/saktris/internal/board"

// centerBonus rewards central squares a little, for every piece kind
// alike, using the same mg/eg-free flat table style the teacher uses for mobility
// weights — simplified here to one table since Saktris games rarely
// reach classical endgames with the teacher's full piece set.
var centerBonus = [8][8]int{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{0, 5, 5, 5, 5, 5, 5, 0},
	{0, 5, 10, 10, 10, 10, 5, 0},
	{0, 5, 10, 20, 20, 10, 5, 0},
	{0, 5, 10, 20, 20, 10, 5, 0},
	{0, 5, 10, 10, 10, 10, 5, 0},
	{0, 5, 5, 5, 5, 5, 5, 0},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

// mobilityWeight scales legal-move count per piece kind into score, a
// trimmed analogue of the teacher's mobilityMgWeight table.
var mobilityWeight = [7]int{0, 4, 5, 2, 1, 0, 0}

const tempoBonus = 10

// Evaluate scores b from side's point of view: positive favors side.
// Material dominates; mobility and centralization are tie-breaking
// positional terms (spec.md §4.8 "material-weighted... with simple
// positional terms").
func Evaluate(b *board.Board, side board.Color) int {
	score := materialScore(b, side) + positionalScore(b, side)
	if b.SideToMove == side {
		score += tempoBonus
	}
	return score
}

func materialScore(b *board.Board, side board.Color) int {
	total := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		p, ok := b.PieceAt(sq)
		if !ok {
			continue
		}
		v := p.Kind.Value() + centerBonus[sq.Rank()][sq.File()]
		if p.Side == side {
			total += v
		} else {
			total -= v
		}
	}
	return total
}

func positionalScore(b *board.Board, side board.Color) int {
	own := mobilityScore(b, side)
	opp := mobilityScore(b, side.Other())
	return own - opp
}

func mobilityScore(b *board.Board, side board.Color) int {
	total := 0
	var ml board.MoveList
	for sq := board.A1; sq <= board.H8; sq++ {
		p, ok := b.PieceAt(sq)
		if !ok || p.Side != side {
			continue
		}
		ml.Clear()
		b.GeneratePseudoLegal(sq, &ml)
		total += ml.Len() * mobilityWeight[p.Kind]
	}
	return total
}
