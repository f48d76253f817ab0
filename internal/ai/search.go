package ai

import (
	"context"

	"github.com/tomgun/saktris/internal/board"
)

// MaxPly bounds recursion depth; Hard difficulty never asks for more
// than this (see depthFor in engine.go), so the search never needs a
// heap-backed stack.
const MaxPly = 64

const (
	negInf = -1 << 30
	posInf = 1 << 30
)

// Result is what a completed (or cancelled) search produces.
type Result struct {
	Move  board.Move
	Score int
	Nodes uint64
	// HasMove is false when no legal move exists (checkmate, stalemate,
	// or the search was cancelled before finding one) — the caller then
	// treats the position as resigned/over rather than applying a move.
	HasMove bool
}

// searcher holds the per-call mutable state alpha-beta threads through
// recursion: a node counter and the cancellation signal. It is created
// fresh for each Search call, never shared across goroutines.
type searcher struct {
	ctx   context.Context
	nodes uint64
	side  board.Color
}

// Search runs alpha-beta to depth plies from b's current position and
// returns the best move for side (which need not be b.SideToMove,
// though in practice it always is). Cancellation is cooperative: ctx is
// checked every 2048 nodes, and a cancelled search returns whatever best
// move it has found so far, possibly none (spec.md §4.8/§5).
func Search(ctx context.Context, b *board.Board, side board.Color, depth int) Result {
	s := &searcher{ctx: ctx, side: side}
	score, move, ok := s.rootSearch(b, depth)
	return Result{Move: move, Score: score, Nodes: s.nodes, HasMove: ok}
}

func (s *searcher) rootSearch(b *board.Board, depth int) (int, board.Move, bool) {
	ml := b.GenerateLegalMoves(s.side)
	if ml.Len() == 0 {
		return 0, board.Move{}, false
	}
	OrderMoves(ml)

	alpha, beta := negInf, posInf
	best := ml.Get(0)
	bestScore := negInf
	found := false

	for i := 0; i < ml.Len(); i++ {
		if s.cancelled() {
			break
		}
		m := ml.Get(i)
		undo := b.MakeMove(m)
		score := -s.negamax(b, depth-1, -beta, -alpha, s.side.Other())
		b.UnmakeMove(undo)
		found = true

		if score > bestScore {
			bestScore = score
			best = m
		}
		if score > alpha {
			alpha = score
		}
	}
	return bestScore, best, found
}

func (s *searcher) negamax(b *board.Board, depth, alpha, beta int, side board.Color) int {
	s.nodes++
	if s.cancelled() {
		return Evaluate(b, side)
	}
	if depth <= 0 {
		return Evaluate(b, side)
	}

	ml := b.GenerateLegalMoves(side)
	if ml.Len() == 0 {
		if b.InCheck(side) {
			return negInf + (MaxPly - depth) // checkmate: worse the sooner it's found from root
		}
		return 0 // stalemate
	}
	OrderMoves(ml)

	best := negInf
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		undo := b.MakeMove(m)
		score := -s.negamax(b, depth-1, -beta, -alpha, side.Other())
		b.UnmakeMove(undo)

		if score > best {
			best = score
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}
	return best
}

func (s *searcher) cancelled() bool {
	if s.nodes&2047 != 0 {
		return false
	}
	select {
	case <-s.ctx.Done():
		return true
	default:
		return false
	}
}
