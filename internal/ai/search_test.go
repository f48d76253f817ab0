package ai

import (
	"context"
	"testing"
	"time"

	"github.com/tomgun/saktris/internal/board"
)

func kingsOnlyBoard() *board.Board {
	b := board.NewEmptyBoard()
	b.PlacePiece(board.E1, board.NewPiece(board.King, board.White))
	b.PlacePiece(board.E8, board.NewPiece(board.King, board.Black))
	b.Hash = b.FullHash()
	return b
}

func TestSearchFindsMoveWithKingsOnly(t *testing.T) {
	b := kingsOnlyBoard()
	res := Search(context.Background(), b, board.White, 2)
	if !res.HasMove {
		t.Fatalf("expected a legal move for a lone king, got none")
	}
}

func TestSearchPrefersCapture(t *testing.T) {
	// Black's queen on d7 is undefended (the black king sits on a8, well
	// out of reach), so capturing it is strictly free material.
	b := board.NewEmptyBoard()
	b.PlacePiece(board.E1, board.NewPiece(board.King, board.White))
	b.PlacePiece(board.A8, board.NewPiece(board.King, board.Black))
	b.PlacePiece(board.D1, board.NewPiece(board.Queen, board.White))
	b.PlacePiece(board.D7, board.NewPiece(board.Queen, board.Black))
	b.Hash = b.FullHash()

	res := Search(context.Background(), b, board.White, 2)
	if !res.HasMove {
		t.Fatalf("expected a move")
	}
	if res.Move.From != board.D1 || res.Move.To != board.D7 {
		t.Errorf("expected Qd1xd7, got %s", res.Move.String())
	}
	if !res.Move.IsCapture() {
		t.Errorf("expected best move to be a capture, got %s", res.Move.String())
	}
}

func TestSearchDeterministicTieBreak(t *testing.T) {
	b := kingsOnlyBoard()
	first := Search(context.Background(), b, board.White, 2)
	second := Search(context.Background(), b, board.White, 2)
	if first.Move != second.Move {
		t.Errorf("search is not deterministic: %s vs %s", first.Move, second.Move)
	}
}

func TestSearchReportsNoMoveOnCheckmate(t *testing.T) {
	// Classic back-rank mate: White king boxed in by its own pawns,
	// checked along the first rank by a rook with nothing to block with.
	b := board.NewEmptyBoard()
	wKing := board.NewPiece(board.King, board.White)
	wKing.HasMoved = true
	b.PlacePiece(board.G1, wKing)
	b.PlacePiece(board.F2, board.NewPiece(board.Pawn, board.White))
	b.PlacePiece(board.G2, board.NewPiece(board.Pawn, board.White))
	b.PlacePiece(board.H2, board.NewPiece(board.Pawn, board.White))
	b.PlacePiece(board.A8, board.NewPiece(board.King, board.Black))
	b.PlacePiece(board.A1, board.NewPiece(board.Rook, board.Black))
	b.Hash = b.FullHash()

	if !b.InCheck(board.White) {
		t.Fatalf("test setup: expected White to be in check")
	}
	res := Search(context.Background(), b, board.White, 2)
	if res.HasMove {
		t.Errorf("expected no legal move in checkmate, got %s", res.Move)
	}
}

func TestSearchRespectsCancellation(t *testing.T) {
	b := kingsOnlyBoard()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := Search(ctx, b, board.White, 4)
	_ = res // a cancelled search may or may not find a move; must not hang or panic
	select {
	case <-time.After(0):
	default:
	}
}

func TestEngineThinkDeliversResult(t *testing.T) {
	b := kingsOnlyBoard()
	e := NewEngine(Easy)
	e.Think(b, board.White)

	deadline := time.After(2 * time.Second)
	for {
		if res, ok := e.TryReceive(); ok {
			if !res.HasMove {
				t.Fatalf("expected a move for a lone king")
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for AI result")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestEngineThinkSupersedesPreviousSearch(t *testing.T) {
	b := kingsOnlyBoard()
	e := NewEngine(Hard)
	e.Think(b, board.White)
	e.Think(b, board.White) // cancels the first search

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := e.TryReceive(); ok {
			return
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for superseding AI result")
		case <-time.After(time.Millisecond):
		}
	}
}
