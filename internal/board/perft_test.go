package board

import "testing"

// Perft counts the leaf nodes reachable at the given depth, the
// standard way to verify move generation correctness. Saktris pieces
// normally arrive one at a time via the arrival manager, but the
// movement, capture, castling, en passant, and promotion rules
// themselves are unchanged from standard chess, so perft against a
// fully assembled board exercises exactly that shared machinery.
func perft(b *Board, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := b.GenerateLegalMoves(b.SideToMove)
	if depth == 1 {
		return int64(moves.Len())
	}

	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		applied := b.MakeMove(m)
		nodes += perft(b, depth-1)
		b.UnmakeMove(applied)
	}
	return nodes
}

// newStandardBoard assembles the classical starting position by hand:
// Saktris never does this during play (pieces arrive piecemeal), but
// move generation must reproduce standard chess exactly once a full set
// exists.
func newStandardBoard() *Board {
	b := NewEmptyBoard()
	backRank := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file := 0; file < 8; file++ {
		b.PlacePiece(NewSquare(file, 0), NewPiece(backRank[file], White))
		b.PlacePiece(NewSquare(file, 1), NewPiece(Pawn, White))
		b.PlacePiece(NewSquare(file, 6), NewPiece(Pawn, Black))
		b.PlacePiece(NewSquare(file, 7), NewPiece(backRank[file], Black))
	}
	b.Hash = b.FullHash()
	return b
}

func TestPerftStandardStartingPosition(t *testing.T) {
	b := newStandardBoard()

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
	}

	for _, tc := range tests {
		got := perft(b, tc.depth)
		if got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

// kiwipeteBoard is the famous Kiwipete position, assembled by hand since
// Saktris has no FEN parser (spec.md carries no FEN requirement — pieces
// never start fully assembled).
// r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -
func kiwipeteBoard() *Board {
	b := NewEmptyBoard()
	place := func(sq Square, kind PieceType, side Color) {
		b.PlacePiece(sq, NewPiece(kind, side))
	}
	place(A8, Rook, Black)
	place(E8, King, Black)
	place(H8, Rook, Black)
	place(A7, Pawn, Black)
	place(C7, Pawn, Black)
	place(D7, Pawn, Black)
	place(E7, Queen, Black)
	place(F7, Pawn, Black)
	place(G7, Bishop, Black)
	place(A6, Bishop, Black)
	place(B6, Knight, Black)
	place(E6, Pawn, Black)
	place(F6, Knight, Black)
	place(G6, Pawn, Black)
	place(D5, Pawn, White)
	place(E5, Knight, White)
	place(B4, Pawn, Black)
	place(E4, Pawn, White)
	place(C3, Knight, White)
	place(F3, Queen, White)
	place(H3, Pawn, Black)
	place(A2, Pawn, White)
	place(B2, Pawn, White)
	place(C2, Pawn, White)
	place(D2, Bishop, White)
	place(E2, Bishop, White)
	place(F2, Pawn, White)
	place(G2, Pawn, White)
	place(H2, Pawn, White)
	place(A1, Rook, White)
	place(E1, King, White)
	place(H1, Rook, White)

	// No HasMoved flags are set: every piece keeps HasMoved=false from
	// NewPiece, which leaves the king and rooks unmoved but is wrong for pieces
	// clearly not on their home square, but castling rights only consult
	// the king and rook squares, so that discrepancy doesn't matter here.
	b.Hash = b.FullHash()
	return b
}

func TestPerftKiwipete(t *testing.T) {
	b := kiwipeteBoard()

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 48},
		{2, 2039},
	}

	for _, tc := range tests {
		got := perft(b, tc.depth)
		if got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

func TestPerftEnPassantPin(t *testing.T) {
	// 8/8/8/8/k2Pp2R/8/8/4K3 b - d3: Black's e4 pawn could capture en
	// passant to d3, but doing so would expose its own king on a4 to the
	// rook on h4 along the rank. That capture must not appear among the
	// legal moves.
	b := NewEmptyBoard()
	b.PlacePiece(A4, NewPiece(King, Black))
	b.PlacePiece(D4, NewPiece(Pawn, White))
	b.PlacePiece(E4, NewPiece(Pawn, Black))
	b.PlacePiece(H4, NewPiece(Rook, White))
	b.PlacePiece(E1, NewPiece(King, White))
	b.EnPassant = D3
	b.SideToMove = Black
	b.Hash = b.FullHash()

	moves := b.GenerateLegalMoves(Black)
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.Special == SpecialEnPassant {
			t.Errorf("en passant capture %v should be illegal (exposes king to rook on h4)", m)
		}
	}

	if got, want := perft(b, 1), int64(6); got != want {
		t.Errorf("perft(1) = %d, want %d", got, want)
	}
}
