package absorbmg_test

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"

	mg "github.com/MingyeeOAO/absorb-chess/absorbmg"
)

// With no abilities absorbed yet, play is move-for-move orthodox chess, so
// an independent orthodox generator doubles as a reference.
var perftStartExpected = []uint64{1, 20, 400, 8902, 197281}

func TestPerftStartPos(t *testing.T) {
	b := mg.NewBoard()
	for depth := 1; depth < len(perftStartExpected); depth++ {
		got := mg.Perft(b, depth)
		if got != perftStartExpected[depth] {
			t.Logf("board:\n%s", b)
			t.Fatalf("perft depth %d: got %d, want %d", depth, got, perftStartExpected[depth])
		}
	}
}

func TestPerftDivideSumsToTotal(t *testing.T) {
	b := mg.NewBoard()
	div := mg.PerftDivide(b, 3)
	if len(div) != 20 {
		t.Fatalf("divide root moves: got %d, want 20", len(div))
	}
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if sum != perftStartExpected[3] {
		t.Fatalf("divide sum: got %d, want %d", sum, perftStartExpected[3])
	}
}

func orthodoxPerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var nodes uint64
	for _, m := range b.GenerateLegalMoves() {
		unapply := b.Apply(m)
		nodes += orthodoxPerft(b, depth-1)
		unapply()
	}
	return nodes
}

// A cross-type capture at ply 1 changes the captor's move count when that
// side moves again at ply 3, so arbitrary ability-free positions only match
// the orthodox reference to depth 2. The start position stays orthodox
// through depth 4 (TestPerftStartPos) because no cross-type capture exists
// before ply 3.
func TestPerftMatchesOrthodoxReference(t *testing.T) {
	fens := []string{
		mg.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}

	for _, fen := range fens {
		b, err := mg.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		ref := dragontoothmg.ParseFen(fen)

		for depth := 1; depth <= 2; depth++ {
			got := mg.Perft(b, depth)
			want := orthodoxPerft(&ref, depth)
			if got != want {
				t.Logf("board:\n%s", b)
				t.Fatalf("fen %q depth %d: got %d, want %d", fen, depth, got, want)
			}
		}
	}
}

func BenchmarkPerft4(b *testing.B) {
	board := mg.NewBoard()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if n := mg.Perft(board, 4); n != perftStartExpected[4] {
			b.Fatalf("perft 4: got %d", n)
		}
	}
}

func BenchmarkGenerateMoves(b *testing.B) {
	board := mg.NewBoard()
	buf := make([]mg.Move, 0, 256)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = board.GenerateMovesInto(buf)
	}
	_ = buf
}
