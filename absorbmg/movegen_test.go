package absorbmg_test

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/slices"

	mg "github.com/MingyeeOAO/absorb-chess/absorbmg"
)

func moveStrings(moves []mg.Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func TestLegalMovesMatchOrthodox(t *testing.T) {
	fens := []string{
		mg.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		"4k3/8/8/8/8/8/8/4K2R w K - 0 1",
		"8/8/8/8/k1p4R/8/3P4/3K4 b - - 0 1",
	}

	for _, fen := range fens {
		b, err := mg.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		got := moveStrings(b.GenerateMoves())

		ref := dragontoothmg.ParseFen(fen)
		refMoves := ref.GenerateLegalMoves()
		want := make([]string, 0, len(refMoves))
		for i := range refMoves {
			want = append(want, refMoves[i].String())
		}
		slices.Sort(want)
		want = slices.Compact(want)

		if !slices.Equal(got, want) {
			t.Logf("board:\n%s", b)
			t.Logf("got:  %v", got)
			t.Logf("want: %v", want)
			t.Fatalf("fen %q: legal moves diverge from orthodox reference", fen)
		}
	}
}

func TestAbilityExtendsMovement(t *testing.T) {
	b := mustParse(t, "7k/8/8/8/4N3/8/8/7K w - - 0 1")
	base := moveStrings(b.GenerateMoves())

	b.GrantAbility(mg.White, 28, mg.Rook)
	extended := moveStrings(b.GenerateMoves())

	// An ability only ever adds moves.
	for _, s := range base {
		if !slices.Contains(extended, s) {
			t.Fatalf("knight move %s lost after gaining the rook ability", s)
		}
	}
	for _, s := range []string{"e4e1", "e4a4", "e4h4", "e4e8"} {
		if !slices.Contains(extended, s) {
			t.Fatalf("rook slide %s missing from the augmented knight", s)
		}
	}
	if len(extended) <= len(base) {
		t.Fatalf("rook ability added no moves: %d vs %d", len(extended), len(base))
	}
}

func TestNoDuplicateMovesFromOverlappingAbilities(t *testing.T) {
	b := mustParse(t, "7k/8/8/8/3Q4/8/8/7K w - - 0 1")
	// Rook and bishop abilities fully overlap the queen's movement.
	b.GrantAbility(mg.White, 27, mg.Rook)
	b.GrantAbility(mg.White, 27, mg.Bishop)

	moves := b.GenerateMoves()
	seen := make(map[mg.Move]bool, len(moves))
	for _, m := range moves {
		if seen[m] {
			t.Fatalf("duplicate move %s generated", m)
		}
		seen[m] = true
	}
}

func TestAbilityPawnNeverPushes(t *testing.T) {
	b := mustParse(t, "7k/8/8/3p4/4N3/8/8/7K w - - 0 1")
	b.GrantAbility(mg.White, 28, mg.Pawn)

	moves := moveStrings(b.GenerateMoves())
	if slices.Contains(moves, "e4e5") {
		t.Fatalf("pawn-ability carrier must not push")
	}
	if !slices.Contains(moves, "e4d5") {
		t.Fatalf("pawn-ability carrier should capture diagonally")
	}
}

func TestAbilityCarrierNeverPromotes(t *testing.T) {
	b := mustParse(t, "7k/4N3/8/8/8/8/8/7K w - - 0 1")
	b.GrantAbility(mg.White, 52, mg.Pawn) // knight on e7

	for _, m := range b.GenerateMoves() {
		if m.IsPromotion() {
			t.Fatalf("non-pawn %s must not promote", m)
		}
	}
}

func TestKingAbilityDoesNotCastle(t *testing.T) {
	// A rook standing on e1 with the king ability is not a king.
	b := mustParse(t, "7k/8/8/8/8/8/8/4R2R w - - 0 1")
	b.GrantAbility(mg.White, 4, mg.King)

	// The true king is absent here, so build the check by hand instead.
	for _, m := range b.GeneratePseudoMoves() {
		if m.IsCastle() {
			t.Fatalf("king-ability carrier generated castle %s", m)
		}
	}
}

func TestAttacksIncludeAbilities(t *testing.T) {
	b := mustParse(t, "7k/8/8/8/3R4/8/8/K7 b - - 0 1")
	if b.InCheck(mg.Black) {
		t.Fatalf("rook on d4 does not see h8")
	}
	b.GrantAbility(mg.White, 27, mg.Bishop)
	if !b.InCheck(mg.Black) {
		t.Fatalf("bishop ability on d4 should check the king on h8")
	}
}

func TestCheckmateAndStalemate(t *testing.T) {
	mate := mustParse(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if !mate.InCheckmate() {
		t.Logf("board:\n%s", mate)
		t.Fatalf("fool's mate position should be checkmate")
	}
	if mate.InStalemate() {
		t.Fatalf("checkmate is not stalemate")
	}

	stale := mustParse(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if !stale.InStalemate() {
		t.Logf("board:\n%s", stale)
		t.Fatalf("position should be stalemate")
	}
	if stale.InCheckmate() {
		t.Fatalf("stalemate is not checkmate")
	}
}

func TestCaptureFilterMatchesFullGeneration(t *testing.T) {
	b := mustParse(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	all := b.GenerateMoves()
	caps := b.GenerateCapturesInto(nil)
	quiets := b.GenerateQuietsInto(nil)

	if len(caps)+len(quiets) != len(all) {
		t.Fatalf("capture + quiet split: %d + %d != %d", len(caps), len(quiets), len(all))
	}
	occ := b.ColorOccupancy(mg.Black)
	for _, m := range caps {
		if m.Flag() != mg.FlagEnPassant && occ&(uint64(1)<<uint(m.To())) == 0 {
			t.Fatalf("capture %s lands on an empty square", m)
		}
	}
}
