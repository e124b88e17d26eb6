package absorbmg_test

import (
	"math/rand"
	"testing"

	mg "github.com/MingyeeOAO/absorb-chess/absorbmg"
)

func mustParse(t *testing.T, fen string) *mg.Board {
	t.Helper()
	b, err := mg.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func findMove(moves []mg.Move, s string) (mg.Move, bool) {
	for _, m := range moves {
		if m.String() == s {
			return m, true
		}
	}
	return 0, false
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for game := 0; game < 8; game++ {
		b := mg.NewBoard()
		var states []mg.MoveState
		var played []mg.Move
		var snaps []mg.Snapshot

		for ply := 0; ply < 80; ply++ {
			moves := b.GenerateMoves()
			if len(moves) == 0 {
				break
			}
			snaps = append(snaps, b.Snapshot())
			m := moves[rng.Intn(len(moves))]
			ok, st := b.MakeMove(m)
			if !ok {
				t.Logf("board:\n%s", b)
				t.Fatalf("game %d ply %d: legal move %s rejected", game, ply, m)
			}
			if !b.Validate() {
				t.Logf("board after %s:\n%s", m, b)
				t.Fatalf("game %d ply %d: board invalid after %s", game, ply, m)
			}
			states = append(states, st)
			played = append(played, m)
		}

		for i := len(played) - 1; i >= 0; i-- {
			b.UnmakeMove(played[i], states[i])
			if got := b.Snapshot(); got != snaps[i] {
				t.Logf("board:\n%s", b)
				t.Fatalf("game %d: state mismatch after unmaking %s", game, played[i])
			}
		}
	}
}

func TestCaptureAbsorbsVictimType(t *testing.T) {
	b := mustParse(t, "k7/8/8/3p4/8/2N5/8/K7 w - - 0 1")
	moves := b.GenerateMoves()
	m, found := findMove(moves, "c3d5")
	if !found {
		t.Fatalf("Nxd5 not generated; moves: %v", moves)
	}
	if ok, _ := b.MakeMove(m); !ok {
		t.Fatalf("Nxd5 rejected")
	}
	d5 := mg.Square(35)
	if !b.HasAbility(mg.White, d5, mg.Pawn) {
		t.Fatalf("knight should absorb pawn movement after Nxd5")
	}
	if b.Abilities(mg.White, d5) != 1<<mg.Pawn {
		t.Fatalf("knight abilities: got %#x, want pawn only", b.Abilities(mg.White, d5))
	}
}

func TestSameTypeCaptureAbsorbsNothing(t *testing.T) {
	b := mustParse(t, "k7/8/8/3p4/2P5/8/8/K7 w - - 0 1")
	moves := b.GenerateMoves()
	m, found := findMove(moves, "c4d5")
	if !found {
		t.Fatalf("cxd5 not generated")
	}
	if ok, _ := b.MakeMove(m); !ok {
		t.Fatalf("cxd5 rejected")
	}
	if b.Abilities(mg.White, 35) != 0 {
		t.Fatalf("pawn takes pawn must not grant an ability")
	}
}

func TestVictimAbilitiesAreErased(t *testing.T) {
	b := mustParse(t, "k7/8/8/3p4/8/2N5/8/K7 w - - 0 1")
	// The victim pawn carries a rook ability it absorbed earlier.
	b.GrantAbility(mg.Black, 35, mg.Rook)

	m, found := findMove(b.GenerateMoves(), "c3d5")
	if !found {
		t.Fatalf("Nxd5 not generated")
	}
	if ok, _ := b.MakeMove(m); !ok {
		t.Fatalf("Nxd5 rejected")
	}
	// Only the victim's base type transfers; its absorbed abilities die with it.
	if b.HasAbility(mg.White, 35, mg.Rook) {
		t.Fatalf("captor must not inherit the victim's absorbed abilities")
	}
	if !b.HasAbility(mg.White, 35, mg.Pawn) {
		t.Fatalf("captor should gain the victim's base type")
	}
	for tp := mg.PieceType(0); tp < 6; tp++ {
		if b.AbilityMask(mg.Black, tp) != 0 {
			t.Fatalf("black abilities should be empty after the capture")
		}
	}
}

func TestAbilitiesTravelWithPiece(t *testing.T) {
	b := mustParse(t, "7k/8/8/8/4N3/8/8/7K w - - 0 1")
	e4 := mg.Square(28)
	b.GrantAbility(mg.White, e4, mg.Rook)

	m, found := findMove(b.GenerateMoves(), "e4e8")
	if !found {
		t.Fatalf("rook-ability slide e4e8 not generated")
	}
	if ok, _ := b.MakeMove(m); !ok {
		t.Fatalf("e4e8 rejected")
	}
	if !b.HasAbility(mg.White, 60, mg.Rook) {
		t.Fatalf("ability should move with the piece to e8")
	}
	if b.AbilityMask(mg.White, mg.Rook)&(1<<28) != 0 {
		t.Fatalf("ability bit left behind on e4")
	}
}

func TestPromotionKeepsAbsorbedAbilities(t *testing.T) {
	b := mustParse(t, "7k/P7/8/8/8/8/8/7K w - - 0 1")
	a7 := mg.Square(48)
	b.GrantAbility(mg.White, a7, mg.Knight)

	moves := b.GenerateMoves()
	for _, want := range []string{"a7a8q", "a7a8r", "a7a8b", "a7a8n"} {
		if _, found := findMove(moves, want); !found {
			t.Fatalf("promotion %s not generated", want)
		}
	}

	m, _ := findMove(moves, "a7a8q")
	if ok, _ := b.MakeMove(m); !ok {
		t.Fatalf("a7a8q rejected")
	}
	tp, c, occ := b.PieceTypeAt(56)
	if !occ || tp != mg.Queen || c != mg.White {
		t.Fatalf("a8 should hold a white queen, got %v %v %v", tp, c, occ)
	}
	if !b.HasAbility(mg.White, 56, mg.Knight) {
		t.Fatalf("knight ability should survive promotion")
	}
	if b.HasAbility(mg.White, 56, mg.Pawn) {
		t.Fatalf("pawn ability must be shed on promotion")
	}
}

func TestPromotionCaptureAbsorbsAfterTransform(t *testing.T) {
	b := mustParse(t, "1r5k/P7/8/8/8/8/8/7K w - - 0 1")
	m, found := findMove(b.GenerateMoves(), "a7b8q")
	if !found {
		t.Fatalf("capture promotion a7b8q not generated")
	}
	if ok, _ := b.MakeMove(m); !ok {
		t.Fatalf("a7b8q rejected")
	}
	// The pawn becomes a queen before absorbing, so the rook's type is a
	// genuine gain for the new queen.
	if !b.HasAbility(mg.White, 57, mg.Rook) {
		t.Fatalf("promoted queen should absorb the rook type")
	}
}

func TestCastlingMovesRookAndSetsFlag(t *testing.T) {
	b := mustParse(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	moves := b.GenerateMoves()
	m, found := findMove(moves, "e1g1")
	if !found {
		t.Fatalf("kingside castle not generated")
	}
	if _, foundQ := findMove(moves, "e1c1"); !foundQ {
		t.Fatalf("queenside castle not generated")
	}
	if ok, _ := b.MakeMove(m); !ok {
		t.Fatalf("e1g1 rejected")
	}
	if tp, _, occ := b.PieceTypeAt(5); !occ || tp != mg.Rook {
		t.Fatalf("rook should land on f1 after castling")
	}
	if tp, _, occ := b.PieceTypeAt(6); !occ || tp != mg.King {
		t.Fatalf("king should land on g1 after castling")
	}
	if !b.HasCastled(mg.White) {
		t.Fatalf("castled flag not set")
	}
}

func TestCastlingGatedByMovedMask(t *testing.T) {
	b := mustParse(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	// Shuffle the h1 rook out and back; the right must stay lost.
	for _, s := range []string{"h1h2", "a8b8", "h2h1", "b8a8"} {
		m, found := findMove(b.GenerateMoves(), s)
		if !found {
			t.Fatalf("%s not generated", s)
		}
		if ok, _ := b.MakeMove(m); !ok {
			t.Fatalf("%s rejected", s)
		}
	}

	moves := b.GenerateMoves()
	if _, found := findMove(moves, "e1g1"); found {
		t.Fatalf("kingside castle should be gone after the rook moved")
	}
	if _, found := findMove(moves, "e1c1"); !found {
		t.Fatalf("queenside castle should survive")
	}
}

func TestEnPassantCapture(t *testing.T) {
	b := mustParse(t, "7k/8/8/8/4p3/8/3P4/7K w - - 0 1")
	m, found := findMove(b.GenerateMoves(), "d2d4")
	if !found {
		t.Fatalf("d2d4 not generated")
	}
	if ok, _ := b.MakeMove(m); !ok {
		t.Fatalf("d2d4 rejected")
	}
	if b.EnPassantSquare() != 19 {
		t.Fatalf("en passant square: got %v, want d3 (19)", b.EnPassantSquare())
	}

	ep, found := findMove(b.GenerateMoves(), "e4d3")
	if !found {
		t.Fatalf("en passant e4d3 not generated")
	}
	if epFlagged := ep.Flag() == mg.FlagEnPassant; !epFlagged {
		t.Fatalf("e4d3 should carry the en passant flag")
	}
	if ok, _ := b.MakeMove(ep); !ok {
		t.Fatalf("e4d3 rejected")
	}
	if _, _, occ := b.PieceTypeAt(27); occ {
		t.Fatalf("captured pawn should be removed from d4")
	}
	if tp, c, occ := b.PieceTypeAt(19); !occ || tp != mg.Pawn || c != mg.Black {
		t.Fatalf("black pawn should stand on d3")
	}
}

func TestEnPassantByAbilityCarrier(t *testing.T) {
	b := mustParse(t, "7k/8/8/8/4n3/8/3P4/7K w - - 0 1")
	b.GrantAbility(mg.Black, 28, mg.Pawn) // knight on e4 moves like a pawn too

	m, found := findMove(b.GenerateMoves(), "d2d4")
	if !found {
		t.Fatalf("d2d4 not generated")
	}
	if ok, _ := b.MakeMove(m); !ok {
		t.Fatalf("d2d4 rejected")
	}

	ep, found := findMove(b.GenerateMoves(), "e4d3")
	if !found {
		t.Fatalf("ability carrier should capture en passant")
	}
	if ok, _ := b.MakeMove(ep); !ok {
		t.Fatalf("e4d3 rejected")
	}
	if _, _, occ := b.PieceTypeAt(27); occ {
		t.Fatalf("captured pawn should be removed from d4")
	}
	if tp, _, occ := b.PieceTypeAt(19); !occ || tp != mg.Knight {
		t.Fatalf("the knight should stand on d3")
	}
}

func TestIllegalMoveRestoresBoard(t *testing.T) {
	// The d2 pawn is pinned against the king by the rook on d8.
	b := mustParse(t, "3r3k/8/8/8/8/2p5/3P4/3K4 w - - 0 1")
	before := b.Snapshot()
	ok, st := b.MakeMove(mg.NewMove(11, 18, mg.FlagQuiet)) // dxc3 exposes the king
	if ok {
		b.UnmakeMove(mg.NewMove(11, 18, mg.FlagQuiet), st)
		t.Fatalf("pinned pawn capture should be rejected")
	}
	if b.Snapshot() != before {
		t.Fatalf("rejected move must leave the board untouched")
	}
}
