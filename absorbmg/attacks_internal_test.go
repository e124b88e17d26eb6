package absorbmg

import "testing"

func TestInCheckPanicsWithoutKing(t *testing.T) {
	b := &Board{enPassantSquare: NoSquare}
	b.pieceBB[White][Rook] |= bb(0)
	b.refreshOccupancy()

	defer func() {
		if recover() == nil {
			t.Fatalf("InCheck on a kingless board must panic")
		}
	}()
	b.InCheck(White)
}
