package absorbmg

import "errors"

// Snapshot cell bit flags. Exactly one base bit is set on an occupied cell;
// ability bits mirror the base bits shifted by six. A zero cell is empty.
const (
	SnapPawn   uint32 = 1 << iota // base movement type
	SnapKnight
	SnapBishop
	SnapRook
	SnapQueen
	SnapKing
	SnapAbilityPawn // absorbed abilities
	SnapAbilityKnight
	SnapAbilityBishop
	SnapAbilityRook
	SnapAbilityQueen
	SnapAbilityKing
	SnapHasMoved
	SnapIsWhite
)

const snapBaseMask = SnapPawn | SnapKnight | SnapBishop | SnapRook | SnapQueen | SnapKing

// Snapshot is the grid exchange format used by external drivers. Grid is in
// row-major visual order: Grid[0] is rank 8 and Grid[7] is rank 1.
// EnPassantCol/EnPassantRow are -1 when no en passant capture is available.
type Snapshot struct {
	Grid         [8][8]uint32
	WhiteToMove  bool
	WhiteCastled bool
	BlackCastled bool
	EnPassantCol int
	EnPassantRow int
}

// SquareFromRowCol converts visual grid coordinates (row 0 = rank 8) to a Square.
func SquareFromRowCol(row, col int) Square { return Square((7-row)*8 + col) }

// RowCol converts a Square to visual grid coordinates (row 0 = rank 8).
func (sq Square) RowCol() (row, col int) { return 7 - sq.Rank(), sq.File() }

// EncodeSquare returns the snapshot cell value for a square, or 0 if empty.
func (b *Board) EncodeSquare(sq Square) uint32 {
	t, c, ok := b.PieceTypeAt(sq)
	if !ok {
		return 0
	}
	cell := SnapPawn << uint(t)
	cell |= uint32(b.Abilities(c, sq)) << 6
	if b.movedBB[c]&bb(sq) != 0 {
		cell |= SnapHasMoved
	}
	if c == White {
		cell |= SnapIsWhite
	}
	return cell
}

// Snapshot captures the full board state in the exchange format.
func (b *Board) Snapshot() Snapshot {
	var s Snapshot
	for sq := Square(0); sq < 64; sq++ {
		row, col := sq.RowCol()
		s.Grid[row][col] = b.EncodeSquare(sq)
	}
	s.WhiteToMove = b.sideToMove == White
	s.WhiteCastled = b.castled[White]
	s.BlackCastled = b.castled[Black]
	s.EnPassantCol, s.EnPassantRow = -1, -1
	if b.enPassantSquare != NoSquare {
		s.EnPassantRow, s.EnPassantCol = b.enPassantSquare.RowCol()
	}
	return s
}

// FromSnapshot builds a board from the exchange format. Returns an error on
// malformed cells, a missing or duplicated king, or an unsound en passant square.
func FromSnapshot(s Snapshot) (*Board, error) {
	b := &Board{enPassantSquare: NoSquare}

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			cell := s.Grid[row][col]
			if cell == 0 {
				continue
			}
			base := cell & snapBaseMask
			if base == 0 || base&(base-1) != 0 {
				return nil, errors.New("invalid snapshot: cell must have exactly one base type")
			}
			c := Black
			if cell&SnapIsWhite != 0 {
				c = White
			}
			sq := SquareFromRowCol(row, col)
			var t PieceType
			for base != 1 {
				base >>= 1
				t++
			}
			b.pieceBB[c][t] |= bb(sq)
			for a := PieceType(0); a < 6; a++ {
				if cell&(SnapAbilityPawn<<uint(a)) != 0 && a != t {
					b.abilityBB[c][a] |= bb(sq)
				}
			}
			if cell&SnapHasMoved != 0 {
				b.movedBB[c] |= bb(sq)
			}
		}
	}
	b.refreshOccupancy()

	if !s.WhiteToMove {
		b.sideToMove = Black
	}
	b.castled[White] = s.WhiteCastled
	b.castled[Black] = s.BlackCastled

	if s.EnPassantCol >= 0 && s.EnPassantRow >= 0 {
		if s.EnPassantCol > 7 || s.EnPassantRow > 7 {
			return nil, errors.New("invalid snapshot: en passant square out of range")
		}
		b.enPassantSquare = SquareFromRowCol(s.EnPassantRow, s.EnPassantCol)
	}

	if !b.Validate() {
		return nil, errors.New("invalid snapshot: inconsistent board state")
	}
	return b, nil
}
