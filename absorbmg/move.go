package absorbmg

// Move encodes a move in a 16-bit value. Captures are not encoded in the
// move itself; MakeMove reads the victim off the board.
type Move uint16

// Bitfield layout within Move (from LSB to MSB)
const (
	moveFromShift = 0  // 6 bits
	moveToShift   = 6  // 6 bits
	moveFlagShift = 12 // 4 bits
)

// Move flags
const (
	FlagQuiet uint8 = iota
	FlagEnPassant
	FlagCastleKing
	FlagCastleQueen
	FlagPromoteQueen
	FlagPromoteRook
	FlagPromoteBishop
	FlagPromoteKnight
)

// NewMove constructs a Move value from components.
func NewMove(from, to Square, flag uint8) Move {
	return Move(uint16(from&0x3F) |
		(uint16(to&0x3F) << moveToShift) |
		(uint16(flag&0xF) << moveFlagShift))
}

// From returns the source square of the move.
func (m Move) From() Square { return Square((uint16(m) >> moveFromShift) & 0x3F) }

// To returns the destination square of the move.
func (m Move) To() Square { return Square((uint16(m) >> moveToShift) & 0x3F) }

// Flag returns the special move flag.
func (m Move) Flag() uint8 { return uint8((uint16(m) >> moveFlagShift) & 0xF) }

// IsPromotion reports whether the move carries a promotion flag.
func (m Move) IsPromotion() bool { return m.Flag() >= FlagPromoteQueen }

// IsCastle reports whether the move is a castle (either wing).
func (m Move) IsCastle() bool {
	f := m.Flag()
	return f == FlagCastleKing || f == FlagCastleQueen
}

// PromotionType returns the promoted-to piece type, or NoPieceType for
// non-promotion moves.
func (m Move) PromotionType() PieceType {
	switch m.Flag() {
	case FlagPromoteQueen:
		return Queen
	case FlagPromoteRook:
		return Rook
	case FlagPromoteBishop:
		return Bishop
	case FlagPromoteKnight:
		return Knight
	default:
		return NoPieceType
	}
}

// String produces a coordinate representation of the move (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	fromSq := m.From()
	toSq := m.To()

	s := []byte{
		'a' + byte(fromSq.File()), '1' + byte(fromSq.Rank()),
		'a' + byte(toSq.File()), '1' + byte(toSq.Rank()),
	}
	switch m.Flag() {
	case FlagPromoteQueen:
		s = append(s, 'q')
	case FlagPromoteRook:
		s = append(s, 'r')
	case FlagPromoteBishop:
		s = append(s, 'b')
	case FlagPromoteKnight:
		s = append(s, 'n')
	}
	return string(s)
}
