package absorbmg

import "math/bits"

// Color identifies a side. White moves first.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return 1 - c }

// PieceType is the base movement kind of a piece. It doubles as an index
// into the per-type bitboard arrays and as a bit position in ability masks.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

var pieceTypeChars = [6]byte{'P', 'N', 'B', 'R', 'Q', 'K'}

// Square represents a board position (0-63), a1=0 .. h8=63.
type Square int

const NoSquare Square = -1

// File returns the file index (0=a .. 7=h).
func (sq Square) File() int { return int(sq) % 8 }

// Rank returns the rank index (0 = white back rank).
func (sq Square) Rank() int { return int(sq) / 8 }

// Board holds the full game state. Each side has a base-type bitboard per
// piece kind plus an ability bitboard per kind: a square set in abilityBB[c][t]
// means the piece of color c on that square has absorbed movement type t.
// Abilities travel with the piece and are erased when it is captured.
type Board struct {
	// Base piece bitboards per color and type (index 0 = white, 1 = black)
	pieceBB [2][6]uint64

	// Absorbed ability bitboards per color and type
	abilityBB [2][6]uint64

	// Occupancy bitboards for each side
	occupancy [2]uint64

	// Squares holding a piece of that color which has moved at least once
	movedBB [2]uint64

	// Whether each side has castled
	castled [2]bool

	// Side to move
	sideToMove Color

	// En passant target square (the skipped square of a double push, else NoSquare)
	enPassantSquare Square

	// Cached static evaluation, invalidated by every move
	evalScore int32
	evalValid bool
}

// NewBoard returns a board set up in the standard starting position with
// no absorbed abilities.
func NewBoard() *Board {
	b := &Board{enPassantSquare: NoSquare}
	b.pieceBB[White][Pawn] = 0x000000000000FF00
	b.pieceBB[White][Knight] = 0x0000000000000042
	b.pieceBB[White][Bishop] = 0x0000000000000024
	b.pieceBB[White][Rook] = 0x0000000000000081
	b.pieceBB[White][Queen] = 0x0000000000000008
	b.pieceBB[White][King] = 0x0000000000000010
	b.pieceBB[Black][Pawn] = 0x00FF000000000000
	b.pieceBB[Black][Knight] = 0x4200000000000000
	b.pieceBB[Black][Bishop] = 0x2400000000000000
	b.pieceBB[Black][Rook] = 0x8100000000000000
	b.pieceBB[Black][Queen] = 0x0800000000000000
	b.pieceBB[Black][King] = 0x1000000000000000
	b.refreshOccupancy()
	return b
}

// ==========================
// Bitboard helpers
// ==========================

// bb returns a bitboard with the given square bit set.
func bb(sq Square) uint64 { return 1 << uint64(sq) }

// popLSB removes and returns the least significant set bit from the mask.
func popLSB(mask *uint64) int {
	x := *mask & -(*mask)
	idx := bits.TrailingZeros64(x)
	*mask &= *mask - 1
	return idx
}

// refreshOccupancy recomputes both occupancy bitboards from the base bitboards.
func (b *Board) refreshOccupancy() {
	for c := 0; c < 2; c++ {
		var occ uint64
		for t := 0; t < 6; t++ {
			occ |= b.pieceBB[c][t]
		}
		b.occupancy[c] = occ
	}
}

// ==========================
// Accessors
// ==========================

// SideToMove reports which side is to play.
func (b *Board) SideToMove() Color { return b.sideToMove }

// EnPassantSquare returns the current en-passant target square or NoSquare.
func (b *Board) EnPassantSquare() Square { return b.enPassantSquare }

// AllOccupancy returns a bitboard of all occupied squares.
func (b *Board) AllOccupancy() uint64 { return b.occupancy[0] | b.occupancy[1] }

// ColorOccupancy returns the occupancy bitboard for the given color.
func (b *Board) ColorOccupancy(c Color) uint64 { return b.occupancy[int(c)] }

// PieceMask returns the base bitboard for the given color and piece type.
func (b *Board) PieceMask(c Color, t PieceType) uint64 { return b.pieceBB[int(c)][t] }

// AbilityMask returns the ability bitboard for the given color and type.
func (b *Board) AbilityMask(c Color, t PieceType) uint64 { return b.abilityBB[int(c)][t] }

// MovedMask returns the bitboard of squares whose piece of the given color has moved.
func (b *Board) MovedMask(c Color) uint64 { return b.movedBB[int(c)] }

// HasCastled reports whether the given side has castled.
func (b *Board) HasCastled(c Color) bool { return b.castled[int(c)] }

// PieceTypeAt returns the base type and color of the piece on sq.
// ok is false for an empty square.
func (b *Board) PieceTypeAt(sq Square) (t PieceType, c Color, ok bool) {
	bit := bb(sq)
	for ci := 0; ci < 2; ci++ {
		if b.occupancy[ci]&bit == 0 {
			continue
		}
		for ti := 0; ti < 6; ti++ {
			if b.pieceBB[ci][ti]&bit != 0 {
				return PieceType(ti), Color(ci), true
			}
		}
	}
	return NoPieceType, White, false
}

// baseTypeAt returns the base type of the piece of color c on sq.
// The caller must ensure the square is occupied by that color.
func (b *Board) baseTypeAt(c int, sq int) PieceType {
	bit := uint64(1) << uint(sq)
	for t := 0; t < 6; t++ {
		if b.pieceBB[c][t]&bit != 0 {
			return PieceType(t)
		}
	}
	return NoPieceType
}

// Abilities returns the absorbed ability set of the piece of color c on sq
// as a bitmask over PieceType bit positions.
func (b *Board) Abilities(c Color, sq Square) uint8 {
	bit := bb(sq)
	ci := int(c)
	var mask uint8
	for t := 0; t < 6; t++ {
		if b.abilityBB[ci][t]&bit != 0 {
			mask |= 1 << uint(t)
		}
	}
	return mask
}

// HasAbility reports whether the piece of color c on sq has absorbed type t.
func (b *Board) HasAbility(c Color, sq Square, t PieceType) bool {
	return b.abilityBB[int(c)][t]&bb(sq) != 0
}

// GrantAbility sets an absorbed ability on the piece of color c on sq.
// Intended for position setup and tests; normal play grants abilities
// through MakeMove captures.
func (b *Board) GrantAbility(c Color, sq Square, t PieceType) {
	b.abilityBB[int(c)][t] |= bb(sq)
	b.evalValid = false
}

// CachedEval returns the cached static evaluation if still valid.
func (b *Board) CachedEval() (int32, bool) { return b.evalScore, b.evalValid }

// StoreEval caches a static evaluation for the current position.
func (b *Board) StoreEval(score int32) {
	b.evalScore = score
	b.evalValid = true
}

// ==========================
// Game status
// ==========================

// HasLegalMoves reports whether the side to move has any legal moves.
func (b *Board) HasLegalMoves() bool {
	buf := make([]Move, 0, 64)
	moves := b.GenerateMovesInto(buf)
	return len(moves) > 0
}

// InCheckmate reports whether the side to move is checkmated.
func (b *Board) InCheckmate() bool {
	return b.InCheck(b.sideToMove) && !b.HasLegalMoves()
}

// InStalemate reports whether the side to move is stalemated.
func (b *Board) InStalemate() bool {
	return !b.InCheck(b.sideToMove) && !b.HasLegalMoves()
}

// GameOver reports whether the side to move has no legal moves.
func (b *Board) GameOver() bool { return !b.HasLegalMoves() }

// ==========================
// Consistency checks
// ==========================

// Validate checks internal consistency: exactly one base type per occupied
// square, occupancy matching the base bitboards, no ability bit on an empty
// square or duplicating the base type, exactly one king per side, and a
// sound en passant square. Returns true if consistent.
func (b *Board) Validate() bool {
	for c := 0; c < 2; c++ {
		var occ uint64
		for t := 0; t < 6; t++ {
			for u := t + 1; u < 6; u++ {
				if b.pieceBB[c][t]&b.pieceBB[c][u] != 0 {
					return false
				}
			}
			occ |= b.pieceBB[c][t]
		}
		if occ != b.occupancy[c] {
			return false
		}
		for t := 0; t < 6; t++ {
			if b.abilityBB[c][t]&^occ != 0 {
				return false
			}
			if b.abilityBB[c][t]&b.pieceBB[c][t] != 0 {
				return false
			}
		}
		if b.movedBB[c]&^occ != 0 {
			return false
		}
		if bits.OnesCount64(b.pieceBB[c][King]) != 1 {
			return false
		}
	}
	if b.occupancy[White]&b.occupancy[Black] != 0 {
		return false
	}
	if b.enPassantSquare != NoSquare {
		r := b.enPassantSquare.Rank()
		if r != 2 && r != 5 {
			return false
		}
		if b.AllOccupancy()&bb(b.enPassantSquare) != 0 {
			return false
		}
	}
	return true
}

// String renders the board as an 8x8 diagram, rank 8 first. Base types use
// FEN letters; a piece with absorbed abilities is marked with a trailing '+'.
func (b *Board) String() string {
	var out []byte
	for rank := 7; rank >= 0; rank-- {
		out = append(out, byte('1'+rank), ' ')
		for file := 0; file < 8; file++ {
			sq := Square(rank*8 + file)
			t, c, ok := b.PieceTypeAt(sq)
			if !ok {
				out = append(out, '.', ' ', ' ')
				continue
			}
			ch := pieceTypeChars[t]
			if c == Black {
				ch += 'a' - 'A'
			}
			out = append(out, ch)
			if b.Abilities(c, sq) != 0 {
				out = append(out, '+', ' ')
			} else {
				out = append(out, ' ', ' ')
			}
		}
		out = append(out, '\n')
	}
	out = append(out, ' ', ' ')
	for file := 0; file < 8; file++ {
		out = append(out, byte('a'+file), ' ', ' ')
	}
	out = append(out, '\n')
	return string(out)
}
