package absorbmg

import (
	"errors"
	"strings"
)

// FENStartPos is the FEN string for the standard initial position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// pieceTypeFromChar converts a FEN character to a piece type and color.
func pieceTypeFromChar(ch rune) (PieceType, Color, bool) {
	c := White
	if ch >= 'a' && ch <= 'z' {
		c = Black
		ch -= 'a' - 'A'
	}
	switch ch {
	case 'P':
		return Pawn, c, true
	case 'N':
		return Knight, c, true
	case 'B':
		return Bishop, c, true
	case 'R':
		return Rook, c, true
	case 'Q':
		return Queen, c, true
	case 'K':
		return King, c, true
	default:
		return NoPieceType, c, false
	}
}

// ParseFEN parses a FEN string and returns a new Board set up to that
// position with no absorbed abilities. FEN carries no ability information;
// castling rights are translated into the moved mask (a missing right marks
// the corresponding rook, or the king when both rights are gone).
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Split(fen, " ")
	if len(fields) < 4 {
		return nil, errors.New("invalid FEN: not enough fields")
	}

	board := &Board{enPassantSquare: NoSquare}

	// 1. Piece placement
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, errors.New("invalid FEN: incorrect number of ranks")
	}

	for i, rankStr := range ranks {
		if len(rankStr) == 0 {
			return nil, errors.New("invalid FEN: empty rank description")
		}
		rankIndex := 7 - i // first FEN rank is rank 8
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
			} else {
				t, c, ok := pieceTypeFromChar(ch)
				if !ok {
					return nil, errors.New("invalid FEN: unrecognized piece character")
				}
				if file >= 8 {
					return nil, errors.New("invalid FEN: too many squares in rank")
				}
				sq := rankIndex*8 + file
				board.pieceBB[c][t] |= uint64(1) << uint(sq)
				file++
			}
		}
		if file != 8 {
			return nil, errors.New("invalid FEN: rank does not have 8 columns")
		}
	}
	board.refreshOccupancy()

	// 2. Side to move
	switch fields[1] {
	case "w":
		board.sideToMove = White
	case "b":
		board.sideToMove = Black
	default:
		return nil, errors.New("invalid FEN: side to move must be 'w' or 'b'")
	}

	// 3. Castling rights, recorded as moved-piece bits
	hasK := strings.ContainsRune(fields[2], 'K')
	hasQ := strings.ContainsRune(fields[2], 'Q')
	hask := strings.ContainsRune(fields[2], 'k')
	hasq := strings.ContainsRune(fields[2], 'q')
	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K', 'Q', 'k', 'q':
			default:
				return nil, errors.New("invalid FEN: invalid castling rights character")
			}
		}
	}
	if !hasK && board.pieceBB[White][Rook]&bb(7) != 0 {
		board.movedBB[White] |= bb(7)
	}
	if !hasQ && board.pieceBB[White][Rook]&bb(0) != 0 {
		board.movedBB[White] |= bb(0)
	}
	if !hasK && !hasQ && board.pieceBB[White][King]&bb(4) != 0 {
		board.movedBB[White] |= bb(4)
	}
	if !hask && board.pieceBB[Black][Rook]&bb(63) != 0 {
		board.movedBB[Black] |= bb(63)
	}
	if !hasq && board.pieceBB[Black][Rook]&bb(56) != 0 {
		board.movedBB[Black] |= bb(56)
	}
	if !hask && !hasq && board.pieceBB[Black][King]&bb(60) != 0 {
		board.movedBB[Black] |= bb(60)
	}

	// 4. En passant target square
	if fields[3] != "-" {
		if len(fields[3]) != 2 {
			return nil, errors.New("invalid FEN: invalid en passant square")
		}
		fileChar := fields[3][0]
		rankChar := fields[3][1]
		if fileChar < 'a' || fileChar > 'h' || rankChar < '1' || rankChar > '8' {
			return nil, errors.New("invalid FEN: en passant square out of range")
		}
		file := int(fileChar - 'a')
		rank := int(rankChar - '1')
		board.enPassantSquare = Square(rank*8 + file)
	}

	// Halfmove clock and fullmove number are accepted but not tracked.
	return board, nil
}

// ToFEN produces the FEN string representation of the board's current state.
// Absorbed abilities are not representable in FEN and are omitted; castling
// rights are derived from the moved mask and castled state.
func (b *Board) ToFEN() string {
	var sb strings.Builder

	// 1. Piece placement
	for rank := 7; rank >= 0; rank-- {
		emptyCount := 0
		for file := 0; file < 8; file++ {
			sq := Square(rank*8 + file)
			t, c, ok := b.PieceTypeAt(sq)
			if !ok {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte('0' + byte(emptyCount))
				emptyCount = 0
			}
			ch := pieceTypeChars[t]
			if c == Black {
				ch += 'a' - 'A'
			}
			sb.WriteByte(ch)
		}
		if emptyCount > 0 {
			sb.WriteByte('0' + byte(emptyCount))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')

	// 2. Side to move
	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')

	// 3. Castling rights
	rights := ""
	if !b.castled[White] && b.pieceBB[White][King]&bb(4) != 0 && b.movedBB[White]&bb(4) == 0 {
		if b.pieceBB[White][Rook]&bb(7) != 0 && b.movedBB[White]&bb(7) == 0 {
			rights += "K"
		}
		if b.pieceBB[White][Rook]&bb(0) != 0 && b.movedBB[White]&bb(0) == 0 {
			rights += "Q"
		}
	}
	if !b.castled[Black] && b.pieceBB[Black][King]&bb(60) != 0 && b.movedBB[Black]&bb(60) == 0 {
		if b.pieceBB[Black][Rook]&bb(63) != 0 && b.movedBB[Black]&bb(63) == 0 {
			rights += "k"
		}
		if b.pieceBB[Black][Rook]&bb(56) != 0 && b.movedBB[Black]&bb(56) == 0 {
			rights += "q"
		}
	}
	if rights == "" {
		rights = "-"
	}
	sb.WriteString(rights)
	sb.WriteByte(' ')

	// 4. En passant square
	if b.enPassantSquare != NoSquare {
		sb.WriteByte('a' + byte(b.enPassantSquare.File()))
		sb.WriteByte('1' + byte(b.enPassantSquare.Rank()))
	} else {
		sb.WriteByte('-')
	}

	// 5/6. Clocks are not tracked.
	sb.WriteString(" 0 1")
	return sb.String()
}
