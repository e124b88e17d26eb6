package absorbmg

// filter modes for selective generation
const (
	genAll = iota
	genCaptures
	genQuiets
)

// generatePseudoFilteredInto appends pseudo-legal moves matching the filter
// into dst. A piece moves as the union of its base type and every absorbed
// ability; destinations reachable through more than one kind are emitted once.
// King safety is not checked here.
func (b *Board) generatePseudoFilteredInto(dst []Move, filter int) []Move {
	moves := dst[:0]
	side := b.sideToMove
	us := int(side)
	them := 1 - us

	ownOcc := b.occupancy[us]
	oppOcc := b.occupancy[them]
	allOcc := ownOcc | oppOcc

	promoRank := 7
	pushDir := 8
	doubleRank := 1
	if side == Black {
		promoRank = 0
		pushDir = -8
		doubleRank = 6
	}

	pieces := ownOcc
	for pieces != 0 {
		from := popLSB(&pieces)
		fromSq := Square(from)
		base := b.baseTypeAt(us, from)
		kinds := uint8(1<<base) | b.Abilities(side, fromSq)

		// Accumulate destinations per kind into bitboards so overlapping
		// abilities produce one move per square.
		var caps, quiets uint64

		if kinds&(1<<Knight) != 0 {
			t := knightMoves[from] &^ ownOcc
			caps |= t & oppOcc
			quiets |= t &^ oppOcc
		}
		if kinds&(1<<King) != 0 {
			t := kingMoves[from] &^ ownOcc
			caps |= t & oppOcc
			quiets |= t &^ oppOcc
		}
		if kinds&(1<<Bishop|1<<Queen) != 0 {
			t := bishopAttacksMagic(from, allOcc) &^ ownOcc
			caps |= t & oppOcc
			quiets |= t &^ oppOcc
		}
		if kinds&(1<<Rook|1<<Queen) != 0 {
			t := rookAttacksMagic(from, allOcc) &^ ownOcc
			caps |= t & oppOcc
			quiets |= t &^ oppOcc
		}
		if kinds&(1<<Pawn) != 0 {
			// Diagonal captures apply to true pawns and ability carriers alike.
			caps |= pawnAttacks[us][from] & oppOcc

			// Pushes are exclusive to the true pawn.
			if base == Pawn {
				one := from + pushDir
				if ((allOcc >> uint(one)) & 1) == 0 {
					quiets |= uint64(1) << uint(one)
					if from/8 == doubleRank {
						two := from + 2*pushDir
						if ((allOcc >> uint(two)) & 1) == 0 {
							quiets |= uint64(1) << uint(two)
						}
					}
				}
			}

			if b.enPassantSquare != NoSquare {
				ep := int(b.enPassantSquare)
				if pawnAttacks[us][from]&(uint64(1)<<uint(ep)) != 0 {
					if filter != genQuiets {
						moves = append(moves, NewMove(fromSq, Square(ep), FlagEnPassant))
					}
				}
			}
		}

		if filter != genQuiets {
			for t := caps; t != 0; {
				to := popLSB(&t)
				toSq := Square(to)
				if base == Pawn && to/8 == promoRank {
					moves = append(moves,
						NewMove(fromSq, toSq, FlagPromoteQueen),
						NewMove(fromSq, toSq, FlagPromoteRook),
						NewMove(fromSq, toSq, FlagPromoteBishop),
						NewMove(fromSq, toSq, FlagPromoteKnight),
					)
				} else {
					moves = append(moves, NewMove(fromSq, toSq, FlagQuiet))
				}
			}
		}
		if filter != genCaptures {
			for t := quiets; t != 0; {
				to := popLSB(&t)
				toSq := Square(to)
				if base == Pawn && to/8 == promoRank {
					moves = append(moves,
						NewMove(fromSq, toSq, FlagPromoteQueen),
						NewMove(fromSq, toSq, FlagPromoteRook),
						NewMove(fromSq, toSq, FlagPromoteBishop),
						NewMove(fromSq, toSq, FlagPromoteKnight),
					)
				} else {
					moves = append(moves, NewMove(fromSq, toSq, FlagQuiet))
				}
			}
		}
	}

	// Castling is reserved for the true king; the king ability never confers it.
	if filter != genCaptures && !b.castled[us] {
		home := 4
		if side == Black {
			home = 60
		}
		homeBB := uint64(1) << uint(home)
		if b.pieceBB[us][King]&homeBB != 0 && b.movedBB[us]&homeBB == 0 &&
			!b.isSquareAttackedWithOcc(home, Color(them), allOcc) {

			// King side: king home -> home+2, rook on the h-file corner.
			rookK := uint64(1) << uint(home+3)
			if b.pieceBB[us][Rook]&rookK != 0 && b.movedBB[us]&rookK == 0 {
				path := uint64(1)<<uint(home+1) | uint64(1)<<uint(home+2)
				if allOcc&path == 0 &&
					!b.isSquareAttackedWithOcc(home+1, Color(them), allOcc) &&
					!b.isSquareAttackedWithOcc(home+2, Color(them), allOcc) {
					moves = append(moves, NewMove(Square(home), Square(home+2), FlagCastleKing))
				}
			}

			// Queen side: king home -> home-2, rook on the a-file corner.
			rookQ := uint64(1) << uint(home-4)
			if b.pieceBB[us][Rook]&rookQ != 0 && b.movedBB[us]&rookQ == 0 {
				path := uint64(1)<<uint(home-1) | uint64(1)<<uint(home-2) | uint64(1)<<uint(home-3)
				if allOcc&path == 0 &&
					!b.isSquareAttackedWithOcc(home-1, Color(them), allOcc) &&
					!b.isSquareAttackedWithOcc(home-2, Color(them), allOcc) {
					moves = append(moves, NewMove(Square(home), Square(home-2), FlagCastleQueen))
				}
			}
		}
	}

	return moves
}

// generateMovesFilteredInto appends legal moves matching the filter into dst.
// Legality is settled by making each pseudo-legal move and undoing it.
func (b *Board) generateMovesFilteredInto(dst []Move, filter int) []Move {
	moves := b.generatePseudoFilteredInto(dst, filter)
	out := moves[:0]
	for _, m := range moves {
		if ok, st := b.MakeMove(m); ok {
			b.UnmakeMove(m, st)
			out = append(out, m)
		}
	}
	return out
}

// GenerateMoves generates all legal moves for the current side to move.
// It allocates a new slice; prefer GenerateMovesInto to reuse buffers in hot paths.
func (b *Board) GenerateMoves() []Move { return b.GenerateMovesInto(make([]Move, 0, 128)) }

// GenerateMovesInto appends all legal moves for the side to move into dst and returns it.
// The dst slice is truncated (len=0) and reused to avoid allocations when capacity suffices.
func (b *Board) GenerateMovesInto(dst []Move) []Move {
	return b.generateMovesFilteredInto(dst, genAll)
}

// GenerateCapturesInto appends all legal captures (including en passant and capture promotions).
func (b *Board) GenerateCapturesInto(dst []Move) []Move {
	return b.generateMovesFilteredInto(dst, genCaptures)
}

// GenerateQuietsInto appends all legal non-capturing moves (includes non-capturing promotions and castling).
func (b *Board) GenerateQuietsInto(dst []Move) []Move {
	return b.generateMovesFilteredInto(dst, genQuiets)
}

// GenerateCaptures returns a newly allocated slice of legal capture moves.
func (b *Board) GenerateCaptures() []Move { return b.GenerateCapturesInto(make([]Move, 0, 128)) }

// GenerateQuiets returns a newly allocated slice of legal non-capturing moves.
func (b *Board) GenerateQuiets() []Move { return b.GenerateQuietsInto(make([]Move, 0, 128)) }

// GeneratePseudoMovesInto appends all pseudo-legal moves (no king-safety
// filtering) into dst and returns it.
func (b *Board) GeneratePseudoMovesInto(dst []Move) []Move {
	return b.generatePseudoFilteredInto(dst, genAll)
}

// GeneratePseudoMoves returns all pseudo-legal moves (allocates a new slice).
func (b *Board) GeneratePseudoMoves() []Move { return b.GeneratePseudoMovesInto(make([]Move, 0, 128)) }

// GenerateLegalMoves is an alias for GenerateMoves.
func (b *Board) GenerateLegalMoves() []Move { return b.GenerateMoves() }
