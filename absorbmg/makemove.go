package absorbmg

import "math/bits"

// MoveState is a full snapshot of the board taken before a move is made.
// Absorption makes moves irreversible in ways a delta record cannot cheaply
// capture, so undo restores the whole state.
type MoveState struct {
	pieceBB         [2][6]uint64
	abilityBB       [2][6]uint64
	occupancy       [2]uint64
	movedBB         [2]uint64
	castled         [2]bool
	sideToMove      Color
	enPassantSquare Square
	evalScore       int32
	evalValid       bool
}

func (b *Board) snapshot() MoveState {
	return MoveState{
		pieceBB:         b.pieceBB,
		abilityBB:       b.abilityBB,
		occupancy:       b.occupancy,
		movedBB:         b.movedBB,
		castled:         b.castled,
		sideToMove:      b.sideToMove,
		enPassantSquare: b.enPassantSquare,
		evalScore:       b.evalScore,
		evalValid:       b.evalValid,
	}
}

// MakeMove executes a pseudo-legal move. If the move leaves the mover's own
// king attacked the board is restored and ok is false. On success the
// returned MoveState must be passed to UnmakeMove to undo.
func (b *Board) MakeMove(m Move) (ok bool, st MoveState) {
	st = b.snapshot()

	us := int(b.sideToMove)
	them := 1 - us
	from := int(m.From())
	to := int(m.To())
	flag := m.Flag()
	fromBB := uint64(1) << uint(from)
	toBB := uint64(1) << uint(to)

	moverType := b.baseTypeAt(us, from)

	// Resolve the capture target. En passant captures the pawn behind the
	// target square; for every other move the victim sits on 'to'.
	capSq := -1
	victimType := NoPieceType
	if flag == FlagEnPassant {
		if us == int(White) {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
		victimType = Pawn
	} else if b.occupancy[them]&toBB != 0 {
		capSq = to
		victimType = b.baseTypeAt(them, to)
	}

	// Remove the victim together with everything it carried.
	if capSq >= 0 {
		capBB := uint64(1) << uint(capSq)
		b.pieceBB[them][victimType] &^= capBB
		for t := 0; t < 6; t++ {
			b.abilityBB[them][t] &^= capBB
		}
		b.movedBB[them] &^= capBB
	}

	// Move the base piece, applying promotion.
	destType := moverType
	if m.IsPromotion() {
		destType = m.PromotionType()
	}
	b.pieceBB[us][moverType] &^= fromBB
	b.pieceBB[us][destType] |= toBB

	// Carry absorbed abilities along, clearing any stale bits on 'to' first.
	for t := 0; t < 6; t++ {
		b.abilityBB[us][t] &^= toBB
		if b.abilityBB[us][t]&fromBB != 0 {
			b.abilityBB[us][t] &^= fromBB
			b.abilityBB[us][t] |= toBB
		}
	}
	if m.IsPromotion() {
		// Promotion sheds the pawn ability; everything else survives.
		b.abilityBB[us][Pawn] &^= toBB
	}

	// Absorption: the captor gains the victim's base movement type unless it
	// already moves that way natively.
	if victimType != NoPieceType && victimType != destType {
		b.abilityBB[us][victimType] |= toBB
	}

	// Castling moves the rook as well.
	if flag == FlagCastleKing || flag == FlagCastleQueen {
		var rFrom, rTo int
		if flag == FlagCastleKing {
			rFrom, rTo = to+1, to-1 // h-file rook to f-file
		} else {
			rFrom, rTo = to-2, to+1 // a-file rook to d-file
		}
		rFromBB := uint64(1) << uint(rFrom)
		rToBB := uint64(1) << uint(rTo)
		b.pieceBB[us][Rook] &^= rFromBB
		b.pieceBB[us][Rook] |= rToBB
		for t := 0; t < 6; t++ {
			if b.abilityBB[us][t]&rFromBB != 0 {
				b.abilityBB[us][t] &^= rFromBB
				b.abilityBB[us][t] |= rToBB
			}
		}
		b.movedBB[us] &^= rFromBB
		b.movedBB[us] |= rToBB
		b.castled[us] = true
	}

	b.movedBB[us] &^= fromBB
	b.movedBB[us] |= toBB

	b.refreshOccupancy()

	// A true pawn double push from its start rank exposes the skipped square
	// to en passant. Rook-ability slides of the same length do not.
	startRank := 1
	if us == int(Black) {
		startRank = 6
	}
	if moverType == Pawn && from/8 == startRank && (to-from == 16 || from-to == 16) {
		b.enPassantSquare = Square((from + to) / 2)
	} else {
		b.enPassantSquare = NoSquare
	}

	b.sideToMove = 1 - b.sideToMove
	b.evalValid = false

	// Legality: the mover's king must not be left attacked.
	kingBB := b.pieceBB[us][King]
	if kingBB != 0 {
		ks := bits.TrailingZeros64(kingBB)
		if b.isSquareAttackedWithOcc(ks, Color(them), b.AllOccupancy()) {
			b.UnmakeMove(m, st)
			return false, st
		}
	}

	return true, st
}

// UnmakeMove restores the board to the snapshot taken by MakeMove.
func (b *Board) UnmakeMove(m Move, st MoveState) {
	_ = m
	b.pieceBB = st.pieceBB
	b.abilityBB = st.abilityBB
	b.occupancy = st.occupancy
	b.movedBB = st.movedBB
	b.castled = st.castled
	b.sideToMove = st.sideToMove
	b.enPassantSquare = st.enPassantSquare
	b.evalScore = st.evalScore
	b.evalValid = st.evalValid
}

// Apply makes the move and returns a closure that undoes it. It panics if
// the move is illegal; callers feeding it generator output are safe.
func (b *Board) Apply(m Move) func() {
	ok, st := b.MakeMove(m)
	if !ok {
		panic("Apply: illegal move " + m.String())
	}
	return func() { b.UnmakeMove(m, st) }
}
