package engine

import (
	"math/bits"

	"github.com/MingyeeOAO/absorb-chess/absorbmg"
)

// Base piece values in centipawns, indexed by absorbmg.PieceType.
var pieceValue = [6]int32{100, 300, 300, 500, 900, 10000}

const (
	checkPenalty      int32 = 100
	castledBonus      int32 = 120
	castleRightBonus  int32 = 60
	offBackRankMalus  int32 = 30
	centerFileMalus   int32 = 20
	mobilityWeight    int32 = 10
	developmentBonus  int32 = 10
	earlyQueenPenalty int32 = 20
)

// PieceWorth returns the value of a piece of the given base type carrying the
// given absorbed ability set. A queen ability dominates rook and bishop
// abilities, and a pawn ability is nearly worthless on a piece that already
// covers the files and diagonals.
func PieceWorth(base absorbmg.PieceType, abilities uint8) int32 {
	abilities &^= 1 << uint(base)

	v := pieceValue[base]
	hasQueenAb := abilities&(1<<absorbmg.Queen) != 0
	queenish := hasQueenAb || base == absorbmg.Queen
	rookish := abilities&(1<<absorbmg.Rook) != 0 || base == absorbmg.Rook
	bishopish := abilities&(1<<absorbmg.Bishop) != 0 || base == absorbmg.Bishop

	if hasQueenAb {
		v += pieceValue[absorbmg.Queen]
	}
	if !queenish {
		if abilities&(1<<absorbmg.Rook) != 0 {
			v += pieceValue[absorbmg.Rook]
		}
		if abilities&(1<<absorbmg.Bishop) != 0 {
			v += pieceValue[absorbmg.Bishop]
		}
	}
	if abilities&(1<<absorbmg.Knight) != 0 {
		v += pieceValue[absorbmg.Knight]
	}
	if abilities&(1<<absorbmg.Pawn) != 0 {
		if queenish || (rookish && bishopish) {
			v += 10
		} else {
			v += pieceValue[absorbmg.Pawn]
		}
	}
	// The king ability adds mobility, not material.
	return v
}

// Evaluate returns a static evaluation of the position in centipawns from
// White's point of view. The result is cached on the board until the next move.
func Evaluate(b *absorbmg.Board) int32 {
	if score, ok := b.CachedEval(); ok {
		return score
	}

	score := material(b) +
		mobility(b) +
		kingSafety(b, absorbmg.White) - kingSafety(b, absorbmg.Black) +
		development(b, absorbmg.White) - development(b, absorbmg.Black)

	b.StoreEval(score)
	return score
}

// material sums PieceWorth over every piece, white minus black. The kings'
// base values cancel while both are on the board.
func material(b *absorbmg.Board) int32 {
	var score int32
	for c := absorbmg.White; c <= absorbmg.Black; c++ {
		var side int32
		occ := b.ColorOccupancy(c)
		for occ != 0 {
			sq := absorbmg.Square(bits.TrailingZeros64(occ))
			occ &= occ - 1
			t, _, _ := b.PieceTypeAt(sq)
			side += PieceWorth(t, b.Abilities(c, sq))
		}
		if c == absorbmg.White {
			score += side
		} else {
			score -= side
		}
	}
	return score
}

// mobility counts squares each side attacks that its own pieces do not occupy.
func mobility(b *absorbmg.Board) int32 {
	w := bits.OnesCount64(b.AttackedSquares(absorbmg.White) &^ b.ColorOccupancy(absorbmg.White))
	bl := bits.OnesCount64(b.AttackedSquares(absorbmg.Black) &^ b.ColorOccupancy(absorbmg.Black))
	return int32(w-bl) * mobilityWeight
}

// kingSafety scores one side's king: check, castling progress, shelter on the
// back rank, and a reduced credit for abilities the king itself has absorbed.
func kingSafety(b *absorbmg.Board, c absorbmg.Color) int32 {
	kingBB := b.PieceMask(c, absorbmg.King)
	if kingBB == 0 {
		return 0
	}
	ksq := absorbmg.Square(bits.TrailingZeros64(kingBB))

	var score int32
	if b.InCheck(c) {
		score -= checkPenalty
	}

	home := absorbmg.Square(4)
	backRank := 0
	cornerK, cornerQ := absorbmg.Square(7), absorbmg.Square(0)
	if c == absorbmg.Black {
		home = 60
		backRank = 7
		cornerK, cornerQ = 63, 56
	}

	if b.HasCastled(c) {
		score += castledBonus
	} else if ksq == home && b.MovedMask(c)&(uint64(1)<<uint(home)) == 0 {
		unmoved := b.PieceMask(c, absorbmg.Rook) &^ b.MovedMask(c)
		if unmoved&(uint64(1)<<uint(cornerK)) != 0 {
			score += castleRightBonus
		}
		if unmoved&(uint64(1)<<uint(cornerQ)) != 0 {
			score += castleRightBonus
		}
	}

	if ksq.Rank() != backRank {
		score -= offBackRankMalus
	}
	if f := ksq.File(); f == 3 || f == 4 {
		score -= centerFileMalus
	}

	// Absorbed abilities on the king count at a quarter of their worth.
	score += (PieceWorth(absorbmg.King, b.Abilities(c, ksq)) - pieceValue[absorbmg.King]) / 4

	return score
}

// development rewards minors that have left their home squares and penalizes
// an early queen sortie while the minors sit at home.
func development(b *absorbmg.Board, c absorbmg.Color) int32 {
	knightHome := uint64(1)<<1 | uint64(1)<<6
	bishopHome := uint64(1)<<2 | uint64(1)<<5
	queenHome := uint64(1) << 3
	if c == absorbmg.Black {
		knightHome <<= 56
		bishopHome <<= 56
		queenHome <<= 56
	}

	knights := b.PieceMask(c, absorbmg.Knight)
	bishops := b.PieceMask(c, absorbmg.Bishop)

	minorsOut := bits.OnesCount64(knights&^knightHome) + bits.OnesCount64(bishops&^bishopHome)
	minorsHome := bits.OnesCount64(knights&knightHome) + bits.OnesCount64(bishops&bishopHome)

	score := int32(minorsOut) * developmentBonus
	queens := b.PieceMask(c, absorbmg.Queen)
	if queens != 0 && queens&queenHome == 0 && minorsHome >= 2 {
		score -= earlyQueenPenalty
	}
	return score
}
