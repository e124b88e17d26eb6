package engine

import (
	"github.com/MingyeeOAO/absorb-chess/absorbmg"
)

type scoredMove struct {
	move  absorbmg.Move
	score int32
}

type moveList struct {
	moves []scoredMove
}

// Move ordering offsets. Captures and promotions sort by the material they
// win, abilities included; quiet moves fall back to center pull plus a small
// deterministic jitter so equal moves do not always search in generator order.
const (
	castleOrderBonus int32 = 40
	centerInnerBonus int32 = 30
	centerOuterBonus int32 = 15
)

// Ordering the moves one at a time, at index given. Indices are ints: ability
// stacking can push a position past the orthodox 218-move ceiling.
func orderNextMove(currIndex int, moves *moveList) {
	bestIndex := currIndex
	bestScore := moves.moves[bestIndex].score

	for index := bestIndex + 1; index < len(moves.moves); index++ {
		if moves.moves[index].score > bestScore {
			bestIndex = index
			bestScore = moves.moves[index].score
		}
	}

	tempMove := moves.moves[currIndex]
	moves.moves[currIndex] = moves.moves[bestIndex]
	moves.moves[bestIndex] = tempMove
}

// captureGain estimates the material swing of a capture: the victim's full
// worth plus the ability the captor stands to absorb, plus any promotion
// uplift. Returns 0 for non-captures without promotion.
func captureGain(b *absorbmg.Board, m absorbmg.Move) int32 {
	us := b.SideToMove()
	them := us.Other()
	to := m.To()

	victimSq := absorbmg.NoSquare
	if m.Flag() == absorbmg.FlagEnPassant {
		if us == absorbmg.White {
			victimSq = to - 8
		} else {
			victimSq = to + 8
		}
	} else if b.ColorOccupancy(them)&(uint64(1)<<uint(to)) != 0 {
		victimSq = to
	}

	moverBase, _, _ := b.PieceTypeAt(m.From())
	moverAb := b.Abilities(us, m.From())

	var gain int32
	if victimSq != absorbmg.NoSquare {
		victimBase, _, _ := b.PieceTypeAt(victimSq)
		gain += PieceWorth(victimBase, b.Abilities(them, victimSq))
		if victimBase != moverBase {
			gain += PieceWorth(moverBase, moverAb|1<<uint(victimBase)) - PieceWorth(moverBase, moverAb)
		}
	}
	if m.IsPromotion() {
		gain += PieceWorth(m.PromotionType(), moverAb&^(1<<absorbmg.Pawn)) - PieceWorth(absorbmg.Pawn, moverAb)
	}
	return gain
}

// scoreMovesList scores all moves for one-step selection ordering.
func scoreMovesList(b *absorbmg.Board, moves []absorbmg.Move) (movesList moveList) {
	movesList.moves = make([]scoredMove, len(moves))
	for i := 0; i < len(moves); i++ {
		m := moves[i]
		score := captureGain(b, m)

		to := m.To()
		row := 7 - to.Rank()
		col := to.File()
		if row >= 3 && row <= 4 && col >= 3 && col <= 4 {
			score += centerInnerBonus
		} else if row >= 2 && row <= 5 && col >= 2 && col <= 5 {
			score += centerOuterBonus
		}

		if m.IsCastle() {
			score += castleOrderBonus
		}

		score += (int32(b.EncodeSquare(m.From()))*int32(row)*7 + int32(col)*13) % 8

		movesList.moves[i].move = m
		movesList.moves[i].score = score
	}
	return movesList
}
