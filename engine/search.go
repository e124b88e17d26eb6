package engine

import (
	"time"

	"github.com/MingyeeOAO/absorb-chess/absorbmg"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	MaxScore  int32 = 32500
	Checkmate int32 = 20000
	DrawScore int32 = 0
)

// DeltaMargin is the quiescence delta-pruning slack in centipawns.
const DeltaMargin int32 = 200

// SearchResult carries the outcome of a root search. Score is from the
// mover's point of view.
type SearchResult struct {
	Move    absorbmg.Move
	Score   int32
	Nodes   uint64
	Elapsed time.Duration
}

type searcher struct {
	board *absorbmg.Board
	nodes uint64
}

// FindBestMove searches the position to the given depth and returns the best
// move found. A positive budget is a soft wall-clock limit checked between
// root moves only; the move searched so far is still usable when it trips.
// ok is false when the side to move has no legal moves.
func FindBestMove(b *absorbmg.Board, depth int, budget time.Duration) (result SearchResult, ok bool) {
	start := time.Now()
	var deadline time.Time
	if budget > 0 {
		deadline = start.Add(budget)
	}

	moves := b.GenerateMoves()
	if len(moves) == 0 {
		return SearchResult{}, false
	}
	if depth < 1 {
		depth = 1
	}

	s := &searcher{board: b}
	list := scoreMovesList(b, moves)

	var bestMove absorbmg.Move
	bestScore := -MaxScore
	alpha, beta := -MaxScore, MaxScore

	for index := 0; index < len(list.moves); index++ {
		orderNextMove(index, &list)
		move := list.moves[index].move

		unapply := b.Apply(move)
		score := -s.search(depth-1, -beta, -alpha)
		unapply()

		if index == 0 || score > bestScore {
			bestScore = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
		}

		if budget > 0 && time.Now().After(deadline) {
			break
		}
	}

	return SearchResult{
		Move:    bestMove,
		Score:   bestScore,
		Nodes:   s.nodes,
		Elapsed: time.Since(start),
	}, true
}

// search is a plain negamax with alpha-beta pruning. Scores are relative to
// the side to move; mates closer to the root score higher through the
// remaining-depth term.
func (s *searcher) search(depth int, alpha, beta int32) int32 {
	s.nodes++
	b := s.board

	if depth <= 0 {
		return s.quiescence(alpha, beta)
	}

	moves := b.GenerateMoves()
	if len(moves) == 0 {
		if b.InCheck(b.SideToMove()) {
			return -(Checkmate + int32(depth))
		}
		return DrawScore
	}

	list := scoreMovesList(b, moves)
	bestScore := -MaxScore

	for index := 0; index < len(list.moves); index++ {
		orderNextMove(index, &list)
		move := list.moves[index].move

		unapply := b.Apply(move)
		score := -s.search(depth-1, -beta, -alpha)
		unapply()

		if score > bestScore {
			bestScore = score
		}
		if bestScore >= beta {
			break
		}
		if score > alpha {
			alpha = score
		}
	}

	return bestScore
}

// quiescence extends the search through captures until the position is quiet.
func (s *searcher) quiescence(alpha, beta int32) int32 {
	s.nodes++
	b := s.board

	standPat := Evaluate(b)
	if b.SideToMove() == absorbmg.Black {
		standPat = -standPat
	}
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	caps := b.GenerateCapturesInto(make([]absorbmg.Move, 0, 32))
	list := scoreMovesList(b, caps)

	for index := 0; index < len(list.moves); index++ {
		orderNextMove(index, &list)
		move := list.moves[index].move

		// Delta pruning: skip captures that cannot lift us back to alpha
		// even with a margin.
		if standPat+captureGain(b, move)+DeltaMargin < alpha {
			continue
		}

		unapply := b.Apply(move)
		score := -s.quiescence(-beta, -alpha)
		unapply()

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}
