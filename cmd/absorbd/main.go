package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	mg "github.com/MingyeeOAO/absorb-chess/absorbmg"
	"github.com/MingyeeOAO/absorb-chess/engine"
)

const protocolVersion = "1.0"

// stateTokens is the fixed token count of an inline board state:
// white_to_move, white_castled, black_castled, ep_col, ep_row, then the
// 64 grid cells in visual row-major order (row 0 = rank 8).
const stateTokens = 5 + 64

// parseState decodes an inline board state into a Board.
func parseState(tokens []string) (*mg.Board, error) {
	if len(tokens) != stateTokens {
		return nil, errors.New("wrong state token count")
	}
	ints := make([]int, stateTokens)
	for i, tok := range tokens {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, err
		}
		ints[i] = v
	}

	var s mg.Snapshot
	s.WhiteToMove = ints[0] != 0
	s.WhiteCastled = ints[1] != 0
	s.BlackCastled = ints[2] != 0
	s.EnPassantCol = ints[3]
	s.EnPassantRow = ints[4]
	for i := 0; i < 64; i++ {
		cell := ints[5+i]
		if cell < 0 || cell > 0x3FFF {
			return nil, errors.New("grid cell out of range")
		}
		s.Grid[i/8][i%8] = uint32(cell)
	}
	return mg.FromSnapshot(s)
}

// boardFor resolves the board for a command: inline state when present,
// otherwise the board installed by the last SET_BOARD.
func boardFor(tokens []string, current *mg.Board) (*mg.Board, error) {
	if len(tokens) == 0 {
		if current == nil {
			return nil, errors.New("no board set")
		}
		return current, nil
	}
	return parseState(tokens)
}

func formatMove(m mg.Move) string {
	fr, fc := m.From().RowCol()
	tr, tc := m.To().RowCol()
	return fmt.Sprintf("%d,%d,%d,%d,%d", fr, fc, tr, tc, m.Flag())
}

func main() {
	out := bufio.NewWriter(os.Stdout)
	fmt.Fprintf(out, "READY %s\n", protocolVersion)
	out.Flush()

	var current *mg.Board

	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd := fields[0]

		switch cmd {
		case "QUIT", "EXIT":
			out.Flush()
			return

		case "SET_BOARD":
			b, err := parseState(fields[1:])
			if err != nil {
				fmt.Fprintln(out, "ERROR Invalid board state")
				break
			}
			current = b
			fmt.Fprintln(out, "OK Board set")

		case "GET_LEGAL_MOVES":
			b, err := boardFor(fields[1:], current)
			if err != nil {
				fmt.Fprintln(out, "ERROR Invalid board state")
				break
			}
			moves := b.GenerateMoves()
			var sb strings.Builder
			fmt.Fprintf(&sb, "MOVES %d", len(moves))
			for _, m := range moves {
				sb.WriteByte(' ')
				sb.WriteString(formatMove(m))
			}
			fmt.Fprintln(out, sb.String())

		case "FIND_BEST_MOVE":
			if len(fields) < 3 {
				fmt.Fprintln(out, "ERROR Invalid board state")
				break
			}
			depth, errD := strconv.Atoi(fields[1])
			budgetMS, errT := strconv.Atoi(fields[2])
			if errD != nil || errT != nil {
				fmt.Fprintln(out, "ERROR Invalid board state")
				break
			}
			b, err := boardFor(fields[3:], current)
			if err != nil {
				fmt.Fprintln(out, "ERROR Invalid board state")
				break
			}
			res, ok := engine.FindBestMove(b, depth, time.Duration(budgetMS)*time.Millisecond)
			if !ok {
				fmt.Fprintln(out, "ERROR No legal moves found")
				break
			}
			fr, fc := res.Move.From().RowCol()
			tr, tc := res.Move.To().RowCol()
			fmt.Fprintf(out, "MOVE %d %d %d %d %d %d\n",
				fr, fc, tr, tc, res.Score, res.Elapsed.Milliseconds())

		case "EVAL":
			b, err := boardFor(fields[1:], current)
			if err != nil {
				fmt.Fprintln(out, "ERROR Invalid board state")
				break
			}
			fmt.Fprintf(out, "EVAL %d\n", engine.Evaluate(b))

		case "STATUS":
			b, err := boardFor(fields[1:], current)
			if err != nil {
				fmt.Fprintln(out, "ERROR Invalid board state")
				break
			}
			switch {
			case b.InCheckmate():
				fmt.Fprintln(out, "STATUS checkmate")
			case b.InStalemate():
				fmt.Fprintln(out, "STATUS stalemate")
			case b.InCheck(b.SideToMove()):
				fmt.Fprintln(out, "STATUS check")
			default:
				fmt.Fprintln(out, "STATUS ok")
			}

		default:
			fmt.Fprintf(out, "ERROR Unknown command: %s\n", cmd)
		}

		out.Flush()
	}
}
