package game

import "github.com/rocketscienceinc/gridgames-client/internal/entity"

// winLines are the eight tic-tac-toe lines over flat row-major indices:
// three rows, three columns, two diagonals.
var winLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// WinningCells returns the flat indices to highlight on a terminal
// board with a winner. Tic-tac-toe marks the first matching line;
// connect-four marks every piece of the winning side, matching the
// shipped front-end behavior.
func (that Descriptor) WinningCells(board *entity.BoardModel) []int {
	if board == nil || !board.Terminal {
		return nil
	}

	winner := winnerMark(board.Outcome)
	if winner == entity.EmptyMark {
		return nil
	}

	if that.Wire == WireTicTacToe {
		for _, line := range winLines {
			a, b, c := board.Cells[line[0]], board.Cells[line[1]], board.Cells[line[2]]
			if a != entity.EmptyMark && a == b && b == c {
				return line[:]
			}
		}

		return nil
	}

	var cells []int
	for i, cell := range board.Cells {
		if cell == winner {
			cells = append(cells, i)
		}
	}

	return cells
}

func winnerMark(outcome entity.Outcome) entity.Mark {
	switch outcome {
	case entity.OutcomeAWins:
		return entity.PlayerA
	case entity.OutcomeBWins:
		return entity.PlayerB
	default:
		return entity.EmptyMark
	}
}
