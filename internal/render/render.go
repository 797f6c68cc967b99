package render

import (
	"github.com/rocketscienceinc/gridgames-client/internal/entity"
	"github.com/rocketscienceinc/gridgames-client/internal/game"
	"github.com/rocketscienceinc/gridgames-client/internal/session"
)

type CellState string

const (
	CellEmpty   CellState = "empty"
	CellMarkA   CellState = "mark_a"
	CellMarkB   CellState = "mark_b"
	CellWinning CellState = "winning"
	CellHint    CellState = "hint"
)

// CellView is the display attribute of one cell.
type CellView struct {
	Mark  entity.Mark
	State CellState
}

// Project derives per-cell display attributes from a board snapshot
// and the interaction phase. It is a pure function: projecting the
// same input twice yields the same output and touches nothing.
func Project(desc game.Descriptor, board *entity.BoardModel, phase session.Phase) []CellView {
	views := make([]CellView, desc.Rows*desc.Cols)

	for i := range views {
		views[i] = CellView{State: CellEmpty}
	}

	if board == nil {
		return views
	}

	for i, cell := range board.Cells {
		switch cell {
		case entity.PlayerA:
			views[i] = CellView{Mark: cell, State: CellMarkA}
		case entity.PlayerB:
			views[i] = CellView{Mark: cell, State: CellMarkB}
		}
	}

	if board.Terminal {
		for _, i := range desc.WinningCells(board) {
			views[i].State = CellWinning
		}

		return views
	}

	if phase == session.PhaseAwaitingInput {
		for _, mv := range board.LegalMoves {
			for _, i := range hintCells(desc, board, mv) {
				if views[i].State == CellEmpty {
					views[i] = CellView{State: CellHint}
				}
			}
		}
	}

	return views
}

// hintCells maps a legal move to the cells that show its hover hint:
// the cell itself, or for a column move the open slot the piece would
// land in.
func hintCells(desc game.Descriptor, board *entity.BoardModel, mv entity.Move) []int {
	if !desc.ColumnMoves {
		return []int{mv.Row*board.Cols + mv.Col}
	}

	for row := board.Rows - 1; row >= 0; row-- {
		if board.At(row, mv.Col) == entity.EmptyMark {
			return []int{row*board.Cols + mv.Col}
		}
	}

	return nil
}
