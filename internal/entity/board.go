package entity

// Mark is a side identifier, independent of how a concrete game
// labels its sides on the wire.
type Mark string

const (
	EmptyMark Mark = ""
	PlayerA   Mark = "A"
	PlayerB   Mark = "B"
)

type Outcome string

const (
	OutcomeNone  Outcome = ""
	OutcomeAWins Outcome = "A"
	OutcomeBWins Outcome = "B"
	OutcomeDraw  Outcome = "draw"
)

// Move addresses a board target. Cell-addressed games use Row and Col;
// column-addressed games use Col only and keep Row at -1.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ColumnMove builds a column-addressed move.
func ColumnMove(col int) Move {
	return Move{Row: -1, Col: col}
}

// BoardModel is one complete snapshot of a game as the server reported
// it. The client never mutates a snapshot in place; every accepted
// exchange replaces the whole model.
type BoardModel struct {
	Rows       int     `json:"rows"`
	Cols       int     `json:"cols"`
	Cells      []Mark  `json:"cells"` // row-major
	Turn       Mark    `json:"turn"`
	Terminal   bool    `json:"terminal"`
	Outcome    Outcome `json:"outcome"`
	LegalMoves []Move  `json:"legal_moves"`
}

func NewBoardModel(rows, cols int) *BoardModel {
	return &BoardModel{
		Rows:  rows,
		Cols:  cols,
		Cells: make([]Mark, rows*cols),
		Turn:  PlayerA,
	}
}

func (that *BoardModel) At(row, col int) Mark {
	if row < 0 || row >= that.Rows || col < 0 || col >= that.Cols {
		return EmptyMark
	}

	return that.Cells[row*that.Cols+col]
}

// AllowsMove reports whether mv is in the last-received legal set.
// Column moves match on the column index only.
func (that *BoardModel) AllowsMove(mv Move) bool {
	for _, legal := range that.LegalMoves {
		if legal.Row < 0 || mv.Row < 0 {
			if legal.Col == mv.Col {
				return true
			}

			continue
		}

		if legal.Row == mv.Row && legal.Col == mv.Col {
			return true
		}
	}

	return false
}

// CellFree is the cheap local pre-check: it looks at cells only and is
// never authoritative over the server's legal set.
func (that *BoardModel) CellFree(mv Move) bool {
	if mv.Row < 0 {
		return that.At(0, mv.Col) == EmptyMark
	}

	return that.At(mv.Row, mv.Col) == EmptyMark
}

func (that *BoardModel) Clone() *BoardModel {
	if that == nil {
		return nil
	}

	clone := *that
	clone.Cells = append([]Mark(nil), that.Cells...)
	clone.LegalMoves = append([]Move(nil), that.LegalMoves...)

	return &clone
}

func (that *BoardModel) Equal(other *BoardModel) bool {
	if that == nil || other == nil {
		return that == other
	}

	if that.Rows != other.Rows || that.Cols != other.Cols ||
		that.Turn != other.Turn || that.Terminal != other.Terminal ||
		that.Outcome != other.Outcome {
		return false
	}

	if len(that.Cells) != len(other.Cells) || len(that.LegalMoves) != len(other.LegalMoves) {
		return false
	}

	for i, cell := range that.Cells {
		if cell != other.Cells[i] {
			return false
		}
	}

	for i, mv := range that.LegalMoves {
		if mv != other.LegalMoves[i] {
			return false
		}
	}

	return true
}
