package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardModel_AllowsMove(t *testing.T) {
	t.Run("cell move matches on row and column", func(t *testing.T) {
		// Given: a board whose legal set holds one cell
		board := NewBoardModel(3, 3)
		board.LegalMoves = []Move{{Row: 1, Col: 1}}

		// Then: only that cell is allowed
		assert.True(t, board.AllowsMove(Move{Row: 1, Col: 1}))
		assert.False(t, board.AllowsMove(Move{Row: 0, Col: 1}))
		assert.False(t, board.AllowsMove(Move{Row: 1, Col: 0}))
	})

	t.Run("column move matches on column only", func(t *testing.T) {
		// Given: a board whose legal set holds open columns
		board := NewBoardModel(6, 7)
		board.LegalMoves = []Move{ColumnMove(0), ColumnMove(3)}

		// Then: membership compares the column index alone
		assert.True(t, board.AllowsMove(ColumnMove(3)))
		assert.True(t, board.AllowsMove(Move{Row: 5, Col: 3}))
		assert.False(t, board.AllowsMove(ColumnMove(2)))
	})

	t.Run("empty legal set allows nothing", func(t *testing.T) {
		// Given: a terminal board with no legal moves
		board := NewBoardModel(3, 3)
		board.Terminal = true

		// Then: every move is rejected
		assert.False(t, board.AllowsMove(Move{Row: 0, Col: 0}))
	})
}

func TestBoardModel_CellFree(t *testing.T) {
	t.Run("cell move checks the addressed cell", func(t *testing.T) {
		// Given: a board with one occupied cell
		board := NewBoardModel(3, 3)
		board.Cells[4] = PlayerA

		// Then: the occupied cell reads taken, others free
		assert.False(t, board.CellFree(Move{Row: 1, Col: 1}))
		assert.True(t, board.CellFree(Move{Row: 0, Col: 0}))
	})

	t.Run("column move checks the top of the column", func(t *testing.T) {
		// Given: a column filled to the top
		board := NewBoardModel(6, 7)
		for row := 0; row < 6; row++ {
			board.Cells[row*7+2] = PlayerB
		}

		// Then: the full column reads taken
		assert.False(t, board.CellFree(ColumnMove(2)))
		assert.True(t, board.CellFree(ColumnMove(3)))
	})
}

func TestBoardModel_CloneAndEqual(t *testing.T) {
	// Given: a populated board
	board := NewBoardModel(3, 3)
	board.Cells[0] = PlayerA
	board.Turn = PlayerB
	board.LegalMoves = []Move{{Row: 1, Col: 1}}

	// When: cloning it
	clone := board.Clone()

	// Then: the clone compares equal but shares no storage
	require.True(t, board.Equal(clone))

	clone.Cells[0] = PlayerB
	assert.False(t, board.Equal(clone))
	assert.Equal(t, PlayerA, board.Cells[0])

	// And: a nil board clones to nil
	var nilBoard *BoardModel
	assert.Nil(t, nilBoard.Clone())
}

func TestScoreTally_Bump(t *testing.T) {
	t.Run("each outcome bumps exactly one counter", func(t *testing.T) {
		var tally ScoreTally

		require.True(t, tally.Bump(OutcomeAWins))
		require.True(t, tally.Bump(OutcomeBWins))
		require.True(t, tally.Bump(OutcomeDraw))

		assert.Equal(t, ScoreTally{WinsA: 1, WinsB: 1, Draws: 1}, tally)
	})

	t.Run("an undecided outcome counts nothing", func(t *testing.T) {
		var tally ScoreTally

		assert.False(t, tally.Bump(OutcomeNone))
		assert.Equal(t, ScoreTally{}, tally)
	})
}
