package game

import (
	"github.com/rocketscienceinc/gridgames-client/internal/entity"
)

// WireFamily selects which of the two endpoint families a game speaks.
type WireFamily string

const (
	WireTicTacToe   WireFamily = "tic-tac-toe"
	WireConnectFour WireFamily = "connect4"
)

// Descriptor captures everything that differs between the two games.
// Each game is a configuration value; there is one shared mechanism
// for sessions, rendering and scoring.
type Descriptor struct {
	ID   string
	Name string

	Rows int
	Cols int

	// ColumnMoves: moves address a column, not a cell.
	ColumnMoves bool
	// BundledAIReply: the move endpoint applies the AI reply in the
	// same exchange, so no separate AI-move request is ever issued.
	BundledAIReply bool
	SupportsPvP    bool
	// ResumeSupported: the endpoint family exposes a current-session
	// query for startup resume.
	ResumeSupported bool

	Wire       WireFamily
	NewPath    string
	MovePath   string
	AIMovePath string
	StatePath  string

	GlyphA string
	GlyphB string
}

var TicTacToe = Descriptor{
	ID:              "tic-tac-toe",
	Name:            "Tic-Tac-Toe",
	Rows:            3,
	Cols:            3,
	BundledAIReply:  false,
	SupportsPvP:     true,
	ResumeSupported: true,
	Wire:            WireTicTacToe,
	NewPath:         "/tic-tac-toe/api/new",
	MovePath:        "/tic-tac-toe/api/move",
	AIMovePath:      "/tic-tac-toe/api/ai-move",
	StatePath:       "/tic-tac-toe/api/state",
	GlyphA:          "X",
	GlyphB:          "O",
}

var ConnectFour = Descriptor{
	ID:             "connect4",
	Name:           "Connect-4",
	Rows:           6,
	Cols:           7,
	ColumnMoves:    true,
	BundledAIReply: true,
	Wire:           WireConnectFour,
	NewPath:        "/connect4/api/new_game",
	MovePath:       "/connect4/api/make_move",
	GlyphA:         "●",
	GlyphB:         "○",
}

// ByID resolves a descriptor from its identifier.
func ByID(id string) (Descriptor, bool) {
	switch id {
	case TicTacToe.ID:
		return TicTacToe, true
	case ConnectFour.ID:
		return ConnectFour, true
	default:
		return Descriptor{}, false
	}
}

// NormalizeMove strips the row from column-addressed input so legality
// checks compare on the column index alone.
func (that Descriptor) NormalizeMove(mv entity.Move) entity.Move {
	if that.ColumnMoves {
		return entity.ColumnMove(mv.Col)
	}

	return mv
}

// SideLabel names a side the way the active mode presents it.
func (that Descriptor) SideLabel(mode string, mark entity.Mark) string {
	if mode == entity.ModePvP {
		if mark == entity.PlayerA {
			return "Player 1 (" + that.GlyphA + ")"
		}

		return "Player 2 (" + that.GlyphB + ")"
	}

	if mark == entity.PlayerA {
		return "You (" + that.GlyphA + ")"
	}

	return "Bot (" + that.GlyphB + ")"
}
