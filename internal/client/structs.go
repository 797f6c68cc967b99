package client

// Wire payloads for the tic-tac-toe endpoint family. The board is a
// row-major grid of "X" / "O" / empty strings.
type tttState struct {
	Board         [][]string `json:"board"`
	CurrentPlayer string     `json:"current_player"`
	GameOver      bool       `json:"game_over"`
	Winner        string     `json:"winner"`
}

type tttNewRequest struct {
	Difficulty  string `json:"difficulty"`
	FirstPlayer string `json:"first_player"`
	GameMode    string `json:"game_mode"`
}

type tttMoveRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type tttResponse struct {
	Success      bool      `json:"success"`
	State        *tttState `json:"state"`
	AIShouldMove bool      `json:"ai_should_move"`
	Difficulty   string    `json:"difficulty"`
	GameMode     string    `json:"game_mode"`
	Error        string    `json:"error"`
}

// Wire payloads for the connect-four endpoint family. Cells are 1 for
// the human side, -1 for the AI side, 0 for empty; moves are column
// indices.
type c4NewRequest struct {
	Difficulty  string `json:"difficulty"`
	FirstPlayer string `json:"first_player"`
}

type c4MoveRequest struct {
	Col int `json:"col"`
}

type c4Response struct {
	Board         [][]int `json:"board"`
	CurrentPlayer int     `json:"current_player"`
	GameOver      bool    `json:"game_over"`
	Winner        *int    `json:"winner"`
	ValidMoves    []int   `json:"valid_moves"`
	HumanMove     *int    `json:"human_move"`
	AIMove        *int    `json:"ai_move"`
	Error         string  `json:"error"`
}
