package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/gridgames-client/internal/apperror"
	"github.com/rocketscienceinc/gridgames-client/internal/entity"
	"github.com/rocketscienceinc/gridgames-client/internal/game"
)

var ErrNoAIMoveEndpoint = errors.New("game has no separate ai-move endpoint")

// Client speaks one game's endpoint family and normalizes its wire
// format into BoardModel snapshots. Every success response carries a
// complete snapshot; partial updates are never merged.
type Client struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
	game    game.Descriptor
}

func New(logger *slog.Logger, httpClient *http.Client, baseURL string, desc game.Descriptor) *Client {
	return &Client{
		logger:  logger.With("component", "client", "game", desc.ID),
		client:  httpClient,
		baseURL: baseURL,
		game:    desc,
	}
}

// StartSession creates a new game on the server. When the environment
// moves first, a bundled-reply game returns the AI move already
// applied to the snapshot.
func (that *Client) StartSession(ctx context.Context, cfg entity.SessionConfig) (*entity.SessionUpdate, error) {
	switch that.game.Wire {
	case game.WireTicTacToe:
		body := tttNewRequest{
			Difficulty:  cfg.Difficulty,
			FirstPlayer: cfg.FirstMover,
			GameMode:    cfg.Mode,
		}

		resp, err := that.exchangeTTT(ctx, that.game.NewPath, body)
		if err != nil {
			return nil, err
		}

		if !resp.Success || resp.State == nil {
			return nil, serverFault(resp.Error)
		}

		return &entity.SessionUpdate{Board: that.tttBoard(resp.State)}, nil
	default:
		body := c4NewRequest{
			Difficulty:  cfg.Difficulty,
			FirstPlayer: cfg.FirstMover,
		}

		resp, err := that.exchangeC4(ctx, that.game.NewPath, body, false)
		if err != nil {
			return nil, err
		}

		return that.c4Update(resp), nil
	}
}

// SubmitMove plays the human's move. A bundled-reply game returns the
// AI's answer in the same snapshot, tagged for animation.
func (that *Client) SubmitMove(ctx context.Context, mv entity.Move) (*entity.SessionUpdate, error) {
	switch that.game.Wire {
	case game.WireTicTacToe:
		resp, err := that.exchangeTTT(ctx, that.game.MovePath, tttMoveRequest{Row: mv.Row, Col: mv.Col})
		if err != nil {
			return nil, err
		}

		if !resp.Success || resp.State == nil {
			return nil, moveFault(resp.Error)
		}

		update := &entity.SessionUpdate{Board: that.tttBoard(resp.State)}
		update.HumanMove = &entity.Move{Row: mv.Row, Col: mv.Col}

		return update, nil
	default:
		resp, err := that.exchangeC4(ctx, that.game.MovePath, c4MoveRequest{Col: mv.Col}, true)
		if err != nil {
			return nil, err
		}

		return that.c4Update(resp), nil
	}
}

// RequestAIMove asks the server to compute and apply the AI's reply.
// Only games with a separate AI-move step expose it.
func (that *Client) RequestAIMove(ctx context.Context) (*entity.SessionUpdate, error) {
	if that.game.AIMovePath == "" {
		return nil, ErrNoAIMoveEndpoint
	}

	resp, err := that.exchangeTTT(ctx, that.game.AIMovePath, struct{}{})
	if err != nil {
		return nil, err
	}

	if !resp.Success || resp.State == nil {
		return nil, serverFault(resp.Error)
	}

	return &entity.SessionUpdate{Board: that.tttBoard(resp.State)}, nil
}

// FetchCurrentSession recovers an in-progress game at startup. It
// never fails the caller; transport and parse errors degrade to "no
// active session".
func (that *Client) FetchCurrentSession(ctx context.Context) (*entity.ResumedSession, bool) {
	if !that.game.ResumeSupported {
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, that.baseURL+that.game.StatePath, nil)
	if err != nil {
		return nil, false
	}

	httpResp, err := that.client.Do(req)
	if err != nil {
		that.logger.Debug("state query failed", "error", err)
		return nil, false
	}
	defer httpResp.Body.Close()

	var resp tttResponse
	if err = json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		that.logger.Debug("state query returned malformed body", "error", err)
		return nil, false
	}

	if httpResp.StatusCode != http.StatusOK || !resp.Success || resp.State == nil || resp.State.Board == nil {
		return nil, false
	}

	cfg := entity.DefaultSessionConfig()
	if resp.Difficulty != "" {
		cfg.Difficulty = resp.Difficulty
	}

	if resp.GameMode != "" {
		cfg.Mode = resp.GameMode
	}

	return &entity.ResumedSession{Board: that.tttBoard(resp.State), Config: cfg}, true
}

func (that *Client) exchangeTTT(ctx context.Context, path string, body any) (*tttResponse, error) {
	raw, status, err := that.post(ctx, path, body)
	if err != nil {
		return nil, err
	}

	var resp tttResponse
	if err = json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %w", apperror.ErrServer, err)
	}

	if status >= http.StatusInternalServerError {
		return nil, serverFault(resp.Error)
	}

	return &resp, nil
}

func (that *Client) exchangeC4(ctx context.Context, path string, body any, isMove bool) (*c4Response, error) {
	raw, status, err := that.post(ctx, path, body)
	if err != nil {
		return nil, err
	}

	var resp c4Response
	if err = json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %w", apperror.ErrServer, err)
	}

	if status >= http.StatusInternalServerError {
		return nil, serverFault(resp.Error)
	}

	if status != http.StatusOK {
		if isMove {
			return nil, moveFault(resp.Error)
		}

		return nil, serverFault(resp.Error)
	}

	if resp.Board == nil {
		return nil, serverFault(resp.Error)
	}

	return &resp, nil
}

func (that *Client) post(ctx context.Context, path string, body any) ([]byte, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, that.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("could not build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := that.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", apperror.ErrNetwork, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", apperror.ErrNetwork, err)
	}

	return raw, httpResp.StatusCode, nil
}

// tttBoard maps an X/O grid onto the generic model. The family sends
// no legal-move set, so the empty cells double as the display hint.
func (that *Client) tttBoard(state *tttState) *entity.BoardModel {
	board := entity.NewBoardModel(that.game.Rows, that.game.Cols)

	for row, cells := range state.Board {
		for col, cell := range cells {
			switch cell {
			case "X":
				board.Cells[row*board.Cols+col] = entity.PlayerA
			case "O":
				board.Cells[row*board.Cols+col] = entity.PlayerB
			}
		}
	}

	switch state.CurrentPlayer {
	case "O":
		board.Turn = entity.PlayerB
	default:
		board.Turn = entity.PlayerA
	}

	board.Terminal = state.GameOver

	switch {
	case state.Winner == "X":
		board.Outcome = entity.OutcomeAWins
	case state.Winner == "O":
		board.Outcome = entity.OutcomeBWins
	case state.GameOver:
		board.Outcome = entity.OutcomeDraw
	}

	if !board.Terminal {
		for row := 0; row < board.Rows; row++ {
			for col := 0; col < board.Cols; col++ {
				if board.At(row, col) == entity.EmptyMark {
					board.LegalMoves = append(board.LegalMoves, entity.Move{Row: row, Col: col})
				}
			}
		}
	}

	return board
}

func (that *Client) c4Update(resp *c4Response) *entity.SessionUpdate {
	board := entity.NewBoardModel(that.game.Rows, that.game.Cols)

	for row, cells := range resp.Board {
		for col, cell := range cells {
			switch cell {
			case 1:
				board.Cells[row*board.Cols+col] = entity.PlayerA
			case -1:
				board.Cells[row*board.Cols+col] = entity.PlayerB
			}
		}
	}

	if resp.CurrentPlayer == -1 {
		board.Turn = entity.PlayerB
	}

	board.Terminal = resp.GameOver

	switch {
	case resp.Winner != nil && *resp.Winner == 1:
		board.Outcome = entity.OutcomeAWins
	case resp.Winner != nil && *resp.Winner == -1:
		board.Outcome = entity.OutcomeBWins
	case resp.GameOver:
		board.Outcome = entity.OutcomeDraw
	}

	if !board.Terminal {
		for _, col := range resp.ValidMoves {
			board.LegalMoves = append(board.LegalMoves, entity.ColumnMove(col))
		}
	}

	update := &entity.SessionUpdate{Board: board}

	if resp.HumanMove != nil {
		mv := entity.ColumnMove(*resp.HumanMove)
		update.HumanMove = &mv
	}

	if resp.AIMove != nil {
		mv := entity.ColumnMove(*resp.AIMove)
		update.AIMove = &mv
	}

	return update
}

func serverFault(message string) error {
	if message == "" {
		message = "request failed"
	}

	return fmt.Errorf("%w: %s", apperror.ErrServer, message)
}

func moveFault(message string) error {
	if message == "" {
		message = "invalid move"
	}

	return fmt.Errorf("%w: %s", apperror.ErrInvalidMove, message)
}
