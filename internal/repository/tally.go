package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/gridgames-client/internal/entity"
)

// TallyRepository persists per-game score tallies. A game with no
// prior record reads as zeros; loads fill the tally field-by-field so
// a partially-shaped prior record still merges over defaults.
type TallyRepository interface {
	Tally(ctx context.Context, gameID string) (entity.ScoreTally, error)
	SaveTally(ctx context.Context, gameID string, tally entity.ScoreTally) error
}

type sqliteTally struct {
	conn *sql.DB
}

func NewSQLiteTallyRepository(conn *sql.DB) TallyRepository {
	return &sqliteTally{conn: conn}
}

func (that *sqliteTally) Tally(ctx context.Context, gameID string) (entity.ScoreTally, error) {
	var tally entity.ScoreTally

	row := that.conn.QueryRowContext(ctx,
		`SELECT wins_a, wins_b, draws FROM tallies WHERE game = ?`, gameID)

	err := row.Scan(&tally.WinsA, &tally.WinsB, &tally.Draws)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ScoreTally{}, nil
	}

	if err != nil {
		return entity.ScoreTally{}, fmt.Errorf("could not read tally: %w", err)
	}

	return tally, nil
}

func (that *sqliteTally) SaveTally(ctx context.Context, gameID string, tally entity.ScoreTally) error {
	_, err := that.conn.ExecContext(ctx,
		`INSERT INTO tallies (game, wins_a, wins_b, draws) VALUES (?, ?, ?, ?)
		 ON CONFLICT(game) DO UPDATE SET wins_a = excluded.wins_a, wins_b = excluded.wins_b, draws = excluded.draws`,
		gameID, tally.WinsA, tally.WinsB, tally.Draws)
	if err != nil {
		return fmt.Errorf("could not save tally: %w", err)
	}

	return nil
}

type redisTally struct {
	client *redis.Client
}

func NewRedisTallyRepository(client *redis.Client) TallyRepository {
	return &redisTally{client: client}
}

func (that *redisTally) Tally(ctx context.Context, gameID string) (entity.ScoreTally, error) {
	response, err := that.client.Get(ctx, tallyKey(gameID)).Result()

	if errors.Is(err, redis.Nil) {
		return entity.ScoreTally{}, nil
	}

	if err != nil {
		return entity.ScoreTally{}, fmt.Errorf("could not read tally: %w", err)
	}

	// Decoding into the zero value merges whatever fields the record
	// has over defaults.
	var tally entity.ScoreTally
	if err = json.Unmarshal([]byte(response), &tally); err != nil {
		return entity.ScoreTally{}, fmt.Errorf("could not unmarshal tally: %w", err)
	}

	return tally, nil
}

func (that *redisTally) SaveTally(ctx context.Context, gameID string, tally entity.ScoreTally) error {
	tallyJSON, err := json.Marshal(tally)
	if err != nil {
		return fmt.Errorf("could not marshal tally: %w", err)
	}

	if err = that.client.Set(ctx, tallyKey(gameID), tallyJSON, 0).Err(); err != nil {
		return fmt.Errorf("could not save tally: %w", err)
	}

	return nil
}

func tallyKey(gameID string) string {
	return "tally:" + gameID
}
