package score

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/gridgames-client/internal/entity"
)

type TallyStore interface {
	Tally(ctx context.Context, gameID string) (entity.ScoreTally, error)
	SaveTally(ctx context.Context, gameID string, tally entity.ScoreTally) error
}

// Tracker tallies terminal outcomes for one game and persists them
// through the injected store. It only ever receives notifications; it
// never reaches into session state.
type Tracker struct {
	logger *slog.Logger
	store  TallyStore
	gameID string

	mu    sync.Mutex
	tally entity.ScoreTally
}

// NewTracker loads the persisted tally. A missing or unreadable prior
// record degrades to zeros; counting still works, persistence is
// retried on every save.
func NewTracker(ctx context.Context, logger *slog.Logger, store TallyStore, gameID string) *Tracker {
	that := &Tracker{
		logger: logger.With("component", "score", "game", gameID),
		store:  store,
		gameID: gameID,
	}

	tally, err := store.Tally(ctx, gameID)
	if err != nil {
		that.logger.Warn("could not load persisted tally, starting from zeros", "error", err)
		return that
	}

	that.tally = tally

	return that
}

// RecordOutcome increments exactly one counter and persists the tally.
// Unknown outcomes are ignored.
func (that *Tracker) RecordOutcome(ctx context.Context, outcome entity.Outcome) entity.ScoreTally {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.tally.Bump(outcome) {
		that.logger.Warn("ignoring uncountable outcome", "outcome", outcome)
		return that.tally
	}

	if err := that.store.SaveTally(ctx, that.gameID, that.tally); err != nil {
		that.logger.Error("could not persist tally", "error", err)
	}

	return that.tally
}

func (that *Tracker) Snapshot() entity.ScoreTally {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.tally
}
