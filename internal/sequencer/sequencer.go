package sequencer

import (
	"log/slog"
	"sync"
	"time"
)

// Sequencer owns the wall-clock timers of the active session: the
// pacing delay before an AI move is requested and the cosmetic reveal
// of a just-played move. Timers never block state transitions, and
// CancelAll invalidates everything still pending so a stale timer
// cannot fire against a replaced board.
type Sequencer struct {
	logger *slog.Logger

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]*time.Timer
}

func New(logger *slog.Logger) *Sequencer {
	return &Sequencer{
		logger:  logger.With("component", "sequencer"),
		pending: make(map[uint64]*time.Timer),
	}
}

// Schedule runs fn once after delay unless CancelAll intervenes.
func (that *Sequencer) Schedule(delay time.Duration, fn func()) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.nextID++
	id := that.nextID

	that.pending[id] = time.AfterFunc(delay, func() {
		that.forget(id)
		fn()
	})
}

// CancelAll stops every pending timer. Called on any transition that
// invalidates the session: new game, mode switch, game switch.
func (that *Sequencer) CancelAll() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for id, timer := range that.pending {
		timer.Stop()
		delete(that.pending, id)
	}
}

// Pending reports how many timers are still scheduled.
func (that *Sequencer) Pending() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.pending)
}

func (that *Sequencer) forget(id uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.pending, id)
}
