package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/gridgames-client/internal/apperror"
	"github.com/rocketscienceinc/gridgames-client/internal/entity"
	"github.com/rocketscienceinc/gridgames-client/internal/game"
)

// Phase is the interaction state of the active session. Input is only
// ever accepted in PhaseAwaitingInput.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseAwaitingInput Phase = "awaiting_input"
	PhaseSubmitting    Phase = "submitting"
	PhaseAwaitingAI    Phase = "awaiting_ai"
	PhaseApplyingAI    Phase = "applying_ai"
	PhaseGameOver      Phase = "game_over"
)

type GameClient interface {
	StartSession(ctx context.Context, cfg entity.SessionConfig) (*entity.SessionUpdate, error)
	SubmitMove(ctx context.Context, mv entity.Move) (*entity.SessionUpdate, error)
	RequestAIMove(ctx context.Context) (*entity.SessionUpdate, error)
	FetchCurrentSession(ctx context.Context) (*entity.ResumedSession, bool)
}

type Scheduler interface {
	Schedule(delay time.Duration, fn func())
	CancelAll()
}

// Listener receives read-only notifications; it must not call back
// into the machine from the callback.
type Listener interface {
	BoardUpdated(snapshot Snapshot)
	StatusChanged(message string)
	GameFinished(outcome entity.Outcome)
}

// Snapshot is what listeners render from. Reveal is the move currently
// inside its cosmetic highlight window, if any.
type Snapshot struct {
	Phase  Phase
	Board  *entity.BoardModel
	Reveal *entity.Move
}

// Machine owns the BoardModel and interaction state of one session.
// All other components see read-only snapshots. Exchanges run on their
// own goroutines and re-enter the machine tagged with the epoch they
// started under; a response or timer from a superseded session is
// discarded.
type Machine struct {
	logger   *slog.Logger
	game     game.Descriptor
	client   GameClient
	timers   Scheduler
	listener Listener

	aiDelay     time.Duration
	revealDelay time.Duration

	mu     sync.Mutex
	epoch  uint64
	phase  Phase
	cfg    entity.SessionConfig
	board  *entity.BoardModel
	reveal *entity.Move
}

func NewMachine(logger *slog.Logger, desc game.Descriptor, gameClient GameClient, timers Scheduler, listener Listener, aiDelay, revealDelay time.Duration) *Machine {
	return &Machine{
		logger:      logger.With("component", "session", "game", desc.ID),
		game:        desc,
		client:      gameClient,
		timers:      timers,
		listener:    listener,
		aiDelay:     aiDelay,
		revealDelay: revealDelay,
		phase:       PhaseIdle,
	}
}

func (that *Machine) Game() game.Descriptor {
	return that.game
}

func (that *Machine) Phase() Phase {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.phase
}

func (that *Machine) Board() *entity.BoardModel {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board.Clone()
}

func (that *Machine) Config() entity.SessionConfig {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.cfg
}

// StartSession abandons whatever was running and asks the server for a
// fresh game. Pending timers die with the old epoch.
func (that *Machine) StartSession(ctx context.Context, cfg entity.SessionConfig) {
	if !that.game.SupportsPvP {
		cfg.Mode = entity.ModePvE
	}

	that.mu.Lock()
	that.timers.CancelAll()
	that.epoch++
	epoch := that.epoch
	that.cfg = cfg
	that.board = nil
	that.reveal = nil
	that.phase = PhaseSubmitting
	snap := that.snapshotLocked()
	that.mu.Unlock()

	that.listener.BoardUpdated(snap)
	that.listener.StatusChanged("Starting new game...")

	go func() {
		update, err := that.client.StartSession(ctx, cfg)
		if err != nil {
			that.failExchange(epoch, err)
			return
		}

		that.applyUpdate(ctx, epoch, update)
	}()
}

// Resume queries the server for an in-progress session and installs it
// if one exists. A resumed terminal board is shown as finished without
// re-counting its outcome.
func (that *Machine) Resume(ctx context.Context) bool {
	resumed, ok := that.client.FetchCurrentSession(ctx)
	if !ok {
		that.listener.StatusChanged("Choose settings and start a new game!")
		return false
	}

	that.mu.Lock()
	that.timers.CancelAll()
	that.epoch++
	epoch := that.epoch
	that.cfg = resumed.Config
	that.board = resumed.Board
	that.reveal = nil

	var status string
	switch {
	case resumed.Board.Terminal:
		that.phase = PhaseGameOver
		status = that.outcomeStatusLocked()
	case that.aiShouldReplyLocked():
		// The server is owed a move; trigger it after the usual pause.
		that.phase = PhaseAwaitingAI
		status = that.game.SideLabel(that.cfg.Mode, entity.PlayerB) + " is thinking..."
		that.scheduleAIMoveLocked(ctx, epoch)
	default:
		that.phase = PhaseAwaitingInput
		status = that.turnStatusLocked()
	}

	snap := that.snapshotLocked()
	that.mu.Unlock()

	that.listener.BoardUpdated(snap)
	that.listener.StatusChanged(status)

	return true
}

// Abandon drops the session without touching the server. In-flight
// responses and timers for it are invalidated.
func (that *Machine) Abandon() {
	that.mu.Lock()
	that.timers.CancelAll()
	that.epoch++
	that.phase = PhaseIdle
	that.board = nil
	that.reveal = nil
	snap := that.snapshotLocked()
	that.mu.Unlock()

	that.listener.BoardUpdated(snap)
}

// HandleInput validates a click against the current phase and the
// last-received legal set. A rejected click is a no-op: no network
// call, no state change, only the returned sentinel for a status hint.
func (that *Machine) HandleInput(ctx context.Context, mv entity.Move) error {
	that.mu.Lock()

	switch that.phase {
	case PhaseIdle:
		that.mu.Unlock()
		return apperror.ErrNoActiveSession
	case PhaseGameOver:
		that.mu.Unlock()
		return apperror.ErrGameFinished
	case PhaseAwaitingInput:
	default:
		that.mu.Unlock()
		return apperror.ErrInputLocked
	}

	if that.board == nil || that.board.Terminal {
		that.mu.Unlock()
		return apperror.ErrGameFinished
	}

	mv = that.game.NormalizeMove(mv)

	if !that.board.AllowsMove(mv) || !that.board.CellFree(mv) {
		that.mu.Unlock()
		return apperror.ErrIllegalMove
	}

	if that.cfg.Mode == entity.ModePvE && that.board.Turn != entity.PlayerA {
		that.mu.Unlock()
		return apperror.ErrNotYourTurn
	}

	that.phase = PhaseSubmitting
	epoch := that.epoch
	snap := that.snapshotLocked()
	that.mu.Unlock()

	that.listener.BoardUpdated(snap)
	that.listener.StatusChanged("Submitting move...")

	go func() {
		update, err := that.client.SubmitMove(ctx, mv)
		if err != nil {
			that.failExchange(epoch, err)
			return
		}

		that.applyUpdate(ctx, epoch, update)
	}()

	return nil
}

// applyUpdate installs an authoritative snapshot and decides the next
// phase: game over, wait out the pacing delay before the AI's separate
// move, or hand the turn back to a human.
func (that *Machine) applyUpdate(ctx context.Context, epoch uint64, update *entity.SessionUpdate) {
	that.mu.Lock()
	if epoch != that.epoch {
		that.mu.Unlock()
		that.logger.Debug("discarding response for abandoned session", "epoch", epoch)
		return
	}

	that.board = update.Board

	if reveal := revealTarget(update); reveal != nil {
		that.reveal = reveal
		that.timers.Schedule(that.revealDelay, func() {
			that.clearReveal(epoch)
		})
	}

	var (
		status   string
		finished bool
		outcome  entity.Outcome
	)

	switch {
	case update.Board.Terminal:
		that.phase = PhaseGameOver
		finished = true
		outcome = update.Board.Outcome
		status = that.outcomeStatusLocked()
	case that.aiShouldReplyLocked():
		that.phase = PhaseAwaitingAI
		status = that.game.SideLabel(that.cfg.Mode, entity.PlayerB) + " is thinking..."
		that.scheduleAIMoveLocked(ctx, epoch)
	default:
		that.phase = PhaseAwaitingInput
		status = that.turnStatusLocked()
	}

	snap := that.snapshotLocked()
	that.mu.Unlock()

	that.listener.BoardUpdated(snap)
	that.listener.StatusChanged(status)

	if finished {
		that.listener.GameFinished(outcome)
	}
}

// aiShouldReplyLocked: the environment owes a move that arrives in a
// separate exchange. Bundled-reply games never enter the AI phases.
func (that *Machine) aiShouldReplyLocked() bool {
	return that.cfg.Mode == entity.ModePvE &&
		!that.game.BundledAIReply &&
		that.board != nil &&
		that.board.Turn == entity.PlayerB
}

// scheduleAIMoveLocked arms the pacing delay. The delay must elapse
// fully before the request goes out; it is pacing, not correctness.
func (that *Machine) scheduleAIMoveLocked(ctx context.Context, epoch uint64) {
	that.timers.Schedule(that.aiDelay, func() {
		that.fireAIMove(ctx, epoch)
	})
}

func (that *Machine) fireAIMove(ctx context.Context, epoch uint64) {
	that.mu.Lock()
	if epoch != that.epoch || that.phase != PhaseAwaitingAI {
		that.mu.Unlock()
		that.logger.Debug("dropping stale ai-move timer", "epoch", epoch)
		return
	}

	that.phase = PhaseApplyingAI
	snap := that.snapshotLocked()
	that.mu.Unlock()

	that.listener.BoardUpdated(snap)

	go func() {
		update, err := that.client.RequestAIMove(ctx)
		if err != nil {
			that.failExchange(epoch, err)
			return
		}

		that.applyUpdate(ctx, epoch, update)
	}()
}

// failExchange surfaces an exchange error and returns input to the
// user. Nothing is retried automatically.
func (that *Machine) failExchange(epoch uint64, err error) {
	that.mu.Lock()
	if epoch != that.epoch {
		that.mu.Unlock()
		that.logger.Debug("discarding error for abandoned session", "epoch", epoch)
		return
	}

	if that.board == nil {
		that.phase = PhaseIdle
	} else {
		that.phase = PhaseAwaitingInput
	}

	snap := that.snapshotLocked()
	that.mu.Unlock()

	that.logger.Warn("exchange failed", "error", err)

	that.listener.BoardUpdated(snap)
	that.listener.StatusChanged(statusForError(err))
}

func (that *Machine) clearReveal(epoch uint64) {
	that.mu.Lock()
	if epoch != that.epoch || that.reveal == nil {
		that.mu.Unlock()
		return
	}

	that.reveal = nil
	snap := that.snapshotLocked()
	that.mu.Unlock()

	that.listener.BoardUpdated(snap)
}

func (that *Machine) snapshotLocked() Snapshot {
	snap := Snapshot{
		Phase: that.phase,
		Board: that.board.Clone(),
	}

	if that.reveal != nil {
		reveal := *that.reveal
		snap.Reveal = &reveal
	}

	return snap
}

func (that *Machine) turnStatusLocked() string {
	label := that.game.SideLabel(that.cfg.Mode, that.board.Turn)

	if that.cfg.Mode == entity.ModePvP {
		return label + "'s turn!"
	}

	if that.board.Turn == entity.PlayerA {
		return "Your turn!"
	}

	return label + " is thinking..."
}

func (that *Machine) outcomeStatusLocked() string {
	switch that.board.Outcome {
	case entity.OutcomeAWins:
		return that.game.SideLabel(that.cfg.Mode, entity.PlayerA) + " won!"
	case entity.OutcomeBWins:
		return that.game.SideLabel(that.cfg.Mode, entity.PlayerB) + " won!"
	default:
		return "It's a draw!"
	}
}

// revealTarget picks the animation target of an exchange: the AI's
// bundled reply when present, otherwise the human's own move.
func revealTarget(update *entity.SessionUpdate) *entity.Move {
	if update.AIMove != nil {
		reveal := *update.AIMove
		return &reveal
	}

	if update.HumanMove != nil {
		reveal := *update.HumanMove
		return &reveal
	}

	return nil
}

func statusForError(err error) string {
	switch {
	case errors.Is(err, apperror.ErrNetwork):
		return "Network error. Please try again."
	case errors.Is(err, apperror.ErrInvalidMove):
		return "Invalid move."
	default:
		return "Server error. Please try again."
	}
}
