package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gridgames-client/internal/apperror"
	"github.com/rocketscienceinc/gridgames-client/internal/entity"
	"github.com/rocketscienceinc/gridgames-client/internal/game"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type fakeClient struct {
	mu sync.Mutex

	startFn  func(entity.SessionConfig) (*entity.SessionUpdate, error)
	moveFn   func(entity.Move) (*entity.SessionUpdate, error)
	aiFn     func() (*entity.SessionUpdate, error)
	resumeFn func() (*entity.ResumedSession, bool)

	startCalls int
	moveCalls  int
	aiCalls    int
}

func (that *fakeClient) StartSession(_ context.Context, cfg entity.SessionConfig) (*entity.SessionUpdate, error) {
	that.mu.Lock()
	that.startCalls++
	fn := that.startFn
	that.mu.Unlock()

	if fn == nil {
		return nil, errors.New("unexpected StartSession")
	}

	return fn(cfg)
}

func (that *fakeClient) SubmitMove(_ context.Context, mv entity.Move) (*entity.SessionUpdate, error) {
	that.mu.Lock()
	that.moveCalls++
	fn := that.moveFn
	that.mu.Unlock()

	if fn == nil {
		return nil, errors.New("unexpected SubmitMove")
	}

	return fn(mv)
}

func (that *fakeClient) RequestAIMove(_ context.Context) (*entity.SessionUpdate, error) {
	that.mu.Lock()
	that.aiCalls++
	fn := that.aiFn
	that.mu.Unlock()

	if fn == nil {
		return nil, errors.New("unexpected RequestAIMove")
	}

	return fn()
}

func (that *fakeClient) FetchCurrentSession(_ context.Context) (*entity.ResumedSession, bool) {
	that.mu.Lock()
	fn := that.resumeFn
	that.mu.Unlock()

	if fn == nil {
		return nil, false
	}

	return fn()
}

func (that *fakeClient) counts() (int, int, int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.startCalls, that.moveCalls, that.aiCalls
}

// manualScheduler holds scheduled functions until the test fires them,
// standing in for wall-clock pacing and reveal timers.
type manualScheduler struct {
	mu      sync.Mutex
	pending []func()
}

func (that *manualScheduler) Schedule(_ time.Duration, fn func()) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.pending = append(that.pending, fn)
}

func (that *manualScheduler) CancelAll() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.pending = nil
}

func (that *manualScheduler) fire() {
	that.mu.Lock()
	fns := that.pending
	that.pending = nil
	that.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (that *manualScheduler) take() []func() {
	that.mu.Lock()
	defer that.mu.Unlock()

	fns := that.pending
	that.pending = nil

	return fns
}

func (that *manualScheduler) pendingCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.pending)
}

type recordingListener struct {
	mu        sync.Mutex
	snapshots []Snapshot
	statuses  []string
	finished  []entity.Outcome
}

func (that *recordingListener) BoardUpdated(snapshot Snapshot) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.snapshots = append(that.snapshots, snapshot)
}

func (that *recordingListener) StatusChanged(message string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.statuses = append(that.statuses, message)
}

func (that *recordingListener) GameFinished(outcome entity.Outcome) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.finished = append(that.finished, outcome)
}

func (that *recordingListener) finishedOutcomes() []entity.Outcome {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]entity.Outcome(nil), that.finished...)
}

func (that *recordingListener) sawPhase(phase Phase) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, snap := range that.snapshots {
		if snap.Phase == phase {
			return true
		}
	}

	return false
}

func (that *recordingListener) lastStatus() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.statuses) == 0 {
		return ""
	}

	return that.statuses[len(that.statuses)-1]
}

func (that *recordingListener) lastSnapshot() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.snapshots) == 0 {
		return Snapshot{}
	}

	return that.snapshots[len(that.snapshots)-1]
}

func newTestMachine(desc game.Descriptor, gameClient *fakeClient) (*Machine, *manualScheduler, *recordingListener) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	timers := &manualScheduler{}
	listener := &recordingListener{}

	machine := NewMachine(logger, desc, gameClient, timers, listener, 300*time.Millisecond, 600*time.Millisecond)

	return machine, timers, listener
}

// openBoard builds a non-terminal board with every free cell legal.
func openBoard(desc game.Descriptor, turn entity.Mark) *entity.BoardModel {
	board := entity.NewBoardModel(desc.Rows, desc.Cols)
	board.Turn = turn

	if desc.ColumnMoves {
		for col := 0; col < desc.Cols; col++ {
			board.LegalMoves = append(board.LegalMoves, entity.ColumnMove(col))
		}

		return board
	}

	for row := 0; row < desc.Rows; row++ {
		for col := 0; col < desc.Cols; col++ {
			board.LegalMoves = append(board.LegalMoves, entity.Move{Row: row, Col: col})
		}
	}

	return board
}

func waitPhase(t *testing.T, machine *Machine, phase Phase) {
	t.Helper()

	require.Eventually(t, func() bool {
		return machine.Phase() == phase
	}, waitFor, tick, "expected phase %s, got %s", phase, machine.Phase())
}

func TestMachine_StartSession(t *testing.T) {
	t.Run("human first hands the turn to the human", func(t *testing.T) {
		// Given: a server opening a game with the human to move
		gameClient := &fakeClient{
			startFn: func(entity.SessionConfig) (*entity.SessionUpdate, error) {
				return &entity.SessionUpdate{Board: openBoard(game.TicTacToe, entity.PlayerA)}, nil
			},
		}
		machine, timers, _ := newTestMachine(game.TicTacToe, gameClient)

		// When: starting a session
		machine.StartSession(context.Background(), entity.DefaultSessionConfig())

		// Then: input opens with no timer pending
		waitPhase(t, machine, PhaseAwaitingInput)
		assert.Zero(t, timers.pendingCount())
	})

	t.Run("environment first arms the pacing delay", func(t *testing.T) {
		// Given: a server opening a game with the environment to move
		gameClient := &fakeClient{
			startFn: func(entity.SessionConfig) (*entity.SessionUpdate, error) {
				return &entity.SessionUpdate{Board: openBoard(game.TicTacToe, entity.PlayerB)}, nil
			},
			aiFn: func() (*entity.SessionUpdate, error) {
				board := openBoard(game.TicTacToe, entity.PlayerA)
				board.Cells[4] = entity.PlayerB
				return &entity.SessionUpdate{Board: board}, nil
			},
		}
		machine, timers, _ := newTestMachine(game.TicTacToe, gameClient)

		cfg := entity.DefaultSessionConfig()
		cfg.FirstMover = entity.FirstMoverEnvironment

		// When: starting the session
		machine.StartSession(context.Background(), cfg)

		// Then: the machine waits for the AI and no request goes out
		// before the delay elapses
		waitPhase(t, machine, PhaseAwaitingAI)
		require.Equal(t, 1, timers.pendingCount())

		_, _, aiCalls := gameClient.counts()
		assert.Zero(t, aiCalls)

		// When: the pacing delay elapses
		timers.fire()

		// Then: the AI reply lands and input reopens
		waitPhase(t, machine, PhaseAwaitingInput)
		_, _, aiCalls = gameClient.counts()
		assert.Equal(t, 1, aiCalls)
	})

	t.Run("start failure falls back to idle", func(t *testing.T) {
		// Given: an unreachable server
		gameClient := &fakeClient{
			startFn: func(entity.SessionConfig) (*entity.SessionUpdate, error) {
				return nil, fmt.Errorf("%w: connection refused", apperror.ErrNetwork)
			},
		}
		machine, _, listener := newTestMachine(game.TicTacToe, gameClient)

		// When: starting a session
		machine.StartSession(context.Background(), entity.DefaultSessionConfig())

		// Then: there is no session and the failure is surfaced
		waitPhase(t, machine, PhaseIdle)
		assert.Contains(t, listener.lastStatus(), "Network error")
	})
}

func TestMachine_InputGuards(t *testing.T) {
	startReady := func(turn entity.Mark) *fakeClient {
		return &fakeClient{
			startFn: func(entity.SessionConfig) (*entity.SessionUpdate, error) {
				return &entity.SessionUpdate{Board: openBoard(game.TicTacToe, turn)}, nil
			},
		}
	}

	t.Run("no session rejects input", func(t *testing.T) {
		machine, _, _ := newTestMachine(game.TicTacToe, &fakeClient{})

		err := machine.HandleInput(context.Background(), entity.Move{Row: 0, Col: 0})

		assert.ErrorIs(t, err, apperror.ErrNoActiveSession)
	})

	t.Run("a position outside the legal set never reaches the network", func(t *testing.T) {
		// Given: an active session
		gameClient := startReady(entity.PlayerA)
		machine, _, _ := newTestMachine(game.TicTacToe, gameClient)
		machine.StartSession(context.Background(), entity.DefaultSessionConfig())
		waitPhase(t, machine, PhaseAwaitingInput)

		// When: clicking outside the board
		err := machine.HandleInput(context.Background(), entity.Move{Row: 7, Col: 7})

		// Then: the click is absorbed locally
		assert.ErrorIs(t, err, apperror.ErrIllegalMove)
		_, moveCalls, _ := gameClient.counts()
		assert.Zero(t, moveCalls)
	})

	t.Run("input is dropped while a move is in flight", func(t *testing.T) {
		// Given: a submit that hangs until released
		release := make(chan struct{})
		gameClient := startReady(entity.PlayerA)
		gameClient.moveFn = func(entity.Move) (*entity.SessionUpdate, error) {
			<-release
			return &entity.SessionUpdate{Board: openBoard(game.TicTacToe, entity.PlayerB)}, nil
		}

		machine, _, _ := newTestMachine(game.TicTacToe, gameClient)
		machine.StartSession(context.Background(), entity.DefaultSessionConfig())
		waitPhase(t, machine, PhaseAwaitingInput)

		// When: a first click is accepted and a second follows
		require.NoError(t, machine.HandleInput(context.Background(), entity.Move{Row: 0, Col: 0}))
		err := machine.HandleInput(context.Background(), entity.Move{Row: 0, Col: 1})

		// Then: the second click is dropped, not queued
		assert.ErrorIs(t, err, apperror.ErrInputLocked)

		close(release)
		waitPhase(t, machine, PhaseAwaitingAI)

		_, moveCalls, _ := gameClient.counts()
		assert.Equal(t, 1, moveCalls)
	})

	t.Run("the environment's turn rejects human clicks", func(t *testing.T) {
		// Given: a bundled-reply game whose snapshot still shows the
		// environment to move
		gameClient := &fakeClient{
			startFn: func(entity.SessionConfig) (*entity.SessionUpdate, error) {
				return &entity.SessionUpdate{Board: openBoard(game.ConnectFour, entity.PlayerB)}, nil
			},
		}
		machine, _, _ := newTestMachine(game.ConnectFour, gameClient)
		machine.StartSession(context.Background(), entity.DefaultSessionConfig())
		waitPhase(t, machine, PhaseAwaitingInput)

		// When: the human clicks anyway
		err := machine.HandleInput(context.Background(), entity.ColumnMove(3))

		// Then: the click bounces off the turn guard
		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})
}

func TestMachine_PvETurnCycle(t *testing.T) {
	// Given: a server where the human plays the center and the AI
	// answers in a separate exchange
	gameClient := &fakeClient{
		startFn: func(entity.SessionConfig) (*entity.SessionUpdate, error) {
			return &entity.SessionUpdate{Board: openBoard(game.TicTacToe, entity.PlayerA)}, nil
		},
		moveFn: func(mv entity.Move) (*entity.SessionUpdate, error) {
			board := openBoard(game.TicTacToe, entity.PlayerB)
			board.Cells[mv.Row*3+mv.Col] = entity.PlayerA
			update := &entity.SessionUpdate{Board: board}
			update.HumanMove = &mv
			return update, nil
		},
		aiFn: func() (*entity.SessionUpdate, error) {
			board := openBoard(game.TicTacToe, entity.PlayerA)
			board.Cells[4] = entity.PlayerA
			board.Cells[0] = entity.PlayerB
			return &entity.SessionUpdate{Board: board}, nil
		},
	}
	machine, timers, listener := newTestMachine(game.TicTacToe, gameClient)

	machine.StartSession(context.Background(), entity.DefaultSessionConfig())
	waitPhase(t, machine, PhaseAwaitingInput)

	// When: the human plays the center on an empty board
	require.NoError(t, machine.HandleInput(context.Background(), entity.Move{Row: 1, Col: 1}))

	// Then: the machine parks in the AI wait; clicks are refused and
	// the AI request is held back until the delay elapses
	waitPhase(t, machine, PhaseAwaitingAI)
	assert.Equal(t, entity.PlayerA, machine.Board().At(1, 1))
	assert.ErrorIs(t, machine.HandleInput(context.Background(), entity.Move{Row: 0, Col: 0}), apperror.ErrInputLocked)

	_, _, aiCalls := gameClient.counts()
	require.Zero(t, aiCalls)

	timers.fire()
	waitPhase(t, machine, PhaseAwaitingInput)

	// And: the applying phase was passed through on the way
	assert.True(t, listener.sawPhase(PhaseApplyingAI))
	assert.Equal(t, entity.PlayerB, machine.Board().At(0, 0))
	assert.Empty(t, listener.finishedOutcomes())
}

func TestMachine_BundledReply(t *testing.T) {
	t.Run("combined exchange reopens input without AI phases", func(t *testing.T) {
		// Given: a connect-four server answering the drop in the same
		// exchange
		humanMove, aiMove := entity.ColumnMove(3), entity.ColumnMove(2)
		gameClient := &fakeClient{
			startFn: func(entity.SessionConfig) (*entity.SessionUpdate, error) {
				return &entity.SessionUpdate{Board: openBoard(game.ConnectFour, entity.PlayerA)}, nil
			},
			moveFn: func(entity.Move) (*entity.SessionUpdate, error) {
				board := openBoard(game.ConnectFour, entity.PlayerA)
				board.Cells[5*7+3] = entity.PlayerA
				board.Cells[5*7+2] = entity.PlayerB
				return &entity.SessionUpdate{Board: board, HumanMove: &humanMove, AIMove: &aiMove}, nil
			},
		}
		machine, _, listener := newTestMachine(game.ConnectFour, gameClient)

		machine.StartSession(context.Background(), entity.DefaultSessionConfig())
		waitPhase(t, machine, PhaseAwaitingInput)

		// When: dropping in column 3
		require.NoError(t, machine.HandleInput(context.Background(), entity.ColumnMove(3)))
		waitPhase(t, machine, PhaseAwaitingInput)

		// Then: no separate AI exchange happens and the AI reply is the
		// reveal target
		_, _, aiCalls := gameClient.counts()
		assert.Zero(t, aiCalls)
		assert.False(t, listener.sawPhase(PhaseAwaitingAI))
		assert.False(t, listener.sawPhase(PhaseApplyingAI))

		snap := listener.lastSnapshot()
		require.NotNil(t, snap.Reveal)
		assert.Equal(t, 2, snap.Reveal.Col)
	})

	t.Run("winning drop finishes the game and requests nothing", func(t *testing.T) {
		// Given: the drop completes four in a row
		humanMove := entity.ColumnMove(3)
		gameClient := &fakeClient{
			startFn: func(entity.SessionConfig) (*entity.SessionUpdate, error) {
				return &entity.SessionUpdate{Board: openBoard(game.ConnectFour, entity.PlayerA)}, nil
			},
			moveFn: func(entity.Move) (*entity.SessionUpdate, error) {
				board := entity.NewBoardModel(6, 7)
				for col := 0; col < 4; col++ {
					board.Cells[5*7+col] = entity.PlayerA
				}
				board.Terminal = true
				board.Outcome = entity.OutcomeAWins
				return &entity.SessionUpdate{Board: board, HumanMove: &humanMove}, nil
			},
		}
		machine, _, listener := newTestMachine(game.ConnectFour, gameClient)

		machine.StartSession(context.Background(), entity.DefaultSessionConfig())
		waitPhase(t, machine, PhaseAwaitingInput)

		// When: making the winning drop
		require.NoError(t, machine.HandleInput(context.Background(), entity.ColumnMove(3)))
		waitPhase(t, machine, PhaseGameOver)

		// Then: the outcome is reported exactly once and no AI move is
		// requested
		assert.Equal(t, []entity.Outcome{entity.OutcomeAWins}, listener.finishedOutcomes())
		_, _, aiCalls := gameClient.counts()
		assert.Zero(t, aiCalls)

		// And: further input bounces off the terminal session
		assert.ErrorIs(t, machine.HandleInput(context.Background(), entity.ColumnMove(0)), apperror.ErrGameFinished)
	})
}

func TestMachine_StaleProtection(t *testing.T) {
	t.Run("a response for an abandoned session is discarded", func(t *testing.T) {
		// Given: a submit blocked in flight
		release := make(chan struct{})
		staleBoard := openBoard(game.TicTacToe, entity.PlayerB)
		staleBoard.Cells[0] = entity.PlayerA

		gameClient := &fakeClient{}
		gameClient.startFn = func(entity.SessionConfig) (*entity.SessionUpdate, error) {
			return &entity.SessionUpdate{Board: openBoard(game.TicTacToe, entity.PlayerA)}, nil
		}
		gameClient.moveFn = func(entity.Move) (*entity.SessionUpdate, error) {
			<-release
			return &entity.SessionUpdate{Board: staleBoard}, nil
		}

		machine, _, _ := newTestMachine(game.TicTacToe, gameClient)
		machine.StartSession(context.Background(), entity.DefaultSessionConfig())
		waitPhase(t, machine, PhaseAwaitingInput)

		require.NoError(t, machine.HandleInput(context.Background(), entity.Move{Row: 0, Col: 0}))
		waitPhase(t, machine, PhaseSubmitting)

		// When: a new game starts before the response lands
		machine.StartSession(context.Background(), entity.DefaultSessionConfig())
		waitPhase(t, machine, PhaseAwaitingInput)

		close(release)

		// Then: the stale snapshot never reaches the active board
		require.Never(t, func() bool {
			return machine.Board().At(0, 0) == entity.PlayerA
		}, 200*time.Millisecond, tick)
		assert.Equal(t, PhaseAwaitingInput, machine.Phase())
	})

	t.Run("a stale pacing timer fires into nothing", func(t *testing.T) {
		// Given: a session parked in the AI wait
		gameClient := &fakeClient{
			startFn: func(entity.SessionConfig) (*entity.SessionUpdate, error) {
				return &entity.SessionUpdate{Board: openBoard(game.TicTacToe, entity.PlayerB)}, nil
			},
		}
		machine, timers, _ := newTestMachine(game.TicTacToe, gameClient)

		cfg := entity.DefaultSessionConfig()
		cfg.FirstMover = entity.FirstMoverEnvironment
		machine.StartSession(context.Background(), cfg)
		waitPhase(t, machine, PhaseAwaitingAI)

		// When: the timer callback outlives the session it was armed for
		stale := timers.take()
		machine.Abandon()

		for _, fn := range stale {
			fn()
		}

		// Then: no AI request goes out for the dead session
		_, _, aiCalls := gameClient.counts()
		assert.Zero(t, aiCalls)
		assert.Equal(t, PhaseIdle, machine.Phase())
	})

	t.Run("abandoning cancels all pending timers", func(t *testing.T) {
		gameClient := &fakeClient{
			startFn: func(entity.SessionConfig) (*entity.SessionUpdate, error) {
				return &entity.SessionUpdate{Board: openBoard(game.TicTacToe, entity.PlayerB)}, nil
			},
		}
		machine, timers, _ := newTestMachine(game.TicTacToe, gameClient)

		cfg := entity.DefaultSessionConfig()
		cfg.FirstMover = entity.FirstMoverEnvironment
		machine.StartSession(context.Background(), cfg)
		waitPhase(t, machine, PhaseAwaitingAI)
		require.Equal(t, 1, timers.pendingCount())

		machine.Abandon()

		assert.Zero(t, timers.pendingCount())
		assert.Nil(t, machine.Board())
	})
}

func TestMachine_ExchangeFailure(t *testing.T) {
	// Given: a server that rejects the move as stale
	gameClient := &fakeClient{
		startFn: func(entity.SessionConfig) (*entity.SessionUpdate, error) {
			return &entity.SessionUpdate{Board: openBoard(game.TicTacToe, entity.PlayerA)}, nil
		},
		moveFn: func(entity.Move) (*entity.SessionUpdate, error) {
			return nil, fmt.Errorf("%w: cell taken", apperror.ErrInvalidMove)
		},
	}
	machine, _, listener := newTestMachine(game.TicTacToe, gameClient)

	machine.StartSession(context.Background(), entity.DefaultSessionConfig())
	waitPhase(t, machine, PhaseAwaitingInput)
	before := machine.Board()

	// When: the move fails
	require.NoError(t, machine.HandleInput(context.Background(), entity.Move{Row: 0, Col: 0}))
	waitPhase(t, machine, PhaseAwaitingInput)

	// Then: the board is unchanged, the error surfaced, nothing retried
	assert.True(t, before.Equal(machine.Board()))
	assert.Contains(t, listener.lastStatus(), "Invalid move")
	_, moveCalls, _ := gameClient.counts()
	assert.Equal(t, 1, moveCalls)
}

func TestMachine_Resume(t *testing.T) {
	t.Run("a session owed an AI move arms the pacing delay", func(t *testing.T) {
		// Given: a stored PvE game with the environment to move
		gameClient := &fakeClient{
			resumeFn: func() (*entity.ResumedSession, bool) {
				return &entity.ResumedSession{
					Board:  openBoard(game.TicTacToe, entity.PlayerB),
					Config: entity.DefaultSessionConfig(),
				}, true
			},
		}
		machine, timers, _ := newTestMachine(game.TicTacToe, gameClient)

		// When: resuming at startup
		require.True(t, machine.Resume(context.Background()))

		// Then: the machine waits for the AI behind the pacing delay
		waitPhase(t, machine, PhaseAwaitingAI)
		assert.Equal(t, 1, timers.pendingCount())
	})

	t.Run("a finished session shows as over without re-counting", func(t *testing.T) {
		// Given: a stored game that already ended
		gameClient := &fakeClient{
			resumeFn: func() (*entity.ResumedSession, bool) {
				board := entity.NewBoardModel(3, 3)
				board.Terminal = true
				board.Outcome = entity.OutcomeDraw
				return &entity.ResumedSession{Board: board, Config: entity.DefaultSessionConfig()}, true
			},
		}
		machine, _, listener := newTestMachine(game.TicTacToe, gameClient)

		// When: resuming
		require.True(t, machine.Resume(context.Background()))

		// Then: the session is terminal but the tally is untouched
		assert.Equal(t, PhaseGameOver, machine.Phase())
		assert.Empty(t, listener.finishedOutcomes())
	})

	t.Run("no stored session stays idle", func(t *testing.T) {
		machine, _, _ := newTestMachine(game.TicTacToe, &fakeClient{})

		assert.False(t, machine.Resume(context.Background()))
		assert.Equal(t, PhaseIdle, machine.Phase())
	})
}

func TestMachine_RevealWindow(t *testing.T) {
	// Given: a move tagged for animation
	humanMove := entity.ColumnMove(3)
	gameClient := &fakeClient{
		startFn: func(entity.SessionConfig) (*entity.SessionUpdate, error) {
			return &entity.SessionUpdate{Board: openBoard(game.ConnectFour, entity.PlayerA)}, nil
		},
		moveFn: func(entity.Move) (*entity.SessionUpdate, error) {
			board := openBoard(game.ConnectFour, entity.PlayerA)
			board.Cells[5*7+3] = entity.PlayerA
			return &entity.SessionUpdate{Board: board, HumanMove: &humanMove}, nil
		},
	}
	machine, timers, listener := newTestMachine(game.ConnectFour, gameClient)

	machine.StartSession(context.Background(), entity.DefaultSessionConfig())
	waitPhase(t, machine, PhaseAwaitingInput)

	// When: the move lands
	require.NoError(t, machine.HandleInput(context.Background(), entity.ColumnMove(3)))
	require.Eventually(t, func() bool {
		return listener.lastSnapshot().Reveal != nil
	}, waitFor, tick)

	// Then: the reveal window closes when its timer elapses
	timers.fire()
	require.Eventually(t, func() bool {
		return listener.lastSnapshot().Reveal == nil
	}, waitFor, tick)
}
