package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rocketscienceinc/gridgames-client/internal/apperror"
	gameclient "github.com/rocketscienceinc/gridgames-client/internal/client"
	"github.com/rocketscienceinc/gridgames-client/internal/entity"
	"github.com/rocketscienceinc/gridgames-client/internal/game"
	"github.com/rocketscienceinc/gridgames-client/internal/render"
	"github.com/rocketscienceinc/gridgames-client/internal/repository"
	"github.com/rocketscienceinc/gridgames-client/internal/score"
	"github.com/rocketscienceinc/gridgames-client/internal/sequencer"
	"github.com/rocketscienceinc/gridgames-client/internal/session"
)

type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Tallies     repository.TallyRepository
	Settings    repository.SettingsRepository
	AIDelay     time.Duration
	RevealDelay time.Duration
}

// Terminal is the interactive front end: it reads commands, forwards
// input to the session machine, and draws boards from the snapshots
// the machine pushes back. It is the machine's Listener.
type Terminal struct {
	logger *slog.Logger
	opts   Options
	in     io.Reader
	out    io.Writer

	ctx    context.Context
	timers *sequencer.Sequencer

	mu      sync.Mutex
	machine *session.Machine
	tracker *score.Tracker
	cfg     entity.SessionConfig
	theme   string
	lastTop Snapshot
}

// Snapshot mirrors session.Snapshot for the draw path.
type Snapshot = session.Snapshot

func New(logger *slog.Logger, in io.Reader, out io.Writer, opts Options) *Terminal {
	return &Terminal{
		logger: logger.With("component", "terminal"),
		opts:   opts,
		in:     in,
		out:    out,
		timers: sequencer.New(logger),
		cfg:    entity.DefaultSessionConfig(),
		theme:  repository.ThemeLight,
	}
}

func (that *Terminal) Run(ctx context.Context) error {
	that.ctx = ctx

	theme, err := that.opts.Settings.Theme(ctx)
	if err != nil {
		that.logger.Warn("could not load theme preference", "error", err)
	}
	that.setTheme(theme)

	that.printf("gridgames — type 'help' for commands\n")
	that.attach(game.TicTacToe)

	lines := make(chan string)
	scanner := bufio.NewScanner(that.in)

	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("could not read input: %w", err)
				}

				return nil
			}

			if !that.handle(strings.TrimSpace(line)) {
				return nil
			}
		}
	}
}

// handle dispatches one command line; it returns false on quit.
func (that *Terminal) handle(line string) bool {
	if line == "" {
		return true
	}

	fields := strings.Fields(line)
	command, args := fields[0], fields[1:]

	switch command {
	case "quit", "exit":
		return false
	case "help":
		that.printHelp()
	case "game":
		that.switchGame(args)
	case "mode":
		that.setMode(args)
	case "first":
		that.setFirstMover(args)
	case "level":
		that.setDifficulty(args)
	case "new":
		that.machine.StartSession(that.ctx, that.currentConfig())
	case "move":
		that.submitCellMove(args)
	case "drop":
		that.submitColumnMove(args)
	case "board":
		that.redraw()
	case "score":
		that.printScore()
	case "theme":
		that.switchTheme(args)
	default:
		that.printf("unknown command %q — type 'help'\n", command)
	}

	return true
}

// attach builds a fresh session stack for the chosen game and tries to
// resume an in-progress server session.
func (that *Terminal) attach(desc game.Descriptor) {
	that.mu.Lock()
	if that.machine != nil {
		that.mu.Unlock()
		that.machine.Abandon()
		that.mu.Lock()
	}

	serverClient := gameclient.New(that.logger, that.opts.HTTPClient, that.opts.BaseURL, desc)
	that.tracker = score.NewTracker(that.ctx, that.logger, that.opts.Tallies, desc.ID)
	that.machine = session.NewMachine(
		that.logger, desc, serverClient, that.timers, that,
		that.opts.AIDelay, that.opts.RevealDelay,
	)

	if !desc.SupportsPvP {
		that.cfg.Mode = entity.ModePvE
	}

	machine := that.machine
	that.mu.Unlock()

	that.printf("— %s —\n", desc.Name)
	machine.Resume(that.ctx)
}

func (that *Terminal) switchGame(args []string) {
	if len(args) != 1 {
		that.printf("usage: game ttt|c4\n")
		return
	}

	var desc game.Descriptor
	switch args[0] {
	case "ttt", game.TicTacToe.ID:
		desc = game.TicTacToe
	case "c4", game.ConnectFour.ID:
		desc = game.ConnectFour
	default:
		that.printf("unknown game %q\n", args[0])
		return
	}

	that.attach(desc)
}

func (that *Terminal) setMode(args []string) {
	if len(args) != 1 || (args[0] != entity.ModePvE && args[0] != entity.ModePvP) {
		that.printf("usage: mode pve|pvp\n")
		return
	}

	that.mu.Lock()
	supported := that.machine.Game().SupportsPvP || args[0] == entity.ModePvE
	if supported {
		that.cfg.Mode = args[0]
	}
	machine := that.machine
	cfg := that.cfg
	that.mu.Unlock()

	if !supported {
		that.printf("%s only supports pve\n", machine.Game().Name)
		return
	}

	// A mode switch abandons the current session for a clean state.
	machine.StartSession(that.ctx, cfg)
}

func (that *Terminal) setFirstMover(args []string) {
	if len(args) != 1 || (args[0] != entity.FirstMoverHuman && args[0] != entity.FirstMoverEnvironment) {
		that.printf("usage: first human|ai\n")
		return
	}

	that.mu.Lock()
	that.cfg.FirstMover = args[0]
	that.mu.Unlock()

	that.printf("first mover set to %s (takes effect on 'new')\n", args[0])
}

func (that *Terminal) setDifficulty(args []string) {
	if len(args) != 1 {
		that.printf("usage: level <difficulty>\n")
		return
	}

	that.mu.Lock()
	that.cfg.Difficulty = args[0]
	that.mu.Unlock()

	that.printf("difficulty set to %s (takes effect on 'new')\n", args[0])
}

func (that *Terminal) submitCellMove(args []string) {
	that.mu.Lock()
	columnGame := that.machine.Game().ColumnMoves
	that.mu.Unlock()

	if columnGame {
		that.printf("this game takes 'drop <col>'\n")
		return
	}

	if len(args) != 2 {
		that.printf("usage: move <row> <col>\n")
		return
	}

	row, errRow := strconv.Atoi(args[0])
	col, errCol := strconv.Atoi(args[1])
	if errRow != nil || errCol != nil {
		that.printf("usage: move <row> <col>\n")
		return
	}

	that.forwardInput(entity.Move{Row: row, Col: col})
}

func (that *Terminal) submitColumnMove(args []string) {
	that.mu.Lock()
	columnGame := that.machine.Game().ColumnMoves
	that.mu.Unlock()

	if !columnGame {
		that.printf("this game takes 'move <row> <col>'\n")
		return
	}

	if len(args) != 1 {
		that.printf("usage: drop <col>\n")
		return
	}

	col, err := strconv.Atoi(args[0])
	if err != nil {
		that.printf("usage: drop <col>\n")
		return
	}

	that.forwardInput(entity.ColumnMove(col))
}

func (that *Terminal) forwardInput(mv entity.Move) {
	err := that.machine.HandleInput(that.ctx, mv)
	if err == nil {
		return
	}

	// Local guard rejections: no network call happened, just hint.
	switch {
	case errors.Is(err, apperror.ErrNoActiveSession):
		that.printf("no game running — 'new' starts one\n")
	case errors.Is(err, apperror.ErrGameFinished):
		that.printf("game is over — 'new' starts another\n")
	case errors.Is(err, apperror.ErrInputLocked):
		that.printf("hold on — a move is in flight\n")
	case errors.Is(err, apperror.ErrIllegalMove):
		that.printf("that spot isn't playable\n")
	case errors.Is(err, apperror.ErrNotYourTurn):
		that.printf("it's not your turn\n")
	default:
		that.printf("move rejected: %v\n", err)
	}
}

func (that *Terminal) switchTheme(args []string) {
	that.mu.Lock()
	theme := that.theme
	that.mu.Unlock()

	switch {
	case len(args) == 0:
		if theme == repository.ThemeLight {
			theme = repository.ThemeDark
		} else {
			theme = repository.ThemeLight
		}
	case args[0] == repository.ThemeLight || args[0] == repository.ThemeDark:
		theme = args[0]
	default:
		that.printf("usage: theme [light|dark]\n")
		return
	}

	that.setTheme(theme)

	if err := that.opts.Settings.SaveTheme(that.ctx, theme); err != nil {
		that.logger.Warn("could not persist theme preference", "error", err)
	}

	that.printf("theme: %s\n", theme)
	that.redraw()
}

func (that *Terminal) setTheme(theme string) {
	if theme != repository.ThemeDark {
		theme = repository.ThemeLight
	}

	that.mu.Lock()
	that.theme = theme
	that.mu.Unlock()
}

func (that *Terminal) currentConfig() entity.SessionConfig {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.cfg
}

func (that *Terminal) printScore() {
	that.mu.Lock()
	tally := that.tracker.Snapshot()
	desc := that.machine.Game()
	mode := that.cfg.Mode
	that.mu.Unlock()

	that.printf("%s: %d  %s: %d  Draws: %d\n",
		desc.SideLabel(mode, entity.PlayerA), tally.WinsA,
		desc.SideLabel(mode, entity.PlayerB), tally.WinsB,
		tally.Draws,
	)
}

func (that *Terminal) printHelp() {
	that.printf(`commands:
  game ttt|c4       switch game
  mode pve|pvp      play against the bot or a second human (ttt only)
  first human|ai    who opens the next game
  level <name>      bot strength for the next game
  new               start a new game
  move <row> <col>  play a cell (tic-tac-toe)
  drop <col>        drop a piece (connect-4)
  board             redraw the board
  score             show the tally
  theme [light|dark] switch glyph palette
  quit
`)
}

// BoardUpdated implements session.Listener.
func (that *Terminal) BoardUpdated(snapshot Snapshot) {
	that.mu.Lock()
	that.lastTop = snapshot
	that.mu.Unlock()

	that.draw(snapshot)
}

// StatusChanged implements session.Listener.
func (that *Terminal) StatusChanged(message string) {
	that.printf("%s\n", message)
}

// GameFinished implements session.Listener. This is the single point
// where an outcome reaches the tally.
func (that *Terminal) GameFinished(outcome entity.Outcome) {
	that.mu.Lock()
	tracker := that.tracker
	that.mu.Unlock()

	tracker.RecordOutcome(that.ctx, outcome)
	that.printScore()
}

func (that *Terminal) redraw() {
	that.mu.Lock()
	snapshot := that.lastTop
	that.mu.Unlock()

	that.draw(snapshot)
}

func (that *Terminal) draw(snapshot Snapshot) {
	that.mu.Lock()
	desc := that.machine.Game()
	theme := that.theme
	that.mu.Unlock()

	views := render.Project(desc, snapshot.Board, snapshot.Phase)

	empty, hint := " ", "."
	if theme == repository.ThemeDark {
		empty, hint = "·", "+"
	}

	var builder strings.Builder

	builder.WriteString("    ")
	for col := 0; col < desc.Cols; col++ {
		builder.WriteString(fmt.Sprintf(" %d  ", col))
	}
	builder.WriteString("\n")

	for row := 0; row < desc.Rows; row++ {
		builder.WriteString(fmt.Sprintf(" %d ", row))

		for col := 0; col < desc.Cols; col++ {
			view := views[row*desc.Cols+col]

			glyph := empty
			switch view.State {
			case render.CellMarkA:
				glyph = desc.GlyphA
			case render.CellMarkB:
				glyph = desc.GlyphB
			case render.CellWinning:
				glyph = that.winningGlyph(desc, snapshot.Board, row, col)
			case render.CellHint:
				glyph = hint
			}

			if that.isReveal(snapshot, desc, row, col) {
				builder.WriteString(fmt.Sprintf("[%s] ", glyph))
			} else {
				builder.WriteString(fmt.Sprintf(" %s  ", glyph))
			}
		}

		builder.WriteString("\n")
	}

	that.printf("%s", builder.String())
}

func (that *Terminal) winningGlyph(desc game.Descriptor, board *entity.BoardModel, row, col int) string {
	if board != nil && board.At(row, col) == entity.PlayerB {
		return "*" + desc.GlyphB + "*"
	}

	return "*" + desc.GlyphA + "*"
}

// isReveal marks the cell of the move inside its reveal window. A
// column move highlights the slot its piece landed in: the top-most
// occupied cell of the column.
func (that *Terminal) isReveal(snapshot Snapshot, desc game.Descriptor, row, col int) bool {
	if snapshot.Reveal == nil || snapshot.Board == nil {
		return false
	}

	if !desc.ColumnMoves {
		return snapshot.Reveal.Row == row && snapshot.Reveal.Col == col
	}

	if snapshot.Reveal.Col != col {
		return false
	}

	for r := 0; r < desc.Rows; r++ {
		if snapshot.Board.At(r, col) != entity.EmptyMark {
			return r == row
		}
	}

	return false
}

func (that *Terminal) printf(format string, args ...any) {
	fmt.Fprintf(that.out, format, args...)
}
