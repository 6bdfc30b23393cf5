package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"chesscore/internal/board"
	"chesscore/internal/cli"
	"chesscore/internal/core"
	"chesscore/internal/game"
	"chesscore/internal/service"

	"github.com/chzyer/readline"
)

// LineReader is the part of *readline.Instance the handler needs
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// CLIHandler runs a local two-player game on one terminal
type CLIHandler struct {
	svc    *service.Service
	view   *cli.View
	gameID string
}

func New(svc *service.Service, view *cli.View) *CLIHandler {
	return &CLIHandler{
		svc:  svc,
		view: view,
	}
}

// Run reads commands until quit or end of input
func (h *CLIHandler) Run(rl LineReader) {
	for {
		rl.SetPrompt(h.getPrompt())

		line, err := rl.Readline()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				break
			}
			continue
		}
		if err != nil {
			continue
		}

		if !h.ProcessCommand(cli.ParseCommand(line)) {
			break
		}
	}
	h.closeGame()
}

// Generates the prompt, showing whose turn it is during a game
func (h *CLIHandler) getPrompt() string {
	prompt := "> "
	if h.gameID == "" {
		return prompt
	}
	_ = h.svc.View(h.gameID, func(g *game.Game) error {
		if !g.State().IsTerminal() {
			prompt = fmt.Sprintf("[%s]> ", g.Turn())
			if g.InCheck() {
				prompt = fmt.Sprintf("[%s+]> ", g.Turn())
			}
		}
		return nil
	})
	return prompt
}

// ProcessCommand handles one command and returns false to exit
func (h *CLIHandler) ProcessCommand(cmd cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:

	case cli.CmdNew:
		h.startGame("")

	case cli.CmdResume:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: resume <FEN string>")
			return true
		}
		h.startGame(strings.Join(cmd.Args, " "))

	case cli.CmdMove:
		if !h.requireGame() {
			return true
		}
		from, to, promotion, err := cli.ParseMove(cmd.Args[0])
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		ev, err := h.svc.Play(h.gameID, from, to, promotion)
		h.afterMove(ev, err)

	case cli.CmdCastle:
		if !h.requireGame() {
			return true
		}
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: castle k|q")
			return true
		}
		side, err := board.ParseCastleSide(cmd.Args[0])
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		ev, err := h.svc.Castle(h.gameID, side)
		h.afterMove(ev, err)

	case cli.CmdShow:
		if !h.requireGame() {
			return true
		}
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: show <square>")
			return true
		}
		h.showTargets(cmd.Args[0])

	case cli.CmdBoard:
		if h.requireGame() {
			h.displayBoard()
		}

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}

		theme := cli.ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
		} else {
			h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
			if h.gameID != "" {
				h.displayBoard()
			}
		}

	case cli.CmdHistory:
		if !h.requireGame() {
			return true
		}
		_ = h.svc.View(h.gameID, func(g *game.Game) error {
			h.view.ShowGameHistory(g)
			return nil
		})

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *CLIHandler) requireGame() bool {
	if h.gameID == "" {
		h.view.ShowMessage("No active game. Use 'new' or 'resume <FEN>'.")
		return false
	}
	return true
}

// Starts a new game, replacing the current one
func (h *CLIHandler) startGame(fen string) {
	gameID, _, err := h.svc.CreateGame(fen)
	if err != nil {
		h.view.ShowError(fmt.Errorf("could not start the game: %w", err))
		return
	}
	h.closeGame()
	h.gameID = gameID

	h.view.ShowMessage("Game started.")
	h.displayBoard()
	h.announceState()
}

func (h *CLIHandler) closeGame() {
	if h.gameID != "" {
		_ = h.svc.DeleteGame(h.gameID)
		h.gameID = ""
	}
}

func (h *CLIHandler) afterMove(ev board.MoveEvent, err error) {
	if err != nil {
		if errors.Is(err, game.ErrGameOver) {
			h.view.ShowMessage("The game is over. Start a new game with 'new' or 'resume'.")
			return
		}
		h.view.ShowError(fmt.Errorf("invalid move: %w", err))
		return
	}

	h.view.ShowMove(ev)
	h.displayBoard()
	h.announceState()
}

// announceState reports check or the winner of a finished game
func (h *CLIHandler) announceState() {
	_ = h.svc.View(h.gameID, func(g *game.Game) error {
		switch {
		case g.State().IsTerminal():
			h.view.ShowGameOver(g.State())
		case g.InCheck():
			h.view.ShowMessage(fmt.Sprintf("%s is in check.", g.Turn().Name()))
		}
		return nil
	})
}

func (h *CLIHandler) displayBoard(highlight ...core.Square) {
	_ = h.svc.View(h.gameID, func(g *game.Game) error {
		h.view.DisplayBoard(g.Board(), highlight...)
		return nil
	})
}

func (h *CLIHandler) showTargets(square string) {
	sq, err := core.ParseSquare(square)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	targets, sides, err := h.svc.Targets(h.gameID, sq)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	if len(targets) == 0 && len(sides) == 0 {
		h.view.ShowMessage(fmt.Sprintf("No moves from %s.", sq))
		return
	}

	h.displayBoard(targets...)
	for _, side := range sides {
		h.view.ShowMessage(fmt.Sprintf("Castling %s is available.", side))
	}
}
