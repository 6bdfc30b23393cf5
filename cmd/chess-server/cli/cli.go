package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"chesscore/internal/board"
	"chesscore/internal/core"
	"chesscore/internal/game"
	"chesscore/internal/storage"
)

// Run is the entry point for the db mini-app
func Run(args []string) error {
	return run(args, os.Stdout)
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query, replay")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:], out)
	case "delete":
		return runDelete(args[1:], out)
	case "query":
		return runQuery(args[1:], out)
	case "replay":
		return runReplay(args[1:], out)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

func openStore(name string, args []string, extra func(fs *flag.FlagSet)) (*storage.Store, *flag.FlagSet, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	if extra != nil {
		extra(fs)
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if *path == "" {
		return nil, nil, fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, fs, nil
}

func runInit(args []string, out io.Writer) error {
	store, fs, err := openStore("init", args, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintf(out, "Database initialized at: %s\n", fs.Lookup("path").Value)
	return nil
}

func runDelete(args []string, out io.Writer) error {
	store, fs, err := openStore("delete", args, nil)
	if err != nil {
		return err
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(out, "Database deleted: %s\n", fs.Lookup("path").Value)
	return nil
}

func runQuery(args []string, out io.Writer) error {
	var gameID *string
	var moves *bool
	store, _, err := openStore("query", args, func(fs *flag.FlagSet) {
		gameID = fs.String("gameId", "", "Game ID to filter (optional, * for all)")
		moves = fs.Bool("moves", false, "List the move log of -gameId instead of games")
	})
	if err != nil {
		return err
	}
	defer store.Close()

	if *moves {
		if *gameID == "" || *gameID == "*" {
			return fmt.Errorf("-moves requires a single -gameId")
		}
		return printMoves(store, *gameID, out)
	}

	games, err := store.QueryGames(*gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(games) == 0 {
		fmt.Fprintln(out, "No games found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tStart Time\tInitial FEN")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, g := range games {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			g.GameID,
			g.StartTimeUTC.Format("2006-01-02 15:04:05"),
			g.InitialFEN,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nFound %d game(s)\n", len(games))
	return nil
}

func printMoves(store *storage.Store, gameID string, out io.Writer) error {
	moves, err := store.QueryMoves(gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(moves) == 0 {
		fmt.Fprintln(out, "No moves found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tColor\tKind\tFrom\tTo\tPromotion\tTime\tFEN After")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, m := range moves {
		promotion := m.Promotion
		if promotion == "" {
			promotion = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.MoveNumber,
			m.PlayerColor,
			m.Kind,
			m.FromSquare,
			m.ToSquare,
			promotion,
			m.MoveTimeUTC.Format("15:04:05"),
			m.FENAfterMove,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nFound %d move(s)\n", len(moves))
	return nil
}

// runReplay plays a stored game back through the rules engine and checks
// every recorded position
func runReplay(args []string, out io.Writer) error {
	var gameID *string
	store, _, err := openStore("replay", args, func(fs *flag.FlagSet) {
		gameID = fs.String("gameId", "", "Game ID to replay (required)")
	})
	if err != nil {
		return err
	}
	defer store.Close()

	if *gameID == "" {
		return fmt.Errorf("game ID required")
	}

	games, err := store.QueryGames(*gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if len(games) == 0 {
		return fmt.Errorf("game not found: %s", *gameID)
	}

	moves, err := store.QueryMoves(*gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	g, err := game.New(games[0].InitialFEN)
	if err != nil {
		return fmt.Errorf("stored initial FEN is invalid: %w", err)
	}

	for _, m := range moves {
		if err := replayMove(g, m); err != nil {
			return fmt.Errorf("move %d: %w", m.MoveNumber, err)
		}
	}

	fmt.Fprintf(out, "Replayed %d move(s)\n", len(moves))
	fmt.Fprintf(out, "Final FEN: %s\n", g.CurrentFEN())
	fmt.Fprintf(out, "State: %s\n", g.State())
	return nil
}

func replayMove(g *game.Game, m storage.MoveRecord) error {
	from, err := core.ParseSquare(m.FromSquare)
	if err != nil {
		return err
	}
	to, err := core.ParseSquare(m.ToSquare)
	if err != nil {
		return err
	}

	// Dispatch on what was recorded; a plain move onto the last rank leaves
	// the Pawn unpromoted
	switch {
	case m.Kind == board.MoveKindCastling:
		side, ok := g.Board().CastleSideFor(from, to)
		if !ok {
			return fmt.Errorf("%s-%s is not a castling move", m.FromSquare, m.ToSquare)
		}
		err = g.Castle(side)
	case m.Promotion != "":
		kind, ok := core.KindFromChar(m.Promotion[0])
		if !ok {
			return fmt.Errorf("invalid promotion %q", m.Promotion)
		}
		err = g.Promote(from, to, kind)
	default:
		err = g.Move(from, to)
	}
	if err != nil {
		return err
	}

	ev := g.LastMove()
	if ev.Kind != m.Kind {
		return fmt.Errorf("recorded as %s but replayed as %s", m.Kind, ev.Kind)
	}
	if fen := g.CurrentFEN(); fen != m.FENAfterMove {
		return fmt.Errorf("position mismatch: recorded %q, replayed %q", m.FENAfterMove, fen)
	}
	return nil
}
