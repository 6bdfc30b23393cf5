package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"chesscore/internal/client/display"
	"chesscore/internal/core"
)

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Create a new game",
		Usage:       "new [FEN]",
		Handler:     newGameHandler,
	})

	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Description: "Set the current game ID",
		Usage:       "join <gameId> [token]",
		Handler:     joinGameHandler,
	})

	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Play a move; castling and promotion are inferred",
		Usage:       "move <from><to>[promotion] | move <from> <to> [promotion]",
		Handler:     moveHandler,
	})

	r.Register(&Command{
		Name:        "coord",
		ShortName:   "c",
		Description: "Make a plain move by row/col coordinates",
		Usage:       "coord <fromRow> <fromCol> <toRow> <toCol> [promotion]",
		Handler:     coordMoveHandler,
	})

	r.Register(&Command{
		Name:        "castle",
		ShortName:   "o",
		Description: "Castle kingside or queenside",
		Usage:       "castle k|q",
		Handler:     castleHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     showBoardHandler,
	})

	r.Register(&Command{
		Name:        "targets",
		ShortName:   "t",
		Description: "List where the piece on a square may move",
		Usage:       "targets <square>",
		Handler:     targetsHandler,
	})

	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Description: "Show raw game JSON",
		Usage:       "state",
		Handler:     gameStateHandler,
	})

	r.Register(&Command{
		Name:        "log",
		ShortName:   "g",
		Description: "Show the move log",
		Usage:       "log",
		Handler:     logHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Description: "Delete a game",
		Usage:       "delete [gameId]",
		Handler:     deleteGameHandler,
	})

	r.Register(&Command{
		Name:        "poll",
		ShortName:   "p",
		Description: "Long-poll until the opponent moves",
		Usage:       "poll",
		Handler:     pollHandler,
	})
}

func requireGame(s *Session) error {
	if s.CurrentGame == "" {
		return fmt.Errorf("no current game; use 'new' or 'join'")
	}
	return nil
}

// track remembers the latest known position of the current game
func track(s *Session, g *core.GameResponse) {
	s.MoveCount = g.MoveCount
	s.Turn = g.Turn
}

func printGame(s *Session, g *core.GameResponse) {
	s.printf("%sGame:%s  %s\n", display.Cyan, display.Reset, g.GameID)
	s.printf("  Turn:   %s\n", display.ColorForTurn(g.Turn))
	state := g.State
	if g.InCheck && g.State == "ongoing" {
		state += " (check)"
	}
	s.printf("  State:  %s\n", state)
	s.printf("  Moves:  %d\n", g.MoveCount)
	if g.LastMove != nil {
		s.printf("  Last:   %s\n", formatMove(*g.LastMove))
	}
	s.printf("  FEN:    %s\n", g.FEN)
}

func formatMove(m core.MoveInfo) string {
	s := fmt.Sprintf("%s %s %s-%s", m.PlayerColor, m.Kind, m.From, m.To)
	if m.Promotion != "" {
		s += "=" + m.Promotion
	}
	return s
}

func newGameHandler(s *Session, args []string) error {
	fen := strings.Join(args, " ")

	g, err := s.Client.CreateGame(fen)
	if err != nil {
		return err
	}

	s.CurrentGame = g.GameID
	track(s, g)

	s.printf("%sGame created%s\n", display.Green, display.Reset)
	s.printf("  Token:  %s\n", g.Token)
	printGame(s, g)
	return nil
}

func joinGameHandler(s *Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId> [token]")
	}

	g, err := s.Client.GetGame(args[0])
	if err != nil {
		return err
	}

	s.CurrentGame = g.GameID
	track(s, g)
	if len(args) > 1 {
		s.Client.SetToken(args[1])
	} else {
		s.Client.SetToken("")
		s.printf("%sNo token given; read-only until 'token <value>'%s\n", display.Yellow, display.Reset)
	}

	printGame(s, g)
	return nil
}

// splitMove accepts "e2e4", "e7e8q", "e2 e4" or "e7 e8 q"
func splitMove(args []string) (from, to, promotion string, err error) {
	switch {
	case len(args) == 1 && (len(args[0]) == 4 || len(args[0]) == 5):
		from, to, promotion = args[0][0:2], args[0][2:4], args[0][4:]
	case len(args) == 2 || len(args) == 3:
		from, to = args[0], args[1]
		if len(args) == 3 {
			promotion = args[2]
		}
	default:
		return "", "", "", fmt.Errorf("usage: move <from><to>[promotion]")
	}
	return from, to, strings.ToUpper(promotion), nil
}

func moveHandler(s *Session, args []string) error {
	if err := requireGame(s); err != nil {
		return err
	}
	from, to, promotion, err := splitMove(args)
	if err != nil {
		return err
	}

	g, err := s.Client.Play(s.CurrentGame, from, to, promotion)
	if err != nil {
		return err
	}
	track(s, g)
	printGame(s, g)
	return nil
}

func coordMoveHandler(s *Session, args []string) error {
	if err := requireGame(s); err != nil {
		return err
	}
	if len(args) != 4 && len(args) != 5 {
		return fmt.Errorf("usage: coord <fromRow> <fromCol> <toRow> <toCol> [promotion]")
	}

	var coords [4]int
	for i := range coords {
		n, err := strconv.Atoi(args[i])
		if err != nil {
			return fmt.Errorf("invalid coordinate %q", args[i])
		}
		coords[i] = n
	}
	promotion := ""
	if len(args) == 5 {
		promotion = strings.ToUpper(args[4])
	}

	g, err := s.Client.MakeMove(s.CurrentGame,
		core.Sq(coords[0], coords[1]), core.Sq(coords[2], coords[3]), promotion)
	if err != nil {
		return err
	}
	track(s, g)
	printGame(s, g)
	return nil
}

func castleHandler(s *Session, args []string) error {
	if err := requireGame(s); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: castle k|q")
	}

	var side string
	switch strings.ToLower(args[0]) {
	case "k", "kingside":
		side = "kingside"
	case "q", "queenside":
		side = "queenside"
	default:
		return fmt.Errorf("invalid castle side %q", args[0])
	}

	g, err := s.Client.Castle(s.CurrentGame, side)
	if err != nil {
		return err
	}
	track(s, g)
	printGame(s, g)
	return nil
}

func showBoardHandler(s *Session, args []string) error {
	if err := requireGame(s); err != nil {
		return err
	}

	b, err := s.Client.GetBoard(s.CurrentGame)
	if err != nil {
		return err
	}
	g, err := s.Client.GetGame(s.CurrentGame)
	if err != nil {
		return err
	}
	track(s, g)

	s.printf("\n")
	display.RenderBoard(s.Out, b.Cells)
	s.printf("\n")
	printGame(s, g)
	return nil
}

func targetsHandler(s *Session, args []string) error {
	if err := requireGame(s); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: targets <square>")
	}

	t, err := s.Client.GetTargets(s.CurrentGame, args[0])
	if err != nil {
		return err
	}

	if len(t.Targets) == 0 && len(t.Castling) == 0 {
		s.printf("No moves from %s\n", t.Square)
		return nil
	}
	s.printf("%s%s:%s %s\n", display.Cyan, t.Square, display.Reset, strings.Join(t.Targets, " "))
	for _, side := range t.Castling {
		s.printf("  castling %s available\n", side)
	}
	return nil
}

func gameStateHandler(s *Session, args []string) error {
	if err := requireGame(s); err != nil {
		return err
	}

	g, err := s.Client.GetGame(s.CurrentGame)
	if err != nil {
		return err
	}
	track(s, g)

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}
	s.printf("%s\n", data)
	return nil
}

func logHandler(s *Session, args []string) error {
	if err := requireGame(s); err != nil {
		return err
	}

	l, err := s.Client.GetMoves(s.CurrentGame)
	if err != nil {
		return err
	}

	if len(l.Moves) == 0 {
		s.printf("No moves yet\n")
		return nil
	}
	for i, m := range l.Moves {
		s.printf("%3d. %s\n", i+1, formatMove(m))
	}
	return nil
}

func deleteGameHandler(s *Session, args []string) error {
	gameID := s.CurrentGame
	if len(args) > 0 {
		gameID = args[0]
	}
	if gameID == "" {
		return fmt.Errorf("usage: delete [gameId]")
	}

	if err := s.Client.DeleteGame(gameID); err != nil {
		return err
	}

	s.printf("%sGame deleted: %s%s\n", display.Green, gameID, display.Reset)
	if gameID == s.CurrentGame {
		s.CurrentGame = ""
		s.MoveCount = 0
		s.Turn = ""
		s.Client.SetToken("")
	}
	return nil
}

func pollHandler(s *Session, args []string) error {
	if err := requireGame(s); err != nil {
		return err
	}

	s.printf("%sWaiting for a move after %d...%s\n", display.Yellow, s.MoveCount, display.Reset)
	g, err := s.Client.PollGame(s.CurrentGame, s.MoveCount)
	if err != nil {
		return err
	}

	if g.MoveCount == s.MoveCount {
		s.printf("No change\n")
	}
	track(s, g)
	printGame(s, g)
	return nil
}
