package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"chesscore/internal/board"
	"chesscore/internal/core"
	"chesscore/internal/game"

	"golang.org/x/term"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdResume
	CmdMove
	CmdCastle
	CmdShow
	CmdBoard
	CmdColor
	CmdHistory
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// ParseCommand classifies one input line. Anything that is not a keyword is
// treated as a move.
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return Command{Type: CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "new":
		return Command{Type: CmdNew, Args: args}
	case "resume":
		return Command{Type: CmdResume, Args: args, Raw: input}
	case "castle", "o-o", "o-o-o":
		if cmd == "o-o" {
			args = []string{"k"}
		} else if cmd == "o-o-o" {
			args = []string{"q"}
		}
		return Command{Type: CmdCastle, Args: args}
	case "show":
		return Command{Type: CmdShow, Args: args}
	case "board":
		return Command{Type: CmdBoard}
	case "color":
		return Command{Type: CmdColor, Args: args}
	case "history":
		return Command{Type: CmdHistory}
	case "help", "?":
		return Command{Type: CmdHelp}
	case "quit", "exit":
		return Command{Type: CmdQuit}
	default:
		return Command{Type: CmdMove, Args: []string{cmd}}
	}
}

// ParseMove reads coordinate input such as "e2e4" or "a7a8n"
func ParseMove(s string) (from, to core.Square, promotion core.PieceKind, err error) {
	if len(s) != 4 && len(s) != 5 {
		return from, to, 0, fmt.Errorf("invalid move %q: expected e.g. e2e4 or a7a8q", s)
	}
	if from, err = core.ParseSquare(s[0:2]); err != nil {
		return from, to, 0, err
	}
	if to, err = core.ParseSquare(s[2:4]); err != nil {
		return from, to, 0, err
	}
	if len(s) == 5 {
		kind, ok := core.KindFromChar(s[4])
		if !ok || !kind.IsPromotable() {
			return from, to, 0, fmt.Errorf("invalid promotion piece %q", s[4:])
		}
		promotion = kind
	}
	return from, to, promotion, nil
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg   string
	darkBg    string
	highlight string
	white     string
	black     string
	reset     string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg:   "\033[48;5;230m", // Beige
		darkBg:    "\033[48;5;94m",  // Brown
		highlight: "\033[48;5;179m",
		white:     "\033[97m",
		black:     "\033[30m",
		reset:     "\033[0m",
	},
	ThemeGreen: {
		lightBg:   "\033[48;5;157m", // Light green
		darkBg:    "\033[48;5;22m",  // Dark green
		highlight: "\033[48;5;186m",
		white:     "\033[97m",
		black:     "\033[30m",
		reset:     "\033[0m",
	},
	ThemeGray: {
		lightBg:   "\033[48;5;251m", // Light gray
		darkBg:    "\033[48;5;240m", // Dark gray
		highlight: "\033[48;5;110m",
		white:     "\033[97m",
		black:     "\033[30m",
		reset:     "\033[0m",
	},
}

// DefaultTheme picks brown for interactive terminals and no colors otherwise
func DefaultTheme(f *os.File) ColorTheme {
	if term.IsTerminal(int(f.Fd())) {
		return ThemeBrown
	}
	return ThemeOff
}

// View writes everything the terminal host shows
type View struct {
	output io.Writer
	theme  ColorTheme
}

func New(output io.Writer, theme ColorTheme) *View {
	if _, ok := themes[theme]; !ok {
		theme = ThemeOff
	}
	return &View{output: output, theme: theme}
}

func (v *View) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	v.theme = theme
	return nil
}

func (v *View) Theme() ColorTheme {
	return v.theme
}

func (v *View) ShowMessage(msg string) {
	fmt.Fprintln(v.output, msg)
}

func (v *View) ShowError(err error) {
	v.ShowMessage(fmt.Sprintf("Error: %v", err))
}

// DisplayBoard prints the board with rank 8 on top. Highlighted squares are
// drawn with the theme's highlight background, or marked with '*' when
// colors are off.
func (v *View) DisplayBoard(b *board.Board, highlight ...core.Square) {
	theme := themes[v.theme]
	marked := make(map[core.Square]bool, len(highlight))
	for _, sq := range highlight {
		marked[sq] = true
	}

	var sb strings.Builder
	sb.WriteString("\n  a b c d e f g h\n")

	for r := 7; r >= 0; r-- {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for c := 0; c < 8; c++ {
			sq := core.Sq(r, c)
			piece, _ := b.At(sq)

			if v.theme == ThemeOff {
				switch {
				case piece.IsEmpty() && marked[sq]:
					sb.WriteString("* ")
				case piece.IsEmpty():
					sb.WriteString(". ")
				case marked[sq]:
					sb.WriteString(fmt.Sprintf("%c*", piece.FENChar()))
				default:
					sb.WriteString(fmt.Sprintf("%c ", piece.FENChar()))
				}
				continue
			}

			// a1 is a dark square
			bg := theme.lightBg
			if (r+c)%2 == 0 {
				bg = theme.darkBg
			}
			if marked[sq] {
				bg = theme.highlight
			}

			if piece.IsEmpty() {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
			} else {
				fg := theme.black
				if piece.Color == core.ColorWhite {
					fg = theme.white
				}
				sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, fg, piece.FENChar(), theme.reset))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h\n")

	v.ShowMessage(sb.String())
}

func (v *View) ShowHelp() {
	help := `Commands:
  new              - Start a new game from the opening position
  resume <FEN>     - Start from a specific board position
  <move>           - Make a move (e.g., e2e4, g1f3, a7a8n to promote)
  castle k|q       - Castle kingside or queenside (also O-O, O-O-O)
  show <square>    - Highlight where the piece on a square may move
  board            - Show the board again
  color <theme>    - Set board color theme (off|brown|green|gray)
  history          - Show game move history and positions
  quit/exit        - Exit the program
  help/?           - Show this help message`

	v.ShowMessage(help)
}

func (v *View) ShowWelcome() {
	v.ShowMessage("Welcome to Chess!")
	v.ShowMessage("Commands: new, resume <FEN>, <move>, castle k|q, show <square>, history, help/?, quit")
	v.ShowMessage("Example: 'resume 4k3/8/8/8/8/8/8/4K2R w K - 0 1' to start from a puzzle.")
	v.ShowMessage("")
}

// ShowMove prints a one-line summary of an executed half-move
func (v *View) ShowMove(ev board.MoveEvent) {
	v.ShowMessage(describeMove(ev))
}

func describeMove(ev board.MoveEvent) string {
	var sb strings.Builder
	sb.WriteString(ev.Color.Name())
	sb.WriteString(": ")
	if ev.Kind == board.MoveKindCastling {
		if ev.To.Col > ev.From.Col {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("%s %s-%s", ev.Piece, ev.From, ev.To))
	if ev.Captured != 0 {
		sb.WriteString(fmt.Sprintf(" takes %s", ev.Captured))
	}
	if ev.Promotion != 0 {
		sb.WriteString(fmt.Sprintf(" promotes to %s", ev.Promotion))
	}
	return sb.String()
}

func (v *View) ShowGameHistory(g *game.Game) {
	v.ShowMessage(fmt.Sprintf("Starting FEN: %s", g.InitialFEN()))

	moves := g.Moves()
	for i := 0; i < len(moves); i += 2 {
		moveNum := i/2 + 1
		first := shortMove(moves[i])
		if i+1 < len(moves) {
			v.ShowMessage(fmt.Sprintf("%d. %s | %s", moveNum, first, shortMove(moves[i+1])))
		} else {
			v.ShowMessage(fmt.Sprintf("%d. %s | ...", moveNum, first))
		}
	}
	v.ShowMessage(fmt.Sprintf("Current FEN: %s", g.CurrentFEN()))
	v.ShowMessage(fmt.Sprintf("Game state: %s", g.State()))
}

func shortMove(ev board.MoveEvent) string {
	if ev.Kind == board.MoveKindCastling {
		if ev.To.Col > ev.From.Col {
			return "O-O"
		}
		return "O-O-O"
	}
	s := ev.From.String() + ev.To.String()
	if ev.Promotion != 0 {
		s += strings.ToLower(string(ev.Promotion.Char()))
	}
	return s
}

func (v *View) ShowGameOver(state core.State) {
	winner := core.ColorWhite
	if state == core.StateBlackWins {
		winner = core.ColorBlack
	}
	v.ShowMessage(fmt.Sprintf("Checkmate! %s wins.", winner.Name()))
	v.ShowMessage("Start a new game with 'new' or 'resume'.")
}
