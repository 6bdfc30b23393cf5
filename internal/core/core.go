package core

import "fmt"

type State int

const (
	StateOngoing State = iota
	StateWhiteWins
	StateBlackWins
)

func (s State) String() string {
	switch s {
	case StateWhiteWins:
		return "white wins"
	case StateBlackWins:
		return "black wins"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further moves are accepted
func (s State) IsTerminal() bool {
	return s == StateWhiteWins || s == StateBlackWins
}

// WinnerState returns the terminal state in which the given color has won
func WinnerState(winner Color) State {
	if winner == ColorWhite {
		return StateWhiteWins
	}
	return StateBlackWins
}

type Color byte

const (
	ColorWhite Color = iota + 1
	ColorBlack
)

func (c Color) String() string {
	switch c {
	case ColorWhite:
		return "w"
	case ColorBlack:
		return "b"
	default:
		return "-"
	}
}

// Name returns the human readable color name
func (c Color) Name() string {
	if c == ColorWhite {
		return "White"
	}
	return "Black"
}

// HomeRow is the back rank where the King and Rooks start
func (c Color) HomeRow() int {
	if c == ColorWhite {
		return 0
	}
	return 7
}

// PawnRow is the rank pawns start from
func (c Color) PawnRow() int {
	if c == ColorWhite {
		return 1
	}
	return 6
}

// Forward is the row delta of a pawn advance
func (c Color) Forward() int {
	if c == ColorWhite {
		return 1
	}
	return -1
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

type PieceKind int

const (
	Pawn PieceKind = iota + 1
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindChars = map[PieceKind]byte{
	Pawn:   'P',
	Knight: 'N',
	Bishop: 'B',
	Rook:   'R',
	Queen:  'Q',
	King:   'K',
}

// Char returns the single-character code of the kind
func (k PieceKind) Char() byte {
	if ch, ok := kindChars[k]; ok {
		return ch
	}
	return '-'
}

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// IsPromotable reports whether a pawn may be promoted to this kind
func (k PieceKind) IsPromotable() bool {
	return k == Knight || k == Bishop || k == Rook || k == Queen
}

// KindFromChar maps a kind code (either case) back to its kind
func KindFromChar(ch byte) (PieceKind, bool) {
	if ch >= 'a' && ch <= 'z' {
		ch -= 'a' - 'A'
	}
	for k, c := range kindChars {
		if c == ch {
			return k, true
		}
	}
	return 0, false
}

// Square addresses a board cell; row 0 is White's back rank
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

func ValidCoords(row, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

func (s Square) Valid() bool {
	return ValidCoords(s.Row, s.Col)
}

// String renders the square as file letter and rank digit, e.g. "e2"
func (s Square) String() string {
	if !s.Valid() {
		return "??"
	}
	return fmt.Sprintf("%c%c", 'a'+s.Col, '1'+s.Row)
}

// ParseSquare reads file/rank notation such as "e2"
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("invalid square %q: expected 2 characters", s)
	}
	file, rank := s[0], s[1]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, fmt.Errorf("invalid square %q", s)
	}
	return Square{Row: int(rank - '1'), Col: int(file - 'a')}, nil
}
