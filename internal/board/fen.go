package board

import (
	"fmt"
	"strings"

	"chesscore/internal/core"
)

const (
	StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// castling right letter -> color and rook column
var castleRights = []struct {
	letter  byte
	color   core.Color
	rookCol int
}{
	{'K', core.ColorWhite, 7},
	{'Q', core.ColorWhite, 0},
	{'k', core.ColorBlack, 7},
	{'q', core.ColorBlack, 0},
}

// ParseFEN builds a board from a FEN string. Castling rights become
// has-moved flags on Kings and Rooks; the en passant field is accepted but
// not modeled and the halfmove clock is ignored.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, fmt.Errorf("invalid FEN: expected 6 parts, got %d", len(parts))
	}

	b := Empty(core.ColorWhite)

	// Parse board, first rank listed is row 7
	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid FEN: expected 8 ranks")
	}

	kings := map[core.Color]int{}
	for i := 0; i < 8; i++ {
		row := 7 - i
		file := 0
		for j := 0; j < len(ranks[i]); j++ {
			ch := ranks[i][j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			if file >= 8 {
				return nil, fmt.Errorf("invalid FEN: too many pieces in rank %d", row+1)
			}
			kind, ok := core.KindFromChar(ch)
			if !ok {
				return nil, fmt.Errorf("invalid FEN: unknown piece %q", ch)
			}
			color := core.ColorBlack
			if ch >= 'A' && ch <= 'Z' {
				color = core.ColorWhite
			}
			if kind == core.King {
				kings[color]++
			}
			// Kings and Rooks count as moved unless a castling right says otherwise
			b.squares[row][file] = Piece{
				Kind:     kind,
				Color:    color,
				HasMoved: kind == core.King || kind == core.Rook,
			}
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("invalid FEN: rank %d has %d files", row+1, file)
		}
	}
	if kings[core.ColorWhite] > 1 || kings[core.ColorBlack] > 1 {
		return nil, fmt.Errorf("invalid FEN: more than one king per color")
	}

	// Parse game state with validation
	switch parts[1] {
	case "w":
		b.turn = core.ColorWhite
	case "b":
		b.turn = core.ColorBlack
	default:
		return nil, fmt.Errorf("invalid FEN: turn must be 'w' or 'b'")
	}

	if err := b.applyCastlingRights(parts[2]); err != nil {
		return nil, err
	}

	if ep := parts[3]; ep != "-" {
		if _, err := core.ParseSquare(ep); err != nil {
			return nil, fmt.Errorf("invalid FEN: en passant square %q", ep)
		}
	}

	var halfmove int
	if _, err := fmt.Sscanf(parts[4], "%d", &halfmove); err != nil || halfmove < 0 {
		return nil, fmt.Errorf("invalid FEN: halfmove counter")
	}
	if _, err := fmt.Sscanf(parts[5], "%d", &b.fullmove); err != nil || b.fullmove < 1 {
		return nil, fmt.Errorf("invalid FEN: fullmove counter")
	}

	return b, nil
}

func (b *Board) applyCastlingRights(field string) error {
	if field == "-" {
		return nil
	}
	for i := 0; i < len(field); i++ {
		found := false
		for _, cr := range castleRights {
			if cr.letter != field[i] {
				continue
			}
			found = true
			row := cr.color.HomeRow()
			king := &b.squares[row][kingHomeCol]
			rook := &b.squares[row][cr.rookCol]
			if king.Kind != core.King || king.Color != cr.color ||
				rook.Kind != core.Rook || rook.Color != cr.color {
				return fmt.Errorf("invalid FEN: castling right %c without king and rook in place", cr.letter)
			}
			king.HasMoved = false
			rook.HasMoved = false
		}
		if !found {
			return fmt.Errorf("invalid FEN: castling field %q", field)
		}
	}
	return nil
}

// FEN serializes the position. Castling rights are derived from has-moved
// flags; en passant is always "-" and the halfmove clock is always 0.
func (b *Board) FEN() string {
	var sb strings.Builder

	for row := 7; row >= 0; row-- {
		empty := 0
		for col := 0; col < 8; col++ {
			p := b.squares[row][col]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.FENChar())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(b.turn.String())
	sb.WriteByte(' ')
	sb.WriteString(b.castlingField())
	sb.WriteString(fmt.Sprintf(" - 0 %d", b.fullmove))

	return sb.String()
}

func (b *Board) castlingField() string {
	var rights []byte
	for _, cr := range castleRights {
		row := cr.color.HomeRow()
		king := b.squares[row][kingHomeCol]
		rook := b.squares[row][cr.rookCol]
		if king.Kind == core.King && king.Color == cr.color && !king.HasMoved &&
			rook.Kind == core.Rook && rook.Color == cr.color && !rook.HasMoved {
			rights = append(rights, cr.letter)
		}
	}
	if len(rights) == 0 {
		return "-"
	}
	return string(rights)
}
