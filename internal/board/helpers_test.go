package board

import (
	"testing"

	"chesscore/internal/core"
)

func sq(t *testing.T, s string) core.Square {
	t.Helper()
	square, err := core.ParseSquare(s)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", s, err)
	}
	return square
}

func white(k core.PieceKind) Piece { return NewPiece(k, core.ColorWhite) }
func black(k core.PieceKind) Piece { return NewPiece(k, core.ColorBlack) }

// setup builds a board from square/piece pairs
func setup(t *testing.T, turn core.Color, pieces map[string]Piece) *Board {
	t.Helper()
	b := Empty(turn)
	for s, p := range pieces {
		b.Place(sq(t, s), p)
	}
	return b
}

func squares(t *testing.T, names ...string) []core.Square {
	t.Helper()
	var out []core.Square
	for _, n := range names {
		out = append(out, sq(t, n))
	}
	return out
}
