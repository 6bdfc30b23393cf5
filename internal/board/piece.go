package board

import "chesscore/internal/core"

// Piece is the content of an occupied cell. The zero value is an empty cell.
type Piece struct {
	Kind     core.PieceKind `json:"kind"`
	Color    core.Color     `json:"color"`
	HasMoved bool           `json:"hasMoved"`
}

func NewPiece(kind core.PieceKind, color core.Color) Piece {
	return Piece{Kind: kind, Color: color}
}

func (p Piece) IsEmpty() bool {
	return p.Kind == 0
}

// Label is the two-character cell code: color letter then kind code
func (p Piece) Label() string {
	if p.IsEmpty() {
		return "  "
	}
	return p.Color.String() + string(p.Kind.Char())
}

// FENChar is the kind code, uppercase for White and lowercase for Black
func (p Piece) FENChar() byte {
	ch := p.Kind.Char()
	if p.Color == core.ColorBlack {
		ch += 'a' - 'A'
	}
	return ch
}

// CanMove reports whether the piece standing on from may move to to under
// the current occupancy of b. Turn order is not considered.
func (p Piece) CanMove(b *Board, from, to core.Square) bool {
	if p.IsEmpty() || !from.Valid() || !to.Valid() || from == to {
		return false
	}

	switch p.Kind {
	case core.Pawn:
		return p.pawnCanMove(b, from, to)
	case core.Knight:
		return p.knightCanMove(b, from, to)
	case core.Bishop:
		return p.bishopCanMove(b, from, to)
	case core.Rook:
		return p.rookCanMove(b, from, to)
	case core.Queen:
		return p.rookCanMove(b, from, to) || p.bishopCanMove(b, from, to)
	case core.King:
		return p.kingCanMove(b, from, to)
	default:
		return false
	}
}

func (p Piece) pawnCanMove(b *Board, from, to core.Square) bool {
	dir := p.Color.Forward()
	dr := to.Row - from.Row
	dc := to.Col - from.Col

	switch abs(dc) {
	case 0:
		// Single step
		if dr == dir && b.isEmpty(to) {
			return true
		}
		// Double step from the starting rank, both squares empty
		if from.Row == p.Color.PawnRow() && dr == 2*dir &&
			b.isEmpty(core.Sq(from.Row+dir, from.Col)) && b.isEmpty(to) {
			return true
		}
	case 1:
		// Diagonal only as a capture
		if dr == dir && b.isOpponent(to, p.Color) {
			return true
		}
	}
	return false
}

func (p Piece) knightCanMove(b *Board, from, to core.Square) bool {
	dr, dc := abs(to.Row-from.Row), abs(to.Col-from.Col)
	if (dr == 1 && dc == 2) || (dr == 2 && dc == 1) {
		return b.isEmptyOrOpponent(to, p.Color)
	}
	return false
}

func (p Piece) rookCanMove(b *Board, from, to core.Square) bool {
	if from.Row != to.Row && from.Col != to.Col {
		return false
	}
	return b.pathClear(from, to) && b.isEmptyOrOpponent(to, p.Color)
}

func (p Piece) bishopCanMove(b *Board, from, to core.Square) bool {
	if abs(to.Row-from.Row) != abs(to.Col-from.Col) {
		return false
	}
	return b.pathClear(from, to) && b.isEmptyOrOpponent(to, p.Color)
}

func (p Piece) kingCanMove(b *Board, from, to core.Square) bool {
	if abs(to.Row-from.Row) > 1 || abs(to.Col-from.Col) > 1 {
		return false
	}
	return b.isEmptyOrOpponent(to, p.Color)
}

// pathClear checks every square strictly between from and to along a
// straight or diagonal line. The scan ends when it arrives at to.
func (b *Board) pathClear(from, to core.Square) bool {
	dr, dc := sign(to.Row-from.Row), sign(to.Col-from.Col)
	cur := core.Sq(from.Row+dr, from.Col+dc)
	for cur != to {
		if !b.isEmpty(cur) {
			return false
		}
		cur = core.Sq(cur.Row+dr, cur.Col+dc)
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
