package board

import (
	"fmt"
	"strings"

	"chesscore/internal/core"
)

var backRank = [8]core.PieceKind{
	core.Rook, core.Knight, core.Bishop, core.Queen,
	core.King, core.Bishop, core.Knight, core.Rook,
}

type Board struct {
	squares   [8][8]Piece
	turn      core.Color
	fullmove  int
	listeners []MoveListener
}

// New returns a board in the standard opening layout with White to move
func New() *Board {
	b := Empty(core.ColorWhite)
	for c := 0; c < 8; c++ {
		b.squares[1][c] = NewPiece(core.Pawn, core.ColorWhite)
		b.squares[6][c] = NewPiece(core.Pawn, core.ColorBlack)
		b.squares[0][c] = NewPiece(backRank[c], core.ColorWhite)
		b.squares[7][c] = NewPiece(backRank[c], core.ColorBlack)
	}
	return b
}

// Empty returns a board with no pieces, used to construct positions
func Empty(turn core.Color) *Board {
	return &Board{turn: turn, fullmove: 1}
}

// Place puts a piece on a square during setup. The turn is not affected.
func (b *Board) Place(sq core.Square, p Piece) {
	b.mustValid(sq)
	b.squares[sq.Row][sq.Col] = p
}

// Clear empties a square during setup
func (b *Board) Clear(sq core.Square) {
	b.mustValid(sq)
	b.squares[sq.Row][sq.Col] = Piece{}
}

// SetTurn overrides the side to move during setup
func (b *Board) SetTurn(c core.Color) {
	b.turn = c
}

// Subscribe registers a listener for executed half-moves
func (b *Board) Subscribe(l MoveListener) {
	b.listeners = append(b.listeners, l)
}

// Copy returns an independent deep copy. Listeners are not carried over.
func (b *Board) Copy() *Board {
	return &Board{
		squares:  b.squares,
		turn:     b.turn,
		fullmove: b.fullmove,
	}
}

func (b *Board) Turn() core.Color {
	return b.turn
}

func (b *Board) CurrentPlayerColor() core.Color {
	return b.turn
}

// FullMove is the move number, incremented after each Black half-move
func (b *Board) FullMove() int {
	return b.fullmove
}

// GetPiece returns the piece at (row, col); ok is false for empty or invalid cells
func (b *Board) GetPiece(row, col int) (Piece, bool) {
	if !core.ValidCoords(row, col) {
		return Piece{}, false
	}
	p := b.squares[row][col]
	return p, !p.IsEmpty()
}

func (b *Board) At(sq core.Square) (Piece, bool) {
	return b.GetPiece(sq.Row, sq.Col)
}

// CellLabel returns color letter + kind code, or two spaces for an empty cell
func (b *Board) CellLabel(row, col int) string {
	p, _ := b.GetPiece(row, col)
	return p.Label()
}

// KingSquare locates the King of the given color
func (b *Board) KingSquare(c core.Color) (core.Square, bool) {
	for r := 0; r < 8; r++ {
		for col := 0; col < 8; col++ {
			p := b.squares[r][col]
			if p.Kind == core.King && p.Color == c {
				return core.Sq(r, col), true
			}
		}
	}
	return core.Square{}, false
}

// ValidateMove checks a plain move for the side to move without mutating the board
func (b *Board) ValidateMove(from, to core.Square) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: %d,%d -> %d,%d", ErrOutOfRange, from.Row, from.Col, to.Row, to.Col)
	}
	if from == to {
		return fmt.Errorf("%w: %s", ErrSameSquare, from)
	}
	p := b.squares[from.Row][from.Col]
	if p.IsEmpty() {
		return fmt.Errorf("%w: %s", ErrNoPiece, from)
	}
	if p.Color != b.turn {
		return fmt.Errorf("%w: %s is %s, %s to move", ErrWrongTurn, from, p.Color.Name(), b.turn.Name())
	}
	if !p.CanMove(b, from, to) {
		return fmt.Errorf("%w: %s %s -> %s", ErrIllegalForPiece, p.Kind, from, to)
	}
	return nil
}

func (b *Board) CanMovePiece(r0, c0, r1, c1 int) bool {
	return b.ValidateMove(core.Sq(r0, c0), core.Sq(r1, c1)) == nil
}

// ApplyMove validates and executes a plain move, flipping the turn.
// On error the board is unchanged.
func (b *Board) ApplyMove(from, to core.Square) error {
	if err := b.ValidateMove(from, to); err != nil {
		return err
	}

	p := b.squares[from.Row][from.Col]
	captured := b.squares[to.Row][to.Col]
	b.relocate(from, to)

	b.finishMove(MoveEvent{
		Kind:     MoveKindMove,
		From:     from,
		To:       to,
		Color:    p.Color,
		Piece:    p.Kind,
		Captured: captured.Kind,
	})
	return nil
}

func (b *Board) MovePiece(r0, c0, r1, c1 int) bool {
	return b.ApplyMove(core.Sq(r0, c0), core.Sq(r1, c1)) == nil
}

// ValidatePromotion checks a pawn move onto the far rank with the chosen kind
func (b *Board) ValidatePromotion(from, to core.Square, kind core.PieceKind) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: %d,%d -> %d,%d", ErrOutOfRange, from.Row, from.Col, to.Row, to.Col)
	}
	if from == to {
		return fmt.Errorf("%w: %s", ErrSameSquare, from)
	}
	p := b.squares[from.Row][from.Col]
	if p.IsEmpty() {
		return fmt.Errorf("%w: %s", ErrNoPiece, from)
	}
	if p.Kind != core.Pawn {
		return fmt.Errorf("%w: %s is a %s", ErrInvalidPromotion, from, p.Kind)
	}
	if p.Color != b.turn {
		return fmt.Errorf("%w: %s is %s, %s to move", ErrWrongTurn, from, p.Color.Name(), b.turn.Name())
	}
	if to.Row != core.OppositeColor(p.Color).HomeRow() {
		return fmt.Errorf("%w: %s is not on the back rank", ErrInvalidPromotion, to)
	}
	if !kind.IsPromotable() {
		return fmt.Errorf("%w: cannot promote to %s", ErrInvalidPromotion, kind)
	}
	if !p.CanMove(b, from, to) {
		return fmt.Errorf("%w: %s %s -> %s", ErrIllegalForPiece, p.Kind, from, to)
	}
	return nil
}

// ApplyPromotion moves a pawn to the far rank and replaces it with a new
// piece of the chosen kind
func (b *Board) ApplyPromotion(from, to core.Square, kind core.PieceKind) error {
	if err := b.ValidatePromotion(from, to, kind); err != nil {
		return err
	}

	color := b.squares[from.Row][from.Col].Color
	captured := b.squares[to.Row][to.Col]
	b.squares[from.Row][from.Col] = Piece{}
	b.squares[to.Row][to.Col] = NewPiece(kind, color)

	b.finishMove(MoveEvent{
		Kind:      MoveKindMove,
		From:      from,
		To:        to,
		Color:     color,
		Piece:     core.Pawn,
		Captured:  captured.Kind,
		Promotion: kind,
	})
	return nil
}

func (b *Board) MoveAndPromotePawn(r0, c0, r1, c1 int, kind core.PieceKind) bool {
	return b.ApplyPromotion(core.Sq(r0, c0), core.Sq(r1, c1), kind) == nil
}

// Targets lists every destination the piece on from may legally move to
// for the side to move. Castling is not included.
func (b *Board) Targets(from core.Square) []core.Square {
	var targets []core.Square
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if b.CanMovePiece(from.Row, from.Col, r, c) {
				targets = append(targets, core.Sq(r, c))
			}
		}
	}
	return targets
}

// ToASCII creates an ASCII representation of the board, rank 8 on top
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 7; r >= 0; r-- {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for c := 0; c < 8; c++ {
			p := b.squares[r][c]
			if p.IsEmpty() {
				sb.WriteString(". ")
			} else {
				sb.WriteString(fmt.Sprintf("%c ", p.FENChar()))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}

// Cells returns all cell labels, row 0 first
func (b *Board) Cells() [8][8]string {
	var cells [8][8]string
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			cells[r][c] = b.squares[r][c].Label()
		}
	}
	return cells
}

// relocate moves a piece, capturing any occupant, and marks it as moved
func (b *Board) relocate(from, to core.Square) {
	p := b.squares[from.Row][from.Col]
	p.HasMoved = true
	b.squares[from.Row][from.Col] = Piece{}
	b.squares[to.Row][to.Col] = p
}

func (b *Board) finishMove(ev MoveEvent) {
	if b.turn == core.ColorBlack {
		b.fullmove++
	}
	b.turn = core.OppositeColor(b.turn)

	for _, l := range b.listeners {
		l(ev)
	}
}

func (b *Board) isEmpty(sq core.Square) bool {
	return b.squares[sq.Row][sq.Col].IsEmpty()
}

func (b *Board) isOpponent(sq core.Square, c core.Color) bool {
	p := b.squares[sq.Row][sq.Col]
	return !p.IsEmpty() && p.Color != c
}

func (b *Board) isEmptyOrOpponent(sq core.Square, c core.Color) bool {
	p := b.squares[sq.Row][sq.Col]
	return p.IsEmpty() || p.Color != c
}

func (b *Board) mustValid(sq core.Square) {
	if !sq.Valid() {
		panic(fmt.Sprintf("board: square %d,%d out of range", sq.Row, sq.Col))
	}
}
