package board

import (
	"fmt"

	"chesscore/internal/core"
)

type CastleSide int

const (
	Kingside CastleSide = iota + 1
	Queenside
)

func (s CastleSide) String() string {
	switch s {
	case Kingside:
		return "kingside"
	case Queenside:
		return "queenside"
	default:
		return "unknown"
	}
}

// ParseCastleSide accepts "kingside"/"k" and "queenside"/"q"
func ParseCastleSide(s string) (CastleSide, error) {
	switch s {
	case "kingside", "k", "K":
		return Kingside, nil
	case "queenside", "q", "Q":
		return Queenside, nil
	default:
		return 0, fmt.Errorf("invalid castle side %q", s)
	}
}

const kingHomeCol = 4

// castleLayout gives the rook column, the columns that must be empty and
// the destination columns of King and Rook
type castleLayout struct {
	rookCol   int
	between   []int
	kingToCol int
	rookToCol int
}

var castleLayouts = map[CastleSide]castleLayout{
	Kingside:  {rookCol: 7, between: []int{5, 6}, kingToCol: 6, rookToCol: 5},
	Queenside: {rookCol: 0, between: []int{1, 2, 3}, kingToCol: 2, rookToCol: 3},
}

// ValidateCastle checks castling for the side to move. Whether the King is
// in check or crosses an attacked square is not examined.
func (b *Board) ValidateCastle(side CastleSide) error {
	layout, ok := castleLayouts[side]
	if !ok {
		return fmt.Errorf("%w: unknown side", ErrCastlingPrecondition)
	}
	row := b.turn.HomeRow()

	king := b.squares[row][kingHomeCol]
	if king.Kind != core.King || king.Color != b.turn || king.HasMoved {
		return fmt.Errorf("%w: %s king has moved or is absent", ErrCastlingPrecondition, b.turn.Name())
	}
	rook := b.squares[row][layout.rookCol]
	if rook.Kind != core.Rook || rook.Color != b.turn || rook.HasMoved {
		return fmt.Errorf("%w: %s rook has moved or is absent", ErrCastlingPrecondition, side)
	}
	for _, c := range layout.between {
		if !b.squares[row][c].IsEmpty() {
			return fmt.Errorf("%w: %s is occupied", ErrCastlingPrecondition, core.Sq(row, c))
		}
	}
	return nil
}

// ApplyCastle moves King and Rook for the side to move and flips the turn
func (b *Board) ApplyCastle(side CastleSide) error {
	if err := b.ValidateCastle(side); err != nil {
		return err
	}

	layout := castleLayouts[side]
	row := b.turn.HomeRow()
	kingFrom := core.Sq(row, kingHomeCol)
	kingTo := core.Sq(row, layout.kingToCol)

	b.relocate(kingFrom, kingTo)
	b.relocate(core.Sq(row, layout.rookCol), core.Sq(row, layout.rookToCol))

	b.finishMove(MoveEvent{
		Kind:  MoveKindCastling,
		From:  kingFrom,
		To:    kingTo,
		Color: b.turn,
		Piece: core.King,
	})
	return nil
}

func (b *Board) CanCastleKingside() bool {
	return b.ValidateCastle(Kingside) == nil
}

func (b *Board) CanCastleQueenside() bool {
	return b.ValidateCastle(Queenside) == nil
}

func (b *Board) CastleKingside() bool {
	return b.ApplyCastle(Kingside) == nil
}

func (b *Board) CastleQueenside() bool {
	return b.ApplyCastle(Queenside) == nil
}

// CastleSideFor recognizes a King move from its home square that expresses
// castling: either two columns along the home rank or onto its own rook.
func (b *Board) CastleSideFor(from, to core.Square) (CastleSide, bool) {
	row := b.turn.HomeRow()
	if from != core.Sq(row, kingHomeCol) || to.Row != row {
		return 0, false
	}
	king := b.squares[row][kingHomeCol]
	if king.Kind != core.King || king.Color != b.turn {
		return 0, false
	}
	for side, layout := range castleLayouts {
		if to.Col == layout.kingToCol || to.Col == layout.rookCol {
			return side, true
		}
	}
	return 0, false
}
