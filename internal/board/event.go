package board

import "chesscore/internal/core"

const (
	MoveKindMove     = "move"
	MoveKindCastling = "castling"
)

// MoveEvent describes one executed half-move. For castling From and To are
// the King's squares.
type MoveEvent struct {
	Kind      string         `json:"kind"`
	From      core.Square    `json:"from"`
	To        core.Square    `json:"to"`
	Color     core.Color     `json:"color"`
	Piece     core.PieceKind `json:"piece"`
	Captured  core.PieceKind `json:"captured,omitempty"`
	Promotion core.PieceKind `json:"promotion,omitempty"`
}

// MoveListener is called synchronously after the board state is updated
type MoveListener func(MoveEvent)
