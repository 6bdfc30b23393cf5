package game

import (
	"errors"
	"fmt"

	"chesscore/internal/board"
	"chesscore/internal/core"
)

var ErrGameOver = errors.New("game is over")

// Snapshot is the position after a half-move
type Snapshot struct {
	FEN      string           // Board state at this point
	Move     *board.MoveEvent // Move that created this position (nil for initial)
	NextTurn core.Color       // Whose turn it is at this position
}

type Game struct {
	board     *board.Board
	snapshots []Snapshot
	state     core.State
}

// New starts a game from fen, or from the opening layout when fen is empty
func New(fen string) (*Game, error) {
	b := board.New()
	if fen != "" {
		var err error
		if b, err = board.ParseFEN(fen); err != nil {
			return nil, err
		}
	}

	g := &Game{
		board: b,
		snapshots: []Snapshot{
			{FEN: b.FEN(), NextTurn: b.Turn()},
		},
	}
	b.Subscribe(g.record)
	g.evaluate()
	return g, nil
}

func (g *Game) record(ev board.MoveEvent) {
	g.snapshots = append(g.snapshots, Snapshot{
		FEN:      g.board.FEN(),
		Move:     &ev,
		NextTurn: g.board.Turn(),
	})
}

// evaluate checks whether the side to act has been mated
func (g *Game) evaluate() {
	turn := g.board.Turn()
	if board.IsCheckmate(g.board, turn) {
		g.state = core.WinnerState(core.OppositeColor(turn))
	}
}

// Play interprets a square-to-square intent the way a board click does:
// a King moving two columns along its home rank, or onto its own Rook,
// castles; a Pawn arriving on the far rank promotes (Queen when promotion
// is zero); anything else is a plain move.
func (g *Game) Play(from, to core.Square, promotion core.PieceKind) (board.MoveEvent, error) {
	if g.state.IsTerminal() {
		return board.MoveEvent{}, ErrGameOver
	}
	if !from.Valid() || !to.Valid() {
		return board.MoveEvent{}, fmt.Errorf("%w: %d,%d -> %d,%d", board.ErrOutOfRange, from.Row, from.Col, to.Row, to.Col)
	}

	p, _ := g.board.At(from)
	switch {
	case p.Kind == core.King:
		if side, ok := g.board.CastleSideFor(from, to); ok {
			if err := g.Castle(side); err != nil {
				return board.MoveEvent{}, err
			}
			return g.lastEvent(), nil
		}
	case p.Kind == core.Pawn && to.Row == core.OppositeColor(p.Color).HomeRow():
		if promotion == 0 {
			promotion = core.Queen
		}
		if err := g.Promote(from, to, promotion); err != nil {
			return board.MoveEvent{}, err
		}
		return g.lastEvent(), nil
	}

	if promotion != 0 {
		return board.MoveEvent{}, fmt.Errorf("%w: %s -> %s does not reach the last rank", board.ErrInvalidPromotion, from, to)
	}
	if err := g.Move(from, to); err != nil {
		return board.MoveEvent{}, err
	}
	return g.lastEvent(), nil
}

// Move executes a plain move. A Pawn reaching the far rank stays a Pawn.
func (g *Game) Move(from, to core.Square) error {
	if g.state.IsTerminal() {
		return ErrGameOver
	}
	if err := g.board.ApplyMove(from, to); err != nil {
		return err
	}
	g.evaluate()
	return nil
}

func (g *Game) Promote(from, to core.Square, kind core.PieceKind) error {
	if g.state.IsTerminal() {
		return ErrGameOver
	}
	if err := g.board.ApplyPromotion(from, to, kind); err != nil {
		return err
	}
	g.evaluate()
	return nil
}

func (g *Game) Castle(side board.CastleSide) error {
	if g.state.IsTerminal() {
		return ErrGameOver
	}
	if err := g.board.ApplyCastle(side); err != nil {
		return err
	}
	g.evaluate()
	return nil
}

func (g *Game) lastEvent() board.MoveEvent {
	if m := g.LastMove(); m != nil {
		return *m
	}
	return board.MoveEvent{}
}

// Targets lists plain destinations for the piece on sq
func (g *Game) Targets(sq core.Square) []core.Square {
	if g.state.IsTerminal() || !sq.Valid() {
		return nil
	}
	return g.board.Targets(sq)
}

// CastleSides lists the castling moves currently available to the side to move
func (g *Game) CastleSides() []board.CastleSide {
	if g.state.IsTerminal() {
		return nil
	}
	var sides []board.CastleSide
	for _, side := range []board.CastleSide{board.Kingside, board.Queenside} {
		if g.board.ValidateCastle(side) == nil {
			sides = append(sides, side)
		}
	}
	return sides
}

// Board returns a copy of the current position
func (g *Game) Board() *board.Board {
	return g.board.Copy()
}

func (g *Game) State() core.State {
	return g.state
}

func (g *Game) Turn() core.Color {
	return g.board.Turn()
}

func (g *Game) InCheck() bool {
	return g.board.IsCheck(g.board.Turn())
}

func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

func (g *Game) CurrentFEN() string {
	return g.CurrentSnapshot().FEN
}

func (g *Game) InitialFEN() string {
	return g.snapshots[0].FEN
}

// MoveCount is the number of half-moves played
func (g *Game) MoveCount() int {
	return len(g.snapshots) - 1
}

func (g *Game) LastMove() *board.MoveEvent {
	return g.CurrentSnapshot().Move
}

func (g *Game) Moves() []board.MoveEvent {
	moves := make([]board.MoveEvent, 0, len(g.snapshots)-1)
	for _, s := range g.snapshots[1:] {
		moves = append(moves, *s.Move)
	}
	return moves
}

// Snapshots returns the position history, initial position first
func (g *Game) Snapshots() []Snapshot {
	out := make([]Snapshot, len(g.snapshots))
	copy(out, g.snapshots)
	return out
}
