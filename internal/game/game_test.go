package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesscore/internal/board"
	"chesscore/internal/core"
)

func sq(t *testing.T, s string) core.Square {
	t.Helper()
	square, err := core.ParseSquare(s)
	require.NoError(t, err)
	return square
}

func play(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, m := range moves {
		_, err := g.Play(sq(t, m[:2]), sq(t, m[2:4]), 0)
		require.NoError(t, err, "move %s", m)
	}
}

func TestNewGame(t *testing.T) {
	g, err := New("")
	require.NoError(t, err)

	assert.Equal(t, board.StartingFEN, g.InitialFEN())
	assert.Equal(t, board.StartingFEN, g.CurrentFEN())
	assert.Equal(t, core.StateOngoing, g.State())
	assert.Equal(t, core.ColorWhite, g.Turn())
	assert.Equal(t, 0, g.MoveCount())
	assert.Nil(t, g.LastMove())
	assert.Empty(t, g.Moves())
	assert.False(t, g.InCheck())
}

func TestNewGameInvalidFEN(t *testing.T) {
	_, err := New("not a fen")
	assert.Error(t, err)
}

func TestNewGameAlreadyMated(t *testing.T) {
	g, err := New("R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, core.StateWhiteWins, g.State())

	_, err = g.Play(sq(t, "g8"), sq(t, "f8"), 0)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestPlayRecordsHistory(t *testing.T) {
	g, err := New("")
	require.NoError(t, err)

	play(t, g, "e2e4", "e7e5", "g1f3")

	assert.Equal(t, 3, g.MoveCount())
	assert.Equal(t, core.ColorBlack, g.Turn())
	assert.Equal(t, "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 0 2", g.CurrentFEN())

	moves := g.Moves()
	require.Len(t, moves, 3)
	assert.Equal(t, board.MoveKindMove, moves[2].Kind)
	assert.Equal(t, core.Knight, moves[2].Piece)
	assert.Equal(t, core.ColorWhite, moves[2].Color)
	assert.Equal(t, "g1", moves[2].From.String())
	assert.Equal(t, "f3", moves[2].To.String())

	snaps := g.Snapshots()
	require.Len(t, snaps, 4)
	assert.Nil(t, snaps[0].Move)
	assert.Equal(t, core.ColorBlack, snaps[1].NextTurn)
	assert.Equal(t, g.CurrentFEN(), snaps[3].FEN)
}

func TestPlayRejectedMoveKeepsState(t *testing.T) {
	g, err := New("")
	require.NoError(t, err)

	tests := []struct {
		name     string
		from, to string
		want     error
	}{
		{"empty square", "e4", "e5", board.ErrNoPiece},
		{"wrong turn", "e7", "e5", board.ErrWrongTurn},
		{"blocked rook", "a1", "a3", board.ErrIllegalForPiece},
		{"same square", "e2", "e2", board.ErrSameSquare},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Play(sq(t, tt.from), sq(t, tt.to), 0)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, board.StartingFEN, g.CurrentFEN())
			assert.Equal(t, 0, g.MoveCount())
		})
	}

	_, err = g.Play(core.Sq(8, 0), core.Sq(0, 0), 0)
	assert.ErrorIs(t, err, board.ErrOutOfRange)
}

func TestPlayCastles(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		from, to string
		king     string
		rook     string
	}{
		{"kingside by two columns", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1", "g1", "g1", "f1"},
		{"kingside onto rook", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1", "h1", "g1", "f1"},
		{"queenside by two columns", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1", "c1", "c1", "d1"},
		{"black queenside onto rook", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8", "a8", "c8", "d8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.fen)
			require.NoError(t, err)

			ev, err := g.Play(sq(t, tt.from), sq(t, tt.to), 0)
			require.NoError(t, err)
			assert.Equal(t, board.MoveKindCastling, ev.Kind)
			assert.Equal(t, tt.from, ev.From.String())
			assert.Equal(t, tt.king, ev.To.String())

			b := g.Board()
			k, _ := b.At(sq(t, tt.king))
			r, _ := b.At(sq(t, tt.rook))
			assert.Equal(t, core.King, k.Kind)
			assert.Equal(t, core.Rook, r.Kind)
			assert.True(t, k.HasMoved)
			assert.True(t, r.HasMoved)
		})
	}
}

func TestPlayCastleRejected(t *testing.T) {
	g, err := New("r3k2r/8/8/8/8/8/8/R3K2R w kq - 0 1")
	require.NoError(t, err)

	_, err = g.Play(sq(t, "e1"), sq(t, "g1"), 0)
	assert.ErrorIs(t, err, board.ErrCastlingPrecondition)
	assert.Equal(t, 0, g.MoveCount())
}

func TestPlayPromotes(t *testing.T) {
	fen := "4k3/P7/8/8/8/8/8/4K3 w - - 0 1"

	t.Run("default queen", func(t *testing.T) {
		g, err := New(fen)
		require.NoError(t, err)

		ev, err := g.Play(sq(t, "a7"), sq(t, "a8"), 0)
		require.NoError(t, err)
		assert.Equal(t, core.Queen, ev.Promotion)

		p, _ := g.Board().At(sq(t, "a8"))
		assert.Equal(t, core.Queen, p.Kind)
		assert.Equal(t, core.ColorWhite, p.Color)
		assert.False(t, p.HasMoved)
	})

	t.Run("chosen knight", func(t *testing.T) {
		g, err := New(fen)
		require.NoError(t, err)

		_, err = g.Play(sq(t, "a7"), sq(t, "a8"), core.Knight)
		require.NoError(t, err)
		p, _ := g.Board().At(sq(t, "a8"))
		assert.Equal(t, core.Knight, p.Kind)
	})

	t.Run("king is not a promotion", func(t *testing.T) {
		g, err := New(fen)
		require.NoError(t, err)

		_, err = g.Play(sq(t, "a7"), sq(t, "a8"), core.King)
		assert.ErrorIs(t, err, board.ErrInvalidPromotion)
		assert.Equal(t, 0, g.MoveCount())
	})

	t.Run("promotion away from last rank", func(t *testing.T) {
		g, err := New("")
		require.NoError(t, err)

		_, err = g.Play(sq(t, "e2"), sq(t, "e4"), core.Queen)
		assert.ErrorIs(t, err, board.ErrInvalidPromotion)
	})
}

func TestMoveDoesNotPromote(t *testing.T) {
	g, err := New("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	require.NoError(t, g.Move(sq(t, "a7"), sq(t, "a8")))
	p, _ := g.Board().At(sq(t, "a8"))
	assert.Equal(t, core.Pawn, p.Kind)
}

func TestCheckmateEndsGame(t *testing.T) {
	g, err := New("")
	require.NoError(t, err)

	play(t, g, "f2f3", "e7e5", "g2g4")
	assert.Equal(t, core.StateOngoing, g.State())

	play(t, g, "d8h4")
	assert.Equal(t, core.StateBlackWins, g.State())
	assert.True(t, g.InCheck())
	assert.Empty(t, g.Targets(sq(t, "a2")))
	assert.Empty(t, g.CastleSides())

	_, err = g.Play(sq(t, "a2"), sq(t, "a3"), 0)
	assert.ErrorIs(t, err, ErrGameOver)
	assert.ErrorIs(t, g.Move(sq(t, "a2"), sq(t, "a3")), ErrGameOver)
	assert.ErrorIs(t, g.Castle(board.Kingside), ErrGameOver)
	assert.Equal(t, 4, g.MoveCount())
}

func TestCheckWithoutMate(t *testing.T) {
	g, err := New("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)

	play(t, g, "a1a8")
	assert.True(t, g.InCheck())
	assert.Equal(t, core.StateOngoing, g.State())
}

func TestTargetsAndCastleSides(t *testing.T) {
	g, err := New("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	assert.ElementsMatch(t, []board.CastleSide{board.Kingside, board.Queenside}, g.CastleSides())

	var got []string
	for _, s := range g.Targets(sq(t, "e1")) {
		got = append(got, s.String())
	}
	assert.ElementsMatch(t, []string{"d1", "f1", "d2", "e2", "f2"}, got)
	assert.Nil(t, g.Targets(core.Sq(-1, 0)))
}

func TestBoardIsCopy(t *testing.T) {
	g, err := New("")
	require.NoError(t, err)

	b := g.Board()
	require.True(t, b.MovePiece(1, 4, 3, 4))
	assert.Equal(t, board.StartingFEN, g.CurrentFEN())
	assert.Equal(t, 0, g.MoveCount())
}
