package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesscore/internal/board"
	"chesscore/internal/core"
	"chesscore/internal/game"
	"chesscore/internal/storage"
)

var testSecret = []byte("test-secret-minimum-32-characters-long")

func sq(t *testing.T, s string) core.Square {
	t.Helper()
	square, err := core.ParseSquare(s)
	require.NoError(t, err)
	return square
}

func newService(t *testing.T) *Service {
	t.Helper()
	svc := New(nil, testSecret)
	t.Cleanup(func() { svc.Shutdown(time.Second) })
	return svc
}

func TestCreateGame(t *testing.T) {
	svc := newService(t)

	id, token, err := svc.CreateGame("")
	require.NoError(t, err)
	assert.Len(t, id, 36)
	assert.NotEmpty(t, token)
	assert.Equal(t, 1, svc.GameCount())

	err = svc.View(id, func(g *game.Game) error {
		assert.Equal(t, board.StartingFEN, g.CurrentFEN())
		return nil
	})
	require.NoError(t, err)

	_, _, err = svc.CreateGame("garbage")
	assert.Error(t, err)
	assert.Equal(t, 1, svc.GameCount())
}

func TestGameNotFound(t *testing.T) {
	svc := newService(t)

	err := svc.View("missing", func(*game.Game) error { return nil })
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = svc.Play("missing", sq(t, "e2"), sq(t, "e4"), 0)
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = svc.Castle("missing", board.Kingside)
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, _, err = svc.Targets("missing", sq(t, "e2"))
	assert.ErrorIs(t, err, ErrGameNotFound)

	assert.ErrorIs(t, svc.DeleteGame("missing"), ErrGameNotFound)
}

func TestPlayAndMove(t *testing.T) {
	svc := newService(t)
	id, _, err := svc.CreateGame("")
	require.NoError(t, err)

	ev, err := svc.Play(id, sq(t, "e2"), sq(t, "e4"), 0)
	require.NoError(t, err)
	assert.Equal(t, board.MoveKindMove, ev.Kind)
	assert.Equal(t, core.ColorWhite, ev.Color)

	_, err = svc.Move(id, sq(t, "e2"), sq(t, "e4"), 0)
	assert.ErrorIs(t, err, board.ErrNoPiece)

	_, err = svc.Move(id, sq(t, "e7"), sq(t, "e5"), 0)
	require.NoError(t, err)

	_, err = svc.Move(id, sq(t, "d2"), sq(t, "d4"), core.Queen)
	assert.ErrorIs(t, err, board.ErrInvalidPromotion)

	require.NoError(t, svc.View(id, func(g *game.Game) error {
		assert.Equal(t, 2, g.MoveCount())
		assert.Equal(t, core.ColorWhite, g.Turn())
		return nil
	}))
}

func TestCastleAndTargets(t *testing.T) {
	svc := newService(t)
	id, _, err := svc.CreateGame("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	targets, sides, err := svc.Targets(id, sq(t, "e1"))
	require.NoError(t, err)
	assert.Len(t, targets, 5)
	assert.ElementsMatch(t, []board.CastleSide{board.Kingside, board.Queenside}, sides)

	_, sides, err = svc.Targets(id, sq(t, "a1"))
	require.NoError(t, err)
	assert.Empty(t, sides)

	ev, err := svc.Castle(id, board.Queenside)
	require.NoError(t, err)
	assert.Equal(t, board.MoveKindCastling, ev.Kind)
	assert.Equal(t, "c1", ev.To.String())

	_, err = svc.Castle(id, board.Queenside)
	require.NoError(t, err, "black still has both castling rights")

	_, err = svc.Castle(id, board.Kingside)
	assert.ErrorIs(t, err, board.ErrCastlingPrecondition)
}

func TestGameToken(t *testing.T) {
	svc := newService(t)
	id, token, err := svc.CreateGame("")
	require.NoError(t, err)
	other, otherToken, err := svc.CreateGame("")
	require.NoError(t, err)

	assert.NoError(t, svc.ValidateGameToken(id, token))
	assert.NoError(t, svc.ValidateGameToken(other, otherToken))

	assert.ErrorIs(t, svc.ValidateGameToken(id, ""), ErrInvalidToken)
	assert.ErrorIs(t, svc.ValidateGameToken(id, otherToken), ErrInvalidToken)
	assert.ErrorIs(t, svc.ValidateGameToken(id, token+"x"), ErrInvalidToken)

	foreign := New(nil, []byte("another-secret-minimum-32-characters"))
	t.Cleanup(func() { foreign.Shutdown(time.Second) })
	_, foreignToken, err := foreign.CreateGame("")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ValidateGameToken(id, foreignToken), ErrInvalidToken)
}

func TestDeleteGameReleasesWaiters(t *testing.T) {
	svc := newService(t)
	id, _, err := svc.CreateGame("")
	require.NoError(t, err)

	ch := svc.RegisterWait(context.Background(), id, 0)
	require.NoError(t, svc.DeleteGame(id))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("waiter not released on delete")
	}
	assert.Equal(t, 0, svc.GameCount())
}

func TestMoveNotifiesWaiters(t *testing.T) {
	svc := newService(t)
	id, _, err := svc.CreateGame("")
	require.NoError(t, err)

	ch := svc.RegisterWait(context.Background(), id, 0)

	select {
	case <-ch:
		t.Fatal("released before any move")
	case <-time.After(20 * time.Millisecond):
	}

	_, err = svc.Play(id, sq(t, "e2"), sq(t, "e4"), 0)
	require.NoError(t, err)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("waiter not released after move")
	}
}

func TestEvictIdle(t *testing.T) {
	svc := newService(t)
	stale, _, err := svc.CreateGame("")
	require.NoError(t, err)
	fresh, _, err := svc.CreateGame("")
	require.NoError(t, err)

	svc.mu.Lock()
	svc.games[stale].lastActive = time.Now().UTC().Add(-2 * GameTTL)
	svc.mu.Unlock()

	assert.Equal(t, 1, svc.evictIdle(time.Now().UTC().Add(-GameTTL)))
	assert.ErrorIs(t, svc.View(stale, func(*game.Game) error { return nil }), ErrGameNotFound)
	assert.NoError(t, svc.View(fresh, func(*game.Game) error { return nil }))
}

func TestRunCleanupJobStops(t *testing.T) {
	svc := newService(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.RunCleanupJob(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup job did not stop")
	}
}

func TestConcurrentMovesSerialize(t *testing.T) {
	svc := newService(t)
	id, _, err := svc.CreateGame("")
	require.NoError(t, err)

	// Every goroutine tries the same opening move; exactly one may win
	from, to := sq(t, "e2"), sq(t, "e4")
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		errs int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Play(id, from, to, 0)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				oks++
			} else {
				errs++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	assert.Equal(t, 7, errs)
}

func TestStorageRecording(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	store, err := storage.NewStore(path, false)
	require.NoError(t, err)
	require.NoError(t, store.InitDB())

	svc := New(store, testSecret)
	assert.Equal(t, "ok", svc.GetStorageHealth())
	assert.Same(t, store, svc.store)

	id, _, err := svc.CreateGame("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	_, err = svc.Play(id, sq(t, "e1"), sq(t, "g1"), 0)
	require.NoError(t, err)
	_, err = svc.Play(id, sq(t, "a8"), sq(t, "a1"), 0)
	require.NoError(t, err)

	// Shutdown closes the store and flushes the queue
	require.NoError(t, svc.Shutdown(time.Second))

	reopened, err := storage.NewStore(path, false)
	require.NoError(t, err)
	defer reopened.Close()

	games, err := reopened.QueryGames(id)
	require.NoError(t, err)
	require.Len(t, games, 1)

	moves, err := reopened.QueryMoves(id)
	require.NoError(t, err)
	require.Len(t, moves, 2)
	assert.Equal(t, "castling", moves[0].Kind)
	assert.Equal(t, "e1", moves[0].FromSquare)
	assert.Equal(t, "g1", moves[0].ToSquare)
	assert.Equal(t, "w", moves[0].PlayerColor)
	assert.Equal(t, "move", moves[1].Kind)
	assert.Equal(t, "b", moves[1].PlayerColor)
	assert.Equal(t, 2, moves[1].MoveNumber)
}

func TestGetStorageHealthDisabled(t *testing.T) {
	assert.Equal(t, "disabled", newService(t).GetStorageHealth())
}
