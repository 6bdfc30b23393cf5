package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesscore/internal/core"
	"chesscore/internal/service"
	"chesscore/internal/storage"
)

// recordedGame plays a short game through a persisting service and returns
// the database path and game id
func recordedGame(t *testing.T) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chess.db")

	var out bytes.Buffer
	require.NoError(t, run([]string{"init", "-path", path}, &out))
	assert.Contains(t, out.String(), "Database initialized at: "+path)

	store, err := storage.NewStore(path, false)
	require.NoError(t, err)
	svc := service.New(store, []byte("test-secret-minimum-32-characters-long"))

	id, _, err := svc.CreateGame("r3k3/1P6/8/8/8/8/8/4K2R w Kq - 0 1")
	require.NoError(t, err)
	for _, m := range [][2]string{{"e1", "g1"}, {"e8", "c8"}, {"b7", "b8"}} {
		from, err := core.ParseSquare(m[0])
		require.NoError(t, err)
		to, err := core.ParseSquare(m[1])
		require.NoError(t, err)
		_, err = svc.Play(id, from, to, 0)
		require.NoError(t, err)
	}
	require.NoError(t, svc.Shutdown(time.Second))

	return path, id
}

func TestQueryGamesAndMoves(t *testing.T) {
	path, id := recordedGame(t)

	var out bytes.Buffer
	require.NoError(t, run([]string{"query", "-path", path}, &out))
	assert.Contains(t, out.String(), id)
	assert.Contains(t, out.String(), "r3k3/1P6/8/8/8/8/8/4K2R w Kq - 0 1")
	assert.Contains(t, out.String(), "Found 1 game(s)")

	out.Reset()
	require.NoError(t, run([]string{"query", "-path", path, "-gameId", "missing"}, &out))
	assert.Contains(t, out.String(), "No games found")

	out.Reset()
	require.NoError(t, run([]string{"query", "-path", path, "-gameId", id, "-moves"}, &out))
	s := out.String()
	assert.Contains(t, s, "castling")
	assert.Contains(t, s, "b7")
	assert.Contains(t, s, "Found 3 move(s)")

	assert.Error(t, run([]string{"query", "-path", path, "-moves"}, &out))
}

func TestReplay(t *testing.T) {
	path, id := recordedGame(t)

	var out bytes.Buffer
	require.NoError(t, run([]string{"replay", "-path", path, "-gameId", id}, &out))
	assert.Contains(t, out.String(), "Replayed 3 move(s)")
	assert.Contains(t, out.String(), "Final FEN: 1Qkr4/8/8/8/8/8/8/5RK1 b - - 0 2")

	err := run([]string{"replay", "-path", path, "-gameId", "missing"}, &out)
	assert.ErrorContains(t, err, "game not found")
}

func TestReplayUnpromotedPawn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	var out bytes.Buffer
	require.NoError(t, run([]string{"init", "-path", path}, &out))

	store, err := storage.NewStore(path, false)
	require.NoError(t, err)
	svc := service.New(store, []byte("test-secret-minimum-32-characters-long"))

	id, _, err := svc.CreateGame("k7/4P3/8/8/8/8/8/K7 w - - 0 1")
	require.NoError(t, err)
	// A plain move keeps the Pawn on the last rank
	_, err = svc.Move(id, core.Sq(6, 4), core.Sq(7, 4), 0)
	require.NoError(t, err)
	require.NoError(t, svc.Shutdown(time.Second))

	out.Reset()
	require.NoError(t, run([]string{"replay", "-path", path, "-gameId", id}, &out))
	assert.Contains(t, out.String(), "Replayed 1 move(s)")
	assert.Contains(t, out.String(), "Final FEN: k3P3/8/8/8/8/8/8/K7 b - - 0 1")
}

func TestReplayDetectsTampering(t *testing.T) {
	path, id := recordedGame(t)

	store, err := storage.NewStore(path, false)
	require.NoError(t, err)
	store.RecordMove(storage.MoveRecord{
		GameID: id, MoveNumber: 4, Kind: "move", FromSquare: "c8", ToSquare: "b8",
		PlayerColor: "b", FENAfterMove: "bogus", MoveTimeUTC: time.Now().UTC(),
	})
	require.NoError(t, store.Close())

	var out bytes.Buffer
	err = run([]string{"replay", "-path", path, "-gameId", id}, &out)
	assert.ErrorContains(t, err, "move 4: position mismatch")
}

func TestDelete(t *testing.T) {
	path, _ := recordedGame(t)

	var out bytes.Buffer
	require.NoError(t, run([]string{"delete", "-path", path}, &out))
	assert.Contains(t, out.String(), "Database deleted")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorContains(t, run(nil, &out), "subcommand required")
	assert.ErrorContains(t, run([]string{"user"}, &out), "unknown subcommand")
	assert.ErrorContains(t, run([]string{"query"}, &out), "database path required")
	assert.ErrorContains(t, run([]string{"replay", "-path", filepath.Join(t.TempDir(), "x.db")}, &out), "game ID required")
}
