package api

import (
	"bytes"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesscore/internal/core"
	chesshttp "chesscore/internal/http"
	"chesscore/internal/processor"
	"chesscore/internal/service"
)

func startServer(t *testing.T) string {
	t.Helper()
	svc := service.New(nil, []byte("test-secret-minimum-32-characters-long"))
	app := chesshttp.NewFiberApp(processor.New(svc), svc, true)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)

	t.Cleanup(func() {
		app.Shutdown()
		svc.Shutdown(time.Second)
	})
	return "http://" + ln.Addr().String()
}

func TestClientGameFlow(t *testing.T) {
	var out bytes.Buffer
	c := New(startServer(t)+"/", &out)

	health, err := c.Health()
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)

	g, err := c.CreateGame("")
	require.NoError(t, err)
	assert.NotEmpty(t, g.Token)
	assert.Equal(t, g.Token, c.AuthToken)
	assert.Contains(t, out.String(), "[API] POST /api/v1/games")
	assert.Contains(t, out.String(), "[201 Created]")

	g, err = c.Play(g.GameID, "e2", "e4", "")
	require.NoError(t, err)
	assert.Equal(t, "b", g.Turn)

	g, err = c.MakeMove(g.GameID, core.Sq(6, 4), core.Sq(4, 4), "")
	require.NoError(t, err)
	assert.Equal(t, 2, g.MoveCount)
	require.NotNil(t, g.LastMove)
	assert.Equal(t, "e5", g.LastMove.To)

	targets, err := c.GetTargets(g.GameID, "g1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"e2", "f3", "h3"}, targets.Targets)

	b, err := c.GetBoard(g.GameID)
	require.NoError(t, err)
	assert.Equal(t, "wK", b.Cells[0][4])
	assert.Equal(t, "wP", b.Cells[3][4])

	log, err := c.GetMoves(g.GameID)
	require.NoError(t, err)
	require.Len(t, log.Moves, 2)
	assert.Equal(t, "e2", log.Moves[0].From)

	// Returns at once because the game is already past move 0
	polled, err := c.PollGame(g.GameID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, polled.MoveCount)

	require.NoError(t, c.DeleteGame(g.GameID))
	_, err = c.GetGame(g.GameID)
	assert.True(t, IsCode(err, core.ErrGameNotFound), "%v", err)
}

func TestClientErrors(t *testing.T) {
	var out bytes.Buffer
	c := New(startServer(t), &out)

	g, err := c.CreateGame("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	_, err = c.Play(g.GameID, "a1", "b3", "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, core.ErrInvalidMove, apiErr.Code)
	assert.Contains(t, apiErr.Error(), "INVALID_MOVE")

	token := c.AuthToken
	c.SetToken("")
	_, err = c.Castle(g.GameID, "kingside")
	assert.True(t, IsCode(err, core.ErrUnauthorized), "%v", err)

	c.SetToken(token)
	g, err = c.Castle(g.GameID, "kingside")
	require.NoError(t, err)
	assert.Equal(t, "castling", g.LastMove.Kind)

	_, err = c.CreateGame("not a fen")
	assert.True(t, IsCode(err, core.ErrInvalidFEN), "%v", err)
	assert.Equal(t, token, c.AuthToken, "failed create keeps the old token")

	out.Reset()
	require.NoError(t, c.RawRequest("GET", "/health", ""))
	assert.Contains(t, out.String(), `"status": "healthy"`)
}

func TestClientUnreachable(t *testing.T) {
	var out bytes.Buffer
	c := New("http://127.0.0.1:1", &out)
	c.HTTPClient.Timeout = time.Second

	_, err := c.Health()
	assert.Error(t, err)
	assert.Contains(t, out.String(), "[ERROR]")
}
