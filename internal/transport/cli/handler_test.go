package cli

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesscore/internal/cli"
	"chesscore/internal/service"
)

// scriptReader replays fixed input lines, then reports end of input
type scriptReader struct {
	lines   []string
	prompts []string
	errs    map[int]error
	pos     int
}

func (r *scriptReader) Readline() (string, error) {
	if err, ok := r.errs[r.pos]; ok {
		r.pos++
		return "", err
	}
	if r.pos >= len(r.lines) {
		return "", io.EOF
	}
	line := r.lines[r.pos]
	r.pos++
	return line, nil
}

func (r *scriptReader) SetPrompt(prompt string) {
	r.prompts = append(r.prompts, prompt)
}

func run(t *testing.T, lines ...string) (string, *scriptReader, *service.Service) {
	t.Helper()
	svc := service.New(nil, []byte("test-secret-minimum-32-characters-long"))
	t.Cleanup(func() { svc.Shutdown(time.Second) })

	var out bytes.Buffer
	h := New(svc, cli.New(&out, cli.ThemeOff))
	rl := &scriptReader{lines: lines}
	h.Run(rl)
	return out.String(), rl, svc
}

func TestRunFoolsMate(t *testing.T) {
	out, rl, svc := run(t, "new", "f2f3", "e7e5", "g2g4", "d8h4", "a2a3")

	assert.Contains(t, out, "Game started.")
	assert.Contains(t, out, "White: Pawn f2-f3")
	assert.Contains(t, out, "Black: Queen d8-h4")
	assert.Contains(t, out, "Checkmate! Black wins.")
	assert.Contains(t, out, "The game is over.")

	assert.Equal(t, []string{"> ", "[w]> ", "[b]> ", "[w]> ", "[b]> ", "> ", "> "}, rl.prompts)

	// The game is dropped when the session ends
	assert.Equal(t, 0, svc.GameCount())
}

func TestRunRejectsMoves(t *testing.T) {
	out, _, _ := run(t, "e2e4", "new", "e2e5", "e7e5", "e2", "a7a8k")

	assert.Contains(t, out, "No active game.")
	assert.Contains(t, out, "Error: invalid move:")
	assert.Contains(t, out, "Error: invalid move \"e2\"")
	assert.Contains(t, out, "Error: invalid promotion piece \"k\"")
	assert.NotContains(t, out, "White: Pawn")
}

func TestRunResumeAndCastle(t *testing.T) {
	out, _, _ := run(t,
		"resume r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
		"show e1",
		"castle k",
		"O-O-O",
		"history",
	)

	assert.Contains(t, out, "Castling kingside is available.")
	assert.Contains(t, out, "Castling queenside is available.")
	assert.Contains(t, out, "White: O-O\n")
	assert.Contains(t, out, "Black: O-O-O\n")
	assert.Contains(t, out, "1. O-O | O-O-O")
	assert.Contains(t, out, "Current FEN: 2kr3r/8/8/8/8/8/8/R4RK1 w - - 0 2")
}

func TestRunResumeErrors(t *testing.T) {
	out, _, _ := run(t, "resume", "resume not-a-fen", "castle", "show", "history")

	assert.Contains(t, out, "Usage: resume <FEN string>")
	assert.Contains(t, out, "Error: could not start the game:")
	assert.Contains(t, out, "No active game.")
}

func TestRunShowTargets(t *testing.T) {
	out, _, _ := run(t, "new", "show g1", "show e4", "show z9")

	assert.Contains(t, out, "3 . . . . . * . *  3")
	assert.Contains(t, out, "No moves from e4.")
	assert.Contains(t, out, "Error: invalid square \"z9\"")
}

func TestRunColorAndHelp(t *testing.T) {
	out, _, _ := run(t, "color purple", "color gray", "help", "quit", "new")

	assert.Contains(t, out, "Error: invalid theme: purple")
	assert.Contains(t, out, "Color theme set to: gray")
	assert.Contains(t, out, "Commands:")
	assert.NotContains(t, out, "Game started.")
}

func TestRunCheckPrompt(t *testing.T) {
	_, rl, _ := run(t, "resume 4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "a1a8")

	require.Len(t, rl.prompts, 3)
	assert.Equal(t, "[b+]> ", rl.prompts[2])
}

func TestRunInterrupt(t *testing.T) {
	svc := service.New(nil, []byte("test-secret-minimum-32-characters-long"))
	t.Cleanup(func() { svc.Shutdown(time.Second) })

	var out bytes.Buffer
	h := New(svc, cli.New(&out, cli.ThemeOff))
	rl := &scriptReader{
		lines: []string{"new", "help"},
		errs:  map[int]error{1: readline.ErrInterrupt},
	}
	h.Run(rl)

	assert.Contains(t, out.String(), "Game started.")
	assert.NotContains(t, out.String(), "Commands:")
}
