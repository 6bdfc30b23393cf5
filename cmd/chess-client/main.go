// Package main implements an interactive debugging client for the chess server API.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"chesscore/internal/client/api"
	"chesscore/internal/client/commands"
	"chesscore/internal/client/display"

	"github.com/chzyer/readline"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "Chess server base URL")
	flag.Parse()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("chess"),
		HistoryFile:     ".chess_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	out := rl.Stdout()
	s := &commands.Session{
		Client:     api.New(*apiURL, out),
		Out:        out,
		APIBaseURL: strings.TrimRight(*apiURL, "/"),
	}

	fmt.Fprintf(out, "%sChess Debug Client%s\n", display.Cyan, display.Reset)
	fmt.Fprintf(out, "%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Fprintf(out, "Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s)

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Check for verbose flag
		if strings.HasSuffix(line, " -v") {
			s.Verbose = true
			line = strings.TrimSuffix(line, " -v")
		} else {
			s.Verbose = false
		}

		if !registry.Execute(line) {
			break
		}
	}
}

func buildPrompt(s *commands.Session) string {
	promptStr := "chess"

	if s.CurrentGame != "" {
		id := s.CurrentGame
		if len(id) > 8 {
			id = id[:8]
		}
		promptStr += display.Yellow + " [" + display.White + id + display.Yellow + "]"
	}

	if s.Turn != "" {
		promptStr += fmt.Sprintf(" - Turn:%s%s #%d", display.ColorForTurn(s.Turn), display.Yellow, s.MoveCount)
	}

	return display.Prompt(promptStr)
}
