// Package main runs a two-player chess game on the local terminal.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"os"
	"time"

	"chesscore/internal/cli"
	"chesscore/internal/service"
	clitransport "chesscore/internal/transport/cli"

	"github.com/chzyer/readline"
)

func main() {
	theme := flag.String("color", "", "Board color theme: off, brown, green, gray (default: brown on a terminal, off otherwise)")
	history := flag.String("history", "", "Path to the readline history file (empty disables history)")
	flag.Parse()

	selected := cli.DefaultTheme(os.Stdout)
	if *theme != "" {
		selected = cli.ColorTheme(*theme)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	// Tokens are never handed out locally but the service still signs them
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}

	// Local games are never persisted
	svc := service.New(nil, secret)
	defer svc.Shutdown(time.Second)

	view := cli.New(rl.Stdout(), selected)
	if *theme != "" && view.Theme() != selected {
		view.ShowMessage(fmt.Sprintf("Unknown theme %q, colors disabled.", *theme))
	}
	handler := clitransport.New(svc, view)

	view.ShowWelcome()
	handler.Run(rl)
}
