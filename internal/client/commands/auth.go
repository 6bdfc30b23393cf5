package commands

import (
	"fmt"

	"chesscore/internal/client/display"
)

func (r *Registry) registerAuthCommands() {
	r.Register(&Command{
		Name:        "token",
		ShortName:   "k",
		Description: "Show or set the game write token",
		Usage:       "token [value|clear]",
		Handler:     tokenHandler,
	})
}

func tokenHandler(s *Session, args []string) error {
	if len(args) == 0 {
		if s.Client.AuthToken == "" {
			s.printf("No token set\n")
			return nil
		}
		s.printf("Token: %s\n", s.Client.AuthToken)
		return nil
	}
	if len(args) > 1 {
		return fmt.Errorf("usage: token [value|clear]")
	}

	if args[0] == "clear" {
		s.Client.SetToken("")
		s.printf("%sToken cleared%s\n", display.Cyan, display.Reset)
		return nil
	}

	s.Client.SetToken(args[0])
	s.printf("%sToken set%s\n", display.Cyan, display.Reset)
	return nil
}
