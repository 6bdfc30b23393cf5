package commands

import (
	"fmt"
	"strings"
	"time"

	"chesscore/internal/client/display"
)

func (r *Registry) registerDebugCommands() {
	r.Register(&Command{
		Name:        "health",
		ShortName:   ".",
		Description: "Check server health",
		Usage:       "health",
		Handler:     healthHandler,
	})

	r.Register(&Command{
		Name:        "url",
		ShortName:   "/",
		Description: "Set API base URL",
		Usage:       "url [apiUrl]",
		Handler:     urlHandler,
	})

	r.Register(&Command{
		Name:        "raw",
		ShortName:   ":",
		Description: "Send raw API request",
		Usage:       "raw <method> <path> [json-body]",
		Handler:     rawRequestHandler,
	})

	r.Register(&Command{
		Name:        "clear",
		ShortName:   "-",
		Description: "Clear screen",
		Usage:       "clear",
		Handler:     clearHandler,
	})
}

func healthHandler(s *Session, args []string) error {
	resp, err := s.Client.Health()
	if err != nil {
		return err
	}

	s.printf("%sServer Health:%s\n", display.Cyan, display.Reset)
	s.printf("  Status:  %s\n", resp.Status)
	s.printf("  Time:    %s\n", time.Unix(resp.Time, 0).Format("2006-01-02 15:04:05"))
	s.printf("  Games:   %d\n", resp.Games)
	if resp.Storage != "" {
		s.printf("  Storage: %s\n", resp.Storage)
	}
	return nil
}

func urlHandler(s *Session, args []string) error {
	if len(args) == 0 {
		s.printf("Current API URL: %s\n", s.APIBaseURL)
		return nil
	}

	url := args[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	s.APIBaseURL = strings.TrimRight(url, "/")
	s.Client.SetBaseURL(url)

	s.printf("%sAPI URL set to: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	return nil
}

func rawRequestHandler(s *Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: raw <method> <path> [json-body]")
	}

	method := strings.ToUpper(args[0])
	path := args[1]

	body := ""
	if len(args) > 2 {
		body = strings.Join(args[2:], " ")
	}

	return s.Client.RawRequest(method, path, body)
}

func clearHandler(s *Session, args []string) error {
	s.printf("\033[H\033[2J")
	return nil
}
