package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"chesscore/internal/client/api"
	"chesscore/internal/client/display"
)

// ErrExit is returned by the exit command to end the session
var ErrExit = errors.New("exit requested")

// Session is the state shared by all commands of one client run
type Session struct {
	Client      *api.Client
	Out         io.Writer
	APIBaseURL  string
	CurrentGame string
	MoveCount   int
	Turn        string
	Verbose     bool
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.Out, format, args...)
}

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(*Session, []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  *Session
	commands map[string]*Command
}

func NewRegistry(session *Session) *Registry {
	r := &Registry{
		session:  session,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()
	r.registerAuthCommands()
	r.registerDebugCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})

	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the client",
		Usage:       "exit",
		Handler:     exitHandler,
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Execute runs one input line and returns false once the session should end
func (r *Registry) Execute(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmdName := parts[0]
	args := parts[1:]

	cmd, exists := r.commands[cmdName]
	if !exists {
		r.session.printf("%sUnknown command: %s%s\n", display.Red, cmdName, display.Reset)
		r.session.printf("Type 'help' for available commands\n")
		return true
	}

	r.session.Client.SetVerbose(r.session.Verbose)

	if err := cmd.Handler(r.session, args); err != nil {
		if errors.Is(err, ErrExit) {
			return false
		}
		r.session.printf("%sError: %s%s\n", display.Red, err.Error(), display.Reset)
	}
	return true
}

func (r *Registry) helpHandler(s *Session, args []string) error {
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		s.printf("\n%s%s%s - %s\n", display.Cyan, cmd.Name, display.Reset, cmd.Description)
		if cmd.ShortName != "" {
			s.printf("Short form: %s%s%s\n", display.Cyan, cmd.ShortName, display.Reset)
		}
		s.printf("Usage: %s\n", cmd.Usage)
		return nil
	}

	s.printf("\n%sAvailable Commands:%s\n\n", display.Cyan, display.Reset)

	groups := []struct {
		title string
		names []string
	}{
		{"Game Commands", []string{"new", "join", "move", "coord", "castle", "show", "targets", "state", "log", "poll", "delete"}},
		{"Token Commands", []string{"token"}},
		{"Utility Commands", []string{"health", "url", "raw", "clear", "help", "exit"}},
	}

	for i, group := range groups {
		if i > 0 {
			s.printf("\n")
		}
		s.printf("%s%s:%s\n", display.Yellow, group.title, display.Reset)
		for _, name := range group.names {
			cmd, exists := r.commands[name]
			if !exists {
				continue
			}
			shortPart := "    "
			if cmd.ShortName != "" {
				shortPart = fmt.Sprintf("[%s%s%s] ", display.Cyan, cmd.ShortName, display.Reset)
			}
			s.printf("  %s%-10s %s\n", shortPart, cmd.Name, cmd.Description)
		}
	}

	s.printf("\nType 'help <command>' for detailed usage\n")
	s.printf("Add '-v' to any command for verbose output\n")
	return nil
}

func exitHandler(s *Session, args []string) error {
	s.printf("%sGoodbye!%s\n", display.Cyan, display.Reset)
	return ErrExit
}
