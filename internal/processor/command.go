package processor

import (
	"chesscore/internal/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdGetGame
	CmdDeleteGame
	CmdMakeMove
	CmdPlay
	CmdCastle
	CmdGetBoard
	CmdGetTargets
	CmdGetMoves
)

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	GameID string // For game-specific commands
	Args   any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{
		Type: CmdCreateGame,
		Args: req,
	}
}

func NewGetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdGetGame,
		GameID: gameID,
	}
}

func NewDeleteGameCommand(gameID string) Command {
	return Command{
		Type:   CmdDeleteGame,
		GameID: gameID,
	}
}

func NewMakeMoveCommand(gameID string, req core.MoveRequest) Command {
	return Command{
		Type:   CmdMakeMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewPlayCommand(gameID string, req core.PlayRequest) Command {
	return Command{
		Type:   CmdPlay,
		GameID: gameID,
		Args:   req,
	}
}

func NewCastleCommand(gameID string, req core.CastleRequest) Command {
	return Command{
		Type:   CmdCastle,
		GameID: gameID,
		Args:   req,
	}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{
		Type:   CmdGetBoard,
		GameID: gameID,
	}
}

// NewGetTargetsCommand asks for the destinations of the piece on square,
// given in file/rank notation
func NewGetTargetsCommand(gameID, square string) Command {
	return Command{
		Type:   CmdGetTargets,
		GameID: gameID,
		Args:   square,
	}
}

func NewGetMovesCommand(gameID string) Command {
	return Command{
		Type:   CmdGetMoves,
		GameID: gameID,
	}
}
