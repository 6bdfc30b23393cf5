package processor

import (
	"errors"
	"fmt"
	"strings"

	"chesscore/internal/board"
	"chesscore/internal/core"
	"chesscore/internal/game"
	"chesscore/internal/service"
)

// Processor turns transport-neutral commands into service calls and shapes
// the results as API responses
type Processor struct {
	svc *service.Service
}

func New(svc *service.Service) *Processor {
	return &Processor{svc: svc}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdPlay:
		return p.handlePlay(cmd)
	case CmdCastle:
		return p.handleCastle(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdGetTargets:
		return p.handleGetTargets(cmd)
	case CmdGetMoves:
		return p.handleGetMoves(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	gameID, token, err := p.svc.CreateGame(strings.TrimSpace(args.FEN))
	switch {
	case errors.Is(err, service.ErrTooManyGames):
		return p.errorResponse(err.Error(), core.ErrRateLimitExceeded)
	case err != nil:
		return p.errorResponse(err.Error(), core.ErrInvalidFEN)
	}

	resp := p.handleGetGame(NewGetGameCommand(gameID))
	if data, ok := resp.Data.(core.GameResponse); ok {
		data.Token = token
		resp.Data = data
	}
	return resp
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	var resp core.GameResponse
	err := p.svc.View(cmd.GameID, func(g *game.Game) error {
		resp = buildGameResponse(cmd.GameID, g)
		return nil
	})
	if err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{Success: true, Data: resp}
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{Success: true}
}

func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok || args.FromRow == nil || args.FromCol == nil || args.ToRow == nil || args.ToCol == nil {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	promotion, err := parsePromotion(args.Promotion)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidMove)
	}

	from := core.Sq(*args.FromRow, *args.FromCol)
	to := core.Sq(*args.ToRow, *args.ToCol)
	if _, err := p.svc.Move(cmd.GameID, from, to, promotion); err != nil {
		return p.serviceError(err)
	}
	return p.handleGetGame(cmd)
}

func (p *Processor) handlePlay(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.PlayRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	from, err := core.ParseSquare(args.From)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidMove)
	}
	to, err := core.ParseSquare(args.To)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidMove)
	}
	promotion, err := parsePromotion(args.Promotion)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidMove)
	}

	if _, err := p.svc.Play(cmd.GameID, from, to, promotion); err != nil {
		return p.serviceError(err)
	}
	return p.handleGetGame(cmd)
}

func (p *Processor) handleCastle(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CastleRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	side, err := board.ParseCastleSide(args.Side)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidMove)
	}
	if _, err := p.svc.Castle(cmd.GameID, side); err != nil {
		return p.serviceError(err)
	}
	return p.handleGetGame(cmd)
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	var resp core.BoardResponse
	err := p.svc.View(cmd.GameID, func(g *game.Game) error {
		b := g.Board()
		resp = core.BoardResponse{
			FEN:   b.FEN(),
			Board: b.ToASCII(),
			Cells: b.Cells(),
		}
		return nil
	})
	if err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{Success: true, Data: resp}
}

func (p *Processor) handleGetTargets(cmd Command) ProcessorResponse {
	square, ok := cmd.Args.(string)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	sq, err := core.ParseSquare(square)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	targets, sides, err := p.svc.Targets(cmd.GameID, sq)
	if err != nil {
		return p.serviceError(err)
	}

	resp := core.TargetsResponse{
		Square:  sq.String(),
		Targets: make([]string, 0, len(targets)),
	}
	for _, t := range targets {
		resp.Targets = append(resp.Targets, t.String())
	}
	for _, side := range sides {
		resp.Castling = append(resp.Castling, side.String())
	}
	return ProcessorResponse{Success: true, Data: resp}
}

func (p *Processor) handleGetMoves(cmd Command) ProcessorResponse {
	resp := core.MoveLogResponse{GameID: cmd.GameID}
	err := p.svc.View(cmd.GameID, func(g *game.Game) error {
		moves := g.Moves()
		resp.Moves = make([]core.MoveInfo, 0, len(moves))
		for _, ev := range moves {
			resp.Moves = append(resp.Moves, moveInfo(ev))
		}
		return nil
	})
	if err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{Success: true, Data: resp}
}

// parsePromotion maps an optional one-letter code to a kind
func parsePromotion(s string) (core.PieceKind, error) {
	if s == "" {
		return 0, nil
	}
	kind, ok := core.KindFromChar(s[0])
	if len(s) != 1 || !ok || !kind.IsPromotable() {
		return 0, fmt.Errorf("invalid promotion piece %q", s)
	}
	return kind, nil
}

func buildGameResponse(gameID string, g *game.Game) core.GameResponse {
	resp := core.GameResponse{
		GameID:    gameID,
		FEN:       g.CurrentFEN(),
		Turn:      g.Turn().String(),
		State:     g.State().String(),
		InCheck:   g.InCheck(),
		MoveCount: g.MoveCount(),
	}
	if ev := g.LastMove(); ev != nil {
		info := moveInfo(*ev)
		resp.LastMove = &info
	}
	return resp
}

func moveInfo(ev board.MoveEvent) core.MoveInfo {
	info := core.MoveInfo{
		Kind:        ev.Kind,
		From:        ev.From.String(),
		To:          ev.To.String(),
		PlayerColor: ev.Color.String(),
	}
	if ev.Promotion != 0 {
		info.Promotion = string(ev.Promotion.Char())
	}
	return info
}

// serviceError maps service, game and board errors to API error codes
func (p *Processor) serviceError(err error) ProcessorResponse {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return p.errorResponse("game not found", core.ErrGameNotFound)
	case errors.Is(err, game.ErrGameOver):
		return p.errorResponse(err.Error(), core.ErrGameOver)
	case errors.Is(err, board.ErrOutOfRange),
		errors.Is(err, board.ErrSameSquare),
		errors.Is(err, board.ErrNoPiece),
		errors.Is(err, board.ErrWrongTurn),
		errors.Is(err, board.ErrIllegalForPiece),
		errors.Is(err, board.ErrCastlingPrecondition),
		errors.Is(err, board.ErrInvalidPromotion):
		return p.errorResponse(err.Error(), core.ErrInvalidMove)
	default:
		return p.errorResponse(err.Error(), core.ErrInternalError)
	}
}

func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}
