package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"chesscore/internal/core"
	"chesscore/internal/game"
	"chesscore/internal/processor"
	"chesscore/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

// NewFiberApp builds the API server. Dev mode doubles the per-IP rate limit.
func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	return newFiberApp(proc, svc, maxReq)
}

func newFiberApp(proc *processor.Processor, svc *service.Service, maxReq int) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: service.WaitTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))
	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	writeAccess := GameTokenRequired(svc.ValidateGameToken)

	api.Post("/games", h.CreateGame)
	api.Get("/games/:gameId", gameIDRequired, h.GetGame)
	api.Delete("/games/:gameId", gameIDRequired, writeAccess, h.DeleteGame)
	api.Post("/games/:gameId/moves", gameIDRequired, writeAccess, h.MakeMove)
	api.Post("/games/:gameId/play", gameIDRequired, writeAccess, h.Play)
	api.Post("/games/:gameId/castle", gameIDRequired, writeAccess, h.Castle)
	api.Get("/games/:gameId/board", gameIDRequired, h.GetBoard)
	api.Get("/games/:gameId/targets", gameIDRequired, h.GetTargets)
	api.Get("/games/:gameId/log", gameIDRequired, h.GetMoves)

	return app
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest, fiber.StatusMethodNotAllowed:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps API error codes to HTTP status
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrUnauthorized:
		return fiber.StatusUnauthorized
	case core.ErrGameOver:
		return fiber.StatusConflict
	case core.ErrRateLimitExceeded:
		return fiber.StatusServiceUnavailable
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

// respond writes a processor response with the status its error code implies
func respond(c *fiber.Ctx, resp processor.ProcessorResponse, okStatus int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	if resp.Data == nil {
		return c.SendStatus(okStatus)
	}
	return c.Status(okStatus).JSON(resp.Data)
}

func validationBypass(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
		Error: "validation bypass detected",
		Code:  core.ErrInternalError,
	})
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"games":   h.svc.GameCount(),
		"storage": h.svc.GetStorageHealth(),
	})
}

// CreateGame starts a game and returns its id and write token
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, ok := validatedBody[core.CreateGameRequest](c)
	if !ok {
		return validationBypass(c)
	}
	return respond(c, h.proc.Execute(processor.NewCreateGameCommand(req)), fiber.StatusCreated)
}

// GetGame returns the game state. With wait=true and the caller's known
// moveCount it holds the request until the game changes or WaitTimeout.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	if c.Query("wait", "false") != "true" {
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	current, err := h.moveCount(gameID)
	if err != nil {
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	}

	if moveCount == current {
		ctx := c.Context()
		notify := h.svc.RegisterWait(ctx, gameID, moveCount)

		// A move may have landed between the first read and registration
		if now, err := h.moveCount(gameID); err == nil && now == moveCount {
			select {
			case <-notify:
			case <-ctx.Done():
				return nil
			}
		}
	}

	return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
}

func (h *HTTPHandler) moveCount(gameID string) (int, error) {
	var n int
	err := h.svc.View(gameID, func(g *game.Game) error {
		n = g.MoveCount()
		return nil
	})
	return n, err
}

func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	return respond(c, h.proc.Execute(processor.NewDeleteGameCommand(c.Params("gameId"))), fiber.StatusNoContent)
}

// MakeMove submits a move by row/col coordinates
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	req, ok := validatedBody[core.MoveRequest](c)
	if !ok {
		return validationBypass(c)
	}
	return respond(c, h.proc.Execute(processor.NewMakeMoveCommand(c.Params("gameId"), req)), fiber.StatusOK)
}

// Play submits a square-to-square intent; castling and promotion are inferred
func (h *HTTPHandler) Play(c *fiber.Ctx) error {
	req, ok := validatedBody[core.PlayRequest](c)
	if !ok {
		return validationBypass(c)
	}
	return respond(c, h.proc.Execute(processor.NewPlayCommand(c.Params("gameId"), req)), fiber.StatusOK)
}

func (h *HTTPHandler) Castle(c *fiber.Ctx) error {
	req, ok := validatedBody[core.CastleRequest](c)
	if !ok {
		return validationBypass(c)
	}
	return respond(c, h.proc.Execute(processor.NewCastleCommand(c.Params("gameId"), req)), fiber.StatusOK)
}

// GetBoard returns the FEN, an ASCII rendering and the cell labels
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	return respond(c, h.proc.Execute(processor.NewGetBoardCommand(c.Params("gameId"))), fiber.StatusOK)
}

// GetTargets lists where the piece on ?square= may move
func (h *HTTPHandler) GetTargets(c *fiber.Ctx) error {
	square := c.Query("square")
	if square == "" {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error: "square query parameter is required",
			Code:  core.ErrInvalidRequest,
		})
	}
	return respond(c, h.proc.Execute(processor.NewGetTargetsCommand(c.Params("gameId"), square)), fiber.StatusOK)
}

// GetMoves returns the executed half-moves in order
func (h *HTTPHandler) GetMoves(c *fiber.Ctx) error {
	return respond(c, h.proc.Execute(processor.NewGetMovesCommand(c.Params("gameId"))), fiber.StatusOK)
}
