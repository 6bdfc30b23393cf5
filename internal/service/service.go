package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"chesscore/internal/board"
	"chesscore/internal/core"
	"chesscore/internal/game"
	"chesscore/internal/storage"

	"github.com/google/uuid"
)

const (
	MaxGames           = 1000
	GameTTL            = 24 * time.Hour
	CleanupJobInterval = 10 * time.Minute
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrTooManyGames = errors.New("too many active games")
)

type entry struct {
	game       *game.Game
	lastActive time.Time
}

// Service owns the active games. Every mutation runs under the service lock
// so validation and execution of a half-move see the same position.
type Service struct {
	games  map[string]*entry
	mu     sync.RWMutex
	store  *storage.Store // nil if persistence disabled
	secret []byte
	waiter *WaitRegistry
}

// New creates a service with optional storage. The secret signs game tokens.
func New(store *storage.Store, secret []byte) *Service {
	return &Service{
		games:  make(map[string]*entry),
		store:  store,
		secret: secret,
		waiter: NewWaitRegistry(WaitTimeout),
	}
}

// CreateGame starts a game from fen (opening layout when empty) and returns
// its id with a token that authorizes moves in it
func (s *Service) CreateGame(fen string) (string, string, error) {
	g, err := game.New(fen)
	if err != nil {
		return "", "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.games) >= MaxGames {
		return "", "", ErrTooManyGames
	}

	id := s.generateGameID()
	token, err := s.issueGameToken(id)
	if err != nil {
		return "", "", fmt.Errorf("failed to issue game token: %w", err)
	}

	now := time.Now().UTC()
	s.games[id] = &entry{game: g, lastActive: now}

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:       id,
			InitialFEN:   g.InitialFEN(),
			StartTimeUTC: now,
		})
	}

	return id, token, nil
}

// generateGameID returns an unused id. Caller holds the lock.
func (s *Service) generateGameID() string {
	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// View runs fn with read access to a game. fn must not retain g.
func (s *Service) View(gameID string, fn func(g *game.Game) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return fn(e.game)
}

// DeleteGame removes a game and releases its long-poll waiters
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	_, ok := s.games[gameID]
	delete(s.games, gameID)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	s.waiter.RemoveGame(gameID)
	return nil
}

// GameCount returns the number of active games
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// RegisterWait parks a client until the game moves past moveCount
func (s *Service) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	return s.waiter.RegisterWait(ctx, gameID, moveCount)
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Shutdown releases waiters, drops all games and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*entry)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}

// RunCleanupJob evicts idle games every interval until ctx is done
func (s *Service) RunCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.evictIdle(time.Now().UTC().Add(-GameTTL)); n > 0 {
				log.Printf("cleanup: evicted %d idle games", n)
			}
		}
	}
}

// evictIdle removes games untouched since cutoff
func (s *Service) evictIdle(cutoff time.Time) int {
	s.mu.Lock()
	var evicted []string
	for id, e := range s.games {
		if e.lastActive.Before(cutoff) {
			delete(s.games, id)
			evicted = append(evicted, id)
		}
	}
	s.mu.Unlock()

	for _, id := range evicted {
		s.waiter.RemoveGame(id)
	}
	return len(evicted)
}

// mutate applies fn to a game under the write lock, then records the move
// and wakes waiters
func (s *Service) mutate(gameID string, fn func(g *game.Game) error) (board.MoveEvent, error) {
	s.mu.Lock()
	e, ok := s.games[gameID]
	if !ok {
		s.mu.Unlock()
		return board.MoveEvent{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if err := fn(e.game); err != nil {
		s.mu.Unlock()
		return board.MoveEvent{}, err
	}

	e.lastActive = time.Now().UTC()
	ev := *e.game.LastMove()
	count := e.game.MoveCount()
	if s.store != nil {
		s.store.RecordMove(moveRecord(gameID, count, e.game.CurrentFEN(), ev, e.lastActive))
	}
	s.mu.Unlock()

	s.waiter.NotifyGame(gameID, count)
	return ev, nil
}

func moveRecord(gameID string, number int, fen string, ev board.MoveEvent, at time.Time) storage.MoveRecord {
	var promotion string
	if ev.Promotion != 0 {
		promotion = string(ev.Promotion.Char())
	}
	return storage.MoveRecord{
		GameID:       gameID,
		MoveNumber:   number,
		Kind:         ev.Kind,
		FromSquare:   ev.From.String(),
		ToSquare:     ev.To.String(),
		Promotion:    promotion,
		PlayerColor:  ev.Color.String(),
		FENAfterMove: fen,
		MoveTimeUTC:  at,
	}
}

// Play executes a click-style move: castling and promotion are inferred
func (s *Service) Play(gameID string, from, to core.Square, promotion core.PieceKind) (board.MoveEvent, error) {
	return s.mutate(gameID, func(g *game.Game) error {
		_, err := g.Play(from, to, promotion)
		return err
	})
}

// Move executes a plain move, or a promotion when promotion is set
func (s *Service) Move(gameID string, from, to core.Square, promotion core.PieceKind) (board.MoveEvent, error) {
	return s.mutate(gameID, func(g *game.Game) error {
		if promotion != 0 {
			return g.Promote(from, to, promotion)
		}
		return g.Move(from, to)
	})
}

func (s *Service) Castle(gameID string, side board.CastleSide) (board.MoveEvent, error) {
	return s.mutate(gameID, func(g *game.Game) error {
		return g.Castle(side)
	})
}

// Targets lists plain destinations of the piece on sq, plus the castling
// sides available when sq holds the King of the side to move
func (s *Service) Targets(gameID string, sq core.Square) ([]core.Square, []board.CastleSide, error) {
	var (
		targets []core.Square
		sides   []board.CastleSide
	)
	err := s.View(gameID, func(g *game.Game) error {
		targets = g.Targets(sq)
		if p, ok := g.Board().At(sq); ok && p.Kind == core.King && p.Color == g.Turn() {
			sides = g.CastleSides()
		}
		return nil
	})
	return targets, sides, err
}
