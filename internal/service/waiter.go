package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// WaitTimeout is the longest a client is held before it is released unchanged
const WaitTimeout = 25 * time.Second

// WaitRegistry tracks long-polling clients waiting for a game's move count
// to change
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string][]*waitRequest // gameID → waiting clients
	timeout  time.Duration
	shutdown chan struct{}
	closed   bool
	wg       sync.WaitGroup
}

type waitRequest struct {
	moveCount int
	done      chan struct{} // closed exactly once on release
	once      sync.Once
	timer     *time.Timer
}

func (r *waitRequest) release() {
	r.once.Do(func() { close(r.done) })
}

func NewWaitRegistry(timeout time.Duration) *WaitRegistry {
	if timeout <= 0 {
		timeout = WaitTimeout
	}
	return &WaitRegistry{
		waiters:  make(map[string][]*waitRequest),
		timeout:  timeout,
		shutdown: make(chan struct{}),
	}
}

// RegisterWait returns a channel that is closed when the game's move count
// differs from moveCount, the game goes away, the wait times out, ctx is
// cancelled or the registry shuts down
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	req := &waitRequest{
		moveCount: moveCount,
		done:      make(chan struct{}),
	}
	req.timer = time.AfterFunc(w.timeout, req.release)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		req.timer.Stop()
		req.release()
		return req.done
	}
	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
		case <-req.done:
		case <-w.shutdown:
		}
		req.timer.Stop()
		req.release()
		w.removeWaiter(gameID, req)
	}()

	return req.done
}

// NotifyGame releases waiters whose known move count is stale
func (w *WaitRegistry) NotifyGame(gameID string, moveCount int) {
	w.mu.Lock()
	waitList := append([]*waitRequest(nil), w.waiters[gameID]...)
	w.mu.Unlock()

	for _, req := range waitList {
		if req.moveCount != moveCount {
			req.release()
		}
	}
}

// RemoveGame releases every waiter of a deleted game
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		req.release()
	}
}

// waiting returns the number of clients currently parked on a game
func (w *WaitRegistry) waiting(gameID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waiters[gameID])
}

// Shutdown releases all waiters and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.shutdown)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}

func (w *WaitRegistry) removeWaiter(gameID string, req *waitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}
	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}
}
