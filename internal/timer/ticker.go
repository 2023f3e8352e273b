// Package timer counts the seconds a game has been running.
package timer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Ticker counts elapsed intervals on its own goroutine. The zero value is not
// usable, create one with New.
type Ticker struct {
	interval time.Duration
	elapsed  atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// OnTick is called from the ticker goroutine with the new count. It must
	// not call Stop or Reset on the same ticker.
	OnTick func(elapsed int)
}

func New(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{interval: interval}
}

// Start launches the counting goroutine. It does nothing while the ticker is
// already running. Cancelling ctx stops the ticker like Stop does.
func (t *Ticker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running() {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel, t.done = cancel, done

	go t.run(ctx, done)
}

func (t *Ticker) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := t.elapsed.Add(1)
			if t.OnTick != nil {
				t.OnTick(int(n))
			}
		}
	}
}

// Stop cancels the goroutine and waits for it to exit. The count is kept.
func (t *Ticker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Reset stops the ticker and zeroes the count.
func (t *Ticker) Reset() {
	t.Stop()
	t.elapsed.Store(0)
}

func (t *Ticker) Elapsed() int {
	return int(t.elapsed.Load())
}

func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running()
}

func (t *Ticker) running() bool {
	if t.done == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}
