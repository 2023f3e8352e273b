package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/vancomm/minesweeper/internal/mines"
)

type Options struct {
	// TTL is how long a session may sit unused before the janitor drops it.
	TTL time.Duration

	// TickInterval is the unit of the game timer.
	TickInterval time.Duration

	// Seed makes every dealt grid reproducible when set.
	Seed *uint64
}

// Registry holds every live session in memory.
type Registry struct {
	logger *slog.Logger
	opts   Options

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	sessions map[string]*Session

	dealt atomic.Uint64
}

func NewRegistry(logger *slog.Logger, opts Options) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		logger:   logger,
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
	}
}

func (r *Registry) newRand() *rand.Rand {
	if r.opts.Seed == nil {
		return mines.NewRand()
	}
	return rand.New(rand.NewPCG(*r.opts.Seed, r.dealt.Add(1)))
}

func (r *Registry) Create(d mines.Difficulty) (*Session, error) {
	game, err := mines.NewGame(d, r.newRand())
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s := New(r.ctx, id, game, r.opts.TickInterval, r.logger)

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.logger.Info("session created",
		slog.String("session", id),
		slog.String("difficulty", d.String()),
	)
	return s, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.Close()
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Evict drops every session unused for longer than the TTL and returns how
// many went away.
func (r *Registry) Evict(now time.Time) int {
	var stale []*Session

	r.mu.Lock()
	for id, s := range r.sessions {
		if now.Sub(s.LastUsed()) > r.opts.TTL {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// Janitor evicts idle sessions every interval until ctx is done.
func (r *Registry) Janitor(ctx context.Context, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if n := r.Evict(now); n > 0 {
				r.logger.Info("evicted idle sessions",
					slog.Int("count", n),
					slog.Int("remaining", r.Len()),
				)
			}
		}
	}
}

// Close ends every session and stops all game timers.
func (r *Registry) Close() {
	r.cancel()

	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
