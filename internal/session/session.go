// Package session serialises access to running games and keeps them in
// memory until they go idle.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/timer"
)

var ErrNotFound = errors.New("session not found")

// Snapshot is a copy of everything a player may see about a game.
type Snapshot struct {
	Id         string
	Difficulty mines.Difficulty
	Status     mines.Status
	Grid       mines.PlayerGrid
	MinesLeft  int
	Elapsed    int
	FlagMode   bool
}

// Session guards one game with a mutex. The game's timer runs while the
// game is being played.
type Session struct {
	id     string
	logger *slog.Logger

	mu     sync.Mutex
	game   *mines.Game
	ticker *timer.Ticker
	ctx    context.Context
	closed bool

	lastUsed atomic.Int64 // unix nanoseconds
}

// New wraps game. The game timer counts in units of tick and stops for
// good once ctx is done.
func New(ctx context.Context, id string, game *mines.Game, tick time.Duration, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Session{
		id:     id,
		logger: logger.With(slog.String("session", id)),
		game:   game,
		ticker: timer.New(tick),
		ctx:    ctx,
	}
	s.touch(time.Now())
	game.OnStatusChange = s.statusChanged
	return s
}

func (s *Session) Id() string { return s.id }

// LastUsed is the time of the last call to Do.
func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Session) touch(t time.Time) {
	s.lastUsed.Store(t.UnixNano())
}

// statusChanged runs with s.mu held.
func (s *Session) statusChanged(from, to mines.Status) {
	switch {
	case to == mines.Playing:
		s.ticker.Start(s.ctx)
	case to == mines.Ready:
		s.ticker.Reset()
	case to.Over():
		s.ticker.Stop()
	}
	s.logger.Debug("game status changed",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
		slog.Int("elapsed", s.ticker.Elapsed()),
	)
}

// Do runs fn with exclusive access to the game and returns the state the
// game is left in, even when fn fails.
func (s *Session) Do(fn func(*mines.Game) error) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Snapshot{}, ErrNotFound
	}
	s.touch(time.Now())
	err := fn(s.game)
	return s.snapshot(), err
}

func (s *Session) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Snapshot{}, ErrNotFound
	}
	return s.snapshot(), nil
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		Id:         s.id,
		Difficulty: s.game.Difficulty(),
		Status:     s.game.Status(),
		Grid:       s.game.PlayerGrid(),
		MinesLeft:  s.game.MinesLeft(),
		Elapsed:    s.ticker.Elapsed(),
		FlagMode:   s.game.FlagMode(),
	}
}

// Close stops the timer. Any later call fails with ErrNotFound.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.ticker.Stop()
}
