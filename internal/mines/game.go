package mines

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

type Status uint8

const (
	Ready Status = iota
	Playing
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{Ready, Playing, Won, Lost} {
		if strings.EqualFold(candidate.String(), string(text)) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown game status %q", text)
}

// Over reports whether s is terminal.
func (s Status) Over() bool {
	return s == Won || s == Lost
}

type Game struct {
	difficulty Difficulty
	status     Status
	grid       *Grid
	exploded   int // index of the mine that ended the game, -1 if none
	flagMode   bool
	rnd        *rand.Rand

	// OnStatusChange is called synchronously after every status transition,
	// including the return to Ready on reset.
	OnStatusChange func(from, to Status)
}

func NewGame(d Difficulty, r *rand.Rand) (*Game, error) {
	if r == nil {
		r = NewRand()
	}
	grid, err := Generate(d, r)
	if err != nil {
		return nil, err
	}
	game := &Game{
		difficulty: d,
		grid:       grid,
		exploded:   -1,
		rnd:        r,
	}
	return game, nil
}

func (g *Game) Difficulty() Difficulty { return g.difficulty }

func (g *Game) Status() Status { return g.status }

func (g *Game) FlagMode() bool { return g.flagMode }

func (g *Game) SetFlagMode(on bool) { g.flagMode = on }

// Grid returns a copy of the current grid, mines included.
func (g *Game) Grid() *Grid { return g.grid.Clone() }

// MinesLeft is the mine count minus the flags placed. It goes negative when
// the player over-flags.
func (g *Game) MinesLeft() int {
	return g.difficulty.Mines - g.grid.FlaggedCount()
}

func (g *Game) setStatus(to Status) {
	from := g.status
	if from == to {
		return
	}
	g.status = to
	if g.OnStatusChange != nil {
		g.OnStatusChange(from, to)
	}
}

func (g *Game) start() {
	if g.status == Ready {
		g.setStatus(Playing)
	}
}

// settle moves the game to its terminal state after a reveal or a chord.
func (g *Game) settle(row, col int, hitMine bool) {
	if hitMine {
		g.exploded = row*g.grid.cols + col
		g.grid.RevealMines()
		g.setStatus(Lost)
		return
	}
	if g.grid.IsWon() {
		g.grid.FlagMines()
		g.setStatus(Won)
	}
}

func (g *Game) Reveal(row, col int) error {
	if g.status.Over() {
		return nil
	}
	hit, err := g.grid.Reveal(row, col)
	if err != nil {
		return err
	}
	g.start()
	g.settle(row, col, hit)
	return nil
}

func (g *Game) ToggleFlag(row, col int) error {
	if g.status.Over() {
		return nil
	}
	if _, err := g.grid.ToggleFlag(row, col); err != nil {
		return err
	}
	g.start()
	return nil
}

func (g *Game) Chord(row, col int) error {
	if g.status.Over() {
		return nil
	}
	hit, err := g.grid.Chord(row, col)
	if err != nil {
		return err
	}
	g.start()
	if hit {
		// the mine is somewhere around row:col, find the one just opened
		for i, c := range g.grid.cells {
			if c.IsMine && c.IsRevealed {
				row, col = i/g.grid.cols, i%g.grid.cols
				break
			}
		}
	}
	g.settle(row, col, hit)
	return nil
}

// Click is the primary action: it flags in flag mode and reveals otherwise.
func (g *Game) Click(row, col int) error {
	if g.flagMode {
		return g.ToggleFlag(row, col)
	}
	return g.Reveal(row, col)
}

// Forfeit ends a running game as a loss and shows every mine.
func (g *Game) Forfeit() {
	if g.status.Over() {
		return
	}
	g.grid.RevealMines()
	g.setStatus(Lost)
}

// Reset discards the grid and deals a new one with the same difficulty.
func (g *Game) Reset() error {
	return g.SetDifficulty(g.difficulty)
}

func (g *Game) SetDifficulty(d Difficulty) error {
	grid, err := Generate(d, g.rnd)
	if err != nil {
		return err
	}
	g.difficulty = d
	g.grid = grid
	g.exploded = -1
	g.flagMode = false
	g.setStatus(Ready)
	return nil
}

// PlayerGrid renders the grid as the player sees it. Mine positions are
// only disclosed once the game is over.
func (g *Game) PlayerGrid() PlayerGrid {
	over := g.status.Over()
	view := make(PlayerGrid, len(g.grid.cells))
	for i, c := range g.grid.cells {
		switch {
		case over && i == g.exploded:
			view[i] = ExplodedMine
		case over && c.IsFlagged && c.IsMine:
			view[i] = CorrectlyFlagged
		case over && c.IsFlagged:
			view[i] = FalselyFlagged
		case c.IsFlagged:
			view[i] = Flagged
		case c.IsRevealed && c.IsMine:
			view[i] = UnflaggedMine
		case c.IsRevealed:
			view[i] = CellState(c.NeighborMines)
		default:
			view[i] = Hidden
		}
	}
	return view
}
