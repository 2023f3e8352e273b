package mines

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/gammazero/deque"
)

// Grid is the whole state of a board. Every operation mutates it in place.
type Grid struct {
	rows, cols int
	mines      int
	cells      []Cell
}

func newGrid(rows, cols int) *Grid {
	g := &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
	for i := range g.cells {
		g.cells[i] = Cell{Row: i / cols, Col: i % cols}
	}
	return g
}

func (g *Grid) Rows() int { return g.rows }

func (g *Grid) Cols() int { return g.cols }

func (g *Grid) MineCount() int { return g.mines }

func (g *Grid) InBounds(row, col int) bool {
	return 0 <= row && row < g.rows && 0 <= col && col < g.cols
}

func (g *Grid) index(row, col int) (int, error) {
	if !g.InBounds(row, col) {
		return -1, fmt.Errorf(
			"%w: (%d, %d) on a %dx%d grid", ErrOutOfBounds, row, col, g.rows, g.cols,
		)
	}
	return row*g.cols + col, nil
}

func (g *Grid) Cell(row, col int) (Cell, error) {
	i, err := g.index(row, col)
	if err != nil {
		return Cell{}, err
	}
	return g.cells[i], nil
}

// Cells yields copies of all cells in row-major order.
func (g *Grid) Cells() iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		for _, c := range g.cells {
			if !yield(c) {
				return
			}
		}
	}
}

// neighbors yields indices of the up to 8 cells around i, clipped at the edges.
func (g *Grid) neighbors(i int) iter.Seq[int] {
	return func(yield func(int) bool) {
		row, col := i/g.cols, i%g.cols
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				r, c := row+dr, col+dc
				if !g.InBounds(r, c) {
					continue
				}
				if !yield(r*g.cols + c) {
					return
				}
			}
		}
	}
}

func (g *Grid) FlaggedCount() (count int) {
	for _, c := range g.cells {
		if c.IsFlagged {
			count++
		}
	}
	return
}

func (g *Grid) RevealedCount() (count int) {
	for _, c := range g.cells {
		if c.IsRevealed {
			count++
		}
	}
	return
}

func (g *Grid) Clone() *Grid {
	clone := *g
	clone.cells = make([]Cell, len(g.cells))
	copy(clone.cells, g.cells)
	return &clone
}

// Reveal opens the cell at row:col. A safe cell without mined neighbours
// opens its whole connected zero region. Revealed and flagged cells are
// left alone.
func (g *Grid) Reveal(row, col int) (hitMine bool, err error) {
	i, err := g.index(row, col)
	if err != nil {
		return false, err
	}

	target := &g.cells[i]
	if target.IsRevealed || target.IsFlagged {
		return false, nil
	}

	target.IsRevealed = true
	if target.IsMine {
		return true, nil
	}

	/*
	 * Cells are marked revealed as they are queued, so every cell
	 * enters the frontier at most once. Only zero cells expand, and
	 * a zero cell never borders a mine.
	 */
	var frontier deque.Deque[int]
	frontier.PushBack(i)
	opened := 1
	for frontier.Len() > 0 {
		j := frontier.PopFront()
		if g.cells[j].NeighborMines != 0 {
			continue
		}
		for k := range g.neighbors(j) {
			n := &g.cells[k]
			if n.IsRevealed || n.IsFlagged {
				continue
			}
			n.IsRevealed = true
			opened++
			frontier.PushBack(k)
		}
	}

	if opened > 1 {
		Log.WithField("origin", strconv.Itoa(row)+":"+strconv.Itoa(col)).
			Debugf("cascade opened %d cells", opened)
	}

	return false, nil
}

// RevealMines opens every mine once the game is lost. Flags stay where the
// player put them: a flagged mine ends up both flagged and revealed.
func (g *Grid) RevealMines() {
	for i := range g.cells {
		if g.cells[i].IsMine {
			g.cells[i].IsRevealed = true
		}
	}
}

// FlagMines flags every hidden mine, used to finish a won board.
func (g *Grid) FlagMines() {
	for i := range g.cells {
		if g.cells[i].IsMine && !g.cells[i].IsRevealed {
			g.cells[i].IsFlagged = true
		}
	}
}

func (g *Grid) ToggleFlag(row, col int) (changed bool, err error) {
	i, err := g.index(row, col)
	if err != nil {
		return false, err
	}
	if g.cells[i].IsRevealed {
		return false, nil
	}
	g.cells[i].IsFlagged = !g.cells[i].IsFlagged
	return true, nil
}

// Chord opens all hidden unflagged neighbours of a revealed number once the
// player has placed as many flags around it as the number says. It stops at
// the first mine.
func (g *Grid) Chord(row, col int) (hitMine bool, err error) {
	i, err := g.index(row, col)
	if err != nil {
		return false, err
	}

	c := g.cells[i]
	if !c.IsRevealed || c.IsMine || c.NeighborMines == 0 {
		return false, nil
	}

	flags := 0
	hidden := make([]int, 0, 8-c.NeighborMines)
	for j := range g.neighbors(i) {
		switch n := g.cells[j]; {
		case n.IsFlagged:
			flags++
		case !n.IsRevealed:
			hidden = append(hidden, j)
		}
	}
	if flags != c.NeighborMines {
		return false, nil
	}

	for _, j := range hidden {
		hit, err := g.Reveal(j/g.cols, j%g.cols)
		if err != nil {
			return false, err
		}
		if hit {
			return true, nil
		}
	}
	return false, nil
}

// IsWon reports whether every safe cell has been revealed.
func (g *Grid) IsWon() bool {
	for _, c := range g.cells {
		if !c.IsMine && !c.IsRevealed {
			return false
		}
	}
	return true
}

// String dumps the real layout: mines as '*', safe cells as their count.
func (g *Grid) String() string {
	var b strings.Builder
	for row := range g.rows {
		for col := range g.cols {
			c := g.cells[row*g.cols+col]
			if c.IsMine {
				fmt.Fprint(&b, "* ")
			} else {
				fmt.Fprint(&b, strconv.Itoa(c.NeighborMines)+" ")
			}
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
