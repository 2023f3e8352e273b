package mines

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// Generate builds a fresh grid for d with mines dropped uniformly at random.
// A nil r falls back to a randomly seeded source.
func Generate(d Difficulty, r *rand.Rand) (*Grid, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = NewRand()
	}

	rows, cols, mineCount := d.Unpack()
	grid := newGrid(rows, cols)

	/*
	 * Sample coordinates until enough distinct cells are mined.
	 * Collisions are simply retried.
	 */
	attempts := 0
	for grid.mines < mineCount {
		attempts++
		i := r.IntN(rows)*cols + r.IntN(cols)
		if grid.cells[i].IsMine {
			continue
		}
		grid.cells[i].IsMine = true
		grid.mines++
	}

	for i := range grid.cells {
		if grid.cells[i].IsMine {
			continue
		}
		n := 0
		for j := range grid.neighbors(i) {
			if grid.cells[j].IsMine {
				n++
			}
		}
		grid.cells[i].NeighborMines = n
	}

	Log.WithFields(logrus.Fields{
		"difficulty": d.Name,
		"rows":       rows,
		"cols":       cols,
		"mines":      mineCount,
		"attempts":   attempts,
	}).Debug("generated grid")

	return grid, nil
}
