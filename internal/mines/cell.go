package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type Cell struct {
	Row, Col      int
	IsMine        bool
	IsRevealed    bool
	IsFlagged     bool
	NeighborMines int
}

type CellState int8

const (
	Hidden           CellState = -2
	Flagged          CellState = -1
	CorrectlyFlagged CellState = 64
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
	/*
	 * Each item in a PlayerGrid is one of the following values:
	 *
	 *  - 0 to 8 mean the cell is open and has a surrounding mine
	 *    count.
	 *
	 *  - -1 means the cell is flagged.
	 *
	 *  - -2 means the cell is hidden.
	 *
	 *  - 64 means a flagged mine once the game is over.
	 *
	 *  - 65 means the mine the player stepped on.
	 *
	 *  - 66 means a flag the player placed on a safe cell, shown
	 *    once the game is over.
	 *
	 *  - 67 means a mine nobody flagged, revealed after a loss.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Hidden:
		return "-"
	case s == Flagged, s == CorrectlyFlagged:
		return "F"
	case s == 0:
		return "."
	case 1 <= s && s <= 8:
		return strconv.Itoa(int(s))
	case s == ExplodedMine:
		return "X"
	case s == FalselyFlagged:
		return "x"
	case s == UnflaggedMine:
		return "*"
	default:
		return "!"
	}
}

// PlayerGrid is what the player is allowed to see, row-major.
type PlayerGrid []CellState

func (g PlayerGrid) ToString(cols int) string {
	var b strings.Builder
	for row := range len(g) / cols {
		for col := range cols {
			i := row*cols + col
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
