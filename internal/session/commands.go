package session

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper/internal/mines"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArguments   = errors.New("bad arguments")
)

type nargs struct{ min, max int }

// Maps known commands to the number of arguments they take
var commandNargs = map[string]nargs{
	"g": {0, 0}, // get
	"o": {2, 2}, // open
	"f": {2, 2}, // flag
	"c": {2, 2}, // chord
	"n": {0, 1}, // new game, optionally with another difficulty
	"m": {0, 1}, // flag mode: on, off or toggle
	"r": {0, 0}, // give up and reveal mines
}

func parseRowCol(twoStrings []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(twoStrings[0]); err != nil {
		return 0, 0, fmt.Errorf("%w: row must be an int", ErrBadArguments)
	}
	if col, err = strconv.Atoi(twoStrings[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: col must be an int", ErrBadArguments)
	}
	return
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: expected on or off, got %q", ErrBadArguments, s)
}

// Execute runs one text command against g. A bare "R C" is a click.
func Execute(g *mines.Game, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}

	if len(parts) == 2 {
		if row, col, err := parseRowCol(parts); err == nil {
			return g.Click(row, col)
		}
	}

	n, ok := commandNargs[parts[0]]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownCommand, parts[0])
	}
	args := parts[1:]
	if len(args) < n.min || len(args) > n.max {
		return fmt.Errorf("%w: %q takes %d to %d arguments", ErrBadArguments, parts[0], n.min, n.max)
	}

	switch parts[0] {
	case "g":
		return nil
	case "o", "f", "c":
		row, col, err := parseRowCol(args)
		if err != nil {
			return err
		}
		switch parts[0] {
		case "o":
			return g.Reveal(row, col)
		case "f":
			return g.ToggleFlag(row, col)
		default:
			return g.Chord(row, col)
		}
	case "n":
		if len(args) == 0 {
			return g.Reset()
		}
		d, err := mines.ParseDifficulty(args[0])
		if err != nil {
			return err
		}
		return g.SetDifficulty(d)
	case "m":
		if len(args) == 0 {
			g.SetFlagMode(!g.FlagMode())
			return nil
		}
		on, err := parseSwitch(args[0])
		if err != nil {
			return err
		}
		g.SetFlagMode(on)
		return nil
	case "r":
		g.Forfeit()
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownCommand, parts[0])
}

// Lines splits a message into its non-blank command lines.
func Lines(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, "\n")
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			if !yield(piece) {
				return
			}
		}
	}
}
