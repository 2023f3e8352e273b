package mines

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrOutOfBounds          = errors.New("coordinates out of bounds")
	ErrUnknownDifficulty    = errors.New("unknown difficulty")
)

type InvalidConfigurationError struct {
	Rows, Cols, Mines int
}

// [InvalidConfigurationError] implements [error]
func (e InvalidConfigurationError) Error() string {
	switch {
	case e.Rows <= 0:
		return fmt.Sprintf("cannot create a grid with %d rows", e.Rows)
	case e.Cols <= 0:
		return fmt.Sprintf("cannot create a grid with %d columns", e.Cols)
	case e.Mines < 0:
		return fmt.Sprintf("cannot place a negative amount of mines: %d", e.Mines)
	default:
		return fmt.Sprintf(
			"not enough space for %d mines (%d >= %d * %d)",
			e.Mines, e.Mines, e.Rows, e.Cols,
		)
	}
}

func (e InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}
