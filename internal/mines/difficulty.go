package mines

import (
	"fmt"
	"strings"
)

type Difficulty struct {
	Name  string `json:"name"`
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	Mines int    `json:"mines"`
}

var (
	Easy   = Difficulty{Name: "easy", Rows: 9, Cols: 9, Mines: 10}
	Medium = Difficulty{Name: "medium", Rows: 16, Cols: 16, Mines: 40}
	Hard   = Difficulty{Name: "hard", Rows: 16, Cols: 30, Mines: 99}
)

// Difficulties lists the presets from the easiest to the hardest.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

func ParseDifficulty(name string) (Difficulty, error) {
	for _, d := range Difficulties() {
		if strings.EqualFold(d.Name, strings.TrimSpace(name)) {
			return d, nil
		}
	}
	return Difficulty{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
}

func (d Difficulty) Unpack() (rows int, cols int, mines int) {
	return d.Rows, d.Cols, d.Mines
}

func (d Difficulty) Validate() error {
	if d.Rows <= 0 || d.Cols <= 0 || d.Mines < 0 || d.Mines >= d.Rows*d.Cols {
		return InvalidConfigurationError{Rows: d.Rows, Cols: d.Cols, Mines: d.Mines}
	}
	return nil
}

func (d Difficulty) String() string {
	return fmt.Sprintf("%s %dx%d(%d)", d.Name, d.Rows, d.Cols, d.Mines)
}
