package handlers

import (
	"github.com/gorilla/schema"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type NewGameDTO struct {
	Difficulty string `schema:"difficulty"`
}

// ParseNewGameDTO falls back to the easiest difficulty when none is given.
func ParseNewGameDTO(src map[string][]string) (mines.Difficulty, error) {
	var dto NewGameDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.Difficulty{}, err
	}
	if dto.Difficulty == "" {
		return mines.Easy, nil
	}
	return mines.ParseDifficulty(dto.Difficulty)
}

type Position struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func ParsePosition(src map[string][]string) (Position, error) {
	var pos Position
	err := decoder.Decode(&pos, src)
	return pos, err
}

type FlagModeDTO struct {
	On bool `schema:"on,required"`
}

func ParseFlagModeDTO(src map[string][]string) (FlagModeDTO, error) {
	var dto FlagModeDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type GameSessionDTO struct {
	GameSessionId string           `json:"game_session_id"`
	Difficulty    string           `json:"difficulty"`
	Rows          int              `json:"rows"`
	Cols          int              `json:"cols"`
	Mines         int              `json:"mines"`
	Status        mines.Status     `json:"status"`
	Grid          mines.PlayerGrid `json:"grid"`
	MinesLeft     int              `json:"mines_left"`
	Elapsed       int              `json:"elapsed"`
	FlagMode      bool             `json:"flag_mode"`
	Dead          bool             `json:"dead"`
	Won           bool             `json:"won"`
}

func NewGameSessionDTO(s session.Snapshot) *GameSessionDTO {
	dto := &GameSessionDTO{
		GameSessionId: s.Id,
		Difficulty:    s.Difficulty.Name,
		Rows:          s.Difficulty.Rows,
		Cols:          s.Difficulty.Cols,
		Mines:         s.Difficulty.Mines,
		Status:        s.Status,
		Grid:          s.Grid,
		MinesLeft:     s.MinesLeft,
		Elapsed:       s.Elapsed,
		FlagMode:      s.FlagMode,
		Dead:          s.Status == mines.Lost,
		Won:           s.Status == mines.Won,
	}
	return dto
}
