package handlers

import (
	"fmt"
	"strings"
)

type GameMove uint8

const (
	Open GameMove = iota + 1
	Flag
	Chord
	Click
	LAST_MOVE
)

func (m GameMove) String() string {
	switch m {
	case Open:
		return "Open"
	case Flag:
		return "Flag"
	case Chord:
		return "Chord"
	case Click:
		return "Click"
	default:
		return fmt.Sprintf("GameMove(%d)", uint8(m))
	}
}

var ErrBadMove error

func init() {
	var allowedMoves []string
	for i := 1; i < int(LAST_MOVE); i++ {
		allowedMoves = append(allowedMoves, "'"+GameMove(i).String()+"'")
	}
	ErrBadMove = fmt.Errorf(
		"move must be one of %s",
		strings.ToLower(strings.Join(allowedMoves, ", ")),
	)
}

func ParseGameMove(s string) (GameMove, error) {
	for i := 1; i < int(LAST_MOVE); i++ {
		if strings.EqualFold(GameMove(i).String(), s) {
			return GameMove(i), nil
		}
	}
	return 0, ErrBadMove
}
