package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

type wsReply struct {
	*GameSessionDTO
	Error string `json:"error,omitempty"`
}

// ConnectWS plays the game over a WebSocket. Every text message holds one or
// more newline separated commands and is answered with the game state.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}

	defer c.Close()

	logger := g.logger.With(slog.String("session", s.Id()))

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("abnormal ws break", slog.Any("error", err))
			}
			break
		}
		if mt != websocket.TextMessage {
			c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(
				websocket.CloseUnsupportedData, "text messages only",
			))
			break
		}
		text := strings.TrimSpace(string(message))
		logger.Debug(fmt.Sprintf("\t> %s", text))

		var (
			snap   session.Snapshot
			cmdErr error
		)
		for line := range session.Lines(text) {
			snap, cmdErr = s.Do(func(game *mines.Game) error {
				return session.Execute(game, line)
			})
			if cmdErr != nil {
				break
			}
		}
		if cmdErr == nil && snap.Id == "" {
			// nothing but blank lines
			snap, cmdErr = s.Snapshot()
		}

		if errors.Is(cmdErr, session.ErrNotFound) {
			c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(
				websocket.CloseNormalClosure, "game session is gone",
			))
			break
		}

		reply := wsReply{GameSessionDTO: NewGameSessionDTO(snap)}
		if cmdErr != nil {
			if statusOf(cmdErr) == http.StatusInternalServerError {
				logger.Error("unable to process command", slog.Any("error", cmdErr))
			}
			reply.Error = cmdErr.Error()
		}

		if err := c.WriteJSON(reply); err != nil {
			logger.Error("unable to write json", slog.Any("error", err))
			break
		}
		logger.Debug("\t< <session data>")
	}
}
