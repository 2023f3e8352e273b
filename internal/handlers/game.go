package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

type GameHandler struct {
	logger   *slog.Logger
	registry *session.Registry
	ws       *config.WebSocket
}

func NewGameHandler(
	logger *slog.Logger,
	registry *session.Registry,
	ws *config.WebSocket,
) *GameHandler {
	handler := &GameHandler{
		logger:   logger,
		registry: registry,
		ws:       ws,
	}

	return handler
}

// Register mounts the game routes on r.
func (g *GameHandler) Register(r *mux.Router) {
	r.HandleFunc("/status", Status).Methods(http.MethodGet)
	r.HandleFunc("/difficulties", g.Difficulties).Methods(http.MethodGet)
	r.HandleFunc("/game", g.NewGame).Methods(http.MethodPost)
	r.HandleFunc("/game/{id}", g.Fetch).Methods(http.MethodGet)
	r.HandleFunc("/game/{id}", g.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/game/{id}/move", g.MakeAMove).Methods(http.MethodPost)
	r.HandleFunc("/game/{id}/reset", g.Reset).Methods(http.MethodPost)
	r.HandleFunc("/game/{id}/flagmode", g.SetFlagMode).Methods(http.MethodPost)
	r.HandleFunc("/game/{id}/forfeit", g.Forfeit).Methods(http.MethodPost)
	r.HandleFunc("/game/{id}/connect", g.ConnectWS).Methods(http.MethodGet)
}

// statusOf maps an error to the response status. Anything unexpected is a 500.
func statusOf(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, mines.ErrOutOfBounds),
		errors.Is(err, mines.ErrUnknownDifficulty),
		errors.Is(err, mines.ErrInvalidConfiguration),
		errors.Is(err, session.ErrUnknownCommand),
		errors.Is(err, session.ErrBadArguments),
		errors.Is(err, ErrBadMove):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (g GameHandler) sendError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		g.logger.Error("unable to handle request",
			slog.String("uri", r.URL.RequestURI()),
			slog.Any("error", err),
		)
		w.WriteHeader(status)
		return
	}
	sendStatusJSONOrLog(w, g.logger, status, wrapError(err))
}

func (g GameHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := g.registry.Get(mux.Vars(r)["id"])
	if err != nil {
		g.sendError(w, r, err)
		return nil, false
	}
	return s, true
}

// do runs fn on the session named in the path and answers with its state.
func (g GameHandler) do(w http.ResponseWriter, r *http.Request, fn func(*mines.Game) error) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}
	snap, err := s.Do(fn)
	if err != nil {
		g.sendError(w, r, err)
		return
	}
	sendJSONOrLog(w, g.logger, NewGameSessionDTO(snap))
}

func (g GameHandler) Difficulties(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, g.logger, mines.Difficulties())
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	d, err := ParseNewGameDTO(r.URL.Query())
	if err != nil {
		sendStatusJSONOrLog(w, g.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	s, err := g.registry.Create(d)
	if err != nil {
		g.sendError(w, r, err)
		return
	}

	snap, err := s.Snapshot()
	if err != nil {
		g.sendError(w, r, err)
		return
	}
	sendStatusJSONOrLog(w, g.logger, http.StatusCreated, NewGameSessionDTO(snap))
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}
	snap, err := s.Snapshot()
	if err != nil {
		g.sendError(w, r, err)
		return
	}
	sendJSONOrLog(w, g.logger, NewGameSessionDTO(snap))
}

func (g GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	move, err := ParseGameMove(query.Get("move"))
	if err != nil {
		sendStatusJSONOrLog(w, g.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	pos, err := ParsePosition(query)
	if err != nil {
		sendStatusJSONOrLog(w, g.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	g.do(w, r, func(game *mines.Game) error {
		switch move {
		case Open:
			return game.Reveal(pos.Row, pos.Col)
		case Flag:
			return game.ToggleFlag(pos.Row, pos.Col)
		case Chord:
			return game.Chord(pos.Row, pos.Col)
		default:
			return game.Click(pos.Row, pos.Col)
		}
	})
}

// Reset deals a new grid, with another difficulty when one is given.
func (g GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("difficulty") == "" {
		g.do(w, r, (*mines.Game).Reset)
		return
	}

	d, err := ParseNewGameDTO(query)
	if err != nil {
		g.sendError(w, r, err)
		return
	}
	g.do(w, r, func(game *mines.Game) error {
		return game.SetDifficulty(d)
	})
}

func (g GameHandler) SetFlagMode(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseFlagModeDTO(r.URL.Query())
	if err != nil {
		sendStatusJSONOrLog(w, g.logger, http.StatusBadRequest, wrapError(err))
		return
	}
	g.do(w, r, func(game *mines.Game) error {
		game.SetFlagMode(dto.On)
		return nil
	})
}

func (g GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	g.do(w, r, func(game *mines.Game) error {
		game.Forfeit()
		return nil
	})
}

func (g GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := g.registry.Delete(mux.Vars(r)["id"]); err != nil {
		g.sendError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
