package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/handlers"
	"github.com/vancomm/minesweeper/internal/middleware"
)

func (a *App) loadRoutes() http.Handler {
	router := mux.NewRouter()

	api := router
	if a.config.BasePath != "" {
		api = router.PathPrefix(a.config.BasePath).Subrouter()
	}

	game := handlers.NewGameHandler(
		a.logger, a.registry, config.NewWebSocket(a.config.CorsOrigins),
	)
	game.Register(api)

	return middleware.Wrap(
		router,
		middleware.Recover(a.logger),
		middleware.Logging(a.logger),
		middleware.Cors(a.config.CorsOrigins),
	)
}
