package app

import (
	"net/http"

	"github.com/vancomm/minegrid/internal/handlers"
)

func (a *App) loadRoutes() {
	router := a.router
	if base := a.basePath(); base != "" {
		router = router.PathPrefix(base).Subrouter()
	}

	// a nil *repository.Queries must not end up inside a non-nil interface
	var results handlers.ResultStore
	if a.repo != nil {
		results = a.repo
	}

	game := handlers.NewGameHandler(a.logger, a.games, a.game, a.ws, results)

	router.HandleFunc("/game", game.NewGame).Methods(http.MethodPost)
	router.HandleFunc("/game/{id}", game.Fetch).Methods(http.MethodGet)
	router.HandleFunc("/game/{id}/move", game.MakeAMove).Methods(http.MethodPost)
	router.HandleFunc("/game/{id}/reset", game.Reset).Methods(http.MethodPost)
	router.HandleFunc("/game/{id}/connect", game.ConnectWS).Methods(http.MethodGet)

	router.HandleFunc("/healthz", handlers.Healthz).Methods(http.MethodGet)

	if results != nil {
		highscores := handlers.NewHighscoresHandler(a.logger, results)
		router.HandleFunc("/highscores", highscores.Highscores).Methods(http.MethodGet)
		if a.cookies != nil {
			router.HandleFunc("/me/results", highscores.PlayerResults).Methods(http.MethodGet)
		}
	}

	if a.repo != nil && a.cookies != nil {
		auth := handlers.NewAuth(a.logger, a.repo, a.cookies)
		router.HandleFunc("/status", auth.Status).Methods(http.MethodGet)
		router.HandleFunc("/register", auth.Register).Methods(http.MethodPost)
		router.HandleFunc("/login", auth.Login).Methods(http.MethodPost)
		router.HandleFunc("/logout", auth.Logout).Methods(http.MethodPost)
	}
}
