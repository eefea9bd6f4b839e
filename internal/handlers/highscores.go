package handlers

import (
	"log/slog"
	"net/http"

	"github.com/vancomm/minegrid/internal/middleware"
	"github.com/vancomm/minegrid/internal/mines"
	"github.com/vancomm/minegrid/internal/repository"
)

type HighscoresHandler struct {
	logger *slog.Logger
	repo   ResultStore
}

func NewHighscoresHandler(logger *slog.Logger, repo ResultStore) *HighscoresHandler {
	return &HighscoresHandler{logger: logger, repo: repo}
}

type HighscoresDTO struct {
	Username *string `schema:"username"`
	Params   *string `schema:"params"`
	Limit    int     `schema:"limit"`
}

func (h HighscoresHandler) Highscores(w http.ResponseWriter, r *http.Request) {
	var dto HighscoresDTO
	if err := decoder.Decode(&dto, r.URL.Query()); err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	filter := repository.HighscoreFilter{
		Username: dto.Username,
		Limit:    dto.Limit,
	}
	if dto.Params != nil {
		params, err := mines.ParseParams(*dto.Params)
		if err != nil {
			sendError(w, h.logger, http.StatusBadRequest, err)
			return
		}
		filter.Params = params
	}

	highscores, err := h.repo.GetHighscores(r.Context(), filter)
	if err != nil {
		internalError(w, h.logger, "failed to fetch highscores",
			slog.Any("error", err), slog.Any("filter", filter))
		return
	}

	sendJSONOrLog(w, h.logger, highscores)
}

// PlayerResults lists the rounds of the logged in player.
func (h HighscoresHandler) PlayerResults(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		sendError(w, h.logger, http.StatusUnauthorized, ErrNotLoggedIn)
		return
	}

	var dto HighscoresDTO
	if err := decoder.Decode(&dto, r.URL.Query()); err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	limit := dto.Limit
	if limit <= 0 {
		limit = repository.DefaultHighscoreLimit
	}

	results, err := h.repo.GetPlayerResults(r.Context(), claims.PlayerId, limit)
	if err != nil {
		internalError(w, h.logger, "failed to fetch player results",
			slog.Any("error", err), slog.Int64("player_id", claims.PlayerId))
		return
	}

	sendJSONOrLog(w, h.logger, results)
}
