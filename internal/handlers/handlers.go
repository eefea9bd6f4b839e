package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"

	"github.com/vancomm/minegrid/internal/repository"
)

// PlayerStore is implemented by [repository.Queries].
type PlayerStore interface {
	CreatePlayer(ctx context.Context, params repository.CreatePlayerParams) (*repository.Player, error)
	FetchPlayer(ctx context.Context, username string) (*repository.Player, error)
}

// ResultStore is implemented by [repository.Queries].
type ResultStore interface {
	CreateGameResult(ctx context.Context, params repository.CreateGameResultParams) (*repository.GameResult, error)
	GetHighscores(ctx context.Context, filter repository.HighscoreFilter) ([]repository.Highscore, error)
	GetPlayerResults(ctx context.Context, playerId int64, limit int) ([]repository.GameResult, error)
}

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

func gameID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}

func SendJSON(w http.ResponseWriter, status int, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(payload)
	return err
}

func sendJSONOrLog(w http.ResponseWriter, logger *slog.Logger, v any) {
	if err := SendJSON(w, http.StatusOK, v); err != nil {
		logger.Error(
			"unable to send response",
			slog.Any("response", v),
			slog.Any("error", err),
		)
	}
}

func sendError(w http.ResponseWriter, logger *slog.Logger, status int, e error) {
	if err := SendJSON(w, status, wrapError(e)); err != nil {
		logger.Error(
			"failed to send error message",
			slog.Any("sent error", e),
			slog.Any("error", err),
		)
	}
}

func internalError(w http.ResponseWriter, logger *slog.Logger, msg string, args ...any) {
	w.WriteHeader(http.StatusInternalServerError)
	logger.Error(msg, args...)
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
