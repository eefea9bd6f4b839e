package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vancomm/minegrid/internal/command"
	"github.com/vancomm/minegrid/internal/config"
	"github.com/vancomm/minegrid/internal/middleware"
	"github.com/vancomm/minegrid/internal/mines"
	"github.com/vancomm/minegrid/internal/repository"
	"github.com/vancomm/minegrid/internal/session"
)

var ErrForeignGame = errors.New("game belongs to another player")

type GameHandler struct {
	logger  *slog.Logger
	games   *session.Registry
	cfg     config.Game
	ws      *config.WebSocket
	results ResultStore
}

// NewGameHandler takes an optional results store. Finished rounds are only
// recorded when it is set.
func NewGameHandler(
	logger *slog.Logger,
	games *session.Registry,
	cfg config.Game,
	ws *config.WebSocket,
	results ResultStore,
) *GameHandler {
	handler := &GameHandler{
		logger:  logger,
		games:   games,
		cfg:     cfg,
		ws:      ws,
		results: results,
	}

	return handler
}

// lookup writes the error response itself and returns nil when the game
// cannot be played by the requester.
func (g GameHandler) lookup(w http.ResponseWriter, r *http.Request) *session.Game {
	id, err := gameID(r)
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return nil
	}
	game, err := g.games.Get(id)
	if err != nil {
		sendError(w, g.logger, http.StatusNotFound, err)
		return nil
	}
	if !game.OwnedBy(middleware.PlayerID(r.Context())) {
		sendError(w, g.logger, http.StatusUnauthorized, ErrForeignGame)
		return nil
	}
	return game
}

// record stores a finished round. Failures are logged, the player keeps
// playing either way.
func (g GameHandler) record(ctx context.Context, s session.Snapshot) {
	params, ok := repository.NewGameResultParams(s)
	if !ok {
		return
	}
	g.logger.Info("round finished",
		slog.String("id", s.ID.String()),
		slog.Int("round", s.Round),
		slog.String("status", s.Status.String()),
		slog.Duration("playtime", s.Playtime()),
	)
	if g.results == nil {
		return
	}
	if _, err := g.results.CreateGameResult(ctx, params); err != nil {
		g.logger.Error("unable to record game result",
			slog.String("id", s.ID.String()),
			slog.Any("error", err),
		)
	}
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	params, err := ParseCreateNewGameDTO(r.URL.Query(), g.cfg.Defaults)
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if err := g.cfg.Check(params); err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}

	game, err := g.games.Create(params, middleware.PlayerID(r.Context()))
	if err != nil {
		internalError(w, g.logger, "unable to create game", slog.Any("error", err))
		return
	}

	sendJSONOrLog(w, g.logger, NewGameDTO(game.Snapshot()))
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	game := g.lookup(w, r)
	if game == nil {
		return
	}
	sendJSONOrLog(w, g.logger, NewGameDTO(game.Snapshot()))
}

func (g GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	cmd, err := ParseMoveDTO(r.URL.Query())
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}

	game := g.lookup(w, r)
	if game == nil {
		return
	}

	move, _, err := cmd.Apply(game)
	if errors.Is(err, mines.ErrInvalidCoordinate) {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		internalError(w, g.logger, "unable to apply move", slog.Any("error", err))
		return
	}

	if move.Finished {
		g.record(r.Context(), *move.Final)
	}

	sendJSONOrLog(w, g.logger, NewMoveResultDTO(game.Snapshot(), move))
}

func (g GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	game := g.lookup(w, r)
	if game == nil {
		return
	}
	if _, err := g.games.Reset(game.ID); err != nil {
		if errors.Is(err, session.ErrGameNotFound) {
			sendError(w, g.logger, http.StatusNotFound, err)
			return
		}
		internalError(w, g.logger, "unable to reset game", slog.Any("error", err))
		return
	}
	sendJSONOrLog(w, g.logger, NewGameDTO(game.Snapshot()))
}

// execute runs every command in text and reports what happened to the
// game as a whole.
func (g GameHandler) execute(ctx context.Context, game *session.Game, text string) *MoveResultDTO {
	var (
		moves []session.Move
		errs  []error
	)
	for cmd, err := range command.Lines(text) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if cmd.Kind == command.Reset {
			if _, err := g.games.Reset(game.ID); err != nil {
				errs = append(errs, err)
			}
			moves = moves[:0]
			continue
		}
		move, _, err := cmd.Apply(game)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		moves = append(moves, move)
		if move.Finished {
			g.record(ctx, *move.Final)
		}
	}

	dto := NewMoveResultDTO(game.Snapshot(), moves...)
	if err := errors.Join(errs...); err != nil {
		dto.Error = err.Error()
	}
	return dto
}
