package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/minegrid/internal/config"
	"github.com/vancomm/minegrid/internal/middleware"
	"github.com/vancomm/minegrid/internal/repository"
)

type Auth struct {
	logger  *slog.Logger
	repo    PlayerStore
	cookies *config.Cookies
}

func NewAuth(
	logger *slog.Logger,
	repo PlayerStore,
	cookies *config.Cookies,
) *Auth {
	auth := &Auth{
		logger:  logger,
		repo:    repo,
		cookies: cookies,
	}

	return auth
}

type PlayerInfo struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
}

type Status struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}

var (
	ErrBadAuthBody        = fmt.Errorf("request body must contain url-encoded username and password")
	ErrBadPasswordTooLong = fmt.Errorf("password too long")
	ErrUsernameTaken      = fmt.Errorf("username taken")
	ErrInvalidCredentials = fmt.Errorf("invalid username or password")
	ErrNotLoggedIn        = fmt.Errorf("not logged in")
)

// bcrypt ignores input past 72 bytes
const maxPasswordBytes = 72

// Status reports the current player and extends the session of a logged in
// one.
func (a Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		a.cookies.Clear(w)
		sendJSONOrLog(w, a.logger, &Status{LoggedIn: false})
		return
	}

	if err := a.cookies.Refresh(w, claims); err != nil {
		internalError(w, a.logger, "unable to refresh cookies", slog.Any("error", err))
		return
	}
	sendJSONOrLog(w, a.logger, &Status{
		LoggedIn: true,
		Player:   &PlayerInfo{claims.PlayerId, claims.Username},
	})
}

func credentials(r *http.Request) (username, password string, err error) {
	if err := r.ParseForm(); err != nil {
		return "", "", err
	}
	username = r.FormValue("username")
	password = r.FormValue("password")
	if username == "" || password == "" {
		return "", "", ErrBadAuthBody
	}
	if len(password) > maxPasswordBytes {
		return "", "", ErrBadPasswordTooLong
	}
	return username, password, nil
}

func (a Auth) Register(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		sendError(w, a.logger, http.StatusBadRequest, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		internalError(w, a.logger, "unable to hash password", slog.Any("error", err))
		return
	}

	player, err := a.repo.CreatePlayer(r.Context(), repository.CreatePlayerParams{
		Username:     username,
		PasswordHash: hash,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		sendError(w, a.logger, http.StatusConflict, ErrUsernameTaken)
		return
	}
	if err != nil {
		internalError(w, a.logger, "unable to insert player", slog.Any("error", err))
		return
	}

	a.logger.Info("player registered", slog.Int64("player_id", player.PlayerId))
	a.login(w, player)
}

func (a Auth) Login(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		sendError(w, a.logger, http.StatusBadRequest, err)
		return
	}

	player, err := a.repo.FetchPlayer(r.Context(), username)
	if errors.Is(err, pgx.ErrNoRows) {
		sendError(w, a.logger, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if err != nil {
		internalError(w, a.logger, "unable to fetch player", slog.Any("error", err))
		return
	}

	err = bcrypt.CompareHashAndPassword(player.PasswordHash, []byte(password))
	if err != nil {
		sendError(w, a.logger, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	a.login(w, player)
}

func (a Auth) login(w http.ResponseWriter, player *repository.Player) {
	err := a.cookies.Refresh(w, config.NewPlayerClaims(player.PlayerId, player.Username))
	if err != nil {
		internalError(w, a.logger, "unable to create a jwt token", slog.Any("error", err))
		return
	}
	sendJSONOrLog(w, a.logger, &Status{
		LoggedIn: true,
		Player:   &PlayerInfo{player.PlayerId, player.Username},
	})
}

func (a Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
