package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minegrid/internal/config"
	"github.com/vancomm/minegrid/internal/database"
	"github.com/vancomm/minegrid/internal/middleware"
	"github.com/vancomm/minegrid/internal/mines"
	"github.com/vancomm/minegrid/internal/repository"
	"github.com/vancomm/minegrid/internal/session"
)

type App struct {
	logger     *slog.Logger
	router     *mux.Router
	migrations fs.FS

	game    config.Game
	games   *session.Registry
	ws      *config.WebSocket
	db      *pgxpool.Pool
	repo    *repository.Queries
	cookies *config.Cookies
}

func New(logger *slog.Logger, migrations fs.FS) *App {
	app := &App{
		logger:     logger,
		router:     mux.NewRouter(),
		migrations: migrations,
		ws:         config.NewWebSocket(),
	}

	return app
}

// connect sets up the optional database and player accounts. Without a
// database the server still plays games but keeps no records.
func (a *App) connect(ctx context.Context) error {
	db, migrator, err := database.ConnectAndMigrate(ctx, a.migrations)
	if errors.Is(err, config.ErrNoDatabase) {
		a.logger.Warn("no database configured, results will not be recorded")
		return nil
	}
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	if version, dirty, err := migrator.Version(); err == nil {
		a.logger.Info("database ready",
			slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}
	a.db = db
	a.repo = repository.New(db)

	jwt, err := config.NewJWT()
	if errors.Is(err, config.ErrNoJWT) {
		a.logger.Warn("no JWT keys configured, player accounts are disabled")
		return nil
	}
	if err != nil {
		return err
	}
	cookies, err := config.NewCookies(jwt)
	if err != nil {
		return err
	}
	a.cookies = cookies
	return nil
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Logging(a.logger),
		middleware.Cors(),
		middleware.Auth(a.logger, a.cookies),
	)
}

func (a *App) Start(ctx context.Context) error {
	game, err := config.NewGame()
	if err != nil {
		return err
	}
	a.game = *game
	a.games = session.NewRegistry(a.logger, game.SessionTTL, mines.NewRand())
	mines.Log = a.logger

	if err := a.connect(ctx); err != nil {
		return err
	}
	if a.db != nil {
		defer a.db.Close()
	}

	a.loadRoutes()

	server := &http.Server{
		Addr:        config.Port(),
		Handler:     a.Handler(),
		ReadTimeout: config.ReadTimeout,
		IdleTimeout: config.IdleTimeout,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", server.Addr))
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("unable to listen and serve: %w", err)
	})
	g.Go(func() error {
		return a.games.Run(gCtx, a.game.SweepInterval)
	})
	g.Go(func() error {
		<-gCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		return server.Shutdown(ctx)
	})

	return g.Wait()
}

func (a *App) basePath() string {
	base := config.BasePath()
	if base == "/" {
		return ""
	}
	return base
}
