package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"github.com/vancomm/minegrid"
	"github.com/vancomm/minegrid/internal/config"
	"github.com/vancomm/minegrid/internal/database"
)

func main() {
	logger := config.NewLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	db, migrator, err := database.ConnectAndMigrate(ctx, minegrid.Migrations)
	if errors.Is(err, config.ErrNoDatabase) {
		logger.Error("nothing to migrate, set DATABASE_URL or POSTGRES_USER")
		os.Exit(1)
	}
	if err != nil {
		logger.Error("failed to connect to db", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		logger.Error("failed to check migration version", slog.Any("error", err))
		return
	}
	logger.Info("migration successful", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
}
