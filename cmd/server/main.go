package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vancomm/minegrid"
	"github.com/vancomm/minegrid/internal/app"
	"github.com/vancomm/minegrid/internal/config"
)

func main() {
	logger := config.NewLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := app.New(logger, minegrid.Migrations)

	if err := a.Start(ctx); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
