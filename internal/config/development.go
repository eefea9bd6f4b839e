package config

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// NewLogger returns a colored debug logger in development and a JSON logger
// otherwise.
func NewLogger() *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, nil)
	if Development() {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level: slog.LevelDebug,
		})
	}
	return slog.New(handler)
}
