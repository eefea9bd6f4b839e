package config

import (
	"os"
	"time"
)

const defaultPort = ":8080"

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

// Port is the listen address of the HTTP server, ":8080" unless APP_PORT is
// set.
func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return defaultPort
	}
	return port
}

// Server timeouts. Write is left unbounded for WebSocket connections.
const (
	ReadTimeout     = time.Second * 15
	IdleTimeout     = time.Second * 60
	ShutdownTimeout = time.Second * 15
)
