package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vancomm/minegrid/internal/mines"
)

// Game holds the limits and defaults for boards created over HTTP and the
// lifetime of in-memory games.
type Game struct {
	Defaults      mines.Params
	MaxSize       int
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

func lookupInt(key string, fallback int) (int, error) {
	s, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unable to parse %s: %w", key, err)
	}
	return v, nil
}

func lookupFloat(key string, fallback float64) (float64, error) {
	s, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse %s: %w", key, err)
	}
	return v, nil
}

func lookupDuration(key string, fallback time.Duration) (time.Duration, error) {
	s, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("unable to parse %s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return v, nil
}

func NewGame() (*Game, error) {
	size, err := lookupInt("GAME_DEFAULT_SIZE", 16)
	if err != nil {
		return nil, err
	}
	density, err := lookupFloat("GAME_DEFAULT_DENSITY", 0.16)
	if err != nil {
		return nil, err
	}
	maxSize, err := lookupInt("GAME_MAX_SIZE", 64)
	if err != nil {
		return nil, err
	}
	ttl, err := lookupDuration("GAME_SESSION_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	interval, err := lookupDuration("GAME_SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}

	defaults := mines.Params{Size: size, Density: density}
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("invalid default game params: %w", err)
	}
	if size > maxSize {
		return nil, fmt.Errorf(
			"GAME_DEFAULT_SIZE (%d) exceeds GAME_MAX_SIZE (%d)", size, maxSize,
		)
	}

	game := &Game{
		Defaults:      defaults,
		MaxSize:       maxSize,
		SessionTTL:    ttl,
		SweepInterval: interval,
	}

	return game, nil
}

// Check validates params requested by a client.
func (c Game) Check(params mines.Params) error {
	if params.Size > c.MaxSize {
		return fmt.Errorf("size %d exceeds the maximum of %d", params.Size, c.MaxSize)
	}
	return params.Validate()
}
