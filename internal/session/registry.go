package session

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minegrid/internal/mines"
)

var ErrGameNotFound = errors.New("game not found")

// Registry holds the games that are currently being played. Games live in
// memory only and are dropped after ttl without a move.
type Registry struct {
	logger *slog.Logger
	ttl    time.Duration
	now    func() time.Time

	mu    sync.RWMutex
	games map[uuid.UUID]*Game

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// NewRegistry takes ownership of rnd. A nil rnd is replaced with
// [mines.NewRand].
func NewRegistry(logger *slog.Logger, ttl time.Duration, rnd *rand.Rand) *Registry {
	if rnd == nil {
		rnd = mines.NewRand()
	}
	return &Registry{
		logger: logger,
		ttl:    ttl,
		now:    time.Now,
		games:  make(map[uuid.UUID]*Game),
		rnd:    rnd,
	}
}

func (r *Registry) newBoard(params mines.Params) (*mines.Board, error) {
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return mines.NewBoard(params.Size, params.Density, r.rnd)
}

func (r *Registry) Create(params mines.Params, playerID *int64) (*Game, error) {
	board, err := r.newBoard(params)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	game := newGame(id, playerID, params, board, r.now)

	r.mu.Lock()
	r.games[id] = game
	r.mu.Unlock()

	r.logger.Debug("game created",
		slog.String("id", id.String()),
		slog.String("params", params.String()),
	)
	return game, nil
}

func (r *Registry) Get(id uuid.UUID) (*Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	game, ok := r.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// Reset starts a new round of the game with the given id.
func (r *Registry) Reset(id uuid.UUID) (*Game, error) {
	game, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	if err := game.Reset(r.rnd); err != nil {
		return nil, err
	}
	return game, nil
}

func (r *Registry) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, id)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Sweep drops every game that has been idle for longer than the ttl and
// returns how many were dropped.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	swept := 0
	for id, game := range r.games {
		if now.Sub(game.idleSince()) > r.ttl {
			delete(r.games, id)
			swept++
		}
	}
	return swept
}

// Run sweeps the registry every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if swept := r.Sweep(now); swept > 0 {
				r.logger.Info("swept idle games",
					slog.Int("swept", swept),
					slog.Int("remaining", r.Len()),
				)
			}
		}
	}
}
