package session

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minegrid/internal/mines"
)

// Move is the result of one player action on a game.
type Move struct {
	Outcomes []mines.RevealOutcome
	Flag     *mines.FlagState
	Status   mines.Status
	// Finished is set on the one move that ends the round, together with
	// Final, the state of the round as it ended.
	Finished bool
	Final    *Snapshot
}

// Snapshot is a copy of a game taken under its lock.
type Snapshot struct {
	ID             uuid.UUID
	PlayerID       *int64
	Round          int
	Params         mines.Params
	TotalHazards   int
	RemainingFlags int
	Revealed       int
	Flagged        int
	Status         mines.Status
	Grid           mines.Grid
	StartedAt      time.Time
	EndedAt        *time.Time
}

// Playtime is zero for a round that is still in progress.
func (s Snapshot) Playtime() time.Duration {
	if s.EndedAt == nil {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// Game serialises access to a single board. Every exported method is safe
// for concurrent use.
type Game struct {
	ID       uuid.UUID
	PlayerID *int64
	Params   mines.Params

	mu        sync.Mutex
	board     *mines.Board
	round     int
	startedAt time.Time
	endedAt   *time.Time
	touchedAt time.Time
	now       func() time.Time
}

func newGame(
	id uuid.UUID, playerID *int64, params mines.Params, board *mines.Board, now func() time.Time,
) *Game {
	t := now()
	return &Game{
		ID:        id,
		PlayerID:  playerID,
		Params:    params,
		board:     board,
		startedAt: t,
		touchedAt: t,
		now:       now,
	}
}

// OwnedBy reports whether playerID may play this game. Anonymous games are
// open to everyone.
func (g *Game) OwnedBy(playerID *int64) bool {
	if g.PlayerID == nil {
		return true
	}
	return playerID != nil && *playerID == *g.PlayerID
}

func (g *Game) play(f func(b *mines.Board) (Move, error)) (Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	before := g.board.Status()
	move, err := f(g.board)
	if err != nil {
		return Move{}, err
	}

	now := g.now()
	g.touchedAt = now
	move.Status = g.board.Status()
	if before == mines.InProgress && move.Status != mines.InProgress {
		g.endedAt = &now
		final := g.snapshot()
		move.Finished = true
		move.Final = &final
	}
	return move, nil
}

func (g *Game) Open(p mines.Point) (Move, error) {
	return g.play(func(b *mines.Board) (Move, error) {
		out, err := b.Reveal(p)
		if err != nil {
			return Move{}, err
		}
		return Move{Outcomes: []mines.RevealOutcome{out}}, nil
	})
}

func (g *Game) Flag(p mines.Point) (Move, error) {
	return g.play(func(b *mines.Board) (Move, error) {
		state, err := b.ToggleFlag(p)
		if err != nil {
			return Move{}, err
		}
		return Move{Flag: &state}, nil
	})
}

func (g *Game) Chord(p mines.Point) (Move, error) {
	return g.play(func(b *mines.Board) (Move, error) {
		outcomes, err := b.Chord(p)
		if err != nil {
			return Move{}, err
		}
		return Move{Outcomes: outcomes}, nil
	})
}

// Reset swaps in a fresh board with the same params and starts a new round.
// r must not be used concurrently by the caller.
func (g *Game) Reset(r *rand.Rand) error {
	board, err := mines.NewBoard(g.Params.Size, g.Params.Density, r)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.board = board
	g.round++
	g.startedAt = now
	g.endedAt = nil
	g.touchedAt = now
	return nil
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

// snapshot must be called with g.mu held.
func (g *Game) snapshot() Snapshot {
	s := Snapshot{
		ID:             g.ID,
		PlayerID:       g.PlayerID,
		Round:          g.round,
		Params:         g.Params,
		TotalHazards:   g.board.TotalHazards(),
		RemainingFlags: g.board.RemainingFlags(),
		Revealed:       g.board.RevealedCount(),
		Flagged:        g.board.FlaggedCount(),
		Status:         g.board.Status(),
		Grid:           g.board.PlayerGrid(),
		StartedAt:      g.startedAt,
	}
	if g.endedAt != nil {
		endedAt := *g.endedAt
		s.EndedAt = &endedAt
	}
	return s
}

// String renders the player's view of the board.
func (g *Game) String() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.String()
}

func (g *Game) idleSince() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.touchedAt
}
