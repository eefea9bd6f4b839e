package session

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minegrid/internal/mines"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newClock() *clock {
	return &clock{t: time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)}
}

// fixedGame is a four by four game with hazards at (0, 0) and (3, 3).
func fixedGame(t *testing.T, c *clock) *Game {
	t.Helper()
	board, err := mines.NewBoardWithHazards(4, []mines.Point{{Row: 0, Col: 0}, {Row: 3, Col: 3}})
	require.NoError(t, err)
	return newGame(uuid.New(), nil, mines.Params{Size: 4, Density: 0.125}, board, c.now)
}

func TestGameFinishesOnce(t *testing.T) {
	c := newClock()
	g := fixedGame(t, c)

	move, err := g.Open(mines.Point{Row: 1, Col: 1})
	require.NoError(t, err)
	assert.Equal(t, mines.InProgress, move.Status)
	assert.False(t, move.Finished)

	c.advance(5 * time.Second)
	move, err = g.Open(mines.Point{Row: 3, Col: 3})
	require.NoError(t, err)
	require.Len(t, move.Outcomes, 1)
	assert.Equal(t, mines.Detonated, move.Outcomes[0].Outcome)
	assert.Equal(t, mines.Lost, move.Status)
	assert.True(t, move.Finished)

	c.advance(time.Second)
	move, err = g.Open(mines.Point{Row: 0, Col: 3})
	require.NoError(t, err)
	assert.Equal(t, mines.NoChange, move.Outcomes[0].Outcome)
	assert.False(t, move.Finished)

	s := g.Snapshot()
	require.NotNil(t, s.EndedAt)
	assert.Equal(t, 5*time.Second, s.Playtime())
	assert.Equal(t, mines.ExplodedHazard, s.Grid.At(4, mines.Point{Row: 3, Col: 3}))
}

func TestFinalSnapshotSurvivesReset(t *testing.T) {
	c := newClock()
	g := fixedGame(t, c)

	c.advance(3 * time.Second)
	move, err := g.Open(mines.Point{Row: 0, Col: 0})
	require.NoError(t, err)
	require.True(t, move.Finished)

	require.NoError(t, g.Reset(rand.New(rand.NewPCG(1, 2))))
	assert.Equal(t, mines.InProgress, g.Snapshot().Status)

	final := move.Final
	require.NotNil(t, final)
	assert.Equal(t, 0, final.Round)
	assert.Equal(t, mines.Lost, final.Status)
	require.NotNil(t, final.EndedAt)
	assert.Equal(t, 3*time.Second, final.Playtime())

	move, err = g.Flag(mines.Point{Row: 1, Col: 1})
	require.NoError(t, err)
	assert.False(t, move.Finished)
	assert.Nil(t, move.Final)
}

func TestGameWin(t *testing.T) {
	g := fixedGame(t, newClock())

	_, err := g.Open(mines.Point{Row: 0, Col: 3})
	require.NoError(t, err)

	move, err := g.Flag(mines.Point{Row: 0, Col: 0})
	require.NoError(t, err)
	require.NotNil(t, move.Flag)
	assert.Equal(t, mines.Flagged, *move.Flag)
	assert.False(t, move.Finished)

	move, err = g.Flag(mines.Point{Row: 3, Col: 3})
	require.NoError(t, err)
	assert.Equal(t, mines.Won, move.Status)
	assert.True(t, move.Finished)

	s := g.Snapshot()
	assert.Equal(t, 14, s.Revealed)
	assert.Equal(t, 2, s.Flagged)
	assert.Zero(t, s.RemainingFlags)
}

func TestGameChord(t *testing.T) {
	g := fixedGame(t, newClock())

	_, err := g.Open(mines.Point{Row: 1, Col: 1})
	require.NoError(t, err)
	_, err = g.Flag(mines.Point{Row: 0, Col: 0})
	require.NoError(t, err)

	move, err := g.Chord(mines.Point{Row: 1, Col: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, move.Outcomes)
	for _, out := range move.Outcomes {
		assert.Equal(t, mines.Revealed, out.Outcome)
	}
}

func TestGameRejectsBadCoordinates(t *testing.T) {
	g := fixedGame(t, newClock())

	_, err := g.Open(mines.Point{Row: 4, Col: 4})
	assert.ErrorIs(t, err, mines.ErrInvalidCoordinate)
	_, err = g.Flag(mines.Point{Row: -1, Col: 0})
	assert.ErrorIs(t, err, mines.ErrInvalidCoordinate)
	_, err = g.Chord(mines.Point{Row: 0, Col: 9})
	assert.ErrorIs(t, err, mines.ErrInvalidCoordinate)
}

func TestGameReset(t *testing.T) {
	c := newClock()
	g := fixedGame(t, c)

	_, err := g.Open(mines.Point{Row: 3, Col: 3})
	require.NoError(t, err)
	require.Equal(t, mines.Lost, g.Snapshot().Status)

	c.advance(time.Minute)
	require.NoError(t, g.Reset(rand.New(rand.NewPCG(1, 2))))

	s := g.Snapshot()
	assert.Equal(t, g.ID, s.ID)
	assert.Equal(t, 1, s.Round)
	assert.Equal(t, mines.InProgress, s.Status)
	assert.Nil(t, s.EndedAt)
	assert.Equal(t, c.now(), s.StartedAt)
	assert.Equal(t, 2, s.TotalHazards)
	assert.Zero(t, s.Revealed)
}

func TestGameOwnedBy(t *testing.T) {
	alice, bob := int64(1), int64(2)

	g := fixedGame(t, newClock())
	assert.True(t, g.OwnedBy(nil))
	assert.True(t, g.OwnedBy(&alice))

	g.PlayerID = &alice
	assert.True(t, g.OwnedBy(&alice))
	assert.False(t, g.OwnedBy(&bob))
	assert.False(t, g.OwnedBy(nil))
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(discard, time.Hour, rand.New(rand.NewPCG(1, 2)))

	g, err := reg.Create(mines.Params{Size: 9, Density: 0.125}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())

	got, err := reg.Get(g.ID)
	require.NoError(t, err)
	assert.Same(t, g, got)
	assert.Equal(t, 10, got.Snapshot().TotalHazards)

	_, err = reg.Get(uuid.New())
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = reg.Create(mines.Params{Size: 0, Density: 0.1}, nil)
	assert.ErrorIs(t, err, mines.ErrConfiguration)
	assert.Equal(t, 1, reg.Len())

	reset, err := reg.Reset(g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reset.Snapshot().Round)

	_, err = reg.Reset(uuid.New())
	assert.ErrorIs(t, err, ErrGameNotFound)

	reg.Delete(g.ID)
	assert.Zero(t, reg.Len())
}

func TestRegistrySweep(t *testing.T) {
	c := newClock()
	reg := NewRegistry(discard, time.Hour, rand.New(rand.NewPCG(1, 2)))
	reg.now = c.now

	idle, err := reg.Create(mines.Params{Size: 4, Density: 0}, nil)
	require.NoError(t, err)
	busy, err := reg.Create(mines.Params{Size: 4, Density: 0}, nil)
	require.NoError(t, err)

	c.advance(50 * time.Minute)
	_, err = busy.Flag(mines.Point{Row: 0, Col: 0})
	require.NoError(t, err)

	c.advance(20 * time.Minute)
	assert.Equal(t, 1, reg.Sweep(c.now()))

	_, err = reg.Get(idle.ID)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = reg.Get(busy.ID)
	assert.NoError(t, err)
}

func TestRegistryRunStopsWithContext(t *testing.T) {
	reg := NewRegistry(discard, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- reg.Run(ctx, time.Millisecond)
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestConcurrentPlay(t *testing.T) {
	reg := NewRegistry(discard, time.Hour, rand.New(rand.NewPCG(1, 2)))
	g, err := reg.Create(mines.Params{Size: 16, Density: 0.16}, nil)
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		finished int
	)
	for worker := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := rand.New(rand.NewPCG(uint64(worker), 7))
			for range 200 {
				p := mines.Point{Row: r.IntN(16), Col: r.IntN(16)}
				var move Move
				var err error
				switch r.IntN(3) {
				case 0:
					move, err = g.Open(p)
				case 1:
					move, err = g.Flag(p)
				default:
					move, err = g.Chord(p)
				}
				if !assert.NoError(t, err) {
					return
				}
				if move.Finished {
					mu.Lock()
					finished++
					mu.Unlock()
				}
				g.Snapshot()
			}
		}()
	}
	wg.Wait()

	s := g.Snapshot()
	if s.Status == mines.InProgress {
		assert.Zero(t, finished)
	} else {
		assert.Equal(t, 1, finished)
	}
}
