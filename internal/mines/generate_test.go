package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bruteCount counts hazards around p without the cached neighbour lists.
func bruteCount(b *Board, p Point) int {
	n := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			q := Point{p.Row + dr, p.Col + dc}
			if (dr != 0 || dc != 0) && q.InBounds(b.size) && b.cells[q.Row*b.size+q.Col].Hazard {
				n++
			}
		}
	}
	return n
}

func TestNewBoard(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		hazards int
	}{
		{name: "16x16(0.16)", params: Params{16, 0.16}, hazards: 40},
		{name: "9x9(0.125)", params: Params{9, 0.125}, hazards: 10},
		{name: "30x30(0.2)", params: Params{30, 0.2}, hazards: 180},
		{name: "4x4(0)", params: Params{4, 0}, hazards: 0},
		{name: "5x5(1)", params: Params{5, 1}, hazards: 25},
		{name: "1x1(0.9)", params: Params{1, 0.9}, hazards: 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewPCG(1, 2))
			for range 20 {
				b, err := NewBoard(test.params.Size, test.params.Density, r)
				require.NoError(t, err)

				assert.Equal(t, test.hazards, b.TotalHazards())
				assert.Equal(t, test.hazards, b.RemainingFlags())
				assert.Len(t, b.Hazards(), test.hazards)
				assert.Zero(t, b.RevealedCount())
				assert.Zero(t, b.FlaggedCount())
				assert.Equal(t, InProgress, b.Status())

				for i, c := range b.cells {
					p := b.point(i)
					require.True(t, c.Hidden)
					require.False(t, c.Flagged)
					if c.Hazard {
						require.Equal(t, HazardMarker, c.AdjacentHazards, "hazard at %s", p)
					} else {
						require.Equal(t, bruteCount(b, p), c.AdjacentHazards, "cell %s", p)
					}
				}
			}
		})
	}
}

func TestNewBoardRejectsBadParams(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, p := range []Params{{0, 0.1}, {-1, 0}, {4, 1.01}, {4, -1}} {
		b, err := NewBoard(p.Size, p.Density, r)
		assert.Nil(t, b)
		assert.ErrorIs(t, err, ErrConfiguration, "params %s", p)
	}
}

func TestNewBoardNilRand(t *testing.T) {
	b, err := NewBoard(8, 0.25, nil)
	require.NoError(t, err)
	assert.Equal(t, 16, b.TotalHazards())
}

func TestPlaceHazardsRejectsBadCount(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, count := range []int{-1, 17, 100} {
		b := newBoard(4)
		err := b.placeHazards(count, r)
		require.ErrorIs(t, err, ErrConfiguration)
		assert.Empty(t, b.Hazards(), "nothing is placed on failure")
	}
}

func TestPlaceHazardsIsUniform(t *testing.T) {
	const (
		size   = 3
		rounds = 9000
	)
	r := rand.New(rand.NewPCG(1, 2))
	hits := make([]int, size*size)
	for range rounds {
		b := newBoard(size)
		require.NoError(t, b.placeHazards(2, r))
		for i, c := range b.cells {
			if c.Hazard {
				hits[i]++
			}
		}
	}

	// each cell is picked with probability 2/9
	want := rounds * 2 / (size * size)
	for i, h := range hits {
		assert.InDelta(t, want, h, float64(want)/5, "cell %d", i)
	}
}

func TestNewBoardWithHazards(t *testing.T) {
	b, err := NewBoardWithHazards(4, []Point{{0, 0}, {3, 3}})
	require.NoError(t, err)
	assert.Equal(t, 2, b.TotalHazards())

	want := []int{
		-1, 1, 0, 0,
		1, 1, 0, 0,
		0, 0, 1, 1,
		0, 0, 1, -1,
	}
	for i, c := range b.cells {
		assert.Equal(t, want[i], c.AdjacentHazards, "cell %s", b.point(i))
	}

	_, err = NewBoardWithHazards(4, []Point{{0, 0}, {0, 0}})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewBoardWithHazards(4, []Point{{4, 0}})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewBoardWithHazards(0, nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestComputeCountsIsIdempotent(t *testing.T) {
	b, err := NewBoard(10, 0.3, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)

	before := make([]int, len(b.cells))
	for i, c := range b.cells {
		before[i] = c.AdjacentHazards
	}
	b.computeCounts()
	for i, c := range b.cells {
		assert.Equal(t, before[i], c.AdjacentHazards)
	}
}
