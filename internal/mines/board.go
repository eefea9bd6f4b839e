package mines

import (
	"log/slog"
	"math"
	"math/rand/v2"
)

var Log *slog.Logger = slog.Default()

// HazardMarker is the AdjacentHazards value of a hazard cell.
const HazardMarker = -1

type Cell struct {
	Hidden          bool
	Hazard          bool
	Flagged         bool
	AdjacentHazards int
	neighbors       []int
}

// Board is a size x size grid with its hazards already placed and counted.
// A Board is not safe for concurrent use.
type Board struct {
	size           int
	cells          []Cell
	totalHazards   int
	remainingFlags int
	revealed       int
	flagged        int
	detonated      bool
}

func newBoard(size int) *Board {
	b := &Board{
		size:  size,
		cells: make([]Cell, size*size),
	}
	for i := range b.cells {
		b.cells[i] = Cell{
			Hidden:    true,
			neighbors: neighborsOf(size, i),
		}
	}
	return b
}

// NewBoard builds a board with floor(size² × density) hazards drawn from r.
// A nil r is replaced with [NewRand].
func NewBoard(size int, density float64, r *rand.Rand) (*Board, error) {
	params := Params{Size: size, Density: density}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = NewRand()
	}

	b := newBoard(size)
	if err := b.placeHazards(params.HazardCount(), r); err != nil {
		return nil, err
	}
	b.computeCounts()

	Log.Debug("board created",
		slog.Int("size", size),
		slog.Float64("density", density),
		slog.Int("hazards", b.totalHazards),
	)
	return b, nil
}

// NewBoardWithHazards builds a board with hazards at exactly the given points.
func NewBoardWithHazards(size int, hazards []Point) (*Board, error) {
	if size <= 0 {
		return nil, &ConfigError{Size: size, Hazards: len(hazards), reason: "size must be positive"}
	}
	if size > math.MaxInt/size {
		return nil, &ConfigError{Size: size, Hazards: len(hazards), reason: "size² overflows"}
	}

	b := newBoard(size)
	seen := make(set[int], len(hazards))
	for _, p := range hazards {
		if !p.InBounds(size) {
			return nil, &ConfigError{
				Size: size, Hazards: len(hazards),
				reason: "hazard " + p.String() + " is out of bounds",
			}
		}
		i := p.Row*size + p.Col
		if seen.has(i) {
			return nil, &ConfigError{
				Size: size, Hazards: len(hazards),
				reason: "hazard " + p.String() + " is listed twice",
			}
		}
		seen.add(i)
		b.cells[i].Hazard = true
	}
	b.totalHazards = len(hazards)
	b.remainingFlags = len(hazards)
	b.computeCounts()

	return b, nil
}

func (b *Board) index(p Point) (int, error) {
	if !p.InBounds(b.size) {
		return 0, &CoordinateError{Point: p, Size: b.size}
	}
	return p.Row*b.size + p.Col, nil
}

func (b *Board) point(i int) Point {
	return Point{Row: i / b.size, Col: i % b.size}
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) TotalHazards() int {
	return b.totalHazards
}

// RemainingFlags is the hazard count minus placed flags. It goes negative
// when more cells are flagged than there are hazards.
func (b *Board) RemainingFlags() int {
	return b.remainingFlags
}

func (b *Board) RevealedCount() int {
	return b.revealed
}

func (b *Board) FlaggedCount() int {
	return b.flagged
}

// Cell returns a copy of the cell at p.
func (b *Board) Cell(p Point) (Cell, error) {
	i, err := b.index(p)
	if err != nil {
		return Cell{}, err
	}
	return b.cells[i], nil
}

func (b *Board) NeighborsOf(p Point) ([]Point, error) {
	i, err := b.index(p)
	if err != nil {
		return nil, err
	}
	neighbors := make([]Point, len(b.cells[i].neighbors))
	for k, j := range b.cells[i].neighbors {
		neighbors[k] = b.point(j)
	}
	return neighbors, nil
}

// Hazards lists hazard positions in row-major order.
func (b *Board) Hazards() []Point {
	hazards := make([]Point, 0, b.totalHazards)
	for i, c := range b.cells {
		if c.Hazard {
			hazards = append(hazards, b.point(i))
		}
	}
	return hazards
}

func (b *Board) String() string {
	return b.PlayerGrid().ToString(b.size)
}
