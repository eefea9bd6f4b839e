package mines

import (
	"fmt"

	"github.com/gammazero/deque"
)

type Status uint8

const (
	InProgress Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Outcome uint8

const (
	NoChange Outcome = iota
	Revealed
	Detonated
)

func (o Outcome) String() string {
	switch o {
	case NoChange:
		return "no_change"
	case Revealed:
		return "revealed"
	case Detonated:
		return "detonated"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// RevealOutcome reports what a single reveal did to the board. Revealed lists
// every cell the call unhid: the target first, then flooded cells in the
// order they were opened.
type RevealOutcome struct {
	Outcome  Outcome `json:"outcome"`
	Point    Point   `json:"point"`
	Count    int     `json:"count"`
	Revealed []Point `json:"revealed,omitempty"`
}

type FlagState uint8

const (
	Unflagged FlagState = iota
	Flagged
)

func (f FlagState) String() string {
	if f == Flagged {
		return "flagged"
	}
	return "unflagged"
}

func (f FlagState) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func flagState(flagged bool) FlagState {
	if flagged {
		return Flagged
	}
	return Unflagged
}

// Status is derived from the board on every call: a revealed hazard means
// Lost, every cell revealed or flagged means Won.
func (b *Board) Status() Status {
	switch {
	case b.detonated:
		return Lost
	case b.revealed+b.flagged == len(b.cells):
		return Won
	default:
		return InProgress
	}
}

// Reveal opens the cell at p. Flagged and already revealed cells are left
// alone, as is every cell once the game is over. A zero count floods outward
// until it meets numbered cells, flags or the edge of the grid.
func (b *Board) Reveal(p Point) (RevealOutcome, error) {
	i, err := b.index(p)
	if err != nil {
		return RevealOutcome{}, err
	}
	if b.Status() != InProgress {
		return RevealOutcome{Outcome: NoChange, Point: p}, nil
	}
	return b.reveal(i), nil
}

func (b *Board) unhide(i int) {
	b.cells[i].Hidden = false
	b.revealed++
}

func (b *Board) reveal(i int) RevealOutcome {
	p := b.point(i)
	c := &b.cells[i]
	if c.Flagged || !c.Hidden {
		return RevealOutcome{Outcome: NoChange, Point: p}
	}

	b.unhide(i)
	if c.Hazard {
		b.detonated = true
		return RevealOutcome{
			Outcome:  Detonated,
			Point:    p,
			Count:    HazardMarker,
			Revealed: []Point{p},
		}
	}

	out := RevealOutcome{
		Outcome:  Revealed,
		Point:    p,
		Count:    c.AdjacentHazards,
		Revealed: []Point{p},
	}
	if c.AdjacentHazards != 0 {
		return out
	}

	// Only zero cells are queued, so the flood never reaches a hazard.
	var todo deque.Deque[int]
	todo.PushBack(i)
	for todo.Len() > 0 {
		j := todo.PopFront()
		for _, k := range b.cells[j].neighbors {
			n := &b.cells[k]
			if n.Flagged || !n.Hidden {
				continue
			}
			b.unhide(k)
			out.Revealed = append(out.Revealed, b.point(k))
			if n.AdjacentHazards == 0 {
				todo.PushBack(k)
			}
		}
	}
	return out
}

// Chord reveals every hidden, unflagged neighbour of a revealed cell whose
// flagged neighbours match its count. It stops at the first detonation.
func (b *Board) Chord(p Point) ([]RevealOutcome, error) {
	i, err := b.index(p)
	if err != nil {
		return nil, err
	}
	if b.Status() != InProgress {
		return nil, nil
	}

	c := &b.cells[i]
	if c.Hidden || c.Flagged {
		return nil, nil
	}

	flags := 0
	for _, j := range c.neighbors {
		if b.cells[j].Flagged {
			flags++
		}
	}
	if flags != c.AdjacentHazards {
		return nil, nil
	}

	var outcomes []RevealOutcome
	for _, j := range c.neighbors {
		// an earlier neighbour's flood may already have opened this one
		if n := &b.cells[j]; n.Flagged || !n.Hidden {
			continue
		}
		out := b.reveal(j)
		outcomes = append(outcomes, out)
		if out.Outcome == Detonated {
			break
		}
	}
	return outcomes, nil
}

// ToggleFlag flips the flag on a hidden cell and returns its new state.
// Revealed cells and finished games report the current state unchanged.
func (b *Board) ToggleFlag(p Point) (FlagState, error) {
	i, err := b.index(p)
	if err != nil {
		return Unflagged, err
	}
	c := &b.cells[i]
	if b.Status() != InProgress || !c.Hidden {
		return flagState(c.Flagged), nil
	}

	c.Flagged = !c.Flagged
	if c.Flagged {
		b.flagged++
		b.remainingFlags--
	} else {
		b.flagged--
		b.remainingFlags++
	}
	return flagState(c.Flagged), nil
}

// PlayerGrid is what the player may see. Hazards show up only after the game
// is over. The board is not modified.
func (b *Board) PlayerGrid() Grid {
	over := b.Status() != InProgress
	grid := make(Grid, len(b.cells))
	for i, c := range b.cells {
		switch {
		case !c.Hidden && c.Hazard:
			grid[i] = ExplodedHazard
		case !c.Hidden:
			grid[i] = CellState(c.AdjacentHazards)
		case c.Flagged && over && c.Hazard:
			grid[i] = CorrectFlag
		case c.Flagged && over:
			grid[i] = WrongFlag
		case c.Flagged:
			grid[i] = Flag
		case over && c.Hazard:
			grid[i] = UnflaggedHazard
		default:
			grid[i] = Unknown
		}
	}
	return grid
}
