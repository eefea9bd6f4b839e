package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Unknown         CellState = -2
	Flag            CellState = -1
	CorrectFlag     CellState = 64 // post-game-over
	ExplodedHazard  CellState = 65
	WrongFlag       CellState = 66
	UnflaggedHazard CellState = 67
	/*
	 * Every cell of a Grid is one of:
	 *
	 * 	- 0 to 8: revealed, with that many hazardous neighbours.
	 *
	 * 	- -1: hidden and flagged.
	 *
	 * 	- -2: hidden.
	 *
	 * 	- 64..67: only once the game is over. A flag on a hazard, a
	 * 	  revealed hazard, a flag on a safe cell and a hazard nobody
	 * 	  flagged.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return "-"
	case s == Flag, s == CorrectFlag:
		return "F"
	case s == WrongFlag:
		return "!"
	case s == ExplodedHazard:
		return "X"
	case s == UnflaggedHazard:
		return "*"
	case s == 0:
		return "."
	case 1 <= s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "?"
	}
}

// Revealed is true for cells the player has opened, including the hazard
// that ended the game.
func (s CellState) Revealed() bool {
	return 0 <= s && s <= 8 || s == ExplodedHazard
}

// Grid is a row-major projection of a board.
type Grid []CellState

func (g Grid) At(width int, p Point) CellState {
	return g[p.Row*width+p.Col]
}

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			i := y*width + x
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
