package mines

import "fmt"

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

func (p Point) InBounds(size int) bool {
	return 0 <= p.Row && p.Row < size && 0 <= p.Col && p.Col < size
}

// neighborsOf lists the linear indices adjacent to i on a size x size grid,
// row by row. Corners get 3, edges 5 and the interior 8.
func neighborsOf(size, i int) []int {
	row, col := i/size, i%size
	neighbors := make([]int, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if 0 <= r && r < size && 0 <= c && c < size {
				neighbors = append(neighbors, r*size+c)
			}
		}
	}
	return neighbors
}
