package mines

import "math/rand/v2"

// placeHazards draws count distinct cells uniformly at random, retrying on
// duplicate draws. Every subset of that size is equally likely.
func (b *Board) placeHazards(count int, r *rand.Rand) error {
	n := len(b.cells)
	if count < 0 || count > n {
		return &ConfigError{
			Size: b.size, Hazards: count,
			reason: "hazard count must be between 0 and size²",
		}
	}

	chosen := make(set[int], count)
	for len(chosen) < count {
		chosen.add(r.IntN(n))
	}

	for i := range chosen {
		b.cells[i].Hazard = true
	}
	b.totalHazards = count
	b.remainingFlags = count
	return nil
}

// computeCounts fills in AdjacentHazards for every cell. Hazards get
// [HazardMarker].
func (b *Board) computeCounts() {
	for i := range b.cells {
		c := &b.cells[i]
		if c.Hazard {
			c.AdjacentHazards = HazardMarker
			continue
		}
		n := 0
		for _, j := range c.neighbors {
			if b.cells[j].Hazard {
				n++
			}
		}
		c.AdjacentHazards = n
	}
}
