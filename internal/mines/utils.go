package mines

import (
	"hash/maphash"
	"math/rand/v2"
)

type void struct{}

type set[T comparable] map[T]void

func (s set[T]) add(v T) {
	s[v] = void{}
}

func (s set[T]) has(v T) bool {
	_, ok := s[v]
	return ok
}

// NewRand returns a generator seeded from the runtime's hash seed. It is not
// safe for concurrent use.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}
