package mines

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Params describe a board before it is built: a size x size grid where
// floor(size² × density) cells are hazards.
type Params struct {
	Size    int
	Density float64
}

func (p Params) Cells() int {
	return p.Size * p.Size
}

// HazardCount is meaningful only for params that pass [Params.Validate].
func (p Params) HazardCount() int {
	return int(math.Floor(float64(p.Cells()) * p.Density))
}

func (p Params) Validate() error {
	if p.Size <= 0 {
		return &ConfigError{Size: p.Size, Density: p.Density, reason: "size must be positive"}
	}
	if p.Size > math.MaxInt/p.Size {
		return &ConfigError{Size: p.Size, Density: p.Density, reason: "size² overflows"}
	}
	if math.IsNaN(p.Density) || math.IsInf(p.Density, 0) {
		return &ConfigError{Size: p.Size, Density: p.Density, reason: "density must be finite"}
	}
	count := p.HazardCount()
	if count < 0 || count > p.Cells() {
		return &ConfigError{
			Size: p.Size, Density: p.Density, Hazards: count,
			reason: "hazard count must be between 0 and size²",
		}
	}
	return nil
}

// String gives the compact "size:density" form accepted by [ParseParams].
func (p Params) String() string {
	return strconv.Itoa(p.Size) + ":" + strconv.FormatFloat(p.Density, 'g', -1, 64)
}

func ParseParams(s string) (*Params, error) {
	sizeStr, densityStr, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf(`invalid game params "%s": expected size:density`, s)
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil {
		return nil, fmt.Errorf(`invalid game params "%s": %w`, s, err)
	}
	density, err := strconv.ParseFloat(densityStr, 64)
	if err != nil {
		return nil, fmt.Errorf(`invalid game params "%s": %w`, s, err)
	}
	return &Params{Size: size, Density: density}, nil
}
