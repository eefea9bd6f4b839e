package mines

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration     = errors.New("invalid board configuration")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// ConfigError is returned when a board cannot be built. No partial board is
// ever produced alongside it.
type ConfigError struct {
	Size    int
	Density float64
	Hazards int
	reason  string
}

// [*ConfigError] implements [error]
func (e *ConfigError) Error() string {
	return fmt.Sprintf(
		"%s: %s (size = %d, density = %g, hazards = %d)",
		ErrConfiguration, e.reason, e.Size, e.Density, e.Hazards,
	)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

type CoordinateError struct {
	Point Point
	Size  int
}

// [*CoordinateError] implements [error]
func (e *CoordinateError) Error() string {
	return fmt.Sprintf(
		"%s: %s is outside of %dx%d board", ErrInvalidCoordinate, e.Point, e.Size, e.Size,
	)
}

func (e *CoordinateError) Unwrap() error {
	return ErrInvalidCoordinate
}
