package cover

import (
	"fmt"

	"github.com/beetlebugorg/geoconv/internal/hexgrid"
)

// Levels is an inclusive resolution interval, coarse (Min) to fine (Max).
type Levels struct {
	Min int
	Max int
}

// Single returns the interval holding only level.
func Single(level int) Levels {
	return Levels{Min: level, Max: level}
}

// Range returns the interval spanned by a and b in either order.
func Range(a, b int) Levels {
	if a > b {
		a, b = b, a
	}
	return Levels{Min: a, Max: b}
}

// IsSingle reports whether only one level is requested.
func (l Levels) IsSingle() bool {
	return l.Min == l.Max
}

// Validate checks 0 <= Min <= Max <= hexgrid.MaxLevel.
func (l Levels) Validate() error {
	if l.Min < 0 || l.Max > hexgrid.MaxLevel {
		return &ErrInvalidLevels{Levels: l, Reason: fmt.Sprintf("levels must be within 0..%d", hexgrid.MaxLevel)}
	}
	if l.Min > l.Max {
		return &ErrInvalidLevels{Levels: l, Reason: "minimum level exceeds maximum level"}
	}
	return nil
}

// String renders "9" for a single level and "7-9" for a range.
func (l Levels) String() string {
	if l.IsSingle() {
		return fmt.Sprintf("%d", l.Min)
	}
	return fmt.Sprintf("%d-%d", l.Min, l.Max)
}

// ErrInvalidLevels indicates a resolution interval outside the grid's range
type ErrInvalidLevels struct {
	Levels Levels
	Reason string
}

func (e *ErrInvalidLevels) Error() string {
	return fmt.Sprintf("invalid levels [%d, %d]: %s", e.Levels.Min, e.Levels.Max, e.Reason)
}
