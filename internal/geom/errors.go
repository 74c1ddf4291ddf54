package geom

import (
	"fmt"
)

// ErrInvalidBounds indicates a malformed bounding box string
type ErrInvalidBounds struct {
	Input  string
	Reason string
}

func (e *ErrInvalidBounds) Error() string {
	return fmt.Sprintf("invalid bounds %q: %s", e.Input, e.Reason)
}
