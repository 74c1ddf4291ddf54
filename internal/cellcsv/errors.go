package cellcsv

import (
	"errors"
	"fmt"
)

// ErrUnknownCell is wrapped by ErrInvalidCell when the identifier parses but
// does not name a cell of the grid.
var ErrUnknownCell = errors.New("not a cell of the grid")

// ErrInvalidColumns indicates an unusable column list
type ErrInvalidColumns struct {
	Columns Columns
	Reason  string
}

func (e *ErrInvalidColumns) Error() string {
	return fmt.Sprintf("invalid columns %q: %s", e.Columns.String(), e.Reason)
}

// ErrInvalidCell indicates an index field that is not a valid cell identifier
type ErrInvalidCell struct {
	Row   int
	Value string
	Err   error
}

func (e *ErrInvalidCell) Error() string {
	return fmt.Sprintf("row %d: invalid cell identifier %q", e.Row, e.Value)
}

func (e *ErrInvalidCell) Unwrap() error {
	return e.Err
}

// ErrShortRow indicates a row with fewer fields than there are columns
type ErrShortRow struct {
	Row      int
	Fields   int
	Expected int
}

func (e *ErrShortRow) Error() string {
	return fmt.Sprintf("row %d: %d fields, expected %d", e.Row, e.Fields, e.Expected)
}
