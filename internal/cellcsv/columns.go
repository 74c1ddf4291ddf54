// Package cellcsv reads and writes the cell-index CSV format.
//
// Each row describes one grid cell. Field order is given by a Columns list:
// exactly one column is named "index" and holds the cell identifier in
// hexadecimal, a column named "_" is skipped, and every other column maps to
// the attribute of the same name. Files carry no header row.
package cellcsv

import (
	"fmt"
	"strings"
)

const (
	// IndexColumn names the column holding the cell identifier.
	IndexColumn = "index"

	// SkipColumn names a column that is ignored on decode and left empty on encode.
	SkipColumn = "_"
)

// Columns is an ordered list of column names.
type Columns []string

// ParseColumns splits a comma separated column list and validates it.
// Names are trimmed of surrounding whitespace and keep their case.
func ParseColumns(s string) (Columns, error) {
	parts := strings.Split(s, ",")
	cols := make(Columns, 0, len(parts))
	for _, p := range parts {
		cols = append(cols, strings.TrimSpace(p))
	}
	if err := cols.Validate(); err != nil {
		return nil, err
	}
	return cols, nil
}

// Validate checks that exactly one index column is present and that no column is unnamed.
func (c Columns) Validate() error {
	n := 0
	for i, name := range c {
		if name == "" {
			return &ErrInvalidColumns{Columns: c, Reason: fmt.Sprintf("column %d has no name", i+1)}
		}
		if name == IndexColumn {
			n++
		}
	}
	switch {
	case n == 0:
		return &ErrInvalidColumns{Columns: c, Reason: "missing index column"}
	case n > 1:
		return &ErrInvalidColumns{Columns: c, Reason: "index column given more than once"}
	}
	return nil
}

// IndexPos returns the position of the index column, or -1.
func (c Columns) IndexPos() int {
	for i, name := range c {
		if name == IndexColumn {
			return i
		}
	}
	return -1
}

func (c Columns) String() string {
	return strings.Join(c, ",")
}
