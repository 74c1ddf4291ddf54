// Package hexgrid adapts the hexagonal grid index library to the geometry model.
//
// The coverer and the cell codec only depend on the Grid interface; H3 is the
// production implementation backed by github.com/uber/h3-go/v3.
package hexgrid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beetlebugorg/geoconv/internal/geom"
)

// MaxLevel is the finest resolution supported by the grid.
const MaxLevel = 15

// Cell is an opaque grid cell identifier. It is only meaningful together with
// the resolution encoded in it by the grid library.
type Cell uint64

// String renders the cell as lowercase hexadecimal without prefix or padding.
func (c Cell) String() string {
	return strconv.FormatUint(uint64(c), 16)
}

// ParseCell parses a hexadecimal cell identifier. Surrounding whitespace and an
// optional 0x prefix are accepted.
func ParseCell(s string) (Cell, error) {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(strings.TrimPrefix(t, "0x"), "0X")
	v, err := strconv.ParseUint(t, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cell %q: %w", s, err)
	}
	return Cell(v), nil
}

// Grid is the set of hex-grid primitives the conversion relies on.
type Grid interface {
	// Boundary returns the closed boundary ring of a cell.
	Boundary(c Cell) geom.Ring

	// Fill returns the cells of the given level covering the polygon
	// (shell minus holes).
	Fill(shell geom.Ring, holes []geom.Ring, level int) []Cell

	// Neighbors returns the 1-ring of a cell, including the cell itself.
	Neighbors(c Cell) []Cell

	// PointCell returns the cell of the given level containing a coordinate.
	PointCell(c geom.Coordinate, level int) Cell

	// Centroid returns the centre of a cell.
	Centroid(c Cell) geom.Coordinate
}
