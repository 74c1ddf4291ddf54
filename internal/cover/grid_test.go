package cover

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/beetlebugorg/geoconv/internal/geom"
	"github.com/beetlebugorg/geoconv/internal/hexgrid"
)

// squareGrid is a deterministic test grid: level L cells are squares of
// 2^-L degrees aligned on the origin, so every cell splits exactly into four
// children. Fill selects cells whose centre lies inside the polygon and the
// 1-ring is the 3x3 block around a cell.
type squareGrid struct{}

const squareOffset = 1 << 27

func squareCell(level, x, y int) hexgrid.Cell {
	return hexgrid.Cell(uint64(level)<<56 | uint64(x+squareOffset)<<28 | uint64(y+squareOffset))
}

func squareDecode(c hexgrid.Cell) (level, x, y int) {
	const mask = 1<<28 - 1
	return int(uint64(c) >> 56), int(uint64(c)>>28&mask) - squareOffset, int(uint64(c)&mask) - squareOffset
}

func squareSize(level int) float64 {
	return 1 / float64(uint64(1)<<uint(level))
}

func (squareGrid) Boundary(c hexgrid.Cell) geom.Ring {
	level, x, y := squareDecode(c)
	s := squareSize(level)
	x0, y0 := float64(x)*s, float64(y)*s
	return geom.Ring{{x0, y0}, {x0 + s, y0}, {x0 + s, y0 + s}, {x0, y0 + s}, {x0, y0}}
}

func (squareGrid) Fill(shell geom.Ring, holes []geom.Ring, level int) []hexgrid.Cell {
	poly := orb.Polygon{orb.Ring(shell)}
	for _, h := range holes {
		poly = append(poly, orb.Ring(h))
	}

	s := squareSize(level)
	b := shell.Bounds()
	var out []hexgrid.Cell
	for x := int(math.Floor(b.MinLon / s)); float64(x)*s < b.MaxLon; x++ {
		for y := int(math.Floor(b.MinLat / s)); float64(y)*s < b.MaxLat; y++ {
			centre := orb.Point{(float64(x) + 0.5) * s, (float64(y) + 0.5) * s}
			if planar.PolygonContains(poly, centre) {
				out = append(out, squareCell(level, x, y))
			}
		}
	}
	return out
}

func (squareGrid) Neighbors(c hexgrid.Cell) []hexgrid.Cell {
	level, x, y := squareDecode(c)
	out := make([]hexgrid.Cell, 0, 9)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			out = append(out, squareCell(level, x+dx, y+dy))
		}
	}
	return out
}

func (squareGrid) Centroid(c hexgrid.Cell) geom.Coordinate {
	level, x, y := squareDecode(c)
	s := squareSize(level)
	return geom.Coordinate{(float64(x) + 0.5) * s, (float64(y) + 0.5) * s}
}

func (squareGrid) PointCell(c geom.Coordinate, level int) hexgrid.Cell {
	s := squareSize(level)
	return squareCell(level, int(math.Floor(c[0]/s)), int(math.Floor(c[1]/s)))
}
