package hexgrid

import (
	"github.com/uber/h3-go/v3"

	"github.com/beetlebugorg/geoconv/internal/geom"
)

// H3 implements Grid with Uber's H3 library.
//
// h3-go works in degrees with (latitude, longitude) ordering; conversion to the
// (longitude, latitude) model happens here and nowhere else.
type H3 struct{}

// NewH3 returns the H3 grid.
func NewH3() H3 {
	return H3{}
}

// Boundary implements Grid.
func (H3) Boundary(c Cell) geom.Ring {
	boundary := h3.ToGeoBoundary(h3.H3Index(c))

	ring := make(geom.Ring, 0, len(boundary)+1)
	for _, v := range boundary {
		ring = append(ring, geom.Coordinate{v.Longitude, v.Latitude})
	}
	return ring.Close()
}

// Fill implements Grid using H3 polyfill (cells whose centre lies inside the polygon).
func (H3) Fill(shell geom.Ring, holes []geom.Ring, level int) []Cell {
	gp := h3.GeoPolygon{
		Geofence: toGeoCoords(shell),
		Holes:    make([][]h3.GeoCoord, 0, len(holes)),
	}
	for _, hole := range holes {
		gp.Holes = append(gp.Holes, toGeoCoords(hole))
	}

	return fromIndexes(h3.Polyfill(gp, level))
}

// Neighbors implements Grid.
func (H3) Neighbors(c Cell) []Cell {
	return fromIndexes(h3.KRing(h3.H3Index(c), 1))
}

// PointCell implements Grid.
func (H3) PointCell(c geom.Coordinate, level int) Cell {
	return Cell(h3.FromGeo(h3.GeoCoord{Latitude: c[1], Longitude: c[0]}, level))
}

// Centroid implements Grid.
func (H3) Centroid(c Cell) geom.Coordinate {
	g := h3.ToGeo(h3.H3Index(c))
	return geom.Coordinate{g.Longitude, g.Latitude}
}

// Valid reports whether c is a valid H3 cell.
func (H3) Valid(c Cell) bool {
	return h3.IsValid(h3.H3Index(c))
}

func toGeoCoords(r geom.Ring) []h3.GeoCoord {
	out := make([]h3.GeoCoord, 0, len(r))
	for _, c := range r {
		out = append(out, h3.GeoCoord{Latitude: c[1], Longitude: c[0]})
	}
	return out
}

// fromIndexes drops the zero entries the library leaves in sparse outputs.
func fromIndexes(idx []h3.H3Index) []Cell {
	out := make([]Cell, 0, len(idx))
	for _, h := range idx {
		if h == 0 {
			continue
		}
		out = append(out, Cell(h))
	}
	return out
}
