// Package geom holds the canonical geometry model shared by every codec and the coverer.
//
// Coordinates are (longitude, latitude) pairs in decimal degrees, stored in
// GeoJSON order. No range validation is performed: values are handed to the
// hex-grid library as they are.
package geom

import (
	"fmt"

	"github.com/paulmach/orb"
)

// GeometryType identifies which variant a Geometry holds.
type GeometryType int

const (
	// GeometryTypePoint is a single coordinate.
	GeometryTypePoint GeometryType = iota + 1
	// GeometryTypePolygon is a shell ring with zero or more hole rings.
	GeometryTypePolygon
)

// String returns the GeoJSON-style name of the geometry type.
func (t GeometryType) String() string {
	switch t {
	case GeometryTypePoint:
		return "Point"
	case GeometryTypePolygon:
		return "Polygon"
	default:
		return fmt.Sprintf("GeometryType(%d)", int(t))
	}
}

// Coordinate is a longitude/latitude pair. X is longitude, Y is latitude.
type Coordinate = orb.Point

// Geometry is a tagged variant: a Point or a Polygon.
//
// Only the fields matching Type are meaningful. A Polygon's Shell and Holes
// are closed rings (first coordinate equals last).
type Geometry struct {
	Type  GeometryType
	Point Coordinate
	Shell Ring
	Holes []Ring
}

// NewPoint returns a point geometry.
func NewPoint(c Coordinate) Geometry {
	return Geometry{Type: GeometryTypePoint, Point: c}
}

// NewPolygon returns a polygon geometry. Rings are closed if they are not already.
func NewPolygon(shell Ring, holes ...Ring) Geometry {
	closed := make([]Ring, 0, len(holes))
	for _, h := range holes {
		closed = append(closed, h.Close())
	}
	return Geometry{Type: GeometryTypePolygon, Shell: shell.Close(), Holes: closed}
}

// IsPoint reports whether g is a point.
func (g Geometry) IsPoint() bool { return g.Type == GeometryTypePoint }

// IsPolygon reports whether g is a polygon.
func (g Geometry) IsPolygon() bool { return g.Type == GeometryTypePolygon }

// Bounds returns the bounding box of the geometry.
func (g Geometry) Bounds() Bounds {
	if g.IsPoint() {
		return Bounds{MinLon: g.Point[0], MaxLon: g.Point[0], MinLat: g.Point[1], MaxLat: g.Point[1]}
	}
	return g.Shell.Bounds()
}

// Orb converts the geometry to its orb representation, used by emitters
// and planar predicates.
func (g Geometry) Orb() orb.Geometry {
	if g.IsPoint() {
		return g.Point
	}
	p := make(orb.Polygon, 0, len(g.Holes)+1)
	p = append(p, orb.Ring(g.Shell))
	for _, h := range g.Holes {
		p = append(p, orb.Ring(h))
	}
	return p
}

// FromOrbPolygon converts an orb polygon: ring 0 is the shell, the remaining
// rings are holes in their original order. It reports false when the polygon
// has no rings or any ring is not a valid closed ring.
func FromOrbPolygon(p orb.Polygon) (Geometry, bool) {
	if len(p) == 0 {
		return Geometry{}, false
	}
	for _, r := range p {
		if !Ring(r).IsValid() {
			return Geometry{}, false
		}
	}
	holes := make([]Ring, 0, len(p)-1)
	for _, r := range p[1:] {
		holes = append(holes, Ring(r))
	}
	return NewPolygon(Ring(p[0]), holes...), true
}
