package geom

import (
	"strconv"
	"strings"
)

// Bounds represents a geographic bounding box in WGS-84 coordinates.
//
// Coordinates are in decimal degrees.
type Bounds struct {
	MinLon float64 // Western edge
	MaxLon float64 // Eastern edge
	MinLat float64 // Southern edge
	MaxLat float64 // Northern edge
}

// Contains returns true if the point (lon, lat) is within the bounds.
func (b Bounds) Contains(lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon &&
		lat >= b.MinLat && lat <= b.MaxLat
}

// Extend returns the smallest bounds containing b and the coordinate c.
func (b Bounds) Extend(c Coordinate) Bounds {
	lon, lat := c[0], c[1]
	if lon < b.MinLon {
		b.MinLon = lon
	}
	if lon > b.MaxLon {
		b.MaxLon = lon
	}
	if lat < b.MinLat {
		b.MinLat = lat
	}
	if lat > b.MaxLat {
		b.MaxLat = lat
	}
	return b
}

// Union returns the smallest bounds containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	return b.
		Extend(Coordinate{other.MinLon, other.MinLat}).
		Extend(Coordinate{other.MaxLon, other.MaxLat})
}

// String renders b in the form accepted by ParseBounds.
func (b Bounds) String() string {
	vals := []float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

// ParseBounds parses "minLon,minLat,maxLon,maxLat".
func ParseBounds(s string) (Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, &ErrInvalidBounds{Input: s, Reason: "expected minLon,minLat,maxLon,maxLat"}
	}

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bounds{}, &ErrInvalidBounds{Input: s, Reason: err.Error()}
		}
		v[i] = f
	}

	b := Bounds{MinLon: v[0], MinLat: v[1], MaxLon: v[2], MaxLat: v[3]}
	if b.MinLon > b.MaxLon || b.MinLat > b.MaxLat {
		return Bounds{}, &ErrInvalidBounds{Input: s, Reason: "minimum exceeds maximum"}
	}
	return b, nil
}
