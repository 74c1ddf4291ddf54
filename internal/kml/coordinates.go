package kml

import (
	"strconv"
	"strings"

	"github.com/beetlebugorg/geoconv/internal/geom"
)

// parseCoordinates parses whitespace separated lon,lat[,alt] tuples.
// Altitudes are discarded. Empty text yields no coordinates.
func parseCoordinates(s string) ([]geom.Coordinate, error) {
	tuples := strings.Fields(s)
	out := make([]geom.Coordinate, 0, len(tuples))
	for _, t := range tuples {
		parts := strings.Split(t, ",")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, &ErrInvalidCoordinates{Value: s, Reason: "tuple " + strconv.Quote(t) + " is not lon,lat[,alt]"}
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, &ErrInvalidCoordinates{Value: s, Reason: "longitude " + strconv.Quote(parts[0]) + " is not a number"}
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, &ErrInvalidCoordinates{Value: s, Reason: "latitude " + strconv.Quote(parts[1]) + " is not a number"}
		}
		out = append(out, geom.Coordinate{lon, lat})
	}
	return out, nil
}

// parsePoint reports false when s does not hold exactly one coordinate.
func parsePoint(s string) (geom.Coordinate, bool, error) {
	cs, err := parseCoordinates(s)
	if err != nil || len(cs) != 1 {
		return geom.Coordinate{}, false, err
	}
	return cs[0], true, nil
}

// parseRing reports false when the ring is open or has fewer than four
// positions.
func parseRing(s string) (geom.Ring, bool, error) {
	cs, err := parseCoordinates(s)
	if err != nil {
		return nil, false, err
	}
	r := geom.Ring(cs)
	return r, r.IsValid(), nil
}

func formatCoordinates(cs []geom.Coordinate) string {
	var b strings.Builder
	for i, c := range cs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(c[0], 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(c[1], 'f', -1, 64))
	}
	return b.String()
}
