package kml

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/beetlebugorg/geoconv/internal/geom"
	"github.com/beetlebugorg/geoconv/internal/store"
)

// Encode writes the records of s as placemarks of a single Document.
//
// Attributes named name, address, id, description and phoneNumber (matched
// case-insensitively) fill the placemark fields of the same name; all other
// attributes are written as ExtendedData in key order.
func Encode(w io.Writer, s *store.Store, indent bool) error {
	doc := root{Xmlns: Namespace, Document: &container{}}
	for _, r := range s.Records() {
		doc.Document.Placemarks = append(doc.Document.Placemarks, encodePlacemark(r))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write kml: %w", err)
	}
	enc := xml.NewEncoder(w)
	if indent {
		enc.Indent("", "  ")
	}
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("write kml: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write kml: %w", err)
	}
	return nil
}

func encodePlacemark(r store.Record) placemark {
	var pm placemark

	keys := make([]string, 0, len(r.Attributes))
	for k := range r.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var ed extendedData
	for _, k := range keys {
		v, _ := r.Attributes.String(k)
		switch strings.ToLower(k) {
		case "name":
			pm.Name = &v
		case "address":
			pm.Address = &v
		case "id":
			pm.ID = v
		case "description":
			pm.Description = &v
		case "phonenumber":
			pm.PhoneNumber = &v
		default:
			ed.Data = append(ed.Data, data{Name: k, Value: v})
		}
	}
	if len(ed.Data) > 0 {
		pm.ExtendedData = &ed
	}

	switch r.Geometry.Type {
	case geom.GeometryTypePoint:
		pm.Point = &point{Coordinates: formatCoordinates([]geom.Coordinate{r.Geometry.Point})}
	case geom.GeometryTypePolygon:
		pg := &polygon{Outer: boundary{LinearRings: []linearRing{{Coordinates: formatCoordinates(r.Geometry.Shell)}}}}
		for _, h := range r.Geometry.Holes {
			pg.Inner = append(pg.Inner, boundary{LinearRings: []linearRing{{Coordinates: formatCoordinates(h)}}})
		}
		pm.Polygon = pg
	}
	return pm
}
