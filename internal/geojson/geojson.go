// Package geojson flattens GeoJSON documents into records and writes records
// back out as a FeatureCollection.
package geojson

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/beetlebugorg/geoconv/internal/geom"
	"github.com/beetlebugorg/geoconv/internal/store"
)

const (
	typeFeature           = "Feature"
	typeFeatureCollection = "FeatureCollection"
)

// ErrUnsupportedRoot indicates a document whose root is neither a Feature nor
// a FeatureCollection
type ErrUnsupportedRoot struct {
	Kind string
}

func (e *ErrUnsupportedRoot) Error() string {
	if e.Kind == "" {
		return "unsupported geojson root: missing type"
	}
	return fmt.Sprintf("unsupported geojson root %q: expected Feature or FeatureCollection", e.Kind)
}

// Decode reads a GeoJSON document and flattens its features into a store.
//
// Polygon and Point geometries become one record each; MultiPolygon and
// MultiPoint become one record per member, and GeometryCollections are
// flattened recursively. Every record of a feature carries the feature's
// properties. Other geometry types are dropped.
func Decode(r io.Reader) (*store.Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read geojson: %w", err)
	}

	var root struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	var features []*geojson.Feature
	switch root.Type {
	case typeFeature:
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("parse geojson feature: %w", err)
		}
		features = []*geojson.Feature{f}
	case typeFeatureCollection:
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse geojson feature collection: %w", err)
		}
		features = fc.Features
	default:
		return nil, &ErrUnsupportedRoot{Kind: root.Type}
	}

	s := store.New()
	for _, f := range features {
		s.Add(Flatten(f.Geometry, attributes(f.Properties))...)
	}
	return s, nil
}

// Flatten converts g into point and polygon records sharing attrs.
// A nil geometry yields no records, and polygons with an open or degenerate
// ring are dropped.
func Flatten(g orb.Geometry, attrs store.Attributes) []store.Record {
	var out []store.Record

	stack := []orb.Geometry{g}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch v := cur.(type) {
		case orb.Point:
			out = append(out, store.Record{Geometry: geom.NewPoint(v), Attributes: attrs})
		case orb.MultiPoint:
			for _, p := range v {
				out = append(out, store.Record{Geometry: geom.NewPoint(p), Attributes: attrs})
			}
		case orb.Polygon:
			if pg, ok := geom.FromOrbPolygon(v); ok {
				out = append(out, store.Record{Geometry: pg, Attributes: attrs})
			}
		case orb.MultiPolygon:
			for _, p := range v {
				if pg, ok := geom.FromOrbPolygon(p); ok {
					out = append(out, store.Record{Geometry: pg, Attributes: attrs})
				}
			}
		case orb.Collection:
			// Pushed in reverse so members are visited in document order.
			for i := len(v) - 1; i >= 0; i-- {
				stack = append(stack, v[i])
			}
		}
	}
	return out
}

func attributes(p geojson.Properties) store.Attributes {
	attrs := make(store.Attributes, len(p))
	for k, v := range p {
		attrs[k] = v
	}
	return attrs
}

// Encode writes the records of s as a FeatureCollection, one feature per
// record with the record's attributes as properties.
func Encode(w io.Writer, s *store.Store, indent bool) error {
	fc := geojson.NewFeatureCollection()
	for _, r := range s.Records() {
		f := geojson.NewFeature(r.Geometry.Orb())
		for k, v := range r.Attributes {
			f.Properties[k] = v
		}
		fc.Append(f)
	}

	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(fc, "", "  ")
	} else {
		data, err = json.Marshal(fc)
	}
	if err != nil {
		return fmt.Errorf("marshal geojson: %w", err)
	}

	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	return nil
}
