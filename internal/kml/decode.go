// Package kml flattens KML documents into records and writes records back out
// as a single KML Document.
//
// Decoding walks every Document and Folder transitively. Each container's
// placemarks are converted as an independent unit of work; per-container
// results are merged in traversal order so the record order is stable.
// Supported placemark geometries are Point, Polygon, LinearRing (read as a
// polygon without holes) and MultiGeometry of those. Other geometries are
// dropped.
package kml

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"runtime"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/beetlebugorg/geoconv/internal/geom"
	"github.com/beetlebugorg/geoconv/internal/store"
)

// Options controls decoding.
type Options struct {
	// Workers is the number of containers converted concurrently.
	// If 0, defaults to runtime.NumCPU().
	Workers int

	// Logger receives debug output. Defaults to the standard logger.
	Logger log.FieldLogger
}

// DefaultOptions returns options with one worker per CPU.
func DefaultOptions() Options {
	return Options{
		Workers: runtime.NumCPU(),
		Logger:  log.WithField("prefix", "kml"),
	}
}

// Decode reads a KML document and flattens it into a store.
func Decode(ctx context.Context, r io.Reader, opts Options) (*store.Store, error) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = log.WithField("prefix", "kml")
	}

	var doc root
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse kml: %w", err)
	}

	units := collectUnits(&doc)
	if units == nil {
		return nil, &ErrEmptyDocument{}
	}
	opts.Logger.WithField("containers", len(units)).Debug("collected kml containers")

	results := make([][]store.Record, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, unit := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var out []store.Record
			for j := range unit {
				recs, err := flattenPlacemark(&unit[j])
				if err != nil {
					return fmt.Errorf("container %d placemark %d: %w", i, j, err)
				}
				out = append(out, recs...)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := store.New()
	for _, recs := range results {
		s.Add(recs...)
	}
	return s, nil
}

// collectUnits walks the container tree depth first with an explicit stack and
// returns the placemarks of each container in visiting order. It returns nil
// when the document has no top-level feature.
func collectUnits(doc *root) [][]placemark {
	var stack []*container
	switch {
	case doc.Document != nil:
		stack = append(stack, doc.Document)
	case doc.Folder != nil:
		stack = append(stack, doc.Folder)
	case doc.Placemark != nil:
		return [][]placemark{{*doc.Placemark}}
	default:
		return nil
	}

	units := [][]placemark{}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(c.Placemarks) > 0 {
			units = append(units, c.Placemarks)
		}
		// Nested documents are visited before folders, each group in document
		// order.
		for i := len(c.Folders) - 1; i >= 0; i-- {
			stack = append(stack, &c.Folders[i])
		}
		for i := len(c.Documents) - 1; i >= 0; i-- {
			stack = append(stack, &c.Documents[i])
		}
	}
	return units
}

// flattenPlacemark extracts a placemark's attributes and converts its
// geometry into records sharing them. Points without exactly one coordinate
// and polygons with an open or short ring are dropped.
func flattenPlacemark(pm *placemark) ([]store.Record, error) {
	attrs := placemarkAttributes(pm)

	var base multiGeometry
	if pm.Point != nil {
		base.Points = append(base.Points, *pm.Point)
	}
	if pm.Polygon != nil {
		base.Polygons = append(base.Polygons, *pm.Polygon)
	}
	if pm.LinearRing != nil {
		base.LinearRings = append(base.LinearRings, *pm.LinearRing)
	}
	if pm.Multi != nil {
		base.Multi = append(base.Multi, *pm.Multi)
	}

	var out []store.Record
	stack := []*multiGeometry{&base}
	for len(stack) > 0 {
		mg := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, p := range mg.Points {
			c, ok, err := parsePoint(p.Coordinates)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, store.Record{Geometry: geom.NewPoint(c), Attributes: attrs})
			}
		}
		for i := range mg.Polygons {
			g, ok, err := convertPolygon(&mg.Polygons[i])
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, store.Record{Geometry: g, Attributes: attrs})
			}
		}
		for _, lr := range mg.LinearRings {
			shell, ok, err := parseRing(lr.Coordinates)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, store.Record{Geometry: geom.NewPolygon(shell), Attributes: attrs})
			}
		}
		for i := len(mg.Multi) - 1; i >= 0; i-- {
			stack = append(stack, &mg.Multi[i])
		}
	}
	return out, nil
}

func convertPolygon(p *polygon) (geom.Geometry, bool, error) {
	if len(p.Outer.LinearRings) == 0 {
		return geom.Geometry{}, false, nil
	}
	shell, ok, err := parseRing(p.Outer.LinearRings[0].Coordinates)
	if err != nil || !ok {
		return geom.Geometry{}, false, err
	}

	var holes []geom.Ring
	for _, b := range p.Inner {
		for _, lr := range b.LinearRings {
			h, ok, err := parseRing(lr.Coordinates)
			if err != nil || !ok {
				return geom.Geometry{}, false, err
			}
			holes = append(holes, h)
		}
	}
	return geom.NewPolygon(shell, holes...), true, nil
}

// placemarkAttributes copies every named extended data value, then the
// standard placemark fields that are present so they win on a name clash.
func placemarkAttributes(pm *placemark) store.Attributes {
	attrs := store.Attributes{}
	if ed := pm.ExtendedData; ed != nil {
		for _, d := range ed.Data {
			if d.Name != "" {
				attrs[d.Name] = d.Value
			}
		}
		for _, sd := range ed.SchemaData {
			for _, d := range sd.SimpleData {
				if d.Name != "" {
					attrs[d.Name] = d.Value
				}
			}
		}
	}

	if pm.Name != nil {
		attrs["name"] = *pm.Name
	}
	if pm.Address != nil {
		attrs["address"] = *pm.Address
	}
	if pm.ID != "" {
		attrs["id"] = pm.ID
	}
	if pm.Description != nil {
		attrs["description"] = *pm.Description
	}
	if pm.PhoneNumber != nil {
		attrs["phoneNumber"] = *pm.PhoneNumber
	}
	return attrs
}
