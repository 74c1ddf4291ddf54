package store

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/beetlebugorg/geoconv/internal/geom"
)

// spatialIndex provides O(log n) bounding box queries over records using an R-tree.
type spatialIndex struct {
	rtree *rtreego.Rtree
}

// indexedRecord wraps a record position for R-tree storage.
type indexedRecord struct {
	pos    int
	bounds geom.Bounds
}

// Bounds implements rtreego.Spatial interface.
func (r *indexedRecord) Bounds() rtreego.Rect {
	return toRect(r.bounds)
}

// toRect converts bounds to an R-tree rectangle.
// R-tree requires non-zero dimensions, so points get a small epsilon
// (~11 meters at equator).
func toRect(b geom.Bounds) rtreego.Rect {
	const epsilon = 0.0001

	lonLength := b.MaxLon - b.MinLon
	latLength := b.MaxLat - b.MinLat
	if lonLength < epsilon {
		lonLength = epsilon
	}
	if latLength < epsilon {
		latLength = epsilon
	}

	rect, _ := rtreego.NewRect(rtreego.Point{b.MinLon, b.MinLat}, []float64{lonLength, latLength})
	return rect
}

// buildIndex creates the R-tree over all records (2D, min=25 children, max=50 children).
func (s *Store) buildIndex() {
	records := s.Records()
	rtree := rtreego.NewTree(2, 25, 50)
	for i, r := range records {
		rtree.Insert(&indexedRecord{pos: i, bounds: r.Geometry.Bounds()})
	}
	s.index = &spatialIndex{rtree: rtree}
}

// InBounds returns the records whose geometry bounds intersect b, in store order.
//
// The index is built on first use; the store must be fully populated by then.
func (s *Store) InBounds(b geom.Bounds) []Record {
	s.indexOnce.Do(s.buildIndex)

	spatials := s.index.rtree.SearchIntersect(toRect(b))

	positions := make([]int, 0, len(spatials))
	for _, spatial := range spatials {
		positions = append(positions, spatial.(*indexedRecord).pos)
	}
	sort.Ints(positions)

	records := s.Records()
	result := make([]Record, 0, len(positions))
	for _, pos := range positions {
		result = append(result, records[pos])
	}
	return result
}

// Filter returns a new store containing only the records intersecting b.
func (s *Store) Filter(b geom.Bounds) *Store {
	return New(s.InBounds(b)...)
}
