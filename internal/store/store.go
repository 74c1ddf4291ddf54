// Package store holds the canonical geometry and attribute model built from
// an input document.
//
// A Store is populated once, possibly by several goroutines, and is read-only
// afterwards. Records are kept in a plain list: two geometrically identical
// polygons with different attributes are two records.
package store

import (
	"sync"

	"github.com/beetlebugorg/geoconv/internal/geom"
)

// Attributes maps an attribute name to its value. Values are strings or
// opaque values decoded from the input document, propagated verbatim.
type Attributes map[string]interface{}

// String returns the value of key rendered as a string, and whether the key exists.
func (a Attributes) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok {
		return "", false
	}
	return formatValue(v), true
}

// Record is one geometry together with its attributes.
type Record struct {
	Geometry   geom.Geometry
	Attributes Attributes
}

// Store is an ordered collection of records.
type Store struct {
	mu      sync.Mutex
	records []Record

	indexOnce sync.Once
	index     *spatialIndex
}

// New returns a store holding the given records.
func New(records ...Record) *Store {
	return &Store{records: records}
}

// Add appends records to the store. Safe for concurrent use while the store is
// being populated; must not be called once readers have started.
func (s *Store) Add(records ...Record) {
	s.mu.Lock()
	s.records = append(s.records, records...)
	s.mu.Unlock()
}

// Records returns the stored records. The returned slice must not be modified.
func (s *Store) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Counts returns the number of point and polygon records.
func (s *Store) Counts() (points, polygons int) {
	for _, r := range s.Records() {
		switch r.Geometry.Type {
		case geom.GeometryTypePoint:
			points++
		case geom.GeometryTypePolygon:
			polygons++
		}
	}
	return points, polygons
}

// Bounds returns the union of all record bounds.
func (s *Store) Bounds() geom.Bounds {
	records := s.Records()
	if len(records) == 0 {
		return geom.Bounds{}
	}
	b := records[0].Geometry.Bounds()
	for _, r := range records[1:] {
		b = b.Union(r.Geometry.Bounds())
	}
	return b
}
