package cover

import (
	"sync"

	"github.com/beetlebugorg/geoconv/internal/geom"
)

// Stats summarizes one covering run. Cell counts are insertions, so cells
// shared by several records are counted once per record.
type Stats struct {
	Points    int
	Polygons  int
	Skipped   int         // records of an unknown geometry type
	Emitted   map[int]int // level → cells inserted unconditionally
	Padded    int         // cells inserted by edge-closure padding
	Fallbacks int         // polygons smaller than one cell, covered by their vertices
}

// recordStats is what covering a single record contributes.
type recordStats struct {
	kind     geom.GeometryType
	emitted  map[int]int
	padded   int
	fallback bool
}

func (s *recordStats) emit(level, n int) {
	if s.emitted == nil {
		s.emitted = make(map[int]int)
	}
	s.emitted[level] += n
}

func (s *recordStats) total() int {
	n := 0
	for _, v := range s.emitted {
		n += v
	}
	return n + s.padded
}

type statsCollector struct {
	mu    sync.Mutex
	stats Stats
}

func newStatsCollector() *statsCollector {
	return &statsCollector{stats: Stats{Emitted: make(map[int]int)}}
}

func (c *statsCollector) add(rs recordStats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch rs.kind {
	case geom.GeometryTypePoint:
		c.stats.Points++
	case geom.GeometryTypePolygon:
		c.stats.Polygons++
	default:
		c.stats.Skipped++
	}
	for level, n := range rs.emitted {
		c.stats.Emitted[level] += n
	}
	c.stats.Padded += rs.padded
	if rs.fallback {
		c.stats.Fallbacks++
	}
}
