// Package cover computes adaptive multi-resolution grid coverings of records.
//
// A polygon is refined level by level from the coarsest requested resolution
// to the finest. At each intermediate level the cells whose whole 1-ring lies
// inside the fill are kept at that level and carved out of the polygon as
// holes; the remaining boundary band is handed to the next, finer level. At
// the finest level every filled cell is kept and the band is closed with
// one ring of padding cells that never displaces an existing binding.
//
// Padding skips cells centred inside one of the record's own holes, so hole
// edges are left open: parts of the polygon within half a cell of a hole may
// not be covered by any cell.
package cover

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/beetlebugorg/geoconv/internal/geom"
	"github.com/beetlebugorg/geoconv/internal/hexgrid"
	"github.com/beetlebugorg/geoconv/internal/store"
)

// Coverer turns records into a cell→attributes mapping.
type Coverer struct {
	grid hexgrid.Grid
	opts Options
	log  log.FieldLogger
}

// New returns a coverer over grid. Levels are validated here.
func New(grid hexgrid.Grid, opts Options) (*Coverer, error) {
	if err := opts.Levels.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	return &Coverer{grid: grid, opts: opts, log: opts.Logger}, nil
}

// Levels returns the resolution interval the coverer refines over.
func (c *Coverer) Levels() Levels {
	return c.opts.Levels
}

// Cover covers every record and returns the combined result.
//
// Records are processed concurrently. When the coverings of two records share
// a cell, the record processed last owns it; with more than one worker that
// order is unspecified.
func (c *Coverer) Cover(ctx context.Context, records []store.Record) (*Result, Stats, error) {
	res := NewResult()
	collector := newStatsCollector()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)

	for i, rec := range records {
		g.Go(func() error {
			rs, err := c.coverRecord(gctx, rec, res)
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			collector.add(rs)

			c.log.WithFields(log.Fields{
				"record": i,
				"type":   rec.Geometry.Type,
				"cells":  rs.total(),
			}).Debug("covered record")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}
	return res, collector.stats, nil
}

// coverRecord dispatches on the geometry type. Unknown types are skipped.
func (c *Coverer) coverRecord(ctx context.Context, rec store.Record, res *Result) (recordStats, error) {
	switch rec.Geometry.Type {
	case geom.GeometryTypePoint:
		return c.coverPoint(rec, res), nil
	case geom.GeometryTypePolygon:
		return c.coverPolygon(ctx, rec, res)
	default:
		return recordStats{}, nil
	}
}

// coverPoint resolves a point at the finest level only.
func (c *Coverer) coverPoint(rec store.Record, res *Result) recordStats {
	level := c.opts.Levels.Max
	res.Set(c.grid.PointCell(rec.Geometry.Point, level), rec.Attributes)

	rs := recordStats{kind: geom.GeometryTypePoint}
	rs.emit(level, 1)
	return rs
}

// coverPolygon runs the level-by-level refinement for one polygon.
//
// Each level works on its own (shell, holes) snapshot; the record's geometry
// is never modified.
func (c *Coverer) coverPolygon(ctx context.Context, rec store.Record, res *Result) (recordStats, error) {
	rs := recordStats{kind: geom.GeometryTypePolygon}
	levels := c.opts.Levels
	attrs := rec.Attributes
	shell := rec.Geometry.Shell
	holes := rec.Geometry.Holes

	for level := levels.Min; level < levels.Max; level++ {
		if err := ctx.Err(); err != nil {
			return rs, err
		}

		filled := c.grid.Fill(shell, holes, level)
		interior, err := c.interior(ctx, filled)
		if err != nil {
			return rs, err
		}
		if len(interior) == 0 {
			continue
		}

		res.SetAll(interior, attrs)
		rs.emit(level, len(interior))

		next := make([]geom.Ring, len(holes), len(holes)+len(interior))
		copy(next, holes)
		for _, cell := range interior {
			next = append(next, c.grid.Boundary(cell).OrientedAgainst(shell))
		}
		holes = next
	}

	if err := ctx.Err(); err != nil {
		return rs, err
	}

	level := levels.Max
	accepted := c.grid.Fill(shell, holes, level)
	if len(accepted) == 0 && rs.total() == 0 {
		accepted = c.vertexCells(shell, level)
		rs.fallback = len(accepted) > 0
	}

	res.SetAll(accepted, attrs)
	rs.emit(level, len(accepted))

	padded, err := c.pad(ctx, accepted, newHoleSet(rec.Geometry.Holes), attrs, res)
	if err != nil {
		return rs, err
	}
	rs.padded = padded
	return rs, nil
}

// interior returns the filled cells whose self-inclusive 1-ring is entirely
// part of the fill, in fill order.
func (c *Coverer) interior(ctx context.Context, filled []hexgrid.Cell) ([]hexgrid.Cell, error) {
	set := make(map[hexgrid.Cell]struct{}, len(filled))
	for _, cell := range filled {
		set[cell] = struct{}{}
	}

	return c.collect(ctx, filled, func(cell hexgrid.Cell, out []hexgrid.Cell) []hexgrid.Cell {
		for _, n := range c.grid.Neighbors(cell) {
			if _, ok := set[n]; !ok {
				return out
			}
		}
		return append(out, cell)
	})
}

// pad inserts the 1-ring of every accepted cell without overwriting existing
// bindings. Neighbours centred inside one of the record's own holes are left out.
func (c *Coverer) pad(ctx context.Context, accepted []hexgrid.Cell, holes holeSet, attrs store.Attributes, res *Result) (int, error) {
	own := make(map[hexgrid.Cell]struct{}, len(accepted))
	for _, cell := range accepted {
		own[cell] = struct{}{}
	}

	candidates, err := c.collect(ctx, accepted, func(cell hexgrid.Cell, out []hexgrid.Cell) []hexgrid.Cell {
		for _, n := range c.grid.Neighbors(cell) {
			if _, ok := own[n]; ok {
				continue
			}
			if !holes.empty() && holes.contains(c.grid.Centroid(n)) {
				continue
			}
			out = append(out, n)
		}
		return out
	})
	if err != nil {
		return 0, err
	}

	return res.PadAll(candidates, attrs), nil
}

// vertexCells returns the distinct cells holding the shell's vertices.
func (c *Coverer) vertexCells(shell geom.Ring, level int) []hexgrid.Cell {
	seen := make(map[hexgrid.Cell]struct{}, len(shell))
	out := make([]hexgrid.Cell, 0, len(shell))
	for _, v := range shell {
		cell := c.grid.PointCell(v, level)
		if _, ok := seen[cell]; ok {
			continue
		}
		seen[cell] = struct{}{}
		out = append(out, cell)
	}
	return out
}

// collect applies fn to every cell, splitting large inputs into chunks that
// are evaluated concurrently. Chunk outputs are concatenated in input order.
func (c *Coverer) collect(ctx context.Context, cells []hexgrid.Cell, fn func(hexgrid.Cell, []hexgrid.Cell) []hexgrid.Cell) ([]hexgrid.Cell, error) {
	size := c.opts.ChunkSize
	if len(cells) <= size || c.opts.Workers == 1 {
		var out []hexgrid.Cell
		for _, cell := range cells {
			out = fn(cell, out)
		}
		return out, nil
	}

	parts := make([][]hexgrid.Cell, (len(cells)+size-1)/size)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i := range parts {
		lo := i * size
		hi := min(lo+size, len(cells))
		g.Go(func() error {
			var out []hexgrid.Cell
			for _, cell := range cells[lo:hi] {
				out = fn(cell, out)
			}
			parts[i] = out
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]hexgrid.Cell, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

// holeSet answers point-in-hole queries for a record's original holes.
type holeSet struct {
	rings  []orb.Ring
	bounds []geom.Bounds
}

func newHoleSet(holes []geom.Ring) holeSet {
	hs := holeSet{
		rings:  make([]orb.Ring, 0, len(holes)),
		bounds: make([]geom.Bounds, 0, len(holes)),
	}
	for _, h := range holes {
		hs.rings = append(hs.rings, orb.Ring(h))
		hs.bounds = append(hs.bounds, h.Bounds())
	}
	return hs
}

func (hs holeSet) empty() bool { return len(hs.rings) == 0 }

func (hs holeSet) contains(p geom.Coordinate) bool {
	for i, r := range hs.rings {
		if !hs.bounds[i].Contains(p[0], p[1]) {
			continue
		}
		if planar.RingContains(r, p) {
			return true
		}
	}
	return false
}
