package geoconv

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	log "github.com/sirupsen/logrus"

	"github.com/beetlebugorg/geoconv/internal/cellcsv"
	"github.com/beetlebugorg/geoconv/internal/cover"
	"github.com/beetlebugorg/geoconv/internal/geojson"
	"github.com/beetlebugorg/geoconv/internal/geom"
	"github.com/beetlebugorg/geoconv/internal/hexgrid"
	"github.com/beetlebugorg/geoconv/internal/kml"
	"github.com/beetlebugorg/geoconv/internal/store"
)

// Bounds is a longitude/latitude bounding box.
type Bounds = geom.Bounds

// ParseBounds parses "minLon,minLat,maxLon,maxLat".
func ParseBounds(s string) (Bounds, error) {
	b, err := geom.ParseBounds(s)
	if err != nil {
		return Bounds{}, &UsageError{Reason: err.Error()}
	}
	return b, nil
}

// Job describes one conversion.
type Job struct {
	Input      Format
	Output     Format
	InputPath  string
	OutputPath string
}

// ParseArgs builds a job from the four positional arguments
// <input> <output> <input-path> <output-path>.
func ParseArgs(args []string) (Job, error) {
	if len(args) != 4 {
		return Job{}, usagef("expected 4 arguments, got %d", len(args))
	}

	in, err := ParseInput(args[0])
	if err != nil {
		return Job{}, err
	}
	out, err := ParseOutput(args[1])
	if err != nil {
		return Job{}, err
	}
	if in.Kind == out.Kind {
		return Job{}, usagef("input and output formats must differ, both are %s", in.Kind)
	}

	return Job{Input: in, Output: out, InputPath: args[2], OutputPath: args[3]}, nil
}

// Options controls a conversion run.
type Options struct {
	// Workers bounds the concurrency of flattening and covering.
	// If 0, defaults to runtime.NumCPU().
	Workers int

	// Indent pretty-prints json and kml output.
	Indent bool

	// Bounds, when set, restricts the conversion to records whose bounding
	// box intersects it.
	Bounds *Bounds

	// Logger receives progress output. Defaults to the standard logger.
	Logger log.FieldLogger
}

// DefaultOptions returns options with one worker per CPU and compact output.
func DefaultOptions() Options {
	return Options{
		Workers: runtime.NumCPU(),
		Logger:  log.WithField("prefix", "geoconv"),
	}
}

// Summary reports what a run produced.
type Summary struct {
	Records  int
	Points   int
	Polygons int

	// Cells is the number of rows written for a cell output.
	Cells int
}

// Run executes job. Nothing is written to the output path unless the whole
// conversion succeeds.
func Run(ctx context.Context, job Job, opts Options) (Summary, error) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = log.WithField("prefix", "geoconv")
	}
	logger := opts.Logger

	if err := checkInput(job.InputPath); err != nil {
		return Summary{}, err
	}
	if err := checkOutput(job.OutputPath); err != nil {
		return Summary{}, err
	}

	grid := hexgrid.NewH3()

	s, err := read(ctx, job.Input, job.InputPath, grid, opts)
	if err != nil {
		return Summary{}, err
	}
	if opts.Bounds != nil {
		before := s.Len()
		s = s.Filter(*opts.Bounds)
		logger.WithFields(log.Fields{"before": before, "after": s.Len()}).Info("applied bounding box")
	}

	var sum Summary
	sum.Records = s.Len()
	sum.Points, sum.Polygons = s.Counts()
	logger.WithFields(log.Fields{
		"format":   job.Input.Kind,
		"records":  sum.Records,
		"points":   sum.Points,
		"polygons": sum.Polygons,
		"extent":   s.Bounds().String(),
	}).Info("read input")

	switch job.Output.Kind {
	case KindGeoJSON:
		err = writeAtomic(job.OutputPath, func(w io.Writer) error {
			return geojson.Encode(w, s, opts.Indent)
		})
	case KindKML:
		err = writeAtomic(job.OutputPath, func(w io.Writer) error {
			return kml.Encode(w, s, opts.Indent)
		})
	case KindCells:
		var res *cover.Result
		res, err = coverStore(ctx, s, job.Output.Levels, grid, opts)
		if err != nil {
			return sum, err
		}
		sum.Cells = res.Len()
		err = writeAtomic(job.OutputPath, func(w io.Writer) error {
			return cellcsv.Encode(w, res, job.Output.Columns)
		})
	default:
		err = usagef("unknown output format %s", job.Output.Kind)
	}
	if err != nil {
		return sum, err
	}

	logger.WithFields(log.Fields{"format": job.Output, "path": job.OutputPath}).Info("wrote output")
	return sum, nil
}

func read(ctx context.Context, f Format, path string, grid hexgrid.Grid, opts Options) (*store.Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &PathError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	r := bufio.NewReader(file)
	switch f.Kind {
	case KindGeoJSON:
		return geojson.Decode(r)
	case KindKML:
		return kml.Decode(ctx, r, kml.Options{Workers: opts.Workers, Logger: opts.Logger.WithField("prefix", "kml")})
	case KindCells:
		return cellcsv.Decode(r, f.Columns, grid)
	default:
		return nil, usagef("unknown input format %s", f.Kind)
	}
}

func coverStore(ctx context.Context, s *store.Store, levels Levels, grid hexgrid.Grid, opts Options) (*cover.Result, error) {
	copts := cover.DefaultOptions()
	copts.Levels = levels
	copts.Workers = opts.Workers
	copts.Logger = opts.Logger.WithField("prefix", "cover")

	c, err := cover.New(grid, copts)
	if err != nil {
		return nil, err
	}
	res, stats, err := c.Cover(ctx, s.Records())
	if err != nil {
		return nil, fmt.Errorf("cover: %w", err)
	}

	fields := log.Fields{
		"levels":    c.Levels().String(),
		"cells":     res.Len(),
		"padded":    stats.Padded,
		"fallbacks": stats.Fallbacks,
	}
	for level, n := range stats.Emitted {
		fields[fmt.Sprintf("level%d", level)] = n
	}
	opts.Logger.WithFields(fields).Info("covered records")
	return res, nil
}

// checkInput requires path to be a readable regular file.
func checkInput(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return &PathError{Op: "read", Path: path, Err: err}
	}
	if !fi.Mode().IsRegular() {
		return &PathError{Op: "read", Path: path, Err: errors.New("not a regular file")}
	}
	f, err := os.Open(path)
	if err != nil {
		return &PathError{Op: "read", Path: path, Err: err}
	}
	return f.Close()
}

// checkOutput requires path to be a writable regular file, or absent with an
// existing parent directory.
func checkOutput(path string) error {
	fi, err := os.Stat(path)
	switch {
	case err == nil:
		if !fi.Mode().IsRegular() {
			return &PathError{Op: "write", Path: path, Err: errors.New("not a regular file")}
		}
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return &PathError{Op: "write", Path: path, Err: err}
		}
		return f.Close()
	case errors.Is(err, os.ErrNotExist):
		dir := filepath.Dir(path)
		di, err := os.Stat(dir)
		if err != nil {
			return &PathError{Op: "write", Path: path, Err: err}
		}
		if !di.IsDir() {
			return &PathError{Op: "write", Path: path, Err: fmt.Errorf("%s is not a directory", dir)}
		}
		return nil
	default:
		return &PathError{Op: "write", Path: path, Err: err}
	}
}

// writeAtomic writes through a temporary file in the destination directory
// and renames it over path once fn and all writes have succeeded.
func writeAtomic(path string, fn func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &PathError{Op: "write", Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := fn(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return &PathError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Chmod(0o644); err != nil {
		return &PathError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &PathError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &PathError{Op: "write", Path: path, Err: err}
	}
	return nil
}
