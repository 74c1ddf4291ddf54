package cover

import (
	"runtime"

	log "github.com/sirupsen/logrus"
)

// Options controls covering resolution and parallelism.
type Options struct {
	// Levels is the resolution interval. Polygons are refined from Levels.Min
	// to Levels.Max; points always use Levels.Max.
	Levels Levels

	// Workers is the number of records covered concurrently, and the number of
	// chunks classified concurrently within one level.
	// If 0, defaults to runtime.NumCPU(). Use 1 for a deterministic run.
	Workers int

	// ChunkSize is the number of filled cells above which classification and
	// padding of a single level are split across workers.
	ChunkSize int

	// Logger receives per-record debug output. Defaults to the standard logger.
	Logger log.FieldLogger
}

// DefaultOptions returns options covering at level 9 with one worker per CPU.
func DefaultOptions() Options {
	return Options{
		Levels:    Single(9),
		Workers:   runtime.NumCPU(),
		ChunkSize: 4096,
		Logger:    log.WithField("prefix", "cover"),
	}
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = 4096
	}
	if o.Logger == nil {
		o.Logger = log.WithField("prefix", "cover")
	}
	return o
}
