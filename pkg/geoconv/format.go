package geoconv

import (
	"errors"
	"strconv"
	"strings"

	"github.com/beetlebugorg/geoconv/internal/cellcsv"
	"github.com/beetlebugorg/geoconv/internal/cover"
)

// Kind identifies a file format.
type Kind int

const (
	KindGeoJSON Kind = iota + 1
	KindKML
	KindCells
)

func (k Kind) String() string {
	switch k {
	case KindGeoJSON:
		return "json"
	case KindKML:
		return "kml"
	case KindCells:
		return "h3"
	default:
		return "unknown"
	}
}

// Format is a parsed format selector. Columns is set for KindCells; Levels
// only for a cell output.
type Format struct {
	Kind    Kind
	Columns []string
	Levels  Levels

	hasLevels bool
}

// Levels is the resolution interval of a cell output.
type Levels = cover.Levels

func (f Format) String() string {
	if f.Kind != KindCells {
		return f.Kind.String()
	}
	var b strings.Builder
	b.WriteString("h3(")
	if f.hasLevels {
		b.WriteString(f.Levels.String())
		b.WriteByte(',')
	}
	b.WriteString(strings.Join(f.Columns, ","))
	b.WriteByte(')')
	return b.String()
}

// ParseInput parses an input selector: json, kml or h3(col,...).
func ParseInput(s string) (Format, error) {
	f, inner, err := parseKind(s)
	if err != nil || f.Kind != KindCells {
		return f, err
	}
	cols, err := parseColumns(inner)
	if err != nil {
		return Format{}, err
	}
	f.Columns = cols
	return f, nil
}

// ParseOutput parses an output selector: json, kml or h3(levels,col,...)
// where levels is a single level or two levels separated by '-' or ':'.
func ParseOutput(s string) (Format, error) {
	f, inner, err := parseKind(s)
	if err != nil || f.Kind != KindCells {
		return f, err
	}

	first, rest, ok := strings.Cut(inner, ",")
	if !ok {
		return Format{}, usagef("%q needs a resolution and at least the index column", s)
	}
	levels, err := parseLevels(strings.TrimSpace(first))
	if err != nil {
		return Format{}, err
	}
	cols, err := parseColumns(rest)
	if err != nil {
		return Format{}, err
	}
	f.Levels = levels
	f.Columns = cols
	f.hasLevels = true
	return f, nil
}

// parseKind matches the selector kind case-insensitively and returns the text
// between the parentheses of an h3 selector with its case preserved.
func parseKind(s string) (Format, string, error) {
	t := strings.TrimSpace(s)
	lower := strings.ToLower(t)
	switch {
	case lower == "json":
		return Format{Kind: KindGeoJSON}, "", nil
	case lower == "kml":
		return Format{Kind: KindKML}, "", nil
	case strings.HasPrefix(lower, "h3(") && strings.HasSuffix(t, ")"):
		return Format{Kind: KindCells}, t[len("h3(") : len(t)-1], nil
	default:
		return Format{}, "", usagef("unknown format %q", s)
	}
}

func parseColumns(s string) ([]string, error) {
	cols, err := cellcsv.ParseColumns(s)
	if err != nil {
		var invalid *cellcsv.ErrInvalidColumns
		if errors.As(err, &invalid) {
			return nil, usagef("columns %q: %s", s, invalid.Reason)
		}
		return nil, err
	}
	return cols, nil
}

func parseLevels(s string) (Levels, error) {
	a, b, isRange := strings.Cut(s, "-")
	if !isRange {
		a, b, isRange = strings.Cut(s, ":")
	}

	lo, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return Levels{}, usagef("resolution %q is not an integer", s)
	}
	levels := cover.Single(lo)
	if isRange {
		hi, err := strconv.Atoi(strings.TrimSpace(b))
		if err != nil {
			return Levels{}, usagef("resolution %q is not an integer range", s)
		}
		levels = cover.Range(lo, hi)
	}

	if err := levels.Validate(); err != nil {
		var invalid *cover.ErrInvalidLevels
		if errors.As(err, &invalid) {
			return Levels{}, usagef("resolution %q: %s", s, invalid.Reason)
		}
		return Levels{}, err
	}
	return levels, nil
}
