package cellcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/beetlebugorg/geoconv/internal/cover"
	"github.com/beetlebugorg/geoconv/internal/geom"
	"github.com/beetlebugorg/geoconv/internal/hexgrid"
	"github.com/beetlebugorg/geoconv/internal/store"
)

// Boundaries validates cells and resolves them to boundary rings.
type Boundaries interface {
	Valid(c hexgrid.Cell) bool
	Boundary(c hexgrid.Cell) geom.Ring
}

// Decode reads one polygon record per row. The polygon is the closed boundary
// of the row's cell; every attribute column is copied verbatim as a string.
// Fields beyond the last column are ignored.
func Decode(r io.Reader, cols Columns, grid Boundaries) (*store.Store, error) {
	if err := cols.Validate(); err != nil {
		return nil, err
	}
	indexPos := cols.IndexPos()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	s := store.New()
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(fields) < len(cols) {
			return nil, &ErrShortRow{Row: row, Fields: len(fields), Expected: len(cols)}
		}

		cell, err := hexgrid.ParseCell(fields[indexPos])
		if err != nil {
			return nil, &ErrInvalidCell{Row: row, Value: fields[indexPos], Err: err}
		}
		if !grid.Valid(cell) {
			return nil, &ErrInvalidCell{Row: row, Value: fields[indexPos], Err: ErrUnknownCell}
		}

		attrs := make(store.Attributes, len(cols)-1)
		for i, name := range cols {
			if name == IndexColumn || name == SkipColumn {
				continue
			}
			attrs[name] = fields[i]
		}

		s.Add(store.Record{
			Geometry:   geom.NewPolygon(grid.Boundary(cell)),
			Attributes: attrs,
		})
	}
	return s, nil
}

// Encode writes one row per cell of res in ascending cell order. The index
// column holds the cell in lowercase hexadecimal; skip columns and missing
// attributes are written as empty fields.
func Encode(w io.Writer, res *cover.Result, cols Columns) error {
	if err := cols.Validate(); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	row := make([]string, len(cols))

	var werr error
	res.Each(func(cell hexgrid.Cell, attrs store.Attributes) {
		if werr != nil {
			return
		}
		for i, name := range cols {
			switch name {
			case IndexColumn:
				row[i] = cell.String()
			case SkipColumn:
				row[i] = ""
			default:
				row[i], _ = attrs.String(name)
			}
		}
		werr = cw.Write(row)
	})
	if werr != nil {
		return fmt.Errorf("write csv: %w", werr)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
