package cellcsv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/geoconv/internal/cover"
	"github.com/beetlebugorg/geoconv/internal/geom"
	"github.com/beetlebugorg/geoconv/internal/hexgrid"
	"github.com/beetlebugorg/geoconv/internal/store"
)

// unitBoundaries maps cell n to the unit square at (n, 0). Cell 0 is invalid.
type unitBoundaries struct{}

func (unitBoundaries) Valid(c hexgrid.Cell) bool { return c != 0 }

func (unitBoundaries) Boundary(c hexgrid.Cell) geom.Ring {
	x := float64(c)
	return geom.Ring{{x, 0}, {x + 1, 0}, {x + 1, 1}, {x, 1}, {x, 0}}
}

func TestParseColumns(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Columns
		wantErr bool
	}{
		{"index only", "index", Columns{"index"}, false},
		{"trims names", " index , Name ,_", Columns{"index", "Name", "_"}, false},
		{"missing index", "name,kind", nil, true},
		{"duplicate index", "index,name,index", nil, true},
		{"empty name", "index,,name", nil, true},
		{"case sensitive index", "INDEX,name", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColumns(tt.input)
			if tt.wantErr {
				var invalid *ErrInvalidColumns
				assert.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColumnsIndexPos(t *testing.T) {
	assert.Equal(t, 2, Columns{"_", "name", "index", "kind"}.IndexPos())
	assert.Equal(t, 0, Columns{"index"}.IndexPos())
}

func TestEncode(t *testing.T) {
	res := cover.NewResult()
	res.Set(0x8928308280fffff, store.Attributes{"name": "Sq", "depth": 12.5})
	res.Set(0x10, store.Attributes{"name": "with, comma"})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, res, Columns{"index", "name", "_", "depth"}))

	want := "10,\"with, comma\",,\n" +
		"8928308280fffff,Sq,,12.5\n"
	assert.Equal(t, want, buf.String())
}

func TestDecode(t *testing.T) {
	input := "1f,Lake,ignored,fresh\n0x20,River,x,flowing,extra\n"

	s, err := Decode(strings.NewReader(input), Columns{"index", "name", "_", "kind"}, unitBoundaries{})
	require.NoError(t, err)

	records := s.Records()
	require.Len(t, records, 2)

	assert.Equal(t, store.Attributes{"name": "Lake", "kind": "fresh"}, records[0].Attributes)
	assert.Equal(t, store.Attributes{"name": "River", "kind": "flowing"}, records[1].Attributes)

	g := records[0].Geometry
	assert.True(t, g.IsPolygon())
	assert.Empty(t, g.Holes)
	assert.True(t, g.Shell.IsClosed())
	assert.Equal(t, geom.Coordinate{31, 0}, g.Shell[0])
}

func TestDecodeErrors(t *testing.T) {
	cols := Columns{"index", "name"}

	t.Run("invalid cell", func(t *testing.T) {
		_, err := Decode(strings.NewReader("1f,ok\nnothex,bad\n"), cols, unitBoundaries{})
		var invalid *ErrInvalidCell
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, 2, invalid.Row)
		assert.Equal(t, "nothex", invalid.Value)
	})

	t.Run("unknown cell", func(t *testing.T) {
		_, err := Decode(strings.NewReader("1f,ok\n2,ok\n0,zero\n"), cols, unitBoundaries{})
		var invalid *ErrInvalidCell
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, 3, invalid.Row)
		assert.Equal(t, "0", invalid.Value)
		assert.ErrorIs(t, err, ErrUnknownCell)
	})

	t.Run("short row", func(t *testing.T) {
		_, err := Decode(strings.NewReader("1f\n"), cols, unitBoundaries{})
		var short *ErrShortRow
		require.ErrorAs(t, err, &short)
		assert.Equal(t, 1, short.Fields)
		assert.Equal(t, 2, short.Expected)
	})

	t.Run("invalid columns", func(t *testing.T) {
		_, err := Decode(strings.NewReader("1f,a\n"), Columns{"name"}, unitBoundaries{})
		var invalid *ErrInvalidColumns
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestSkipColumnRoundTrip(t *testing.T) {
	cols := Columns{"name", "_", "index", "kind"}

	res := cover.NewResult()
	res.Set(1, store.Attributes{"name": "a", "kind": "x", "secret": "hidden"})
	res.Set(2, store.Attributes{"name": "b", "kind": "y"})
	res.Set(3, store.Attributes{"name": "c"})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, res, cols))

	s, err := Decode(&buf, cols, unitBoundaries{})
	require.NoError(t, err)

	records := s.Records()
	require.Len(t, records, 3)
	assert.Equal(t, store.Attributes{"name": "a", "kind": "x"}, records[0].Attributes)
	assert.Equal(t, store.Attributes{"name": "b", "kind": "y"}, records[1].Attributes)
	assert.Equal(t, store.Attributes{"name": "c", "kind": ""}, records[2].Attributes)

	for _, r := range records {
		assert.NotContains(t, r.Attributes, "_")
		assert.NotContains(t, r.Attributes, "secret")
	}
}
