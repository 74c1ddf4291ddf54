package geoconv

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/h3-go/v3"

	"github.com/beetlebugorg/geoconv/internal/cellcsv"
	"github.com/beetlebugorg/geoconv/internal/geojson"
	"github.com/beetlebugorg/geoconv/internal/geom"
	"github.com/beetlebugorg/geoconv/internal/hexgrid"
)

const squareGeoJSON = `{
  "type": "Feature",
  "properties": {"name": "Sq"},
  "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 1], [0, 0]]]}
}`

const twoFeatures = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "west"},
     "geometry": {"type": "Polygon", "coordinates": [[[-10, 0], [-9, 0], [-9, 1], [-10, 0]]]}},
    {"type": "Feature", "properties": {"name": "east", "description": "far"},
     "geometry": {"type": "Point", "coordinates": [20, 5]}}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func quietOptions() Options {
	opts := DefaultOptions()
	opts.Workers = 2
	return opts
}

func run(t *testing.T, args []string, opts Options) (Summary, error) {
	t.Helper()
	job, err := ParseArgs(args)
	require.NoError(t, err)
	return Run(context.Background(), job, opts)
}

func TestRunGeoJSONToKML(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.json", twoFeatures)
	out := filepath.Join(dir, "out.kml")

	sum, err := run(t, []string{"json", "kml", in, out}, quietOptions())
	require.NoError(t, err)
	assert.Equal(t, Summary{Records: 2, Points: 1, Polygons: 1}, sum)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<name>west</name>")
	assert.Contains(t, string(data), "<description>far</description>")
	assert.Contains(t, string(data), "<coordinates>20,5</coordinates>")
}

func TestRunKMLToGeoJSON(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.kml", `<kml><Document><Folder>
	  <Placemark><name>a</name><Point><coordinates>1,2</coordinates></Point></Placemark>
	  <Placemark><name>b</name><Point><coordinates>3,4</coordinates></Point></Placemark>
	</Folder></Document></kml>`)
	out := filepath.Join(dir, "out.json")

	opts := quietOptions()
	opts.Indent = true
	_, err := run(t, []string{"kml", "json", in, out}, opts)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	s, err := geojson.Decode(f)
	require.NoError(t, err)
	records := s.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Attributes["name"])
	assert.Equal(t, geom.Coordinate{3, 4}, records[1].Geometry.Point)
}

func TestRunBoundsFilter(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.json", twoFeatures)
	out := filepath.Join(dir, "out.kml")

	b, err := ParseBounds("15,0,25,10")
	require.NoError(t, err)
	opts := quietOptions()
	opts.Bounds = &b

	sum, err := run(t, []string{"json", "kml", in, out}, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Records)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "west")
	assert.Contains(t, string(data), "east")
}

func TestRunCellsToGeoJSON(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", "8928308280fffff,skipped,Lake\n")
	out := filepath.Join(dir, "out.json")

	sum, err := run(t, []string{"h3(index,_,name)", "json", in, out}, quietOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Polygons)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	s, err := geojson.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	rec := s.Records()[0]
	assert.Equal(t, "Lake", rec.Attributes["name"])
	assert.NotContains(t, rec.Attributes, "_")
	assert.True(t, rec.Geometry.Shell.IsClosed())
	assert.Len(t, rec.Geometry.Shell, 7)
}

func TestRunPathErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.json", squareGeoJSON)

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "missing input", in: filepath.Join(dir, "nope.json"), out: filepath.Join(dir, "out.kml")},
		{name: "input is a directory", in: dir, out: filepath.Join(dir, "out.kml")},
		{name: "output is a directory", in: in, out: dir},
		{name: "output parent missing", in: in, out: filepath.Join(dir, "missing", "out.kml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, []string{"json", "kml", tt.in, tt.out}, quietOptions())
			var pathErr *PathError
			assert.ErrorAs(t, err, &pathErr)
		})
	}
}

func TestRunDataErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", "8928308280fffff,ok\nzzz,bad\n")
	out := filepath.Join(dir, "out.kml")

	_, err := run(t, []string{"h3(index,name)", "kml", in, out}, quietOptions())
	var invalid *cellcsv.ErrInvalidCell
	require.ErrorAs(t, err, &invalid)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "in.csv", entries[0].Name())
}

func TestRunUnsupportedRootKeepsOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.json", `{"type": "Point", "coordinates": [1, 2]}`)
	out := writeFile(t, dir, "out.kml", "previous")

	_, err := run(t, []string{"json", "kml", in, out}, quietOptions())
	var unsupported *geojson.ErrUnsupportedRoot
	require.ErrorAs(t, err, &unsupported)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func readCells(t *testing.T, path string) map[hexgrid.Cell][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	out := make(map[hexgrid.Cell][]string, len(rows))
	for _, row := range rows {
		c, err := hexgrid.ParseCell(row[0])
		require.NoError(t, err)
		require.Equal(t, strings.ToLower(row[0]), row[0])
		out[c] = row
	}
	return out
}

func TestRunSquareToCells(t *testing.T) {
	if testing.Short() {
		t.Skip("covers a 1 degree box at resolution 9")
	}

	dir := t.TempDir()
	in := writeFile(t, dir, "sq.json", squareGeoJSON)
	out := filepath.Join(dir, "sq.csv")

	sum, err := run(t, []string{"json", "h3(9,index,name)", in, out}, DefaultOptions())
	require.NoError(t, err)

	cells := readCells(t, out)
	assert.Equal(t, sum.Cells, len(cells))
	for _, row := range cells {
		require.Equal(t, []string{row[0], "Sq"}, row)
	}

	grid := hexgrid.NewH3()
	for lon := 0.005; lon < 1; lon += 0.01 {
		for lat := 0.005; lat < 1; lat += 0.01 {
			c := grid.PointCell(geom.Coordinate{lon, lat}, 9)
			_, ok := cells[c]
			require.True(t, ok, "point (%f, %f) not covered", lon, lat)
		}
	}
	for c := range cells {
		assert.Equal(t, 9, h3.Resolution(h3.H3Index(c)))
	}
}

func TestRunSquareRangeUsesFewerCells(t *testing.T) {
	if testing.Short() {
		t.Skip("covers a 1 degree box at resolution 9")
	}

	dir := t.TempDir()
	in := writeFile(t, dir, "sq.json", squareGeoJSON)

	single, err := run(t, []string{"json", "h3(9,index)", in, filepath.Join(dir, "single.csv")}, DefaultOptions())
	require.NoError(t, err)

	ranged, err := run(t, []string{"json", "h3(8-9,index,name)", in, filepath.Join(dir, "ranged.csv")}, DefaultOptions())
	require.NoError(t, err)
	assert.Less(t, ranged.Cells, single.Cells)

	cells := readCells(t, filepath.Join(dir, "ranged.csv"))
	levels := map[int]int{}
	for c := range cells {
		levels[h3.Resolution(h3.H3Index(c))]++
	}
	assert.Positive(t, levels[8])
	assert.Positive(t, levels[9])
}
