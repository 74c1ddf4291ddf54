// Package geoconv converts geospatial datasets between GeoJSON, KML and an H3
// cell index encoded as CSV.
//
// Vector inputs are flattened into points and polygons; holes are kept and
// every record carries the attributes of the feature or placemark it came from.
// Converting to cells computes an adaptive covering: polygon interiors stay at
// a coarse resolution and only the boundary band is refined down to the finest
// requested resolution.
//
// # Basic Usage
//
//	job, err := geoconv.ParseArgs([]string{"json", "h3(9,index,name)", "in.geojson", "out.csv"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summary, err := geoconv.Run(ctx, job, geoconv.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("wrote %d cells for %d records\n", summary.Cells, summary.Records)
//
// # Format Selectors
//
// Formats are chosen with selectors, matched case-insensitively:
//
//	json                 GeoJSON Feature or FeatureCollection
//	kml                  KML document
//	h3(index,name,_)     cell CSV input: one column per field, "_" skips a field
//	h3(9,index,name)     cell CSV output at resolution 9
//	h3(7-9,index,name)   cell CSV output refined from resolution 7 to 9
//
// Column names keep their case. Exactly one column must be named index; it
// holds the cell identifier as lowercase hexadecimal.
//
// # Multi-Resolution Coverings
//
// With a resolution range, cells whose whole neighbourhood lies inside the
// polygon are emitted at the coarsest level and cut out of the polygon. What
// remains is refined at the next level until the finest one, where the
// boundary is closed with one ring of padding cells. Padding never replaces a
// cell already bound to a record:
//
//	job, _ := geoconv.ParseArgs([]string{"kml", "h3(5:8,index,name,description)", "zones.kml", "zones.csv"})
//
// Points always resolve to a single cell at the finest level.
//
// # Restricting the Area
//
// Options.Bounds limits the conversion to records whose bounding box
// intersects a query box. The check uses an R-tree built over the decoded
// records:
//
//	b, _ := geoconv.ParseBounds("-71.5,42.0,-71.0,42.5")
//	opts := geoconv.DefaultOptions()
//	opts.Bounds = &b
//
// # Errors
//
// Run and ParseArgs return *UsageError for malformed selectors or arguments
// and *PathError for unusable input or output paths. Anything else is a data
// error from decoding the input. The output file is only replaced once the
// whole conversion has succeeded.
package geoconv
