package geoconv

// Usage is the full command line help printed on usage and path errors.
const Usage = `Usage:
   geoconv [flags] <input> <output> <input-path> <output-path>

Inputs:
   * json                 GeoJSON
   * kml                  KML
   * h3(columns)          CSV of H3 cell indexes with attributes

Outputs:
   * json
   * kml
   * h3(levels,columns)

Flags:
   -c <file>              configuration file (yaml)
   -workers <n>           concurrent workers, 0 for one per CPU
   -bbox <minLon,minLat,maxLon,maxLat>
                          only convert geometries intersecting the box
   -indent                indent json and kml output

General notes:
   * the output file is overwritten without a prompt
   * input and output formats must be different, and only one may be h3
   * all geometries are extracted from their grouping wrappers such as
     features or folders and flattened to polygons (keeping holes) and points
   * polygons with an open ring or fewer than four positions are skipped

GeoJSON notes:
   * supported geometry types are Polygon, Point, MultiPolygon, MultiPoint
     and GeometryCollections of those

KML notes:
   * supported geometry types are Polygon, Point, LinearRing and
     MultiGeometry inside a Placemark
   * supported attributes are name, address, id, description, phoneNumber;
     all others are read from and written to ExtendedData

H3 notes:
   * columns is a comma separated list of unique attribute names
   * the only mandatory column is index, a hexadecimal cell identifier
   * use _ (a single underscore) to skip a column
   * levels is a resolution from 0 to 15, or two resolutions such as 7-9
     to keep polygon interiors at 7 and refine boundaries down to 9
   * polygon edges are padded with one ring of cells at the finest
     resolution, except along holes: cells centred in a hole are not
     padded, so the band just inside a hole edge may be left uncovered
`
