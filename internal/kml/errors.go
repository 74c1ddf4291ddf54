package kml

import "fmt"

// ErrInvalidCoordinates indicates a coordinates element that is not a list of
// lon,lat[,alt] tuples
type ErrInvalidCoordinates struct {
	Value  string
	Reason string
}

func (e *ErrInvalidCoordinates) Error() string {
	return fmt.Sprintf("invalid kml coordinates %q: %s", truncate(e.Value, 64), e.Reason)
}

// ErrEmptyDocument indicates a kml element without a Document, Folder or Placemark
type ErrEmptyDocument struct{}

func (e *ErrEmptyDocument) Error() string {
	return "kml document has no Document, Folder or Placemark"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
