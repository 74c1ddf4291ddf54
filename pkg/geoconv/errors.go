package geoconv

import "fmt"

// UsageError indicates malformed command line arguments. The caller should
// print Usage and exit non-zero.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Reason
}

func usagef(format string, args ...interface{}) error {
	return &UsageError{Reason: fmt.Sprintf(format, args...)}
}

// PathError indicates an input or output path that cannot be used.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}
