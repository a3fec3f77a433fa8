package format

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFormat is returned when the magic/version or endianness tag does not match.
	ErrFormat = errors.New("stored table: format tag mismatch")
	// ErrTruncatedFile is returned when the file length is inconsistent with the
	// sizes declared in the header, including a missing end-of-file tag.
	ErrTruncatedFile = errors.New("stored table: truncated file")
	// ErrSchemaMismatch is returned when the axis count, names or units differ
	// from the caller's expectation.
	ErrSchemaMismatch = errors.New("stored table: schema mismatch")
	// ErrQuantityNotFound is returned when no quantity in the file matches the
	// requested name and unit.
	ErrQuantityNotFound = errors.New("stored table: quantity not found")
	// ErrMalformedData is returned for invalid items: non-increasing grids,
	// grids with fewer than two points, unknown scale tags or unprintable strings.
	ErrMalformedData = errors.New("stored table: malformed data")
	// ErrInvalidSpec is returned when an axis or quantity specification string
	// does not follow the "name(unit)" syntax.
	ErrInvalidSpec = errors.New("stored table: invalid specification")
)

// MismatchError describes a difference between the caller's expectation and
// the header of a stored table.
//
// It wraps ErrSchemaMismatch or ErrQuantityNotFound.
type MismatchError struct {
	// Axis is the zero-based axis index, or -1 for axis-count and quantity mismatches.
	Axis     int
	Expected string
	Found    string
	cause    error
}

func (e *MismatchError) Error() string {
	switch {
	case errors.Is(e.cause, ErrQuantityNotFound):
		return fmt.Sprintf("%v: expected %s, file has %s", e.cause, e.Expected, e.Found)
	case e.Axis < 0:
		return fmt.Sprintf("%v: expected %s axes, found %s", e.cause, e.Expected, e.Found)
	default:
		return fmt.Sprintf("%v: axis %d: expected %s, found %s", e.cause, e.Axis, e.Expected, e.Found)
	}
}

func (e *MismatchError) Unwrap() error { return e.cause }

func joinSpecs(specs []Spec) string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}
