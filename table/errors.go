package table

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDistribution is returned by Distribution when the quantity
	// integrates to zero over the requested range.
	ErrEmptyDistribution = errors.New("stored table: empty distribution")
	// ErrAlreadyOpen is returned when opening a View that is already open.
	ErrAlreadyOpen = errors.New("stored table: view already open")
)

// OpenError reports a failure to open a View. The message names the file and
// the underlying cause, e.g. the expected and found axis.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open stored table %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }
