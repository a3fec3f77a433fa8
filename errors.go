package stabgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/stabgo/blobstore"
	"github.com/hupe1980/stabgo/format"
	"github.com/hupe1980/stabgo/registry"
	"github.com/hupe1980/stabgo/resource"
	"github.com/hupe1980/stabgo/table"
)

var (
	// ErrIO is returned when a table file cannot be opened, fetched or mapped.
	ErrIO = errors.New("i/o error")
	// ErrFormat is returned for a wrong magic or endianness tag.
	ErrFormat = errors.New("not a stored table")
	// ErrTruncatedFile is returned when the file length does not match its header.
	ErrTruncatedFile = errors.New("truncated stored table")
	// ErrSchemaMismatch is returned when the file's axes differ from the requested ones.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrQuantityNotFound is returned when the file has no matching quantity.
	ErrQuantityNotFound = errors.New("quantity not found")
	// ErrMalformedData is returned for invalid grids or scale tags.
	ErrMalformedData = errors.New("malformed data")
	// ErrEmptyDistribution is returned when a distribution integrates to zero.
	ErrEmptyDistribution = errors.New("empty distribution")
	// ErrNotFound is returned when a table name cannot be resolved.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSpec is returned for malformed axis or quantity specifications.
	ErrInvalidSpec = errors.New("invalid specification")
	// ErrClosed is returned when using a closed Library.
	ErrClosed = errors.New("library closed")
)

// OpenError reports a failed Library.Open.
//
// Err matches the package sentinels; the original underlying error can be
// reached via errors.Unwrap.
type OpenError struct {
	Name string
	// Path is empty when the name could not be resolved.
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("open table %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("open table %q (%s): %v", e.Name, e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

var sentinels = []struct {
	layer, public error
}{
	{format.ErrFormat, ErrFormat},
	{format.ErrTruncatedFile, ErrTruncatedFile},
	{format.ErrSchemaMismatch, ErrSchemaMismatch},
	{format.ErrQuantityNotFound, ErrQuantityNotFound},
	{format.ErrMalformedData, ErrMalformedData},
	{format.ErrInvalidSpec, ErrInvalidSpec},
	{table.ErrEmptyDistribution, ErrEmptyDistribution},
	{resource.ErrNotFound, ErrNotFound},
	{blobstore.ErrNotFound, ErrNotFound},
	{registry.ErrIO, ErrIO},
}

// translatedError matches a public sentinel while keeping the message of the
// layer error, which already names the category.
type translatedError struct {
	public error
	err    error
}

func (e *translatedError) Error() string { return e.err.Error() }

func (e *translatedError) Unwrap() []error { return []error{e.public, e.err} }

func translateError(err error) error {
	if err == nil {
		return nil
	}
	for _, s := range sentinels {
		if errors.Is(err, s.layer) {
			return &translatedError{public: s.public, err: err}
		}
	}
	return err
}
