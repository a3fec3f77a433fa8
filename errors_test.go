package stabgo

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/stabgo/blobstore"
	"github.com/hupe1980/stabgo/format"
	"github.com/hupe1980/stabgo/registry"
	"github.com/hupe1980/stabgo/resource"
	"github.com/hupe1980/stabgo/table"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	tests := []struct {
		in   error
		want error
	}{
		{fmt.Errorf("parse: %w", format.ErrFormat), ErrFormat},
		{format.ErrTruncatedFile, ErrTruncatedFile},
		{&table.OpenError{Path: "/t/q.stab", Err: format.ErrSchemaMismatch}, ErrSchemaMismatch},
		{format.ErrQuantityNotFound, ErrQuantityNotFound},
		{format.ErrMalformedData, ErrMalformedData},
		{format.ErrInvalidSpec, ErrInvalidSpec},
		{table.ErrEmptyDistribution, ErrEmptyDistribution},
		{resource.ErrNotFound, ErrNotFound},
		{blobstore.ErrNotFound, ErrNotFound},
		{fmt.Errorf("%w: /t/q.stab: boom", registry.ErrIO), ErrIO},
	}
	for _, tt := range tests {
		got := translateError(tt.in)
		assert.ErrorIs(t, got, tt.want, "%v", tt.in)
		assert.ErrorIs(t, got, tt.in, "the layer error stays reachable")
		assert.Equal(t, tt.in.Error(), got.Error())
	}

	// the category appears once
	mismatch := translateError(fmt.Errorf("%w: axis 1: expected a(cm), found a(m)", format.ErrSchemaMismatch))
	assert.Equal(t, 1, strings.Count(mismatch.Error(), "schema mismatch"))

	other := errors.New("other")
	assert.Same(t, other, translateError(other))
}
