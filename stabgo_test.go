package stabgo_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/stabgo"
	"github.com/hupe1980/stabgo/blobstore"
	"github.com/hupe1980/stabgo/format"
	"github.com/hupe1980/stabgo/registry"
)

func sedTable() *format.Table {
	return &format.Table{
		Axes:       []format.AxisDef{{Name: "x", Unit: "1", Points: []float64{1, 2, 4, 8}}},
		Quantities: []format.QuantityDef{{Name: "y", Unit: "1"}},
		Values:     []float64{10, 20, 40, 80},
	}
}

func opticalTable() *format.Table {
	return format.NewTable(
		[]format.AxisDef{
			{Name: "lambda", Unit: "m", Scale: format.Logarithmic, Points: []float64{1e-7, 1e-6, 1e-5, 1e-4}},
			{Name: "a", Unit: "m", Scale: format.Logarithmic, Points: []float64{1e-9, 1e-8, 1e-7}},
		},
		[]format.QuantityDef{
			{Name: "Qabs", Unit: "1", Scale: format.Logarithmic},
			{Name: "Qsca", Unit: "1", Scale: format.Logarithmic},
		},
		func(q int, x []float64) float64 { return float64(q+1) * x[1] / x[0] },
	)
}

func resourceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, format.WriteFile(filepath.Join(dir, "sed.stab"), sedTable()))
	require.NoError(t, format.WriteFile(filepath.Join(dir, "optical.stab"), opticalTable()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.stab"), []byte("SKIRT X2 is not a table"), 0o644))
	return dir
}

func TestLibrary_Open(t *testing.T) {
	ctx := context.Background()
	metrics := &stabgo.BasicMetricsCollector{}
	lib, err := stabgo.New(
		stabgo.WithSearchPaths(resourceDir(t)),
		stabgo.WithMetricsCollector(metrics),
	)
	require.NoError(t, err)
	defer lib.Close()

	sed, err := lib.Open(ctx, "sed", "x(1)", "y(1)")
	require.NoError(t, err)
	assert.Equal(t, "sed", sed.Name())
	assert.Equal(t, 30.0, sed.Value(3))
	assert.Equal(t, 10.0, sed.Value(0.5))
	assert.Equal(t, 80.0, sed.Value1(100))

	qsca, err := lib.Open(ctx, "optical", "lambda(m),a(m)", "Qsca(1)")
	require.NoError(t, err)
	assert.InEpsilon(t, 2*3e-8/5e-6, qsca.Value(5e-6, 3e-8), 1e-9)

	// a second quantity of the same file shares its mapping
	qabs, err := lib.Open(ctx, "optical.stab", "lambda(m),a(m)", "Qabs(1)")
	require.NoError(t, err)
	st := lib.Stats()
	assert.Equal(t, 2, st.Mappings)
	assert.Equal(t, 3, st.References)

	require.NoError(t, qabs.Close())
	require.NoError(t, qabs.Close())
	assert.InEpsilon(t, 2*3e-8/5e-6, qsca.Value(5e-6, 3e-8), 1e-9)

	require.NoError(t, qsca.Close())
	require.NoError(t, sed.Close())
	assert.Zero(t, lib.Stats().Mappings)

	stats := metrics.GetStats()
	assert.Equal(t, int64(3), stats.OpenCount)
	assert.Zero(t, stats.OpenErrors)
	assert.Zero(t, stats.OpenTables)
}

func TestLibrary_OpenErrors(t *testing.T) {
	ctx := context.Background()
	dir := resourceDir(t)
	lib, err := stabgo.New(stabgo.WithSearchPaths(dir))
	require.NoError(t, err)
	defer lib.Close()

	tests := []struct {
		name     string
		table    string
		axes     string
		quantity string
		target   error
	}{
		{"unknown name", "nope", "x(1)", "y(1)", stabgo.ErrNotFound},
		{"axis unit", "optical", "lambda(m),a(cm)", "Qabs(1)", stabgo.ErrSchemaMismatch},
		{"axis count", "optical", "lambda(m)", "Qabs(1)", stabgo.ErrSchemaMismatch},
		{"quantity", "optical", "lambda(m),a(m)", "Qext(1)", stabgo.ErrQuantityNotFound},
		{"bad magic", "broken", "x(1)", "y(1)", stabgo.ErrFormat},
		{"bad spec", "sed", "x[1]", "y(1)", stabgo.ErrInvalidSpec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := lib.Open(ctx, tt.table, tt.axes, tt.quantity)
			require.ErrorIs(t, err, tt.target)
			assert.Nil(t, tbl)

			var oe *stabgo.OpenError
			require.True(t, errors.As(err, &oe))
			assert.Equal(t, tt.table, oe.Name)
			assert.Zero(t, lib.Stats().Mappings, "failed opens keep no mapping")
		})
	}

	t.Run("mismatch detail", func(t *testing.T) {
		_, err := lib.Open(ctx, "optical", "lambda(m),a(cm)", "Qabs(1)")
		var me *format.MismatchError
		require.True(t, errors.As(err, &me))
		assert.Equal(t, 1, me.Axis)
		assert.Contains(t, err.Error(), filepath.Join(dir, "optical.stab"))
	})

	t.Run("truncated", func(t *testing.T) {
		data, err := format.Encode(sedTable())
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "short.stab"), data[:len(data)-9], 0o644))
		_, err = lib.Open(ctx, "short", "x(1)", "y(1)")
		assert.ErrorIs(t, err, stabgo.ErrTruncatedFile)
	})
}

func TestLibrary_OpenAll(t *testing.T) {
	ctx := context.Background()
	lib, err := stabgo.New(stabgo.WithSearchPaths(resourceDir(t)), stabgo.WithOpenConcurrency(2))
	require.NoError(t, err)
	defer lib.Close()

	tables, err := lib.OpenAll(ctx, []stabgo.Request{
		{Name: "sed", Axes: "x(1)", Quantity: "y(1)"},
		{Name: "optical", Axes: "lambda(m),a(m)", Quantity: "Qabs(1)"},
		{Name: "optical", Axes: "lambda(m),a(m)", Quantity: "Qsca(1)"},
	})
	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, "Qsca", tables[2].Quantity().Name)
	for _, tbl := range tables {
		require.NoError(t, tbl.Close())
	}

	_, err = lib.OpenAll(ctx, []stabgo.Request{
		{Name: "sed", Axes: "x(1)", Quantity: "y(1)"},
		{Name: "optical", Axes: "lambda(m)", Quantity: "Qabs(1)"},
	})
	assert.ErrorIs(t, err, stabgo.ErrSchemaMismatch)
	assert.Zero(t, lib.Stats().References, "all or nothing")
}

func TestLibrary_Distribution(t *testing.T) {
	ctx := context.Background()
	metrics := &stabgo.BasicMetricsCollector{}
	lib, err := stabgo.New(stabgo.WithSearchPaths(resourceDir(t)), stabgo.WithMetricsCollector(metrics))
	require.NoError(t, err)
	defer lib.Close()

	sed, err := lib.Open(ctx, "sed", "x(1)", "y(1)")
	require.NoError(t, err)
	defer sed.Close()

	grid, cdf, norm := sed.CDF(1, 8, 1)
	assert.Equal(t, []float64{1, 2, 4, 8}, grid)
	assert.Equal(t, 210.0, norm)
	assert.InDeltaSlice(t, []float64{0, 10.0 / 210, 50.0 / 210, 1}, cdf, 1e-12)

	d, err := sed.Distribution(1, 8, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Bins())

	assert.Equal(t, int64(1), metrics.GetStats().DistributionCount)
	assert.Equal(t, int64(3), metrics.GetStats().DistributionBins)
}

func TestLibrary_EmptyDistribution(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, format.WriteFile(filepath.Join(dir, "dark.stab"), &format.Table{
		Axes:       []format.AxisDef{{Name: "x", Unit: "1", Points: []float64{1, 2}}},
		Quantities: []format.QuantityDef{{Name: "y", Unit: "1"}},
		Values:     []float64{0, 0},
	}))
	lib, err := stabgo.New(stabgo.WithSearchPaths(dir))
	require.NoError(t, err)
	defer lib.Close()

	dark, err := lib.Open(context.Background(), "dark", "x(1)", "y(1)")
	require.NoError(t, err)
	defer dark.Close()

	_, err = dark.Distribution(1, 2, 10)
	assert.ErrorIs(t, err, stabgo.ErrEmptyDistribution)
}

func TestLibrary_Inspect(t *testing.T) {
	lib, err := stabgo.New(stabgo.WithSearchPaths(resourceDir(t)))
	require.NoError(t, err)
	defer lib.Close()

	hdr, err := lib.Inspect(context.Background(), "optical")
	require.NoError(t, err)
	assert.Equal(t, "lambda(m),a(m) -> Qabs(1),Qsca(1)", hdr.String())
	assert.Zero(t, lib.Stats().Mappings)

	_, err = lib.Inspect(context.Background(), "broken")
	assert.ErrorIs(t, err, stabgo.ErrFormat)
}

func TestLibrary_BlobStore(t *testing.T) {
	ctx := context.Background()
	data, err := format.Encode(sedTable())
	require.NoError(t, err)

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "catalog/sed.stab.zst", enc.EncodeAll(data, nil)))
	require.NoError(t, enc.Close())

	lib, err := stabgo.New(
		stabgo.WithBlobStore(store, t.TempDir()),
		stabgo.WithFetchLimits(2, 0),
		stabgo.WithAccessPattern(registry.AccessSequential),
	)
	require.NoError(t, err)
	defer lib.Close()

	sed, err := lib.Open(ctx, "catalog/sed", "x(1)", "y(1)")
	require.NoError(t, err)
	defer sed.Close()
	assert.Equal(t, 30.0, sed.Value(3))

	_, err = lib.Open(ctx, "catalog/none", "x(1)", "y(1)")
	assert.ErrorIs(t, err, stabgo.ErrNotFound)
}

func TestLibrary_MappedBytesLimit(t *testing.T) {
	lib, err := stabgo.New(stabgo.WithSearchPaths(resourceDir(t)), stabgo.WithMappedBytesLimit(64))
	require.NoError(t, err)
	defer lib.Close()

	_, err = lib.Open(context.Background(), "optical", "lambda(m),a(m)", "Qabs(1)")
	assert.ErrorIs(t, err, stabgo.ErrIO)
}

func TestLibrary_SharedRegistry(t *testing.T) {
	ctx := context.Background()
	dir := resourceDir(t)
	reg := registry.New()

	lib1, err := stabgo.New(stabgo.WithSearchPaths(dir), stabgo.WithRegistry(reg))
	require.NoError(t, err)
	lib2, err := stabgo.New(stabgo.WithSearchPaths(dir), stabgo.WithRegistry(reg))
	require.NoError(t, err)

	t1, err := lib1.Open(ctx, "sed", "x(1)", "y(1)")
	require.NoError(t, err)
	t2, err := lib2.Open(ctx, "sed", "x(1)", "y(1)")
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Stats().Mappings)

	require.NoError(t, lib1.Close())
	assert.Equal(t, 30.0, t2.Value(3), "a shared registry outlives the library")

	_, err = lib1.Open(ctx, "sed", "x(1)", "y(1)")
	assert.ErrorIs(t, err, stabgo.ErrClosed)

	require.NoError(t, t1.Close())
	require.NoError(t, t2.Close())
	require.NoError(t, lib2.Close())
	assert.Zero(t, reg.Stats().Mappings)
}

func TestLibrary_CloseWithOpenTables(t *testing.T) {
	ctx := context.Background()
	lib, err := stabgo.New(stabgo.WithSearchPaths(resourceDir(t)))
	require.NoError(t, err)

	sed, err := lib.Open(ctx, "sed", "x(1)", "y(1)")
	require.NoError(t, err)

	require.NoError(t, lib.Close())
	assert.Equal(t, 30.0, sed.Value(3))
	d, err := sed.Distribution(1, 8, 1)
	require.NoError(t, err)
	assert.Equal(t, 210.0, d.Norm)
	assert.Equal(t, 1, lib.Stats().Mappings)

	_, err = lib.Open(ctx, "sed", "x(1)", "y(1)")
	assert.ErrorIs(t, err, stabgo.ErrClosed)

	require.NoError(t, sed.Close())
	assert.Zero(t, lib.Stats().Mappings)
}

func TestTable_CloseAfterViewClose(t *testing.T) {
	lib, err := stabgo.New(stabgo.WithSearchPaths(resourceDir(t)))
	require.NoError(t, err)
	defer lib.Close()

	sed, err := lib.Open(context.Background(), "sed", "x(1)", "y(1)")
	require.NoError(t, err)

	require.NoError(t, sed.View.Close())
	assert.NotPanics(t, func() { require.NoError(t, sed.Close()) })
	assert.Zero(t, lib.Stats().Mappings)
}

func TestLibrary_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := stabgo.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dir := resourceDir(t)
	lib, err := stabgo.New(stabgo.WithSearchPaths(dir), stabgo.WithLogger(logger))
	require.NoError(t, err)
	defer lib.Close()

	_, err = lib.Open(context.Background(), "broken", "x(1)", "y(1)")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"table open failed"`)
	assert.Contains(t, out, `"name":"broken"`)
	assert.Contains(t, out, filepath.Join(dir, "broken.stab"))
}
