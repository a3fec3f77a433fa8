package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/stabgo/format"
	"github.com/hupe1980/stabgo/registry"
)

func TestView_CDFFromTableGrid(t *testing.T) {
	reg := registry.New()
	v, err := Open(reg, oneAxis(t), "x(1)", "y(1)")
	require.NoError(t, err)
	defer v.Close()

	grid, cdf, norm := v.CDF(1, 8, 1)
	assert.Equal(t, []float64{1, 2, 4, 8}, grid)
	assert.Equal(t, 210.0, norm)
	require.Len(t, cdf, 4)
	assert.Equal(t, 0.0, cdf[0])
	assert.InDelta(t, 10.0/210, cdf[1], 1e-12)
	assert.InDelta(t, 50.0/210, cdf[2], 1e-12)
	assert.Equal(t, 1.0, cdf[3])
}

func TestView_CDFInteriorRange(t *testing.T) {
	reg := registry.New()
	v, err := Open(reg, oneAxis(t), "x(1)", "y(1)")
	require.NoError(t, err)
	defer v.Close()

	grid, _, norm := v.CDF(1.5, 7, 2)
	assert.Equal(t, []float64{1.5, 2, 4, 7}, grid)
	// left-border rectangles: 15*0.5 + 20*2 + 40*3
	assert.InDelta(t, 167.5, norm, 1e-12)
}

func TestView_CDFSynthesizedGrid(t *testing.T) {
	reg := registry.New()

	t.Run("linear", func(t *testing.T) {
		v, err := Open(reg, oneAxis(t), "x(1)", "y(1)")
		require.NoError(t, err)
		defer v.Close()

		grid, cdf, norm := v.CDF(1, 8, 70)
		require.Len(t, grid, 71)
		assert.Equal(t, 1.0, grid[0])
		assert.Equal(t, 8.0, grid[70])
		assert.InDelta(t, 0.1, grid[1]-grid[0], 1e-12)
		assert.Greater(t, norm, 0.0)
		assertMonotonic(t, cdf)
	})

	t.Run("logarithmic", func(t *testing.T) {
		tbl := format.NewTable(
			[]format.AxisDef{{Name: "lambda", Unit: "m", Scale: format.Logarithmic, Points: []float64{1e-6, 1e-5, 1e-4}}},
			[]format.QuantityDef{{Name: "L", Unit: "W/m", Scale: format.Logarithmic}},
			func(_ int, x []float64) float64 { return 1 / x[0] },
		)
		v, err := Open(reg, writeTable(t, "L.stab", tbl), "lambda(m)", "L(W/m)")
		require.NoError(t, err)
		defer v.Close()

		grid, cdf, _ := v.CDF(1e-6, 1e-4, 4)
		require.Len(t, grid, 5)
		assert.Equal(t, 1e-6, grid[0])
		assert.InEpsilon(t, 1e-5, grid[2], 1e-12)
		assert.Equal(t, 1e-4, grid[4])
		assertMonotonic(t, cdf)
	})

	t.Run("zero bins", func(t *testing.T) {
		v, err := Open(reg, oneAxis(t), "x(1)", "y(1)")
		require.NoError(t, err)
		defer v.Close()

		grid, _, _ := v.CDF(2.5, 3.5, 0)
		assert.Equal(t, []float64{2.5, 3.5}, grid)
	})
}

func TestView_CDFFixedAxes(t *testing.T) {
	tbl := format.NewTable(
		[]format.AxisDef{
			{Name: "lambda", Unit: "m", Points: []float64{1, 2, 3, 4, 5}},
			{Name: "T", Unit: "K", Points: []float64{10, 100}},
		},
		[]format.QuantityDef{{Name: "B", Unit: "1"}},
		func(_ int, x []float64) float64 { return x[0] * x[1] },
	)
	reg := registry.New()
	v, err := Open(reg, writeTable(t, "B.stab", tbl), "lambda(m),T(K)", "B(1)")
	require.NoError(t, err)
	defer v.Close()

	_, cdf10, norm10 := v.CDF(1, 5, 1, 10)
	_, cdf100, norm100 := v.CDF(1, 5, 1, 100)
	assert.InDelta(t, 10*norm10, norm100, 1e-9)
	assert.InDeltaSlice(t, cdf10, cdf100, 1e-12)
	assertMonotonic(t, cdf10)
}

func TestView_Distribution(t *testing.T) {
	reg := registry.New()
	v, err := Open(reg, oneAxis(t), "x(1)", "y(1)")
	require.NoError(t, err)
	defer v.Close()

	d, err := v.Distribution(1, 8, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Bins())
	assert.Equal(t, 210.0, d.Norm)

	assert.Equal(t, 1.0, d.Sample(0))
	assert.Equal(t, 8.0, d.Sample(1))
	assert.InDelta(t, 1.5, d.Sample(5.0/210), 1e-12)
	assert.InDelta(t, 6.0, d.Sample(130.0/210), 1e-12)

	prev := d.Sample(0)
	for u := 0.01; u <= 1; u += 0.01 {
		x := d.Sample(u)
		assert.GreaterOrEqual(t, x, prev)
		prev = x
	}
}

func TestView_EmptyDistribution(t *testing.T) {
	tbl := &format.Table{
		Axes:       []format.AxisDef{{Name: "x", Unit: "1", Points: []float64{1, 2, 3}}},
		Quantities: []format.QuantityDef{{Name: "y", Unit: "1"}},
		Values:     []float64{0, 0, 5},
	}
	reg := registry.New()
	v, err := Open(reg, writeTable(t, "z.stab", tbl), "x(1)", "y(1)")
	require.NoError(t, err)
	defer v.Close()

	grid, cdf, norm := v.CDF(1, 2, 1)
	assert.Zero(t, norm)
	assert.Equal(t, []float64{1, 2}, grid)
	assert.Equal(t, []float64{0, 0}, cdf)

	_, err = v.Distribution(1, 2, 1)
	assert.ErrorIs(t, err, ErrEmptyDistribution)
}

func TestBuildGrids(t *testing.T) {
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, BuildLinearGrid(0, 1, 4))
	assert.Equal(t, []float64{2, 3}, BuildLinearGrid(2, 3, 0))

	g := BuildLogGrid(1, 1000, 3)
	require.Len(t, g, 4)
	assert.Equal(t, 1.0, g[0])
	assert.InEpsilon(t, 10.0, g[1], 1e-12)
	assert.InEpsilon(t, 100.0, g[2], 1e-12)
	assert.Equal(t, 1000.0, g[3])
}

func assertMonotonic(t *testing.T, cdf []float64) {
	t.Helper()
	require.NotEmpty(t, cdf)
	assert.Equal(t, 0.0, cdf[0])
	assert.Equal(t, 1.0, cdf[len(cdf)-1])
	for i := 1; i < len(cdf); i++ {
		assert.GreaterOrEqual(t, cdf[i], cdf[i-1], "cdf[%d]", i)
	}
}
