package table

import (
	"fmt"
	"math"
	"sort"
)

// Distribution is a normalized cumulative distribution over the first axis.
type Distribution struct {
	// Grid holds the n+1 bin borders.
	Grid []float64
	// Cumulative holds the n+1 normalized cumulative values; the first is 0
	// and the last is 1.
	Cumulative []float64
	// Norm is the integral of the quantity over the grid.
	Norm float64
}

// CDF builds the cumulative distribution of the quantity along the first axis
// over [xmin, xmax], with the remaining axes fixed at the given values.
//
// If the range contains at least minBins grid points of the first axis, the
// result grid consists of xmin, the axis grid points strictly inside the
// range, and xmax. Otherwise a grid of max(1, minBins) bins is built, with
// logarithmic spacing when the first axis is logarithmic and linear spacing
// otherwise.
//
// The integral uses the quantity value at the left border of each bin. The
// returned cumulative values are normalized by norm unless norm is zero, in
// which case they are returned as computed.
//
// CDF panics if len(fixed) is not NumAxes-1.
func (v *View) CDF(xmin, xmax float64, minBins int, fixed ...float64) (grid, cumulative []float64, norm float64) {
	v.mustBeOpen()
	if len(fixed) != len(v.axes)-1 {
		panic(fmt.Sprintf("table: %s: %d fixed coordinates for %d axes", v.path, len(fixed), len(v.axes)))
	}

	grid = v.cdfGrid(xmin, xmax, max(1, minBins))
	n := len(grid) - 1

	coords := make([]float64, len(v.axes))
	copy(coords[1:], fixed)

	cumulative = make([]float64, n+1)
	for i := 0; i < n; i++ {
		coords[0] = grid[i]
		cumulative[i+1] = cumulative[i] + v.Value(coords...)*(grid[i+1]-grid[i])
	}

	norm = cumulative[n]
	if norm != 0 {
		for i := range cumulative {
			cumulative[i] /= norm
		}
	}
	return grid, cumulative, norm
}

func (v *View) cdfGrid(xmin, xmax float64, bins int) []float64 {
	a := &v.axes[0]
	minRight := sort.SearchFloat64s(a.grid, xmin)
	maxRight := sort.SearchFloat64s(a.grid, xmax)

	if minRight+bins <= maxRight {
		grid := make([]float64, 0, maxRight-minRight+2)
		grid = append(grid, xmin)
		for _, x := range a.grid[minRight:maxRight] {
			if x > xmin {
				grid = append(grid, x)
			}
		}
		return append(grid, xmax)
	}
	if a.log {
		return BuildLogGrid(xmin, xmax, bins)
	}
	return BuildLinearGrid(xmin, xmax, bins)
}

// Distribution is like CDF but returns ErrEmptyDistribution when the quantity
// integrates to zero over the range.
func (v *View) Distribution(xmin, xmax float64, minBins int, fixed ...float64) (*Distribution, error) {
	grid, cumulative, norm := v.CDF(xmin, xmax, minBins, fixed...)
	if norm == 0 {
		return nil, fmt.Errorf("%w: %s in %s over [%g, %g]",
			ErrEmptyDistribution, v.quantity.Spec(), v.path, xmin, xmax)
	}
	return &Distribution{Grid: grid, Cumulative: cumulative, Norm: norm}, nil
}

// Bins returns the number of bins.
func (d *Distribution) Bins() int { return len(d.Grid) - 1 }

// Sample maps a uniform deviate u in [0, 1] to a first-axis value by
// inverting the cumulative distribution, linearly within a bin.
func (d *Distribution) Sample(u float64) float64 {
	c := d.Cumulative
	i := sort.Search(len(c), func(i int) bool { return c[i] > u })
	switch i {
	case 0:
		return d.Grid[0]
	case len(c):
		return d.Grid[len(d.Grid)-1]
	}
	x1, x2 := d.Grid[i-1], d.Grid[i]
	return x1 + (u-c[i-1])/(c[i]-c[i-1])*(x2-x1)
}

// BuildLinearGrid returns n+1 equally spaced points from xmin to xmax.
// The first and last points equal xmin and xmax exactly.
func BuildLinearGrid(xmin, xmax float64, n int) []float64 {
	n = max(1, n)
	grid := make([]float64, n+1)
	dx := (xmax - xmin) / float64(n)
	for i := range grid {
		grid[i] = xmin + float64(i)*dx
	}
	grid[n] = xmax
	return grid
}

// BuildLogGrid returns n+1 logarithmically spaced points from xmin to xmax,
// both of which must be positive. The first and last points equal xmin and
// xmax exactly.
func BuildLogGrid(xmin, xmax float64, n int) []float64 {
	n = max(1, n)
	grid := make([]float64, n+1)
	lmin := math.Log10(xmin)
	dl := (math.Log10(xmax) - lmin) / float64(n)
	for i := range grid {
		grid[i] = math.Pow(10, lmin+float64(i)*dl)
	}
	grid[0] = xmin
	grid[n] = xmax
	return grid
}
