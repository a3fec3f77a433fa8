package table

import (
	"fmt"
	"math"
	"sort"
)

// inlineAxes is the number of axes handled without heap allocation.
const inlineAxes = 8

// Value returns the quantity interpolated at the given axis coordinates, one
// per axis in file order. It panics if len(coords) differs from NumAxes.
func (v *View) Value(coords ...float64) float64 {
	v.mustBeOpen()
	n := len(v.axes)
	if len(coords) != n {
		panic(fmt.Sprintf("table: %s: %d coordinates for %d axes", v.path, len(coords), n))
	}

	var (
		upperBuf [inlineAxes]int
		fracBuf  [inlineAxes]float64
		upper    = upperBuf[:]
		frac     = fracBuf[:]
	)
	if n > inlineAxes {
		upper = make([]int, n)
		frac = make([]float64, n)
	}
	for k, x := range coords {
		upper[k], frac[k] = v.axes[k].locate(x)
	}
	return v.blend(upper[:n], frac[:n])
}

// Value1 is Value for single-axis tables. It panics unless NumAxes is 1.
func (v *View) Value1(x float64) float64 {
	v.mustBeOpen()
	if len(v.axes) != 1 {
		panic(fmt.Sprintf("table: %s: Value1 on a table with %d axes", v.path, len(v.axes)))
	}
	upper, frac := v.axes[0].locate(x)
	return v.blend([]int{upper}, []float64{frac})
}

// locate returns the index of the upper border of the grid bin holding x and
// the fractional position of x in that bin, clamped to [0, 1].
func (a *axis) locate(x float64) (int, float64) {
	g := a.grid
	right := sort.SearchFloat64s(g, x)
	switch right {
	case 0:
		right, x = 1, g[0]
	case len(g):
		right--
		x = g[right]
	}
	x1, x2 := g[right-1], g[right]
	if a.log {
		x, x1, x2 = math.Log10(x), math.Log10(x1), math.Log10(x2)
	}
	return right, (x - x1) / (x2 - x1)
}

// blend combines the values at the 2^N corners of a grid bin. Bit k of the
// corner number selects the lower border of axis k.
//
// Linear and logarithmic sums are accumulated together so that a logarithmic
// quantity can fall back to the linear result when a corner value is not
// strictly positive.
func (v *View) blend(upper []int, frac []float64) float64 {
	n := len(upper)
	logy := v.logy
	var lin, lg float64
	for t := 0; t < 1<<n; t++ {
		w := 1.0
		flat := 0
		for k := n - 1; k >= 0; k-- {
			i := upper[k]
			if t&(1<<k) != 0 {
				i--
				w *= 1 - frac[k]
			} else {
				w *= frac[k]
			}
			flat = flat*len(v.axes[k].grid) + i
		}

		y := v.values[flat*v.stride]
		lin += w * y
		if logy {
			if y > 0 {
				lg += w * math.Log10(y)
			} else {
				logy = false
			}
		}
	}
	if logy {
		return math.Pow(10, lg)
	}
	return lin
}
