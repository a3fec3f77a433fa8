package testutil

import (
	"math"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/stabgo/format"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// AxisShape describes an axis of a generated table.
type AxisShape struct {
	Points int
	Log    bool
}

// Points returns n strictly increasing grid points. Logarithmic grids span
// [1e-3, 1e3], linear grids start at 0; spacing is jittered.
func (r *RNG) Points(n int, log bool) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pointsLocked(n, log)
}

func (r *RNG) pointsLocked(n int, log bool) []float64 {
	steps := make([]float64, n)
	for i := 1; i < n; i++ {
		steps[i] = steps[i-1] + 0.5 + r.rand.Float64()
	}
	span := steps[n-1]
	out := make([]float64, n)
	for i, s := range steps {
		if log {
			out[i] = math.Pow(10, -3+6*s/span)
		} else {
			out[i] = 10 * s / span
		}
	}
	return out
}

// Table returns a table with the given axes and nq quantities holding
// positive random values. With logQuantities every quantity is tagged
// logarithmic. Axes are named a, b, c... and quantities q0, q1...
func (r *RNG) Table(shape []AxisShape, nq int, logQuantities bool) *format.Table {
	r.mu.Lock()
	defer r.mu.Unlock()

	axes := make([]format.AxisDef, len(shape))
	for k, s := range shape {
		scale := format.Linear
		if s.Log {
			scale = format.Logarithmic
		}
		axes[k] = format.AxisDef{
			Name:   string(rune('a' + k)),
			Unit:   "1",
			Scale:  scale,
			Points: r.pointsLocked(s.Points, s.Log),
		}
	}
	quantities := make([]format.QuantityDef, nq)
	for q := range quantities {
		scale := format.Linear
		if logQuantities {
			scale = format.Logarithmic
		}
		quantities[q] = format.QuantityDef{Name: "q" + string(rune('0'+q%10)), Unit: "1", Scale: scale}
	}
	return format.NewTable(axes, quantities, func(int, []float64) float64 {
		return 0.01 + r.rand.Float64()
	})
}

// Coords returns a random coordinate for tbl. With margin > 0 the
// coordinate may fall up to margin times the axis range outside the grid.
func (r *RNG) Coords(tbl *format.Table, margin float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	x := make([]float64, len(tbl.Axes))
	for k, a := range tbl.Axes {
		lo, hi := a.Points[0], a.Points[len(a.Points)-1]
		u := -margin + (1+2*margin)*r.rand.Float64()
		if a.Scale == format.Logarithmic {
			llo, lhi := math.Log10(lo), math.Log10(hi)
			x[k] = math.Pow(10, llo+u*(lhi-llo))
		} else {
			x[k] = lo + u*(hi-lo)
		}
	}
	return x
}

// WriteTable writes tbl as dir/name.stab and returns the path.
func WriteTable(t testing.TB, dir, name string, tbl *format.Table) string {
	t.Helper()
	path := filepath.Join(dir, name+format.Extension)
	require.NoError(t, format.WriteFile(path, tbl))
	return path
}

// Interpolate computes quantity q of tbl at x by summing the weighted
// corners of the enclosing grid cell. It follows the same clamping and
// scale rules as a table view but shares no code with it.
func Interpolate(tbl *format.Table, q int, x []float64) float64 {
	n := len(tbl.Axes)
	lower := make([]int, n)
	frac := make([]float64, n)
	for k, a := range tbl.Axes {
		g := a.Points
		xk := math.Max(g[0], math.Min(x[k], g[len(g)-1]))
		i := 0
		for i < len(g)-2 && g[i+1] <= xk {
			i++
		}
		lower[k] = i
		if a.Scale == format.Logarithmic {
			frac[k] = (math.Log10(xk) - math.Log10(g[i])) / (math.Log10(g[i+1]) - math.Log10(g[i]))
		} else {
			frac[k] = (xk - g[i]) / (g[i+1] - g[i])
		}
	}

	type corner struct{ w, v float64 }
	corners := make([]corner, 0, 1<<n)
	idx := make([]int, n)
	var walk func(k int, w float64)
	walk = func(k int, w float64) {
		if k == n {
			flat, mul := 0, 1
			for j, a := range tbl.Axes {
				flat += idx[j] * mul
				mul *= len(a.Points)
			}
			corners = append(corners, corner{w, tbl.Values[flat*len(tbl.Quantities)+q]})
			return
		}
		idx[k] = lower[k]
		walk(k+1, w*(1-frac[k]))
		idx[k] = lower[k] + 1
		walk(k+1, w*frac[k])
	}
	walk(0, 1)

	logq := tbl.Quantities[q].Scale == format.Logarithmic
	for _, c := range corners {
		if c.v <= 0 {
			logq = false
		}
	}
	sum := 0.0
	for _, c := range corners {
		if logq {
			sum += c.w * math.Log10(c.v)
		} else {
			sum += c.w * c.v
		}
	}
	if logq {
		return math.Pow(10, sum)
	}
	return sum
}
