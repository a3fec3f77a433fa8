package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/stabgo/registry"
	"github.com/hupe1980/stabgo/testutil"
)

func TestView_MatchesReference(t *testing.T) {
	cases := []struct {
		name  string
		shape []testutil.AxisShape
		logq  bool
	}{
		{"1d linear", []testutil.AxisShape{{Points: 7}}, false},
		{"1d log", []testutil.AxisShape{{Points: 9, Log: true}}, true},
		{"2d mixed", []testutil.AxisShape{{Points: 6, Log: true}, {Points: 4}}, true},
		{"3d linear", []testutil.AxisShape{{Points: 3}, {Points: 5}, {Points: 2}}, false},
		{"4d log", []testutil.AxisShape{{Points: 3, Log: true}, {Points: 3, Log: true}, {Points: 2}, {Points: 4}}, true},
	}

	rng := testutil.NewRNG(4711)
	reg := registry.New()
	defer reg.Close()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tbl := rng.Table(tc.shape, 2, tc.logq)
			path := testutil.WriteTable(t, t.TempDir(), "r", tbl)

			specs := ""
			for k, a := range tbl.Axes {
				if k > 0 {
					specs += ","
				}
				specs += a.Name + "(1)"
			}

			for q, qd := range tbl.Quantities {
				v, err := Open(reg, path, specs, qd.Name+"(1)")
				require.NoError(t, err)

				for i := 0; i < 200; i++ {
					x := rng.Coords(tbl, 0.1)
					assert.InEpsilon(t, testutil.Interpolate(tbl, q, x), v.Value(x...), 1e-9, "coords %v", x)
				}
				require.NoError(t, v.Close())
			}
		})
	}
	assert.Zero(t, reg.Stats().Mappings)
}
