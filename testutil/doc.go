// Package testutil provides testing utilities for stabgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random stored tables, writing them to
// a resource directory, and computing reference interpolation results.
//
// # Random Tables
//
//	rng := testutil.NewRNG(seed)
//	tbl := rng.Table([]testutil.AxisShape{{Points: 16, Log: true}, {Points: 8}}, 2, true)
//	path := testutil.WriteTable(t, dir, "optical", tbl)
//
// # Reference Interpolation (Ground Truth)
//
//	want := testutil.Interpolate(tbl, 0, coords)
package testutil
