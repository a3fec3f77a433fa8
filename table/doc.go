// Package table provides interpolated, read-only access to one quantity of a
// memory-mapped stored table.
//
// A View binds one tabulated quantity and the N axes of a stored table file.
// Its grids and values are views into a mapping shared through a
// registry.Registry; the view holds a registry handle so the mapping stays
// alive until Close.
//
//	reg := registry.New()
//	v, err := table.Open(reg, "DustEM.stab", "lambda(m),a(m)", "Qabs(1)")
//	if err != nil { ... }
//	defer v.Close()
//
//	q := v.Value(550e-9, 1e-7)
//	grid, cdf, norm := v.CDF(1e-7, 1e-3, 100, 1e-7)
//
// # Interpolation
//
// Value performs multilinear interpolation over the 2^N corners of the grid
// bin containing the requested point. Axes and quantities flagged logarithmic
// in the file are interpolated on base-10 logarithms; a logarithmic quantity
// falls back to linear interpolation whenever one of the corner values is not
// strictly positive. Coordinates outside an axis are clamped to its outer grid
// point.
//
// # Concurrency
//
// Value, Value1, CDF and Distribution are read-only and safe for concurrent
// use. Close must not race with them.
package table
