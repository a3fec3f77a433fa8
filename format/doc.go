// Package format defines the stored table file format.
//
// A stored table is a sequence of 8-byte items. An item is one of:
//
//   - string: 1 to 8 printable, non-space ASCII characters padded with spaces
//   - unsigned integer: 64-bit, little-endian
//   - floating point: IEEE 754 double, little-endian
//
// # Layout
//
//	"SKIRT X1" | endianness tag | numAxes
//	  per axis:     name | unit | scale | numPoints | point x numPoints
//	numQuantities
//	  per quantity: name | unit | scale
//	value x (numQuantities x numPoints_0 x ... x numPoints_N-1)
//	"STABEND "
//
// Values for one coordinate are contiguous across quantities; the first axis
// index varies fastest and the last axis index slowest. Every grid point and
// value is 8-byte aligned relative to the start of the file, so a page-aligned
// memory mapping can be viewed as []float64 without copying.
//
// # Validation
//
// Parse checks everything that does not depend on the caller: tags, item
// counts against the file length, scale tags and grid monotonicity. Bind then
// checks the caller's axis and quantity expectations against the header.
//
// # Writing
//
//	t := format.NewTable(
//	    []format.AxisDef{{Name: "lambda", Unit: "m", Scale: format.Logarithmic, Points: grid}},
//	    []format.QuantityDef{{Name: "Qabs", Unit: "1", Scale: format.Logarithmic}},
//	    func(q int, x []float64) float64 { return model(x[0]) },
//	)
//	err := format.WriteFile("Qabs.stab", t)
package format
