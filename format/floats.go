package format

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// hostLittleEndian reports whether the host stores integers little-endian.
var hostLittleEndian = func() bool {
	var x uint16 = 0x0100
	return (*[2]byte)(unsafe.Pointer(&x))[0] == 0x00 //nolint:gosec // byte order probe
}()

// Float64s interprets b, whose length must be a multiple of ItemSize, as
// little-endian float64 values.
//
// On little-endian hosts with 8-byte aligned data the result aliases b and is
// only valid as long as b is. Otherwise the values are decoded into a new slice.
func Float64s(b []byte) []float64 {
	n := len(b) / ItemSize
	if n == 0 {
		return nil
	}
	if hostLittleEndian && uintptr(unsafe.Pointer(&b[0]))%ItemSize == 0 {
		return unsafe.Slice((*float64)(unsafe.Pointer(&b[0])), n) //nolint:gosec // zero-copy view of mapped data
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*ItemSize:]))
	}
	return out
}
