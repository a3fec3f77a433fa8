package format

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// AxisDef defines an axis of a table to be written.
type AxisDef struct {
	Name   string
	Unit   string
	Scale  Scale
	Points []float64
}

// QuantityDef defines a quantity of a table to be written.
type QuantityDef struct {
	Name  string
	Unit  string
	Scale Scale
}

// Table is the in-memory form of a stored table.
//
// Values holds len(Quantities) x prod(len(Axes[k].Points)) values in file
// order: quantities contiguous per coordinate, first axis fastest.
type Table struct {
	Axes       []AxisDef
	Quantities []QuantityDef
	Values     []float64
}

// NewTable tabulates fn at every grid coordinate. fn receives the quantity
// index and the axis values of the coordinate; the slice is reused between calls.
func NewTable(axes []AxisDef, quantities []QuantityDef, fn func(q int, x []float64) float64) *Table {
	t := &Table{Axes: axes, Quantities: quantities}
	points := t.points()
	t.Values = make([]float64, 0, points*len(quantities))

	idx := make([]int, len(axes))
	x := make([]float64, len(axes))
	for p := 0; p < points; p++ {
		for k := range axes {
			x[k] = axes[k].Points[idx[k]]
		}
		for q := range quantities {
			t.Values = append(t.Values, fn(q, x))
		}
		// advance the mixed-radix index, first axis fastest
		for k := range idx {
			idx[k]++
			if idx[k] < len(axes[k].Points) {
				break
			}
			idx[k] = 0
		}
	}
	return t
}

func (t *Table) points() int {
	if len(t.Axes) == 0 {
		return 0
	}
	n := 1
	for _, a := range t.Axes {
		n *= len(a.Points)
	}
	return n
}

// Validate checks that t can be encoded and read back.
func (t *Table) Validate() error {
	if len(t.Axes) == 0 {
		return fmt.Errorf("%w: table has no axes", ErrMalformedData)
	}
	if len(t.Quantities) == 0 {
		return fmt.Errorf("%w: table has no quantities", ErrMalformedData)
	}
	for k, a := range t.Axes {
		if !validItem(a.Name) || !validItem(a.Unit) {
			return fmt.Errorf("%w: axis %d: invalid name or unit %s", ErrMalformedData, k, Spec{a.Name, a.Unit})
		}
		if len(a.Points) < 2 {
			return fmt.Errorf("%w: axis %d (%s) has %d grid points", ErrMalformedData, k, a.Name, len(a.Points))
		}
		for i := 1; i < len(a.Points); i++ {
			if !(a.Points[i] > a.Points[i-1]) {
				return fmt.Errorf("%w: axis %d (%s) grid not strictly increasing at point %d",
					ErrMalformedData, k, a.Name, i)
			}
		}
		if math.IsInf(a.Points[0], 0) || math.IsInf(a.Points[len(a.Points)-1], 0) {
			return fmt.Errorf("%w: axis %d (%s) grid contains non-finite values", ErrMalformedData, k, a.Name)
		}
	}
	for i, q := range t.Quantities {
		if !validItem(q.Name) || !validItem(q.Unit) {
			return fmt.Errorf("%w: quantity %d: invalid name or unit %s", ErrMalformedData, i, Spec{q.Name, q.Unit})
		}
	}
	if want := t.points() * len(t.Quantities); len(t.Values) != want {
		return fmt.Errorf("%w: %d values given, layout requires %d", ErrMalformedData, len(t.Values), want)
	}
	return nil
}

// EncodedSize returns the size in bytes of the encoded table.
func (t *Table) EncodedSize() int {
	items := 3 // magic, endianness, numAxes
	for _, a := range t.Axes {
		items += 4 + len(a.Points)
	}
	items += 1 + 3*len(t.Quantities)
	items += len(t.Values)
	items++ // end tag
	return items * ItemSize
}

// Encode returns the stored table representation of t.
func Encode(t *Table) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	le := binary.LittleEndian
	buf := make([]byte, 0, t.EncodedSize())

	buf = append(buf, MagicTag...)
	buf = le.AppendUint64(buf, EndiannessTag)
	buf = le.AppendUint64(buf, uint64(len(t.Axes)))
	for _, a := range t.Axes {
		buf = appendString(buf, a.Name)
		buf = appendString(buf, a.Unit)
		buf = appendString(buf, a.Scale.String())
		buf = le.AppendUint64(buf, uint64(len(a.Points)))
		for _, p := range a.Points {
			buf = le.AppendUint64(buf, math.Float64bits(p))
		}
	}
	buf = le.AppendUint64(buf, uint64(len(t.Quantities)))
	for _, q := range t.Quantities {
		buf = appendString(buf, q.Name)
		buf = appendString(buf, q.Unit)
		buf = appendString(buf, q.Scale.String())
	}
	for _, v := range t.Values {
		buf = le.AppendUint64(buf, math.Float64bits(v))
	}
	buf = append(buf, EndTag...)
	return buf, nil
}

// WriteFile encodes t and atomically replaces the file at path.
func WriteFile(path string, t *Table) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".stab-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func appendString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	for i := len(s); i < ItemSize; i++ {
		buf = append(buf, ' ')
	}
	return buf
}
