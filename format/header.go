package format

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Axis describes one axis of a stored table.
type Axis struct {
	Name  string
	Unit  string
	Scale Scale
	// Len is the number of grid points (at least 2).
	Len int
	// Offset is the byte offset of the first grid point.
	Offset int
}

// Spec returns the axis name and unit.
func (a Axis) Spec() Spec { return Spec{Name: a.Name, Unit: a.Unit} }

// Quantity describes one tabulated quantity of a stored table.
type Quantity struct {
	Name  string
	Unit  string
	Scale Scale
	// Index is the position of the quantity within each group of interleaved values.
	Index int
}

// Spec returns the quantity name and unit.
func (q Quantity) Spec() Spec { return Spec{Name: q.Name, Unit: q.Unit} }

// Header is the parsed, validated header of a stored table.
type Header struct {
	Axes       []Axis
	Quantities []Quantity
	// ValuesOffset is the byte offset of the value block.
	ValuesOffset int
	// Points is the number of grid coordinates, i.e. the product of all axis lengths.
	Points int
	// Size is the total file size implied by the header, including the end tag.
	Size int
}

// Stride is the distance, in values, between consecutive values of one
// quantity. It equals the number of quantities in the file.
func (h *Header) Stride() int { return len(h.Quantities) }

// Grid returns the grid points of axis k as a view into data.
func (h *Header) Grid(data []byte, k int) []float64 {
	a := h.Axes[k]
	return Float64s(data[a.Offset : a.Offset+a.Len*ItemSize])
}

// Values returns the interleaved value block as a view into data.
func (h *Header) Values(data []byte) []float64 {
	n := h.Points * len(h.Quantities)
	return Float64s(data[h.ValuesOffset : h.ValuesOffset+n*ItemSize])
}

// Parse validates the stored table in data and returns its header.
//
// data is usually a read-only memory mapping; Parse never retains it.
func Parse(data []byte) (*Header, error) {
	r := &itemReader{b: data}

	magic, err := r.raw()
	if err != nil {
		return nil, err
	}
	if string(magic) != MagicTag {
		return nil, fmt.Errorf("%w: expected %q, found %q", ErrFormat, MagicTag, magic)
	}
	endian, err := r.uint()
	if err != nil {
		return nil, err
	}
	if endian != EndiannessTag {
		return nil, fmt.Errorf("%w: endianness tag 0x%016x", ErrFormat, endian)
	}

	numAxes, err := r.count(4)
	if err != nil {
		return nil, err
	}
	if numAxes < 1 {
		return nil, fmt.Errorf("%w: table has no axes", ErrMalformedData)
	}

	h := &Header{Axes: make([]Axis, numAxes), Points: 1}
	for k := range h.Axes {
		a := &h.Axes[k]
		if a.Name, err = r.str(); err != nil {
			return nil, err
		}
		if a.Unit, err = r.str(); err != nil {
			return nil, err
		}
		if a.Scale, err = r.scale(); err != nil {
			return nil, err
		}
		if a.Len, err = r.count(1); err != nil {
			return nil, err
		}
		if a.Len < 2 {
			return nil, fmt.Errorf("%w: axis %d (%s) has %d grid points", ErrMalformedData, k, a.Name, a.Len)
		}
		a.Offset = r.off
		if err := checkIncreasing(data[a.Offset:a.Offset+a.Len*ItemSize], k, a.Name); err != nil {
			return nil, err
		}
		r.off += a.Len * ItemSize
		if h.Points > math.MaxInt/a.Len {
			return nil, fmt.Errorf("%w: grid size overflows", ErrTruncatedFile)
		}
		h.Points *= a.Len
	}

	numQuantities, err := r.count(3)
	if err != nil {
		return nil, err
	}
	if numQuantities < 1 {
		return nil, fmt.Errorf("%w: table has no quantities", ErrMalformedData)
	}
	h.Quantities = make([]Quantity, numQuantities)
	for i := range h.Quantities {
		q := &h.Quantities[i]
		q.Index = i
		if q.Name, err = r.str(); err != nil {
			return nil, err
		}
		if q.Unit, err = r.str(); err != nil {
			return nil, err
		}
		if q.Scale, err = r.scale(); err != nil {
			return nil, err
		}
	}

	h.ValuesOffset = r.off
	remaining := (len(data) - r.off) / ItemSize
	if h.Points > remaining/numQuantities {
		return nil, fmt.Errorf("%w: %d values declared, %d bytes remain",
			ErrTruncatedFile, h.Points*numQuantities, len(data)-r.off)
	}
	r.off += h.Points * numQuantities * ItemSize

	end, err := r.raw()
	if err != nil {
		return nil, err
	}
	if string(end) != EndTag {
		return nil, fmt.Errorf("%w: end-of-file tag missing at offset %d", ErrTruncatedFile, r.off-ItemSize)
	}
	h.Size = r.off
	if h.Size != len(data) {
		return nil, fmt.Errorf("%w: header implies %d bytes, file has %d", ErrTruncatedFile, h.Size, len(data))
	}
	return h, nil
}

// Bind checks the caller's axis and quantity expectations against the header
// and returns the matching quantity.
func (h *Header) Bind(axes []Spec, quantity Spec) (Quantity, error) {
	if len(axes) != len(h.Axes) {
		return Quantity{}, &MismatchError{
			Axis:     -1,
			Expected: fmt.Sprint(len(axes)),
			Found:    fmt.Sprint(len(h.Axes)),
			cause:    ErrSchemaMismatch,
		}
	}
	for k, want := range axes {
		if got := h.Axes[k].Spec(); got != want {
			return Quantity{}, &MismatchError{
				Axis:     k,
				Expected: want.String(),
				Found:    got.String(),
				cause:    ErrSchemaMismatch,
			}
		}
	}
	for _, q := range h.Quantities {
		if q.Spec() == quantity {
			return q, nil
		}
	}
	found := make([]Spec, len(h.Quantities))
	for i, q := range h.Quantities {
		found[i] = q.Spec()
	}
	return Quantity{}, &MismatchError{
		Axis:     -1,
		Expected: quantity.String(),
		Found:    joinSpecs(found),
		cause:    ErrQuantityNotFound,
	}
}

// AxisSpecs returns the name and unit of every axis in order.
func (h *Header) AxisSpecs() []Spec {
	specs := make([]Spec, len(h.Axes))
	for k, a := range h.Axes {
		specs[k] = a.Spec()
	}
	return specs
}

func (h *Header) String() string {
	var sb strings.Builder
	sb.WriteString(joinSpecs(h.AxisSpecs()))
	sb.WriteString(" -> ")
	for i, q := range h.Quantities {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(q.Spec().String())
	}
	return sb.String()
}

func checkIncreasing(b []byte, k int, name string) error {
	prev := math.Float64frombits(binary.LittleEndian.Uint64(b))
	if math.IsInf(prev, 0) {
		return fmt.Errorf("%w: axis %d (%s) grid contains non-finite values", ErrMalformedData, k, name)
	}
	for i := ItemSize; i < len(b); i += ItemSize {
		x := math.Float64frombits(binary.LittleEndian.Uint64(b[i:]))
		if !(x > prev) {
			return fmt.Errorf("%w: axis %d (%s) grid not strictly increasing at point %d",
				ErrMalformedData, k, name, i/ItemSize)
		}
		prev = x
	}
	if math.IsNaN(prev) || math.IsInf(prev, 0) {
		return fmt.Errorf("%w: axis %d (%s) grid contains non-finite values", ErrMalformedData, k, name)
	}
	return nil
}

// itemReader provides bounds-checked reads of 8-byte items.
type itemReader struct {
	b   []byte
	off int
}

func (r *itemReader) raw() ([]byte, error) {
	if r.off+ItemSize > len(r.b) {
		return nil, fmt.Errorf("%w: need item at offset %d, file has %d bytes", ErrTruncatedFile, r.off, len(r.b))
	}
	out := r.b[r.off : r.off+ItemSize]
	r.off += ItemSize
	return out, nil
}

func (r *itemReader) uint() (uint64, error) {
	b, err := r.raw()
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// count reads a count of records that each occupy at least minItems items,
// rejecting counts the remaining bytes cannot hold.
func (r *itemReader) count(minItems int) (int, error) {
	v, err := r.uint()
	if err != nil {
		return 0, err
	}
	if v > uint64((len(r.b)-r.off)/(minItems*ItemSize)) {
		return 0, fmt.Errorf("%w: count %d at offset %d exceeds file size", ErrTruncatedFile, v, r.off-ItemSize)
	}
	return int(v), nil
}

func (r *itemReader) str() (string, error) {
	b, err := r.raw()
	if err != nil {
		return "", err
	}
	s := strings.TrimRight(string(b), " ")
	if !validItem(s) {
		return "", fmt.Errorf("%w: invalid string item %q at offset %d", ErrMalformedData, b, r.off-ItemSize)
	}
	return s, nil
}

func (r *itemReader) scale() (Scale, error) {
	s, err := r.str()
	if err != nil {
		return Linear, err
	}
	scale, ok := parseScale(s)
	if !ok {
		return Linear, fmt.Errorf("%w: unknown scale tag %q at offset %d", ErrMalformedData, s, r.off-ItemSize)
	}
	return scale, nil
}
