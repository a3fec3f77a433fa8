package table

import (
	"fmt"

	"github.com/hupe1980/stabgo/format"
	"github.com/hupe1980/stabgo/registry"
)

// View gives interpolated access to one quantity of a stored table.
//
// The zero View is unopened; every method other than Open and Close panics on it.
type View struct {
	handle *registry.Handle
	path   string

	axes     []axis
	quantity format.Quantity
	// values starts at the first value of the bound quantity; consecutive
	// values of that quantity are stride apart.
	values []float64
	stride int
	logy   bool
}

type axis struct {
	format.Axis
	grid []float64
	log  bool
}

// AxisInfo describes one axis of an open View.
type AxisInfo struct {
	Name  string
	Unit  string
	Scale format.Scale
	// Grid aliases the mapped file and must not be modified.
	Grid []float64
}

// Open opens a view on the quantity described by quantitySpec ("name(unit)")
// in the stored table at path, whose axes must match axisSpec
// ("name1(unit1),...,nameN(unitN)").
func Open(reg *registry.Registry, path, axisSpec, quantitySpec string) (*View, error) {
	v := new(View)
	if err := v.Open(reg, path, axisSpec, quantitySpec); err != nil {
		return nil, err
	}
	return v, nil
}

// OpenSpec is like Open with pre-parsed specifications.
func OpenSpec(reg *registry.Registry, path string, axes []format.Spec, quantity format.Spec) (*View, error) {
	v := new(View)
	if err := v.OpenSpec(reg, path, axes, quantity); err != nil {
		return nil, err
	}
	return v, nil
}

// Open associates the unopened view v with a stored table; see the Open function.
func (v *View) Open(reg *registry.Registry, path, axisSpec, quantitySpec string) error {
	axes, err := format.ParseSpecList(axisSpec)
	if err != nil {
		return &OpenError{Path: path, Err: err}
	}
	quantity, err := format.ParseSpec(quantitySpec)
	if err != nil {
		return &OpenError{Path: path, Err: err}
	}
	return v.OpenSpec(reg, path, axes, quantity)
}

// OpenSpec associates the unopened view v with a stored table. On failure v
// stays unopened and no mapping reference is retained.
func (v *View) OpenSpec(reg *registry.Registry, path string, axes []format.Spec, quantity format.Spec) error {
	if v.handle != nil {
		return &OpenError{Path: path, Err: fmt.Errorf("%w: %s", ErrAlreadyOpen, v.path)}
	}

	h, err := reg.Acquire(path)
	if err != nil {
		return &OpenError{Path: path, Err: err}
	}

	data := h.Bytes()
	hdr, err := format.Parse(data)
	if err == nil {
		v.quantity, err = hdr.Bind(axes, quantity)
	}
	if err != nil {
		_ = h.Release()
		return &OpenError{Path: h.Path(), Err: err}
	}

	v.axes = make([]axis, len(hdr.Axes))
	for k, a := range hdr.Axes {
		v.axes[k] = axis{Axis: a, grid: hdr.Grid(data, k), log: a.Scale == format.Logarithmic}
	}
	v.values = hdr.Values(data)[v.quantity.Index:]
	v.stride = hdr.Stride()
	v.logy = v.quantity.Scale == format.Logarithmic
	v.path = h.Path()
	v.handle = h
	return nil
}

// Close releases the view's reference to the mapping. It is idempotent.
// Grids obtained through Axis become invalid once no view references the file.
func (v *View) Close() error {
	h := v.handle
	if h == nil {
		return nil
	}
	v.handle = nil
	v.axes = nil
	v.values = nil
	return h.Release()
}

func (v *View) mustBeOpen() {
	if v.handle == nil {
		panic("table: view is not open")
	}
}

// Path returns the canonical path of the underlying file.
func (v *View) Path() string {
	v.mustBeOpen()
	return v.path
}

// NumAxes returns the number of axes N.
func (v *View) NumAxes() int {
	v.mustBeOpen()
	return len(v.axes)
}

// Axis describes axis k.
func (v *View) Axis(k int) AxisInfo {
	v.mustBeOpen()
	a := v.axes[k]
	return AxisInfo{Name: a.Name, Unit: a.Unit, Scale: a.Scale, Grid: a.grid}
}

// Range returns the outermost grid points of axis k.
func (v *View) Range(k int) (lo, hi float64) {
	v.mustBeOpen()
	g := v.axes[k].grid
	return g[0], g[len(g)-1]
}

// Quantity describes the bound quantity.
func (v *View) Quantity() format.Quantity {
	v.mustBeOpen()
	return v.quantity
}

// Stride is the number of quantities interleaved in the file.
func (v *View) Stride() int {
	v.mustBeOpen()
	return v.stride
}
