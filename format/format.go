package format

import (
	"fmt"
	"strings"
)

const (
	// ItemSize is the size in bytes of every item in a stored table.
	ItemSize = 8

	// MagicTag identifies the format and its version.
	MagicTag = "SKIRT X1"
	// EndTag terminates a stored table.
	EndTag = "STABEND "
	// EndiannessTag is stored as a little-endian uint64 right after MagicTag.
	EndiannessTag uint64 = 0x010203040A0BFEFF

	// Extension is the filename extension of stored table files.
	Extension = ".stab"
)

// Scale selects linear or logarithmic interpolation for an axis or quantity.
type Scale uint8

const (
	// Linear interpolates on raw values.
	Linear Scale = iota
	// Logarithmic interpolates on base-10 logarithms.
	Logarithmic
)

func (s Scale) String() string {
	if s == Logarithmic {
		return "log"
	}
	return "lin"
}

func parseScale(tag string) (Scale, bool) {
	switch tag {
	case "lin":
		return Linear, true
	case "log":
		return Logarithmic, true
	default:
		return Linear, false
	}
}

// Spec is a name and unit pair as found in a table header.
type Spec struct {
	Name string
	Unit string
}

func (s Spec) String() string {
	return s.Name + "(" + s.Unit + ")"
}

// ParseSpec parses a single "name(unit)" specification, e.g. "Qabs(1)".
// Whitespace is not allowed.
func ParseSpec(s string) (Spec, error) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") || open == len(s)-2 {
		return Spec{}, fmt.Errorf("%w: %q is not of the form name(unit)", ErrInvalidSpec, s)
	}
	spec := Spec{Name: s[:open], Unit: s[open+1 : len(s)-1]}
	if !validItem(spec.Name) || !validItem(spec.Unit) || strings.ContainsAny(spec.Unit, "()") {
		return Spec{}, fmt.Errorf("%w: %q: name and unit must be 1 to %d printable non-space characters",
			ErrInvalidSpec, s, ItemSize)
	}
	return spec, nil
}

// ParseSpecList parses a comma-separated axis specification of the form
// "name1(unit1),...,nameN(unitN)", e.g. "lambda(m),a(m)".
func ParseSpecList(s string) ([]Spec, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty axis specification", ErrInvalidSpec)
	}
	parts := strings.Split(s, ",")
	specs := make([]Spec, 0, len(parts))
	for _, p := range parts {
		spec, err := ParseSpec(p)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// validItem reports whether s can be stored as a string item.
func validItem(s string) bool {
	if len(s) == 0 || len(s) > ItemSize {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] <= ' ' || s[i] > '~' {
			return false
		}
	}
	return true
}
