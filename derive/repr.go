package derive

import "github.com/broady/zerogen/ir"

// Repr classifies an enum's memory layout.
type Repr int

const (
	// ReprUndefined means the discriminant's size and position are unknown.
	ReprUndefined Repr = iota

	// ReprCLike means every variant is unit-shaped.
	ReprCLike

	// ReprPrimitive means a repr attribute fixes the discriminant to a
	// primitive integer type.
	ReprPrimitive
)

// String returns the string representation of the layout class.
func (r Repr) String() string {
	switch r {
	case ReprUndefined:
		return "undefined"
	case ReprCLike:
		return "c-like"
	case ReprPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// Classify determines whether an enum's layout is well defined.
// C-like shape takes precedence over representation hints.
func Classify(e *ir.EnumDescriptor) Repr {
	if isCLike(e) {
		return ReprCLike
	}
	if hasPrimitiveRepr(e.Attributes) {
		return ReprPrimitive
	}
	return ReprUndefined
}

func isCLike(e *ir.EnumDescriptor) bool {
	for _, v := range e.Variants {
		if !v.Fields.IsUnit() {
			return false
		}
	}
	return true
}

// hasPrimitiveRepr reports whether any repr attribute names a primitive
// integer type. Other attributes and tokens are ignored.
func hasPrimitiveRepr(attrs []ir.Attribute) bool {
	for _, a := range attrs {
		if a.Name != "repr" {
			continue
		}
		for _, tok := range a.Args {
			if IsPrimitiveRepr(tok) {
				return true
			}
		}
	}
	return false
}
