package derive

import "github.com/broady/zerogen/ir"

// ZeroVariant returns the variant whose discriminant is provably zero.
//
// The first variant is implicitly zero unless it has an explicit
// discriminant. Otherwise only later variants with an explicit literal 0
// qualify; implicit discriminants of later variants are not computed, so
// `A = -1, B` finds nothing even though B is zero at runtime.
func ZeroVariant(e *ir.EnumDescriptor) (*ir.Variant, bool) {
	if len(e.Variants) == 0 {
		return nil, false
	}

	first := &e.Variants[0]
	if first.Discriminant == nil || first.Discriminant.IsZero() {
		return first, true
	}

	for i := 1; i < len(e.Variants); i++ {
		v := &e.Variants[i]
		if v.Discriminant != nil && v.Discriminant.IsZero() {
			return v, true
		}
	}
	return nil, false
}
