package derive

import "slices"

// primitiveReprs are the representation hints that give an enum a
// well-defined discriminant layout.
var primitiveReprs = []string{
	"i8", "i16", "i32", "i64", "i128", "isize",
	"u8", "u16", "u32", "u64", "u128", "usize",
}

// scalarLeaves are the non-generic base types whose zero-value capability
// is declared directly by the runtime rather than composed. The unit type
// is the empty tuple and is handled structurally.
var scalarLeaves = []string{
	"bool", "char",
	"i8", "i16", "i32", "i64", "i128", "isize",
	"f32", "f64",
	"u8", "u16", "u32", "u64", "u128", "usize",
}

// IsPrimitiveRepr reports whether tok is a primitive integer representation.
func IsPrimitiveRepr(tok string) bool {
	return slices.Contains(primitiveReprs, tok)
}

// IsScalarLeaf reports whether name is a scalar leaf type.
func IsScalarLeaf(name string) bool {
	return slices.Contains(scalarLeaves, name)
}

// ScalarLeaves returns the scalar leaf types in runtime declaration order.
func ScalarLeaves() []string {
	return slices.Clone(scalarLeaves)
}
