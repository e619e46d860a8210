package ir

import "strconv"

// FieldStyle identifies the shape of a field list.
type FieldStyle int

const (
	FieldsUnit    FieldStyle = iota // no fields, no delimiters: `S`
	FieldsUnnamed                   // positional fields: `S(A, B)`
	FieldsNamed                     // named fields: `S { a: A }`
)

// String returns the string representation of the field style.
func (s FieldStyle) String() string {
	switch s {
	case FieldsUnit:
		return "unit"
	case FieldsUnnamed:
		return "tuple"
	case FieldsNamed:
		return "named"
	default:
		return "unknown"
	}
}

// FieldList holds the fields of a struct, union or enum variant.
type FieldList struct {
	Style FieldStyle

	// Fields in declaration order. Always empty for FieldsUnit.
	Fields []Field
}

// Unit returns an empty field list.
func Unit() FieldList {
	return FieldList{Style: FieldsUnit}
}

// Unnamed returns a positional field list.
func Unnamed(fields ...Field) FieldList {
	return FieldList{Style: FieldsUnnamed, Fields: fields}
}

// Named returns a named field list.
func Named(fields ...Field) FieldList {
	return FieldList{Style: FieldsNamed, Fields: fields}
}

// IsUnit reports whether the list declares no fields at all, delimiters
// included.
func (l FieldList) IsUnit() bool {
	return l.Style == FieldsUnit
}

// Field is a single struct, union or variant member.
type Field struct {
	// Name is empty for positional fields.
	Name string

	Type TypeExpr

	Source Source
}

// Label returns the field name, or its positional index for unnamed fields.
func (f Field) Label(index int) string {
	if f.Name != "" {
		return f.Name
	}
	return strconv.Itoa(index)
}
