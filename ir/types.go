// Package ir defines the intermediate representation of type definitions
// consumed by the zero-value generator. Front-ends build these values from
// concrete source syntax; the derive package analyses them.
package ir

import (
	"fmt"
	"slices"
)

// Identifier names a type definition.
type Identifier struct {
	// Name is the bare type name, e.g. "Header".
	Name string

	// Module is the path of the defining module, e.g. "crate::net".
	// Empty when the generated code lives next to the definition.
	Module string
}

// Path returns the identifier as written at a use site.
func (id Identifier) Path() string {
	if id.Module == "" {
		return id.Name
	}
	return id.Module + "::" + id.Name
}

// IsZero returns true if the identifier is empty.
func (id Identifier) IsZero() bool {
	return id.Name == "" && id.Module == ""
}

// Source represents source code location information.
type Source struct {
	File   string
	Line   int
	Column int
}

// IsZero returns true if the source location is empty.
func (s Source) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Column == 0
}

// String formats the location as file:line:column, dropping missing parts.
func (s Source) String() string {
	switch {
	case s.IsZero():
		return ""
	case s.Line == 0:
		return s.File
	case s.Column == 0:
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	}
}

// Attribute is an outer attribute on a definition, e.g. #[repr(u8, C)]
// becomes {Name: "repr", Args: ["u8", "C"]}.
type Attribute struct {
	Name   string
	Args   []string
	Source Source
}

// HasArg reports whether the attribute lists tok among its arguments.
func (a Attribute) HasArg(tok string) bool {
	return slices.Contains(a.Args, tok)
}

// ParamKind identifies the category of a generic parameter.
type ParamKind int

const (
	ParamType     ParamKind = iota // T
	ParamLifetime                  // 'a
	ParamConst                     // const N: usize
)

// String returns the string representation of the parameter kind.
func (k ParamKind) String() string {
	switch k {
	case ParamType:
		return "type"
	case ParamLifetime:
		return "lifetime"
	case ParamConst:
		return "const"
	default:
		return "unknown"
	}
}

// GenericParam is one entry of a definition's generic parameter list.
type GenericParam struct {
	Kind ParamKind

	// Name is the parameter name. Lifetimes include the leading apostrophe.
	Name string

	// Bounds are trait bounds (type params) or outlives bounds (lifetimes),
	// verbatim and in declaration order.
	Bounds []string

	// ConstType is the type of a const parameter.
	ConstType string

	// Default is the declared default, if any.
	Default string
}

// Clone returns a deep copy of the parameter.
func (p GenericParam) Clone() GenericParam {
	p.Bounds = slices.Clone(p.Bounds)
	return p
}
