package ir

import "strings"

// TypeExprKind identifies the category of a field type expression.
type TypeExprKind int

const (
	ExprPath      TypeExprKind = iota // u8, T, core::num::Wrapping<T>
	ExprPointer                       // *const T, *mut T
	ExprReference                     // &'a T, &mut T
	ExprArray                         // [T; N]
	ExprSlice                         // [T]
	ExprTuple                         // (), (A, B)
	ExprOpaque                        // anything else: fn pointers, trait objects
)

// String returns the string representation of the expression kind.
func (k TypeExprKind) String() string {
	switch k {
	case ExprPath:
		return "Path"
	case ExprPointer:
		return "Pointer"
	case ExprReference:
		return "Reference"
	case ExprArray:
		return "Array"
	case ExprSlice:
		return "Slice"
	case ExprTuple:
		return "Tuple"
	case ExprOpaque:
		return "Opaque"
	default:
		return "Unknown"
	}
}

// TypeExpr is the type of a field. String renders it back to source syntax.
type TypeExpr interface {
	ExprKind() TypeExprKind
	String() string
	sealedExpr()
}

type exprBase struct{}

func (exprBase) sealedExpr() {}

// PathType is a named type, optionally with generic arguments.
type PathType struct {
	exprBase

	// Path is the `::`-separated type path without arguments.
	Path string

	// Args are the generic arguments of the final segment.
	Args []GenericArg
}

// ExprKind returns ExprPath.
func (t *PathType) ExprKind() TypeExprKind { return ExprPath }

func (t *PathType) String() string {
	if len(t.Args) == 0 {
		return t.Path
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Path + "<" + strings.Join(args, ", ") + ">"
}

// IsSimple reports whether the path is a single segment without arguments,
// the only form under which it can name a generic type parameter.
func (t *PathType) IsSimple() bool {
	return len(t.Args) == 0 && !strings.Contains(t.Path, "::")
}

// GenericArg is one generic argument. Exactly one field is set.
type GenericArg struct {
	Lifetime string
	Type     TypeExpr
	Const    string
}

func (a GenericArg) String() string {
	switch {
	case a.Lifetime != "":
		return a.Lifetime
	case a.Type != nil:
		return a.Type.String()
	default:
		return a.Const
	}
}

// PointerType is a raw pointer.
type PointerType struct {
	exprBase
	Mut  bool
	Elem TypeExpr
}

// ExprKind returns ExprPointer.
func (t *PointerType) ExprKind() TypeExprKind { return ExprPointer }

func (t *PointerType) String() string {
	if t.Mut {
		return "*mut " + t.Elem.String()
	}
	return "*const " + t.Elem.String()
}

// ReferenceType is a borrowed reference.
type ReferenceType struct {
	exprBase
	Lifetime string
	Mut      bool
	Elem     TypeExpr
}

// ExprKind returns ExprReference.
func (t *ReferenceType) ExprKind() TypeExprKind { return ExprReference }

func (t *ReferenceType) String() string {
	var b strings.Builder
	b.WriteByte('&')
	if t.Lifetime != "" {
		b.WriteString(t.Lifetime)
		b.WriteByte(' ')
	}
	if t.Mut {
		b.WriteString("mut ")
	}
	b.WriteString(t.Elem.String())
	return b.String()
}

// ArrayType is a fixed-length array. Len is the length expression verbatim.
type ArrayType struct {
	exprBase
	Elem TypeExpr
	Len  string
}

// ExprKind returns ExprArray.
func (t *ArrayType) ExprKind() TypeExprKind { return ExprArray }

func (t *ArrayType) String() string {
	return "[" + t.Elem.String() + "; " + t.Len + "]"
}

// SliceType is a dynamically sized slice.
type SliceType struct {
	exprBase
	Elem TypeExpr
}

// ExprKind returns ExprSlice.
func (t *SliceType) ExprKind() TypeExprKind { return ExprSlice }

func (t *SliceType) String() string {
	return "[" + t.Elem.String() + "]"
}

// TupleType is a tuple. The empty tuple is the unit type.
type TupleType struct {
	exprBase
	Elems []TypeExpr
}

// ExprKind returns ExprTuple.
func (t *TupleType) ExprKind() TypeExprKind { return ExprTuple }

func (t *TupleType) String() string {
	switch len(t.Elems) {
	case 0:
		return "()"
	case 1:
		return "(" + t.Elems[0].String() + ",)"
	}
	elems := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		elems[i] = e.String()
	}
	return "(" + strings.Join(elems, ", ") + ")"
}

// OpaqueType is a type the front-end does not model, kept verbatim.
type OpaqueType struct {
	exprBase
	Text string
}

// ExprKind returns ExprOpaque.
func (t *OpaqueType) ExprKind() TypeExprKind { return ExprOpaque }

func (t *OpaqueType) String() string { return t.Text }

// Path returns a PathType with type arguments.
func Path(path string, args ...TypeExpr) *PathType {
	t := &PathType{Path: path}
	for _, a := range args {
		t.Args = append(t.Args, GenericArg{Type: a})
	}
	return t
}

// Ptr returns a raw pointer type.
func Ptr(elem TypeExpr, mut bool) *PointerType {
	return &PointerType{Elem: elem, Mut: mut}
}

// Ref returns a reference type.
func Ref(lifetime string, elem TypeExpr, mut bool) *ReferenceType {
	return &ReferenceType{Lifetime: lifetime, Elem: elem, Mut: mut}
}

// Array returns a fixed-length array type.
func Array(elem TypeExpr, length string) *ArrayType {
	return &ArrayType{Elem: elem, Len: length}
}

// Slice returns a slice type.
func Slice(elem TypeExpr) *SliceType {
	return &SliceType{Elem: elem}
}

// Tuple returns a tuple type.
func Tuple(elems ...TypeExpr) *TupleType {
	return &TupleType{Elems: elems}
}

// UnitType returns the empty tuple.
func UnitType() *TupleType {
	return &TupleType{}
}

// Opaque returns an unmodelled type kept verbatim.
func Opaque(text string) *OpaqueType {
	return &OpaqueType{Text: text}
}
