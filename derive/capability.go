package derive

import (
	"fmt"
	"maps"
	"slices"

	"github.com/broady/zerogen/ir"
)

// Capabilities records the named types known to implement the zero-value
// capability in addition to the built-in leaves. For each path it keeps
// the kinds of the non-lifetime generic parameters, so that a use such as
// `Wrapping<T>` can require its type arguments to be zero-capable too.
//
// A Capabilities value is not safe for concurrent mutation; concurrent
// Check calls on an unchanging value are fine.
type Capabilities struct {
	known map[string][]ir.ParamKind

	// bare counts the definitions declared under each bare name, since
	// types in different modules may share one.
	bare map[string]int
}

// NewCapabilities returns a registry holding only the leaf types.
func NewCapabilities() *Capabilities {
	return &Capabilities{
		known: make(map[string][]ir.ParamKind),
		bare:  make(map[string]int),
	}
}

// Declare records path as zero-capable with the given non-lifetime
// generic parameter kinds.
func (c *Capabilities) Declare(path string, params ...ir.ParamKind) {
	c.known[path] = slices.Clone(params)
}

// DeclareExtern records an external type described by a use-site path.
// Each type argument stands for a type parameter that must be zero-capable;
// const arguments stand for const parameters; lifetimes are ignored.
func (c *Capabilities) DeclareExtern(t *ir.PathType) {
	var params []ir.ParamKind
	for _, a := range t.Args {
		switch {
		case a.Lifetime != "":
		case a.Type != nil:
			params = append(params, ir.ParamType)
		default:
			params = append(params, ir.ParamConst)
		}
	}
	c.Declare(t.Path, params...)
}

// DeclareType records a type definition under its bare name and, when it
// has a module, its qualified path.
func (c *Capabilities) DeclareType(d ir.Descriptor) {
	var params []ir.ParamKind
	for _, p := range d.Params() {
		if p.Kind != ir.ParamLifetime {
			params = append(params, p.Kind)
		}
	}
	name := d.TypeName()
	c.Declare(name.Name, params...)
	c.bare[name.Name]++
	if name.Module != "" {
		c.Declare(name.Path(), params...)
	}
}

// Forget removes a type definition recorded by DeclareType. The bare
// name stays declared while another definition still holds it.
func (c *Capabilities) Forget(d ir.Descriptor) {
	name := d.TypeName()
	if name.Module != "" {
		delete(c.known, name.Path())
	}
	if c.bare[name.Name]--; c.bare[name.Name] <= 0 {
		delete(c.bare, name.Name)
		delete(c.known, name.Name)
	}
}

// Knows reports whether path has been declared.
func (c *Capabilities) Knows(path string) bool {
	_, ok := c.known[path]
	return ok
}

// Clone returns an independent copy.
func (c *Capabilities) Clone() *Capabilities {
	return &Capabilities{known: maps.Clone(c.known), bare: maps.Clone(c.bare)}
}

// Unsupported explains why a type lacks the zero-value capability.
type Unsupported struct {
	// Type is the innermost offending type.
	Type ir.TypeExpr

	Reason string
}

// Check decides whether t is zero-capable. typeParams holds the names of
// the enclosing definition's type parameters, which carry the propagated
// capability bound. It returns nil when t is supported.
func (c *Capabilities) Check(t ir.TypeExpr, typeParams map[string]bool) *Unsupported {
	switch t := t.(type) {
	case *ir.PathType:
		return c.checkPath(t, typeParams)
	case *ir.PointerType:
		// The runtime declares *const T and *mut T only for zero-capable,
		// sized T.
		return c.Check(t.Elem, typeParams)
	case *ir.ArrayType:
		return c.Check(t.Elem, typeParams)
	case *ir.SliceType:
		// [T] implements the trait, but zeroed needs Self: Sized, and a
		// pointer, array or generic argument needs a sized element.
		return &Unsupported{Type: t, Reason: "unsized element: a slice cannot be produced by value"}
	case *ir.TupleType:
		if len(t.Elems) == 0 {
			return nil
		}
		return &Unsupported{Type: t, Reason: "tuples other than () have no zero-value implementation"}
	case *ir.ReferenceType:
		return &Unsupported{Type: t, Reason: "references are never null, so all-zero bytes is not a valid reference"}
	case *ir.OpaqueType:
		return &Unsupported{Type: t, Reason: "type cannot be analysed"}
	case nil:
		return &Unsupported{Type: ir.Opaque("<missing>"), Reason: "field has no type"}
	default:
		return &Unsupported{Type: t, Reason: fmt.Sprintf("unsupported type expression kind %s", t.ExprKind())}
	}
}

func (c *Capabilities) checkPath(t *ir.PathType, typeParams map[string]bool) *Unsupported {
	if t.IsSimple() && typeParams[t.Path] {
		return nil
	}
	if len(t.Args) == 0 && IsScalarLeaf(t.Path) {
		return nil
	}

	sig, ok := c.known[t.Path]
	if !ok {
		return &Unsupported{Type: t, Reason: t.Path + " has no known zero-value implementation"}
	}

	var args []ir.GenericArg
	for _, a := range t.Args {
		if a.Lifetime == "" {
			args = append(args, a)
		}
	}
	if len(args) != len(sig) {
		return &Unsupported{
			Type:   t,
			Reason: fmt.Sprintf("%s takes %d generic arguments, got %d", t.Path, len(sig), len(args)),
		}
	}
	for i, a := range args {
		if sig[i] != ir.ParamType {
			continue
		}
		if a.Type == nil {
			return &Unsupported{Type: t, Reason: fmt.Sprintf("generic argument %d of %s must be a type", i+1, t.Path)}
		}
		if u := c.Check(a.Type, typeParams); u != nil {
			return u
		}
	}
	return nil
}
