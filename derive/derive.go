// Package derive decides whether the all-zero byte pattern is a valid value
// of a type definition and, if so, builds the implementation of the
// zero-value capability for it.
//
// Derive runs the pipeline for one definition:
//
//	enum only:   Classify -> ZeroVariant
//	all kinds:   Compose -> Propagate -> Implementation
//
// Every stage is pure. Separate definitions may be derived concurrently as
// long as they share no mutable Capabilities.
package derive

import (
	"github.com/cockroachdb/errors"

	"github.com/broady/zerogen/diag"
	"github.com/broady/zerogen/ir"
)

// DefaultTrait is the capability trait used when Options.Trait is empty.
const DefaultTrait = "fromzeros::FromZeros"

// Options configures Derive.
type Options struct {
	// Trait is the path of the capability trait, appended as a bound to
	// every type parameter.
	Trait string

	// Capabilities lists the named types known to be zero-capable.
	// nil means leaves only.
	Capabilities *Capabilities
}

// Implementation is the generated zero-value implementation for one type.
type Implementation struct {
	Kind   ir.Kind
	Target ir.Identifier

	// Generics are the definition's parameters with the capability bound
	// propagated to each type parameter.
	Generics []ir.GenericParam

	// TypeArgs are the parameter names applied to Target.
	TypeArgs []string

	// Where is the definition's where clause, unchanged.
	Where []string

	Trait string

	// Variant is the zero variant for enums, empty otherwise.
	Variant string

	// Body is the zero-construction of the struct, union or variant.
	Body Construct

	Source ir.Source
}

// Constructor returns the path that is constructed: the type itself, or
// Type::Variant for enums.
func (impl *Implementation) Constructor() string {
	path := impl.Target.Path()
	if impl.Variant != "" {
		path += "::" + impl.Variant
	}
	return path
}

// Derive analyses d and returns its zero-value implementation, or a
// *diag.Diagnostic (possibly wrapped with hints) explaining why none exists.
func Derive(d ir.Descriptor, opts Options) (*Implementation, error) {
	if d == nil {
		return nil, diag.UnsupportedKind("", "<nil>", ir.Source{})
	}
	trait := opts.Trait
	if trait == "" {
		trait = DefaultTrait
	}

	scope := Scope{
		Type:         d.TypeName().Path(),
		TypeParams:   typeParamNames(d.Params()),
		Capabilities: opts.Capabilities,
	}

	var fields ir.FieldList
	switch t := d.(type) {
	case *ir.StructDescriptor:
		fields = t.Fields
	case *ir.UnionDescriptor:
		// Every member must be zero-capable, although one would suffice.
		fields = t.Fields
	case *ir.EnumDescriptor:
		v, err := resolveEnum(t, scope.Type)
		if err != nil {
			return nil, err
		}
		scope.Variant = v.Name
		fields = v.Fields
	default:
		return nil, diag.UnsupportedKind(scope.Type, d.Kind().String(), d.Src())
	}

	body, err := Compose(fields, scope)
	if err != nil {
		return nil, err
	}

	return &Implementation{
		Kind:     d.Kind(),
		Target:   d.TypeName(),
		Generics: Propagate(d.Params(), trait),
		TypeArgs: typeArgs(d.Params()),
		Where:    append([]string(nil), d.WherePredicates()...),
		Trait:    trait,
		Variant:  scope.Variant,
		Body:     body,
		Source:   d.Src(),
	}, nil
}

func resolveEnum(e *ir.EnumDescriptor, name string) (*ir.Variant, error) {
	if Classify(e) == ReprUndefined {
		d := &diag.Diagnostic{
			Code:    diag.CodeLayoutUndefined,
			Type:    name,
			Message: "enum must be either C-like or use a primitive repr",
			Source:  e.Source,
		}
		return nil, errors.WithHint(d, "add #[repr(u8)] or another primitive integer representation")
	}

	v, ok := ZeroVariant(e)
	if !ok {
		d := &diag.Diagnostic{
			Code:    diag.CodeNoZeroDiscriminant,
			Type:    name,
			Message: "enum does not have a variant with a provably-zero discriminant",
			Source:  e.Source,
		}
		return nil, errors.WithHint(d, "give one variant the explicit discriminant 0, or leave the first variant's discriminant implicit")
	}
	return v, nil
}
