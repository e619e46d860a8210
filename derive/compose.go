package derive

import (
	"github.com/cockroachdb/errors"

	"github.com/broady/zerogen/diag"
	"github.com/broady/zerogen/ir"
)

// Construct is the zero-construction of one field list: the field list's
// shape plus one zero-value init per field.
type Construct struct {
	Style ir.FieldStyle
	Inits []FieldInit
}

// FieldInit is the zero value of a single field.
type FieldInit struct {
	// Name is empty for positional fields.
	Name string

	// Type is the field's declared type; the init is that type's zero value.
	Type ir.TypeExpr

	// Source is the field's declaration, so downstream type errors point
	// at the field rather than at generated code.
	Source ir.Source
}

// Scope identifies where a field list sits, for diagnostics and for
// resolving generic parameters.
type Scope struct {
	// Type is the use-site path of the enclosing definition.
	Type string

	// Variant is set when composing an enum variant.
	Variant string

	// TypeParams names the definition's type parameters.
	TypeParams map[string]bool

	Capabilities *Capabilities
}

// Compose builds the zero-construction for fields. Every field must be
// zero-capable; the first that is not yields an UnmetFieldConstraint
// diagnostic and no construct.
func Compose(fields ir.FieldList, scope Scope) (Construct, error) {
	caps := scope.Capabilities
	if caps == nil {
		caps = NewCapabilities()
	}

	c := Construct{Style: fields.Style}
	switch fields.Style {
	case ir.FieldsUnit:
		return c, nil
	case ir.FieldsUnnamed, ir.FieldsNamed:
	default:
		return Construct{}, diag.Parsef(ir.Source{}, "%s: unknown field style %d", scope.Type, fields.Style)
	}

	c.Inits = make([]FieldInit, 0, len(fields.Fields))
	for i, f := range fields.Fields {
		if u := caps.Check(f.Type, scope.TypeParams); u != nil {
			return Construct{}, unmet(scope, f, i, u)
		}
		init := FieldInit{Type: f.Type, Source: f.Source}
		if fields.Style == ir.FieldsNamed {
			init.Name = f.Name
		}
		c.Inits = append(c.Inits, init)
	}
	return c, nil
}

func unmet(scope Scope, f ir.Field, index int, u *Unsupported) error {
	var declared string
	if f.Type != nil {
		declared = f.Type.String()
	}
	d := &diag.Diagnostic{
		Code:      diag.CodeUnmetFieldConstraint,
		Type:      scope.Type,
		Variant:   scope.Variant,
		Field:     f.Label(index),
		FieldType: declared,
		Subject:   u.Type.String(),
		Message:   "field type " + declared + " does not support the zero-value capability: " + u.Reason,
		Source:    f.Source,
	}
	if _, ok := u.Type.(*ir.ReferenceType); ok {
		return errors.WithHint(d, "use a raw pointer such as *const T, which may be null")
	}
	return d
}
