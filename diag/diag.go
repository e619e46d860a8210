// Package diag defines the fatal diagnostics produced while generating
// zero-value implementations.
//
// Every failure is a *Diagnostic whose Unwrap returns one of the sentinel
// errors below, so callers classify failures with errors.Is:
//
//	if errors.Is(err, diag.ErrLayoutUndefined) {
//	    // add a primitive repr
//	}
//
// Hints for the user are attached with errors.WithHint and read back with
// errors.GetAllHints.
package diag

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/broady/zerogen/ir"
)

// Sentinel errors, one per failure class.
var (
	ErrParse                = errors.New("parse error")
	ErrUnsupportedKind      = errors.New("unsupported kind")
	ErrLayoutUndefined      = errors.New("layout undefined")
	ErrNoZeroDiscriminant   = errors.New("no zero discriminant")
	ErrUnmetFieldConstraint = errors.New("unmet field constraint")
)

// Code is a machine-readable failure class.
type Code string

const (
	CodeParse                Code = "parse_error"
	CodeUnsupportedKind      Code = "unsupported_kind"
	CodeLayoutUndefined      Code = "layout_undefined"
	CodeNoZeroDiscriminant   Code = "no_zero_discriminant"
	CodeUnmetFieldConstraint Code = "unmet_field_constraint"
)

// Sentinel returns the sentinel error for the code.
func (c Code) Sentinel() error {
	switch c {
	case CodeParse:
		return ErrParse
	case CodeUnsupportedKind:
		return ErrUnsupportedKind
	case CodeLayoutUndefined:
		return ErrLayoutUndefined
	case CodeNoZeroDiscriminant:
		return ErrNoZeroDiscriminant
	case CodeUnmetFieldConstraint:
		return ErrUnmetFieldConstraint
	default:
		return nil
	}
}

// Diagnostic is a fatal generation failure tied to a type definition and,
// where applicable, the offending variant or field.
type Diagnostic struct {
	Code Code

	// Type is the use-site path of the offending definition.
	Type string

	// Variant is set for failures inside an enum variant.
	Variant string

	// Field is the field name or positional index.
	Field string

	// FieldType is the field's declared type.
	FieldType string

	// Subject is the innermost type found lacking the capability, which may
	// differ from FieldType for nested types such as [Foo; 4].
	Subject string

	// Message is the human-readable description.
	Message string

	// Source is the location of the field, variant or definition.
	Source ir.Source
}

func (d *Diagnostic) Error() string {
	var b strings.Builder
	if !d.Source.IsZero() {
		b.WriteString(d.Source.String())
		b.WriteString(": ")
	}
	if d.Type != "" {
		b.WriteString(d.Type)
		if d.Variant != "" {
			b.WriteString("::")
			b.WriteString(d.Variant)
		}
		if d.Field != "" {
			b.WriteString(".")
			b.WriteString(d.Field)
		}
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

// Unwrap returns the sentinel error for the diagnostic's code.
func (d *Diagnostic) Unwrap() error {
	return d.Code.Sentinel()
}

// As extracts the Diagnostic from err, looking through wrappers.
func As(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// Parsef returns a ParseError diagnostic.
func Parsef(src ir.Source, format string, args ...any) *Diagnostic {
	return &Diagnostic{Code: CodeParse, Source: src, Message: fmt.Sprintf(format, args...)}
}

// UnsupportedKind returns an UnsupportedKind diagnostic.
func UnsupportedKind(typeName, kind string, src ir.Source) *Diagnostic {
	return &Diagnostic{
		Code:    CodeUnsupportedKind,
		Type:    typeName,
		Message: fmt.Sprintf("unsupported type kind %q (expected struct, union or enum)", kind),
		Source:  src,
	}
}

// List collects diagnostics from a batch in input order.
type List []error

func (l List) Error() string {
	msgs := make([]string, len(l))
	for i, err := range l {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Err returns nil for an empty list and the list otherwise.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (l List) Unwrap() []error {
	return l
}

// Is reports whether any collected error matches target.
func (l List) Is(target error) bool {
	for _, err := range l {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
