// Package rust renders zero-value implementations as Rust source.
package rust

import (
	"strings"

	"github.com/broady/zerogen/derive"
	"github.com/broady/zerogen/ir"
)

const (
	// DefaultCratePath is the runtime crate that declares the capability.
	DefaultCratePath = "fromzeros"

	// DefaultTraitName is the capability trait within the runtime crate.
	DefaultTraitName = "FromZeros"

	// HeaderComment opens every generated file.
	HeaderComment = "// Code generated by zerogen. DO NOT EDIT."

	indentUnit = "    "
)

// Config controls rendering.
type Config struct {
	// CratePath qualifies the runtime's zeroed function used for unions.
	// Default: "fromzeros".
	CratePath string

	// AnnotateSources appends a `// file:line:col` comment to every field
	// init that has a known source location.
	AnnotateSources bool

	// Header is extra comment text placed after HeaderComment, one line
	// per newline-separated entry.
	Header string
}

// LineMapping ties a generated line to the declaration it came from.
type LineMapping struct {
	// Line is 1-based within the rendered text.
	Line int `json:"line"`

	// Type is the use-site path of the implementing type.
	Type string `json:"type"`

	// Field is the field label, empty for the impl header line.
	Field string `json:"field,omitempty"`

	Source ir.Source `json:"source"`
}

// Emitter handles Rust code emission for derived implementations.
type Emitter struct {
	cfg Config
}

// NewEmitter returns an emitter with defaults applied to cfg.
func NewEmitter(cfg Config) *Emitter {
	if cfg.CratePath == "" {
		cfg.CratePath = DefaultCratePath
	}
	return &Emitter{cfg: cfg}
}

// lines accumulates output one line at a time so that mappings can
// record where each field init landed.
type lines struct {
	b strings.Builder
	n int
}

func (l *lines) add(depth int, text string) int {
	l.n++
	if text != "" {
		l.b.WriteString(strings.Repeat(indentUnit, depth))
		l.b.WriteString(text)
	}
	l.b.WriteByte('\n')
	return l.n
}

// Render returns the impl block for impl and the line mappings of its
// header and field inits.
func (e *Emitter) Render(impl *derive.Implementation) (string, []LineMapping) {
	var out lines
	target := impl.Target.Path()
	var maps []LineMapping

	header := "unsafe impl" + implGenerics(impl.Generics) + " " + impl.Trait + " for " + target + typeArgs(impl.TypeArgs)
	if len(impl.Where) == 0 {
		header += " {"
	}
	n := out.add(0, header)
	if !impl.Source.IsZero() {
		maps = append(maps, LineMapping{Line: n, Type: target, Source: impl.Source})
	}
	if len(impl.Where) > 0 {
		out.add(0, "where")
		for _, pred := range impl.Where {
			out.add(1, strings.TrimSuffix(strings.TrimSpace(pred), ",")+",")
		}
		out.add(0, "{")
	}

	out.add(1, "#[inline(always)]")
	out.add(1, "fn zeroed() -> Self")
	out.add(1, "where")
	out.add(2, "Self: Sized,")
	out.add(1, "{")
	if impl.Kind == ir.KindUnion {
		maps = e.renderUnionBody(&out, impl, maps)
	} else {
		maps = e.renderConstruct(&out, impl, maps)
	}
	out.add(1, "}")
	out.add(0, "}")

	return out.b.String(), maps
}

func (e *Emitter) renderConstruct(out *lines, impl *derive.Implementation, maps []LineMapping) []LineMapping {
	target := impl.Target.Path()
	ctor := impl.Constructor()
	body := impl.Body

	switch body.Style {
	case ir.FieldsUnit:
		out.add(2, ctor)
		return maps
	case ir.FieldsNamed:
		if len(body.Inits) == 0 {
			out.add(2, ctor+" {}")
			return maps
		}
		out.add(2, ctor+" {")
	default:
		out.add(2, ctor+"(")
	}

	for i, init := range body.Inits {
		text := zeroExpr(init.Type, impl.Trait) + ","
		if init.Name != "" {
			text = init.Name + ": " + text
		}
		text = e.annotate(text, init.Source)
		n := out.add(3, text)
		maps = appendMapping(maps, n, target, label(init, i), init.Source)
	}

	if body.Style == ir.FieldsNamed {
		out.add(2, "}")
	} else {
		out.add(2, ")")
	}
	return maps
}

// renderUnionBody constrains every member to the capability and returns
// the all-zero value of the whole union, which covers its largest member.
func (e *Emitter) renderUnionBody(out *lines, impl *derive.Implementation, maps []LineMapping) []LineMapping {
	target := impl.Target.Path()
	for i, init := range impl.Body.Inits {
		text := "let _ = " + fnPath(init.Type, impl.Trait) + ";"
		text = e.annotate(text, init.Source)
		n := out.add(2, text)
		maps = appendMapping(maps, n, target, label(init, i), init.Source)
	}
	out.add(2, e.cfg.CratePath+"::zeroed::<Self>()")
	return maps
}

func (e *Emitter) annotate(text string, src ir.Source) string {
	if !e.cfg.AnnotateSources || src.IsZero() {
		return text
	}
	return text + " // " + src.String()
}

func appendMapping(maps []LineMapping, line int, target, field string, src ir.Source) []LineMapping {
	if src.IsZero() {
		return maps
	}
	return append(maps, LineMapping{Line: line, Type: target, Field: field, Source: src})
}

func label(init derive.FieldInit, index int) string {
	return ir.Field{Name: init.Name}.Label(index)
}

// fnPath is the fully qualified zeroed function of t.
func fnPath(t ir.TypeExpr, trait string) string {
	return "<" + t.String() + " as " + trait + ">::zeroed"
}

func zeroExpr(t ir.TypeExpr, trait string) string {
	return fnPath(t, trait) + "()"
}

// implGenerics renders the impl's parameter list with bounds. Defaults
// are not permitted here and were dropped by derive.Propagate.
func implGenerics(params []ir.GenericParam) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		switch p.Kind {
		case ir.ParamConst:
			parts[i] = "const " + p.Name + ": " + p.ConstType
		default:
			parts[i] = p.Name
			if len(p.Bounds) > 0 {
				parts[i] += ": " + strings.Join(p.Bounds, " + ")
			}
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func typeArgs(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return "<" + strings.Join(args, ", ") + ">"
}
