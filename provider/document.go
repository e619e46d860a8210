package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// document is the on-disk descriptor format shared by YAML and JSON:
//
//	extern: ["Wrapping<T>"]
//	types:
//	  - name: Header
//	    kind: struct
//	    generics: ["T: Copy"]
//	    attributes: ["repr(C)"]
//	    fields:
//	      - {name: len, type: u32}
//	      - {name: body, type: "[T; 4]"}
//	  - name: Tag
//	    kind: enum
//	    attributes: ["repr(u8)"]
//	    variants: ["A = 1", "B = 0"]
//
// Most list entries accept a scalar shorthand in addition to the mapping
// form; see the UnmarshalYAML methods.
type document struct {
	Extern []string  `yaml:"extern" json:"extern"`
	Types  []typeDoc `yaml:"types" json:"types" validate:"dive"`
}

// position is where a YAML node started. Zero for JSON input.
type position struct {
	line, column int
}

type sourceDoc struct {
	File   string `yaml:"file" json:"file"`
	Line   int    `yaml:"line" json:"line" validate:"gte=0"`
	Column int    `yaml:"column" json:"column" validate:"gte=0"`
}

type typeDoc struct {
	Name       string       `yaml:"name" json:"name" validate:"required"`
	Module     string       `yaml:"module" json:"module"`
	Kind       string       `yaml:"kind" json:"kind" validate:"required"`
	Source     *sourceDoc   `yaml:"source" json:"source"`
	Generics   []genericDoc `yaml:"generics" json:"generics" validate:"dive"`
	Where      []string     `yaml:"where" json:"where"`
	Attributes []attrDoc    `yaml:"attributes" json:"attributes" validate:"dive"`
	Style      string       `yaml:"style" json:"style" validate:"omitempty,oneof=unit tuple named"`
	Fields     []fieldDoc   `yaml:"fields" json:"fields" validate:"dive"`
	Variants   []variantDoc `yaml:"variants" json:"variants" validate:"dive"`

	pos position
}

func (t *typeDoc) UnmarshalYAML(n *yaml.Node) error {
	type plain typeDoc
	if err := n.Decode((*plain)(t)); err != nil {
		return err
	}
	t.pos = position{n.Line, n.Column}
	return nil
}

type genericDoc struct {
	Name    string   `yaml:"name" json:"name" validate:"required"`
	Kind    string   `yaml:"kind" json:"kind" validate:"omitempty,oneof=type lifetime const"`
	Bounds  []string `yaml:"bounds" json:"bounds"`
	Type    string   `yaml:"type" json:"type"`
	Default string   `yaml:"default" json:"default"`
}

// UnmarshalYAML accepts "T", "T: Copy + Default", "'a", "'a: 'b" and
// "const N: usize" as well as the mapping form.
func (g *genericDoc) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*g = parseGenericShorthand(n.Value)
		return nil
	}
	type plain genericDoc
	return n.Decode((*plain)(g))
}

func (g *genericDoc) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*g = parseGenericShorthand(s)
		return nil
	}
	type plain genericDoc
	return json.Unmarshal(data, (*plain)(g))
}

func parseGenericShorthand(s string) genericDoc {
	s = strings.TrimSpace(s)
	var g genericDoc
	if rest, ok := strings.CutPrefix(s, "const "); ok {
		g.Kind = "const"
		name, typ, _ := strings.Cut(rest, ":")
		g.Name = strings.TrimSpace(name)
		typ, def, _ := strings.Cut(typ, "=")
		g.Type = strings.TrimSpace(typ)
		g.Default = strings.TrimSpace(def)
		return g
	}

	head, def, _ := strings.Cut(s, "=")
	g.Default = strings.TrimSpace(def)
	name, bounds, _ := strings.Cut(head, ":")
	g.Name = strings.TrimSpace(name)
	for _, b := range strings.Split(bounds, "+") {
		if b = strings.TrimSpace(b); b != "" {
			g.Bounds = append(g.Bounds, b)
		}
	}
	return g
}

type attrDoc struct {
	Name string   `yaml:"name" json:"name" validate:"required"`
	Args []string `yaml:"args" json:"args"`
}

// UnmarshalYAML accepts "repr(u8, C)" as well as the mapping form.
func (a *attrDoc) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*a = parseAttrShorthand(n.Value)
		return nil
	}
	type plain attrDoc
	return n.Decode((*plain)(a))
}

func (a *attrDoc) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = parseAttrShorthand(s)
		return nil
	}
	type plain attrDoc
	return json.Unmarshal(data, (*plain)(a))
}

func parseAttrShorthand(s string) attrDoc {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "#["), "]")
	name, rest, ok := strings.Cut(s, "(")
	a := attrDoc{Name: strings.TrimSpace(name)}
	if !ok {
		return a
	}
	rest = strings.TrimSpace(rest)
	rest = strings.TrimSuffix(rest, ")")
	a.Args = splitTopLevel(rest)
	return a
}

// splitTopLevel splits s on commas outside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = appendTrimmed(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return appendTrimmed(parts, s[start:])
}

func appendTrimmed(parts []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		parts = append(parts, s)
	}
	return parts
}

var fieldKeys = map[string]bool{"name": true, "type": true, "source": true}

type fieldDoc struct {
	Name   string     `yaml:"name" json:"name"`
	Type   string     `yaml:"type" json:"type" validate:"required"`
	Source *sourceDoc `yaml:"source" json:"source"`

	pos position
}

// UnmarshalYAML accepts a bare type for positional fields, a single-entry
// mapping `len: u32` for named ones, and the full mapping form.
func (f *fieldDoc) UnmarshalYAML(n *yaml.Node) error {
	f.pos = position{n.Line, n.Column}
	if n.Kind == yaml.ScalarNode {
		f.Type = n.Value
		return nil
	}
	if n.Kind == yaml.MappingNode && len(n.Content) == 2 && !fieldKeys[n.Content[0].Value] && n.Content[1].Kind == yaml.ScalarNode {
		f.Name = n.Content[0].Value
		f.Type = n.Content[1].Value
		return nil
	}
	type plain fieldDoc
	if err := n.Decode((*plain)(f)); err != nil {
		return err
	}
	f.pos = position{n.Line, n.Column}
	return nil
}

func (f *fieldDoc) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Type = s
		return nil
	}
	type plain fieldDoc
	return json.Unmarshal(data, (*plain)(f))
}

type variantDoc struct {
	Name         string     `yaml:"name" json:"name" validate:"required"`
	Discriminant *discText  `yaml:"discriminant" json:"discriminant"`
	Style        string     `yaml:"style" json:"style" validate:"omitempty,oneof=unit tuple named"`
	Fields       []fieldDoc `yaml:"fields" json:"fields" validate:"dive"`
	Source       *sourceDoc `yaml:"source" json:"source"`

	pos position
}

// UnmarshalYAML accepts "A" and "A = 1" as well as the mapping form.
func (v *variantDoc) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*v = parseVariantShorthand(n.Value)
	} else {
		type plain variantDoc
		if err := n.Decode((*plain)(v)); err != nil {
			return err
		}
	}
	v.pos = position{n.Line, n.Column}
	return nil
}

func (v *variantDoc) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = parseVariantShorthand(s)
		return nil
	}
	type plain variantDoc
	return json.Unmarshal(data, (*plain)(v))
}

func parseVariantShorthand(s string) variantDoc {
	name, disc, ok := strings.Cut(s, "=")
	v := variantDoc{Name: strings.TrimSpace(name)}
	if ok {
		d := discText(strings.TrimSpace(disc))
		v.Discriminant = &d
	}
	return v
}

// discText is a discriminant expression. Documents may write it as a
// number or a string; both keep the text as written.
type discText string

func (d *discText) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: discriminant must be a scalar", n.Line)
	}
	*d = discText(n.Value)
	return nil
}

func (d *discText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = discText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("discriminant must be a number or a string: %w", err)
	}
	*d = discText(num.String())
	return nil
}
