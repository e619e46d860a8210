// Package provider implements input providers that read type definitions
// from descriptor documents and convert them to the intermediate
// representation.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/broady/zerogen/diag"
	"github.com/broady/zerogen/ir"
)

// DocumentProvider extracts types from YAML or JSON descriptor documents.
type DocumentProvider struct{}

// DocumentInputOptions configures document-based type extraction.
type DocumentInputOptions struct {
	// Files are the descriptor documents to read, in order. The format is
	// chosen by extension: .yaml, .yml or .json.
	Files []string
}

// BuildSchema reads every document and merges them into one Schema in
// file order. All documents are read; the error lists every failure.
func (p *DocumentProvider) BuildSchema(ctx context.Context, opts DocumentInputOptions) (*ir.Schema, error) {
	if len(opts.Files) == 0 {
		return nil, errors.New("no input files specified")
	}

	schema := &ir.Schema{}
	var errs diag.List
	for _, file := range opts.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := LoadFile(file)
		if err != nil {
			errs = appendErr(errs, err)
			continue
		}
		schema.Merge(s)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return schema, nil
}

// LoadFile reads one descriptor document from disk.
func LoadFile(path string) (*ir.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, diag.Parsef(ir.Source{File: path}, "read descriptor document: %v", err)
	}
	return Load(path, data)
}

// Load parses a descriptor document. name selects the format by extension
// and is the default source file of every definition in it.
func Load(name string, data []byte) (*ir.Schema, error) {
	var doc document
	src := ir.Source{File: name}
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, diag.Parsef(src, "invalid YAML: %v", err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return nil, diag.Parsef(src, "invalid JSON: %v", err)
		}
	default:
		return nil, diag.Parsef(src, "unknown descriptor format %q (expected .yaml, .yml or .json)", ext)
	}

	if err := validate.Struct(&doc); err != nil {
		return nil, validationErrors(name, err)
	}

	schema := &ir.Schema{}
	var errs diag.List
	for _, text := range doc.Extern {
		path, err := ParsePath(text)
		if err != nil {
			errs = append(errs, diag.Parsef(src, "extern type: %v", err))
			continue
		}
		schema.Extern = append(schema.Extern, path)
	}
	for i := range doc.Types {
		d, err := convertType(name, &doc.Types[i])
		if err != nil {
			errs = appendErr(errs, err)
			continue
		}
		schema.AddType(d)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	for _, err := range schema.Validate() {
		var ve *ir.ValidationError
		if errors.As(err, &ve) {
			errs = append(errs, diag.Parsef(ve.Source, "%s", ve.Message))
			continue
		}
		errs = append(errs, diag.Parsef(src, "%v", err))
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return schema, nil
}

var validate = validator.New()

// validationErrors converts validator failures into ParseError diagnostics
// that name the offending document path.
func validationErrors(name string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return diag.Parsef(ir.Source{File: name}, "%v", err)
	}
	var errs diag.List
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "document.")
		msg := field + " is invalid (" + fe.Tag() + ")"
		switch fe.Tag() {
		case "required":
			msg = field + " is required"
		case "oneof":
			msg = field + " must be one of: " + fe.Param()
		}
		errs = append(errs, diag.Parsef(ir.Source{File: name}, "%s", msg))
	}
	return errs
}

func appendErr(errs diag.List, err error) diag.List {
	var list diag.List
	if errors.As(err, &list) {
		return append(errs, list...)
	}
	return append(errs, err)
}

func resolveSource(file string, explicit *sourceDoc, pos position) ir.Source {
	if explicit != nil {
		src := ir.Source{File: explicit.File, Line: explicit.Line, Column: explicit.Column}
		if src.File == "" {
			src.File = file
		}
		return src
	}
	return ir.Source{File: file, Line: pos.line, Column: pos.column}
}

func convertType(file string, td *typeDoc) (ir.Descriptor, error) {
	name := ir.Identifier{Name: td.Name, Module: td.Module}
	src := resolveSource(file, td.Source, td.pos)

	generics, err := convertGenerics(td.Generics, src)
	if err != nil {
		return nil, err
	}
	attrs := make([]ir.Attribute, len(td.Attributes))
	for i, a := range td.Attributes {
		attrs[i] = ir.Attribute{Name: a.Name, Args: a.Args, Source: src}
	}

	kind := strings.ToLower(strings.TrimSpace(td.Kind))
	if kind != "enum" && len(td.Variants) > 0 {
		return nil, diag.Parsef(src, "%s: only enums may declare variants", name.Path())
	}

	switch kind {
	case "struct", "union":
		fields, err := convertFields(file, name.Path(), td.Style, td.Fields, src)
		if err != nil {
			return nil, err
		}
		if kind == "union" {
			if fields.Style != ir.FieldsNamed {
				return nil, diag.Parsef(src, "%s: union fields must be named", name.Path())
			}
			return &ir.UnionDescriptor{Name: name, Generics: generics, Where: td.Where, Attributes: attrs, Fields: fields, Source: src}, nil
		}
		return &ir.StructDescriptor{Name: name, Generics: generics, Where: td.Where, Attributes: attrs, Fields: fields, Source: src}, nil

	case "enum":
		if len(td.Fields) > 0 || td.Style != "" {
			return nil, diag.Parsef(src, "%s: enums declare fields per variant", name.Path())
		}
		e := &ir.EnumDescriptor{Name: name, Generics: generics, Where: td.Where, Attributes: attrs, Source: src}
		for _, vd := range td.Variants {
			v, err := convertVariant(file, name.Path(), vd)
			if err != nil {
				return nil, err
			}
			e.Variants = append(e.Variants, v)
		}
		return e, nil

	default:
		return nil, diag.UnsupportedKind(name.Path(), td.Kind, src)
	}
}

func convertGenerics(docs []genericDoc, src ir.Source) ([]ir.GenericParam, error) {
	var params []ir.GenericParam
	for _, g := range docs {
		p := ir.GenericParam{Name: g.Name, Bounds: g.Bounds, ConstType: g.Type, Default: g.Default}
		switch {
		case g.Kind == "lifetime" || g.Kind == "" && strings.HasPrefix(g.Name, "'"):
			p.Kind = ir.ParamLifetime
		case g.Kind == "const" || g.Kind == "" && g.Type != "":
			p.Kind = ir.ParamConst
		default:
			p.Kind = ir.ParamType
		}
		if p.Kind == ir.ParamLifetime && !strings.HasPrefix(p.Name, "'") {
			return nil, diag.Parsef(src, "lifetime parameter %q must start with an apostrophe", p.Name)
		}
		if p.Kind != ir.ParamConst && g.Type != "" {
			return nil, diag.Parsef(src, "%s parameter %s cannot have a type", p.Kind, p.Name)
		}
		params = append(params, p)
	}
	return params, nil
}

func convertVariant(file, owner string, vd variantDoc) (ir.Variant, error) {
	src := resolveSource(file, vd.Source, vd.pos)
	fields, err := convertFields(file, owner+"::"+vd.Name, vd.Style, vd.Fields, src)
	if err != nil {
		return ir.Variant{}, err
	}
	v := ir.Variant{Name: vd.Name, Fields: fields, Source: src}
	if vd.Discriminant != nil {
		text := strings.TrimSpace(string(*vd.Discriminant))
		if text == "" {
			return ir.Variant{}, diag.Parsef(src, "%s::%s: empty discriminant", owner, vd.Name)
		}
		d := ir.ParseDiscriminant(text)
		v.Discriminant = &d
	}
	return v, nil
}

// convertFields infers the field style when none is given: no fields is
// unit, all named is named, all positional is tuple.
func convertFields(file, owner, style string, docs []fieldDoc, src ir.Source) (ir.FieldList, error) {
	named := 0
	for _, f := range docs {
		if f.Name != "" {
			named++
		}
	}

	var list ir.FieldList
	switch style {
	case "unit":
		if len(docs) > 0 {
			return ir.FieldList{}, diag.Parsef(src, "%s: unit style cannot list fields", owner)
		}
		return ir.Unit(), nil
	case "tuple":
		list.Style = ir.FieldsUnnamed
	case "named":
		list.Style = ir.FieldsNamed
	case "":
		switch {
		case len(docs) == 0:
			return ir.Unit(), nil
		case named == len(docs):
			list.Style = ir.FieldsNamed
		case named == 0:
			list.Style = ir.FieldsUnnamed
		default:
			return ir.FieldList{}, diag.Parsef(src, "%s: fields mix named and positional entries", owner)
		}
	}

	for i, f := range docs {
		fsrc := resolveSource(file, f.Source, f.pos)
		if fsrc.Line == 0 && fsrc.File == src.File {
			fsrc = src
		}
		t, err := ParseType(f.Type)
		if err != nil {
			return ir.FieldList{}, diag.Parsef(fsrc, "%s.%s: %v", owner, ir.Field{Name: f.Name}.Label(i), err)
		}
		list.Fields = append(list.Fields, ir.Field{Name: f.Name, Type: t, Source: fsrc})
	}
	return list, nil
}
