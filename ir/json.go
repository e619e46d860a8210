package ir

import "encoding/json"

// JSON serialization support for IR types.
// Descriptors include a "kind" field for type discrimination; type
// expressions serialize as their source syntax.

type jsonHeader struct {
	Kind       string         `json:"kind"`
	Name       Identifier     `json:"name"`
	Generics   []GenericParam `json:"generics,omitempty"`
	Where      []string       `json:"where,omitempty"`
	Attributes []Attribute    `json:"attributes,omitempty"`
	Source     *Source        `json:"source,omitempty"`
}

func header(d Descriptor) jsonHeader {
	h := jsonHeader{
		Kind:       d.Kind().String(),
		Name:       d.TypeName(),
		Generics:   d.Params(),
		Where:      d.WherePredicates(),
		Attributes: d.Attrs(),
	}
	if src := d.Src(); !src.IsZero() {
		h.Source = &src
	}
	return h
}

// MarshalJSON implements json.Marshaler for StructDescriptor.
func (d *StructDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		jsonHeader
		Fields FieldList `json:"fields"`
	}{
		jsonHeader: header(d),
		Fields:     d.Fields,
	})
}

// MarshalJSON implements json.Marshaler for UnionDescriptor.
func (d *UnionDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		jsonHeader
		Fields FieldList `json:"fields"`
	}{
		jsonHeader: header(d),
		Fields:     d.Fields,
	})
}

// MarshalJSON implements json.Marshaler for EnumDescriptor.
func (d *EnumDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		jsonHeader
		Variants []Variant `json:"variants"`
	}{
		jsonHeader: header(d),
		Variants:   d.Variants,
	})
}

// MarshalJSON implements json.Marshaler for Identifier.
func (id Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name   string `json:"name"`
		Module string `json:"module,omitempty"`
	}{
		Name:   id.Name,
		Module: id.Module,
	})
}

// MarshalJSON implements json.Marshaler for GenericParam.
func (p GenericParam) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind      string   `json:"kind"`
		Name      string   `json:"name"`
		Bounds    []string `json:"bounds,omitempty"`
		ConstType string   `json:"type,omitempty"`
		Default   string   `json:"default,omitempty"`
	}{
		Kind:      p.Kind.String(),
		Name:      p.Name,
		Bounds:    p.Bounds,
		ConstType: p.ConstType,
		Default:   p.Default,
	})
}

// MarshalJSON implements json.Marshaler for Attribute.
func (a Attribute) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name string   `json:"name"`
		Args []string `json:"args,omitempty"`
	}{
		Name: a.Name,
		Args: a.Args,
	})
}

// MarshalJSON implements json.Marshaler for FieldList.
func (l FieldList) MarshalJSON() ([]byte, error) {
	fields := l.Fields
	if fields == nil {
		fields = []Field{}
	}
	return json.Marshal(&struct {
		Style  string  `json:"style"`
		Fields []Field `json:"fields"`
	}{
		Style:  l.Style.String(),
		Fields: fields,
	})
}

// MarshalJSON implements json.Marshaler for Field.
func (f Field) MarshalJSON() ([]byte, error) {
	var typ string
	if f.Type != nil {
		typ = f.Type.String()
	}
	var src *Source
	if !f.Source.IsZero() {
		src = &f.Source
	}
	return json.Marshal(&struct {
		Name   string  `json:"name,omitempty"`
		Type   string  `json:"type"`
		Source *Source `json:"source,omitempty"`
	}{
		Name:   f.Name,
		Type:   typ,
		Source: src,
	})
}

// MarshalJSON implements json.Marshaler for Variant.
func (v Variant) MarshalJSON() ([]byte, error) {
	var disc string
	if v.Discriminant != nil {
		disc = v.Discriminant.Text
	}
	return json.Marshal(&struct {
		Name         string    `json:"name"`
		Discriminant string    `json:"discriminant,omitempty"`
		Fields       FieldList `json:"fields"`
	}{
		Name:         v.Name,
		Discriminant: disc,
		Fields:       v.Fields,
	})
}

// MarshalJSON implements json.Marshaler for Source.
func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		File   string `json:"file,omitempty"`
		Line   int    `json:"line,omitempty"`
		Column int    `json:"column,omitempty"`
	}{
		File:   s.File,
		Line:   s.Line,
		Column: s.Column,
	})
}
