package ir

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseDiscriminant(t *testing.T) {
	tests := []struct {
		text    string
		literal bool
		zero    bool
		value   string
	}{
		{text: "0", literal: true, zero: true, value: "0"},
		{text: " 0 ", literal: true, zero: true, value: "0"},
		{text: "0x0", literal: true, zero: true, value: "0"},
		{text: "0o00", literal: true, zero: true, value: "0"},
		{text: "0b0000_0000", literal: true, zero: true, value: "0"},
		{text: "0u8", literal: true, zero: true, value: "0"},
		{text: "0_usize", literal: true, zero: true, value: "0"},
		{text: "-0", literal: true, zero: true, value: "0"},
		{text: "1", literal: true, value: "1"},
		{text: "-1", literal: true, value: "-1"},
		{text: "- 2i64", literal: true, value: "-2"},
		{text: "0xff", literal: true, value: "255"},
		{text: "1_000", literal: true, value: "1000"},
		{text: "340282366920938463463374607431768211455u128", literal: true, value: "340282366920938463463374607431768211455"},
		{text: "BASE"},
		{text: "1 + 1"},
		{text: "0 * X"},
		{text: "u8"},
		{text: ""},
		{text: "0x"},
		{text: "_0"},
		{text: "__0"},
		{text: "-_0"},
		{text: "+0"},
		{text: "--0"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d := ParseDiscriminant(tt.text)
			if d.Text != strings.TrimSpace(tt.text) {
				t.Errorf("Text = %q", d.Text)
			}
			if d.IsLiteral() != tt.literal {
				t.Fatalf("IsLiteral() = %v, want %v", d.IsLiteral(), tt.literal)
			}
			if d.IsZero() != tt.zero {
				t.Errorf("IsZero() = %v, want %v", d.IsZero(), tt.zero)
			}
			if tt.literal && d.Value.String() != tt.value {
				t.Errorf("Value = %s, want %s", d.Value, tt.value)
			}
		})
	}
}

func TestTypeExprString(t *testing.T) {
	tests := []struct {
		expr TypeExpr
		want string
	}{
		{Path("u8"), "u8"},
		{Path("core::num::Wrapping", Path("T")), "core::num::Wrapping<T>"},
		{&PathType{Path: "Cell", Args: []GenericArg{{Lifetime: "'a"}, {Type: Path("u8")}, {Const: "4"}}}, "Cell<'a, u8, 4>"},
		{Ptr(Path("u8"), false), "*const u8"},
		{Ptr(Path("u8"), true), "*mut u8"},
		{Ref("", Path("u8"), false), "&u8"},
		{Ref("'a", Path("u8"), true), "&'a mut u8"},
		{Array(Path("u8"), "N"), "[u8; N]"},
		{Slice(Path("u8")), "[u8]"},
		{UnitType(), "()"},
		{Tuple(Path("u8")), "(u8,)"},
		{Tuple(Path("u8"), Array(Path("i32"), "2")), "(u8, [i32; 2])"},
		{Opaque("dyn Fn()"), "dyn Fn()"},
	}
	for _, tt := range tests {
		if got := tt.expr.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestPathTypeIsSimple(t *testing.T) {
	if !Path("T").IsSimple() {
		t.Error("T should be simple")
	}
	if Path("a::T").IsSimple() || Path("T", Path("u8")).IsSimple() {
		t.Error("qualified or applied paths are not simple")
	}
}

func TestSourceString(t *testing.T) {
	tests := []struct {
		src  Source
		want string
	}{
		{Source{}, ""},
		{Source{File: "a.yaml"}, "a.yaml"},
		{Source{File: "a.yaml", Line: 3}, "a.yaml:3"},
		{Source{File: "a.yaml", Line: 3, Column: 7}, "a.yaml:3:7"},
	}
	for _, tt := range tests {
		if got := tt.src.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestIdentifierPath(t *testing.T) {
	if got := (Identifier{Name: "Header"}).Path(); got != "Header" {
		t.Errorf("Path() = %q", got)
	}
	if got := (Identifier{Name: "Header", Module: "crate::net"}).Path(); got != "crate::net::Header" {
		t.Errorf("Path() = %q", got)
	}
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name  string
		types []Descriptor
		codes []string
	}{
		{
			name: "valid",
			types: []Descriptor{
				&StructDescriptor{Name: Identifier{Name: "A"}, Fields: Named(Field{Name: "x", Type: Path("u8")})},
				&EnumDescriptor{Name: Identifier{Name: "B"}, Variants: []Variant{{Name: "X"}, {Name: "Y"}}},
			},
		},
		{
			name:  "nil descriptor",
			types: []Descriptor{nil},
			codes: []string{"nil_type"},
		},
		{
			name:  "missing name",
			types: []Descriptor{&StructDescriptor{}},
			codes: []string{"missing_name"},
		},
		{
			name: "duplicate type",
			types: []Descriptor{
				&StructDescriptor{Name: Identifier{Name: "A"}},
				&UnionDescriptor{Name: Identifier{Name: "A"}},
			},
			codes: []string{"duplicate_type"},
		},
		{
			name: "same name in different modules",
			types: []Descriptor{
				&StructDescriptor{Name: Identifier{Name: "A", Module: "x"}},
				&StructDescriptor{Name: Identifier{Name: "A", Module: "y"}},
			},
		},
		{
			name: "generic parameters",
			types: []Descriptor{&StructDescriptor{
				Name: Identifier{Name: "A"},
				Generics: []GenericParam{
					{Kind: ParamType, Name: "T"},
					{Kind: ParamType, Name: "T"},
					{Kind: ParamConst, Name: "N"},
					{Kind: ParamType},
				},
			}},
			codes: []string{"duplicate_param", "missing_const_type", "missing_param_name"},
		},
		{
			name: "variants",
			types: []Descriptor{&EnumDescriptor{
				Name:     Identifier{Name: "E"},
				Variants: []Variant{{Name: "X"}, {Name: "X"}, {}},
			}},
			codes: []string{"duplicate_variant", "missing_variant_name"},
		},
		{
			name: "fields",
			types: []Descriptor{
				&StructDescriptor{Name: Identifier{Name: "A"}, Fields: Named(
					Field{Name: "x", Type: Path("u8")},
					Field{Name: "x", Type: Path("u8")},
					Field{Type: Path("u8")},
					Field{Name: "y"},
				)},
				&StructDescriptor{Name: Identifier{Name: "B"}, Fields: Unnamed(Field{Name: "z", Type: Path("u8")})},
				&StructDescriptor{Name: Identifier{Name: "C"}, Fields: FieldList{Style: FieldsUnit, Fields: []Field{{Type: Path("u8")}}}},
			},
			codes: []string{"duplicate_field", "missing_field_name", "missing_field_type", "unexpected_field_name", "unit_with_fields"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Schema{Types: tt.types}
			errs := s.Validate()
			var codes []string
			for _, err := range errs {
				codes = append(codes, err.(*ValidationError).Code)
			}
			if strings.Join(codes, ",") != strings.Join(tt.codes, ",") {
				t.Errorf("codes = %v, want %v", codes, tt.codes)
			}
		})
	}
}

func TestValidationErrorIncludesSource(t *testing.T) {
	err := &ValidationError{Message: "boom", Source: Source{File: "a.yaml", Line: 2}}
	if got := err.Error(); got != "a.yaml:2: boom" {
		t.Errorf("Error() = %q", got)
	}
}

func TestSchemaMergeAndFind(t *testing.T) {
	var s Schema
	s.AddType(&StructDescriptor{Name: Identifier{Name: "A"}})
	s.Merge(&Schema{
		Types:  []Descriptor{&EnumDescriptor{Name: Identifier{Name: "B", Module: "crate"}}},
		Extern: []*PathType{Path("Wrapping", Path("T"))},
	})
	if len(s.Types) != 2 || len(s.Extern) != 1 {
		t.Fatalf("Merge: %d types, %d externs", len(s.Types), len(s.Extern))
	}
	if s.FindType("crate::B") == nil || s.FindType("B") != nil {
		t.Error("FindType matches use-site paths exactly")
	}
}

func TestDescriptorJSON(t *testing.T) {
	d := ParseDiscriminant("0x0")
	e := &EnumDescriptor{
		Name:       Identifier{Name: "E", Module: "crate"},
		Attributes: []Attribute{{Name: "repr", Args: []string{"u8"}}},
		Variants: []Variant{
			{Name: "A", Discriminant: &d},
			{Name: "B", Fields: Unnamed(Field{Type: Ptr(Path("u8"), false)})},
		},
		Source: Source{File: "e.yaml", Line: 1, Column: 3},
	}
	got, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"kind":"Enum","name":{"name":"E","module":"crate"},"attributes":[{"name":"repr","args":["u8"]}],` +
		`"source":{"file":"e.yaml","line":1,"column":3},"variants":[` +
		`{"name":"A","discriminant":"0x0","fields":{"style":"unit","fields":[]}},` +
		`{"name":"B","fields":{"style":"tuple","fields":[{"type":"*const u8"}]}}]}`
	if string(got) != want {
		t.Errorf("json =\n%s\nwant\n%s", got, want)
	}
}
