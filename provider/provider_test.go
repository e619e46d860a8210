package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/zerogen/diag"
	"github.com/broady/zerogen/ir"
)

const netYAML = `extern:
  - core::num::Wrapping<T>
types:
  - name: Header
    module: crate::net
    kind: struct
    generics: ["'a", "T: Copy + Default", "const N: usize", "U = u8"]
    where: ["T: 'a"]
    attributes: ["repr(C, align(8))"]
    fields:
      - len: u32
      - name: body
        type: "[T; N]"
      - {name: tail, type: "*const U", source: {file: net.rs, line: 40, column: 5}}
  - name: Pair
    kind: struct
    fields: [u8, "Wrapping<i16>"]
  - name: Marker
    kind: Struct
  - name: Tag
    kind: enum
    attributes:
      - name: repr
        args: [u8]
    variants:
      - A = 1
      - B
      - name: C
        discriminant: 0x0
        fields: [u64]
`

func TestLoadYAML(t *testing.T) {
	s, err := Load("net.yaml", []byte(netYAML))
	require.NoError(t, err)

	require.Len(t, s.Extern, 1)
	assert.Equal(t, "core::num::Wrapping<T>", s.Extern[0].String())
	require.Len(t, s.Types, 4)

	header, ok := s.Types[0].(*ir.StructDescriptor)
	require.True(t, ok)
	assert.Equal(t, "crate::net::Header", header.Name.Path())
	assert.Equal(t, ir.Source{File: "net.yaml", Line: 4, Column: 5}, header.Source)
	assert.Equal(t, []string{"T: 'a"}, header.Where)
	assert.Equal(t, []ir.GenericParam{
		{Kind: ir.ParamLifetime, Name: "'a"},
		{Kind: ir.ParamType, Name: "T", Bounds: []string{"Copy", "Default"}},
		{Kind: ir.ParamConst, Name: "N", ConstType: "usize"},
		{Kind: ir.ParamType, Name: "U", Default: "u8"},
	}, header.Generics)
	require.Len(t, header.Attributes, 1)
	assert.Equal(t, "repr", header.Attributes[0].Name)
	assert.Equal(t, []string{"C", "align(8)"}, header.Attributes[0].Args)

	assert.Equal(t, ir.FieldsNamed, header.Fields.Style)
	require.Len(t, header.Fields.Fields, 3)
	fields := header.Fields.Fields
	assert.Equal(t, "len", fields[0].Name)
	assert.Equal(t, "u32", fields[0].Type.String())
	assert.Equal(t, ir.Source{File: "net.yaml", Line: 11, Column: 9}, fields[0].Source)
	assert.Equal(t, "[T; N]", fields[1].Type.String())
	assert.Equal(t, ir.Source{File: "net.yaml", Line: 12, Column: 9}, fields[1].Source)
	assert.Equal(t, ir.Source{File: "net.rs", Line: 40, Column: 5}, fields[2].Source)

	pair := s.Types[1].(*ir.StructDescriptor)
	assert.Equal(t, ir.FieldsUnnamed, pair.Fields.Style)
	require.Len(t, pair.Fields.Fields, 2)
	assert.Equal(t, "Wrapping<i16>", pair.Fields.Fields[1].Type.String())

	marker := s.Types[2].(*ir.StructDescriptor)
	assert.True(t, marker.Fields.IsUnit())

	tag, ok := s.Types[3].(*ir.EnumDescriptor)
	require.True(t, ok)
	assert.Equal(t, []string{"u8"}, tag.Attributes[0].Args)
	require.Len(t, tag.Variants, 3)
	assert.Equal(t, "A", tag.Variants[0].Name)
	assert.Equal(t, "1", tag.Variants[0].Discriminant.Text)
	assert.Nil(t, tag.Variants[1].Discriminant)
	assert.True(t, tag.Variants[2].Discriminant.IsZero())
	assert.Equal(t, "0x0", tag.Variants[2].Discriminant.Text)
	assert.Equal(t, ir.FieldsUnnamed, tag.Variants[2].Fields.Style)
}

func TestLoadJSON(t *testing.T) {
	doc := `{
  "types": [
    {"name": "Word", "kind": "union",
     "generics": ["T"],
     "fields": [{"name": "a", "type": "u32"}, {"name": "b", "type": "[T; 4]"}]},
    {"name": "Op", "kind": "enum", "attributes": ["#[repr(u16)]"],
     "variants": ["Nop = 3", {"name": "Halt", "discriminant": 0}]}
  ]
}`
	s, err := Load("ops.json", []byte(doc))
	require.NoError(t, err)
	require.Len(t, s.Types, 2)

	word, ok := s.Types[0].(*ir.UnionDescriptor)
	require.True(t, ok)
	assert.Equal(t, ir.Source{File: "ops.json"}, word.Source)
	assert.Equal(t, ir.Source{File: "ops.json"}, word.Fields.Fields[0].Source)

	op := s.Types[1].(*ir.EnumDescriptor)
	assert.Equal(t, "repr", op.Attributes[0].Name)
	assert.Equal(t, []string{"u16"}, op.Attributes[0].Args)
	assert.Equal(t, "3", op.Variants[0].Discriminant.Text)
	assert.True(t, op.Variants[1].Discriminant.IsZero())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		doc     string
		wantErr error
		wantMsg string
	}{
		{
			name:    "unknown extension",
			file:    "types.toml",
			wantErr: diag.ErrParse,
			wantMsg: `unknown descriptor format ".toml"`,
		},
		{
			name:    "malformed yaml",
			file:    "t.yaml",
			doc:     "types: [",
			wantErr: diag.ErrParse,
			wantMsg: "invalid YAML",
		},
		{
			name:    "malformed json",
			file:    "t.json",
			doc:     `{"types": 3}`,
			wantErr: diag.ErrParse,
			wantMsg: "invalid JSON",
		},
		{
			name:    "missing name",
			file:    "t.yaml",
			doc:     "types:\n  - kind: struct\n",
			wantErr: diag.ErrParse,
			wantMsg: "Types[0].Name is required",
		},
		{
			name:    "missing field type",
			file:    "t.yaml",
			doc:     "types:\n  - name: A\n    kind: struct\n    fields:\n      - name: x\n",
			wantErr: diag.ErrParse,
			wantMsg: "Types[0].Fields[0].Type is required",
		},
		{
			name:    "bad style",
			file:    "t.yaml",
			doc:     "types:\n  - name: A\n    kind: struct\n    style: record\n",
			wantErr: diag.ErrParse,
			wantMsg: "Types[0].Style must be one of: unit tuple named",
		},
		{
			name:    "unsupported kind",
			file:    "t.yaml",
			doc:     "types:\n  - name: A\n    kind: trait\n",
			wantErr: diag.ErrUnsupportedKind,
			wantMsg: `t.yaml:2:5: A: unsupported type kind "trait"`,
		},
		{
			name:    "variants outside enum",
			file:    "t.yaml",
			doc:     "types:\n  - name: A\n    kind: struct\n    variants: [X]\n",
			wantErr: diag.ErrParse,
			wantMsg: "only enums may declare variants",
		},
		{
			name:    "positional union",
			file:    "t.yaml",
			doc:     "types:\n  - name: U\n    kind: union\n    fields: [u8]\n",
			wantErr: diag.ErrParse,
			wantMsg: "union fields must be named",
		},
		{
			name:    "enum with top-level fields",
			file:    "t.yaml",
			doc:     "types:\n  - name: E\n    kind: enum\n    fields: [u8]\n",
			wantErr: diag.ErrParse,
			wantMsg: "enums declare fields per variant",
		},
		{
			name:    "mixed fields",
			file:    "t.yaml",
			doc:     "types:\n  - name: A\n    kind: struct\n    fields:\n      - x: u8\n      - u16\n",
			wantErr: diag.ErrParse,
			wantMsg: "A: fields mix named and positional entries",
		},
		{
			name:    "unit style with fields",
			file:    "t.yaml",
			doc:     "types:\n  - name: A\n    kind: struct\n    style: unit\n    fields: [u8]\n",
			wantErr: diag.ErrParse,
			wantMsg: "unit style cannot list fields",
		},
		{
			name:    "bad field type",
			file:    "t.yaml",
			doc:     "types:\n  - name: A\n    kind: struct\n    fields:\n      - x: \"*u8\"\n",
			wantErr: diag.ErrParse,
			wantMsg: "t.yaml:5:9: A.x: expected const or mut after *",
		},
		{
			name:    "empty discriminant",
			file:    "t.yaml",
			doc:     "types:\n  - name: E\n    kind: enum\n    variants: [\"A =\"]\n",
			wantErr: diag.ErrParse,
			wantMsg: "E::A: empty discriminant",
		},
		{
			name:    "bad lifetime",
			file:    "t.yaml",
			doc:     "types:\n  - name: A\n    kind: struct\n    generics: [{name: a, kind: lifetime}]\n",
			wantErr: diag.ErrParse,
			wantMsg: "must start with an apostrophe",
		},
		{
			name:    "bad extern",
			file:    "t.yaml",
			doc:     "extern: [\"&u8\"]\n",
			wantErr: diag.ErrParse,
			wantMsg: "extern type",
		},
		{
			name:    "duplicate type",
			file:    "t.yaml",
			doc:     "types:\n  - {name: A, kind: struct}\n  - {name: A, kind: enum}\n",
			wantErr: diag.ErrParse,
			wantMsg: "duplicate type name: A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(tt.file, []byte(tt.doc))
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadReportsEveryType(t *testing.T) {
	doc := "types:\n  - {name: A, kind: trait}\n  - {name: B, kind: struct}\n  - {name: C, kind: struct, fields: [\"[u8\"]}\n"
	_, err := Load("t.yaml", []byte(doc))

	var list diag.List
	require.True(t, errors.As(err, &list))
	require.Len(t, list, 2)
	assert.True(t, errors.Is(list[0], diag.ErrUnsupportedKind))
	assert.True(t, errors.Is(list[1], diag.ErrParse))
}

func TestDocumentProvider(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(a, []byte("types:\n  - {name: A, kind: struct}\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(`{"extern": ["Ext"], "types": [{"name": "B", "kind": "enum", "variants": ["X"]}]}`), 0o644))

	p := &DocumentProvider{}
	s, err := p.BuildSchema(context.Background(), DocumentInputOptions{Files: []string{a, b}})
	require.NoError(t, err)
	require.Len(t, s.Types, 2)
	assert.Equal(t, "A", s.Types[0].TypeName().Name)
	assert.Equal(t, "B", s.Types[1].TypeName().Name)
	assert.Equal(t, a, s.Types[0].Src().File)
	require.Len(t, s.Extern, 1)

	t.Run("missing files are collected", func(t *testing.T) {
		_, err := p.BuildSchema(context.Background(), DocumentInputOptions{Files: []string{
			filepath.Join(dir, "missing.yaml"), a, filepath.Join(dir, "gone.json"),
		}})
		var list diag.List
		require.True(t, errors.As(err, &list))
		assert.Len(t, list, 2)
		assert.True(t, errors.Is(err, diag.ErrParse))
	})

	t.Run("no inputs", func(t *testing.T) {
		_, err := p.BuildSchema(context.Background(), DocumentInputOptions{})
		assert.ErrorContains(t, err, "no input files specified")
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.BuildSchema(ctx, DocumentInputOptions{Files: []string{a}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestShorthands(t *testing.T) {
	tests := []struct {
		in   string
		want genericDoc
	}{
		{"T", genericDoc{Name: "T"}},
		{"T: Copy + 'static", genericDoc{Name: "T", Bounds: []string{"Copy", "'static"}}},
		{"'a: 'b", genericDoc{Name: "'a", Bounds: []string{"'b"}}},
		{"const N: usize = 4", genericDoc{Name: "N", Kind: "const", Type: "usize", Default: "4"}},
		{"T: Copy = u8", genericDoc{Name: "T", Bounds: []string{"Copy"}, Default: "u8"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseGenericShorthand(tt.in), tt.in)
	}

	assert.Equal(t, attrDoc{Name: "repr", Args: []string{"C", "packed(2)"}}, parseAttrShorthand("#[repr(C, packed(2))]"))
	assert.Equal(t, attrDoc{Name: "non_exhaustive"}, parseAttrShorthand("non_exhaustive"))
	assert.Equal(t, "-1", string(*parseVariantShorthand("A = -1").Discriminant))
}
