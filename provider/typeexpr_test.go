package provider

import (
	"strings"
	"testing"

	"github.com/broady/zerogen/ir"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		kind ir.TypeExprKind
		want string
	}{
		{"u8", ir.ExprPath, "u8"},
		{"  u8 ", ir.ExprPath, "u8"},
		{"core::num::Wrapping<T>", ir.ExprPath, "core::num::Wrapping<T>"},
		{"::std::cell::Cell<u8>", ir.ExprPath, "::std::cell::Cell<u8>"},
		{"Vec::<u8>", ir.ExprPath, "Vec<u8>"},
		{"Cell<'a, T, 4>", ir.ExprPath, "Cell<'a, T, 4>"},
		{"Bits<-1>", ir.ExprPath, "Bits<-1>"},
		{"Bits<{ N * 2 }>", ir.ExprPath, "Bits<{ N * 2 }>"},
		{"Map<K, V,>", ir.ExprPath, "Map<K, V>"},
		{"*const u8", ir.ExprPointer, "*const u8"},
		{"*mut *const T", ir.ExprPointer, "*mut *const T"},
		{"&u8", ir.ExprReference, "&u8"},
		{"&'static mut [u8]", ir.ExprReference, "&'static mut [u8]"},
		{"[u8; 4]", ir.ExprArray, "[u8; 4]"},
		{"[[u8; 2]; N * 2]", ir.ExprArray, "[[u8; 2]; N * 2]"},
		{"[u8; size_of::<u64>()]", ir.ExprArray, "[u8; size_of::<u64>()]"},
		{"[T]", ir.ExprSlice, "[T]"},
		{"()", ir.ExprTuple, "()"},
		{"(u8)", ir.ExprPath, "u8"},
		{"(u8,)", ir.ExprTuple, "(u8,)"},
		{"(u8, *const ())", ir.ExprTuple, "(u8, *const ())"},
		{"fn(u8) -> u8", ir.ExprOpaque, "fn(u8) -> u8"},
		{"dyn Send", ir.ExprOpaque, "dyn Send"},
		{"unsafe extern \"C\" fn()", ir.ExprOpaque, "unsafe extern \"C\" fn()"},
		{"!", ir.ExprOpaque, "!"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if err != nil {
				t.Fatalf("ParseType(%q) error: %v", tt.in, err)
			}
			if got.ExprKind() != tt.kind {
				t.Errorf("kind = %v, want %v", got.ExprKind(), tt.kind)
			}
			if got.String() != tt.want {
				t.Errorf("String() = %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	tests := []struct {
		in      string
		wantErr string
	}{
		{"", "empty type"},
		{"*u8", "expected const or mut after *"},
		{"[u8; ]", "empty expression"},
		{"[u8; 4", "expected \"]\""},
		{"Vec<u8", "expected \">\""},
		{"u8 u16", "unexpected \"u16\""},
		{"a<T>::b", "only supported on the last path segment"},
		{"&dyn Send", "nested dyn types are not supported"},
		{"u8$", "unexpected character"},
		{"&' u8", "invalid lifetime"},
		{"(u8 u8)", "expected \")\""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseType(tt.in)
			if err == nil {
				t.Fatalf("ParseType(%q) succeeded", tt.in)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParsePath(t *testing.T) {
	p, err := ParsePath("core::num::Wrapping<T>")
	if err != nil {
		t.Fatal(err)
	}
	if p.Path != "core::num::Wrapping" || len(p.Args) != 1 {
		t.Errorf("ParsePath = %+v", p)
	}
	if _, err := ParsePath("[u8; 4]"); err == nil {
		t.Error("arrays are not paths")
	}
}
