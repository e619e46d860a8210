package ir

import (
	"math/big"
	"strings"
)

// integerSuffixes are the literal suffixes accepted on a discriminant,
// longest first so that "i128" is not read as "i1" + "28".
var integerSuffixes = []string{
	"i128", "u128", "isize", "usize",
	"i16", "i32", "i64", "u16", "u32", "u64",
	"i8", "u8",
}

// Discriminant is an explicit enum discriminant as written in source.
type Discriminant struct {
	// Text is the expression verbatim, e.g. "0x10" or "BASE + 1".
	Text string

	// Value is set when Text is an integer literal, optionally negated.
	// Any other expression leaves it nil: its value is not computed.
	Value *big.Int
}

// ParseDiscriminant interprets a discriminant expression. It never fails;
// expressions that are not integer literals yield a Discriminant whose
// Value is nil.
func ParseDiscriminant(text string) Discriminant {
	d := Discriminant{Text: strings.TrimSpace(text)}
	d.Value = parseIntLiteral(d.Text)
	return d
}

// IsLiteral reports whether the discriminant value is known.
func (d Discriminant) IsLiteral() bool {
	return d.Value != nil
}

// IsZero reports whether the discriminant is a literal equal to zero.
func (d Discriminant) IsZero() bool {
	return d.Value != nil && d.Value.Sign() == 0
}

func parseIntLiteral(s string) *big.Int {
	neg := false
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		neg = true
		s = strings.TrimSpace(rest)
	}
	// Literals start with a digit; "_0" is an identifier.
	if s == "" || s[0] < '0' || s[0] > '9' {
		return nil
	}

	for _, suffix := range integerSuffixes {
		if rest, ok := strings.CutSuffix(s, suffix); ok && rest != "" {
			s = rest
			break
		}
	}
	s = strings.TrimRight(s, "_")

	base := 10
	switch {
	case strings.HasPrefix(s, "0x"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0o"):
		base, s = 8, s[2:]
	case strings.HasPrefix(s, "0b"):
		base, s = 2, s[2:]
	}
	s = strings.ReplaceAll(s, "_", "")
	if s == "" {
		return nil
	}

	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil
	}
	if neg {
		v.Neg(v)
	}
	return v
}
