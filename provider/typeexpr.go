package provider

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/broady/zerogen/ir"
)

// opaqueKeywords start type syntax that is kept verbatim as ir.OpaqueType.
var opaqueKeywords = map[string]bool{
	"fn": true, "dyn": true, "impl": true, "unsafe": true, "extern": true,
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokLifetime
	tokNumber
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// ParseType parses a field type written in Rust type syntax: paths with
// generic arguments, raw pointers, references, arrays, slices and tuples.
// Function pointers, trait objects and impl types become ir.OpaqueType.
func ParseType(text string) (ir.TypeExpr, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty type")
	}
	if first, _, _ := strings.Cut(text, " "); opaqueKeywords[first] || strings.HasPrefix(text, "fn(") || text == "!" {
		return ir.Opaque(text), nil
	}

	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &typeParser{src: text, toks: toks}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q at offset %d in type %q", tok.text, tok.pos, text)
	}
	return t, nil
}

// ParsePath parses a use-site type path such as `core::num::Wrapping<T>`.
func ParsePath(text string) (*ir.PathType, error) {
	t, err := ParseType(text)
	if err != nil {
		return nil, err
	}
	path, ok := t.(*ir.PathType)
	if !ok {
		return nil, fmt.Errorf("%q is not a type path", text)
	}
	return path, nil
}

func lex(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '_' || unicode.IsLetter(r):
			j := i + scanWord(s[i:])
			toks = append(toks, token{kind: tokIdent, text: s[i:j], pos: i})
			i = j
		case r == '\'':
			n := scanWord(s[i+1:])
			if n == 0 {
				return nil, fmt.Errorf("invalid lifetime at offset %d in type %q", i, s)
			}
			toks = append(toks, token{kind: tokLifetime, text: s[i : i+1+n], pos: i})
			i += 1 + n
		case unicode.IsDigit(r):
			j := i + scanWord(s[i:])
			toks = append(toks, token{kind: tokNumber, text: s[i:j], pos: i})
			i = j
		case strings.HasPrefix(s[i:], "::"):
			toks = append(toks, token{kind: tokPunct, text: "::", pos: i})
			i += 2
		case strings.ContainsRune("<>,()[];*&{}-+", r):
			toks = append(toks, token{kind: tokPunct, text: string(r), pos: i})
			i += size
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d in type %q", r, i, s)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(s)}), nil
}

func scanWord(s string) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		n += size
	}
	return n
}

type typeParser struct {
	src  string
	toks []token
	pos  int
}

func (p *typeParser) peek() token {
	return p.toks[p.pos]
}

func (p *typeParser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *typeParser) accept(text string) bool {
	if tok := p.peek(); tok.kind == tokPunct && tok.text == text || tok.kind == tokIdent && tok.text == text {
		p.pos++
		return true
	}
	return false
}

func (p *typeParser) expect(text string) error {
	if !p.accept(text) {
		return p.errorf("expected %q", text)
	}
	return nil
}

func (p *typeParser) errorf(format string, args ...any) error {
	tok := p.peek()
	where := fmt.Sprintf("%q", tok.text)
	if tok.kind == tokEOF {
		where = "end of input"
	}
	return fmt.Errorf("%s, found %s at offset %d in type %q", fmt.Sprintf(format, args...), where, tok.pos, p.src)
}

func (p *typeParser) parseType() (ir.TypeExpr, error) {
	tok := p.peek()
	switch {
	case tok.kind == tokPunct && tok.text == "(":
		return p.parseTuple()
	case tok.kind == tokPunct && tok.text == "[":
		return p.parseArrayOrSlice()
	case tok.kind == tokPunct && tok.text == "*":
		p.next()
		var mut bool
		switch {
		case p.accept("const"):
		case p.accept("mut"):
			mut = true
		default:
			return nil, p.errorf("expected const or mut after *")
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return ir.Ptr(elem, mut), nil
	case tok.kind == tokPunct && tok.text == "&":
		p.next()
		var lifetime string
		if p.peek().kind == tokLifetime {
			lifetime = p.next().text
		}
		mut := p.accept("mut")
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return ir.Ref(lifetime, elem, mut), nil
	case tok.kind == tokIdent && opaqueKeywords[tok.text]:
		return nil, p.errorf("nested %s types are not supported", tok.text)
	case tok.kind == tokIdent, tok.kind == tokPunct && tok.text == "::":
		return p.parsePath()
	default:
		return nil, p.errorf("expected a type")
	}
}

func (p *typeParser) parseTuple() (ir.TypeExpr, error) {
	p.next() // (
	var elems []ir.TypeExpr
	trailingComma := false
	for !p.accept(")") {
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		trailingComma = p.accept(",")
		if !trailingComma {
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			break
		}
	}
	// (T) is a parenthesized type, (T,) a one-element tuple.
	if len(elems) == 1 && !trailingComma {
		return elems[0], nil
	}
	return ir.Tuple(elems...), nil
}

func (p *typeParser) parseArrayOrSlice() (ir.TypeExpr, error) {
	p.next() // [
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.accept("]") {
		return ir.Slice(elem), nil
	}
	if err := p.expect(";"); err != nil {
		return nil, err
	}
	length, err := p.rawUntil("]")
	if err != nil {
		return nil, err
	}
	return ir.Array(elem, length), nil
}

// rawUntil consumes tokens up to the closing delimiter at nesting depth
// zero and returns the source text between them.
func (p *typeParser) rawUntil(closing string) (string, error) {
	start := p.peek().pos
	depth := 0
	for {
		tok := p.peek()
		switch {
		case tok.kind == tokEOF:
			return "", p.errorf("expected %q", closing)
		case tok.kind == tokPunct && depth == 0 && tok.text == closing:
			text := strings.TrimSpace(p.src[start:tok.pos])
			p.next()
			if text == "" {
				return "", fmt.Errorf("empty expression before %q in type %q", closing, p.src)
			}
			return text, nil
		case tok.kind == tokPunct && strings.Contains("([{<", tok.text):
			depth++
		case tok.kind == tokPunct && strings.Contains(")]}>", tok.text):
			depth--
		}
		p.next()
	}
}

func (p *typeParser) parsePath() (ir.TypeExpr, error) {
	var b strings.Builder
	if p.accept("::") {
		b.WriteString("::")
	}
	for {
		if p.peek().kind != tokIdent {
			return nil, p.errorf("expected a path segment")
		}
		b.WriteString(p.next().text)

		if p.accept("::") {
			if p.peek().kind == tokPunct && p.peek().text == "<" {
				// turbofish: Foo::<T>
				break
			}
			b.WriteString("::")
			continue
		}
		break
	}

	path := &ir.PathType{Path: b.String()}
	if !p.accept("<") {
		return path, nil
	}
	for !p.accept(">") {
		arg, err := p.parseGenericArg()
		if err != nil {
			return nil, err
		}
		path.Args = append(path.Args, arg)
		if !p.accept(",") {
			if err := p.expect(">"); err != nil {
				return nil, err
			}
			break
		}
	}
	if tok := p.peek(); tok.kind == tokPunct && tok.text == "::" {
		return nil, p.errorf("generic arguments are only supported on the last path segment")
	}
	return path, nil
}

func (p *typeParser) parseGenericArg() (ir.GenericArg, error) {
	tok := p.peek()
	switch {
	case tok.kind == tokLifetime:
		p.next()
		return ir.GenericArg{Lifetime: tok.text}, nil
	case tok.kind == tokNumber, tok.kind == tokPunct && tok.text == "-":
		start := tok.pos
		p.next()
		if tok.text == "-" {
			if p.peek().kind != tokNumber {
				return ir.GenericArg{}, p.errorf("expected a number after -")
			}
			p.next()
		}
		return ir.GenericArg{Const: strings.TrimSpace(p.src[start:p.peek().pos])}, nil
	case tok.kind == tokPunct && tok.text == "{":
		start := tok.pos
		p.next()
		if _, err := p.rawUntil("}"); err != nil {
			return ir.GenericArg{}, err
		}
		end := p.toks[p.pos-1].pos + 1
		return ir.GenericArg{Const: p.src[start:end]}, nil
	default:
		t, err := p.parseType()
		if err != nil {
			return ir.GenericArg{}, err
		}
		return ir.GenericArg{Type: t}, nil
	}
}
