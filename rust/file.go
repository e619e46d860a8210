package rust

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"

	"github.com/broady/zerogen/derive"
	"github.com/broady/zerogen/ir"
)

// File assembles impls into one source file in the given order. Line
// mappings are relative to the start of the file.
func (e *Emitter) File(impls []*derive.Implementation) ([]byte, []LineMapping) {
	var b strings.Builder
	line := e.writeHeader(&b)

	var maps []LineMapping
	for _, impl := range impls {
		b.WriteByte('\n')
		line++

		text, local := e.Render(impl)
		for _, m := range local {
			m.Line += line
			maps = append(maps, m)
		}
		b.WriteString(text)
		line += strings.Count(text, "\n")
	}
	return []byte(b.String()), maps
}

// writeHeader writes the generated-code banner and returns the number of
// lines written.
func (e *Emitter) writeHeader(b *strings.Builder) int {
	b.WriteString(HeaderComment)
	b.WriteByte('\n')
	n := 1
	if e.cfg.Header == "" {
		return n
	}
	b.WriteString("//\n")
	n++
	for _, l := range strings.Split(strings.TrimRight(e.cfg.Header, "\n"), "\n") {
		if l == "" {
			b.WriteString("//\n")
		} else {
			b.WriteString("// " + l + "\n")
		}
		n++
	}
	return n
}

// FileName returns the per-type output file name, e.g. "net_http_header.rs"
// for crate::net::HTTPHeader.
func FileName(id ir.Identifier) string {
	var parts []string
	for _, seg := range strings.Split(id.Module, "::") {
		switch seg {
		case "", "crate", "self", "super":
			continue
		}
		parts = append(parts, SnakeCase(seg))
	}
	parts = append(parts, SnakeCase(id.Name))
	return strings.Join(parts, "_") + ".rs"
}

// SnakeCase converts a CamelCase identifier to snake_case. Acronyms stay
// together: "HTTPHeader" becomes "http_header".
func SnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prev != '_' && (unicode.IsLower(prev) || unicode.IsDigit(prev) || unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SourceMapName returns the sidecar name for a generated file.
func SourceMapName(file string) string {
	return file + ".map.json"
}

type sourceMap struct {
	Version  int           `json:"version"`
	File     string        `json:"file"`
	Mappings []LineMapping `json:"mappings"`
}

// SourceMap encodes the mappings of one generated file as JSON.
func SourceMap(file string, maps []LineMapping) ([]byte, error) {
	if maps == nil {
		maps = []LineMapping{}
	}
	data, err := json.MarshalIndent(sourceMap{Version: 1, File: file, Mappings: maps}, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, "encode source map for %s", file)
	}
	return append(data, '\n'), nil
}
