package zerogen

import (
	"context"

	"github.com/broady/zerogen/ir"
	"github.com/broady/zerogen/sink"
)

// Generator provides a fluent API for code generation.
// Create with FromFiles() or FromSchema() and configure with method chaining.
//
// Example:
//
//	zerogen.FromFiles("schema/net.yaml").
//	    WithCrate("crate::zero").
//	    SplitFiles().
//	    ToDir("./src/zeroed")
type Generator struct {
	schema *ir.Schema
	cfg    Config
}

// FromFiles creates a Generator reading the given descriptor documents.
func FromFiles(paths ...string) *Generator {
	return &Generator{cfg: Config{Inputs: paths}}
}

// FromSchema creates a Generator for an already built schema.
func FromSchema(schema *ir.Schema) *Generator {
	return &Generator{schema: schema}
}

// WithConfig replaces the whole configuration. Inputs are kept unless
// cfg lists its own.
func (g *Generator) WithConfig(cfg Config) *Generator {
	if len(cfg.Inputs) == 0 {
		cfg.Inputs = g.cfg.Inputs
	}
	g.cfg = cfg
	return g
}

// WithCrate sets the runtime crate path, e.g. "fromzeros" or "crate".
func (g *Generator) WithCrate(path string) *Generator {
	g.cfg.CratePath = path
	return g
}

// WithTrait sets the trait name within the runtime crate.
func (g *Generator) WithTrait(name string) *Generator {
	g.cfg.TraitName = name
	return g
}

// SplitFiles emits one file per type.
func (g *Generator) SplitFiles() *Generator {
	g.cfg.SplitFiles = true
	return g
}

// OutFile sets the single output file name.
func (g *Generator) OutFile(name string) *Generator {
	g.cfg.OutFile = name
	return g
}

// WithSourceMap enables <file>.map.json sidecars.
func (g *Generator) WithSourceMap() *Generator {
	g.cfg.SourceMap = true
	return g
}

// AnnotateSources enables per-field source comments.
func (g *Generator) AnnotateSources() *Generator {
	g.cfg.AnnotateSources = true
	return g
}

// WithRuntime also emits the runtime module.
func (g *Generator) WithRuntime() *Generator {
	g.cfg.EmitRuntime = true
	return g
}

// Extern declares types outside the inputs that implement the trait.
// Can be called multiple times.
func (g *Generator) Extern(types ...string) *Generator {
	g.cfg.ExternTypes = append(g.cfg.ExternTypes, types...)
	return g
}

// Jobs bounds analysis concurrency.
func (g *Generator) Jobs(n int) *Generator {
	g.cfg.Jobs = n
	return g
}

// Header adds comment text below the generated-code banner.
func (g *Generator) Header(text string) *Generator {
	g.cfg.Header = text
	return g
}

// ToSink generates files into s.
// This is a terminal operation.
func (g *Generator) ToSink(ctx context.Context, s sink.OutputSink) (*GenerateResult, error) {
	g.cfg.Sink = s
	return g.run(ctx)
}

// ToDir generates files to the specified directory.
// This is a terminal operation that writes files to disk.
func (g *Generator) ToDir(dir string) (*GenerateResult, error) {
	g.cfg.OutDir = dir
	return g.run(context.Background())
}

// Generate returns generated files in memory without writing to disk.
// Use ToDir() to write files to disk instead.
func (g *Generator) Generate() (*GenerateResult, error) {
	cfg := g.cfg
	cfg.OutDir, cfg.Sink = "", nil
	return (&Generator{schema: g.schema, cfg: cfg}).run(context.Background())
}

// Check analyses the inputs without rendering anything.
func (g *Generator) Check(ctx context.Context) (*Report, error) {
	schema, err := g.load(ctx)
	if err != nil {
		return nil, err
	}
	return Check(ctx, schema, &g.cfg)
}

func (g *Generator) run(ctx context.Context) (*GenerateResult, error) {
	schema, err := g.load(ctx)
	if err != nil {
		return nil, err
	}
	return Generate(ctx, schema, &g.cfg)
}

func (g *Generator) load(ctx context.Context) (*ir.Schema, error) {
	if g.schema != nil {
		return g.schema, nil
	}
	return LoadSchema(ctx, g.cfg.Inputs)
}
