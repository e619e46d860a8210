// Package zerogen generates implementations of the zero-value capability
// for type definitions whose all-zero byte pattern is a valid value.
//
// Definitions are read from descriptor documents (see package provider),
// analysed by package derive and rendered as Rust by package rust:
//
//	res, err := zerogen.FromFiles("types.yaml").
//	    WithSourceMap().
//	    ToDir("./src/generated")
package zerogen

import (
	"context"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/broady/zerogen/derive"
	"github.com/broady/zerogen/diag"
	"github.com/broady/zerogen/internal/logging"
	"github.com/broady/zerogen/ir"
	"github.com/broady/zerogen/provider"
	"github.com/broady/zerogen/rust"
	"github.com/broady/zerogen/sink"
)

// Config holds the configuration for code generation.
type Config struct {
	// OutDir is the directory where generated files are written.
	// When both OutDir and Sink are empty, nothing is written and the
	// files are only returned.
	OutDir string

	// Sink overrides OutDir as the output destination.
	Sink sink.OutputSink

	// Inputs are the descriptor documents read by GenerateFiles.
	// e.g. []string{"schema/net.yaml"}
	Inputs []string

	// CratePath is the path of the runtime crate that declares the trait.
	// Use "crate" when the runtime is part of the generated crate.
	// Default: "fromzeros"
	CratePath string

	// TraitName is the capability trait within CratePath.
	// Default: "FromZeros"
	TraitName string

	// SplitFiles emits one file per type, named after the type in
	// snake_case. Default (false) writes every impl to OutFile.
	SplitFiles bool

	// OutFile is the single output file name.
	// Default: "zeroed.rs"
	OutFile string

	// SourceMap writes a <file>.map.json sidecar next to every generated
	// file, mapping generated lines to declaration sources.
	SourceMap bool

	// AnnotateSources appends `// file:line:col` comments to field inits.
	AnnotateSources bool

	// EmitRuntime also writes the runtime module declaring the trait and
	// the leaf implementations to RuntimeFile.
	EmitRuntime bool

	// RuntimeFile is the runtime module file name.
	// Default: "fromzeros.rs"
	RuntimeFile string

	// ExternTypes are types outside the inputs known to implement the
	// trait, written as use-site paths. Type arguments mark parameters
	// that must be zero-capable, e.g. "core::num::Wrapping<T>".
	ExternTypes []string

	// Jobs bounds the number of definitions analysed concurrently.
	// Default: runtime.GOMAXPROCS(0)
	Jobs int

	// Header is extra comment text placed below the generated-code banner.
	Header string
}

// Trait returns the qualified trait path.
func (c *Config) Trait() string {
	return c.CratePath + "::" + c.TraitName
}

func applyConfigDefaults(cfg *Config) *Config {
	out := *cfg
	if out.CratePath == "" {
		out.CratePath = rust.DefaultCratePath
	}
	if out.TraitName == "" {
		out.TraitName = rust.DefaultTraitName
	}
	if out.OutFile == "" {
		out.OutFile = "zeroed.rs"
	}
	if out.RuntimeFile == "" {
		out.RuntimeFile = "fromzeros.rs"
	}
	if out.Jobs <= 0 {
		out.Jobs = runtime.GOMAXPROCS(0)
	}
	return &out
}

// GeneratedFile is one rendered output file.
type GeneratedFile struct {
	Path    string
	Content []byte
}

// GenerateResult describes a successful generation run.
type GenerateResult struct {
	// Implementations in schema order.
	Implementations []*derive.Implementation

	// Files in write order.
	Files []GeneratedFile

	// Rounds is the number of analysis rounds needed to reach a fixpoint.
	Rounds int
}

// LoadSchema reads and merges the descriptor documents.
func LoadSchema(ctx context.Context, inputs []string) (*ir.Schema, error) {
	p := &provider.DocumentProvider{}
	return p.BuildSchema(ctx, provider.DocumentInputOptions{Files: inputs})
}

// GenerateFiles loads cfg.Inputs and generates from them.
func GenerateFiles(ctx context.Context, cfg *Config) (*GenerateResult, error) {
	schema, err := LoadSchema(ctx, cfg.Inputs)
	if err != nil {
		return nil, err
	}
	return Generate(ctx, schema, cfg)
}

// Generate derives an implementation for every definition in schema,
// renders them and writes them to the configured destination.
//
// If any definition fails, the returned error is a diag.List holding
// every failure in schema order and nothing is written. Every output
// path is validated before the first write; files are then written
// concurrently, so an I/O error can leave some of them in place.
func Generate(ctx context.Context, schema *ir.Schema, cfg *Config) (*GenerateResult, error) {
	cfg = applyConfigDefaults(cfg)

	a, err := analyze(ctx, schema, cfg)
	if err != nil {
		return nil, err
	}
	var errs diag.List
	impls := make([]*derive.Implementation, 0, len(a.outcomes))
	for _, o := range a.outcomes {
		if o.err != nil {
			errs = append(errs, o.err)
			continue
		}
		impls = append(impls, o.impl)
	}
	if err := errs.Err(); err != nil {
		logging.Logger.Debugw("generation failed", "rejected", len(errs), "rounds", a.rounds)
		return nil, err
	}

	files, err := render(impls, cfg)
	if err != nil {
		return nil, err
	}
	if err := write(ctx, files, cfg); err != nil {
		return nil, err
	}

	logging.Logger.Infow("generated zero-value implementations",
		"count", len(impls),
		"files", len(files),
		"rounds", a.rounds)
	return &GenerateResult{Implementations: impls, Files: files, Rounds: a.rounds}, nil
}

// ReportEntry is the outcome for one definition.
type ReportEntry struct {
	Type string
	Kind ir.Kind

	// Variant is the zero variant of an enum.
	Variant string

	// Err is nil when the definition is zero-capable.
	Err error
}

// Report is the outcome of Check.
type Report struct {
	// Entries in schema order.
	Entries []ReportEntry

	Rounds int
}

// OK reports whether every definition is zero-capable.
func (r *Report) OK() bool {
	return r.Failed() == 0
}

// Failed returns the number of rejected definitions.
func (r *Report) Failed() int {
	n := 0
	for _, e := range r.Entries {
		if e.Err != nil {
			n++
		}
	}
	return n
}

// Check analyses schema without rendering or writing anything. Rejected
// definitions are reported per entry; the error is reserved for invalid
// schemas and configuration.
func Check(ctx context.Context, schema *ir.Schema, cfg *Config) (*Report, error) {
	cfg = applyConfigDefaults(cfg)
	a, err := analyze(ctx, schema, cfg)
	if err != nil {
		return nil, err
	}
	r := &Report{Rounds: a.rounds}
	for i, o := range a.outcomes {
		d := schema.Types[i]
		e := ReportEntry{Type: d.TypeName().Path(), Kind: d.Kind(), Err: o.err}
		if o.impl != nil {
			e.Variant = o.impl.Variant
		}
		r.Entries = append(r.Entries, e)
	}
	return r, nil
}

type outcome struct {
	impl *derive.Implementation
	err  error
}

type analysis struct {
	outcomes []outcome
	rounds   int
}

// analyze derives every definition against a registry that starts out
// assuming all of them are zero-capable. Each round drops the definitions
// that failed and re-derives the survivors until no more fail, so mutually
// referencing definitions are accepted and dependents of rejected ones are
// rejected.
func analyze(ctx context.Context, schema *ir.Schema, cfg *Config) (*analysis, error) {
	if schema == nil {
		return nil, errors.New("schema is nil")
	}
	if errs := schema.Validate(); len(errs) > 0 {
		list := make(diag.List, len(errs))
		for i, err := range errs {
			list[i] = diag.Parsef(ir.Source{}, "%v", err)
		}
		return nil, list
	}

	caps, err := baseCapabilities(schema, cfg)
	if err != nil {
		return nil, err
	}
	for _, d := range schema.Types {
		caps.DeclareType(d)
	}

	a := &analysis{outcomes: make([]outcome, len(schema.Types))}
	alive := make([]int, len(schema.Types))
	for i := range alive {
		alive[i] = i
	}
	rejected := make(map[string]bool)

	for len(alive) > 0 {
		a.rounds++
		if err := deriveAll(ctx, schema, alive, caps, cfg, a.outcomes); err != nil {
			return nil, err
		}

		var next, failed []int
		for _, i := range alive {
			if a.outcomes[i].err != nil {
				failed = append(failed, i)
			} else {
				next = append(next, i)
			}
		}
		logging.Logger.Debugw("analysis round",
			"round", a.rounds,
			"count", len(alive),
			"rejected", len(failed))
		if len(failed) == 0 {
			break
		}
		for _, i := range failed {
			d := schema.Types[i]
			caps.Forget(d)
			rejected[d.TypeName().Name] = true
			rejected[d.TypeName().Path()] = true
		}
		alive = next
	}

	for i := range a.outcomes {
		a.outcomes[i].err = hintRejectedDependency(a.outcomes[i].err, rejected)
	}
	return a, nil
}

func baseCapabilities(schema *ir.Schema, cfg *Config) (*derive.Capabilities, error) {
	caps := derive.NewCapabilities()
	for _, ext := range schema.Extern {
		caps.DeclareExtern(ext)
	}
	var errs diag.List
	for _, text := range cfg.ExternTypes {
		path, err := provider.ParsePath(text)
		if err != nil {
			errs = append(errs, diag.Parsef(ir.Source{}, "extern type: %v", err))
			continue
		}
		caps.DeclareExtern(path)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return caps, nil
}

// deriveAll derives schema.Types[i] for every i in alive, storing results
// in out. caps is only read.
func deriveAll(ctx context.Context, schema *ir.Schema, alive []int, caps *derive.Capabilities, cfg *Config, out []outcome) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	opts := derive.Options{Trait: cfg.Trait(), Capabilities: caps}
	for _, i := range alive {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d := schema.Types[i]
			impl, err := derive.Derive(d, opts)
			out[i] = outcome{impl: impl, err: err}
			if err == nil {
				logging.Logger.Debugw("derived", "type", d.TypeName().Path(), "variant", impl.Variant)
			}
			return nil
		})
	}
	return g.Wait()
}

// hintRejectedDependency explains failures caused by a field whose type
// was itself rejected.
func hintRejectedDependency(err error, rejected map[string]bool) error {
	d, ok := diag.As(err)
	if !ok || d.Code != diag.CodeUnmetFieldConstraint {
		return err
	}
	subject, _, _ := strings.Cut(d.Subject, "<")
	if !rejected[subject] {
		return err
	}
	return errors.WithHintf(err, "%s is itself rejected; fix its diagnostic first", subject)
}

func render(impls []*derive.Implementation, cfg *Config) ([]GeneratedFile, error) {
	e := rust.NewEmitter(rust.Config{
		CratePath:       cfg.CratePath,
		AnnotateSources: cfg.AnnotateSources,
		Header:          cfg.Header,
	})

	var files []GeneratedFile
	add := func(path string, content []byte, maps []rust.LineMapping) error {
		files = append(files, GeneratedFile{Path: path, Content: content})
		if !cfg.SourceMap {
			return nil
		}
		data, err := rust.SourceMap(path, maps)
		if err != nil {
			return err
		}
		files = append(files, GeneratedFile{Path: rust.SourceMapName(path), Content: data})
		return nil
	}

	if cfg.SplitFiles {
		owners := make(map[string]string)
		for _, impl := range impls {
			path := rust.FileName(impl.Target)
			if prev, ok := owners[path]; ok {
				return nil, errors.Newf("types %s and %s both map to %s", prev, impl.Target.Path(), path)
			}
			owners[path] = impl.Target.Path()
			content, maps := e.File([]*derive.Implementation{impl})
			if err := add(path, content, maps); err != nil {
				return nil, err
			}
		}
	} else {
		content, maps := e.File(impls)
		if err := add(cfg.OutFile, content, maps); err != nil {
			return nil, err
		}
	}

	if cfg.EmitRuntime {
		files = append(files, GeneratedFile{Path: cfg.RuntimeFile, Content: e.RuntimeModule(cfg.TraitName)})
	}
	return files, nil
}

func write(ctx context.Context, files []GeneratedFile, cfg *Config) error {
	out := cfg.Sink
	if out == nil {
		if cfg.OutDir == "" {
			return nil
		}
		out = sink.NewFilesystemSink(cfg.OutDir)
	}

	// Validate every path before the first write.
	for _, f := range files {
		if err := sink.ValidatePath(f.Path); err != nil {
			return errors.Wrapf(err, "invalid output path %q", f.Path)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for _, f := range files {
		g.Go(func() error {
			if err := out.WriteFile(gctx, f.Path, f.Content); err != nil {
				return errors.Wrapf(err, "write %s", f.Path)
			}
			logging.Logger.Debugw("wrote file", "file", f.Path, "bytes", len(f.Content))
			return nil
		})
	}
	return g.Wait()
}
