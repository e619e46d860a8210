// Package cli holds the flags and helpers shared by zerogen subcommands.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"github.com/broady/zerogen/diag"
	"github.com/broady/zerogen/internal/config"
	"github.com/broady/zerogen/internal/logging"
)

// Globals are flags accepted by every command.
type Globals struct {
	Config   string `help:"Configuration file (default: nearest zerogen.toml)." short:"c" type:"path"`
	JSONLogs bool   `help:"Log as JSON." name:"json-logs"`
	Verbose  bool   `help:"Enable debug logging." short:"v"`
}

// InitLogging configures the global logger from the flags.
func (g *Globals) InitLogging() error {
	return logging.Initialize(g.JSONLogs, g.Verbose)
}

// Options are generation flags shared by gen and check. Set flags override
// configuration file values.
type Options struct {
	Inputs   []string `arg:"" optional:"" help:"Descriptor documents (.yaml, .yml, .json)." type:"path"`
	Out      string   `help:"Output directory." short:"o" type:"path"`
	Crate    string   `help:"Path of the runtime crate, e.g. fromzeros or crate::zero."`
	Trait    string   `help:"Name of the zero-value trait."`
	Split    bool     `help:"Write one file per type."`
	OutFile  string   `help:"Output file name when not splitting." name:"out-file"`
	SrcMap   bool     `help:"Write <file>.map.json source maps." name:"source-map"`
	Annotate bool     `help:"Annotate generated lines with their source location."`
	Runtime  bool     `help:"Also write the runtime module."`
	Extern   []string `help:"Types outside the inputs that implement the trait, e.g. Wrapping<T>." sep:"none"`
	Jobs     int      `help:"Parallel analysis jobs (default: GOMAXPROCS)." short:"j"`
}

// Load reads the configuration file named by g, or the nearest one, and
// applies the flags in o on top of it.
func (g *Globals) Load(o *Options) (*config.File, error) {
	f, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	o.apply(f)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if len(f.Inputs) == 0 {
		return nil, errors.WithHint(
			errors.New("no input files"),
			"list descriptor documents as arguments or under inputs in "+config.FileName)
	}
	logging.Logger.Debugw("configuration loaded",
		"file", f.Path,
		"inputs", len(f.Inputs),
		"out_dir", f.OutDir)
	return f, nil
}

func (o *Options) apply(f *config.File) {
	if len(o.Inputs) > 0 {
		f.Inputs = o.Inputs
	}
	if o.Out != "" {
		f.OutDir = o.Out
	}
	if o.Crate != "" {
		f.CratePath = o.Crate
	}
	if o.Trait != "" {
		f.TraitName = o.Trait
	}
	if o.OutFile != "" {
		f.OutFile = o.OutFile
	}
	if o.Jobs > 0 {
		f.Jobs = o.Jobs
	}
	f.ExternTypes = append(f.ExternTypes, o.Extern...)
	f.SplitFiles = f.SplitFiles || o.Split
	f.SourceMap = f.SourceMap || o.SrcMap
	f.AnnotateSources = f.AnnotateSources || o.Annotate
	f.EmitRuntime = f.EmitRuntime || o.Runtime
}

// SignalContext returns a context canceled on interrupt or termination.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// PrintDiagnostics writes every diagnostic in err, with its hints, to the
// terminal and returns the number printed.
func PrintDiagnostics(err error) int {
	var list diag.List
	if !errors.As(err, &list) {
		list = diag.List{err}
	}
	for _, e := range list {
		pterm.Error.Println(e.Error())
		for _, hint := range errors.GetAllHints(e) {
			pterm.Println(pterm.Gray("  hint: " + hint))
		}
	}
	return len(list)
}

// ErrReported marks failures whose details were already printed.
var ErrReported = errors.New("generation failed")
