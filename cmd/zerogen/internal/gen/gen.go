package gen

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/broady/zerogen"
	"github.com/broady/zerogen/cmd/zerogen/internal/cli"
	"github.com/broady/zerogen/internal/config"
	"github.com/broady/zerogen/internal/logging"
	"github.com/broady/zerogen/internal/watch"
	"github.com/broady/zerogen/sink"
)

type Cmd struct {
	cli.Options `embed:""`

	Watch  bool `help:"Watch inputs and regenerate on change." short:"w"`
	DryRun bool `help:"Report the files that would be written without writing them." name:"dry-run"`
}

func (c *Cmd) Run(g *cli.Globals) error {
	ctx, stop := cli.SignalContext()
	defer stop()

	file, err := g.Load(&c.Options)
	if err != nil {
		return err
	}
	if !c.Watch {
		return c.generate(ctx, file)
	}
	return c.watch(ctx, g, file)
}

func (c *Cmd) generate(ctx context.Context, file *config.File) error {
	cfg := file.Generator()
	var dry *sink.DryRunSink
	if c.DryRun {
		dry = sink.NewDryRunSink()
		cfg.Sink = dry
	}

	res, err := zerogen.GenerateFiles(ctx, &cfg)
	if err != nil {
		if n := cli.PrintDiagnostics(err); n > 1 {
			pterm.Error.Printf("%d problems, nothing written\n", n)
		}
		return cli.ErrReported
	}

	if dry != nil {
		data := pterm.TableData{{"File", "Bytes"}}
		for _, p := range dry.Planned() {
			data = append(data, []string{filepath.Join(cfg.OutDir, p.Path), strconv.Itoa(p.Size)})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
		pterm.Info.Printf("%d implementations, %d bytes would be written\n", len(res.Implementations), dry.TotalBytes())
		return nil
	}

	pterm.Success.Printf("%d implementations written to %d files in %s\n",
		len(res.Implementations), len(res.Files), cfg.OutDir)
	return nil
}

// watch regenerates whenever an input or the configuration file changes.
// Failures are reported and watching continues.
func (c *Cmd) watch(ctx context.Context, g *cli.Globals, file *config.File) error {
	for {
		_ = c.generate(ctx, file)

		paths := append([]string(nil), file.Inputs...)
		if file.Path != "" {
			paths = append(paths, file.Path)
		}
		w, err := watch.New(paths, 0)
		if err != nil {
			return err
		}
		pterm.Info.Printf("watching %d files\n", len(paths))

		reload := false
		runCtx, cancel := context.WithCancel(ctx)
		err = w.Run(runCtx, func(changed []string) {
			logging.Logger.Infow("inputs changed", "files", changed)
			for _, p := range changed {
				if p == absPath(file.Path) {
					reload = true
					cancel()
					return
				}
			}
			_ = c.generate(ctx, file)
		})
		cancel()
		w.Close()
		if err != nil {
			return err
		}
		if !reload || ctx.Err() != nil {
			return nil
		}

		next, err := g.Load(&c.Options)
		if err != nil {
			cli.PrintDiagnostics(err)
			pterm.Warning.Println("keeping previous configuration")
			continue
		}
		file = next
	}
}

func absPath(p string) string {
	if p == "" {
		return ""
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
