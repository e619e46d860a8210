package runtime

import (
	"os"
	"path/filepath"

	"github.com/pterm/pterm"

	"github.com/broady/zerogen/cmd/zerogen/internal/cli"
	"github.com/broady/zerogen/internal/config"
	"github.com/broady/zerogen/rust"
	"github.com/broady/zerogen/sink"
)

type Cmd struct {
	Out   string `arg:"" optional:"" help:"File to write (default: standard output)." type:"path"`
	Trait string `help:"Name of the zero-value trait."`
	Force bool   `help:"Overwrite an existing file." short:"f"`
}

func (c *Cmd) Run(g *cli.Globals) error {
	ctx, stop := cli.SignalContext()
	defer stop()

	file, err := config.Load(g.Config)
	if err != nil {
		return err
	}
	trait := file.TraitName
	if c.Trait != "" {
		trait = c.Trait
	}

	e := rust.NewEmitter(rust.Config{CratePath: file.CratePath, Header: file.Header})
	src := e.RuntimeModule(trait)
	if c.Out == "" {
		_, err := os.Stdout.Write(src)
		return err
	}

	fs := sink.NewFilesystemSink(filepath.Dir(c.Out))
	fs.Overwrite = c.Force
	if err := fs.WriteFile(ctx, filepath.Base(c.Out), src); err != nil {
		return err
	}
	pterm.Success.Printf("runtime module %s written to %s\n", trait, c.Out)
	return nil
}
