package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/cockroachdb/errors"

	"github.com/broady/zerogen/cmd/zerogen/internal/check"
	"github.com/broady/zerogen/cmd/zerogen/internal/cli"
	"github.com/broady/zerogen/cmd/zerogen/internal/gen"
	"github.com/broady/zerogen/cmd/zerogen/internal/runtime"
	"github.com/broady/zerogen/internal/logging"
)

type CLI struct {
	cli.Globals `embed:""`

	Version VersionCmd  `cmd:"" help:"Print version information."`
	Gen     gen.Cmd     `cmd:"" help:"Generate zero-value implementations."`
	Check   check.Cmd   `cmd:"" help:"Report which types are zero-capable without writing files."`
	Runtime runtime.Cmd `cmd:"" help:"Write the runtime module declaring the trait and leaf impls."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	c := &CLI{}
	ctx := kong.Parse(c,
		kong.Name("zerogen"),
		kong.Description("Generate zero-value trait implementations for Rust type definitions."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(c.InitLogging())
	err := ctx.Run(&c.Globals)
	_ = logging.Logger.Sync()
	if errors.Is(err, cli.ErrReported) {
		os.Exit(1)
	}
	ctx.FatalIfErrorf(err)
}
