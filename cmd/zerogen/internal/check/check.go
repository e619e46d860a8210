package check

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"github.com/broady/zerogen"
	"github.com/broady/zerogen/cmd/zerogen/internal/cli"
	"github.com/broady/zerogen/ir"
)

type Cmd struct {
	cli.Options `embed:""`

	IR bool `help:"Print the parsed descriptors as JSON instead of checking them." name:"ir"`
}

func (c *Cmd) Run(g *cli.Globals) error {
	ctx, stop := cli.SignalContext()
	defer stop()

	file, err := g.Load(&c.Options)
	if err != nil {
		return err
	}
	schema, err := zerogen.LoadSchema(ctx, file.Inputs)
	if err != nil {
		cli.PrintDiagnostics(err)
		return cli.ErrReported
	}
	if c.IR {
		return dumpIR(schema)
	}

	cfg := file.Generator()
	report, err := zerogen.Check(ctx, schema, &cfg)
	if err != nil {
		cli.PrintDiagnostics(err)
		return cli.ErrReported
	}

	data := pterm.TableData{{"Type", "Kind", "Result"}}
	for _, e := range report.Entries {
		result := pterm.Green("ok")
		switch {
		case e.Err != nil:
			result = pterm.Red("rejected")
		case e.Variant != "":
			result = pterm.Green("ok") + pterm.Gray(" zero variant "+e.Variant)
		}
		data = append(data, []string{e.Type, e.Kind.String(), result})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	if !report.OK() {
		for _, e := range report.Entries {
			if e.Err != nil {
				cli.PrintDiagnostics(e.Err)
			}
		}
		pterm.Error.Printf("%d of %d types rejected\n", report.Failed(), len(report.Entries))
		return cli.ErrReported
	}
	pterm.Success.Printf("%d types zero-capable (%d analysis rounds)\n", len(report.Entries), report.Rounds)
	return nil
}

func dumpIR(schema *ir.Schema) error {
	doc := struct {
		Extern []string        `json:"extern,omitempty"`
		Types  []ir.Descriptor `json:"types"`
	}{Types: schema.Types}
	for _, e := range schema.Extern {
		doc.Extern = append(doc.Extern, e.String())
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode descriptors")
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
