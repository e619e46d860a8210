package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/zerogen/diag"
	"github.com/broady/zerogen/internal/config"
	"github.com/broady/zerogen/ir"
)

func TestLoadAppliesFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
inputs = ["types.yaml"]
out_dir = "gen"
extern_types = ["Wrapping<T>"]
source_map = true
jobs = 4
`), 0o644))

	g := &Globals{Config: path}
	f, err := g.Load(&Options{
		Out:    "/tmp/out",
		Trait:  "Zeroable",
		Split:  true,
		Extern: []string{"Map<K, V>"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "types.yaml")}, f.Inputs)
	assert.Equal(t, "/tmp/out", f.OutDir)
	assert.Equal(t, "Zeroable", f.TraitName)
	assert.Equal(t, "fromzeros", f.CratePath)
	assert.True(t, f.SplitFiles)
	assert.True(t, f.SourceMap)
	assert.Equal(t, 4, f.Jobs)
	assert.Equal(t, []string{"Wrapping<T>", "Map<K, V>"}, f.ExternTypes)
}

func TestLoadUsesNearestConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(`inputs = ["a.yaml"]`), 0o644))
	sub := filepath.Join(dir, "src")
	require.NoError(t, os.Mkdir(sub, 0o755))
	t.Chdir(sub)

	f, err := (&Globals{}).Load(&Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yaml")}, f.Inputs)
}

func TestLoadRequiresInputs(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := (&Globals{}).Load(&Options{})
	require.ErrorContains(t, err, "no input files")
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestLoadRejectsInvalidFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := (&Globals{}).Load(&Options{Inputs: []string{"a.yaml"}, OutFile: "zeroed.txt"})
	assert.ErrorContains(t, err, "out_file")
}

func TestPrintDiagnosticsCounts(t *testing.T) {
	list := diag.List{
		diag.Parsef(ir.Source{File: "a.yaml", Line: 1}, "bad"),
		errors.WithHint(diag.Parsef(ir.Source{}, "worse"), "try again"),
	}
	assert.Equal(t, 2, PrintDiagnostics(list))
	assert.Equal(t, 1, PrintDiagnostics(errors.New("plain")))
}
