package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhaig/sol2clarity/internal/parser"
)

// writeSolFile creates a .sol file with the given content in dir.
func writeSolFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRegistryCompilesFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeSolFile(t, dir, "a.sol", `contract Alpha {} contract Beta {}`)
	b := writeSolFile(t, dir, "lib/b.sol", `contract Gamma {}`)

	reg := NewSourceRegistry()
	require.NoError(t, reg.AddFile(b))
	require.NoError(t, reg.AddFile(a))
	require.NoError(t, reg.AddFile(b))
	assert.Equal(t, []string{b, a}, reg.Files())

	batch, err := reg.CompileAll(Options{})
	require.NoError(t, err)
	require.Len(t, batch.Files, 2)

	var names []string
	for _, out := range batch.Outputs() {
		names = append(names, out.Name)
	}
	assert.Equal(t, []string{"Gamma", "Alpha", "Beta"}, names)
	assert.Len(t, batch.Manifest(), 3)
}

func TestRegistryMissingFile(t *testing.T) {
	reg := NewSourceRegistry()
	err := reg.AddFile(filepath.Join(t.TempDir(), "missing.sol"))
	assert.ErrorContains(t, err, "read ")
}

func TestRegistryParseErrorNamesFile(t *testing.T) {
	reg := NewSourceRegistry()
	reg.AddSource("good.sol", `contract Good {}`)
	reg.AddSource("bad.sol", `contract Bad { function () public {} }`)

	batch, err := reg.CompileAll(Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrMissingName)
	assert.Contains(t, err.Error(), "bad.sol: ")

	errs := batch.Diagnostics.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "bad.sol", errs[0].File)
}

func TestRegistryOutputCollision(t *testing.T) {
	reg := NewSourceRegistry()
	reg.AddSource("one.sol", `contract Token {}`)
	reg.AddSource("two.sol", "\n\ncontract TOKEN {}")

	batch, err := reg.CompileAll(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output file collisions")

	errs := batch.Diagnostics.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "two.sol", errs[0].File)
	assert.Equal(t, 3, errs[0].Line)
	assert.Equal(t, "output file token.clar is produced by both Token (one.sol) and TOKEN (two.sol)", errs[0].Message)
}

func TestRegistryWriteAll(t *testing.T) {
	reg := NewSourceRegistry()
	reg.AddSource("x.sol", `contract X {}`)
	reg.AddSource("y.sol", `contract Y {}`)

	batch, err := reg.CompileAll(Options{})
	require.NoError(t, err)

	dir := t.TempDir()
	paths, err := batch.WriteAll(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "x.clar"), filepath.Join(dir, "y.clar")}, paths)
}
