package cmd

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/corey/shapegen/internal/app"
	"github.com/corey/shapegen/internal/domain/shape"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag of c and its children to its default, since
// cobra keeps parsed values on the package-level commands between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with args against a temp project root.
func execute(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append(args, "--root", root))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestExitCode(t *testing.T) {
	_, err := shape.Parse("A(")
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(errors.Wrap(err, "classify")))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
}

func TestFormatError_IncludesHints(t *testing.T) {
	err := errors.WithHint(errors.New("boom"), "try this\nthen that")
	got := formatError(err)
	assert.Contains(t, got, "error: boom")
	assert.Contains(t, got, "  try this")
	assert.Contains(t, got, "  then that")
}

func TestIsDBLockError(t *testing.T) {
	assert.False(t, isDBLockError(nil))
	assert.True(t, isDBLockError(errors.New("bbolt open x.db: timeout")))
	assert.False(t, isDBLockError(errors.New("permission denied")))
}

func TestGenerate_NoSave(t *testing.T) {
	root := t.TempDir()
	out, err := execute(t, root, "generate", "--no-save")
	require.NoError(t, err)
	assert.Contains(t, out, "exhaustive interface")
	assert.Contains(t, out, "exhaustive class")
	assert.Contains(t, out, "shapes class/interface")
	assert.Contains(t, out, "unique")
	assert.NotContains(t, out, "saved run")

	out, err = execute(t, root, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "no saved runs")
}

func TestGenerate_ThenRuns(t *testing.T) {
	root := t.TempDir()
	out, err := execute(t, root, "generate")
	require.NoError(t, err)
	id := regexp.MustCompile(`saved run ([0-9a-f-]{36})`).FindStringSubmatch(out)
	require.Len(t, id, 2, out)

	out, err = execute(t, root, "runs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id[1])

	out, err = execute(t, root, "runs", "show")
	require.NoError(t, err)
	assert.Contains(t, out, id[1])
	assert.Contains(t, out, "exhaustive class")

	out, err = execute(t, root, "runs", "rm", id[1])
	require.NoError(t, err)
	assert.Contains(t, out, "removed")

	_, err = execute(t, root, "runs", "show", id[1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no run")
}

func TestClassify(t *testing.T) {
	out, err := execute(t, t.TempDir(), "classify", "a(b)")
	require.NoError(t, err)
	assert.Contains(t, out, "6 hierarchies")
	assert.Contains(t, out, "verdict")

	_, err = execute(t, t.TempDir(), "classify", "A(")
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
}

func TestEmit_Stdout(t *testing.T) {
	out, err := execute(t, t.TempDir(), "emit", "A(b)", "--classes")
	require.NoError(t, err)
	assert.Contains(t, out, "shape: A(b)")
	assert.Contains(t, out, "classes: true")
	assert.Contains(t, out, "hierarchies:")
	assert.Contains(t, out, "declarations:")
}

func TestCatalog(t *testing.T) {
	out, err := execute(t, t.TempDir(), "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog: embedded")
	assert.Contains(t, out, "A(B(d)c(d))")
}

func TestConfig_EnvAndFlags(t *testing.T) {
	t.Setenv("SHAPEGEN_PROVENANCE", "literal")
	out, err := execute(t, t.TempDir(), "config")
	require.NoError(t, err)
	assert.Contains(t, out, "Provenance:  literal")
	assert.Contains(t, out, "Catalog:     (embedded)")

	out, err = execute(t, t.TempDir(), "config", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Log:         error")
}

func TestWatch_RequiresCatalogDir(t *testing.T) {
	_, err := execute(t, t.TempDir(), "watch")
	require.Error(t, err)
	assert.True(t, errors.Is(err, app.ErrEmbeddedCatalog))
}

func TestBadProvenanceFlag(t *testing.T) {
	_, err := execute(t, t.TempDir(), "generate", "--no-save", "--provenance", "loose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provenance filter")
	assert.Equal(t, 1, ExitCode(err))
}
