package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/corey/shapegen/internal/domain/generator"
	"github.com/corey/shapegen/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func defaultConfig() *Config {
	return &Config{
		DBPath:         ".shapegen/shapegen.db",
		Provenance:     "most-specific",
		InterfaceDepth: 2,
		Persist:        true,
		Log:            LogConfig{Level: "warn"},
	}
}

// newTestApp creates an App rooted in a temp dir with its own bbolt store.
func newTestApp(t *testing.T, cfg *Config, opts ...Option) (*App, string) {
	t.Helper()
	root := t.TempDir()
	a, err := New(root, cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a, root
}

func writeCatalog(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestNew_Validation(t *testing.T) {
	_, err := New("", defaultConfig())
	assert.Error(t, err)
	_, err = New(t.TempDir(), nil)
	assert.Error(t, err)

	bad := defaultConfig()
	bad.Provenance = "nope"
	_, err = New(t.TempDir(), bad)
	assert.Error(t, err)
}

func TestNew_OpensStoreUnderStateDir(t *testing.T) {
	a, root := newTestApp(t, defaultConfig())
	_, err := os.Stat(filepath.Join(root, ".shapegen", "shapegen.db"))
	require.NoError(t, err)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close(), "second close is a no-op")
}

func TestCatalog_EmbeddedAndDir(t *testing.T) {
	a, root := newTestApp(t, defaultConfig())
	assert.Equal(t, "embedded", a.CatalogSource())
	entries, err := a.Catalog()
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	writeCatalog(t, filepath.Join(root, "shapes"), "mine.yaml", "- name: chain\n  shape: a(b)\n")
	a.Config.CatalogDir = "shapes"
	assert.Equal(t, filepath.Join(root, "shapes"), a.CatalogSource())
	entries, err = a.Catalog()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "chain", entries[0].Name)

	a.Config.CatalogDir = "missing"
	_, err = a.Catalog()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestGenerate_PersistsRun(t *testing.T) {
	a, _ := newTestApp(t, defaultConfig())

	rep, err := a.Generate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rep)
	assert.True(t, rep.Saved)
	assert.NotEmpty(t, rep.Run.ID)
	assert.Positive(t, rep.Run.CreatedAt)
	assert.Equal(t, "most-specific", rep.Run.Provenance)
	require.Len(t, rep.Run.Tallies, 4)
	assert.Equal(t, generator.CorpusInterfaceExhaustive, rep.Run.Tallies[0].Corpus)
	assert.Len(t, rep.Run.OK, len(rep.Result.OK()))
	assert.Len(t, rep.Run.Err, len(rep.Result.Err()))

	latest, err := a.Store.LatestRun()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, rep.Run.ID, latest.ID)
	assert.Equal(t, rep.Run.Tallies, latest.Tallies)
}

func TestGenerate_NoPersist(t *testing.T) {
	cfg := defaultConfig()
	cfg.Persist = false
	a, _ := newTestApp(t, cfg)

	rep, err := a.Generate(context.Background())
	require.NoError(t, err)
	assert.False(t, rep.Saved)

	runs, err := a.Store.ListRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestGenerate_CancelledContext(t *testing.T) {
	a, _ := newTestApp(t, defaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_InjectedStorage(t *testing.T) {
	store := &memStore{}
	a, _ := newTestApp(t, defaultConfig(), WithStorage(store))
	assert.Same(t, ports.Storage(store), a.Store)

	rep, err := a.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, store.saved, 1)
	assert.Equal(t, rep.Run.ID, store.saved[0].ID)
}

func TestClassify(t *testing.T) {
	a, _ := newTestApp(t, defaultConfig())

	hs, err := a.Classify("a(b)", false)
	require.NoError(t, err)
	assert.Len(t, hs, 6)

	_, err = a.Classify("A(", true)
	assert.Error(t, err)
}

func TestEmit_WritesYAML(t *testing.T) {
	a, root := newTestApp(t, defaultConfig())

	path, err := a.WriteEmit("A(b c)", true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".shapegen", "emit", "A_bc_.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc EmitDoc
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "A(b c)", doc.Shape)
	assert.True(t, doc.Classes)
	assert.Equal(t, "most-specific", doc.Provenance)
	require.NotEmpty(t, doc.Hierarchies)
	for _, h := range doc.Hierarchies {
		assert.NotEmpty(t, h.Declarations)
		assert.Equal(t, h.Name, h.Declarations[len(h.Declarations)-1].Name, "root comes last")
	}
}

func TestEmitFileName(t *testing.T) {
	assert.Equal(t, "A_B_c_d_.yaml", EmitFileName("A(B(c)d)", true))
	assert.Equal(t, "a_b_-interfaces.yaml", EmitFileName(" a ( b ) ", false))
}

// memStore is an in-memory ports.Storage.
type memStore struct {
	saved []*ports.Run
}

func (m *memStore) SaveRun(run *ports.Run) error { m.saved = append(m.saved, run); return nil }

func (m *memStore) LoadRun(id string) (*ports.Run, error) {
	for _, r := range m.saved {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memStore) LatestRun() (*ports.Run, error) {
	if len(m.saved) == 0 {
		return nil, nil
	}
	return m.saved[len(m.saved)-1], nil
}

func (m *memStore) ListRuns() ([]ports.RunSummary, error) {
	out := make([]ports.RunSummary, 0, len(m.saved))
	for _, r := range m.saved {
		out = append(out, r.Summary())
	}
	return out, nil
}

func (m *memStore) DeleteRun(string) error { return nil }
