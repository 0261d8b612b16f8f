// Package app wires together all adapters and domain logic.
// It resolves the shape catalog, runs the generator, persists runs and
// re-runs on catalog changes.
package app

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/corey/shapegen/internal/adapters/bbolt"
	"github.com/corey/shapegen/internal/adapters/catalog"
	fsw "github.com/corey/shapegen/internal/adapters/fsnotify"
	"github.com/corey/shapegen/internal/domain/generator"
	"github.com/corey/shapegen/internal/domain/hierarchy"
	"github.com/corey/shapegen/internal/domain/shape"
	"github.com/corey/shapegen/internal/logger"
	"github.com/corey/shapegen/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// App is the top-level container wiring all components together.
type App struct {
	Config *Config
	Paths  *Paths
	Store  ports.Storage

	newWatcher func() (ports.Watcher, error)
	closeStore func() error // nil when the store was injected
	log        *zap.SugaredLogger
}

// Option configures an App.
type Option func(*App)

// WithStorage uses s instead of opening the bbolt store at db_path.
// The caller keeps ownership of s.
func WithStorage(s ports.Storage) Option {
	return func(a *App) { a.Store = s }
}

// WithWatcherFactory replaces the fsnotify watcher used by Watch.
func WithWatcherFactory(f func() (ports.Watcher, error)) Option {
	return func(a *App) { a.newWatcher = f }
}

// New creates an App for projectRoot. Unless WithStorage is given it opens
// the run store, creating .shapegen/ as needed.
func New(projectRoot string, cfg *Config, opts ...Option) (*App, error) {
	if projectRoot == "" {
		return nil, errors.New("project root required")
	}
	if cfg == nil {
		return nil, errors.New("config required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Paths:  NewPaths(projectRoot),
		newWatcher: func() (ports.Watcher, error) {
			return fsw.NewWatcher()
		},
		log: logger.Named("app"),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.Store == nil {
		dbPath := a.Paths.Resolve(cfg.DBPath)
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, errors.Wrap(err, "create store dir")
		}
		store, err := bbolt.NewStore(dbPath)
		if err != nil {
			return nil, errors.Wrap(err, "open store")
		}
		a.Store = store
		a.closeStore = store.Close
		a.log.Debugw("store opened", logger.FieldPath, dbPath)
	}
	return a, nil
}

// Close releases the store if the App opened it.
func (a *App) Close() error {
	if a.closeStore == nil {
		return nil
	}
	err := a.closeStore()
	a.closeStore = nil
	return err
}

// CatalogSource describes where shapes are loaded from.
func (a *App) CatalogSource() string {
	if a.Config.CatalogDir == "" {
		return "embedded"
	}
	return a.Paths.Resolve(a.Config.CatalogDir)
}

// Catalog loads the configured shape catalog: the embedded one, or every
// YAML file directly inside catalog_dir.
func (a *App) Catalog() ([]shape.Entry, error) {
	var (
		fsys fs.FS
		dir  string
	)
	if a.Config.CatalogDir == "" {
		fsys, dir = catalog.FS, catalog.Dir
	} else {
		fsys, dir = os.DirFS(a.Paths.Resolve(a.Config.CatalogDir)), "."
	}
	entries, err := shape.LoadCatalogFromFS(fsys, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s catalog", a.CatalogSource())
	}
	return entries, nil
}

// Generator builds a generator from the configuration and the given shapes.
func (a *App) Generator(shapes ...string) (*generator.Generator, error) {
	filter, err := a.Config.Filter()
	if err != nil {
		return nil, err
	}
	return generator.New(
		generator.WithShapes(shapes...),
		generator.WithProvenanceFilter(filter),
		generator.WithInterfaceDepth(a.Config.InterfaceDepth),
	), nil
}

// Report is the outcome of Generate.
type Report struct {
	Run    *ports.Run
	Result *generator.Result
	Saved  bool
}

// Generate loads the catalog, runs every corpus and, when persist is on,
// saves the run as the latest.
func (a *App) Generate(ctx context.Context) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := a.Catalog()
	if err != nil {
		return nil, err
	}
	g, err := a.Generator(shape.Shapes(entries)...)
	if err != nil {
		return nil, err
	}

	res, err := g.Run()
	if err != nil {
		return nil, err
	}

	ok, bad := res.Records()
	run := &ports.Run{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().Unix(),
		Provenance: g.Filter().String(),
		Tallies:    res.Tallies,
		OK:         ok,
		Err:        bad,
	}
	rep := &Report{Run: run, Result: res}

	if a.Config.Persist {
		if err := a.Store.SaveRun(run); err != nil {
			return nil, errors.Wrap(err, "save run")
		}
		rep.Saved = true
	}
	a.log.Infow("run complete",
		logger.FieldRunID, run.ID,
		"ok", len(run.OK),
		"error", len(run.Err),
		"saved", rep.Saved)
	return rep, nil
}

// Classify enumerates one shape and classifies every resulting hierarchy.
func (a *App) Classify(s string, includeClasses bool) ([]*hierarchy.Hierarchy, error) {
	g, err := a.Generator()
	if err != nil {
		return nil, err
	}
	return g.Hierarchies(s, includeClasses)
}

// Emit returns the declaration records of every hierarchy of one shape.
func (a *App) Emit(s string, includeClasses bool) ([]ports.HierarchyRecord, error) {
	hs, err := a.Classify(s, includeClasses)
	if err != nil {
		return nil, err
	}
	out := make([]ports.HierarchyRecord, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.Record())
	}
	return out, nil
}
