package app

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/corey/shapegen/internal/logger"
)

// ErrEmbeddedCatalog is returned by Watch when no catalog_dir is configured.
var ErrEmbeddedCatalog = errors.New("embedded catalog cannot change")

// Watch runs Generate once, then again after every change to a catalog file,
// until ctx is cancelled. onRun receives each outcome; a failed run (say, a
// malformed shape mid-edit) is reported and watching goes on.
func (a *App) Watch(ctx context.Context, onRun func(*Report, error)) error {
	if a.Config.CatalogDir == "" {
		return errors.WithHint(ErrEmbeddedCatalog, "set catalog_dir or pass --catalog to watch a directory")
	}
	dir := a.Paths.Resolve(a.Config.CatalogDir)

	w, err := a.newWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Stop()

	// One pending trigger is enough: a run always reads the whole catalog.
	trigger := make(chan struct{}, 1)
	err = w.Watch(dir, func(path string) {
		a.log.Debugw("catalog changed", logger.FieldPath, path)
		select {
		case trigger <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return errors.Wrapf(err, "watch %s", dir)
	}
	a.log.Infow("watching catalog", logger.FieldPath, dir)

	onRun(a.Generate(ctx))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-trigger:
			rep, err := a.Generate(ctx)
			if err != nil && ctx.Err() != nil {
				return nil
			}
			if err != nil {
				a.log.Warnw("run failed", logger.FieldError, err)
			}
			onRun(rep, err)
		}
	}
}
