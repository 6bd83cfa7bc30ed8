package config

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/dimgraph/pkg/errors"
)

// Watch calls fn with the reloaded configuration each time the file at path
// is written or replaced, until ctx is done. A reload that fails to parse or
// validate is passed to fn as an error and the previous configuration stays
// in effect for the caller.
//
// The parent directory is watched rather than the file so that editors which
// save by renaming a temporary file are picked up.
func Watch(ctx context.Context, path string, logger *log.Logger, fn func(Config, error)) error {
	if logger == nil {
		logger = log.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", path)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create watcher")
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "watch %s", filepath.Dir(abs))
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				logger.Debug("config changed", "path", abs, "op", ev.Op.String())
				fn(Load(abs))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher", "err", err)
			}
		}
	}()
	return nil
}
