// Package watch feeds files created in a directory to a handler, one at a time.
package watch

import (
	"context"
	"os"

	"github.com/arthur-debert/filedb/pkg/errors"
	"github.com/arthur-debert/filedb/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Handler is called with the path of every new regular file.
type Handler func(path string) error

// Watcher watches a single directory, not its subdirectories.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher
	handle  Handler
	logger  zerolog.Logger
}

// New starts watching dir.
func New(dir string, handle Handler) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileNotFound, "cannot watch %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrInvalidInput, "%s is not a directory", dir)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "create fsnotify watcher")
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, errors.Wrapf(err, errors.ErrInternal, "watch %s", dir)
	}

	return &Watcher{
		dir:     dir,
		watcher: w,
		handle:  handle,
		logger:  logging.GetLogger("watch").With().Str("dir", dir).Logger(),
	}, nil
}

// Run dispatches events until ctx is done. Handler errors are logged and do
// not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()
	w.logger.Info().Msg("Watching for new files")

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
				continue
			}
			info, err := os.Stat(evt.Name)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			w.logger.Debug().Str("file", evt.Name).Str("op", evt.Op.String()).Msg("New file")
			if err := w.handle(evt.Name); err != nil {
				w.logger.Error().Err(err).Str("file", evt.Name).Msg("Failed to handle file")
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("Watcher error")
		}
	}
}
