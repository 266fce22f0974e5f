package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

type WatchConfig struct {
	Roots       []string      // directories to watch (recursive)
	InitialScan bool          // if true, walk roots and emit existing files
	Debounce    time.Duration // coalesce rapid write/rename bursts
	Logger      *slog.Logger
}

// StartWatcher emits paths of bulletin inputs created or rewritten under the
// roots. A file whose content hash has not changed since it was last emitted
// is not emitted again. Both channels close when ctx is done.
func StartWatcher(ctx context.Context, cfg WatchConfig) (<-chan string, <-chan error, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		logger.Error("watcher start failed: no roots provided")
		return nil, nil, errors.New("no roots provided")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create fsnotify watcher", "error", err)
		return nil, nil, err
	}

	var initial []string
	for _, root := range cfg.Roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				if path != root && IsHidden(path) {
					return filepath.SkipDir
				}
				return w.Add(path)
			}
			if cfg.InitialScan && AllowedExt(filepath.Ext(path)) && !IsHidden(path) {
				initial = append(initial, path)
			}
			return nil
		})
		if err != nil {
			logger.Error("failed to add root directory", "root", root, "error", err)
			_ = w.Close()
			return nil, nil, err
		}
	}

	evCh := make(chan string, 256)
	errCh := make(chan error, 1)
	seen := map[string]string{} // path -> last emitted hash

	emit := func(path string) bool {
		sum, err := HashFile(path)
		if err != nil {
			logger.Debug("skipping unreadable file", "path", path, "error", err)
			return true
		}
		if seen[path] == sum {
			return true
		}
		seen[path] = sum
		select {
		case evCh <- path:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("failed to close watcher", "error", err)
			}
		}()

		for _, p := range initial {
			if !emit(p) {
				return
			}
		}

		pending := map[string]struct{}{}
		var timer *time.Timer
		var timerC <-chan time.Time

		flush := func() bool {
			for p := range pending {
				delete(pending, p)
				if !emit(p) {
					return false
				}
			}
			return true
		}

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Op&fsnotify.Create == fsnotify.Create {
					if fi, err := os.Stat(e.Name); err == nil && fi.IsDir() {
						if err := w.Add(e.Name); err != nil {
							logger.Warn("failed to add new directory to watcher", "path", e.Name, "error", err)
						}
						continue
					}
				}
				if IsHidden(e.Name) || !AllowedExt(filepath.Ext(e.Name)) ||
					e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				pending[e.Name] = struct{}{}
				if cfg.Debounce <= 0 {
					if !flush() {
						return
					}
					continue
				}
				if timer == nil {
					timer = time.NewTimer(cfg.Debounce)
				} else {
					timer.Reset(cfg.Debounce)
				}
				timerC = timer.C
			case <-timerC:
				timerC = nil
				if !flush() {
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}
