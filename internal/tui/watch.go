package tui

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// watchedFile reports whether a change to name can alter what the widgets
// read (prefs.json, prefs.sqlite and its WAL).
func watchedFile(name string) bool {
	base := filepath.Base(name)
	return base == "prefs.json" || strings.HasPrefix(base, "prefs.sqlite")
}

// watchStore calls notify after writes to the store's preference files. The
// directory is watched rather than the files because the json backend
// replaces prefs.json by rename.
func watchStore(ctx context.Context, dir string, notify func()) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 || !watchedFile(ev.Name) {
					continue
				}
				slog.Debug("store changed", "file", ev.Name, "op", ev.Op.String())
				notify()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("store watch error", "err", err)
			}
		}
	}()

	return func() {
		_ = w.Close()
		<-done
	}, nil
}
