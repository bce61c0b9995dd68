package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads path whenever it is written or re-created and sends the new prefs on out.
// The directory is watched rather than the file so editors that replace the file atomically
// keep working. Sends never block: if the frame loop has not drained the previous prefs yet,
// the older value is dropped in favour of the newer one. Watch returns when ctx is done.
func Watch(ctx context.Context, path string, out chan Prefs, log *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("config: watch %s: %w", dir, err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			p, err := Load(path)
			if err != nil {
				log.Warn("config reload failed", "path", path, "err", err)
				continue
			}
			ApplyEnv(&p)
			publish(out, p)
			log.Info("config reloaded", "path", path)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", "err", err)
		}
	}
}

// publish replaces any unread value in out with p.
func publish(out chan Prefs, p Prefs) {
	for {
		select {
		case out <- p:
			return
		default:
		}
		select {
		case <-out:
		default:
		}
	}
}
