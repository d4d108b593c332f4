package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDebounce coalesces the burst of events editors emit on save.
const reloadDebounce = 500 * time.Millisecond

// Watch reloads the file at path whenever it changes and hands the new
// configuration to onChange. Invalid files are logged and skipped. Watch
// blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, log *zap.Logger, onChange func(*Config)) error {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors often replace the file by rename.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(reloadDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer.Reset(reloadDebounce)
			}
		case <-timer.C:
			cfg, err := Load(abs)
			if err != nil {
				log.Warn("config reload rejected", zap.String("path", abs), zap.Error(err))
				continue
			}
			log.Info("config reloaded", zap.String("path", abs))
			onChange(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("config watcher error", zap.Error(err))
		}
	}
}
