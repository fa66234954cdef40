package api

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/saltline/sendwave/internal/cliconfig"
	"github.com/saltline/sendwave/internal/ports"
)

// DefaultDebounceDelay coalesces editor write bursts into one reload.
const DefaultDebounceDelay = 100 * time.Millisecond

// ConfigWatcher reloads the configuration file while serving. It watches
// the file's directory (editors replace files rather than write in place)
// and debounces change bursts before reloading.
type ConfigWatcher struct {
	path     string
	debounce time.Duration

	// reload re-runs the full config layering (defaults, file, env,
	// flags) and validates the result.
	reload func() (cliconfig.Config, error)
	apply  func(cliconfig.Config)

	log ports.Logger
}

// NewConfigWatcher creates a watcher for the config file at path.
func NewConfigWatcher(path string, reload func() (cliconfig.Config, error), apply func(cliconfig.Config), log ports.Logger) *ConfigWatcher {
	return &ConfigWatcher{
		path:     path,
		debounce: DefaultDebounceDelay,
		reload:   reload,
		apply:    apply,
		log:      log,
	}
}

// Run watches until ctx is canceled.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.log.Info("watching config file", ports.String("path", w.path))

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	filename := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.doReload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("config watcher error", ports.Err(err))
		}
	}
}

func (w *ConfigWatcher) doReload() {
	cfg, err := w.reload()
	if err != nil {
		w.log.Error("config reload failed, keeping previous configuration", ports.Err(err))
		return
	}
	w.apply(cfg)
}
