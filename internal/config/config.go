// Package config loads and hot-reloads the ingestion core's settings file:
// a YAML file read at startup (go.yaml.in/yaml/v3), defaults applied to
// zero-valued fields, and fail-closed validation. Hot-reload of
// MUST_QUEUE_ATOMS uses fsnotify.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"go.yaml.in/yaml/v3"
)

const (
	// defaultMaxEventsPerTick bounds how many events one tick will drain.
	defaultMaxEventsPerTick = 256
	// minMaxEventsPerTick and maxMaxEventsPerTick bound a misconfigured
	// value instead of letting ingest() run unbounded or never drain.
	minMaxEventsPerTick = 1
	maxMaxEventsPerTick = 1 << 20

	// defaultTickArenaInitBytes is the tick arena's default size hint.
	defaultTickArenaInitBytes = 4 * 1024
)

// Config holds the ingestion core's external configuration surface.
type Config struct {
	MaxEventsPerTick   int      `yaml:"max_events_per_tick"`
	TickArenaInitBytes int      `yaml:"tick_arena_init_bytes"`
	MustQueueAtoms     []string `yaml:"must_queue_atoms"`
}

// Default atoms that must preserve FIFO order rather than be LWW-coalesced.
var defaultMustQueueAtoms = []string{
	"WM_HINTS",
	"WM_NORMAL_HINTS",
	"WM_PROTOCOLS",
	"WM_TRANSIENT_FOR",
	"WM_COLORMAP_WINDOWS",
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		MaxEventsPerTick:   defaultMaxEventsPerTick,
		TickArenaInitBytes: defaultTickArenaInitBytes,
		MustQueueAtoms:     append([]string(nil), defaultMustQueueAtoms...),
	}
}

// Load reads and validates the YAML settings file at path. A missing file
// is not an error: Load returns Default() so a freshly installed window
// manager doesn't require a settings file to start.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Debug("[DEBUG-CONFIG] settings file absent, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("wmcore/config: read %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("wmcore/config: parse %q: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return Config{}, fmt.Errorf("wmcore/config: %q: %w", path, err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.MaxEventsPerTick < minMaxEventsPerTick || cfg.MaxEventsPerTick > maxMaxEventsPerTick {
		return fmt.Errorf("max_events_per_tick %d out of range [%d, %d]",
			cfg.MaxEventsPerTick, minMaxEventsPerTick, maxMaxEventsPerTick)
	}
	if cfg.TickArenaInitBytes <= 0 {
		cfg.TickArenaInitBytes = defaultTickArenaInitBytes
	}
	if len(cfg.MustQueueAtoms) == 0 {
		cfg.MustQueueAtoms = append([]string(nil), defaultMustQueueAtoms...)
	}
	return nil
}

// Watcher hot-reloads MustQueueAtoms from path whenever it changes on disk,
// without restarting the ingestion core. The rest of Config
// (MaxEventsPerTick, TickArenaInitBytes) is not reloaded: the watcher only
// forwards the atom list, and the Server keeps the Config it was built with.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	onAtoms func([]string)
	done    chan struct{}
}

// WatchMustQueueAtoms starts watching path for changes, invoking onAtoms
// with the freshly parsed MustQueueAtoms each time the file is rewritten.
// Parse errors during a reload are logged and otherwise ignored: the last
// good atom set stays in effect rather than the core losing its must-queue
// set because of a transient editor save.
func WatchMustQueueAtoms(path string, onAtoms func([]string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("wmcore/config: create watcher: %w", err)
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("wmcore/config: watch %q: %w", path, err)
	}

	w := &Watcher{path: path, watcher: fw, onAtoms: onAtoms, done: make(chan struct{})}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				slog.Warn("[DEBUG-CONFIG] reload failed, keeping previous must-queue atoms",
					"path", w.path, "error", err)
				continue
			}
			slog.Debug("[DEBUG-CONFIG] reloaded must-queue atoms", "path", w.path, "count", len(cfg.MustQueueAtoms))
			w.onAtoms(cfg.MustQueueAtoms)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("[DEBUG-CONFIG] watcher error", "path", w.path, "error", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher goroutine and releases the underlying fsnotify
// handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
