package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// WatcherConfig configures the config file watcher.
type WatcherConfig struct {
	// Path is the YAML file to watch.
	Path string

	// DebounceDelay is how long to wait for more writes before reloading.
	DebounceDelay time.Duration

	// Logger for reload events.
	Logger zerolog.Logger
}

// Watcher reloads the configuration when its file changes, so feature-flag
// edits take effect without a restart. Snapshots are immutable; callers
// hold the pointer returned by Current for the duration of one request.
type Watcher struct {
	config  WatcherConfig
	watcher *fsnotify.Watcher
	logger  zerolog.Logger

	mu      sync.RWMutex
	current *Config

	updates chan *Config
}

// NewWatcher loads the file once and begins watching its directory.
// Watching the directory rather than the file survives editors that
// replace the file on save.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 250 * time.Millisecond
	}

	initial, err := LoadFromFile(cfg.Path)
	if err != nil {
		return nil, err
	}
	if err := initial.Validate(); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(cfg.Path)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		config:  cfg,
		watcher: fsw,
		logger:  cfg.Logger,
		current: initial,
		updates: make(chan *Config, 1),
	}, nil
}

// Current returns the most recently loaded configuration.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Updates delivers each successfully reloaded configuration.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Run processes file events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	reload := make(chan struct{}, 1)
	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.config.DebounceDelay, func() {
			select {
			case reload <- struct{}{}:
			default:
			}
		})
	}

	target := filepath.Clean(w.config.Path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("config watcher error")
		case <-reload:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	loaded, err := LoadFromFile(w.config.Path)
	if err != nil {
		w.logger.Warn().Err(err).Str("path", w.config.Path).Msg("config reload failed, keeping previous")
		return
	}
	if err := loaded.Validate(); err != nil {
		w.logger.Warn().Err(err).Str("path", w.config.Path).Msg("config invalid, keeping previous")
		return
	}

	w.mu.Lock()
	w.current = loaded
	w.mu.Unlock()

	w.logger.Info().Str("path", w.config.Path).Msg("config reloaded")

	select {
	case w.updates <- loaded:
	default:
	}
}
