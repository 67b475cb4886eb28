package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler is called with the new configuration after a reload.
type ChangeHandler func(*Config) error

// ErrorHandler receives reload and handler failures.
type ErrorHandler func(error)

// Watcher monitors the configuration file and applies valid changes in place.
type Watcher struct {
	loader   *Loader
	config   *Config
	handlers []ChangeHandler
	onError  ErrorHandler
	mu       sync.RWMutex
	watching bool
}

// NewWatcher creates a new configuration watcher. Reloaded values are copied
// into cfg so holders of the pointer observe them.
func NewWatcher(loader *Loader, cfg *Config, onError ErrorHandler) *Watcher {
	if onError == nil {
		onError = func(error) {}
	}
	return &Watcher{
		loader:   loader,
		config:   cfg,
		handlers: make([]ChangeHandler, 0),
		onError:  onError,
	}
}

// AddHandler registers a handler to be called when configuration changes.
func (w *Watcher) AddHandler(handler ChangeHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start begins watching the configuration file for changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return fmt.Errorf("watcher already started")
	}
	w.watching = true
	w.mu.Unlock()

	w.loader.viper.OnConfigChange(func(e fsnotify.Event) {
		if !w.isWatching() {
			return
		}
		w.handleChange()
	})
	w.loader.viper.WatchConfig()

	return nil
}

// Stop stops applying changes. Viper offers no way to remove its file
// watch, so later events are ignored instead.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watching = false
}

func (w *Watcher) isWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.watching
}

// handleChange reloads, validates and publishes the new configuration.
func (w *Watcher) handleChange() {
	newConfig, err := w.loader.Reload()
	if err != nil {
		w.onError(fmt.Errorf("reloading config: %w", err))
		return
	}
	if err := ValidateConfig(newConfig); err != nil {
		w.onError(fmt.Errorf("rejected reloaded config: %w", err))
		return
	}

	w.config.apply(newConfig)
	w.notifyHandlers(w.config)
}

func (w *Watcher) notifyHandlers(cfg *Config) {
	w.mu.RLock()
	handlers := make([]ChangeHandler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(cfg); err != nil {
			w.onError(fmt.Errorf("config change handler: %w", err))
		}
	}
}
