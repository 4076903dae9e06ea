// watcher.go: hot reload of factory configuration via Argus
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/argus"
)

// WatcherOptions configures a FactoryConfigWatcher.
type WatcherOptions struct {
	// PollInterval is how often the config file is checked for changes.
	PollInterval time.Duration

	// CacheTTL bounds how long file stat results are cached.
	CacheTTL time.Duration

	// AuditConfig enables Argus audit logging of config changes.
	AuditConfig argus.AuditConfig

	// ErrorHandler receives file watching errors. Nil routes them to
	// the watcher's logger.
	ErrorHandler func(err error, filepath string)
}

// DefaultWatcherOptions returns options tuned for factory configuration
// files, which change rarely but should apply quickly when they do.
func DefaultWatcherOptions() WatcherOptions {
	return WatcherOptions{
		PollInterval: 10 * time.Second,
		CacheTTL:     5 * time.Second,
		AuditConfig: argus.AuditConfig{
			Enabled:       true,
			OutputFile:    "plugin-factory-audit.jsonl",
			MinLevel:      argus.AuditInfo,
			BufferSize:    1000,
			FlushInterval: 10 * time.Second,
		},
	}
}

// FactoryConfigWatcher watches a factory configuration file and
// rebuilds the factory whenever the file changes. A rebuild clears the
// registries and re-applies the new configuration from scratch, so the
// factory always mirrors the file.
type FactoryConfigWatcher[T any] struct {
	factory     *Factory[T]
	logger      Logger
	watcher     *argus.Watcher
	auditLogger *argus.AuditLogger
	configPath  string
	options     WatcherOptions

	currentConfig atomic.Pointer[FactoryConfig]
	enabled       atomic.Bool
	stopped       atomic.Bool
	stopOnce      sync.Once
	mutex         sync.Mutex
}

// NewFactoryConfigWatcher builds a watcher bound to a factory and a
// configuration file. Call Start to load the initial configuration and
// begin watching.
func NewFactoryConfigWatcher[T any](
	factory *Factory[T],
	configPath string,
	options WatcherOptions,
	logger any,
) (*FactoryConfigWatcher[T], error) {
	if factory == nil {
		return nil, NewConfigValidationError("nil factory", nil)
	}
	internalLogger := NewLogger(logger)

	argusConfig := argus.Config{
		PollInterval:         options.PollInterval,
		CacheTTL:             options.CacheTTL,
		MaxWatchedFiles:      5,
		Audit:                options.AuditConfig,
		OptimizationStrategy: argus.OptimizationSingleEvent,
		ErrorHandler: func(err error, filepath string) {
			if options.ErrorHandler != nil {
				options.ErrorHandler(err, filepath)
				return
			}
			internalLogger.Error("Config file watching error", "error", err, "file", filepath)
		},
	}

	var auditLogger *argus.AuditLogger
	if options.AuditConfig.Enabled {
		var err error
		auditLogger, err = argus.NewAuditLogger(options.AuditConfig)
		if err != nil {
			return nil, NewConfigValidationError("failed to create audit logger", err)
		}
	}

	return &FactoryConfigWatcher[T]{
		factory:     factory,
		logger:      internalLogger,
		watcher:     argus.New(argusConfig),
		auditLogger: auditLogger,
		configPath:  configPath,
		options:     options,
	}, nil
}

// Start loads the initial configuration, applies it to the factory and
// begins watching the file for changes. A stopped watcher cannot be
// restarted.
func (w *FactoryConfigWatcher[T]) Start(ctx context.Context) error {
	if w.stopped.Load() {
		return NewConfigWatcherError("config watcher has been permanently stopped", nil)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.enabled.CompareAndSwap(false, true) {
		return NewConfigWatcherError("config watcher is already running", nil)
	}

	config, err := LoadConfigFile(w.configPath)
	if err != nil {
		w.enabled.Store(false)
		return NewConfigWatcherError("failed to load initial configuration", err)
	}
	count, err := w.rebuild(config)
	if err != nil {
		w.enabled.Store(false)
		return NewConfigWatcherError("failed to apply initial configuration", err)
	}
	w.currentConfig.Store(config)

	w.auditEvent("factory_config_loaded", map[string]interface{}{
		"path":    w.configPath,
		"plugins": count,
		"source":  "initial_load",
	})

	if err := w.watcher.Watch(w.configPath, w.handleConfigChange); err != nil {
		w.enabled.Store(false)
		return NewConfigWatcherError("failed to watch config file", err)
	}
	if err := w.watcher.Start(); err != nil {
		w.enabled.Store(false)
		return NewConfigWatcherError("failed to start file watcher", err)
	}

	w.logger.Info("Factory configuration watcher started",
		"config_path", w.configPath,
		"poll_interval", w.options.PollInterval,
		"plugins", count)
	return nil
}

// Stop shuts the watcher down. The operation is permanent.
func (w *FactoryConfigWatcher[T]) Stop() error {
	if w.stopped.Load() {
		return NewConfigWatcherError("config watcher is already stopped", nil)
	}

	var stopErr error
	w.stopOnce.Do(func() {
		w.mutex.Lock()
		defer w.mutex.Unlock()

		if !w.enabled.CompareAndSwap(true, false) {
			stopErr = NewConfigWatcherError("config watcher is not running", nil)
			return
		}
		w.stopped.Store(true)

		if err := w.watcher.Stop(); err != nil {
			stopErr = NewConfigWatcherError("failed to stop file watcher", err)
			return
		}
		if w.auditLogger != nil {
			if err := w.auditLogger.Close(); err != nil {
				w.logger.Warn("Failed to close audit logger during shutdown", "error", err)
			}
		}
		w.logger.Info("Factory configuration watcher stopped")
	})
	return stopErr
}

// IsRunning reports whether the watcher is active.
func (w *FactoryConfigWatcher[T]) IsRunning() bool {
	return w.enabled.Load() && !w.stopped.Load()
}

// CurrentConfig returns the most recently applied configuration, or nil
// before the first successful load.
func (w *FactoryConfigWatcher[T]) CurrentConfig() *FactoryConfig {
	return w.currentConfig.Load()
}

// handleConfigChange reloads and re-applies the configuration on file
// change events. A config that fails to load or apply leaves the
// factory on its previous state.
func (w *FactoryConfigWatcher[T]) handleConfigChange(event argus.ChangeEvent) {
	if event.IsDelete {
		w.logger.Warn("Config file deleted, keeping current configuration", "path", event.Path)
		w.auditEvent("factory_config_deleted", map[string]interface{}{"path": event.Path})
		return
	}

	config, err := LoadConfigFile(w.configPath)
	if err != nil {
		w.logger.Error("Failed to reload configuration", "path", w.configPath, "error", err)
		w.auditEvent("factory_config_reload_failed", map[string]interface{}{
			"path":  w.configPath,
			"error": err.Error(),
		})
		return
	}

	count, err := w.rebuild(config)
	if err != nil {
		w.logger.Error("Failed to apply reloaded configuration", "path", w.configPath, "error", err)
		w.auditEvent("factory_config_apply_failed", map[string]interface{}{
			"path":  w.configPath,
			"error": err.Error(),
		})
		return
	}
	w.currentConfig.Store(config)

	w.logger.Info("Factory configuration reloaded", "path", w.configPath, "plugins", count)
	w.auditEvent("factory_config_reloaded", map[string]interface{}{
		"path":    w.configPath,
		"plugins": count,
	})
}

// rebuild clears the factory and applies a configuration from scratch.
func (w *FactoryConfigWatcher[T]) rebuild(config *FactoryConfig) (int, error) {
	w.factory.Clear()
	return w.factory.ApplyConfig(config)
}

func (w *FactoryConfigWatcher[T]) auditEvent(eventType string, context map[string]interface{}) {
	if w.auditLogger != nil {
		w.auditLogger.LogSecurityEvent(eventType, "Factory configuration change", context)
	}
}
