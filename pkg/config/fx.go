package config

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"lampbot/pkg/logger"
)

// Path is the config file path given on the command line. Empty means the
// default search order.
type Path string

// Module provides configuration for fx dependency injection.
var Module = fx.Module("config",
	fx.Provide(ProvideLoader),
	fx.Provide(ProvideConfig),
	fx.Provide(ProvideLoggerConfig),
)

// WatchModule adds hot-reload on top of Module.
var WatchModule = fx.Module("config-watch",
	fx.Provide(ProvideWatcher),
)

// ProvideLoader provides a configuration loader.
func ProvideLoader() *Loader {
	return NewLoader()
}

// Scope selects which sections ProvideConfig validates.
type Scope int

const (
	// ScopeGateway validates every section. It is the default.
	ScopeGateway Scope = iota
	// ScopeDevice skips the Telegram rules for runs that never start a channel.
	ScopeDevice
)

type configParams struct {
	fx.In

	Loader *Loader
	Path   Path
	Scope  Scope `optional:"true"`
}

// ProvideConfig loads and validates the configuration.
func ProvideConfig(p configParams) (*Config, error) {
	cfg, err := p.Loader.Load(string(p.Path))
	if err != nil {
		return nil, err
	}

	validate := ValidateConfig
	if p.Scope == ScopeDevice {
		validate = ValidateDeviceConfig
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ProvideLoggerConfig exposes the logger section to the logger module.
func ProvideLoggerConfig(cfg *Config) *logger.Config {
	section := cfg.Snapshot().Logger
	return section.ToLoggerConfig()
}

// ProvideWatcher provides a configuration watcher with hot-reload.
func ProvideWatcher(loader *Loader, cfg *Config, lc fx.Lifecycle, log *logger.Logger) *Watcher {
	watcher := NewWatcher(loader, cfg, func(err error) {
		log.Warn("Configuration reload failed", zap.Error(err))
	})

	watcher.AddHandler(func(newCfg *Config) error {
		log.Info("Configuration reloaded", zap.String("file", loader.GetConfigPath()))
		return nil
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return watcher.Start()
		},
		OnStop: func(ctx context.Context) error {
			watcher.Stop()
			return nil
		},
	})

	return watcher
}
