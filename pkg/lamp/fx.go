package lamp

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"lampbot/pkg/commands"
	"lampbot/pkg/config"
	"lampbot/pkg/logger"
	"lampbot/pkg/platform"
)

// Module provides the dispatcher. It expects the commands, config, logger
// and platform modules.
var Module = fx.Module("lamp",
	fx.Provide(ProvideDispatcher),
	fx.Invoke(registerReload),
)

// ProvideDispatcher builds the dispatcher from the lamp configuration.
func ProvideDispatcher(log *logger.Logger, api platform.DeviceAPI, registry *commands.Registry, cfg *config.Config) (*Dispatcher, error) {
	return NewDispatcher(log.Named("lamp"), api, registry, SettingsFromConfig(cfg))
}

type reloadParams struct {
	fx.In

	Dispatcher *Dispatcher
	Log        *logger.Logger
	Watcher    *config.Watcher `optional:"true"`
}

// registerReload re-applies settings when the config file changes.
func registerReload(p reloadParams) {
	if p.Watcher == nil {
		return
	}
	p.Watcher.AddHandler(func(cfg *config.Config) error {
		settings := SettingsFromConfig(cfg)
		p.Dispatcher.Reconfigure(settings)
		p.Log.Info("Lamp settings reloaded",
			zap.String("device", settings.DeviceID),
			zap.Int("max_devices_per_message", settings.MaxDevicesPerMessage))
		return nil
	})
}
