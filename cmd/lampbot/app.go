package main

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"lampbot/pkg/channels"
	"lampbot/pkg/commands"
	"lampbot/pkg/config"
	"lampbot/pkg/lamp"
	"lampbot/pkg/logger"
	"lampbot/pkg/platform"
)

// coreModules wire the dispatcher and everything it needs.
func coreModules() fx.Option {
	return fx.Options(
		fx.Supply(config.Path(configPath)),
		config.Module,
		logger.Module,
		platform.Module,
		commands.Module,
		lamp.Module,
	)
}

// gatewayModules add the chat channels and config hot-reload.
func gatewayModules(mode string) fx.Option {
	return fx.Options(
		coreModules(),
		config.WatchModule,
		channels.Module,

		fx.Invoke(func(lc fx.Lifecycle, log *logger.Logger, cm *channels.Manager, d *lamp.Dispatcher) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					log.Info("Gateway started",
						zap.String("mode", mode),
						zap.String("device", d.Settings().DeviceID))

					enabled := cm.GetEnabledChannels()
					if len(enabled) == 0 {
						log.Warn("No channels enabled")
						return nil
					}
					names := make([]string, len(enabled))
					for i, ch := range enabled {
						names[i] = ch.Name()
					}
					log.Info("Active channels", zap.Strings("channels", names))
					return nil
				},
				OnStop: func(ctx context.Context) error {
					log.Info("Gateway stopped")
					return nil
				},
			})
		}),
	)
}
