package channels

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"lampbot/pkg/channels/telegram"
	"lampbot/pkg/commands"
	"lampbot/pkg/config"
	"lampbot/pkg/lamp"
	"lampbot/pkg/logger"
)

// Module is the fx module for channels.
var Module = fx.Module("channels",
	fx.Provide(NewChannelManager),
	fx.Invoke(RegisterChannels),
)

// NewChannelManager creates a new channel manager for fx.
func NewChannelManager(lc fx.Lifecycle, log *logger.Logger) *Manager {
	manager := NewManager(log)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return manager.Start()
		},
		OnStop: func(ctx context.Context) error {
			return manager.Stop()
		},
	})

	return manager
}

// RegisterChannels registers the configured channels with the manager.
func RegisterChannels(
	manager *Manager,
	log *logger.Logger,
	dispatcher *lamp.Dispatcher,
	cmdRegistry *commands.Registry,
	cfg *config.Config,
) error {
	snap := cfg.Snapshot()

	if snap.Telegram.Enabled {
		telegramCfg := snap.Telegram
		tgChannel, err := telegram.New(log.Named("telegram"), dispatcher, cmdRegistry, &telegramCfg)
		if err != nil {
			log.Warn("Failed to create Telegram channel, skipping", zap.Error(err))
		} else if err := manager.Register(tgChannel); err != nil {
			return err
		}
	}

	return nil
}
