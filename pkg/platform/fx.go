package platform

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"lampbot/pkg/config"
	"lampbot/pkg/logger"
)

// Module provides the platform client as a DeviceAPI.
var Module = fx.Module("platform",
	fx.Provide(
		fx.Annotate(
			ProvideClient,
			fx.As(new(DeviceAPI)),
		),
	),
)

// ProvideClient builds the client from the platform section.
func ProvideClient(log *logger.Logger, cfg *config.Config) *Client {
	section := cfg.Snapshot().Platform
	log.Info("Platform client configured",
		zap.String("api_url", section.APIURL),
		zap.String("project", section.ProjectID),
		zap.String("auth", section.AuthPlacement))
	return NewClient(log.Named("platform"), section)
}
