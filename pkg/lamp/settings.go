package lamp

import (
	"time"

	"lampbot/pkg/config"
)

// Settings is the read-only configuration of a Dispatcher.
type Settings struct {
	// DeviceID is used when a command names no device.
	DeviceID   string
	OnCommand  string
	OffCommand string
	// OnParams is sent as the body of the on command.
	OnParams map[string]interface{}

	MaxDevicesPerMessage int
	MaxMessageLength     int

	Confirm ConfirmPolicy
}

// ConfirmPolicy bounds the polling done after a state-changing command.
type ConfirmPolicy struct {
	Enabled         bool
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxTries        uint
	MaxElapsed      time.Duration
}

// SettingsFromConfig builds dispatcher settings from the lamp and telegram
// sections.
func SettingsFromConfig(cfg *config.Config) Settings {
	snap := cfg.Snapshot()
	lamp := snap.Lamp

	params := make(map[string]interface{}, len(lamp.OnParams))
	for k, v := range lamp.OnParams {
		params[k] = v
	}

	tries := lamp.Confirm.MaxTries
	if tries < 1 {
		tries = 1
	}

	return Settings{
		DeviceID:             lamp.DeviceID,
		OnCommand:            lamp.OnCommand,
		OffCommand:           lamp.OffCommand,
		OnParams:             params,
		MaxDevicesPerMessage: lamp.MaxDevicesPerMessage,
		MaxMessageLength:     snap.Telegram.MaxMessageLength,
		Confirm: ConfirmPolicy{
			Enabled:         lamp.Confirm.Enabled,
			InitialInterval: time.Duration(lamp.Confirm.InitialIntervalMs) * time.Millisecond,
			MaxInterval:     time.Duration(lamp.Confirm.MaxIntervalMs) * time.Millisecond,
			Multiplier:      lamp.Confirm.Multiplier,
			MaxTries:        uint(tries),
			MaxElapsed:      time.Duration(lamp.Confirm.MaxElapsedSeconds) * time.Second,
		},
	}
}
