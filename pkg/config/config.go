// Package config provides configuration management for lampbot.
// It uses Viper for flexible configuration loading with support for:
// - Multiple formats (JSON, YAML, TOML)
// - Environment variables (LAMPBOT_ prefix)
// - Hot-reload
// - Default values
package config

import (
	"os"
	"path/filepath"
	"sync"
)

// Config represents the complete lampbot configuration.
type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram" json:"telegram"`
	Platform PlatformConfig `mapstructure:"platform" json:"platform"`
	Lamp     LampConfig     `mapstructure:"lamp" json:"lamp"`
	Logger   LoggerConfig   `mapstructure:"logger" json:"logger"`
	mu       sync.RWMutex
}

// TelegramConfig for the Telegram channel.
type TelegramConfig struct {
	Enabled        bool     `mapstructure:"enabled" json:"enabled"`
	Token          string   `mapstructure:"token" json:"token"`
	Proxy          string   `mapstructure:"proxy" json:"proxy"`
	AllowFrom      []string `mapstructure:"allow_from" json:"allow_from"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" json:"timeout_seconds"`
	// MaxMessageLength bounds every outgoing message (characters).
	MaxMessageLength int `mapstructure:"max_message_length" json:"max_message_length"`
}

// PlatformConfig describes the device-management REST API.
type PlatformConfig struct {
	APIURL    string `mapstructure:"api_url" json:"api_url"`
	Token     string `mapstructure:"token" json:"token"`
	ProjectID string `mapstructure:"project_id" json:"project_id"`
	// AuthPlacement is "header" (Authorization: Bearer) or "query".
	AuthPlacement  string `mapstructure:"auth_placement" json:"auth_placement"`
	AuthQueryParam string `mapstructure:"auth_query_param" json:"auth_query_param"`
	// ProjectParam names the query parameter carrying the project id for
	// endpoints whose template has no {project} placeholder.
	ProjectParam string `mapstructure:"project_param" json:"project_param"`
	// CommandField names the body field carrying the command id when the
	// send_command template has no {command} placeholder.
	CommandField   string          `mapstructure:"command_field" json:"command_field"`
	TimeoutSeconds int             `mapstructure:"timeout_seconds" json:"timeout_seconds"`
	Endpoints      EndpointsConfig `mapstructure:"endpoints" json:"endpoints"`
}

// EndpointsConfig holds path templates with {project}, {object} and
// {command} placeholders.
type EndpointsConfig struct {
	ListObjects string `mapstructure:"list_objects" json:"list_objects"`
	GetObject   string `mapstructure:"get_object" json:"get_object"`
	SendCommand string `mapstructure:"send_command" json:"send_command"`
}

// LampConfig configures the command dispatcher.
type LampConfig struct {
	DeviceID             string                 `mapstructure:"device_id" json:"device_id"`
	OnCommand            string                 `mapstructure:"on_command" json:"on_command"`
	OffCommand           string                 `mapstructure:"off_command" json:"off_command"`
	OnParams             map[string]interface{} `mapstructure:"on_params" json:"on_params"`
	MaxDevicesPerMessage int                    `mapstructure:"max_devices_per_message" json:"max_devices_per_message"`
	Confirm              ConfirmConfig          `mapstructure:"confirm" json:"confirm"`
}

// ConfirmConfig controls how a state change is confirmed after a command.
type ConfirmConfig struct {
	Enabled           bool    `mapstructure:"enabled" json:"enabled"`
	InitialIntervalMs int     `mapstructure:"initial_interval_ms" json:"initial_interval_ms"`
	MaxIntervalMs     int     `mapstructure:"max_interval_ms" json:"max_interval_ms"`
	Multiplier        float64 `mapstructure:"multiplier" json:"multiplier"`
	MaxTries          int     `mapstructure:"max_tries" json:"max_tries"`
	MaxElapsedSeconds int     `mapstructure:"max_elapsed_seconds" json:"max_elapsed_seconds"`
}

// LoggerConfig for logging.
type LoggerConfig struct {
	Level       string `mapstructure:"level" json:"level"`
	OutputPath  string `mapstructure:"output_path" json:"output_path"`
	MaxSize     int    `mapstructure:"max_size" json:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" json:"max_age"`
	Compress    bool   `mapstructure:"compress" json:"compress"`
	Development bool   `mapstructure:"development" json:"development"`
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Telegram: TelegramConfig{
			Enabled:          true,
			AllowFrom:        []string{},
			TimeoutSeconds:   60,
			MaxMessageLength: 1000,
		},
		Platform: PlatformConfig{
			APIURL:         "https://dev.rightech.io/api/v1",
			AuthPlacement:  "header",
			AuthQueryParam: "token",
			ProjectParam:   "project",
			CommandField:   "command",
			TimeoutSeconds: 15,
			Endpoints: EndpointsConfig{
				ListObjects: "/projects/{project}/objects",
				GetObject:   "/projects/{project}/objects/{object}",
				SendCommand: "/objects/{object}/commands/{command}",
			},
		},
		Lamp: LampConfig{
			DeviceID:   "light1",
			OnCommand:  "turn_on",
			OffCommand: "turn_off",
			OnParams: map[string]interface{}{
				"brightness": 100,
			},
			MaxDevicesPerMessage: 20,
			Confirm: ConfirmConfig{
				Enabled:           true,
				InitialIntervalMs: 500,
				MaxIntervalMs:     4000,
				Multiplier:        2,
				MaxTries:          5,
				MaxElapsedSeconds: 15,
			},
		},
		Logger: LoggerConfig{
			Level:      "info",
			OutputPath: filepath.Join(homeDir, ".lampbot", "logs", "lampbot.log"),
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
	}
}

// Snapshot returns a copy of the configuration sections, safe to read while
// the watcher replaces values.
func (c *Config) Snapshot() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Config{
		Telegram: c.Telegram,
		Platform: c.Platform,
		Lamp:     c.Lamp,
		Logger:   c.Logger,
	}
}

// apply copies the sections of other into c.
func (c *Config) apply(other *Config) {
	snap := other.Snapshot()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.Telegram = snap.Telegram
	c.Platform = snap.Platform
	c.Lamp = snap.Lamp
	c.Logger = snap.Logger
}
