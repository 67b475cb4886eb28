package config

import (
	"fmt"
	"net/url"
	"strings"

	"lampbot/pkg/logger"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Has reports whether a validation error was recorded for field.
func (e ValidationErrors) Has(field string) bool {
	for _, err := range e {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// ValidateConfig is a shorthand for NewValidator().Validate(cfg).
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// ValidateDeviceConfig validates everything except the Telegram section.
func ValidateDeviceConfig(cfg *Config) error {
	return NewValidator().ValidateDevice(cfg)
}

// ValidateDevice validates the platform, lamp and logger sections.
func (v *Validator) ValidateDevice(cfg *Config) error {
	v.errors = make(ValidationErrors, 0)
	snap := cfg.Snapshot()

	v.validatePlatform(&snap.Platform)
	v.validateLamp(&snap.Lamp)
	v.validateLogger(&snap.Logger)

	if len(v.errors) > 0 {
		return v.errors
	}

	return nil
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.errors = make(ValidationErrors, 0)
	snap := cfg.Snapshot()

	v.validateTelegram(&snap.Telegram)
	v.validatePlatform(&snap.Platform)
	v.validateLamp(&snap.Lamp)
	v.validateLogger(&snap.Logger)

	if len(v.errors) > 0 {
		return v.errors
	}

	return nil
}

func (v *Validator) validateTelegram(cfg *TelegramConfig) {
	if cfg.Enabled && strings.TrimSpace(cfg.Token) == "" {
		v.addError("telegram.token", "token is required when telegram is enabled")
	}

	if cfg.Proxy != "" {
		if _, err := url.Parse(cfg.Proxy); err != nil {
			v.addError("telegram.proxy", fmt.Sprintf("invalid proxy URL: %v", err))
		}
	}

	if cfg.TimeoutSeconds < 0 {
		v.addError("telegram.timeout_seconds", "timeout must be non-negative")
	}

	// Telegram rejects messages longer than 4096 characters.
	if cfg.MaxMessageLength < 100 || cfg.MaxMessageLength > 4096 {
		v.addError("telegram.max_message_length", "max_message_length must be between 100 and 4096")
	}
}

func (v *Validator) validatePlatform(cfg *PlatformConfig) {
	if strings.TrimSpace(cfg.APIURL) == "" {
		v.addError("platform.api_url", "api_url is required")
	} else if u, err := url.Parse(cfg.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		v.addError("platform.api_url", "api_url must be an absolute URL")
	}

	if strings.TrimSpace(cfg.Token) == "" {
		v.addError("platform.token", "token is required")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.AuthPlacement)) {
	case "header", "":
	case "query":
		if strings.TrimSpace(cfg.AuthQueryParam) == "" {
			v.addError("platform.auth_query_param", "auth_query_param is required when auth_placement is query")
		}
	default:
		v.addError("platform.auth_placement", "auth_placement must be one of: header, query")
	}

	if cfg.TimeoutSeconds < 0 {
		v.addError("platform.timeout_seconds", "timeout must be non-negative")
	}

	endpoints := map[string]string{
		"platform.endpoints.list_objects": cfg.Endpoints.ListObjects,
		"platform.endpoints.get_object":   cfg.Endpoints.GetObject,
		"platform.endpoints.send_command": cfg.Endpoints.SendCommand,
	}
	needsProject := false
	for field, template := range endpoints {
		if !strings.HasPrefix(template, "/") {
			v.addError(field, "endpoint template must start with /")
		}
		if strings.Contains(template, "{project}") {
			needsProject = true
		}
	}
	if !strings.Contains(cfg.Endpoints.GetObject, "{object}") {
		v.addError("platform.endpoints.get_object", "template must contain {object}")
	}
	if !strings.Contains(cfg.Endpoints.SendCommand, "{object}") {
		v.addError("platform.endpoints.send_command", "template must contain {object}")
	}
	if !strings.Contains(cfg.Endpoints.SendCommand, "{command}") && strings.TrimSpace(cfg.CommandField) == "" {
		v.addError("platform.command_field", "command_field is required when send_command has no {command} placeholder")
	}

	if (needsProject || cfg.ProjectParam != "") && strings.TrimSpace(cfg.ProjectID) == "" {
		v.addError("platform.project_id", "project_id is required")
	}
}

func (v *Validator) validateLamp(cfg *LampConfig) {
	if strings.TrimSpace(cfg.DeviceID) == "" {
		v.addError("lamp.device_id", "device_id is required")
	}
	if strings.TrimSpace(cfg.OnCommand) == "" {
		v.addError("lamp.on_command", "on_command is required")
	}
	if strings.TrimSpace(cfg.OffCommand) == "" {
		v.addError("lamp.off_command", "off_command is required")
	}
	if cfg.MaxDevicesPerMessage < 1 {
		v.addError("lamp.max_devices_per_message", "max_devices_per_message must be at least 1")
	}

	if !cfg.Confirm.Enabled {
		return
	}
	if cfg.Confirm.InitialIntervalMs <= 0 {
		v.addError("lamp.confirm.initial_interval_ms", "initial_interval_ms must be positive")
	}
	if cfg.Confirm.MaxIntervalMs < cfg.Confirm.InitialIntervalMs {
		v.addError("lamp.confirm.max_interval_ms", "max_interval_ms must not be below initial_interval_ms")
	}
	if cfg.Confirm.Multiplier < 1 {
		v.addError("lamp.confirm.multiplier", "multiplier must be at least 1")
	}
	if cfg.Confirm.MaxTries < 1 {
		v.addError("lamp.confirm.max_tries", "max_tries must be at least 1")
	}
	if cfg.Confirm.MaxElapsedSeconds < 1 {
		v.addError("lamp.confirm.max_elapsed_seconds", "max_elapsed_seconds must be at least 1")
	}
}

func (v *Validator) validateLogger(cfg *LoggerConfig) {
	if _, err := logger.ParseLevel(logger.Level(cfg.Level)); err != nil {
		v.addError("logger.level", err.Error())
	}
	if cfg.OutputPath != "" && cfg.MaxSize <= 0 {
		v.addError("logger.max_size", "max_size must be positive when output_path is set")
	}
}

func (v *Validator) addError(field, message string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: message,
	})
}
