package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ConfigPathEnv overrides the config file location when no path is given.
const ConfigPathEnv = "LAMPBOT_CONFIG_FILE"

// secretKeys are bound to environment variables explicitly so they can be
// supplied without a config file entry (LAMPBOT_PLATFORM_TOKEN, ...).
var secretKeys = []string{
	"telegram.token",
	"platform.api_url",
	"platform.token",
	"platform.project_id",
	"lamp.device_id",
}

// Loader handles configuration loading with Viper.
type Loader struct {
	viper *viper.Viper
	path  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("json")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".lampbot"))
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("LAMPBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range secretKeys {
		_ = v.BindEnv(key)
	}

	return &Loader{viper: v}
}

// Load loads the configuration from file and environment variables.
// If configPath is empty, LAMPBOT_CONFIG_FILE and then the default search
// paths are used. A missing file is created with default values.
func (l *Loader) Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(configPath) == "" {
		configPath = strings.TrimSpace(os.Getenv(ConfigPathEnv))
	}
	explicitPath := configPath != ""

	resolvedPath, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, err
	}
	if explicitPath {
		l.viper.SetConfigFile(resolvedPath)
	}

	if err := l.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := l.Save(resolvedPath, cfg); err != nil {
			return nil, fmt.Errorf("creating config file: %w", err)
		}
		l.viper.SetConfigFile(resolvedPath)
		if err := l.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading created config file: %w", err)
		}
	}

	if err := l.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if used := strings.TrimSpace(l.viper.ConfigFileUsed()); used != "" {
		l.path = used
	} else {
		l.path = resolvedPath
	}

	return cfg, nil
}

// Reload re-reads the file used by the last Load.
func (l *Loader) Reload() (*Config, error) {
	return l.Load(l.path)
}

// Save saves the configuration to a file. The format follows the extension.
func (l *Loader) Save(path string, cfg *Config) error {
	snap := cfg.Snapshot()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	format := "json"
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		format = "yaml"
	case ".toml":
		format = "toml"
	}

	v := viper.New()
	v.SetConfigType(format)
	v.Set("telegram", snap.Telegram)
	v.Set("platform", snap.Platform)
	v.Set("lamp", snap.Lamp)
	v.Set("logger", snap.Logger)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// GetConfigPath returns the path of the loaded config file.
func (l *Loader) GetConfigPath() string {
	return l.path
}

// GetConfigHome returns the default config directory.
func GetConfigHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".lampbot"), nil
}

func resolveConfigPath(configPath string) (string, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		home, err := GetConfigHome()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, "config.json")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}
