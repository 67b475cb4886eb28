package config

import (
	"path/filepath"
	"testing"
)

func TestWatcherAppliesValidChange(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	loader := NewLoader()
	if err := loader.Save(cfgPath, validConfig(t)); err != nil {
		t.Fatalf("save config: %v", err)
	}
	cfg, err := loader.Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	var notified *Config
	w := NewWatcher(loader, cfg, func(err error) { t.Fatalf("unexpected reload error: %v", err) })
	w.AddHandler(func(c *Config) error {
		notified = c
		return nil
	})

	updated := validConfig(t)
	updated.Lamp.DeviceID = "light2"
	if err := loader.Save(cfgPath, updated); err != nil {
		t.Fatalf("save updated config: %v", err)
	}

	w.handleChange()

	if cfg.Snapshot().Lamp.DeviceID != "light2" {
		t.Fatalf("expected device id to be reloaded, got %q", cfg.Snapshot().Lamp.DeviceID)
	}
	if notified != cfg {
		t.Fatalf("expected handler to receive the shared config")
	}
}

func TestWatcherKeepsConfigOnInvalidChange(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	loader := NewLoader()
	if err := loader.Save(cfgPath, validConfig(t)); err != nil {
		t.Fatalf("save config: %v", err)
	}
	cfg, err := loader.Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	var reloadErr error
	w := NewWatcher(loader, cfg, func(err error) { reloadErr = err })

	broken := validConfig(t)
	broken.Lamp.DeviceID = ""
	if err := loader.Save(cfgPath, broken); err != nil {
		t.Fatalf("save broken config: %v", err)
	}

	w.handleChange()

	if reloadErr == nil {
		t.Fatalf("expected reload error for invalid config")
	}
	if cfg.Snapshot().Lamp.DeviceID != "light1" {
		t.Fatalf("expected previous device id to be kept, got %q", cfg.Snapshot().Lamp.DeviceID)
	}
}
