package config_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"lampbot/pkg/config"
)

// Example_basicUsage demonstrates basic configuration loading.
func Example_basicUsage() {
	loader := config.NewLoader()

	// Load config (a default file is created if none exists)
	cfg, err := loader.Load("")
	if err != nil {
		log.Fatal(err)
	}

	snap := cfg.Snapshot()
	fmt.Printf("API: %s\n", snap.Platform.APIURL)
	fmt.Printf("Device: %s\n", snap.Lamp.DeviceID)
}

// Example_saveAndLoad demonstrates saving and loading configuration.
func Example_saveAndLoad() {
	configPath := filepath.Join(os.TempDir(), "lampbot-example-config.yaml")
	defer os.Remove(configPath)

	cfg := config.DefaultConfig()
	cfg.Lamp.DeviceID = "light7"
	cfg.Platform.Token = "platform-token"

	loader := config.NewLoader()
	if err := loader.Save(configPath, cfg); err != nil {
		log.Fatal(err)
	}

	loaded, err := config.NewLoader().Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Device: %s\n", loaded.Lamp.DeviceID)
	fmt.Printf("Token set: %v\n", loaded.Platform.Token != "")
}

// Example_validation demonstrates configuration validation.
func Example_validation() {
	cfg := config.DefaultConfig()

	if err := config.ValidateConfig(cfg); err != nil {
		fmt.Println(err)
	}
	// Output:
	// 3 validation errors:
	//   - telegram.token: token is required when telegram is enabled
	//   - platform.token: token is required
	//   - platform.project_id: project_id is required
}

// Example_hotReload demonstrates configuration hot-reload.
func Example_hotReload() {
	configPath := filepath.Join(os.TempDir(), "lampbot-watch-example.json")
	defer os.Remove(configPath)

	loader := config.NewLoader()
	cfg, err := loader.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	watcher := config.NewWatcher(loader, cfg, func(err error) {
		fmt.Printf("Reload rejected: %v\n", err)
	})
	watcher.AddHandler(func(newCfg *config.Config) error {
		fmt.Printf("Config changed! Device: %s\n", newCfg.Snapshot().Lamp.DeviceID)
		return nil
	})

	if err := watcher.Start(); err != nil {
		log.Fatal(err)
	}
	defer watcher.Stop()

	fmt.Println("Watching for config changes...")
}
