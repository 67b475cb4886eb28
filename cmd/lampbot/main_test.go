package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"lampbot/pkg/config"
)

func TestServiceConfig_DefaultArguments(t *testing.T) {
	originalConfigPath := configPath
	t.Cleanup(func() {
		configPath = originalConfigPath
	})

	configPath = ""
	t.Setenv(config.ConfigPathEnv, "")

	got := ServiceConfig().Arguments
	want := []string{"gateway", "run"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected arguments %v, got %v", want, got)
	}
}

func TestServiceConfig_IncludesConfigFlag(t *testing.T) {
	originalConfigPath := configPath
	t.Cleanup(func() {
		configPath = originalConfigPath
	})

	configFile := filepath.Join(t.TempDir(), "service-config.json")
	configPath = configFile
	t.Setenv(config.ConfigPathEnv, "")

	got := ServiceConfig().Arguments
	want := []string{"-c", configFile, "gateway", "run"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected arguments %v, got %v", want, got)
	}
}

func TestServiceConfig_UsesConfigPathEnvWhenFlagNotProvided(t *testing.T) {
	originalConfigPath := configPath
	t.Cleanup(func() {
		configPath = originalConfigPath
	})

	configPath = ""
	configFile := filepath.Join(t.TempDir(), "env-config.json")
	t.Setenv(config.ConfigPathEnv, configFile)

	got := ServiceConfig().Arguments
	want := []string{"-c", configFile, "gateway", "run"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected arguments %v, got %v", want, got)
	}
}

func TestCommandText(t *testing.T) {
	tests := []struct {
		args       []string
		wantText   string
		wantDevice string
	}{
		{args: []string{"status"}, wantText: "/status"},
		{args: []string{"/turn_on", "light2"}, wantText: "/turn_on", wantDevice: "light2"},
		{args: []string{" devices "}, wantText: "/devices"},
	}

	for _, tt := range tests {
		text, device := commandText(tt.args)
		if text != tt.wantText || device != tt.wantDevice {
			t.Fatalf("commandText(%v) = (%q, %q), want (%q, %q)", tt.args, text, device, tt.wantText, tt.wantDevice)
		}
	}
}

func TestGatewayHasControlCommands(t *testing.T) {
	for _, name := range []string{"run", "status", "install", "uninstall", "start", "stop", "restart"} {
		if cmd, _, err := gatewayCmd.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Fatalf("expected gateway subcommand %q", name)
		}
	}
}

func TestConfigValidateCommand(t *testing.T) {
	originalConfigPath := configPath
	t.Cleanup(func() {
		configPath = originalConfigPath
	})

	configPath = filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(configPath, []byte(config.DefaultConfigTemplate), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	configValidateCmd.SetOut(&out)
	if err := configValidateCmd.RunE(configValidateCmd, nil); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out.String()), ": ok") {
		t.Fatalf("unexpected output %q", out.String())
	}
}
