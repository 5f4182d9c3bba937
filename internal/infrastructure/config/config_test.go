package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testSecret is a valid 32+ character JWT secret for tests.
const testSecret = "0123456789abcdef0123456789abcdef"

// writeConfigFile writes YAML content to a temp file and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfigFile(t, `
security:
  jwt:
    secret: "`+testSecret+`"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.ID != "aura-core" {
		t.Errorf("Service.ID = %q, want %q", cfg.Service.ID, "aura-core")
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.API.Port != 8095 {
		t.Errorf("API.Port = %d, want 8095", cfg.API.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
service:
  id: aura-loft
database:
  path: /tmp/aura-test.db
mqtt:
  broker:
    host: broker.local
    port: 8883
    tls: true
security:
  jwt:
    secret: "`+testSecret+`"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.ID != "aura-loft" {
		t.Errorf("Service.ID = %q, want aura-loft", cfg.Service.ID)
	}
	if cfg.MQTT.Broker.Host != "broker.local" || cfg.MQTT.Broker.Port != 8883 {
		t.Errorf("broker = %s:%d, want broker.local:8883", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port)
	}
	if !cfg.MQTT.Broker.TLS {
		t.Error("MQTT.Broker.TLS = false, want true")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AURA_MQTT_HOST", "env-broker")
	t.Setenv("AURA_DATABASE_PATH", "/tmp/env-aura.db")

	path := writeConfigFile(t, `
mqtt:
  broker:
    host: file-broker
security:
  jwt:
    secret: "`+testSecret+`"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Broker.Host != "env-broker" {
		t.Errorf("MQTT.Broker.Host = %q, want env override env-broker", cfg.MQTT.Broker.Host)
	}
	if cfg.Database.Path != "/tmp/env-aura.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.Security.JWT.Secret = "" },
			wantErr: "security.jwt.secret is required",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Security.JWT.Secret = "too-short" },
			wantErr: "at least 32 characters",
		},
		{
			name:    "invalid qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name:    "invalid api port",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: "api.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Security.JWT.Secret = testSecret
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestPlayerOptions(t *testing.T) {
	off := false
	on := true
	players := PlayersConfig{
		Options: map[string]PlayerOptions{
			"kitchen": {GroupedPowerOn: &off},
			"lounge":  {HideMembers: &on},
		},
	}

	if players.BoolOption("kitchen", OptionGroupedPowerOn) {
		t.Error("kitchen grouped_power_on = true, want explicit false")
	}
	if !players.BoolOption("bedroom", OptionGroupedPowerOn) {
		t.Error("bedroom grouped_power_on = false, want default true")
	}
	if !players.BoolOption("lounge", OptionHideMembers) {
		t.Error("lounge hide_members = false, want true")
	}

	// Pinned options ignore per-player settings.
	if !players.BoolOption("anything", OptionFlowMode) {
		t.Error("flow_mode = false, want pinned true")
	}
	if got := players.StringOption("anything", OptionOutputChannels); got != "stereo" {
		t.Errorf("output_channels = %q, want pinned stereo", got)
	}
}
