package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.SonarPin != 12 {
		t.Errorf("sonar_pin: got %d, want 12", cfg.SonarPin)
	}
	if cfg.LEDPin != 16 {
		t.Errorf("led_pin: got %d, want 16", cfg.LEDPin)
	}
	if cfg.DistanceThresholdCm != 10.0 {
		t.Errorf("distance_threshold_cm: got %v, want 10.0", cfg.DistanceThresholdCm)
	}
	if cfg.CheckInterval() != 200*time.Millisecond {
		t.Errorf("check interval: got %v, want 200ms", cfg.CheckInterval())
	}
	if cfg.MaxRetryAttempts != 3 {
		t.Errorf("max_retry_attempts: got %d, want 3", cfg.MaxRetryAttempts)
	}
	if cfg.SensorRetryDelay() != 100*time.Millisecond {
		t.Errorf("sensor retry delay: got %v, want 100ms", cfg.SensorRetryDelay())
	}
	if cfg.Timeout() != 5*time.Second {
		t.Errorf("timeout: got %v, want 5s", cfg.Timeout())
	}
	if cfg.ConfirmSamples != 1 {
		t.Errorf("confirm_samples: got %d, want 1", cfg.ConfirmSamples)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
sonar_pin: 5
led_pin: 6
distance_threshold_cm: 25.5
check_interval_s: 1.0
max_retry_attempts: 5
sensor_retry_delay_s: 0.5
base_url: https://parking.example.com/api/parking
timeout_s: 10
level: debug
file_path: /var/log/parking-sensor.log
confirm_samples: 3
mqtt_broker: tcp://localhost:1883
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.SonarPin != 5 || cfg.LEDPin != 6 {
		t.Errorf("pins: got %d/%d, want 5/6", cfg.SonarPin, cfg.LEDPin)
	}
	if cfg.DistanceThresholdCm != 25.5 {
		t.Errorf("threshold: got %v, want 25.5", cfg.DistanceThresholdCm)
	}
	if cfg.CheckInterval() != time.Second {
		t.Errorf("interval: got %v, want 1s", cfg.CheckInterval())
	}
	if cfg.BaseURL != "https://parking.example.com/api/parking" {
		t.Errorf("base_url: got %q", cfg.BaseURL)
	}
	if cfg.Level != "debug" {
		t.Errorf("level: got %q, want debug", cfg.Level)
	}
	if cfg.ConfirmSamples != 3 {
		t.Errorf("confirm_samples: got %d, want 3", cfg.ConfirmSamples)
	}
	if cfg.MQTTBroker != "tcp://localhost:1883" {
		t.Errorf("mqtt_broker: got %q", cfg.MQTTBroker)
	}
}

func TestLoadKeepsDefaultsForOmittedKeys(t *testing.T) {
	path := writeConfig(t, "base_url: https://parking.example.com/api\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxRetryAttempts != 3 {
		t.Errorf("max_retry_attempts default lost: got %d", cfg.MaxRetryAttempts)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("http_addr default lost: got %q", cfg.HTTPAddr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "sonar_pin: [not an int\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) { c.BaseURL = "https://example.com/api" }, false},
		{"missing base url", func(c *Config) {}, true},
		{"zero threshold", func(c *Config) {
			c.BaseURL = "https://example.com/api"
			c.DistanceThresholdCm = 0
		}, true},
		{"negative interval", func(c *Config) {
			c.BaseURL = "https://example.com/api"
			c.CheckIntervalS = -1
		}, true},
		{"zero retry attempts", func(c *Config) {
			c.BaseURL = "https://example.com/api"
			c.MaxRetryAttempts = 0
		}, true},
		{"negative retry delay", func(c *Config) {
			c.BaseURL = "https://example.com/api"
			c.SensorRetryDelayS = -0.1
		}, true},
		{"zero timeout", func(c *Config) {
			c.BaseURL = "https://example.com/api"
			c.TimeoutS = 0
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
