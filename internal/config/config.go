// Package config loads the immutable process configuration from a YAML
// file. Parameters are read once at startup; there is no hot-reload.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all recognized options.
type Config struct {
	// Hardware wiring
	SonarPin int `yaml:"sonar_pin"`
	LEDPin   int `yaml:"led_pin"`

	// Sensor policy
	DistanceThresholdCm float64 `yaml:"distance_threshold_cm"`
	CheckIntervalS      float64 `yaml:"check_interval_s"`
	MaxRetryAttempts    int     `yaml:"max_retry_attempts"`
	SensorRetryDelayS   float64 `yaml:"sensor_retry_delay_s"`
	ConfirmSamples      int     `yaml:"confirm_samples"`
	IIODevice           string  `yaml:"iio_device"`

	// Reporting policy
	BaseURL  string  `yaml:"base_url"`
	TimeoutS float64 `yaml:"timeout_s"`

	// Logging
	Level    string `yaml:"level"`
	FilePath string `yaml:"file_path"`

	// Daemon extensions
	HeartbeatIntervalS float64 `yaml:"heartbeat_interval_s"`
	HTTPAddr           string  `yaml:"http_addr"`
	MQTTBroker         string  `yaml:"mqtt_broker"`
	OutboxCapacity     int     `yaml:"outbox_capacity"`
}

// Default returns the configuration matching the reference deployment.
func Default() Config {
	return Config{
		SonarPin:            12,
		LEDPin:              16,
		DistanceThresholdCm: 10.0,
		CheckIntervalS:      0.2,
		MaxRetryAttempts:    3,
		SensorRetryDelayS:   0.1,
		ConfirmSamples:      1,
		IIODevice:           "iio:device0",
		TimeoutS:            5,
		Level:               "info",
		HeartbeatIntervalS:  900,
		HTTPAddr:            ":8080",
		OutboxCapacity:      16,
	}
}

// Load reads the YAML file at path on top of the defaults. A missing file
// is an error; callers that want defaults-only should use Default directly.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the invariants the daemon relies on.
func (c Config) Validate() error {
	if c.DistanceThresholdCm <= 0 {
		return fmt.Errorf("distance_threshold_cm must be positive, got %v", c.DistanceThresholdCm)
	}
	if c.CheckIntervalS <= 0 {
		return fmt.Errorf("check_interval_s must be positive, got %v", c.CheckIntervalS)
	}
	if c.MaxRetryAttempts < 1 {
		return fmt.Errorf("max_retry_attempts must be at least 1, got %d", c.MaxRetryAttempts)
	}
	if c.SensorRetryDelayS < 0 {
		return fmt.Errorf("sensor_retry_delay_s must not be negative, got %v", c.SensorRetryDelayS)
	}
	if c.TimeoutS <= 0 {
		return fmt.Errorf("timeout_s must be positive, got %v", c.TimeoutS)
	}
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	return nil
}

// CheckInterval returns the poll interval as a duration.
func (c Config) CheckInterval() time.Duration {
	return secondsToDuration(c.CheckIntervalS)
}

// SensorRetryDelay returns the delay between sensor retries as a duration.
func (c Config) SensorRetryDelay() time.Duration {
	return secondsToDuration(c.SensorRetryDelayS)
}

// Timeout returns the API timeout as a duration.
func (c Config) Timeout() time.Duration {
	return secondsToDuration(c.TimeoutS)
}

// HeartbeatInterval returns the heartbeat interval as a duration
// (0 disables heartbeats).
func (c Config) HeartbeatInterval() time.Duration {
	return secondsToDuration(c.HeartbeatIntervalS)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
