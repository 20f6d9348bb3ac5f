// Package config holds the Theremin runtime configuration: compiled-in
// defaults, overridden by an optional YAML file, overridden by
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
)

// Config is the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Camera   CameraConfig   `yaml:"camera"`
	Tracking TrackingConfig `yaml:"tracking"`
	Audio    AudioConfig    `yaml:"audio"`
}

// ServerConfig is the HTTP server configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CameraConfig selects the capture device and resolution.
type CameraConfig struct {
	DeviceID int `yaml:"device_id"`
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
}

// TrackingConfig holds the default signal tuning and loop pacing.
// Tuning values persisted through the settings API take precedence over
// these at startup.
type TrackingConfig struct {
	Sensitivity  float64 `yaml:"sensitivity"`
	SmoothWindow int     `yaml:"smooth_window"`
	PinchMin     float64 `yaml:"pinch_min"`
	PinchMax     float64 `yaml:"pinch_max"`
	TickMs       int     `yaml:"tick_ms"`
	JPEGQuality  int     `yaml:"jpeg_quality"`
}

// AudioConfig locates the optional backing track served to the browser.
type AudioConfig struct {
	TrackPath string `yaml:"track_path"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5000,
		},
		Camera: CameraConfig{
			DeviceID: 0,
			Width:    640,
			Height:   480,
		},
		Tracking: TrackingConfig{
			Sensitivity:  3.0,
			SmoothWindow: 6,
			PinchMin:     0.02,
			PinchMax:     0.18,
			TickMs:       30,
			JPEGQuality:  70,
		},
		Audio: AudioConfig{},
	}
}

// Load builds the configuration: defaults, then the YAML file at path if
// it exists, then environment variables. A missing file is not an error;
// an unreadable or malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to env overrides.
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.Server.Host = getEnvOrDefault("THEREMIN_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsIntOrDefault("THEREMIN_PORT", cfg.Server.Port)
	cfg.Camera.DeviceID = getEnvAsIntOrDefault("THEREMIN_CAMERA_ID", cfg.Camera.DeviceID)
	cfg.Audio.TrackPath = getEnvOrDefault("THEREMIN_TRACK", cfg.Audio.TrackPath)

	return cfg, nil
}

// ServerAddress returns the host:port listen address.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// TickInterval returns the loop pacing as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Tracking.TickMs) * time.Millisecond
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
