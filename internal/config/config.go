// Package config loads application settings for lightcurve.
//
// Values are layered: built-in defaults, then an optional TOML file, then
// LIGHTCURVE_* environment variables. Command-line flags are applied last
// by cmd/app.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/intothevoid/lightcurve/pkg/lightcurve"
)

const (
	DeviceIDWebcam = 0
	DefaultWidth   = 640
	DefaultHeight  = 480
)

// Config holds startup settings. Run defaults only seed the controls; the
// values used for a run are read from the controls when it starts.
type Config struct {
	Camera CameraConfig `toml:"camera"`
	Run    RunConfig    `toml:"run"`
	Log    LogConfig    `toml:"log"`
	Window WindowConfig `toml:"window"`
}

type CameraConfig struct {
	Device    int  `toml:"device"`
	Width     int  `toml:"width"`
	Height    int  `toml:"height"`
	Synthetic bool `toml:"synthetic"`
}

type RunConfig struct {
	Seconds int     `toml:"seconds"`
	FPS     float64 `toml:"fps"`
	Radius  int     `toml:"radius"`
	Color   bool    `toml:"color"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type WindowConfig struct {
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Camera: CameraConfig{
			Device: DeviceIDWebcam,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Run: RunConfig{
			Seconds: 10,
			FPS:     10,
			Radius:  100,
			Color:   false,
		},
		Log:    LogConfig{Level: "info"},
		Window: WindowConfig{Width: 1280, Height: 720},
	}
}

// Load reads defaults, then path (skipped when empty), then the environment
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides settings from LIGHTCURVE_DEVICE, LIGHTCURVE_SYNTHETIC
// and LIGHTCURVE_LOG_LEVEL
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("LIGHTCURVE_DEVICE"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: LIGHTCURVE_DEVICE: %w", err)
		}
		c.Camera.Device = id
	}
	if v := os.Getenv("LIGHTCURVE_SYNTHETIC"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: LIGHTCURVE_SYNTHETIC: %w", err)
		}
		c.Camera.Synthetic = b
	}
	if v := os.Getenv("LIGHTCURVE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate rejects settings the application cannot start with
func (c Config) Validate() error {
	var errs []error
	if c.Camera.Device < 0 {
		errs = append(errs, fmt.Errorf("camera.device must be >= 0, got %d", c.Camera.Device))
	}
	if c.Camera.Width < 0 || c.Camera.Height < 0 {
		errs = append(errs, fmt.Errorf("camera size must not be negative, got %dx%d", c.Camera.Width, c.Camera.Height))
	}
	if err := c.Run.Params().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("run: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Params converts the run defaults into run parameters
func (r RunConfig) Params() lightcurve.Params {
	return lightcurve.Params{
		Duration: time.Duration(r.Seconds) * time.Second,
		Rate:     r.FPS,
		Radius:   r.Radius,
		Color:    r.Color,
	}
}
