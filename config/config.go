// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds host settings; flags in cmd/harmonylink override these
type Config struct {
	// Script is a YAML narrative path; empty uses the built-in script
	Script string `env:"HARMONYLINK_SCRIPT"`

	// Debug enables file logging under logs/
	Debug bool `env:"HARMONYLINK_DEBUG" envDefault:"false"`

	Audio  bool    `env:"HARMONYLINK_AUDIO" envDefault:"true"`
	Volume float64 `env:"HARMONYLINK_VOLUME" envDefault:"0.6"`

	FPS int `env:"HARMONYLINK_FPS" envDefault:"30"`

	// ScrollStep is the wheel delta reported per notch
	ScrollStep float64 `env:"HARMONYLINK_SCROLL_STEP" envDefault:"100"`
}

// ParseEnv loads configuration from environment variables
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment into a validated Config
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	if c.FPS < 1 || c.FPS > 240 {
		return fmt.Errorf("fps %d out of range [1, 240]", c.FPS)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("volume %v out of range [0, 1]", c.Volume)
	}
	if c.ScrollStep <= 0 {
		return fmt.Errorf("scroll step %v must be positive", c.ScrollStep)
	}
	return nil
}

// FrameInterval returns the render tick period
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
