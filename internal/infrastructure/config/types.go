package config

import (
	"fmt"
	"time"
)

// Config is the root config for config.json
type Config struct {
	Window WindowConfig `json:"window"`
	Audio  AudioConfig  `json:"audio"`
	Loop   LoopConfig   `json:"loop"`
	Debug  DebugConfig  `json:"debug"`
}

type WindowConfig struct {
	Title      string `json:"title"`
	Width      int    `json:"width"`  // logical pixels
	Height     int    `json:"height"` // logical pixels
	Scale      int    `json:"scale"`  // window pixels per logical pixel
	Fullscreen bool   `json:"fullscreen"`
	Resizable  bool   `json:"resizable"`
	TPS        int    `json:"tps"`
}

// AudioConfig seeds the mixer channels. Levels are linear in [0, 1].
type AudioConfig struct {
	Master     float64 `json:"master"`
	Music      float64 `json:"music"`
	Sound      float64 `json:"sound"`
	Muted      bool    `json:"muted"`
	SampleRate int     `json:"sampleRate"`
}

type LoopConfig struct {
	MaxDeltaMs int `json:"maxDeltaMs"`
}

// MaxDelta returns the tick clamp as a duration.
func (c LoopConfig) MaxDelta() time.Duration {
	return time.Duration(c.MaxDeltaMs) * time.Millisecond
}

type DebugConfig struct {
	LogDir   string `json:"logDir"`
	LogLevel string `json:"logLevel"`
	Overlay  bool   `json:"overlay"`
}

// Default returns the built-in configuration. Load starts from these
// values, so missing JSON fields keep their defaults.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "nf",
			Width:     640,
			Height:    360,
			Scale:     2,
			Resizable: true,
			TPS:       60,
		},
		Audio: AudioConfig{
			Master:     1.0,
			Music:      0.7,
			Sound:      0.9,
			SampleRate: 44100,
		},
		Loop: LoopConfig{MaxDeltaMs: 250},
		Debug: DebugConfig{
			LogDir:   "logs",
			LogLevel: "info",
		},
	}
}

// Validate checks ranges that would break the engine at startup.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.Scale <= 0 {
		return fmt.Errorf("window scale must be positive, got %d", c.Window.Scale)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("window tps must be positive, got %d", c.Window.TPS)
	}
	for _, lvl := range []struct {
		name  string
		value float64
	}{
		{"audio master", c.Audio.Master},
		{"audio music", c.Audio.Music},
		{"audio sound", c.Audio.Sound},
	} {
		if lvl.value < 0 || lvl.value > 1 {
			return fmt.Errorf("%s volume must be in [0, 1], got %g", lvl.name, lvl.value)
		}
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio sampleRate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Loop.MaxDeltaMs <= 0 {
		return fmt.Errorf("loop maxDeltaMs must be positive, got %d", c.Loop.MaxDeltaMs)
	}
	return nil
}
