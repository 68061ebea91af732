package config

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load(t *testing.T) {
	loader := NewLoader("../../../cmd/game/configs")

	cfg, err := loader.Load("config.json")
	require.NoError(t, err)

	assert.Equal(t, "nf demo", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 360, cfg.Window.Height)
	assert.Equal(t, 2, cfg.Window.Scale)
	assert.Equal(t, 60, cfg.Window.TPS)
	assert.Equal(t, 1.0, cfg.Audio.Master)
	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Equal(t, 250*time.Millisecond, cfg.Loop.MaxDelta())
	assert.Equal(t, "logs", cfg.Debug.LogDir)
}

func TestLoader_MissingFieldsKeepDefaults(t *testing.T) {
	fsys := fstest.MapFS{
		"config.json": &fstest.MapFile{Data: []byte(`{"window": {"title": "custom"}}`)},
	}
	loader := NewFSLoader(fsys)

	cfg, err := loader.Load("config.json")
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.Window.Title)
	assert.Equal(t, Default().Window.Width, cfg.Window.Width)
	assert.Equal(t, Default().Audio.Music, cfg.Audio.Music)
	assert.Equal(t, Default().Loop.MaxDeltaMs, cfg.Loop.MaxDeltaMs)
}

func TestLoader_MissingFile(t *testing.T) {
	loader := NewFSLoader(fstest.MapFS{})

	_, err := loader.Load("config.json")
	assert.ErrorContains(t, err, "failed to read config.json")
}

func TestLoader_MalformedJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"config.json": &fstest.MapFile{Data: []byte(`{"window": `)},
	}
	loader := NewFSLoader(fsys)

	_, err := loader.Load("config.json")
	assert.ErrorContains(t, err, "failed to parse config.json")
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -10 }},
		{"zero scale", func(c *Config) { c.Window.Scale = 0 }},
		{"zero tps", func(c *Config) { c.Window.TPS = 0 }},
		{"master above one", func(c *Config) { c.Audio.Master = 1.5 }},
		{"negative music", func(c *Config) { c.Audio.Music = -0.1 }},
		{"zero sample rate", func(c *Config) { c.Audio.SampleRate = 0 }},
		{"zero max delta", func(c *Config) { c.Loop.MaxDeltaMs = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoader_InvalidConfigRejected(t *testing.T) {
	fsys := fstest.MapFS{
		"config.json": &fstest.MapFile{Data: []byte(`{"window": {"width": -1}}`)},
	}
	loader := NewFSLoader(fsys)

	_, err := loader.Load("config.json")
	assert.ErrorContains(t, err, "invalid config.json")
}
