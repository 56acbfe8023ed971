package config

import (
	"testing"

	"lyricsync/core/lyrics"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 5001 {
		t.Errorf("expected default port 5001, got %d", cfg.Port)
	}
	if cfg.OutputSize != 0 {
		t.Errorf("expected no output size, got %d", cfg.OutputSize)
	}
	if cfg.NoLyricsMessage != lyrics.DefaultNoLyricsMessage {
		t.Errorf("expected default no-lyrics message, got %q", cfg.NoLyricsMessage)
	}
	if !cfg.BlankOnLoad {
		t.Error("expected BlankOnLoad to default to true")
	}
	if cfg.RedisEnabled {
		t.Error("expected Redis to be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LYRICSYNC_PORT", "6000")
	t.Setenv("LYRICSYNC_OUTPUT_SIZE", "40")
	t.Setenv("LYRICSYNC_NO_LYRICS_MESSAGE", "nada")
	t.Setenv("LYRICSYNC_DEBUG", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	if cfg.Port != 6000 {
		t.Errorf("expected port 6000, got %d", cfg.Port)
	}
	if cfg.OutputSize != 40 {
		t.Errorf("expected output size 40, got %d", cfg.OutputSize)
	}
	if cfg.NoLyricsMessage != "nada" {
		t.Errorf("expected no-lyrics message %q, got %q", "nada", cfg.NoLyricsMessage)
	}
	if !cfg.Debug {
		t.Error("expected debug to be enabled")
	}
	if cfg.RedisDB != 0 {
		t.Errorf("expected fallback Redis DB 0, got %d", cfg.RedisDB)
	}

	opts := cfg.LyricOptions()
	if opts.Width != 40 || opts.NoLyricsMessage != "nada" {
		t.Errorf("unexpected lyric options: %+v", opts)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"port zero", func(c *Config) { c.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"negative width", func(c *Config) { c.OutputSize = -1 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"upper case level", func(c *Config) { c.LogLevel = "WARN" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Host: "127.0.0.1", Port: 5001, LogLevel: "info"}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Host: "0.0.0.0", Port: 5001, RedisHost: "redis", RedisPort: "6380"}
	if got := cfg.Addr(); got != "0.0.0.0:5001" {
		t.Errorf("expected 0.0.0.0:5001, got %s", got)
	}
	if got := cfg.RedisAddr(); got != "redis:6380" {
		t.Errorf("expected redis:6380, got %s", got)
	}
}
