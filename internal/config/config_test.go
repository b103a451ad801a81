package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width <= 0 || cfg.Height <= 0 {
		t.Errorf("expected positive default size, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Matching.ColorWeight != 0.7 || cfg.Matching.SpatialWeight != 0.3 {
		t.Errorf("unexpected default weights %+v", cfg.Matching)
	}
	if cfg.Animation.Rounding != RoundingHalfAway {
		t.Errorf("expected rounding %s, got %s", RoundingHalfAway, cfg.Animation.Rounding)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative size", func(c *Config) { c.Width = -1 }},
		{"half size", func(c *Config) { c.Width = 0 }},
		{"one frame", func(c *Config) { c.Animation.Frames = 1 }},
		{"negative duration", func(c *Config) { c.Animation.Duration = -1 }},
		{"negative hold", func(c *Config) { c.Animation.HoldFrames = -1 }},
		{"zero fps", func(c *Config) { c.Animation.FPS = 0 }},
		{"banker rounding", func(c *Config) { c.Animation.Rounding = "half_even" }},
		{"unknown easing", func(c *Config) { c.Animation.Easing = "elastic-ish" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixmorph.yaml")

	cfg := DefaultConfig()
	cfg.Source = "a.png"
	cfg.Dest = "https://example.com/b.jpg"
	cfg.Seed = 77
	cfg.Matching.ColorSpace = "lab"
	cfg.Animation.Easing = "sine"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "seed: 9\nanimation:\n  frames: 10\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Seed != 9 || cfg.Animation.Frames != 10 {
		t.Errorf("explicit fields not applied: %+v", cfg)
	}
	if cfg.Animation.FPS != DefaultFPS || cfg.Matching.ColorWeight != 0.7 || cfg.Width != DefaultWidth {
		t.Errorf("missing fields should keep defaults: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("animation:\n  fps: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFrameCount(t *testing.T) {
	tests := []struct {
		name string
		anim AnimationConfig
		want int
	}{
		{"frames", AnimationConfig{Frames: 90, FPS: 30}, 90},
		{"duration wins", AnimationConfig{Frames: 90, FPS: 30, Duration: 2.5}, 75},
		{"floor of two", AnimationConfig{Frames: 90, FPS: 30, Duration: 0.01}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.anim.FrameCount(); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestTransportOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 5
	cfg.Matching.ColorSpace = "lab"

	opts := cfg.TransportOptions()
	if opts.Seed != 5 || opts.ColorSpace != "lab" || opts.ColorWeight != 0.7 {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("thumbnail")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Width != 48 {
		t.Errorf("expected width 48, got %d", cfg.Width)
	}

	cfg.Width = 1
	if Presets["thumbnail"].Width != 48 {
		t.Error("GetPreset must return a copy")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValid(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
