package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/pixmorph/internal/transport"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 96
	DefaultHeight     = 96
	DefaultSeed       = 1
	DefaultFrames     = 120
	DefaultHoldFrames = 30
	DefaultFPS        = 30
	DefaultGIFDelay   = 3
	RoundingHalfAway  = "half_away"
)

type Config struct {
	Source string `yaml:"source"`
	Dest   string `yaml:"dest"`

	// Width and Height set the working resolution both images are fitted
	// to. Zero keeps the source image's own size.
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`

	Matching  MatchingConfig  `yaml:"matching"`
	Animation AnimationConfig `yaml:"animation"`
}

type MatchingConfig struct {
	ColorWeight   float64 `yaml:"color_weight"`
	SpatialWeight float64 `yaml:"spatial_weight"`
	ColorSpace    string  `yaml:"color_space"`
}

type AnimationConfig struct {
	Easing     string `yaml:"easing"`
	Frames     int    `yaml:"frames"`
	HoldFrames int    `yaml:"hold_frames"`
	FPS        int    `yaml:"fps"`
	GIFDelay   int    `yaml:"gif_delay"`
	Rounding   string `yaml:"rounding"`

	// Duration in seconds; when positive it overrides Frames as
	// Duration*FPS.
	Duration float64 `yaml:"duration"`
}

// FrameCount is the number of frames in one pass, at least 2.
func (a AnimationConfig) FrameCount() int {
	n := a.Frames
	if a.Duration > 0 && a.FPS > 0 {
		n = int(math.Round(a.Duration * float64(a.FPS)))
	}
	if n < 2 {
		n = 2
	}
	return n
}

func DefaultConfig() *Config {
	return &Config{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Seed:   DefaultSeed,
		Matching: MatchingConfig{
			ColorWeight:   transport.DefaultColorWeight,
			SpatialWeight: transport.DefaultSpatialWeight,
			ColorSpace:    string(transport.RGB),
		},
		Animation: AnimationConfig{
			Easing:     transport.DefaultEasing,
			Frames:     DefaultFrames,
			HoldFrames: DefaultHoldFrames,
			FPS:        DefaultFPS,
			GIFDelay:   DefaultGIFDelay,
			Rounding:   RoundingHalfAway,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("size must not be negative, got %dx%d", c.Width, c.Height)
	}
	if (c.Width == 0) != (c.Height == 0) {
		return fmt.Errorf("width and height must both be set or both be zero, got %dx%d", c.Width, c.Height)
	}
	if c.Animation.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %g", c.Animation.Duration)
	}
	if c.Animation.Duration == 0 && c.Animation.Frames < 2 {
		return fmt.Errorf("frames must be at least 2, got %d", c.Animation.Frames)
	}
	if c.Animation.HoldFrames < 0 {
		return fmt.Errorf("hold_frames must not be negative, got %d", c.Animation.HoldFrames)
	}
	if c.Animation.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Animation.FPS)
	}
	if c.Animation.Rounding != "" && c.Animation.Rounding != RoundingHalfAway {
		return fmt.Errorf("unsupported rounding %q (only %s)", c.Animation.Rounding, RoundingHalfAway)
	}
	if _, err := transport.LookupEasing(c.Animation.Easing); err != nil {
		return err
	}
	return nil
}

// TransportOptions maps the matching section onto engine options.
func (c *Config) TransportOptions() transport.Options {
	opts := transport.DefaultOptions()
	opts.Seed = c.Seed
	opts.ColorWeight = c.Matching.ColorWeight
	opts.SpatialWeight = c.Matching.SpatialWeight
	opts.ColorSpace = transport.ColorSpace(c.Matching.ColorSpace)
	opts.Easing = c.Animation.Easing
	return opts
}
