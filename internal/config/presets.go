package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"thumbnail": {
		Width: 48, Height: 48, Seed: 1,
		Matching:  MatchingConfig{ColorWeight: 0.7, SpatialWeight: 0.3, ColorSpace: "rgb"},
		Animation: AnimationConfig{Easing: "cubic", Frames: 60, HoldFrames: 15, FPS: 30, GIFDelay: 3, Rounding: RoundingHalfAway},
	},
	"color-only": {
		Width: 96, Height: 96, Seed: 1,
		Matching:  MatchingConfig{ColorWeight: 1.0, SpatialWeight: 0.0, ColorSpace: "rgb"},
		Animation: AnimationConfig{Easing: "cubic", Frames: 120, HoldFrames: 30, FPS: 30, GIFDelay: 3, Rounding: RoundingHalfAway},
	},
	"spatial-only": {
		Width: 96, Height: 96, Seed: 1,
		Matching:  MatchingConfig{ColorWeight: 0.0, SpatialWeight: 1.0, ColorSpace: "rgb"},
		Animation: AnimationConfig{Easing: "cubic", Frames: 120, HoldFrames: 30, FPS: 30, GIFDelay: 3, Rounding: RoundingHalfAway},
	},
	"perceptual": {
		Width: 96, Height: 96, Seed: 1,
		Matching:  MatchingConfig{ColorWeight: 0.7, SpatialWeight: 0.3, ColorSpace: "lab"},
		Animation: AnimationConfig{Easing: "cubic", Frames: 120, HoldFrames: 30, FPS: 30, GIFDelay: 3, Rounding: RoundingHalfAway},
	},
	"slow": {
		Width: 128, Height: 128, Seed: 1,
		Matching:  MatchingConfig{ColorWeight: 0.7, SpatialWeight: 0.3, ColorSpace: "rgb"},
		Animation: AnimationConfig{Easing: "sine", Frames: 300, HoldFrames: 60, FPS: 30, GIFDelay: 3, Rounding: RoundingHalfAway},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
