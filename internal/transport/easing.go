package transport

import (
	"fmt"
	"sort"

	"github.com/tanema/gween/ease"
)

const DefaultEasing = "cubic"

// Easing maps normalized time to motion progress.
type Easing func(t float64) float64

// FromTween adapts a gween easing curve to the unit interval.
func FromTween(fn ease.TweenFunc) Easing {
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// SmoothT is the default cubic ease-in-out: 4t^3 below one half and
// 1 - (-2t+2)^3/2 above. Values outside [0,1] extrapolate the same curves.
var SmoothT = FromTween(ease.InOutCubic)

var easings = map[string]ease.TweenFunc{
	"cubic":  ease.InOutCubic,
	"linear": ease.Linear,
	"quad":   ease.InOutQuad,
	"quart":  ease.InOutQuart,
	"sine":   ease.InOutSine,
}

// LookupEasing resolves an easing by name. The empty name is the default.
func LookupEasing(name string) (Easing, error) {
	if name == "" || name == DefaultEasing {
		return SmoothT, nil
	}
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownEasing, name, EasingNames())
	}
	return FromTween(fn), nil
}

func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
