package transport

import (
	"fmt"

	"github.com/san-kum/pixmorph/internal/grid"
)

// PixelRecord pairs one source pixel with its destination. Everything but
// CurrentX/CurrentY is fixed at construction.
type PixelRecord struct {
	SourceX, SourceY   int
	DestX, DestY       int
	CurrentX, CurrentY float64
	Color              grid.Color
}

func (r PixelRecord) Source() grid.Point { return grid.Point{X: r.SourceX, Y: r.SourceY} }
func (r PixelRecord) Dest() grid.Point   { return grid.Point{X: r.DestX, Y: r.DestY} }

// ColorSpace selects the color distance used by the solver.
type ColorSpace string

const (
	// RGB is Euclidean distance over R, G, B with alpha excluded.
	RGB ColorSpace = "rgb"
	// Lab is CIE Lab distance scaled to roughly the RGB range. Opt-in.
	Lab ColorSpace = "lab"
)

const (
	DefaultColorWeight   = 0.7
	DefaultSpatialWeight = 0.3
	DefaultProgressEvery = 1024
)

type Options struct {
	Seed          int64
	ColorWeight   float64
	SpatialWeight float64
	ColorSpace    ColorSpace
	Easing        string

	// Progress, when set, is called every ProgressEvery assigned sources and
	// once more when the solve finishes.
	Progress      func(done, total int)
	ProgressEvery int
}

func DefaultOptions() Options {
	return Options{
		Seed:          defaultSeed,
		ColorWeight:   DefaultColorWeight,
		SpatialWeight: DefaultSpatialWeight,
		ColorSpace:    RGB,
		Easing:        DefaultEasing,
		ProgressEvery: DefaultProgressEvery,
	}
}

func (o Options) validate() error {
	if o.ColorWeight < 0 || o.SpatialWeight < 0 || (o.ColorWeight == 0 && o.SpatialWeight == 0) {
		return fmt.Errorf("%w: color=%g spatial=%g", ErrInvalidWeights, o.ColorWeight, o.SpatialWeight)
	}
	switch o.ColorSpace {
	case RGB, Lab, "":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownColorSpace, o.ColorSpace)
	}
	return nil
}

// Frame is an immutable snapshot of every record's current position.
// X[i], Y[i] belong to record i.
type Frame struct {
	Version uint64
	T       float64
	X, Y    []float64
}

func newFrame(version uint64, t float64, n int) *Frame {
	return &Frame{
		Version: version,
		T:       t,
		X:       make([]float64, n),
		Y:       make([]float64, n),
	}
}

// FrameStats summarizes one projection. OutOfBounds pixels are dropped from
// the picture but always counted here.
type FrameStats struct {
	Version     uint64  `json:"version"`
	T           float64 `json:"t"`
	OutOfBounds int     `json:"out_of_bounds"`
	Collisions  int     `json:"collisions"`
	Merged      int     `json:"merged"`
	Filled      int     `json:"filled"`
	Empty       int     `json:"empty"`
}

// FrameObserver receives the stats of every rendered frame.
type FrameObserver interface {
	OnFrame(stats FrameStats)
}
