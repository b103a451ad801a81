package metrics

import (
	"math"

	"github.com/san-kum/pixmorph/internal/transport"
)

// OutOfBounds totals the pixels dropped off the raster across frames.
type OutOfBounds struct {
	name  string
	total int
}

func NewOutOfBounds() *OutOfBounds {
	return &OutOfBounds{name: "out_of_bounds"}
}

func (o *OutOfBounds) Name() string { return o.name }

func (o *OutOfBounds) Observe(s transport.FrameStats) {
	o.total += s.OutOfBounds
}

func (o *OutOfBounds) Value() float64 { return float64(o.total) }

func (o *OutOfBounds) Reset() { o.total = 0 }

// Collisions tracks the peak number of cells hit by more than one pixel.
type Collisions struct {
	name string
	peak int
}

func NewCollisions() *Collisions {
	return &Collisions{name: "peak_collisions"}
}

func (c *Collisions) Name() string { return c.name }

func (c *Collisions) Observe(s transport.FrameStats) {
	if s.Collisions > c.peak {
		c.peak = s.Collisions
	}
}

func (c *Collisions) Value() float64 { return float64(c.peak) }

func (c *Collisions) Reset() { c.peak = 0 }

// Coverage is the mean fraction of cells that received at least one pixel.
type Coverage struct {
	name    string
	cells   int
	sum     float64
	samples int
}

func NewCoverage(cells int) *Coverage {
	return &Coverage{name: "coverage", cells: cells}
}

func (c *Coverage) Name() string { return c.name }

func (c *Coverage) Observe(s transport.FrameStats) {
	if c.cells <= 0 {
		return
	}
	c.sum += float64(s.Filled) / float64(c.cells)
	c.samples++
}

func (c *Coverage) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *Coverage) Reset() {
	c.sum = 0
	c.samples = 0
}

// MergeRate is the worst fraction of pixels that landed in a shared cell.
type MergeRate struct {
	name   string
	pixels int
	worst  float64
}

func NewMergeRate(pixels int) *MergeRate {
	return &MergeRate{name: "max_merge_rate", pixels: pixels}
}

func (m *MergeRate) Name() string { return m.name }

func (m *MergeRate) Observe(s transport.FrameStats) {
	if m.pixels <= 0 {
		return
	}
	m.worst = math.Max(m.worst, float64(s.Merged)/float64(m.pixels))
}

func (m *MergeRate) Value() float64 { return m.worst }

func (m *MergeRate) Reset() { m.worst = 0 }
