package transport

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/pixmorph/internal/grid"
)

// labScale stretches Lab distances (white to black is 1.0) to the 0-255
// scale of the spatial term.
const labScale = 255.0

// sample is a pixel prepared for cost evaluation. c0..c2 hold the color
// coordinates in the selected space.
type sample struct {
	pt         grid.Point
	x, y       float64
	c0, c1, c2 float64
	color      grid.Color
}

func newSample(pt grid.Point, c grid.Color, space ColorSpace) sample {
	s := sample{pt: pt, x: float64(pt.X), y: float64(pt.Y), color: c}
	switch space {
	case Lab:
		l, a, b := colorful.Color{
			R: float64(c.R) / 255,
			G: float64(c.G) / 255,
			B: float64(c.B) / 255,
		}.Lab()
		s.c0, s.c1, s.c2 = l*labScale, a*labScale, b*labScale
	default:
		s.c0, s.c1, s.c2 = float64(c.R), float64(c.G), float64(c.B)
	}
	return s
}

func samplesOf(g *grid.Grid, space ColorSpace) []sample {
	out := make([]sample, 0, g.Len())
	for _, pt := range g.Points() {
		out = append(out, newSample(pt, g.At(pt.X, pt.Y), space))
	}
	return out
}

func colorDistance(a, b *sample) float64 {
	d0 := a.c0 - b.c0
	d1 := a.c1 - b.c1
	d2 := a.c2 - b.c2
	return math.Sqrt(d0*d0 + d1*d1 + d2*d2)
}

func spatialDistance(a, b *sample) float64 {
	dx := a.x - b.x
	dy := a.y - b.y
	return math.Sqrt(dx*dx + dy*dy)
}

// Cost is the weighted matching cost between a source and a destination
// pixel.
type Cost struct {
	ColorWeight   float64
	SpatialWeight float64
}

func (c Cost) eval(a, b *sample) float64 {
	return c.ColorWeight*colorDistance(a, b) + c.SpatialWeight*spatialDistance(a, b)
}

// Between evaluates the RGB cost of moving color a at pa to a pixel colored
// b at pb.
func (c Cost) Between(pa grid.Point, a grid.Color, pb grid.Point, b grid.Color) float64 {
	sa := newSample(pa, a, RGB)
	sb := newSample(pb, b, RGB)
	return c.eval(&sa, &sb)
}
