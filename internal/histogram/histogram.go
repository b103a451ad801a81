// Package histogram computes per-channel color histograms of a grid and
// renders them as terminal charts.
package histogram

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/pixmorph/internal/grid"
)

const DefaultBins = 32

type Histogram struct {
	Bins  int
	Count int
	R     []float64
	G     []float64
	B     []float64
	Luma  []float64
	// Hue counts only chromatic pixels; Chromatic is their total.
	Hue       []float64
	Chromatic int
}

func binOf(v uint8, bins int) int {
	return int(v) * bins / 256
}

func Compute(g *grid.Grid, bins int) (*Histogram, error) {
	if bins < 1 || bins > 256 {
		return nil, fmt.Errorf("histogram: bins must be in [1, 256], got %d", bins)
	}
	h := &Histogram{
		Bins: bins,
		R:    make([]float64, bins),
		G:    make([]float64, bins),
		B:    make([]float64, bins),
		Luma: make([]float64, bins),
		Hue:  make([]float64, bins),
	}
	if g == nil {
		return h, nil
	}

	for _, c := range g.Colors() {
		h.Count++
		h.R[binOf(c.R, bins)]++
		h.G[binOf(c.G, bins)]++
		h.B[binOf(c.B, bins)]++
		h.Luma[binOf(Luma(c), bins)]++

		hue, sat, _ := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hsv()
		if sat == 0 {
			continue
		}
		h.Chromatic++
		b := int(hue / 360 * float64(bins))
		if b >= bins {
			b = bins - 1
		}
		h.Hue[b]++
	}
	return h, nil
}

// Luma is the Rec. 601 luminance of c.
func Luma(c grid.Color) uint8 {
	y := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	return uint8(math.Min(255, math.Round(y)))
}

// Distance is half the L1 distance between the normalized RGB histograms of
// a and b: 0 for identical channel distributions, 1 for disjoint ones.
func Distance(a, b *Histogram) (float64, error) {
	if a.Bins != b.Bins {
		return 0, fmt.Errorf("histogram: bin mismatch %d vs %d", a.Bins, b.Bins)
	}
	if a.Count == 0 || b.Count == 0 {
		if a.Count == b.Count {
			return 0, nil
		}
		return 1, nil
	}
	var sum float64
	for _, pair := range [][2][]float64{{a.R, b.R}, {a.G, b.G}, {a.B, b.B}} {
		for i := range pair[0] {
			sum += math.Abs(pair[0][i]/float64(a.Count) - pair[1][i]/float64(b.Count))
		}
	}
	return sum / 6, nil
}

// Plot draws the R, G, B and luminance series on one chart.
func Plot(h *Histogram, width, height int) string {
	return asciigraph.PlotMany([][]float64{h.R, h.G, h.B, h.Luma},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue, asciigraph.Default),
		asciigraph.Caption(fmt.Sprintf("rgb + luma (%d px, %d bins)", h.Count, h.Bins)),
	)
}

func PlotHue(h *Histogram, width, height int) string {
	return asciigraph.Plot(h.Hue,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("hue (%d chromatic px)", h.Chromatic)),
	)
}
