package histogram

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/pixmorph/internal/grid"
)

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func TestCompute(t *testing.T) {
	colors := []grid.Color{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 128, G: 128, B: 128, A: 255},
	}
	g, err := grid.FromColors(2, 2, colors)
	if err != nil {
		t.Fatal(err)
	}

	h, err := Compute(g, 4)
	if err != nil {
		t.Fatal(err)
	}

	if h.Count != 4 {
		t.Errorf("expected count 4, got %d", h.Count)
	}
	for name, series := range map[string][]float64{"r": h.R, "g": h.G, "b": h.B, "luma": h.Luma} {
		if sum(series) != 4 {
			t.Errorf("%s: expected 4 samples, got %v", name, series)
		}
	}
	if h.R[3] != 1 || h.R[2] != 1 || h.R[0] != 2 {
		t.Errorf("unexpected red bins %v", h.R)
	}
	if h.Chromatic != 3 {
		t.Errorf("gray must not count as chromatic, got %d", h.Chromatic)
	}
	// red 0deg, green 120deg, blue 240deg
	if h.Hue[0] != 1 || h.Hue[1] != 1 || h.Hue[2] != 1 {
		t.Errorf("unexpected hue bins %v", h.Hue)
	}
}

func TestComputeBins(t *testing.T) {
	g := grid.Filled(2, 2, grid.Black)
	for _, bins := range []int{0, -1, 257} {
		if _, err := Compute(g, bins); err == nil {
			t.Errorf("bins=%d: expected error", bins)
		}
	}
	h, err := Compute(g, 256)
	if err != nil {
		t.Fatal(err)
	}
	if h.Luma[0] != 4 {
		t.Errorf("expected all black in bin 0, got %v", h.Luma[:2])
	}
}

func TestLuma(t *testing.T) {
	tests := []struct {
		c    grid.Color
		want uint8
	}{
		{grid.Color{}, 0},
		{grid.Color{R: 255, G: 255, B: 255}, 255},
		{grid.Color{R: 255}, 76},
		{grid.Color{G: 255}, 150},
		{grid.Color{B: 255}, 29},
	}
	for _, tt := range tests {
		if got := Luma(tt.c); got != tt.want {
			t.Errorf("Luma(%v) = %d, want %d", tt.c, got, tt.want)
		}
	}
}

func TestDistance(t *testing.T) {
	red := grid.Filled(3, 3, grid.Color{R: 255, A: 255})
	blue := grid.Filled(3, 3, grid.Color{B: 255, A: 255})

	hr, _ := Compute(red, 8)
	hb, _ := Compute(blue, 8)
	hr2, _ := Compute(red.Clone(), 8)

	if d, _ := Distance(hr, hr2); d != 0 {
		t.Errorf("identical histograms: expected 0, got %f", d)
	}
	d, err := Distance(hr, hb)
	if err != nil {
		t.Fatal(err)
	}
	// R and B channels disjoint, G identical.
	if math.Abs(d-2.0/3.0) > 1e-9 {
		t.Errorf("expected 2/3, got %f", d)
	}

	h4, _ := Compute(red, 4)
	if _, err := Distance(hr, h4); err == nil {
		t.Error("expected bin mismatch error")
	}
}

func TestPlot(t *testing.T) {
	g := grid.Filled(4, 4, grid.Color{R: 10, G: 200, B: 90, A: 255})
	h, _ := Compute(g, 16)

	out := Plot(h, 40, 6)
	if !strings.Contains(out, "16 px") {
		t.Errorf("missing caption in plot:\n%s", out)
	}
	if !strings.Contains(PlotHue(h, 40, 6), "16 chromatic") {
		t.Error("missing hue caption")
	}
}
