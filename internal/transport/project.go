package transport

import (
	"math"

	"github.com/san-kum/pixmorph/internal/grid"
)

// Background fills cells no pixel lands on.
var Background = grid.Black

// RoundCoord maps a continuous coordinate to its raster cell. Halves round
// away from zero (math.Round); the mode is fixed so frames are reproducible.
func RoundCoord(v float64) float64 {
	return math.Round(v)
}

// Project rasterizes the frame positions of records onto a width x height
// grid in a single pass.
//
// Each pixel lands on the cell nearest its position. Pixels landing outside
// the grid are dropped and counted in OutOfBounds. Cells hit by several
// pixels get the per-channel average, rounded to the nearest integer; a cell
// hit once keeps that pixel's color verbatim; untouched cells stay
// Background. The output is fully opaque.
func Project(records []PixelRecord, f *Frame, width, height int) (*grid.Grid, FrameStats) {
	out := grid.New(width, height)
	stats := FrameStats{Version: f.Version, T: f.T}

	cells := width * height
	counts := make([]uint32, cells)
	sums := make([][3]uint32, cells)

	for i := range records {
		cx := RoundCoord(f.X[i])
		cy := RoundCoord(f.Y[i])
		if !(cx >= 0 && cy >= 0 && cx < float64(width) && cy < float64(height)) {
			stats.OutOfBounds++
			continue
		}
		idx := int(cy)*width + int(cx)
		c := records[i].Color
		sums[idx][0] += uint32(c.R)
		sums[idx][1] += uint32(c.G)
		sums[idx][2] += uint32(c.B)
		counts[idx]++
	}

	for idx := 0; idx < cells; idx++ {
		x, y := idx%width, idx/width
		switch n := counts[idx]; {
		case n == 0:
			out.Set(x, y, Background)
			stats.Empty++
		default:
			if n > 1 {
				stats.Collisions++
				stats.Merged += int(n) - 1
			}
			out.Set(x, y, grid.Color{
				R: uint8((sums[idx][0] + n/2) / n),
				G: uint8((sums[idx][1] + n/2) / n),
				B: uint8((sums[idx][2] + n/2) / n),
				A: 255,
			})
			stats.Filled++
		}
	}

	return out, stats
}
