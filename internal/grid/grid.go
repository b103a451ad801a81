package grid

import (
	"fmt"
	"image"
	"image/color"
)

// Color is a single RGBA sample, each channel in [0,255].
type Color struct {
	R, G, B, A uint8
}

var (
	Black       = Color{0, 0, 0, 255}
	Transparent = Color{}
)

func (c Color) RGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (c Color) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", c.R, c.G, c.B, c.A)
}

// Point is an integer pixel coordinate.
type Point struct {
	X, Y int
}

// Grid is a fixed-size, row-major array of color samples.
type Grid struct {
	Width, Height int
	pix           []Color
}

func New(w, h int) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Grid{Width: w, Height: h, pix: make([]Color, w*h)}
}

func Filled(w, h int, c Color) *Grid {
	g := New(w, h)
	for i := range g.pix {
		g.pix[i] = c
	}
	return g
}

// FromColors builds a grid from raster-ordered samples. The slice is copied.
func FromColors(w, h int, colors []Color) (*Grid, error) {
	if w < 0 || h < 0 || len(colors) != w*h {
		return nil, fmt.Errorf("grid: %d samples do not fill %dx%d", len(colors), w, h)
	}
	g := New(w, h)
	copy(g.pix, colors)
	return g, nil
}

func (g *Grid) Len() int { return len(g.pix) }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// At returns the sample at (x, y), or Transparent outside the grid.
func (g *Grid) At(x, y int) Color {
	if !g.InBounds(x, y) {
		return Transparent
	}
	return g.pix[y*g.Width+x]
}

func (g *Grid) Set(x, y int, c Color) {
	if !g.InBounds(x, y) {
		return
	}
	g.pix[y*g.Width+x] = c
}

// Points returns every coordinate in raster order.
func (g *Grid) Points() []Point {
	pts := make([]Point, 0, len(g.pix))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			pts = append(pts, Point{x, y})
		}
	}
	return pts
}

// Colors returns a copy of the samples in raster order.
func (g *Grid) Colors() []Color {
	c := make([]Color, len(g.pix))
	copy(c, g.pix)
	return c
}

func (g *Grid) Clone() *Grid {
	c := New(g.Width, g.Height)
	copy(c.pix, g.pix)
	return c
}

func (g *Grid) SameSize(other *Grid) bool {
	return other != nil && g.Width == other.Width && g.Height == other.Height
}

func (g *Grid) Equal(other *Grid) bool {
	if !g.SameSize(other) {
		return false
	}
	for i := range g.pix {
		if g.pix[i] != other.pix[i] {
			return false
		}
	}
	return true
}

// Diff counts the cells whose samples differ. Grids of different sizes
// differ everywhere.
func (g *Grid) Diff(other *Grid) int {
	if !g.SameSize(other) {
		return max(g.Len(), other.Len())
	}
	n := 0
	for i := range g.pix {
		if g.pix[i] != other.pix[i] {
			n++
		}
	}
	return n
}

// FromImage copies an image into a grid, converting through NRGBA.
func FromImage(img image.Image) *Grid {
	b := img.Bounds()
	g := New(b.Dx(), b.Dy())
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < g.Height; y++ {
			row := nrgba.Pix[(y+b.Min.Y-nrgba.Rect.Min.Y)*nrgba.Stride:]
			for x := 0; x < g.Width; x++ {
				off := (x + b.Min.X - nrgba.Rect.Min.X) * 4
				g.pix[y*g.Width+x] = Color{row[off], row[off+1], row[off+2], row[off+3]}
			}
		}
		return g
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			g.pix[y*g.Width+x] = Color{c.R, c.G, c.B, c.A}
		}
	}
	return g
}

// Image returns a fresh NRGBA copy of the grid.
func (g *Grid) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for i, c := range g.pix {
		img.Pix[i*4] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = c.A
	}
	return img
}
