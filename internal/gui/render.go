package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/pixmorph/internal/grid"
)

// Screen is a GPU texture mirroring the rendered grid.
type Screen struct {
	Width, Height int
	tex           rl.Texture2D
	pixels        []color.RGBA
}

func NewScreen(w, h int) *Screen {
	img := rl.GenImageColor(w, h, rl.Black)
	defer rl.UnloadImage(img)

	tex := rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(tex, rl.FilterPoint)
	return &Screen{Width: w, Height: h, tex: tex, pixels: make([]color.RGBA, w*h)}
}

// Upload copies g into the texture; g must match the screen size.
func (s *Screen) Upload(g *grid.Grid) {
	if g == nil || g.Width != s.Width || g.Height != s.Height {
		return
	}
	s.pixels = Pixels(g, s.pixels)
	rl.UpdateTexture(s.tex, s.pixels)
}

func (s *Screen) Draw(dst rl.Rectangle) {
	src := rl.NewRectangle(0, 0, float32(s.Width), float32(s.Height))
	rl.DrawTexturePro(s.tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
}

func (s *Screen) Unload() {
	rl.UnloadTexture(s.tex)
}

// Pixels converts g to raster-ordered RGBA, reusing buf when it is large
// enough.
func Pixels(g *grid.Grid, buf []color.RGBA) []color.RGBA {
	n := g.Len()
	if cap(buf) < n {
		buf = make([]color.RGBA, n)
	}
	buf = buf[:n]
	for i, c := range g.Colors() {
		buf[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	}
	return buf
}

// Fit returns the largest integer-scaled rectangle for a w x h texture
// centered in an areaW x areaH area, falling back to fractional scaling
// when the texture is larger than the area.
func Fit(w, h, areaW, areaH int) rl.Rectangle {
	if w <= 0 || h <= 0 || areaW <= 0 || areaH <= 0 {
		return rl.NewRectangle(0, 0, 0, 0)
	}
	scale := float32(min(areaW/w, areaH/h))
	if scale < 1 {
		scale = min(float32(areaW)/float32(w), float32(areaH)/float32(h))
	}
	dw, dh := float32(w)*scale, float32(h)*scale
	return rl.NewRectangle((float32(areaW)-dw)/2, (float32(areaH)-dh)/2, dw, dh)
}
