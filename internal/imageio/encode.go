package imageio

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"

	"github.com/san-kum/pixmorph/internal/grid"
)

func EncodePNG(w io.Writer, g *grid.Grid) error {
	return png.Encode(w, g.Image())
}

func SavePNG(path string, g *grid.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodePNG(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Paletted quantizes g onto the Plan9 palette with Floyd-Steinberg
// dithering.
func Paletted(g *grid.Grid) *image.Paletted {
	src := g.Image()
	dst := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, dst.Bounds(), src, image.Point{})
	return dst
}

// WriteGIF encodes frames as a looping animation. delay is in 100ths of a
// second; hold extends the last frame by that many extra delays.
func WriteGIF(w io.Writer, frames []*grid.Grid, delay, hold int) error {
	if len(frames) == 0 {
		return fmt.Errorf("%w: no frames", ErrEmpty)
	}
	anim := &gif.GIF{LoopCount: 0}
	for i, f := range frames {
		d := delay
		if i == len(frames)-1 {
			d += hold * delay
		}
		anim.Image = append(anim.Image, Paletted(f))
		anim.Delay = append(anim.Delay, d)
	}
	return gif.EncodeAll(w, anim)
}

func SaveGIF(path string, frames []*grid.Grid, delay, hold int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteGIF(f, frames, delay, hold); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
