package grid

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid(t *testing.T) {
	g := New(3, 2)
	require.Equal(t, 6, g.Len())
	assert.Equal(t, Transparent, g.At(2, 1))
	assert.Equal(t, Transparent, g.At(5, 5), "out of bounds reads are transparent")

	g.Set(1, 1, Black)
	assert.Equal(t, Black, g.At(1, 1))

	g.Set(-1, 0, Black)
	assert.Equal(t, 1, g.Diff(New(3, 2)))
}

func TestFromColors(t *testing.T) {
	colors := []Color{{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}, {255, 255, 0, 255}}
	g, err := FromColors(2, 2, colors)
	require.NoError(t, err)
	assert.Equal(t, colors[1], g.At(1, 0))
	assert.Equal(t, colors[2], g.At(0, 1))

	colors[0] = Black
	assert.NotEqual(t, Black, g.At(0, 0), "input slice must be copied")

	_, err = FromColors(3, 3, colors)
	assert.Error(t, err)
}

func TestPointsRasterOrder(t *testing.T) {
	g := New(2, 2)
	assert.Equal(t, []Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, g.Points())
}

func TestCloneAndEqual(t *testing.T) {
	g := Filled(4, 4, Color{10, 20, 30, 255})
	c := g.Clone()
	require.True(t, g.Equal(c))

	c.Set(0, 0, Black)
	assert.False(t, g.Equal(c))
	assert.False(t, g.Equal(New(4, 3)))
	assert.Equal(t, 12, g.Diff(New(4, 3)))
}

func TestImageRoundTrip(t *testing.T) {
	g := New(3, 2)
	g.Set(0, 0, Color{1, 2, 3, 255})
	g.Set(2, 1, Color{200, 100, 50, 128})

	img := g.Image()
	require.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	assert.True(t, g.Equal(FromImage(img)))
}

func TestFromImageOffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 7, 6))
	img.Set(6, 5, color.RGBA{255, 0, 0, 255})

	g := FromImage(img)
	require.Equal(t, 2, g.Width)
	require.Equal(t, 1, g.Height)
	assert.Equal(t, Color{255, 0, 0, 255}, g.At(1, 0))
	assert.Equal(t, Color{}, g.At(0, 0))
}

func TestFromImageSubImage(t *testing.T) {
	base := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	base.Set(2, 3, color.NRGBA{9, 8, 7, 255})
	sub := base.SubImage(image.Rect(2, 2, 4, 4))

	g := FromImage(sub)
	require.Equal(t, 2, g.Width)
	assert.Equal(t, Color{9, 8, 7, 255}, g.At(0, 1))
}
