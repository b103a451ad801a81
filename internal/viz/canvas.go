package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pixmorph/internal/grid"
)

const halfBlock = "▀"

// Canvas renders a grid into terminal cells, two grid rows per text line.
// Grids larger than the canvas are sampled with a uniform integer stride.
type Canvas struct {
	Cols, Rows int
	styles     map[[2]grid.Color]lipgloss.Style
}

func NewCanvas(cols, rows int) *Canvas {
	return &Canvas{Cols: cols, Rows: rows, styles: make(map[[2]grid.Color]lipgloss.Style)}
}

// Stride is the sampling step needed to fit g inside the canvas.
func (c *Canvas) Stride(g *grid.Grid) int {
	s := 1
	for g.Width > c.Cols*s || g.Height > 2*c.Rows*s {
		s++
	}
	return s
}

func hex(col grid.Color) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", col.R, col.G, col.B))
}

func (c *Canvas) style(top, bottom grid.Color) lipgloss.Style {
	key := [2]grid.Color{top, bottom}
	if st, ok := c.styles[key]; ok {
		return st
	}
	st := lipgloss.NewStyle().Foreground(hex(top)).Background(hex(bottom))
	// Bound memory on noisy images.
	if len(c.styles) < 1<<16 {
		c.styles[key] = st
	}
	return st
}

func (c *Canvas) Render(g *grid.Grid) string {
	if g == nil || g.Len() == 0 {
		return ""
	}
	s := c.Stride(g)
	var sb strings.Builder
	for y := 0; y < g.Height; y += 2 * s {
		for x := 0; x < g.Width; x += s {
			bottom := grid.Black
			if y+s < g.Height {
				bottom = g.At(x, y+s)
			}
			sb.WriteString(c.style(g.At(x, y), bottom).Render(halfBlock))
		}
		if y+2*s < g.Height {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
