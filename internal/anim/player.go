// Package anim sequences engine ticks into a looping animation: one pass of
// interpolated frames, a hold on the final arrangement, then a reset.
package anim

import (
	"errors"
	"fmt"

	"github.com/san-kum/pixmorph/internal/grid"
	"github.com/san-kum/pixmorph/internal/transport"
)

var ErrTooFewFrames = errors.New("anim: a pass needs at least 2 frames")

type Frame struct {
	Index int
	T     float64
	Grid  *grid.Grid
	Stats transport.FrameStats
}

// Player is not safe for concurrent use; the engine it drives is.
type Player struct {
	eng    *transport.Engine
	frames int
	hold   int
	pos    int
}

func NewPlayer(eng *transport.Engine, frames, hold int) (*Player, error) {
	if frames < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewFrames, frames)
	}
	if hold < 0 {
		hold = 0
	}
	return &Player{eng: eng, frames: frames, hold: hold}, nil
}

func (p *Player) Engine() *transport.Engine { return p.eng }

// Len is the loop length: the pass plus the hold.
func (p *Player) Len() int { return p.frames + p.hold }

func (p *Player) Frames() int     { return p.frames }
func (p *Player) HoldFrames() int { return p.hold }
func (p *Player) Position() int   { return p.pos }

// TimeAt maps a loop index onto interpolation time. The pass spans [0, 1]
// inclusive; hold frames stay at 1.
func (p *Player) TimeAt(i int) float64 {
	i = p.wrap(i)
	if i >= p.frames-1 {
		return 1
	}
	return float64(i) / float64(p.frames-1)
}

// Seek moves the play head; the next Step renders index i.
func (p *Player) Seek(i int) {
	p.pos = p.wrap(i)
}

// Step renders the frame at the play head and advances it, wrapping to a
// reset at the end of the loop.
func (p *Player) Step() Frame {
	i := p.pos
	t := p.TimeAt(i)
	if i == 0 {
		p.eng.Reset()
	} else {
		p.eng.Tick(t)
	}
	g, stats := p.eng.RenderStats()
	p.pos = p.wrap(i + 1)
	return Frame{Index: i, T: t, Grid: g, Stats: stats}
}

func (p *Player) wrap(i int) int {
	n := p.Len()
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
