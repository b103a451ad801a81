package anim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/pixmorph/internal/config"
	"github.com/san-kum/pixmorph/internal/grid"
	"github.com/san-kum/pixmorph/internal/transport"
)

type Recording struct {
	Frames     []*grid.Grid
	Stats      []transport.FrameStats
	HoldFrames int
	Elapsed    time.Duration
}

func (r *Recording) Final() *grid.Grid {
	if len(r.Frames) == 0 {
		return nil
	}
	return r.Frames[len(r.Frames)-1]
}

// Record renders one pass from t=0 to t=1. Hold frames are not rendered;
// their count is carried so encoders can stretch the last frame.
func Record(ctx context.Context, eng *transport.Engine, cfg config.AnimationConfig) (*Recording, error) {
	p, err := NewPlayer(eng, cfg.FrameCount(), cfg.HoldFrames)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rec := &Recording{
		Frames:     make([]*grid.Grid, 0, p.Frames()),
		Stats:      make([]transport.FrameStats, 0, p.Frames()),
		HoldFrames: p.HoldFrames(),
	}
	for i := 0; i < p.Frames(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("anim: record frame %d: %w", i, err)
		}
		f := p.Step()
		rec.Frames = append(rec.Frames, f.Grid)
		rec.Stats = append(rec.Stats, f.Stats)
	}
	rec.Elapsed = time.Since(start)
	return rec, nil
}
