package transport

import (
	"context"
	"fmt"

	"github.com/san-kum/pixmorph/internal/grid"
)

// Solve pairs every source pixel with a unique destination pixel.
//
// Sources are visited in a uniform random order drawn from opts.Seed. Each
// one scans the destinations still available and takes the cheapest under
// opts' weighted color/spatial cost; among equal costs the first candidate
// in the current pool order wins. The result is a greedy approximation, not
// a minimum-cost matching.
//
// Complexity: O(N^2) time and O(N) space for N = width*height. This is the
// dominant cost of the whole engine.
//
// The context is checked once per source. A canceled solve discards its
// partial result and returns an error wrapping ErrCanceled.
func Solve(ctx context.Context, src, dst *grid.Grid, opts Options) ([]PixelRecord, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if !src.SameSize(dst) {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, src.Width, src.Height, dst.Width, dst.Height)
	}
	if src.Len() == 0 {
		return nil, ErrEmptyGrid
	}

	space := opts.ColorSpace
	if space == "" {
		space = RGB
	}
	sources := samplesOf(src, space)
	pool := samplesOf(dst, space)
	order := permutation(len(sources), rngFromSeed(opts.Seed))

	return assign(ctx, sources, pool, order, opts)
}

// assign consumes pool while serving sources in the given order.
func assign(ctx context.Context, sources, pool []sample, order []int, opts Options) ([]PixelRecord, error) {
	cost := Cost{ColorWeight: opts.ColorWeight, SpatialWeight: opts.SpatialWeight}
	every := opts.ProgressEvery
	if every <= 0 {
		every = DefaultProgressEvery
	}

	records := make([]PixelRecord, 0, len(order))
	for done, idx := range order {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w after %d of %d sources: %w", ErrCanceled, done, len(order), err)
		}
		if len(pool) == 0 {
			return nil, fmt.Errorf("%w: %d of %d sources unassigned", ErrAssignmentExhausted, len(order)-done, len(order))
		}

		s := &sources[idx]
		best := 0
		bestCost := cost.eval(s, &pool[0])
		for j := 1; j < len(pool); j++ {
			if c := cost.eval(s, &pool[j]); c < bestCost {
				best, bestCost = j, c
			}
		}

		d := pool[best]
		last := len(pool) - 1
		pool[best] = pool[last]
		pool = pool[:last]

		records = append(records, PixelRecord{
			SourceX:  s.pt.X,
			SourceY:  s.pt.Y,
			DestX:    d.pt.X,
			DestY:    d.pt.Y,
			CurrentX: s.x,
			CurrentY: s.y,
			Color:    s.color,
		})

		if opts.Progress != nil && (done+1)%every == 0 {
			opts.Progress(done+1, len(order))
		}
	}

	if opts.Progress != nil && len(order)%every != 0 {
		opts.Progress(len(order), len(order))
	}
	return records, nil
}
