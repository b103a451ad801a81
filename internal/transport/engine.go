package transport

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/san-kum/pixmorph/internal/grid"
)

// Engine owns a validated record set and the latest frame snapshot.
type Engine struct {
	width, height int
	records       []PixelRecord
	easing        Easing

	version atomic.Uint64
	frame   atomic.Pointer[Frame]
	stats   atomic.Pointer[FrameStats]

	mu        sync.Mutex
	observers []FrameObserver
}

// New builds and validates the assignment between src and dst. Any failure
// aborts construction; no partially built engine is ever returned.
func New(ctx context.Context, src, dst *grid.Grid, opts Options) (*Engine, error) {
	if src == nil || dst == nil {
		return nil, &ConstructionError{Stage: "input", Wrapped: ErrEmptyGrid}
	}
	if !src.SameSize(dst) {
		return nil, &ConstructionError{
			Stage:   "input",
			Wrapped: fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, src.Width, src.Height, dst.Width, dst.Height),
		}
	}

	easing, err := LookupEasing(opts.Easing)
	if err != nil {
		return nil, &ConstructionError{Stage: "input", Wrapped: err}
	}

	records, err := Solve(ctx, src, dst, opts)
	if err != nil {
		return nil, &ConstructionError{Stage: "solve", Wrapped: err}
	}
	if err := Validate(records, src); err != nil {
		return nil, &ConstructionError{Stage: "validate", Wrapped: err}
	}

	e := &Engine{
		width:   src.Width,
		height:  src.Height,
		records: records,
		easing:  easing,
	}
	e.Reset()
	return e, nil
}

func (e *Engine) Size() (width, height int) { return e.width, e.height }

// Len returns the number of records, always width*height.
func (e *Engine) Len() int { return len(e.records) }

// Version returns the version of the latest published frame.
func (e *Engine) Version() uint64 { return e.frame.Load().Version }

// Tick publishes a new snapshot with every pixel at its eased position for
// time t. t is expected in [0,1]; values outside extrapolate.
func (e *Engine) Tick(t float64) {
	f := newFrame(e.version.Add(1), t, len(e.records))
	Interpolate(e.records, t, e.easing, f)
	e.frame.Store(f)
}

// Reset publishes a snapshot with every pixel back at its source.
func (e *Engine) Reset() {
	f := newFrame(e.version.Add(1), 0, len(e.records))
	rewind(e.records, f)
	e.frame.Store(f)
}

// Render projects the latest snapshot. The returned grid belongs to the
// caller.
func (e *Engine) Render() *grid.Grid {
	out, _ := e.RenderStats()
	return out
}

// RenderStats is Render plus the projection counters for the frame.
func (e *Engine) RenderStats() (*grid.Grid, FrameStats) {
	f := e.frame.Load()
	out, stats := Project(e.records, f, e.width, e.height)
	e.stats.Store(&stats)

	e.mu.Lock()
	observers := e.observers
	e.mu.Unlock()
	for _, o := range observers {
		o.OnFrame(stats)
	}
	return out, stats
}

// Stats returns the counters of the most recent render.
func (e *Engine) Stats() (FrameStats, bool) {
	s := e.stats.Load()
	if s == nil {
		return FrameStats{}, false
	}
	return *s, true
}

// Records returns a copy of the record set with CurrentX/CurrentY taken
// from the latest snapshot.
func (e *Engine) Records() []PixelRecord {
	f := e.frame.Load()
	out := make([]PixelRecord, len(e.records))
	copy(out, e.records)
	for i := range out {
		out[i].CurrentX = f.X[i]
		out[i].CurrentY = f.Y[i]
	}
	return out
}

func (e *Engine) AddObserver(o FrameObserver) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(append([]FrameObserver(nil), e.observers...), o)
}
