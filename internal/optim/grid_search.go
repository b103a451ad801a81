package optim

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/san-kum/pixmorph/internal/grid"
	"github.com/san-kum/pixmorph/internal/metrics"
	"github.com/san-kum/pixmorph/internal/transport"
)

// Metric names reported for every trial. All of them are lower-is-better.
const (
	MetricColorError     = "color_error"
	MetricDistance       = "distance"
	MetricPeakCollisions = "peak_collisions"
	MetricMaxMergeRate   = "max_merge_rate"
)

// probeTimes are the in-flight instants sampled for collision metrics.
var probeTimes = []float64{0.25, 0.5, 0.75}

type Trial struct {
	ColorWeight   float64
	SpatialWeight float64
	Seed          int64
	Metrics       map[string]float64
}

// GridSearch sweeps the color weight over an even grid in [0, 1], with the
// spatial weight set to its complement, for each seed.
type GridSearch struct {
	Steps   int
	Seeds   []int64
	Workers int
	Base    transport.Options
}

func NewGridSearch(steps int, seeds []int64) *GridSearch {
	return &GridSearch{
		Steps:   steps,
		Seeds:   seeds,
		Workers: runtime.NumCPU(),
		Base:    transport.DefaultOptions(),
	}
}

// Weights returns the color weights visited by the sweep.
func (g *GridSearch) Weights() []float64 {
	if g.Steps < 2 {
		return []float64{g.Base.ColorWeight}
	}
	ws := make([]float64, g.Steps)
	for i := range ws {
		ws[i] = float64(i) / float64(g.Steps-1)
	}
	return ws
}

// Run evaluates every (weight, seed) pair concurrently. Trials come back
// ordered by weight, then seed.
func (g *GridSearch) Run(ctx context.Context, src, dst *grid.Grid) ([]Trial, error) {
	seeds := g.Seeds
	if len(seeds) == 0 {
		seeds = []int64{g.Base.Seed}
	}

	var trials []Trial
	for _, w := range g.Weights() {
		for _, s := range seeds {
			trials = append(trials, Trial{ColorWeight: w, SpatialWeight: 1 - w, Seed: s})
		}
	}

	workers := g.Workers
	if workers <= 0 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	errs := make([]error, len(trials))

	var wg sync.WaitGroup
	for i := range trials {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			opts := g.Base
			opts.Progress = nil
			opts.Seed = trials[idx].Seed
			opts.ColorWeight = trials[idx].ColorWeight
			opts.SpatialWeight = trials[idx].SpatialWeight

			trials[idx].Metrics, errs[idx] = Evaluate(ctx, src, dst, opts)
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("trial w=%.3f seed=%d: %w", trials[i].ColorWeight, trials[i].Seed, err)
		}
	}

	return trials, nil
}

// Evaluate matches src to dst with opts and scores the result.
//
// color_error is the mean RGB distance between each pixel and the
// destination pixel it replaces; distance is the mean travel in cells.
func Evaluate(ctx context.Context, src, dst *grid.Grid, opts transport.Options) (map[string]float64, error) {
	eng, err := transport.New(ctx, src, dst, opts)
	if err != nil {
		return nil, err
	}

	colorOnly := transport.Cost{ColorWeight: 1}
	spatialOnly := transport.Cost{SpatialWeight: 1}

	var colorSum, distSum float64
	for _, r := range eng.Records() {
		colorSum += colorOnly.Between(r.Source(), r.Color, r.Dest(), dst.At(r.DestX, r.DestY))
		distSum += spatialOnly.Between(r.Source(), r.Color, r.Dest(), r.Color)
	}

	n := float64(eng.Len())
	collisions := metrics.NewCollisions()
	merge := metrics.NewMergeRate(eng.Len())
	eng.AddObserver(metrics.NewSet(collisions, merge))
	for _, t := range probeTimes {
		eng.Tick(t)
		eng.RenderStats()
	}

	return map[string]float64{
		MetricColorError:     colorSum / n,
		MetricDistance:       distSum / n,
		MetricPeakCollisions: collisions.Value(),
		MetricMaxMergeRate:   merge.Value(),
	}, nil
}

// Best returns the trial minimizing metric. Ties keep the earliest trial.
func Best(trials []Trial, metric string) (Trial, float64, bool) {
	best := math.Inf(1)
	idx := -1
	for i, t := range trials {
		v, ok := t.Metrics[metric]
		if !ok {
			continue
		}
		if v < best {
			best = v
			idx = i
		}
	}
	if idx < 0 {
		return Trial{}, 0, false
	}
	return trials[idx], best, true
}

// Summary averages each metric over seeds, keyed by color weight.
type Summary struct {
	ColorWeight float64
	Mean        map[string]float64
	Runs        int
}

func Summarize(trials []Trial) []Summary {
	byWeight := make(map[float64]*Summary)
	for _, t := range trials {
		s, ok := byWeight[t.ColorWeight]
		if !ok {
			s = &Summary{ColorWeight: t.ColorWeight, Mean: make(map[string]float64)}
			byWeight[t.ColorWeight] = s
		}
		for k, v := range t.Metrics {
			s.Mean[k] += v
		}
		s.Runs++
	}

	out := make([]Summary, 0, len(byWeight))
	for _, s := range byWeight {
		for k := range s.Mean {
			s.Mean[k] /= float64(s.Runs)
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ColorWeight < out[j].ColorWeight })
	return out
}
