package automation

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pixmorph/internal/anim"
	"github.com/san-kum/pixmorph/internal/config"
	"github.com/san-kum/pixmorph/internal/grid"
	"github.com/san-kum/pixmorph/internal/imageio"
	"github.com/san-kum/pixmorph/internal/metrics"
	"github.com/san-kum/pixmorph/internal/storage"
	"github.com/san-kum/pixmorph/internal/transport"
)

// Scenario defines a scripted batch of morph runs
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Jobs        []Job  `yaml:"jobs"`
}

// Job is a single run in a scenario. Unset fields fall back to the preset,
// then to the defaults.
type Job struct {
	Source        string   `yaml:"source"`
	Dest          string   `yaml:"dest"`
	Preset        string   `yaml:"preset"`
	Seed          *int64   `yaml:"seed"`
	Width         *int     `yaml:"width"`
	Height        *int     `yaml:"height"`
	ColorWeight   *float64 `yaml:"color_weight"`
	SpatialWeight *float64 `yaml:"spatial_weight"`
	ColorSpace    string   `yaml:"color_space"`
	Easing        string   `yaml:"easing"`
	Frames        *int     `yaml:"frames"`
	GIF           *bool    `yaml:"gif"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Jobs) == 0 {
		return nil, fmt.Errorf("%s: scenario has no jobs", path)
	}

	return &scenario, nil
}

// Config resolves the job against its preset and the defaults.
func (j Job) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if j.Preset != "" {
		cfg = config.GetPreset(j.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", j.Preset)
		}
	}

	cfg.Source, cfg.Dest = j.Source, j.Dest
	if j.Seed != nil {
		cfg.Seed = *j.Seed
	}
	if j.Width != nil {
		cfg.Width = *j.Width
	}
	if j.Height != nil {
		cfg.Height = *j.Height
	}
	if j.ColorWeight != nil {
		cfg.Matching.ColorWeight = *j.ColorWeight
	}
	if j.SpatialWeight != nil {
		cfg.Matching.SpatialWeight = *j.SpatialWeight
	}
	if j.ColorSpace != "" {
		cfg.Matching.ColorSpace = j.ColorSpace
	}
	if j.Easing != "" {
		cfg.Animation.Easing = j.Easing
	}
	if j.Frames != nil {
		cfg.Animation.Frames = *j.Frames
	}
	if j.GIF != nil && !*j.GIF {
		cfg.Animation.GIFDelay = 0
	}

	if cfg.Source == "" || cfg.Dest == "" {
		return nil, fmt.Errorf("job needs source and dest")
	}
	return cfg, cfg.Validate()
}

// Hooks receive progress from a morph run. Nil hooks are skipped.
type Hooks struct {
	Progress func(done, total int)
	Log      io.Writer
}

func (h Hooks) logf(format string, args ...any) {
	if h.Log != nil {
		fmt.Fprintf(h.Log, format, args...)
	}
}

type MorphResult struct {
	RunID     string
	Src, Dst  *grid.Grid
	Engine    *transport.Engine
	Recording *anim.Recording
	SolveTime time.Duration
	Metrics   map[string]float64
}

// Morph runs the full pipeline for cfg: load both images, match them,
// record one pass and, when st is non-nil, store the run.
func Morph(ctx context.Context, cfg *config.Config, st *storage.Store, hooks Hooks) (*MorphResult, error) {
	hooks.logf("loading %s and %s...\n", cfg.Source, cfg.Dest)
	src, dst, err := imageio.LoadPair(ctx, cfg.Source, cfg.Dest, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	opts := cfg.TransportOptions()
	opts.Progress = hooks.Progress

	start := time.Now()
	eng, err := transport.New(ctx, src, dst, opts)
	if err != nil {
		return nil, err
	}
	solveTime := time.Since(start)
	hooks.logf("matched %d pixels in %v\n", eng.Len(), solveTime.Round(time.Millisecond))

	set := metrics.Default(eng.Len())
	eng.AddObserver(set)

	rec, err := anim.Record(ctx, eng, cfg.Animation)
	if err != nil {
		return nil, err
	}
	hooks.logf("rendered %d frames in %v\n", len(rec.Frames), rec.Elapsed.Round(time.Millisecond))

	res := &MorphResult{
		Src:       src,
		Dst:       dst,
		Engine:    eng,
		Recording: rec,
		SolveTime: solveTime,
		Metrics:   set.Values(),
	}
	if st == nil {
		return res, nil
	}

	meta := storage.RunMetadata{
		Source:        cfg.Source,
		Dest:          cfg.Dest,
		Seed:          cfg.Seed,
		Width:         src.Width,
		Height:        src.Height,
		ColorWeight:   cfg.Matching.ColorWeight,
		SpatialWeight: cfg.Matching.SpatialWeight,
		ColorSpace:    cfg.Matching.ColorSpace,
		Easing:        cfg.Animation.Easing,
		Frames:        len(rec.Frames),
		HoldFrames:    rec.HoldFrames,
		FPS:           cfg.Animation.FPS,
		SolveTime:     solveTime,
		RenderTime:    rec.Elapsed,
		Metrics:       res.Metrics,
	}
	art := storage.Artifacts{
		Source:     src,
		Dest:       dst,
		Frames:     rec.Frames,
		Stats:      rec.Stats,
		GIFDelay:   cfg.Animation.GIFDelay,
		HoldFrames: rec.HoldFrames,
	}
	res.RunID, err = st.Save(meta, art)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// RunScenario executes all jobs in order, stopping at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, hooks Hooks) ([]*MorphResult, error) {
	results := make([]*MorphResult, 0, len(scenario.Jobs))

	for i, job := range scenario.Jobs {
		hooks.logf("Running job %d/%d: %s -> %s\n", i+1, len(scenario.Jobs), job.Source, job.Dest)

		cfg, err := job.Config()
		if err != nil {
			return results, fmt.Errorf("job %d: %w", i+1, err)
		}

		res, err := Morph(ctx, cfg, st, hooks)
		if err != nil {
			return results, fmt.Errorf("job %d: %w", i+1, err)
		}
		results = append(results, res)
	}

	return results, nil
}
