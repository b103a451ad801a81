package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/pixmorph/internal/anim"
	"github.com/san-kum/pixmorph/internal/automation"
	"github.com/san-kum/pixmorph/internal/config"
	"github.com/san-kum/pixmorph/internal/grid"
	"github.com/san-kum/pixmorph/internal/gui"
	"github.com/san-kum/pixmorph/internal/histogram"
	"github.com/san-kum/pixmorph/internal/imageio"
	"github.com/san-kum/pixmorph/internal/metrics"
	"github.com/san-kum/pixmorph/internal/optim"
	"github.com/san-kum/pixmorph/internal/storage"
	"github.com/san-kum/pixmorph/internal/transport"
	"github.com/san-kum/pixmorph/internal/viz"
)

// resolveConfig layers defaults, preset, config file, changed flags and
// positional arguments, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("color-weight") {
		cfg.Matching.ColorWeight = colorWeight
	}
	if flags.Changed("spatial-weight") {
		cfg.Matching.SpatialWeight = spatialWeight
	}
	if flags.Changed("color-space") {
		cfg.Matching.ColorSpace = colorSpace
	}
	if flags.Changed("easing") {
		cfg.Animation.Easing = easing
	}
	if flags.Changed("frames") {
		cfg.Animation.Frames = frames
	}
	if flags.Changed("hold") {
		cfg.Animation.HoldFrames = holdFrames
	}
	if flags.Changed("fps") {
		cfg.Animation.FPS = frameRate
	}
	if flags.Changed("duration") {
		cfg.Animation.Duration = duration
	}
	if flags.Changed("gif-delay") {
		cfg.Animation.GIFDelay = gifDelay
	}

	if len(args) > 0 {
		cfg.Source = args[0]
	}
	if len(args) > 1 {
		cfg.Dest = args[1]
	}
	if cfg.Source == "" || cfg.Dest == "" {
		return nil, errors.New("source and dest images are required (arguments or config)")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// progressBar redraws a single status line while the matcher runs and ends
// it once the last source is assigned.
func progressBar() func(done, total int) {
	return func(done, total int) {
		frac := float64(done) / float64(total)
		fmt.Printf("\rmatching %s %3.0f%%", viz.ProgressBar(frac, 30), frac*100)
		if done == total {
			fmt.Println()
		}
	}
}

// newEngine loads both images and constructs the engine, drawing a
// progress bar while the matcher runs.
func newEngine(ctx context.Context, cfg *config.Config) (*transport.Engine, error) {
	fmt.Printf("loading %s and %s...\n", cfg.Source, cfg.Dest)
	src, dst, err := imageio.LoadPair(ctx, cfg.Source, cfg.Dest, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	opts := cfg.TransportOptions()
	opts.Progress = progressBar()

	start := time.Now()
	eng, err := transport.New(ctx, src, dst, opts)
	if err != nil {
		return nil, err
	}
	fmt.Printf("matched %d pixels in %v\n", eng.Len(), time.Since(start).Round(time.Millisecond))
	return eng, nil
}

func runMorph(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if noGIF {
		cfg.Animation.GIFDelay = 0
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	res, err := automation.Morph(ctx, cfg, st, automation.Hooks{
		Progress: progressBar(),
		Log:      os.Stdout,
	})
	if err != nil {
		return err
	}

	fmt.Printf("run id: %s\n", res.RunID)
	printMetrics(res.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func playMorph(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	eng, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	p, err := anim.NewPlayer(eng, cfg.Animation.FrameCount(), cfg.Animation.HoldFrames)
	if err != nil {
		return err
	}
	return viz.Run(p, viz.Options{
		Title:   fmt.Sprintf("%s -> %s", cfg.Source, cfg.Dest),
		FPS:     cfg.Animation.FPS,
		Theme:   theme,
		Metrics: metrics.Default(eng.Len()),
	})
}

func guiMorph(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	eng, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	p, err := anim.NewPlayer(eng, cfg.Animation.FrameCount(), cfg.Animation.HoldFrames)
	if err != nil {
		return err
	}
	gui.Run(p, gui.Options{Title: "pixmorph", FPS: cfg.Animation.FPS, Metrics: metrics.Default(eng.Len())})
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSIZE\tSEED\tWEIGHTS\tFRAMES\tSOLVE\tCOVERAGE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%.2f/%.2f\t%d\t%v\t%.3f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Seed,
			run.ColorWeight, run.SpatialWeight,
			run.Frames,
			run.SolveTime.Round(time.Millisecond),
			run.Metrics["coverage"],
		)
	}

	return w.Flush()
}

func statsRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	stats, err := st.LoadFrameStats(runID)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("no frame stats recorded")
		return nil
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("%s -> %s (%dx%d)\n", meta.Source, meta.Dest, meta.Width, meta.Height)
	fmt.Printf("frames: %d\n\n", len(stats))

	series := []struct {
		caption string
		value   func(transport.FrameStats) int
	}{
		{"collided cells per frame", func(s transport.FrameStats) int { return s.Collisions }},
		{"empty cells per frame", func(s transport.FrameStats) int { return s.Empty }},
		{"dropped pixels per frame", func(s transport.FrameStats) int { return s.OutOfBounds }},
	}
	for _, s := range series {
		data := make([]float64, len(stats))
		for i, fs := range stats {
			data[i] = float64(s.value(fs))
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	printMetrics(meta.Metrics)
	return nil
}

func histImage(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("width") {
		width = 0
	}
	if !cmd.Flags().Changed("height") {
		height = 0
	}

	ctx, cancel := signalContext()
	defer cancel()

	g, err := imageio.LoadGrid(ctx, args[0], width, height)
	if err != nil {
		return err
	}
	h, err := histogram.Compute(g, bins)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%dx%d)\n\n", args[0], g.Width, g.Height)
	fmt.Println(histogram.Plot(h, 80, 12))
	fmt.Println()
	fmt.Println(histogram.PlotHue(h, 80, 8))

	if compareTo == "" {
		return nil
	}
	other, err := imageio.LoadGrid(ctx, compareTo, g.Width, g.Height)
	if err != nil {
		return err
	}
	oh, err := histogram.Compute(other, bins)
	if err != nil {
		return err
	}
	d, err := histogram.Distance(h, oh)
	if err != nil {
		return err
	}
	fmt.Printf("\nhistogram distance to %s: %.4f\n", compareTo, d)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outPath != "" {
		return st.ExportJSON(outPath, args[0])
	}
	return st.ExportJSONStdout(args[0])
}

func randomGrid(n int, rng *rand.Rand) *grid.Grid {
	g := grid.New(n, n)
	for _, p := range g.Points() {
		g.Set(p.X, p.Y, grid.Color{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256)), A: 255})
	}
	return g
}

func benchSolve(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	opts := transport.DefaultOptions()
	opts.Seed = seed
	opts.ColorSpace = transport.ColorSpace(colorSpace)

	rng := rand.New(rand.NewSource(seed))

	fmt.Printf("benchmarking matcher (%s)\n\n", colorSpace)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tPIXELS\tSOLVE\tPAIRS/SEC\tRENDER")

	for _, n := range benchSizes {
		if n <= 0 {
			continue
		}
		src, dst := randomGrid(n, rng), randomGrid(n, rng)

		start := time.Now()
		eng, err := transport.New(ctx, src, dst, opts)
		if err != nil {
			return err
		}
		solve := time.Since(start)

		start = time.Now()
		eng.Tick(0.5)
		eng.Render()
		render := time.Since(start)

		pixels := n * n
		pairs := float64(pixels) * float64(pixels+1) / 2
		fmt.Fprintf(w, "%dx%d\t%d\t%v\t%.3g\t%v\n",
			n, n, pixels, solve.Round(time.Microsecond), pairs/solve.Seconds(), render.Round(time.Microsecond))
	}

	return w.Flush()
}

func batchRun(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	if scenario.Name != "" {
		fmt.Printf("scenario: %s\n", scenario.Name)
	}
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}

	start := time.Now()
	results, err := automation.RunScenario(ctx, scenario, st, automation.Hooks{Log: os.Stdout})
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tRUN\tPIXELS\tSOLVE\tCOVERAGE\tPEAK COLLISIONS")
	for i, res := range results {
		runID := res.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.3f\t%.0f\n",
			i+1, runID, res.Engine.Len(),
			res.SolveTime.Round(time.Millisecond),
			res.Metrics["coverage"], res.Metrics["peak_collisions"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d jobs in %v\n", len(results), time.Since(start).Round(time.Millisecond))
	return nil
}

func sweepWeights(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	src, dst, err := imageio.LoadPair(ctx, cfg.Source, cfg.Dest, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}

	search := optim.NewGridSearch(sweepSteps, sweepSeeds)
	search.Base = cfg.TransportOptions()
	if sweepWorkers > 0 {
		search.Workers = sweepWorkers
	}

	fmt.Printf("sweeping %d weights x %d seeds on %dx%d...\n",
		len(search.Weights()), max(len(sweepSeeds), 1), src.Width, src.Height)

	start := time.Now()
	trials, err := search.Run(ctx, src, dst)
	if err != nil {
		return err
	}

	summary := optim.Summarize(trials)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLOR\tSPATIAL\tCOLOR ERR\tDISTANCE\tPEAK COLL\tMERGE RATE")
	for _, s := range summary {
		fmt.Fprintf(w, "%.3f\t%.3f\t%.3f\t%.3f\t%.1f\t%.4f\n",
			s.ColorWeight, 1-s.ColorWeight,
			s.Mean[optim.MetricColorError],
			s.Mean[optim.MetricDistance],
			s.Mean[optim.MetricPeakCollisions],
			s.Mean[optim.MetricMaxMergeRate])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(summary) > 1 {
		data := make([]float64, len(summary))
		for i, s := range summary {
			data[i] = s.Mean[sweepMetric]
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("%s vs color weight", sweepMetric)),
		))
	}

	best, v, ok := optim.Best(trials, sweepMetric)
	if !ok {
		return fmt.Errorf("unknown metric: %s", sweepMetric)
	}
	fmt.Printf("\nbest %s: %.4f at color=%.3f spatial=%.3f seed=%d (%v)\n",
		sweepMetric, v, best.ColorWeight, best.SpatialWeight, best.Seed,
		time.Since(start).Round(time.Millisecond))
	return nil
}
