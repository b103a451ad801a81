package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/pixmorph/internal/config"
	"github.com/san-kum/pixmorph/internal/optim"
	"github.com/san-kum/pixmorph/internal/transport"
)

var (
	dataDir string
	// Config file and preset
	configFile string
	preset     string
	saveConfig string
	// Matching
	width         int
	height        int
	seed          int64
	colorWeight   float64
	spatialWeight float64
	colorSpace    string
	// Animation
	easing     string
	frames     int
	holdFrames int
	frameRate  int
	duration   float64
	gifDelay   int
	noGIF      bool
	theme      string
	// Histogram
	bins      int
	compareTo string
	// Export
	outPath string
	// Bench
	benchSizes []int
	// Batch
	noSave bool
	// Sweep
	sweepSteps   int
	sweepSeeds   []int64
	sweepWorkers int
	sweepMetric  string
)

// main registers the commands and flags and executes the root command,
// exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "pixmorph",
		Short:        "rearrange the pixels of one image into another",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pixmorph", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [source] [dest]",
		Short: "match two images, record the animation and store the run",
		Args:  cobra.MaximumNArgs(2),
		RunE:  runMorph,
	}
	addMorphFlags(runCmd)
	runCmd.Flags().IntVar(&gifDelay, "gif-delay", config.DefaultGIFDelay, "gif frame delay (1/100 s)")
	runCmd.Flags().BoolVar(&noGIF, "no-gif", false, "skip animation.gif")
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the effective config to this path")

	playCmd := &cobra.Command{
		Use:   "play [source] [dest]",
		Short: "play the animation in the terminal",
		Args:  cobra.MaximumNArgs(2),
		RunE:  playMorph,
	}
	addMorphFlags(playCmd)
	playCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")

	guiCmd := &cobra.Command{
		Use:   "gui [source] [dest]",
		Short: "play the animation in a window",
		Args:  cobra.MaximumNArgs(2),
		RunE:  guiMorph,
	}
	addMorphFlags(guiCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	statsCmd := &cobra.Command{
		Use:   "stats [run_id]",
		Short: "plot per-frame stats of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  statsRun,
	}

	histCmd := &cobra.Command{
		Use:   "hist [image]",
		Short: "color histogram of an image or URL",
		Args:  cobra.ExactArgs(1),
		RunE:  histImage,
	}
	histCmd.Flags().IntVar(&bins, "bins", 32, "histogram bins")
	histCmd.Flags().IntVar(&width, "width", 0, "resize width before counting (0 keeps size)")
	histCmd.Flags().IntVar(&height, "height", 0, "resize height before counting (0 keeps size)")
	histCmd.Flags().StringVar(&compareTo, "compare", "", "second image to compare against")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and frame stats to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the matcher on random images",
		RunE:  benchSolve,
	}
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{16, 32, 48, 64}, "square image sizes")
	benchCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	benchCmd.Flags().StringVar(&colorSpace, "color-space", string(transport.RGB), "color distance space (rgb, lab)")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run every job of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  batchRun,
	}
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [source] [dest]",
		Short: "compare matches across color/spatial weight splits",
		Args:  cobra.MaximumNArgs(2),
		RunE:  sweepWeights,
	}
	addMorphFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 11, "number of color weights in [0, 1]")
	sweepCmd.Flags().Int64SliceVar(&sweepSeeds, "seeds", []int64{1}, "seeds evaluated per weight")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "concurrent trials (0 uses all CPUs)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", optim.MetricColorError, "metric to minimize")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tWEIGHTS\tSPACE\tEASING\tFRAMES\tHOLD")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%dx%d\t%.2f/%.2f\t%s\t%s\t%d\t%d\n",
					name, p.Width, p.Height,
					p.Matching.ColorWeight, p.Matching.SpatialWeight,
					p.Matching.ColorSpace, p.Animation.Easing,
					p.Animation.FrameCount(), p.Animation.HoldFrames)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, playCmd, guiCmd, listCmd, statsCmd, histCmd, exportJSONCmd, benchCmd, batchCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addMorphFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&width, "width", def.Width, "working width (0 keeps the source size)")
	cmd.Flags().IntVar(&height, "height", def.Height, "working height (0 keeps the source size)")
	cmd.Flags().Int64Var(&seed, "seed", def.Seed, "random seed for the visiting order")
	cmd.Flags().Float64Var(&colorWeight, "color-weight", def.Matching.ColorWeight, "weight of color distance")
	cmd.Flags().Float64Var(&spatialWeight, "spatial-weight", def.Matching.SpatialWeight, "weight of spatial distance")
	cmd.Flags().StringVar(&colorSpace, "color-space", def.Matching.ColorSpace, "color distance space (rgb, lab)")
	cmd.Flags().StringVar(&easing, "easing", def.Animation.Easing, "easing curve")
	cmd.Flags().IntVar(&frames, "frames", def.Animation.Frames, "frames per pass")
	cmd.Flags().IntVar(&holdFrames, "hold", def.Animation.HoldFrames, "frames to hold the final image")
	cmd.Flags().IntVar(&frameRate, "fps", def.Animation.FPS, "frame rate")
	cmd.Flags().Float64Var(&duration, "duration", 0, "pass duration in seconds (overrides --frames)")
}
