package transport_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pixmorph/internal/grid"
	"github.com/san-kum/pixmorph/internal/transport"
)

type statsRecorder struct {
	mu     sync.Mutex
	frames []transport.FrameStats
}

func (r *statsRecorder) OnFrame(s transport.FrameStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, s)
}

var _ = Describe("Engine", func() {
	var (
		ctx  context.Context
		src  *grid.Grid
		dst  *grid.Grid
		opts transport.Options
	)

	BeforeEach(func() {
		ctx = context.Background()
		src = noiseGrid(12, 9, 1)
		dst = noiseGrid(12, 9, 2)
		opts = transport.DefaultOptions()
		opts.Seed = 1234
	})

	Describe("construction", func() {
		It("rejects grids of different sizes before solving", func() {
			solved := false
			opts.Progress = func(int, int) { solved = true }

			eng, err := transport.New(ctx, noiseGrid(3, 3, 1), noiseGrid(4, 4, 2), opts)

			Expect(eng).To(BeNil())
			Expect(err).To(MatchError(transport.ErrDimensionMismatch))
			var cerr *transport.ConstructionError
			Expect(errors.As(err, &cerr)).To(BeTrue())
			Expect(cerr.Stage).To(Equal("input"))
			Expect(solved).To(BeFalse())
		})

		It("rejects nil grids", func() {
			_, err := transport.New(ctx, nil, dst, opts)
			Expect(err).To(MatchError(transport.ErrEmptyGrid))
		})

		It("rejects unknown easings", func() {
			opts.Easing = "wobble"
			_, err := transport.New(ctx, src, dst, opts)
			Expect(err).To(MatchError(transport.ErrUnknownEasing))
		})

		It("aborts on a canceled context", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			eng, err := transport.New(canceled, src, dst, opts)
			Expect(eng).To(BeNil())
			Expect(err).To(MatchError(transport.ErrCanceled))
			var cerr *transport.ConstructionError
			Expect(errors.As(err, &cerr)).To(BeTrue())
			Expect(cerr.Stage).To(Equal("solve"))
		})

		It("produces a validated bijection", func() {
			eng, err := transport.New(ctx, src, dst, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(eng.Len()).To(Equal(src.Len()))

			records := eng.Records()
			Expect(transport.Validate(records, src)).To(Succeed())

			dests := map[grid.Point]bool{}
			for _, r := range records {
				dests[r.Dest()] = true
			}
			Expect(dests).To(HaveLen(src.Len()))
		})
	})

	Describe("animation", func() {
		var eng *transport.Engine

		BeforeEach(func() {
			var err error
			eng, err = transport.New(ctx, src, dst, opts)
			Expect(err).NotTo(HaveOccurred())
		})

		It("reproduces the source at t=0", func() {
			eng.Tick(0)
			out, stats := eng.RenderStats()
			Expect(out.Equal(src)).To(BeTrue())
			Expect(stats.Collisions).To(BeZero())
			Expect(stats.OutOfBounds).To(BeZero())
		})

		It("fills every destination exactly once at t=1", func() {
			eng.Tick(1)
			out, stats := eng.RenderStats()

			Expect(stats.Empty).To(BeZero())
			Expect(stats.Collisions).To(BeZero())
			Expect(stats.OutOfBounds).To(BeZero())
			Expect(stats.Filled).To(Equal(src.Len()))

			for _, r := range eng.Records() {
				Expect(out.At(r.DestX, r.DestY)).To(Equal(r.Color))
				Expect(r.CurrentX).To(Equal(float64(r.DestX)))
				Expect(r.CurrentY).To(Equal(float64(r.DestY)))
			}
		})

		It("keeps every carried color at every tick", func() {
			for _, t := range []float64{0, 0.1, 0.33, 0.5, 0.77, 1, 1.2, -0.3} {
				eng.Tick(t)
				_ = eng.Render()
				Expect(transport.Validate(eng.Records(), src)).To(Succeed())
			}
		})

		It("counts pixels pushed off the raster when extrapolating", func() {
			eng.Tick(3)
			_, stats := eng.RenderStats()
			Expect(stats.OutOfBounds + stats.Filled + stats.Merged).To(Equal(src.Len()))
		})

		It("resets to the freshly constructed frame", func() {
			fresh, err := transport.New(ctx, src, dst, opts)
			Expect(err).NotTo(HaveOccurred())
			want := fresh.Render()

			eng.Tick(0.37)
			eng.Tick(0.81)
			eng.Reset()
			Expect(eng.Render().Equal(want)).To(BeTrue())

			eng.Reset()
			Expect(eng.Render().Equal(want)).To(BeTrue())
		})

		It("publishes a new version on every tick", func() {
			v0 := eng.Version()
			eng.Tick(0.2)
			eng.Tick(0.2)
			Expect(eng.Version()).To(Equal(v0 + 2))

			_, stats := eng.RenderStats()
			Expect(stats.Version).To(Equal(eng.Version()))
			Expect(stats.T).To(Equal(0.2))

			last, ok := eng.Stats()
			Expect(ok).To(BeTrue())
			Expect(last).To(Equal(stats))
		})

		It("hands out copies", func() {
			records := eng.Records()
			records[0].Color = grid.Color{R: 1, G: 2, B: 3, A: 4}
			records[0].DestX = -5
			Expect(transport.Validate(eng.Records(), src)).To(Succeed())

			out := eng.Render()
			out.Set(0, 0, grid.Color{})
			Expect(eng.Render().At(0, 0)).To(Equal(src.At(0, 0)))
		})

		It("notifies observers", func() {
			rec := &statsRecorder{}
			eng.AddObserver(rec)
			eng.Tick(0.5)
			eng.Render()
			eng.Tick(1)
			eng.Render()

			Expect(rec.frames).To(HaveLen(2))
			Expect(rec.frames[1].T).To(Equal(1.0))
		})

		It("renders consistently while another goroutine ticks", func() {
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i <= 50; i++ {
					eng.Tick(float64(i) / 50)
				}
			}()

			for i := 0; i < 50; i++ {
				_, stats := eng.RenderStats()
				Expect(stats.Filled + stats.Merged + stats.OutOfBounds).To(Equal(src.Len()))
			}
			wg.Wait()
		})
	})

	Describe("two by two scenario", func() {
		It("maps four primaries onto four distinct cells", func() {
			colors := []grid.Color{{R: 255, G: 0, B: 0, A: 255}, {R: 0, G: 255, B: 0, A: 255}, {R: 0, G: 0, B: 255, A: 255}, {R: 255, G: 255, B: 0, A: 255}}
			src, err := grid.FromColors(2, 2, colors)
			Expect(err).NotTo(HaveOccurred())

			eng, err := transport.New(ctx, src, noiseGrid(2, 2, 99), opts)
			Expect(err).NotTo(HaveOccurred())

			var dests []grid.Point
			var carried []grid.Color
			for _, r := range eng.Records() {
				dests = append(dests, r.Dest())
				carried = append(carried, r.Color)
			}
			Expect(dests).To(ConsistOf(grid.Point{X: 0, Y: 0}, grid.Point{X: 1, Y: 0}, grid.Point{X: 0, Y: 1}, grid.Point{X: 1, Y: 1}))
			Expect(carried).To(ConsistOf(colors[0], colors[1], colors[2], colors[3]))
		})
	})
})
