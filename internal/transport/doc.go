// Package transport implements the pixel transport engine.
//
// The engine pairs every pixel of a source grid with a unique pixel of an
// equally-sized destination grid, then animates each source pixel from its
// own coordinate to its partner's coordinate while its color stays fixed:
//
//   - [Solve]: greedy bijective assignment under a color/spatial cost
//   - [Validate]: bijection, coverage and color-preservation checks
//   - [Interpolate]: eased per-pixel positions for a normalized time
//   - [Project]: rounding onto the raster with collision averaging
//   - [Engine]: owns the records and publishes versioned frame snapshots
//
// # Assignment
//
// The assignment is a greedy heuristic, not a minimum-cost perfect matching
// and not an optimal-transport solution. Sources are visited in a seeded
// random order and each takes the cheapest destination still available.
// Construction costs O(N^2) time for N = width*height pixels; at N around
// 65,536 expect multi-second latency and build engines off any
// latency-sensitive path.
//
// # Example
//
//	eng, err := transport.New(ctx, src, dst, transport.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	eng.Tick(0.5)
//	frame := eng.Render()
//
// # Thread Safety
//
// Tick, Reset and Render may be called from different goroutines: each Tick
// publishes an immutable snapshot and Render reads the latest one. Ticks
// themselves must come from a single driver.
package transport
