package transport

// interpolateChunk is the size below which interpolation stays on the
// calling goroutine.
const interpolateChunk = 4096

// Interpolate writes every record's eased position at time t into out.
// Only positions move; colors are never read or written here.
//
//	current = source + (dest - source) * easing(t)
//
// A nil easing means SmoothT. out must hold len(records) positions.
func Interpolate(records []PixelRecord, t float64, easing Easing, out *Frame) {
	if easing == nil {
		easing = SmoothT
	}
	k := easing(t)
	out.T = t
	ParallelFor(len(records), interpolateChunk, func(start, end int) {
		for i := start; i < end; i++ {
			r := &records[i]
			out.X[i] = float64(r.SourceX) + float64(r.DestX-r.SourceX)*k
			out.Y[i] = float64(r.SourceY) + float64(r.DestY-r.SourceY)*k
		}
	})
}

// rewind writes every record's source coordinate into out.
func rewind(records []PixelRecord, out *Frame) {
	out.T = 0
	for i := range records {
		out.X[i] = float64(records[i].SourceX)
		out.Y[i] = float64(records[i].SourceY)
	}
}
