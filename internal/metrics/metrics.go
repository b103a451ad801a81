package metrics

import (
	"sync"

	"github.com/san-kum/pixmorph/internal/transport"
)

type Metric interface {
	Name() string
	Observe(s transport.FrameStats)
	Value() float64
	Reset()
}

// Set fans frame stats out to a group of metrics. It implements
// transport.FrameObserver so it can be attached to an engine directly.
type Set struct {
	mu      sync.Mutex
	metrics []Metric
}

func NewSet(ms ...Metric) *Set {
	return &Set{metrics: ms}
}

// Default returns the metrics recorded for every run.
func Default(pixels int) *Set {
	return NewSet(
		NewOutOfBounds(),
		NewCollisions(),
		NewCoverage(pixels),
		NewMergeRate(pixels),
	)
}

func (s *Set) OnFrame(fs transport.FrameStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		m.Observe(fs)
	}
}

func (s *Set) Values() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		m.Reset()
	}
}
