package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/pixmorph/internal/transport"
)

func TestOutOfBounds(t *testing.T) {
	m := NewOutOfBounds()
	m.Observe(transport.FrameStats{OutOfBounds: 3})
	m.Observe(transport.FrameStats{OutOfBounds: 4})

	if m.Value() != 7 {
		t.Errorf("expected 7, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestCollisionsPeak(t *testing.T) {
	m := NewCollisions()
	for _, n := range []int{1, 5, 2} {
		m.Observe(transport.FrameStats{Collisions: n})
	}
	if m.Value() != 5 {
		t.Errorf("expected peak 5, got %f", m.Value())
	}
}

func TestCoverage(t *testing.T) {
	m := NewCoverage(10)
	if m.Value() != 0 {
		t.Error("expected zero before samples")
	}
	m.Observe(transport.FrameStats{Filled: 10})
	m.Observe(transport.FrameStats{Filled: 5, Empty: 5})

	if math.Abs(m.Value()-0.75) > 1e-12 {
		t.Errorf("expected 0.75, got %f", m.Value())
	}

	empty := NewCoverage(0)
	empty.Observe(transport.FrameStats{Filled: 1})
	if empty.Value() != 0 {
		t.Error("zero-cell coverage must stay zero")
	}
}

func TestMergeRate(t *testing.T) {
	m := NewMergeRate(8)
	m.Observe(transport.FrameStats{Merged: 2})
	m.Observe(transport.FrameStats{Merged: 1})
	if m.Value() != 0.25 {
		t.Errorf("expected 0.25, got %f", m.Value())
	}
}

func TestSet(t *testing.T) {
	s := Default(4)
	s.OnFrame(transport.FrameStats{Filled: 4})
	s.OnFrame(transport.FrameStats{Filled: 2, Collisions: 1, Merged: 1, OutOfBounds: 1, Empty: 2})

	vals := s.Values()
	want := map[string]float64{
		"out_of_bounds":   1,
		"peak_collisions": 1,
		"coverage":        0.75,
		"max_merge_rate":  0.25,
	}
	for name, v := range want {
		if got, ok := vals[name]; !ok || math.Abs(got-v) > 1e-12 {
			t.Errorf("%s: expected %f, got %f (present=%v)", name, v, got, ok)
		}
	}

	s.Reset()
	for name, v := range s.Values() {
		if v != 0 {
			t.Errorf("%s not reset: %f", name, v)
		}
	}
}

var _ transport.FrameObserver = (*Set)(nil)
