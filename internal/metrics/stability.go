package metrics

import (
	"math"

	"github.com/san-kum/vehiclerig/internal/sim"
)

// stopMargin is the share of the travel range counted as resting on a stop.
const stopMargin = 0.02

// Stability is the fraction of samples in which every suspension travel
// channel stays clear of its stops. A NaN sample counts against it.
type Stability struct {
	idx          []int
	lower, upper float64
	violations   int
	samples      int
}

// NewStability watches the travel channels at idx, bounded to
// [lower, upper].
func NewStability(idx []int, lower, upper float64) *Stability {
	margin := (upper - lower) * stopMargin
	return &Stability{idx: idx, lower: lower + margin, upper: upper - margin}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(x sim.State, t float64) {
	s.samples++
	for _, i := range s.idx {
		if i >= len(x) {
			continue
		}
		v := x[i]
		if math.IsNaN(v) || v <= s.lower || v >= s.upper {
			s.violations++
			return
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
