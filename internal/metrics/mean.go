package metrics

import (
	"math"

	"github.com/san-kum/vehiclerig/internal/sim"
)

// MeanAbs averages the absolute value of the selected channels over all
// samples.
type MeanAbs struct {
	name    string
	idx     []int
	sum     float64
	samples int
}

func NewMeanAbs(name string, idx []int) *MeanAbs {
	return &MeanAbs{name: name, idx: idx}
}

func (m *MeanAbs) Name() string { return m.name }

func (m *MeanAbs) Observe(x sim.State, t float64) {
	for _, i := range m.idx {
		if i < len(x) {
			m.sum += math.Abs(x[i])
			m.samples++
		}
	}
}

func (m *MeanAbs) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanAbs) Reset() {
	m.sum = 0
	m.samples = 0
}

type Peak struct {
	name string
	idx  []int
	peak float64
}

func NewPeak(name string, idx []int) *Peak {
	return &Peak{name: name, idx: idx}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x sim.State, t float64) {
	for _, i := range p.idx {
		if i < len(x) && math.Abs(x[i]) > p.peak {
			p.peak = math.Abs(x[i])
		}
	}
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() { p.peak = 0 }
