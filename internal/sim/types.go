package sim

import (
	"fmt"
	"math"
)

// State is one sample of every world channel.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// World is a stepped physics scene with named sample channels.
type World interface {
	Step(dt float64)
	Channels() []string
	Sample() []float64
}

// Driver runs once before every world step.
type Driver interface {
	Tick() error
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, t float64)
}

type Config struct {
	Dt       float64
	Duration float64
	// ValidateState stops the run at the first NaN or Inf sample.
	ValidateState bool
}

type Result struct {
	Channels   []string
	States     []State
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Channel returns the series recorded for the named channel.
func (r *Result) Channel(name string) ([]float64, bool) {
	idx := -1
	for i, c := range r.Channels {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	out := make([]float64, len(r.States))
	for i, s := range r.States {
		if idx < len(s) {
			out[i] = s[idx]
		}
	}
	return out, true
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("t=%.4f step=%d: %s", e.Time, e.Step, e.Message)
}
