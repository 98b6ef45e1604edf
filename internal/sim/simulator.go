package sim

import (
	"context"
	"fmt"
)

type Simulator struct {
	world     World
	driver    Driver
	metrics   []Metric
	observers []Observer
}

// New returns a simulator stepping world. driver may be nil.
func New(world World, driver Driver) *Simulator {
	return &Simulator{
		world:     world,
		driver:    driver,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Channels: s.world.Channels(),
		States:   make([]State, 0, steps+1),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	x := State(s.world.Sample())
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if s.driver != nil {
			if err := s.driver.Tick(); err != nil {
				return result, SimError{Time: t, Step: i, Message: err.Error()}
			}
		}

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		s.world.Step(cfg.Dt)
		t += cfg.Dt
		x = State(s.world.Sample())

		if cfg.ValidateState && !x.IsValid() {
			result.Errors = append(result.Errors, SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"})
			break
		}

		result.StepsTaken++
		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// RunWithCallback steps until the duration elapses, the context is done
// or callback returns false. A zero duration runs until stopped.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(State, float64) bool) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}

	t := 0.0
	for cfg.Duration <= 0 || t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		x := State(s.world.Sample())
		if !callback(x, t) {
			return nil
		}

		if s.driver != nil {
			if err := s.driver.Tick(); err != nil {
				return SimError{Time: t, Message: err.Error()}
			}
		}
		s.world.Step(cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState && !State(s.world.Sample()).IsValid() {
			return fmt.Errorf("invalid state at t=%.4f", t)
		}
	}

	return nil
}
