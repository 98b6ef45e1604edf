package control

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnknownParam indicates a parameter name not present in the block.
	ErrUnknownParam = errors.New("control: unknown parameter")

	// ErrInvalidBounds indicates min >= max, a non-positive step, or a
	// default outside [min, max].
	ErrInvalidBounds = errors.New("control: invalid parameter bounds")

	// ErrDuplicateParam indicates a parameter name added twice.
	ErrDuplicateParam = errors.New("control: duplicate parameter")
)

// Parameter names of the vehicle control surface.
const (
	MotorSpeed          = "MotorSpeed"
	SteerAngle          = "SteerAngle"
	MotorTorque         = "MotorTorque"
	Friction            = "Friction"
	SuspensionStiffness = "SuspensionStiffness"
	SuspensionDamping   = "SuspensionDamping"
)

type Param struct {
	Name    string
	Default float64
	Min     float64
	Max     float64
	Step    float64

	value float64
}

func (p *Param) Value() float64 { return p.value }

// Set clamps v to the parameter range and returns the stored value.
func (p *Param) Set(v float64) float64 {
	if math.IsNaN(v) {
		return p.value
	}
	p.value = math.Max(p.Min, math.Min(p.Max, v))
	return p.value
}

// Nudge moves the value by n steps.
func (p *Param) Nudge(n int) float64 {
	return p.Set(p.value + float64(n)*p.Step)
}

func (p *Param) Reset() { p.value = p.Default }

type Block struct {
	params []*Param
	byName map[string]*Param
}

func NewBlock() *Block {
	return &Block{byName: make(map[string]*Param)}
}

// DefaultBlock returns the six-parameter vehicle control surface at its
// declared defaults.
func DefaultBlock() *Block {
	b := NewBlock()
	for _, p := range []Param{
		{Name: MotorSpeed, Default: 0, Min: -50, Max: 50, Step: 1},
		{Name: SteerAngle, Default: 0, Min: -35, Max: 35, Step: 1},
		{Name: MotorTorque, Default: 50, Min: 0, Max: 500, Step: 1},
		{Name: Friction, Default: 1, Min: 0, Max: 5, Step: 1},
		{Name: SuspensionStiffness, Default: 4, Min: 1, Max: 10, Step: 1},
		{Name: SuspensionDamping, Default: 20, Min: 0, Max: 100, Step: 1},
	} {
		if _, err := b.Add(p.Name, p.Default, p.Min, p.Max, p.Step); err != nil {
			panic(err)
		}
	}
	return b
}

func (b *Block) Add(name string, def, min, max, step float64) (*Param, error) {
	if _, ok := b.byName[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateParam, name)
	}
	if min >= max || step <= 0 || def < min || def > max {
		return nil, fmt.Errorf("%w: %s [%g, %g] step %g default %g", ErrInvalidBounds, name, min, max, step, def)
	}
	p := &Param{Name: name, Default: def, Min: min, Max: max, Step: step, value: def}
	b.params = append(b.params, p)
	b.byName[name] = p
	return p, nil
}

func (b *Block) Param(name string) (*Param, bool) {
	p, ok := b.byName[name]
	return p, ok
}

// MustParam is Param for names the caller registered itself.
func (b *Block) MustParam(name string) *Param {
	p, ok := b.byName[name]
	if !ok {
		panic(fmt.Sprintf("control: no parameter %q", name))
	}
	return p
}

func (b *Block) Get(name string) (float64, error) {
	p, ok := b.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return p.value, nil
}

// Set writes a clamped value and returns what was stored.
func (b *Block) Set(name string, v float64) (float64, error) {
	p, ok := b.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return p.Set(v), nil
}

// Params returns the parameters in declaration order.
func (b *Block) Params() []*Param {
	out := make([]*Param, len(b.params))
	copy(out, b.params)
	return out
}

func (b *Block) Len() int { return len(b.params) }

func (b *Block) Reset() {
	for _, p := range b.params {
		p.Reset()
	}
}

// Values snapshots the block as name -> value.
func (b *Block) Values() map[string]float64 {
	out := make(map[string]float64, len(b.params))
	for _, p := range b.params {
		out[p.Name] = p.value
	}
	return out
}
