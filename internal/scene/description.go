package scene

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// BodySpec describes one pre-existing scene body. Wheels set Radius,
// boxes set Size.
type BodySpec struct {
	Name     string     `yaml:"name"`
	Position [3]float64 `yaml:"position"`
	Size     [3]float64 `yaml:"size,omitempty"`
	Radius   float64    `yaml:"radius,omitempty"`
	Mass     float64    `yaml:"mass,omitempty"`
}

func (b BodySpec) Vec() mgl64.Vec3 {
	return mgl64.Vec3(b.Position)
}

// Description is the set of bodies a host scene starts with.
type Description struct {
	Bodies []BodySpec `yaml:"bodies"`
}

func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescription, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func SaveDescription(path string, d *Description) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (d *Description) Validate() error {
	seen := make(map[string]bool, len(d.Bodies))
	for i, b := range d.Bodies {
		if b.Name == "" {
			return fmt.Errorf("%w: body %d has no name", ErrInvalidDescription, i)
		}
		if seen[b.Name] {
			return fmt.Errorf("%w: duplicate body %q", ErrInvalidDescription, b.Name)
		}
		seen[b.Name] = true
		if b.Mass < 0 || b.Radius < 0 {
			return fmt.Errorf("%w: body %q has negative mass or radius", ErrInvalidDescription, b.Name)
		}
	}
	return nil
}

func (d *Description) Find(name string) (BodySpec, bool) {
	for _, b := range d.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return BodySpec{}, false
}

// Without returns a copy of d with the named bodies removed.
func (d *Description) Without(names ...string) *Description {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := &Description{Bodies: make([]BodySpec, 0, len(d.Bodies))}
	for _, b := range d.Bodies {
		if !drop[b.Name] {
			out.Bodies = append(out.Bodies, b)
		}
	}
	return out
}

// DefaultWheelRadius is the wheel radius of the builtin scenes.
const DefaultWheelRadius = 40.0

const (
	wheelMass   = 2.0
	trackHalf   = 110.0
)

// SixWheeler is a chassis on a ground plane with three axles of wheels.
func SixWheeler() *Description {
	wheel := func(key string, x, z float64) BodySpec {
		return BodySpec{
			Name:     "Wheel_" + key,
			Position: [3]float64{x, DefaultWheelRadius, z},
			Radius:   DefaultWheelRadius,
			Mass:     wheelMass,
		}
	}
	return &Description{Bodies: []BodySpec{
		{Name: "Body", Position: [3]float64{0, 120, 0}, Size: [3]float64{420, 60, 200}, Mass: 20},
		{Name: "Ground", Position: [3]float64{0, -5, 0}, Size: [3]float64{8000, 10, 8000}},
		wheel("FL", 160, trackHalf),
		wheel("FR", 160, -trackHalf),
		wheel("ML", 0, trackHalf),
		wheel("MR", 0, -trackHalf),
		wheel("RL", -160, trackHalf),
		wheel("RR", -160, -trackHalf),
	}}
}

// FourWheeler is SixWheeler without the middle axle wheels.
func FourWheeler() *Description {
	return SixWheeler().Without("Wheel_ML", "Wheel_MR")
}
