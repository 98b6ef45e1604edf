package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSuspLower   = -100.0
	DefaultSuspUpper   = 100.0
	DefaultSuspStiff   = 4.0
	DefaultSuspDamp    = 0.2
	DefaultMotorSpeed  = 5.0
	DefaultMotorTorque = 50.0
	DefaultAnchorY     = 150.0
	DefaultAnchorScale = 0.3

	DefaultChassis     = "Body"
	DefaultGround      = "Ground"
	DefaultWheelPrefix = "Wheel_"
)

// ErrConfiguration indicates a rig configuration that cannot produce a
// valid constraint graph.
var ErrConfiguration = errors.New("config: invalid rig configuration")

type RigConfig struct {
	Chassis        string           `yaml:"chassis"`
	Ground         string           `yaml:"ground"`
	WheelPrefix    string           `yaml:"wheel_prefix"`
	Suspension     SuspensionConfig `yaml:"suspension"`
	Motor          MotorConfig      `yaml:"motor"`
	Anchor         AnchorConfig     `yaml:"anchor"`
	Axles          []AxleConfig     `yaml:"axles"`
	BindSuspension bool             `yaml:"bind_suspension"`
}

type SuspensionConfig struct {
	Lower     float64 `yaml:"lower"`
	Upper     float64 `yaml:"upper"`
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
}

type MotorConfig struct {
	Speed  float64 `yaml:"speed"`
	Torque float64 `yaml:"torque"`
}

type AnchorConfig struct {
	OffsetY float64 `yaml:"offset_y"`
	Scale   float64 `yaml:"scale"`
}

// AxleConfig names an axle and its two wheel keys, left first.
type AxleConfig struct {
	Name string   `yaml:"name"`
	Keys []string `yaml:"keys"`
}

func DefaultAxles() []AxleConfig {
	return []AxleConfig{
		{Name: "Front", Keys: []string{"FL", "FR"}},
		{Name: "Mid", Keys: []string{"ML", "MR"}},
		{Name: "Rear", Keys: []string{"RL", "RR"}},
	}
}

func DefaultConfig() *RigConfig {
	return &RigConfig{
		Chassis:     DefaultChassis,
		Ground:      DefaultGround,
		WheelPrefix: DefaultWheelPrefix,
		Suspension: SuspensionConfig{
			Lower:     DefaultSuspLower,
			Upper:     DefaultSuspUpper,
			Stiffness: DefaultSuspStiff,
			Damping:   DefaultSuspDamp,
		},
		Motor: MotorConfig{
			Speed:  DefaultMotorSpeed,
			Torque: DefaultMotorTorque,
		},
		Anchor: AnchorConfig{
			OffsetY: DefaultAnchorY,
			Scale:   DefaultAnchorScale,
		},
		Axles: DefaultAxles(),
	}
}

// Load overlays a YAML file onto DefaultConfig and validates the result.
func Load(path string) (*RigConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *RigConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *RigConfig) Validate() error {
	if c.Chassis == "" {
		return fmt.Errorf("%w: chassis name is empty", ErrConfiguration)
	}
	for name, v := range map[string]float64{
		"suspension lower":     c.Suspension.Lower,
		"suspension upper":     c.Suspension.Upper,
		"suspension stiffness": c.Suspension.Stiffness,
		"suspension damping":   c.Suspension.Damping,
		"motor speed":          c.Motor.Speed,
		"motor torque":         c.Motor.Torque,
		"anchor offset":        c.Anchor.OffsetY,
		"anchor scale":         c.Anchor.Scale,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %g", ErrConfiguration, name, v)
		}
	}
	if c.Suspension.Lower >= c.Suspension.Upper {
		return fmt.Errorf("%w: suspension lower %g must be below upper %g",
			ErrConfiguration, c.Suspension.Lower, c.Suspension.Upper)
	}
	if c.Suspension.Stiffness < 0 || c.Suspension.Damping < 0 {
		return fmt.Errorf("%w: suspension stiffness and damping must be non-negative", ErrConfiguration)
	}
	if c.Motor.Torque < 0 {
		return fmt.Errorf("%w: motor torque must be non-negative, got %g", ErrConfiguration, c.Motor.Torque)
	}
	// The anchor sits above its wheel.
	if c.Anchor.OffsetY <= 0 {
		return fmt.Errorf("%w: anchor offset must be positive, got %g", ErrConfiguration, c.Anchor.OffsetY)
	}
	if c.Anchor.Scale <= 0 {
		return fmt.Errorf("%w: anchor scale must be positive", ErrConfiguration)
	}
	if len(c.Axles) == 0 {
		return fmt.Errorf("%w: no axles configured", ErrConfiguration)
	}

	names := make(map[string]bool)
	keys := make(map[string]bool)
	for _, a := range c.Axles {
		if a.Name == "" {
			return fmt.Errorf("%w: axle with empty name", ErrConfiguration)
		}
		if names[a.Name] {
			return fmt.Errorf("%w: duplicate axle %q", ErrConfiguration, a.Name)
		}
		names[a.Name] = true
		if len(a.Keys) != 2 {
			return fmt.Errorf("%w: axle %q has %d wheel keys, want 2", ErrConfiguration, a.Name, len(a.Keys))
		}
		for _, k := range a.Keys {
			if k == "" || keys[k] {
				return fmt.Errorf("%w: wheel key %q empty or reused", ErrConfiguration, k)
			}
			keys[k] = true
		}
	}
	return nil
}

// WheelKeys returns every configured wheel key in axle order.
func (c *RigConfig) WheelKeys() []string {
	out := make([]string, 0, len(c.Axles)*2)
	for _, a := range c.Axles {
		out = append(out, a.Keys...)
	}
	return out
}

// Clone returns a deep copy so presets stay untouched.
func (c *RigConfig) Clone() *RigConfig {
	cp := *c
	cp.Axles = make([]AxleConfig, len(c.Axles))
	for i, a := range c.Axles {
		cp.Axles[i] = AxleConfig{Name: a.Name, Keys: append([]string(nil), a.Keys...)}
	}
	return &cp
}
