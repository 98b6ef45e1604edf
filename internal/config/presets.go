package config

import "sort"

var Presets = map[string]*RigConfig{
	"default": DefaultConfig(),
	"soft": func() *RigConfig {
		c := DefaultConfig()
		c.Suspension.Stiffness = 1.5
		c.Suspension.Damping = 0.05
		c.Suspension.Lower = -140
		c.Suspension.Upper = 140
		return c
	}(),
	"stiff": func() *RigConfig {
		c := DefaultConfig()
		c.Suspension.Stiffness = 9
		c.Suspension.Damping = 0.8
		c.Suspension.Lower = -40
		c.Suspension.Upper = 40
		return c
	}(),
	"four_wheel": func() *RigConfig {
		c := DefaultConfig()
		c.Axles = []AxleConfig{
			{Name: "Front", Keys: []string{"FL", "FR"}},
			{Name: "Rear", Keys: []string{"RL", "RR"}},
		}
		return c
	}(),
	"live_suspension": func() *RigConfig {
		c := DefaultConfig()
		c.BindSuspension = true
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *RigConfig {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
