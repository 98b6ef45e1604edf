// Package automation runs scripted drives: a YAML timeline of control
// settings applied to a rig while it is simulated.
package automation

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/vehiclerig/internal/control"
	"gopkg.in/yaml.v3"
)

var ErrNoSegments = errors.New("automation: script has no segments")

// Script is a scripted drive.
type Script struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Preset      string    `yaml:"preset"`
	Dt          float64   `yaml:"dt"`
	Segments    []Segment `yaml:"segments"`
}

// Segment holds control values for a span of simulated time. Controls not
// named keep their previous value.
type Segment struct {
	Label    string             `yaml:"label"`
	Duration float64            `yaml:"duration"`
	Controls map[string]float64 `yaml:"controls"`
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}
	if script.Dt == 0 {
		script.Dt = 1.0 / 60.0
	}
	return &script, nil
}

// Validate checks durations and that every control name exists in block.
func (s *Script) Validate(block *control.Block) error {
	if s.Dt <= 0 {
		return fmt.Errorf("script %s: dt must be positive, got %f", s.Name, s.Dt)
	}
	if len(s.Segments) == 0 {
		return fmt.Errorf("script %s: %w", s.Name, ErrNoSegments)
	}
	for i, seg := range s.Segments {
		if seg.Duration <= 0 {
			return fmt.Errorf("script %s: segment %d: duration must be positive", s.Name, i+1)
		}
		for name := range seg.Controls {
			if _, ok := block.Param(name); !ok {
				return fmt.Errorf("script %s: segment %d: %w: %s", s.Name, i+1, control.ErrUnknownParam, name)
			}
		}
	}
	return nil
}

func (s *Script) Duration() float64 {
	total := 0.0
	for _, seg := range s.Segments {
		total += seg.Duration
	}
	return total
}
