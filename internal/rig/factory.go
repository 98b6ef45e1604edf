package rig

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/vehiclerig/internal/config"
	"github.com/san-kum/vehiclerig/internal/scene"
)

// SpinAxis is the world axis wheels spin about. Vehicles face +X.
var SpinAxis = mgl64.Vec3{0, 0, 1}

// Factory builds the joint triple of a single wheel. Wheel rigs never
// share state.
type Factory struct {
	store  scene.Store
	spring scene.Spring
	motor  scene.Motor
	offset mgl64.Vec3
	scale  mgl64.Vec3
}

func NewFactory(store scene.Store, cfg *config.RigConfig) *Factory {
	s := cfg.Anchor.Scale
	return &Factory{
		store: store,
		spring: scene.Spring{
			Lower:     cfg.Suspension.Lower,
			Upper:     cfg.Suspension.Upper,
			Stiffness: cfg.Suspension.Stiffness,
			Damping:   cfg.Suspension.Damping,
		},
		motor: scene.Motor{
			Enabled: true,
			Speed:   cfg.Motor.Speed,
			Torque:  cfg.Motor.Torque,
		},
		offset: scene.Up.Mul(cfg.Anchor.OffsetY),
		scale:  mgl64.Vec3{s, s, s},
	}
}

// BuildWheelRig creates the anchor above wheel, the vertical spring and
// the motorized hinge between them, all under parent. The wheel is left
// dynamic.
func (f *Factory) BuildWheelRig(axle AxleRole, key string, wheel scene.Body, parent scene.Body) (*WheelRig, error) {
	pos := wheel.Position()

	anchorPos := pos.Add(f.offset)
	anchor, err := f.store.CreateBody(scene.KindAnchor, scene.BodyParams{
		Name:     AnchorName(key),
		Parent:   parent,
		Position: anchorPos,
		Scale:    f.scale,
	})
	if err != nil {
		return nil, fmt.Errorf("create anchor for %s: %w", key, err)
	}
	if err := f.store.SetStatic(anchor, true); err != nil {
		return nil, fmt.Errorf("anchor %s static: %w", key, err)
	}

	susp, err := f.store.CreateConstraint(scene.ConstraintSpring, anchor, wheel, scene.ConstraintParams{
		Name:     SuspensionName(key),
		Parent:   parent,
		Position: pos,
		Axis:     scene.Up,
		Spring:   f.spring,
	})
	if err != nil {
		return nil, fmt.Errorf("create suspension for %s: %w", key, err)
	}

	hinge, err := f.store.CreateConstraint(scene.ConstraintHinge, anchor, wheel, scene.ConstraintParams{
		Name:     HingeName(key),
		Parent:   parent,
		Position: pos,
		Axis:     SpinAxis,
		Motor:    f.motor,
	})
	if err != nil {
		return nil, fmt.Errorf("create hinge for %s: %w", key, err)
	}

	if err := f.store.SetDynamic(wheel, true); err != nil {
		return nil, fmt.Errorf("wheel %s dynamic: %w", key, err)
	}

	return &WheelRig{
		Key:   key,
		Axle:  axle,
		Wheel: wheel,
		Anchor: &AnchorBody{
			Name:     AnchorName(key),
			Body:     anchor,
			Position: anchorPos,
		},
		Suspension: &SuspensionJoint{
			Name:       SuspensionName(key),
			Constraint: susp,
			Lower:      f.spring.Lower,
			Upper:      f.spring.Upper,
			Stiffness:  f.spring.Stiffness,
			Damping:    f.spring.Damping,
		},
		Hinge: &HingeJoint{
			Name:       HingeName(key),
			Constraint: hinge,
			Motor:      f.motor,
		},
	}, nil
}
