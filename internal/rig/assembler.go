package rig

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/san-kum/vehiclerig/internal/config"
	"github.com/san-kum/vehiclerig/internal/control"
	"github.com/san-kum/vehiclerig/internal/scene"
)

// Assembler builds a Rig into a scene. Running it twice on the same
// scene creates a second Vehicle_Rig; callers remove the old one first.
type Assembler struct {
	store scene.Store
	cfg   *config.RigConfig
	log   zerolog.Logger
}

type Option func(*Assembler)

func WithLogger(l zerolog.Logger) Option {
	return func(a *Assembler) { a.log = l }
}

func NewAssembler(store scene.Store, cfg *config.RigConfig, opts ...Option) *Assembler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &Assembler{store: store, cfg: cfg, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Build assembles a rig for the current scene with the default
// configuration.
func Build(store scene.Store) (*Rig, error) {
	return NewAssembler(store, nil).Assemble()
}

func (a *Assembler) Assemble() (*Rig, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	resolver := NewResolver(a.store, a.cfg.Chassis, a.cfg.Ground, a.cfg.WheelPrefix)

	chassis, err := resolver.Chassis()
	if err != nil {
		return nil, err
	}

	ground, err := resolver.Ground()
	switch {
	case errors.Is(err, ErrOptionalAbsence):
		a.log.Debug().Str("body", a.cfg.Ground).Msg("ground absent, skipping collider")
		ground = nil
	case err != nil:
		return nil, err
	}

	wheels := make(map[string]scene.Body)
	for _, key := range a.cfg.WheelKeys() {
		w, err := resolver.Wheel(key)
		if err != nil {
			a.log.Debug().Str("wheel", resolver.WheelName(key)).Msg("wheel absent, slot skipped")
			continue
		}
		wheels[key] = w
	}

	rootGroup, err := a.store.CreateBody(scene.KindGroup, scene.BodyParams{Name: RootName})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", RootName, err)
	}
	rig := &Rig{
		Root:     &Node{Name: RootName, Role: RoleRoot, Group: rootGroup},
		Controls: control.DefaultBlock(),
		Chassis:  chassis,
		Ground:   ground,
	}

	ctrlGroup, err := a.store.CreateBody(scene.KindGroup, scene.BodyParams{Name: ControlsName, Parent: rootGroup})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", ControlsName, err)
	}
	rig.ControlsNode = rig.Root.add(&Node{Name: ControlsName, Role: RoleControls, Group: ctrlGroup})

	factory := NewFactory(a.store, a.cfg)
	for _, ac := range a.cfg.Axles {
		axle, err := a.buildAxle(factory, rootGroup, AxleRole(ac.Name), ac.Keys, wheels)
		if err != nil {
			return nil, err
		}
		rig.Root.add(axle.Node)
		rig.Axles = append(rig.Axles, axle)
	}

	rig.Binder = NewBinder(a.store, rig, a.cfg.BindSuspension)
	rig.ControlsNode.Behaviors = append(rig.ControlsNode.Behaviors, rig.Binder)

	a.store.NotifySceneChanged()

	a.log.Info().
		Int("axles", len(rig.Axles)).
		Int("wheels", len(rig.WheelRigs())).
		Bool("ground", ground != nil).
		Msg("vehicle rig generated")

	return rig, nil
}

func (a *Assembler) buildAxle(f *Factory, root scene.Body, role AxleRole, keys []string, wheels map[string]scene.Body) (*Axle, error) {
	name := AxleNodeName(role)
	group, err := a.store.CreateBody(scene.KindGroup, scene.BodyParams{Name: name, Parent: root})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	axle := &Axle{
		Role: role,
		Node: &Node{Name: name, Role: RoleAxle, Group: group},
	}

	for _, key := range keys {
		slot := &WheelSlot{Key: key, Axle: role}
		axle.Slots = append(axle.Slots, slot)

		wheel, ok := wheels[key]
		if !ok {
			continue
		}
		slot.Wheel = wheel
		slot.Position = wheel.Position()

		wr, err := f.BuildWheelRig(role, key, wheel, group)
		if err != nil {
			return nil, err
		}
		slot.Rig = wr

		axle.Node.add(&Node{Name: wr.Anchor.Name, Role: RoleAnchor, Anchor: wr.Anchor})
		axle.Node.add(&Node{Name: wr.Suspension.Name, Role: RoleSuspension, Suspension: wr.Suspension})
		axle.Node.add(&Node{Name: wr.Hinge.Name, Role: RoleHinge, Hinge: wr.Hinge})
	}

	a.log.Debug().Str("axle", name).Int("wheels", len(axle.Rigs())).Msg("axle built")
	return axle, nil
}
