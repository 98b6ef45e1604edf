package rig

import (
	"fmt"

	"github.com/san-kum/vehiclerig/internal/scene"
)

// Resolver looks up named bodies and applies the per-caller absence
// policy: the chassis is required, ground and wheels are optional.
type Resolver struct {
	store       scene.Store
	chassis     string
	ground      string
	wheelPrefix string
}

func NewResolver(store scene.Store, chassis, ground, wheelPrefix string) *Resolver {
	return &Resolver{store: store, chassis: chassis, ground: ground, wheelPrefix: wheelPrefix}
}

// Resolve finds a body by name with no absence policy applied.
func (r *Resolver) Resolve(name string) (scene.Body, bool) {
	return r.store.FindBody(name)
}

// Chassis returns the chassis body or a *MissingDependencyError.
func (r *Resolver) Chassis() (scene.Body, error) {
	b, ok := r.Resolve(r.chassis)
	if !ok {
		return nil, &MissingDependencyError{Name: r.chassis}
	}
	return b, nil
}

// Ground returns the ground body, marked static, or ErrOptionalAbsence.
func (r *Resolver) Ground() (scene.Body, error) {
	if r.ground == "" {
		return nil, ErrOptionalAbsence
	}
	b, ok := r.Resolve(r.ground)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOptionalAbsence, r.ground)
	}
	if err := r.store.SetStatic(b, true); err != nil {
		return nil, err
	}
	return b, nil
}

// Wheel returns the body for a wheel key or ErrOptionalAbsence.
func (r *Resolver) Wheel(key string) (scene.Body, error) {
	name := r.WheelName(key)
	b, ok := r.Resolve(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOptionalAbsence, name)
	}
	return b, nil
}

func (r *Resolver) WheelName(key string) string {
	return r.wheelPrefix + key
}
