package rig

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/vehiclerig/internal/control"
	"github.com/san-kum/vehiclerig/internal/scene"
)

// Binder pushes the control block into the live rig once per step.
//
// Every hinge gets an enabled motor at the current speed and torque.
// Front wheels get their local rotation set to the steer angle about Up;
// the rotation is absolute, so repeated ticks with unchanged controls
// leave the scene unchanged. Steering overrides the solver kinematically
// and can fight the hinge motor.
//
// Suspension and friction are only rebound when bindSuspension is set.
type Binder struct {
	store scene.Store
	rig   *Rig

	speed  *control.Param
	torque *control.Param
	steer  *control.Param

	bindSuspension bool
	friction       *control.Param
	stiffness      *control.Param
	damping        *control.Param
}

func NewBinder(store scene.Store, r *Rig, bindSuspension bool) *Binder {
	c := r.Controls
	return &Binder{
		store:          store,
		rig:            r,
		speed:          c.MustParam(control.MotorSpeed),
		torque:         c.MustParam(control.MotorTorque),
		steer:          c.MustParam(control.SteerAngle),
		bindSuspension: bindSuspension,
		friction:       c.MustParam(control.Friction),
		stiffness:      c.MustParam(control.SuspensionStiffness),
		damping:        c.MustParam(control.SuspensionDamping),
	}
}

func (b *Binder) Name() string { return BinderName }

func (b *Binder) Tick() error {
	motor := scene.Motor{
		Enabled: true,
		Speed:   b.speed.Value(),
		Torque:  b.torque.Value(),
	}
	steer := mgl64.QuatRotate(mgl64.DegToRad(b.steer.Value()), scene.Up)

	for _, axle := range b.rig.Axles {
		for _, n := range axle.Node.Children {
			switch n.Role {
			case RoleHinge:
				if err := b.store.SetMotor(n.Hinge.Constraint, motor); err != nil {
					return fmt.Errorf("%s: %w", n.Name, err)
				}
				n.Hinge.Motor = motor
			case RoleSuspension:
				if !b.bindSuspension {
					continue
				}
				s := n.Suspension
				if err := b.store.SetSpring(s.Constraint, b.stiffness.Value(), b.damping.Value()); err != nil {
					return fmt.Errorf("%s: %w", n.Name, err)
				}
				s.Stiffness = b.stiffness.Value()
				s.Damping = b.damping.Value()
			}
		}

		for _, slot := range axle.Slots {
			if !slot.Present() {
				continue
			}
			if axle.Role == Front {
				if err := b.store.SetRotation(slot.Wheel, steer); err != nil {
					return fmt.Errorf("steer %s: %w", slot.Key, err)
				}
			}
			if b.bindSuspension {
				if err := b.store.SetFriction(slot.Wheel, b.friction.Value()); err != nil {
					return fmt.Errorf("friction %s: %w", slot.Key, err)
				}
			}
		}
	}
	return nil
}
