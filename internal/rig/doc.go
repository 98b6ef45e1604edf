// Package rig assembles a multi-axle vehicle suspension and drivetrain
// from named scene bodies and drives it every simulation step.
//
// The pieces, leaf first:
//
//   - [Resolver]: looks up the chassis, ground and wheel bodies
//   - [Factory]: builds the anchor, suspension and hinge of one wheel
//   - [Assembler]: builds the whole [Rig] graph and its control block
//   - [Binder]: per-step behavior pushing control values into joints
//
// # Example
//
//	store := scene.NewMemory(scene.SixWheeler())
//	r, err := rig.NewAssembler(store, config.DefaultConfig()).Assemble()
//	if err != nil {
//		return err
//	}
//	r.Controls.Set(control.MotorSpeed, 20)
//	err = r.Tick()
//
// # Thread Safety
//
// Assembly and ticking run on the host's simulation thread. A Rig must
// not be ticked concurrently.
package rig
