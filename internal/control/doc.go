// Package control provides the live parameter block of a vehicle rig.
//
// A [Block] is an ordered set of bounded scalar [Param]s. External code
// (UI, scripts, the CLI) edits values between simulation steps; per-step
// behaviors hold direct [Param] pointers and read them each tick:
//
//	block := control.DefaultBlock()
//	speed := block.MustParam(control.MotorSpeed)
//	block.Set(control.MotorSpeed, 12)
//	_ = speed.Value() // 12
//
// Values are clamped to [Min, Max] on write.
package control
