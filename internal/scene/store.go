package scene

import "github.com/go-gl/mathgl/mgl64"

// Store is the host scene as seen by the rig builder. Implementations own
// every body and constraint; callers only annotate and link them.
//
// The rig never reads simulation results back through a Store.
type Store interface {
	FindBody(name string) (Body, bool)
	CreateBody(kind BodyKind, p BodyParams) (Body, error)
	CreateConstraint(kind ConstraintKind, a, b Body, p ConstraintParams) (Constraint, error)
	SetStatic(b Body, static bool) error
	SetDynamic(b Body, dynamic bool) error

	// SetMotor replaces the motor state of a hinge constraint.
	SetMotor(c Constraint, m Motor) error
	// SetSpring replaces stiffness and damping of a spring constraint.
	SetSpring(c Constraint, stiffness, damping float64) error
	// SetRotation sets the local rotation of a body, overriding the solver.
	SetRotation(b Body, q mgl64.Quat) error
	SetFriction(b Body, friction float64) error

	// NotifySceneChanged signals a batch of structural edits.
	NotifySceneChanged()
}
