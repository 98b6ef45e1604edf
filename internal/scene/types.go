package scene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrUnknownHandle indicates a body or constraint that does not belong to the store.
	ErrUnknownHandle = errors.New("scene: handle does not belong to this store")

	// ErrUnsupportedKind indicates a body or constraint kind the store cannot create.
	ErrUnsupportedKind = errors.New("scene: unsupported kind")

	// ErrInvalidDescription indicates a malformed scene description.
	ErrInvalidDescription = errors.New("scene: invalid description")
)

// Up is the world up axis. Suspension travel and steering yaw use it.
var Up = mgl64.Vec3{0, 1, 0}

type BodyKind int

const (
	// KindGroup is a transform-only node used to build the rig hierarchy.
	KindGroup BodyKind = iota
	// KindAnchor is a small box body used as a fixed joint reference.
	KindAnchor
)

func (k BodyKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindAnchor:
		return "anchor"
	}
	return "unknown"
}

type ConstraintKind int

const (
	// ConstraintSpring is a single-axis translational spring.
	ConstraintSpring ConstraintKind = iota
	// ConstraintHinge is a rotational joint with an optional motor.
	ConstraintHinge
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintSpring:
		return "spring"
	case ConstraintHinge:
		return "hinge"
	}
	return "unknown"
}

// Motion is the rigid-body state of a body as seen by the solver.
type Motion int

const (
	MotionNone Motion = iota
	MotionStatic
	MotionDynamic
)

func (m Motion) String() string {
	switch m {
	case MotionStatic:
		return "static"
	case MotionDynamic:
		return "dynamic"
	}
	return "none"
}

// Body is an opaque handle to an object owned by a store.
type Body interface {
	Name() string
	Position() mgl64.Vec3
}

// Constraint is an opaque handle to a joint owned by a store.
type Constraint interface {
	Name() string
}

type BodyParams struct {
	Name     string
	Parent   Body
	Position mgl64.Vec3
	Scale    mgl64.Vec3
}

// Spring holds the travel limits and response of a spring constraint.
// Travel is measured along Up relative to the rest position.
type Spring struct {
	Lower     float64
	Upper     float64
	Stiffness float64
	Damping   float64
}

type Motor struct {
	Enabled bool
	Speed   float64
	Torque  float64
}

type ConstraintParams struct {
	Name     string
	Parent   Body
	Position mgl64.Vec3
	// Axis is the spring travel axis or the hinge spin axis.
	Axis   mgl64.Vec3
	Spring Spring
	Motor  Motor
}
