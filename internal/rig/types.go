package rig

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/vehiclerig/internal/control"
	"github.com/san-kum/vehiclerig/internal/scene"
)

// AxleRole identifies an axle. The front role also receives steering.
type AxleRole string

const (
	Front AxleRole = "Front"
	Mid   AxleRole = "Mid"
	Rear  AxleRole = "Rear"
)

// Role is the part a node plays in the rig graph.
type Role int

const (
	RoleRoot Role = iota
	RoleControls
	RoleAxle
	RoleAnchor
	RoleSuspension
	RoleHinge
)

func (r Role) String() string {
	switch r {
	case RoleRoot:
		return "root"
	case RoleControls:
		return "controls"
	case RoleAxle:
		return "axle"
	case RoleAnchor:
		return "anchor"
	case RoleSuspension:
		return "suspension"
	case RoleHinge:
		return "hinge"
	}
	return "unknown"
}

// Behavior runs once per simulation step.
type Behavior interface {
	Name() string
	Tick() error
}

// Node is one element of the rig hierarchy. Exactly one of the payload
// fields is set, matching Role; root, controls and axle nodes carry only
// their scene group.
type Node struct {
	Name     string
	Role     Role
	Parent   *Node
	Children []*Node

	Group      scene.Body
	Anchor     *AnchorBody
	Suspension *SuspensionJoint
	Hinge      *HingeJoint

	Behaviors []Behavior
}

func (n *Node) add(child *Node) *Node {
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

// Find returns the first node named name in depth-first order.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(x *Node, _ int) bool {
		if x.Name == name {
			found = x
			return false
		}
		return true
	})
	return found
}

// Walk visits n and its descendants depth first until fn returns false.
func (n *Node) Walk(fn func(x *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(x *Node, depth int) bool, depth int) bool {
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.Children {
		if !c.walk(fn, depth+1) {
			return false
		}
	}
	return true
}

// CountRole counts descendants of n (inclusive) with the given role.
func (n *Node) CountRole(role Role) int {
	count := 0
	n.Walk(func(x *Node, _ int) bool {
		if x.Role == role {
			count++
		}
		return true
	})
	return count
}

// AnchorBody is the static upper attachment of a wheel's suspension.
type AnchorBody struct {
	Name     string
	Body     scene.Body
	Position mgl64.Vec3
}

type SuspensionJoint struct {
	Name       string
	Constraint scene.Constraint
	Lower      float64
	Upper      float64
	Stiffness  float64
	Damping    float64
}

type HingeJoint struct {
	Name       string
	Constraint scene.Constraint
	Motor      scene.Motor
}

// WheelRig is the anchor/suspension/hinge triple of one wheel. Both
// joints link Anchor.Body (A) and Wheel (B).
type WheelRig struct {
	Key        string
	Axle       AxleRole
	Wheel      scene.Body
	Anchor     *AnchorBody
	Suspension *SuspensionJoint
	Hinge      *HingeJoint
}

// WheelSlot binds a wheel key to an optional wheel body. Slots without
// a body have a nil Rig.
type WheelSlot struct {
	Key      string
	Axle     AxleRole
	Wheel    scene.Body
	Position mgl64.Vec3
	Rig      *WheelRig
}

func (s *WheelSlot) Present() bool { return s.Wheel != nil }

type Axle struct {
	Role  AxleRole
	Node  *Node
	Slots []*WheelSlot
}

// Rigs returns the wheel rigs of present slots in key order.
func (a *Axle) Rigs() []*WheelRig {
	out := make([]*WheelRig, 0, len(a.Slots))
	for _, s := range a.Slots {
		if s.Rig != nil {
			out = append(out, s.Rig)
		}
	}
	return out
}

type Rig struct {
	Root         *Node
	ControlsNode *Node
	Controls     *control.Block
	Axles        []*Axle
	Chassis      scene.Body
	Ground       scene.Body
	Binder       *Binder
}

// Axle returns the axle with the given role, or nil.
func (r *Rig) Axle(role AxleRole) *Axle {
	for _, a := range r.Axles {
		if a.Role == role {
			return a
		}
	}
	return nil
}

// WheelRigs returns every wheel rig in axle then key order.
func (r *Rig) WheelRigs() []*WheelRig {
	var out []*WheelRig
	for _, a := range r.Axles {
		out = append(out, a.Rigs()...)
	}
	return out
}

// Tick runs every behavior attached to the controls node.
func (r *Rig) Tick() error {
	for _, b := range r.ControlsNode.Behaviors {
		if err := b.Tick(); err != nil {
			return err
		}
	}
	return nil
}
