package scene

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Object is a node of the in-memory scene. It is both a Body and a
// Constraint handle; constraint fields are zero for bodies.
type Object struct {
	name     string
	parent   *Object
	children []*Object

	constraint bool
	bodyKind   BodyKind
	consKind   ConstraintKind

	position mgl64.Vec3
	rotation mgl64.Quat
	scale    mgl64.Vec3
	radius   float64
	motion   Motion
	friction float64

	a, b   *Object
	axis   mgl64.Vec3
	spring Spring
	motor  Motor
}

func (o *Object) Name() string         { return o.name }
func (o *Object) Position() mgl64.Vec3 { return o.position }
func (o *Object) Rotation() mgl64.Quat { return o.rotation }
func (o *Object) Scale() mgl64.Vec3    { return o.scale }
func (o *Object) Radius() float64      { return o.radius }
func (o *Object) Motion() Motion       { return o.motion }
func (o *Object) Friction() float64    { return o.friction }
func (o *Object) IsConstraint() bool   { return o.constraint }
func (o *Object) Axis() mgl64.Vec3     { return o.axis }
func (o *Object) Spring() Spring       { return o.spring }
func (o *Object) Motor() Motor         { return o.motor }

func (o *Object) Kind() string {
	if o.constraint {
		return o.consKind.String()
	}
	return o.bodyKind.String()
}

// Bodies returns the two bodies a constraint links.
func (o *Object) Bodies() (a, b *Object) { return o.a, o.b }

func (o *Object) Parent() *Object { return o.parent }

func (o *Object) Children() []*Object {
	out := make([]*Object, len(o.children))
	copy(out, o.children)
	return out
}

// Memory is a name-indexed hierarchical scene. Names are not unique:
// lookups return the first match in insertion order.
type Memory struct {
	roots         []*Object
	notifications int
}

func NewMemory(desc *Description) *Memory {
	m := &Memory{}
	if desc == nil {
		return m
	}
	for _, spec := range desc.Bodies {
		m.roots = append(m.roots, &Object{
			name:     spec.Name,
			bodyKind: KindGroup,
			position: spec.Vec(),
			rotation: mgl64.QuatIdent(),
			scale:    mgl64.Vec3{1, 1, 1},
			radius:   spec.Radius,
			friction: 1,
		})
	}
	return m
}

func (m *Memory) FindBody(name string) (Body, bool) {
	if o := m.Lookup(name); o != nil && !o.constraint {
		return o, true
	}
	return nil, false
}

// Lookup returns the first object with the given name, or nil.
func (m *Memory) Lookup(name string) *Object {
	var found *Object
	m.Walk(func(o *Object, _ int) bool {
		if o.name == name {
			found = o
			return false
		}
		return true
	})
	return found
}

// Count returns how many objects carry the given name.
func (m *Memory) Count(name string) int {
	n := 0
	m.Walk(func(o *Object, _ int) bool {
		if o.name == name {
			n++
		}
		return true
	})
	return n
}

// Walk visits objects depth first in insertion order until fn returns false.
func (m *Memory) Walk(fn func(o *Object, depth int) bool) {
	var visit func(o *Object, depth int) bool
	visit = func(o *Object, depth int) bool {
		if !fn(o, depth) {
			return false
		}
		for _, c := range o.children {
			if !visit(c, depth+1) {
				return false
			}
		}
		return true
	}
	for _, r := range m.roots {
		if !visit(r, 0) {
			return
		}
	}
}

// Remove detaches the first object with the given name and its subtree.
func (m *Memory) Remove(name string) bool {
	o := m.Lookup(name)
	if o == nil {
		return false
	}
	if o.parent == nil {
		m.roots = removeObject(m.roots, o)
	} else {
		o.parent.children = removeObject(o.parent.children, o)
		o.parent = nil
	}
	return true
}

func removeObject(list []*Object, o *Object) []*Object {
	for i, x := range list {
		if x == o {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Tree renders the hierarchy as indented "name [kind]" lines for
// structural comparison.
func (m *Memory) Tree() string {
	var sb strings.Builder
	m.Walk(func(o *Object, depth int) bool {
		fmt.Fprintf(&sb, "%s%s [%s]\n", strings.Repeat("  ", depth), o.name, o.Kind())
		return true
	})
	return sb.String()
}

// Notifications reports how many times NotifySceneChanged was called.
func (m *Memory) Notifications() int { return m.notifications }

func (m *Memory) CreateBody(kind BodyKind, p BodyParams) (Body, error) {
	if kind != KindGroup && kind != KindAnchor {
		return nil, fmt.Errorf("%w: body kind %d", ErrUnsupportedKind, kind)
	}
	scale := p.Scale
	if scale == (mgl64.Vec3{}) {
		scale = mgl64.Vec3{1, 1, 1}
	}
	o := &Object{
		name:     p.Name,
		bodyKind: kind,
		position: p.Position,
		rotation: mgl64.QuatIdent(),
		scale:    scale,
		friction: 1,
	}
	if err := m.insert(o, p.Parent); err != nil {
		return nil, err
	}
	return o, nil
}

func (m *Memory) CreateConstraint(kind ConstraintKind, a, b Body, p ConstraintParams) (Constraint, error) {
	if kind != ConstraintSpring && kind != ConstraintHinge {
		return nil, fmt.Errorf("%w: constraint kind %d", ErrUnsupportedKind, kind)
	}
	oa, err := m.own(a)
	if err != nil {
		return nil, err
	}
	ob, err := m.own(b)
	if err != nil {
		return nil, err
	}
	o := &Object{
		name:       p.Name,
		constraint: true,
		consKind:   kind,
		position:   p.Position,
		rotation:   mgl64.QuatIdent(),
		scale:      mgl64.Vec3{1, 1, 1},
		a:          oa,
		b:          ob,
		axis:       p.Axis,
	}
	switch kind {
	case ConstraintSpring:
		o.spring = p.Spring
	case ConstraintHinge:
		o.motor = p.Motor
	}
	if err := m.insert(o, p.Parent); err != nil {
		return nil, err
	}
	return o, nil
}

func (m *Memory) insert(o *Object, parent Body) error {
	if parent == nil {
		m.roots = append(m.roots, o)
		return nil
	}
	po, err := m.own(parent)
	if err != nil {
		return err
	}
	o.parent = po
	po.children = append(po.children, o)
	return nil
}

func (m *Memory) own(h any) (*Object, error) {
	o, ok := h.(*Object)
	if !ok || o == nil {
		return nil, fmt.Errorf("%w: %T", ErrUnknownHandle, h)
	}
	return o, nil
}

func (m *Memory) SetStatic(b Body, static bool) error {
	o, err := m.own(b)
	if err != nil {
		return err
	}
	switch {
	case static:
		o.motion = MotionStatic
	case o.motion == MotionStatic:
		o.motion = MotionNone
	}
	return nil
}

func (m *Memory) SetDynamic(b Body, dynamic bool) error {
	o, err := m.own(b)
	if err != nil {
		return err
	}
	if dynamic {
		o.motion = MotionDynamic
	} else {
		o.motion = MotionStatic
	}
	return nil
}

func (m *Memory) SetMotor(c Constraint, motor Motor) error {
	o, err := m.own(c)
	if err != nil {
		return err
	}
	if !o.constraint || o.consKind != ConstraintHinge {
		return fmt.Errorf("%w: %s is not a hinge", ErrUnsupportedKind, o.name)
	}
	o.motor = motor
	return nil
}

func (m *Memory) SetSpring(c Constraint, stiffness, damping float64) error {
	o, err := m.own(c)
	if err != nil {
		return err
	}
	if !o.constraint || o.consKind != ConstraintSpring {
		return fmt.Errorf("%w: %s is not a spring", ErrUnsupportedKind, o.name)
	}
	o.spring.Stiffness = stiffness
	o.spring.Damping = damping
	return nil
}

func (m *Memory) SetRotation(b Body, q mgl64.Quat) error {
	o, err := m.own(b)
	if err != nil {
		return err
	}
	o.rotation = q
	return nil
}

func (m *Memory) SetFriction(b Body, friction float64) error {
	o, err := m.own(b)
	if err != nil {
		return err
	}
	o.friction = friction
	return nil
}

func (m *Memory) NotifySceneChanged() { m.notifications++ }
