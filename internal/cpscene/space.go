// Package cpscene runs a vehicle rig on the Chipmunk2D solver.
//
// The scene is simulated in side view: X is forward, Y is up and the
// lateral Z coordinate is carried through but not simulated. A spring
// constraint becomes a groove joint bounding travel along Y plus a
// damped spring; a hinge becomes a simple motor whose maximum force is
// the motor torque. Steering rotations are out of plane and only
// recorded.
//
// Bodies join the solver when they are first marked static or dynamic;
// joints join once both of their bodies have.
package cpscene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/san-kum/vehiclerig/internal/scene"
)

const (
	vehicleGroup = 1
	anchorMass   = 1.0
	defaultMass  = 1.0
)

type Options struct {
	Gravity    float64
	Iterations int
	// TorqueScale converts control torque units to solver force units.
	TorqueScale float64
}

func DefaultOptions() Options {
	return Options{Gravity: -981, Iterations: 20, TorqueScale: 1000}
}

type object struct {
	name  string
	kind  scene.BodyKind
	group bool

	pos      mgl64.Vec3
	rotation mgl64.Quat
	size     mgl64.Vec3
	radius   float64
	mass     float64
	solid    bool
	friction float64

	body   *cp.Body
	shapes []*cp.Shape
	motion scene.Motion
}

func (o *object) Name() string { return o.name }

func (o *object) Radius() float64 { return o.radius }

func (o *object) Position() mgl64.Vec3 {
	if o.body == nil {
		return o.pos
	}
	p := o.body.Position()
	return mgl64.Vec3{p.X, p.Y, o.pos.Z()}
}

type joint struct {
	name   string
	kind   scene.ConstraintKind
	a, b   *object
	spring scene.Spring
	motor  scene.Motor

	rest   float64
	parts  []*cp.Constraint
	damped *cp.DampedSpring
	simple *cp.Constraint
}

func (j *joint) Name() string { return j.name }

func (j *joint) built() bool { return len(j.parts) > 0 }

// Space is a scene.Store backed by a cp.Space.
type Space struct {
	space   *cp.Space
	opts    Options
	objects []*object
	joints  []*joint

	notifications int
}

func New(desc *scene.Description, opts Options) *Space {
	s := &Space{space: cp.NewSpace(), opts: opts}
	s.space.Iterations = uint(opts.Iterations)
	s.space.SetGravity(cp.Vector{X: 0, Y: opts.Gravity})

	if desc != nil {
		for _, spec := range desc.Bodies {
			s.objects = append(s.objects, &object{
				name:     spec.Name,
				pos:      spec.Vec(),
				rotation: mgl64.QuatIdent(),
				size:     mgl64.Vec3(spec.Size),
				radius:   spec.Radius,
				mass:     spec.Mass,
				solid:    true,
				friction: 1,
			})
		}
	}
	return s
}

func (s *Space) FindBody(name string) (scene.Body, bool) {
	for _, o := range s.objects {
		if o.name == name {
			return o, true
		}
	}
	return nil, false
}

func (s *Space) CreateBody(kind scene.BodyKind, p scene.BodyParams) (scene.Body, error) {
	o := &object{
		name:     p.Name,
		kind:     kind,
		pos:      p.Position,
		rotation: mgl64.QuatIdent(),
		friction: 1,
	}
	switch kind {
	case scene.KindGroup:
		o.group = true
	case scene.KindAnchor:
		o.mass = anchorMass
	default:
		return nil, fmt.Errorf("%w: body kind %d", scene.ErrUnsupportedKind, kind)
	}
	s.objects = append(s.objects, o)
	return o, nil
}

func (s *Space) CreateConstraint(kind scene.ConstraintKind, a, b scene.Body, p scene.ConstraintParams) (scene.Constraint, error) {
	if kind != scene.ConstraintSpring && kind != scene.ConstraintHinge {
		return nil, fmt.Errorf("%w: constraint kind %d", scene.ErrUnsupportedKind, kind)
	}
	oa, err := s.own(a)
	if err != nil {
		return nil, err
	}
	ob, err := s.own(b)
	if err != nil {
		return nil, err
	}
	if oa.group || ob.group {
		return nil, fmt.Errorf("%w: %s links a group", scene.ErrUnsupportedKind, p.Name)
	}
	j := &joint{name: p.Name, kind: kind, a: oa, b: ob, spring: p.Spring, motor: p.Motor}
	s.joints = append(s.joints, j)
	s.flush()
	return j, nil
}

func (s *Space) own(b scene.Body) (*object, error) {
	o, ok := b.(*object)
	if !ok || o == nil {
		return nil, fmt.Errorf("%w: %T", scene.ErrUnknownHandle, b)
	}
	return o, nil
}

func (s *Space) joint(c scene.Constraint) (*joint, error) {
	j, ok := c.(*joint)
	if !ok || j == nil {
		return nil, fmt.Errorf("%w: %T", scene.ErrUnknownHandle, c)
	}
	return j, nil
}

func (s *Space) SetStatic(b scene.Body, static bool) error {
	o, err := s.own(b)
	if err != nil {
		return err
	}
	if o.group {
		return nil
	}
	switch {
	case static:
		s.attach(o, scene.MotionStatic)
	case o.motion == scene.MotionStatic:
		s.detach(o)
	}
	return nil
}

func (s *Space) SetDynamic(b scene.Body, dynamic bool) error {
	o, err := s.own(b)
	if err != nil {
		return err
	}
	if o.group {
		return nil
	}
	if dynamic {
		s.attach(o, scene.MotionDynamic)
	} else {
		s.attach(o, scene.MotionStatic)
	}
	return nil
}

func (o *object) moment() float64 {
	m := o.mass
	if m <= 0 {
		m = defaultMass
	}
	if o.radius > 0 {
		return cp.MomentForCircle(m, 0, o.radius, cp.Vector{})
	}
	w, h := o.size.X(), o.size.Y()
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	return cp.MomentForBox(m, w, h)
}

func (s *Space) attach(o *object, motion scene.Motion) {
	if o.body != nil {
		if o.motion == motion {
			return
		}
		if motion == scene.MotionStatic {
			o.body.SetType(cp.BODY_STATIC)
		} else {
			o.body.SetType(cp.BODY_DYNAMIC)
			o.body.SetMass(math.Max(o.mass, defaultMass))
			o.body.SetMoment(o.moment())
		}
		o.motion = motion
		return
	}

	if motion == scene.MotionStatic {
		o.body = cp.NewStaticBody()
	} else {
		o.body = cp.NewBody(math.Max(o.mass, defaultMass), o.moment())
	}
	o.body.SetPosition(cp.Vector{X: o.pos.X(), Y: o.pos.Y()})
	s.space.AddBody(o.body)

	if o.solid {
		var shape *cp.Shape
		if o.radius > 0 {
			shape = cp.NewCircle(o.body, o.radius, cp.Vector{})
		} else {
			shape = cp.NewBox(o.body, o.size.X(), o.size.Y(), 0)
		}
		shape.SetFriction(o.friction)
		if o.mass > 0 {
			shape.SetFilter(cp.NewShapeFilter(vehicleGroup, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES))
		}
		s.space.AddShape(shape)
		o.shapes = append(o.shapes, shape)
	}

	o.motion = motion
	s.flush()
}

func (s *Space) detach(o *object) {
	if o.body == nil {
		return
	}
	for _, j := range s.joints {
		if j.built() && (j.a == o || j.b == o) {
			for _, c := range j.parts {
				s.space.RemoveConstraint(c)
			}
			j.parts, j.damped, j.simple = nil, nil, nil
		}
	}
	for _, sh := range o.shapes {
		s.space.RemoveShape(sh)
	}
	s.space.RemoveBody(o.body)
	o.pos = o.Position()
	o.body, o.shapes = nil, nil
	o.motion = scene.MotionNone
}

// flush adds every joint whose bodies are both in the solver.
func (s *Space) flush() {
	for _, j := range s.joints {
		if j.built() || j.a.body == nil || j.b.body == nil {
			continue
		}
		s.build(j)
	}
}

func (s *Space) build(j *joint) {
	a, b := j.a.body, j.b.body
	switch j.kind {
	case scene.ConstraintSpring:
		d := b.Position().Sub(a.Position())
		j.rest = d.Length()
		grooveA := d.Add(cp.Vector{Y: j.spring.Lower})
		grooveB := d.Add(cp.Vector{Y: j.spring.Upper})
		groove := s.space.AddConstraint(cp.NewGrooveJoint(a, b, grooveA, grooveB, cp.Vector{}))
		spring := s.space.AddConstraint(cp.NewDampedSpring(a, b, cp.Vector{}, cp.Vector{}, j.rest, j.spring.Stiffness, j.spring.Damping))
		j.damped = spring.Class.(*cp.DampedSpring)
		j.parts = []*cp.Constraint{groove, spring}
	case scene.ConstraintHinge:
		j.simple = s.space.AddConstraint(cp.NewSimpleMotor(a, b, 0))
		j.parts = []*cp.Constraint{j.simple}
		s.applyMotor(j)
	}
}

func (s *Space) applyMotor(j *joint) {
	if j.simple == nil {
		return
	}
	j.simple.Class.(*cp.SimpleMotor).Rate = j.motor.Speed
	if j.motor.Enabled {
		j.simple.SetMaxForce(j.motor.Torque * s.opts.TorqueScale)
	} else {
		j.simple.SetMaxForce(0)
	}
}

func (s *Space) SetMotor(c scene.Constraint, m scene.Motor) error {
	j, err := s.joint(c)
	if err != nil {
		return err
	}
	if j.kind != scene.ConstraintHinge {
		return fmt.Errorf("%w: %s is not a hinge", scene.ErrUnsupportedKind, j.name)
	}
	j.motor = m
	s.applyMotor(j)
	return nil
}

func (s *Space) SetSpring(c scene.Constraint, stiffness, damping float64) error {
	j, err := s.joint(c)
	if err != nil {
		return err
	}
	if j.kind != scene.ConstraintSpring {
		return fmt.Errorf("%w: %s is not a spring", scene.ErrUnsupportedKind, j.name)
	}
	j.spring.Stiffness = stiffness
	j.spring.Damping = damping
	if j.damped != nil {
		j.damped.Stiffness = stiffness
		j.damped.Damping = damping
	}
	return nil
}

func (s *Space) SetRotation(b scene.Body, q mgl64.Quat) error {
	o, err := s.own(b)
	if err != nil {
		return err
	}
	o.rotation = q
	return nil
}

func (s *Space) SetFriction(b scene.Body, friction float64) error {
	o, err := s.own(b)
	if err != nil {
		return err
	}
	o.friction = friction
	for _, sh := range o.shapes {
		sh.SetFriction(friction)
	}
	return nil
}

func (s *Space) NotifySceneChanged() {
	s.notifications++
	s.flush()
}

func (s *Space) Notifications() int { return s.notifications }

// Step advances the solver by dt seconds.
func (s *Space) Step(dt float64) {
	s.space.Step(dt)
}

// Rotation returns the last rotation set on the named body.
func (s *Space) Rotation(name string) (mgl64.Quat, bool) {
	b, ok := s.FindBody(name)
	if !ok {
		return mgl64.Quat{}, false
	}
	return b.(*object).rotation, true
}

// Motion reports whether the named body is simulated and how.
func (s *Space) Motion(name string) scene.Motion {
	b, ok := s.FindBody(name)
	if !ok {
		return scene.MotionNone
	}
	return b.(*object).motion
}

// Channels names the values returned by Sample: suspension travel and
// wheel spin for every joint, in creation order.
func (s *Space) Channels() []string {
	out := make([]string, 0, len(s.joints))
	for _, j := range s.joints {
		switch j.kind {
		case scene.ConstraintSpring:
			out = append(out, j.name+".travel")
		case scene.ConstraintHinge:
			out = append(out, j.name+".spin")
		}
	}
	return out
}

func (s *Space) Sample() []float64 {
	out := make([]float64, 0, len(s.joints))
	for _, j := range s.joints {
		if !j.built() {
			out = append(out, 0)
			continue
		}
		switch j.kind {
		case scene.ConstraintSpring:
			d := j.b.body.Position().Sub(j.a.body.Position())
			out = append(out, d.Y+j.rest)
		case scene.ConstraintHinge:
			out = append(out, j.b.body.AngularVelocity()-j.a.body.AngularVelocity())
		}
	}
	return out
}
