package cpscene

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/vehiclerig/internal/control"
	"github.com/san-kum/vehiclerig/internal/rig"
	"github.com/san-kum/vehiclerig/internal/scene"
)

func buildRig(t *testing.T, desc *scene.Description) (*Space, *rig.Rig) {
	t.Helper()
	s := New(desc, DefaultOptions())
	r, err := rig.Build(s)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	return s, r
}

func run(t *testing.T, s *Space, r *rig.Rig, steps int) {
	t.Helper()
	for i := 0; i < steps; i++ {
		if err := r.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		s.Step(1.0 / 60.0)
	}
}

func TestAssembleOnSolver(t *testing.T) {
	s, r := buildRig(t, scene.SixWheeler())

	if len(r.WheelRigs()) != 6 {
		t.Fatalf("expected 6 wheel rigs, got %d", len(r.WheelRigs()))
	}
	if s.Notifications() != 1 {
		t.Errorf("expected one notification, got %d", s.Notifications())
	}
	if s.Motion("Ground") != scene.MotionStatic {
		t.Errorf("ground should be static, got %v", s.Motion("Ground"))
	}
	if s.Motion("Body") != scene.MotionNone {
		t.Errorf("chassis should not be simulated, got %v", s.Motion("Body"))
	}
	for _, wr := range r.WheelRigs() {
		if s.Motion(wr.Wheel.Name()) != scene.MotionDynamic {
			t.Errorf("%s should be dynamic", wr.Wheel.Name())
		}
		j := wr.Suspension.Constraint.(*joint)
		if !j.built() || len(j.parts) != 2 {
			t.Errorf("%s not in solver", j.name)
		}
	}

	channels := s.Channels()
	if len(channels) != 12 {
		t.Fatalf("expected 12 channels, got %d", len(channels))
	}
	if channels[0] != "connectSusp-FL.travel" || channels[1] != "connectHinge-FL.spin" {
		t.Errorf("unexpected channel order %v", channels[:2])
	}
}

func TestAnchorsStayPut(t *testing.T) {
	s, r := buildRig(t, scene.SixWheeler())
	r.Controls.Set(control.MotorSpeed, 10)

	before := make(map[string]mgl64.Vec3)
	for _, wr := range r.WheelRigs() {
		before[wr.Anchor.Name] = wr.Anchor.Body.Position()
	}

	run(t, s, r, 120)

	for _, wr := range r.WheelRigs() {
		if got := wr.Anchor.Body.Position(); got != before[wr.Anchor.Name] {
			t.Errorf("%s moved from %v to %v", wr.Anchor.Name, before[wr.Anchor.Name], got)
		}
	}
	for i, v := range s.Sample() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("channel %s diverged", s.Channels()[i])
		}
	}
}

func TestMotorSpinsFreeWheels(t *testing.T) {
	s, r := buildRig(t, scene.SixWheeler().Without("Ground"))
	r.Controls.Set(control.MotorSpeed, 10)

	run(t, s, r, 180)

	channels := s.Channels()
	sample := s.Sample()
	for i, name := range channels {
		switch {
		case strings.HasSuffix(name, ".spin"):
			if math.Abs(math.Abs(sample[i])-10) > 0.5 {
				t.Errorf("%s = %.3f, want magnitude 10", name, sample[i])
			}
		case strings.HasSuffix(name, ".travel"):
			if sample[i] < -100.5 || sample[i] > 0 {
				t.Errorf("%s = %.3f, want within [-100, 0]", name, sample[i])
			}
		}
	}
}

func TestMotorDisabled(t *testing.T) {
	s, r := buildRig(t, scene.SixWheeler().Without("Ground"))
	wr := r.WheelRigs()[0]

	if err := s.SetMotor(wr.Hinge.Constraint, scene.Motor{Enabled: false, Speed: 10, Torque: 50}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 60; i++ {
		s.Step(1.0 / 60.0)
	}
	for i, name := range s.Channels() {
		if name == wr.Hinge.Name+".spin" && math.Abs(s.Sample()[i]) > 1e-6 {
			t.Errorf("disabled motor should not spin wheel, got %.4f", s.Sample()[i])
		}
	}
}

func TestSteeringIsRecorded(t *testing.T) {
	s, r := buildRig(t, scene.SixWheeler())
	r.Controls.Set(control.SteerAngle, -20)
	if err := r.Tick(); err != nil {
		t.Fatal(err)
	}

	want := mgl64.QuatRotate(mgl64.DegToRad(-20), scene.Up)
	q, ok := s.Rotation("Wheel_FR")
	if !ok || !q.ApproxEqual(want) {
		t.Errorf("expected steer rotation %v, got %v", want, q)
	}
	q, _ = s.Rotation("Wheel_RR")
	if q != mgl64.QuatIdent() {
		t.Errorf("rear wheel should not steer, got %v", q)
	}
}

func TestLiveSpring(t *testing.T) {
	s, r := buildRig(t, scene.SixWheeler())
	wr := r.WheelRigs()[0]
	if err := s.SetSpring(wr.Suspension.Constraint, 8, 3); err != nil {
		t.Fatal(err)
	}
	j := wr.Suspension.Constraint.(*joint)
	if j.damped.Stiffness != 8 || j.damped.Damping != 3 {
		t.Errorf("spring not updated: %+v", j.damped)
	}
	if err := s.SetSpring(wr.Hinge.Constraint, 1, 1); err == nil {
		t.Error("expected error setting spring on hinge")
	}
}

func TestMissingChassis(t *testing.T) {
	s := New(scene.SixWheeler().Without("Body"), DefaultOptions())
	if _, err := rig.Build(s); err == nil {
		t.Fatal("expected missing dependency")
	}
	if len(s.Channels()) != 0 {
		t.Errorf("no joints expected, got %v", s.Channels())
	}
	if _, ok := s.FindBody(rig.RootName); ok {
		t.Error("rig root should not exist")
	}
}
