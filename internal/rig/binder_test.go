package rig_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vehiclerig/internal/config"
	"github.com/san-kum/vehiclerig/internal/control"
	"github.com/san-kum/vehiclerig/internal/rig"
	"github.com/san-kum/vehiclerig/internal/scene"
)

type motorSnapshot map[string]scene.Motor

func snapshotMotors(store *scene.Memory, r *rig.Rig) motorSnapshot {
	out := motorSnapshot{}
	for _, wr := range r.WheelRigs() {
		out[wr.Hinge.Name] = store.Lookup(wr.Hinge.Name).Motor()
	}
	return out
}

var _ = Describe("Binder", func() {
	var (
		store *scene.Memory
		r     *rig.Rig
	)

	build := func(cfg *config.RigConfig) {
		store = scene.NewMemory(scene.SixWheeler())
		var err error
		r, err = rig.NewAssembler(store, cfg).Assemble()
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		build(nil)
	})

	It("drives every hinge from the control block", func() {
		r.Controls.Set(control.MotorSpeed, 20)
		r.Controls.Set(control.MotorTorque, 120)
		Expect(r.Tick()).To(Succeed())

		for name, m := range snapshotMotors(store, r) {
			Expect(m).To(Equal(scene.Motor{Enabled: true, Speed: 20, Torque: 120}), name)
		}
		for _, wr := range r.WheelRigs() {
			Expect(wr.Hinge.Motor.Speed).To(Equal(20.0))
		}
	})

	It("is idempotent with unchanged controls", func() {
		r.Controls.Set(control.MotorSpeed, -7)
		r.Controls.Set(control.SteerAngle, 15)

		Expect(r.Tick()).To(Succeed())
		first := snapshotMotors(store, r)
		rot := store.Lookup("Wheel_FL").Rotation()

		Expect(r.Tick()).To(Succeed())
		Expect(snapshotMotors(store, r)).To(Equal(first))
		Expect(store.Lookup("Wheel_FL").Rotation()).To(Equal(rot))
	})

	It("applies a speed change on the next tick only", func() {
		Expect(r.Tick()).To(Succeed())
		r.Controls.Set(control.MotorSpeed, 33)

		for _, m := range snapshotMotors(store, r) {
			Expect(m.Speed).To(Equal(0.0))
		}

		Expect(r.Tick()).To(Succeed())
		for _, m := range snapshotMotors(store, r) {
			Expect(m.Speed).To(Equal(33.0))
		}
	})

	It("steers only the front wheels, in radians about up", func() {
		r.Controls.Set(control.SteerAngle, 30)
		Expect(r.Tick()).To(Succeed())

		want := mgl64.QuatRotate(mgl64.DegToRad(30), mgl64.Vec3{0, 1, 0})
		for _, name := range []string{"Wheel_FL", "Wheel_FR"} {
			Expect(store.Lookup(name).Rotation().ApproxEqual(want)).To(BeTrue(), name)
		}
		for _, name := range []string{"Wheel_ML", "Wheel_MR", "Wheel_RL", "Wheel_RR"} {
			Expect(store.Lookup(name).Rotation()).To(Equal(mgl64.QuatIdent()), name)
		}
	})

	It("never moves the anchors", func() {
		before := map[string]mgl64.Vec3{}
		for _, wr := range r.WheelRigs() {
			before[wr.Anchor.Name] = store.Lookup(wr.Anchor.Name).Position()
		}
		for i := 0; i < 5; i++ {
			r.Controls.Set(control.SteerAngle, float64(i*5))
			Expect(r.Tick()).To(Succeed())
		}
		for name, pos := range before {
			Expect(store.Lookup(name).Position()).To(Equal(pos))
			Expect(store.Lookup(name).Motion()).To(Equal(scene.MotionStatic))
		}
	})

	It("leaves suspension alone by default", func() {
		r.Controls.Set(control.SuspensionStiffness, 9)
		r.Controls.Set(control.Friction, 3)
		Expect(r.Tick()).To(Succeed())

		for _, wr := range r.WheelRigs() {
			Expect(store.Lookup(wr.Suspension.Name).Spring().Stiffness).To(Equal(config.DefaultSuspStiff))
			Expect(wr.Wheel.(*scene.Object).Friction()).To(Equal(1.0))
		}
	})

	It("rebinds suspension and friction when enabled", func() {
		build(config.GetPreset("live_suspension"))
		r.Controls.Set(control.SuspensionStiffness, 9)
		r.Controls.Set(control.SuspensionDamping, 35)
		r.Controls.Set(control.Friction, 3)
		Expect(r.Tick()).To(Succeed())

		for _, wr := range r.WheelRigs() {
			s := store.Lookup(wr.Suspension.Name).Spring()
			Expect(s.Stiffness).To(Equal(9.0))
			Expect(s.Damping).To(Equal(35.0))
			Expect(s.Lower).To(Equal(-100.0))
			Expect(wr.Suspension.Stiffness).To(Equal(9.0))
			Expect(wr.Wheel.(*scene.Object).Friction()).To(Equal(3.0))
		}
	})

	It("skips absent wheels", func() {
		store = scene.NewMemory(scene.FourWheeler())
		var err error
		r, err = rig.NewAssembler(store, nil).Assemble()
		Expect(err).NotTo(HaveOccurred())

		r.Controls.Set(control.MotorSpeed, 4)
		Expect(r.Tick()).To(Succeed())
		Expect(snapshotMotors(store, r)).To(HaveLen(4))
	})
})
