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

func assemble(store *scene.Memory, cfg *config.RigConfig) (*rig.Rig, error) {
	return rig.NewAssembler(store, cfg).Assemble()
}

func object(store *scene.Memory, name string) *scene.Object {
	o := store.Lookup(name)
	ExpectWithOffset(1, o).NotTo(BeNil(), "object %s", name)
	return o
}

var _ = Describe("Assembler", func() {
	var store *scene.Memory

	Context("with chassis, ground and all six wheels", func() {
		var r *rig.Rig

		BeforeEach(func() {
			store = scene.NewMemory(scene.SixWheeler())
			var err error
			r, err = assemble(store, nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("builds three axles with six joint triples", func() {
			Expect(r.Axles).To(HaveLen(3))
			Expect(r.Root.CountRole(rig.RoleAxle)).To(Equal(3))
			Expect(r.Root.CountRole(rig.RoleAnchor)).To(Equal(6))
			Expect(r.Root.CountRole(rig.RoleSuspension)).To(Equal(6))
			Expect(r.Root.CountRole(rig.RoleHinge)).To(Equal(6))
			Expect(r.WheelRigs()).To(HaveLen(6))
		})

		It("exposes the control block at its defaults", func() {
			Expect(r.Controls.Values()).To(Equal(map[string]float64{
				control.MotorSpeed:          0,
				control.SteerAngle:          0,
				control.MotorTorque:         50,
				control.Friction:            1,
				control.SuspensionStiffness: 4,
				control.SuspensionDamping:   20,
			}))
		})

		It("follows the naming contract in the scene", func() {
			Expect(store.Tree()).To(ContainSubstring(
				"Vehicle_Rig [group]\n" +
					"  Controls [group]\n" +
					"  Axle_Front [group]\n" +
					"    top-FL [anchor]\n" +
					"    connectSusp-FL [spring]\n" +
					"    connectHinge-FL [hinge]\n" +
					"    top-FR [anchor]\n" +
					"    connectSusp-FR [spring]\n" +
					"    connectHinge-FR [hinge]\n" +
					"  Axle_Mid [group]\n"))
		})

		It("parents every part of a wheel under its axle", func() {
			for _, a := range r.Axles {
				for _, wr := range a.Rigs() {
					for _, name := range []string{rig.AnchorName(wr.Key), rig.SuspensionName(wr.Key), rig.HingeName(wr.Key)} {
						Expect(object(store, name).Parent().Name()).To(Equal(rig.AxleNodeName(a.Role)))
						Expect(store.Count(name)).To(Equal(1))
						Expect(r.Root.Find(name).Parent).To(BeIdenticalTo(a.Node))
					}
				}
			}
		})

		It("places each anchor a fixed offset above its wheel", func() {
			for _, wr := range r.WheelRigs() {
				want := wr.Wheel.Position().Add(mgl64.Vec3{0, config.DefaultAnchorY, 0})
				Expect(wr.Anchor.Position).To(Equal(want))
				Expect(object(store, wr.Anchor.Name).Position()).To(Equal(want))
			}
		})

		It("links both joints to the same anchor and wheel", func() {
			for _, wr := range r.WheelRigs() {
				for _, name := range []string{wr.Suspension.Name, wr.Hinge.Name} {
					a, b := object(store, name).Bodies()
					Expect(a).To(BeIdenticalTo(wr.Anchor.Body))
					Expect(b).To(BeIdenticalTo(wr.Wheel))
				}
			}
		})

		It("sets the suspension travel bounds and spring", func() {
			for _, wr := range r.WheelRigs() {
				s := object(store, wr.Suspension.Name).Spring()
				Expect(s.Lower).To(Equal(-100.0))
				Expect(s.Upper).To(Equal(100.0))
				Expect(s.Lower).To(BeNumerically("<", s.Upper))
				Expect(s.Stiffness).To(Equal(config.DefaultSuspStiff))
				Expect(s.Damping).To(Equal(config.DefaultSuspDamp))
				Expect(object(store, wr.Suspension.Name).Axis()).To(Equal(scene.Up))
			}
		})

		It("enables the hinge motors with default speed and torque", func() {
			for _, wr := range r.WheelRigs() {
				Expect(object(store, wr.Hinge.Name).Motor()).To(Equal(scene.Motor{
					Enabled: true,
					Speed:   config.DefaultMotorSpeed,
					Torque:  config.DefaultMotorTorque,
				}))
				Expect(object(store, wr.Hinge.Name).Axis()).To(Equal(rig.SpinAxis))
			}
		})

		It("marks anchors and ground static and wheels dynamic", func() {
			for _, wr := range r.WheelRigs() {
				Expect(object(store, wr.Anchor.Name).Motion()).To(Equal(scene.MotionStatic))
				Expect(wr.Wheel.(*scene.Object).Motion()).To(Equal(scene.MotionDynamic))
			}
			Expect(object(store, "Ground").Motion()).To(Equal(scene.MotionStatic))
			Expect(object(store, "Body").Motion()).To(Equal(scene.MotionNone))
		})

		It("notifies the scene exactly once", func() {
			Expect(store.Notifications()).To(Equal(1))
		})

		It("attaches the binder to the controls node", func() {
			Expect(r.ControlsNode.Behaviors).To(HaveLen(1))
			Expect(r.ControlsNode.Behaviors[0].Name()).To(Equal(rig.BinderName))
			Expect(r.Binder).NotTo(BeNil())
		})
	})

	Context("with the middle wheels absent", func() {
		It("keeps Axle_Mid empty and the other axles intact", func() {
			store = scene.NewMemory(scene.FourWheeler())
			r, err := assemble(store, nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(r.Axles).To(HaveLen(3))
			mid := r.Axle(rig.Mid)
			Expect(mid).NotTo(BeNil())
			Expect(mid.Node.Children).To(BeEmpty())
			Expect(mid.Rigs()).To(BeEmpty())
			Expect(mid.Slots).To(HaveLen(2))
			for _, s := range mid.Slots {
				Expect(s.Present()).To(BeFalse())
			}

			Expect(r.Axle(rig.Front).Node.Children).To(HaveLen(6))
			Expect(r.Axle(rig.Rear).Node.Children).To(HaveLen(6))
			for _, key := range []string{"ML", "MR"} {
				Expect(store.Lookup(rig.AnchorName(key))).To(BeNil())
				Expect(store.Lookup(rig.SuspensionName(key))).To(BeNil())
				Expect(store.Lookup(rig.HingeName(key))).To(BeNil())
			}
		})
	})

	Context("with a single wheel absent", func() {
		It("leaves its sibling on the same axle unaffected", func() {
			store = scene.NewMemory(scene.SixWheeler().Without("Wheel_FR"))
			r, err := assemble(store, nil)
			Expect(err).NotTo(HaveOccurred())

			front := r.Axle(rig.Front)
			Expect(front.Rigs()).To(HaveLen(1))
			Expect(front.Rigs()[0].Key).To(Equal("FL"))
			Expect(r.WheelRigs()).To(HaveLen(5))
		})
	})

	Context("without ground", func() {
		It("assembles without error", func() {
			store = scene.NewMemory(scene.SixWheeler().Without("Ground"))
			r, err := assemble(store, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Ground).To(BeNil())
			Expect(r.WheelRigs()).To(HaveLen(6))
		})
	})

	Context("without chassis", func() {
		It("aborts before creating any rig node", func() {
			store = scene.NewMemory(scene.SixWheeler().Without("Body"))
			r, err := assemble(store, nil)

			Expect(r).To(BeNil())
			Expect(err).To(MatchError(rig.ErrMissingDependency))
			Expect(err.Error()).To(ContainSubstring("Body"))
			var missing *rig.MissingDependencyError
			Expect(err).To(BeAssignableToTypeOf(missing))

			Expect(store.Lookup(rig.RootName)).To(BeNil())
			Expect(store.Notifications()).To(BeZero())
			Expect(object(store, "Wheel_FL").Motion()).To(Equal(scene.MotionNone))
		})
	})

	Context("with an invalid configuration", func() {
		It("reports a configuration error and creates nothing", func() {
			store = scene.NewMemory(scene.SixWheeler())
			cfg := config.DefaultConfig()
			cfg.Suspension.Lower = cfg.Suspension.Upper

			_, err := assemble(store, cfg)
			Expect(err).To(MatchError(config.ErrConfiguration))
			Expect(store.Lookup(rig.RootName)).To(BeNil())
		})
	})

	Context("with overrides", func() {
		It("uses the configured bounds, motor and anchor offset", func() {
			store = scene.NewMemory(scene.SixWheeler())
			cfg := config.GetPreset("stiff")
			cfg.Motor.Speed = 9
			cfg.Anchor.OffsetY = 80

			r, err := assemble(store, cfg)
			Expect(err).NotTo(HaveOccurred())
			wr := r.WheelRigs()[0]
			Expect(wr.Suspension.Lower).To(Equal(-40.0))
			Expect(wr.Suspension.Upper).To(Equal(40.0))
			Expect(wr.Hinge.Motor.Speed).To(Equal(9.0))
			Expect(wr.Anchor.Position.Y() - wr.Wheel.Position().Y()).To(Equal(80.0))
		})

		It("builds only the configured axles", func() {
			store = scene.NewMemory(scene.SixWheeler())
			r, err := assemble(store, config.GetPreset("four_wheel"))
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Axles).To(HaveLen(2))
			Expect(r.Axle(rig.Mid)).To(BeNil())
			Expect(store.Lookup("connectHinge-ML")).To(BeNil())
		})
	})

	Describe("determinism", func() {
		It("produces the same structure on fresh scenes", func() {
			a := scene.NewMemory(scene.SixWheeler())
			b := scene.NewMemory(scene.SixWheeler())
			_, errA := assemble(a, nil)
			_, errB := assemble(b, nil)
			Expect(errA).NotTo(HaveOccurred())
			Expect(errB).NotTo(HaveOccurred())
			Expect(a.Tree()).To(Equal(b.Tree()))
		})

		It("duplicates the rig when run twice without cleanup", func() {
			store = scene.NewMemory(scene.SixWheeler())
			_, err := assemble(store, nil)
			Expect(err).NotTo(HaveOccurred())
			_, err = assemble(store, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Count(rig.RootName)).To(Equal(2))

			Expect(store.Remove(rig.RootName)).To(BeTrue())
			Expect(store.Count(rig.RootName)).To(Equal(1))
		})
	})

	It("builds with defaults through Build", func() {
		store = scene.NewMemory(scene.SixWheeler())
		r, err := rig.Build(store)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Root.Name).To(Equal(rig.RootName))
	})
})

var _ = Describe("Resolver", func() {
	var (
		store    *scene.Memory
		resolver *rig.Resolver
	)

	BeforeEach(func() {
		store = scene.NewMemory(scene.FourWheeler())
		resolver = rig.NewResolver(store, config.DefaultChassis, config.DefaultGround, config.DefaultWheelPrefix)
	})

	It("resolves names with no absence policy", func() {
		b, ok := resolver.Resolve("Wheel_FL")
		Expect(ok).To(BeTrue())
		Expect(b.Name()).To(Equal("Wheel_FL"))

		_, ok = resolver.Resolve("Wheel_ML")
		Expect(ok).To(BeFalse())
		Expect(store.Notifications()).To(BeZero())
	})

	It("requires the chassis", func() {
		b, err := resolver.Chassis()
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Name()).To(Equal("Body"))

		missing := rig.NewResolver(store, "Hull", config.DefaultGround, config.DefaultWheelPrefix)
		_, err = missing.Chassis()
		Expect(err).To(MatchError(rig.ErrMissingDependency))
	})

	It("marks the ground static", func() {
		_, err := resolver.Ground()
		Expect(err).NotTo(HaveOccurred())
		Expect(object(store, "Ground").Motion()).To(Equal(scene.MotionStatic))
	})

	It("treats a missing wheel as optional", func() {
		_, err := resolver.Wheel("ML")
		Expect(err).To(MatchError(rig.ErrOptionalAbsence))
		Expect(err.Error()).To(ContainSubstring("Wheel_ML"))
	})
})
