package rig_test

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vehiclerig/internal/config"
	"github.com/san-kum/vehiclerig/internal/rig"
	"github.com/san-kum/vehiclerig/internal/scene"
)

// failingStore rejects hinge creation to exercise error propagation.
type failingStore struct {
	*scene.Memory
}

var errSolver = errors.New("solver refused hinge")

func (f failingStore) CreateConstraint(kind scene.ConstraintKind, a, b scene.Body, p scene.ConstraintParams) (scene.Constraint, error) {
	if kind == scene.ConstraintHinge {
		return nil, errSolver
	}
	return f.Memory.CreateConstraint(kind, a, b, p)
}

var _ = Describe("Factory", func() {
	var (
		store   *scene.Memory
		factory *rig.Factory
		parent  scene.Body
	)

	BeforeEach(func() {
		store = scene.NewMemory(scene.SixWheeler())
		factory = rig.NewFactory(store, config.DefaultConfig())
		var err error
		parent, err = store.CreateBody(scene.KindGroup, scene.BodyParams{Name: "Axle_Front"})
		Expect(err).NotTo(HaveOccurred())
	})

	It("builds independent triples per wheel", func() {
		fl, _ := store.FindBody("Wheel_FL")
		fr, _ := store.FindBody("Wheel_FR")

		a, err := factory.BuildWheelRig(rig.Front, "FL", fl, parent)
		Expect(err).NotTo(HaveOccurred())
		b, err := factory.BuildWheelRig(rig.Front, "FR", fr, parent)
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Anchor.Body).NotTo(BeIdenticalTo(b.Anchor.Body))
		Expect(a.Suspension).NotTo(BeIdenticalTo(b.Suspension))
		Expect(a.Hinge).NotTo(BeIdenticalTo(b.Hinge))
		Expect(a.Anchor.Position).To(Equal(mgl64.Vec3{160, 190, 110}))
		Expect(store.Lookup("top-FL").Scale()).To(Equal(mgl64.Vec3{0.3, 0.3, 0.3}))
		Expect(store.Lookup("connectSusp-FL").Position()).To(Equal(fl.Position()))
	})

	It("surfaces store failures", func() {
		fs := failingStore{Memory: store}
		f := rig.NewFactory(fs, config.DefaultConfig())
		fl, _ := store.FindBody("Wheel_FL")

		_, err := f.BuildWheelRig(rig.Front, "FL", fl, parent)
		Expect(err).To(MatchError(errSolver))
		Expect(err.Error()).To(ContainSubstring("FL"))
	})

	It("aborts assembly on store failures", func() {
		fs := failingStore{Memory: store}
		_, err := rig.NewAssembler(fs, nil).Assemble()
		Expect(err).To(MatchError(errSolver))
	})
})

var _ = Describe("Resolver", func() {
	var store *scene.Memory

	BeforeEach(func() {
		store = scene.NewMemory(scene.FourWheeler())
	})

	It("resolves wheels by prefix and key", func() {
		res := rig.NewResolver(store, "Body", "Ground", "Wheel_")
		w, err := res.Wheel("RL")
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Name()).To(Equal("Wheel_RL"))

		_, err = res.Wheel("ML")
		Expect(err).To(MatchError(rig.ErrOptionalAbsence))
	})

	It("treats a missing chassis as fatal", func() {
		res := rig.NewResolver(store, "Hull", "Ground", "Wheel_")
		_, err := res.Chassis()
		Expect(err).To(MatchError(rig.ErrMissingDependency))
		Expect(err).To(MatchError("rig: missing Hull object"))
	})

	It("marks the ground static", func() {
		res := rig.NewResolver(store, "Body", "Ground", "Wheel_")
		g, err := res.Ground()
		Expect(err).NotTo(HaveOccurred())
		Expect(g.(*scene.Object).Motion()).To(Equal(scene.MotionStatic))
	})

	It("treats an unnamed ground as absent", func() {
		res := rig.NewResolver(store, "Body", "", "Wheel_")
		_, err := res.Ground()
		Expect(err).To(MatchError(rig.ErrOptionalAbsence))
	})
})
