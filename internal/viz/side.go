package viz

import (
	"math"

	"github.com/san-kum/vehiclerig/internal/rig"
	"github.com/san-kum/vehiclerig/internal/scene"
)

// Locator resolves live body positions.
type Locator interface {
	FindBody(name string) (scene.Body, bool)
}

// rounded is implemented by scene bodies that know their radius.
type rounded interface {
	Radius() float64
}

// wheelRadius returns the radius of a rigged wheel as the scene reports
// it, falling back to the builtin scenes' radius.
func wheelRadius(loc Locator, wr *rig.WheelRig) float64 {
	b := wr.Wheel
	if live, ok := loc.FindBody(wr.Wheel.Name()); ok {
		b = live
	}
	if r, ok := b.(rounded); ok && r.Radius() > 0 {
		return r.Radius()
	}
	return scene.DefaultWheelRadius
}

// RenderSide draws the rig in side view as text.
func RenderSide(loc Locator, r *rig.Rig, w, h int) string {
	return SideCanvas(loc, r, w, h).String()
}

// SideCanvas draws the ground line, each anchor, its suspension line and
// the wheel it carries. Bodies on both sides of the vehicle overlap.
func SideCanvas(loc Locator, r *rig.Rig, w, h int) *Canvas {
	c := NewCanvas(w, h)
	wheels := r.WheelRigs()
	if len(wheels) == 0 {
		return c
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := 0.0, math.Inf(-1)
	radii := make([]float64, len(wheels))
	for i, wr := range wheels {
		radii[i] = wheelRadius(loc, wr)
		a := wr.Anchor.Body.Position()
		minX = math.Min(minX, a.X()-2*radii[i])
		maxX = math.Max(maxX, a.X()+2*radii[i])
		maxY = math.Max(maxY, a.Y()+radii[i])
		minY = math.Min(minY, a.Y()-400)
	}
	vp := NewViewport(c, minX, maxX, minY, maxY)

	if r.Ground != nil {
		gx0, gy := vp.Map(minX, 0)
		gx1, _ := vp.Map(maxX, 0)
		c.DrawLine(gx0, gy, gx1, gy)
	}

	for i, wr := range wheels {
		a := wr.Anchor.Body.Position()
		wp := wr.Wheel.Position()
		if b, ok := loc.FindBody(wr.Wheel.Name()); ok {
			wp = b.Position()
		}
		ax, ay := vp.Map(a.X(), a.Y())
		wx, wy := vp.Map(wp.X(), wp.Y())
		c.DrawCircle(ax, ay, 1)
		c.DrawLine(ax, ay, wx, wy)
		c.DrawCircle(wx, wy, vp.Scale(radii[i]))
	}
	return c
}
