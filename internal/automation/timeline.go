package automation

import "github.com/san-kum/vehiclerig/internal/control"

// Driver is the per-step behavior a timeline wraps, usually a *rig.Rig.
type Driver interface {
	Tick() error
}

// Timeline applies a script's segments to a control block before each
// tick of the wrapped driver.
type Timeline struct {
	script  *Script
	block   *control.Block
	next    Driver
	dt, t   float64
	current int
}

func NewTimeline(script *Script, block *control.Block, next Driver) *Timeline {
	return &Timeline{script: script, block: block, next: next, dt: script.Dt, current: -1}
}

// Segment returns the index of the segment active at the last tick, or -1
// before the first tick.
func (tl *Timeline) Segment() int { return tl.current }

func (tl *Timeline) Tick() error {
	idx := tl.segmentAt(tl.t)
	if idx < 0 {
		return ErrNoSegments
	}
	if idx != tl.current {
		tl.current = idx
		for name, v := range tl.script.Segments[idx].Controls {
			if _, err := tl.block.Set(name, v); err != nil {
				return err
			}
		}
	}
	tl.t += tl.dt
	return tl.next.Tick()
}

// segmentAt clamps to the last segment once the script has run out.
func (tl *Timeline) segmentAt(t float64) int {
	end := 0.0
	for i, seg := range tl.script.Segments {
		end += seg.Duration
		if t < end-1e-9 {
			return i
		}
	}
	return len(tl.script.Segments) - 1
}
