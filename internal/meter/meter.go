// Package meter produces the frames of the circular percentage gauge.
//
// An Animation is a finite iterator of States stepping from 0 to a target.
// An Animator owns the render target and guarantees that only the most
// recently started run can render.
package meter

import (
	"iter"
	"math"

	"github.com/joseph-ayodele/ingredient-scanner/constants"
)

const (
	// Radius of the gauge ring in SVG units.
	Radius = 85
	// Step is how far the value advances per frame tick.
	Step = 2
)

// Circumference of the gauge ring; the stroke dash array uses it.
var Circumference = 2 * math.Pi * Radius

// State is one rendered frame of the gauge.
type State struct {
	Current      int                  `json:"current"`
	Target       int                  `json:"target"`
	StrokeOffset float64              `json:"stroke_offset"`
	Visible      bool                 `json:"visible"`
	Flag         constants.HealthFlag `json:"health_flag,omitempty"`
	Color        string               `json:"color,omitempty"`
	Label        string               `json:"label,omitempty"`
}

// Hidden is the state of a gauge that is not shown.
func Hidden() State {
	return State{StrokeOffset: Circumference}
}

// StrokeOffset is the dash offset that reveals current percent of the ring.
func StrokeOffset(current int) float64 {
	return Circumference - (float64(current)/100)*Circumference
}

// Animation steps from 0 to its target. It is not safe for concurrent use.
type Animation struct {
	target  int
	flag    constants.HealthFlag
	current int
	started bool
	done    bool
}

// NewAnimation clamps target into [0,100]. Colour and label are fixed by flag.
func NewAnimation(target int, flag constants.HealthFlag) *Animation {
	return &Animation{target: min(max(target, 0), 100), flag: flag}
}

// Next returns the next frame. The first frame shows 0, each later frame adds
// Step, and the last frame is exactly the target.
func (a *Animation) Next() (State, bool) {
	if a.done {
		return State{}, false
	}
	if a.started {
		a.current = min(a.current+Step, a.target)
	}
	a.started = true
	if a.current >= a.target {
		a.done = true
	}
	return a.state(a.current), true
}

// Done reports whether the final frame has been produced.
func (a *Animation) Done() bool { return a.done }

// Frames yields the remaining frames in order.
func (a *Animation) Frames() iter.Seq[State] {
	return func(yield func(State) bool) {
		for {
			s, ok := a.Next()
			if !ok || !yield(s) {
				return
			}
		}
	}
}

func (a *Animation) state(current int) State {
	return State{
		Current:      current,
		Target:       a.target,
		StrokeOffset: StrokeOffset(current),
		Visible:      true,
		Flag:         a.flag,
		Color:        a.flag.Color(),
		Label:        a.flag.Label(),
	}
}
