// Package balloon lifts a drawn chute with inflating balloons. Physics is
// left to the host: balloons push on a Body, and the host's simulation
// integrates the forces.
package balloon

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Up is the world up direction.
var Up = v3.Vec{X: 0, Y: 1, Z: 0}

const (
	// DefaultLift is the upward force applied per second of simulation.
	DefaultLift = 12.0
	// DefaultMaxSize is the uniform scale a balloon inflates to.
	DefaultMaxSize = 1.0
)

// Body is a rigid body in the host simulation.
type Body interface {
	Position() v3.Vec
	AddForceAtPosition(force, at v3.Vec)
}

// Balloon is a single inflating balloon tethered to an anchor body.
type Balloon struct {
	Body   Body
	Anchor Body // body the tether is tied to

	Active  bool
	Scale   float64 // uniform scale, starts at zero
	MaxSize float64
	Lift    float64

	// TopOffset and BottomOffset locate the top and bottom of the
	// balloon relative to its body at scale 1.
	TopOffset    v3.Vec
	BottomOffset v3.Vec
}

// New returns an inactive, uninflated balloon with default tuning.
func New(body, anchor Body) *Balloon {
	return &Balloon{
		Body:         body,
		Anchor:       anchor,
		MaxSize:      DefaultMaxSize,
		Lift:         DefaultLift,
		TopOffset:    v3.Vec{Y: 0.5},
		BottomOffset: v3.Vec{Y: -0.5},
	}
}

// FixedUpdate advances the balloon by one physics step of dt seconds:
// it inflates towards MaxSize and pulls up at its top point.
func (b *Balloon) FixedUpdate(dt float64) {
	if !b.Active {
		return
	}
	if b.Scale < b.MaxSize {
		b.Scale = min(b.Scale+dt, b.MaxSize)
	}
	b.Body.AddForceAtPosition(Up.MulScalar(b.Lift*dt), b.TopPoint())
}

// TopPoint returns where lift is applied.
func (b *Balloon) TopPoint() v3.Vec {
	return b.Body.Position().Add(b.TopOffset.MulScalar(b.Scale))
}

// BottomPoint returns where the tether leaves the balloon.
func (b *Balloon) BottomPoint() v3.Vec {
	return b.Body.Position().Add(b.BottomOffset.MulScalar(b.Scale))
}

// Tether returns the two ends of the line drawn between the balloon and
// its anchor. ok is false while the balloon is inactive or untethered.
func (b *Balloon) Tether() (from, to v3.Vec, ok bool) {
	if !b.Active || b.Anchor == nil {
		return v3.Vec{}, v3.Vec{}, false
	}
	return b.BottomPoint(), b.Anchor.Position(), true
}
