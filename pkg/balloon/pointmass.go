package balloon

import v3 "github.com/deadsy/sdfx/vec/v3"

// Gravity is the default gravitational acceleration.
var Gravity = v3.Vec{Y: -9.81}

// PointMass is a minimal Body for running the balloons without a physics
// engine. Forces are accumulated and applied by Integrate; torque from
// off-centre forces is ignored.
type PointMass struct {
	Pos  v3.Vec
	Vel  v3.Vec
	Mass float64
	Drag float64 // linear damping per second

	force v3.Vec
}

// Position implements Body.
func (p *PointMass) Position() v3.Vec { return p.Pos }

// AddForceAtPosition implements Body.
func (p *PointMass) AddForceAtPosition(force, _ v3.Vec) {
	p.force = p.force.Add(force)
}

// Integrate advances the body by dt seconds under gravity and the forces
// accumulated since the last call, then clears them. Forces are impulses
// already scaled by the step, as Balloon.FixedUpdate applies them.
func (p *PointMass) Integrate(dt float64, gravity v3.Vec) {
	if p.Mass > 0 {
		p.Vel = p.Vel.Add(p.force.MulScalar(1 / p.Mass))
	}
	p.Vel = p.Vel.Add(gravity.MulScalar(dt))
	p.Vel = p.Vel.MulScalar(max(0, 1-p.Drag*dt))
	p.Pos = p.Pos.Add(p.Vel.MulScalar(dt))
	p.force = v3.Vec{}
}
