package fluid

import "github.com/pthm-cable/ripple/components"

// Integrator advances particle state with semi-implicit Euler: velocity first
// from accumulated accelerations, then position from the updated velocity.
type Integrator struct {
	gravity float32 // downward acceleration magnitude
	damping float32 // velocity retention per tick, (0, 1]
	minDT   float32 // floor for host-supplied frame time
}

// NewIntegrator creates an integrator with the given gravity, damping, and
// minimum time step.
func NewIntegrator(gravity, damping, minDT float32) *Integrator {
	return &Integrator{gravity: gravity, damping: damping, minDT: minDT}
}

// ClampDT floors the host-supplied frame time to a positive epsilon. The host
// may report zero or negative intervals (first frame, resumed state); dividing
// by those would destabilize the step.
func (in *Integrator) ClampDT(dt float32) float32 {
	if !IsFinite(dt) || dt < in.minDT {
		return in.minDT
	}
	return dt
}

// Advance returns the next position and velocity for a particle. accelOK=false
// means the pressure pass produced a non-finite result: the velocity keeps its
// last stable value and only the position integrates. Non-finite velocities
// are zeroed rather than propagated into the position.
func (in *Integrator) Advance(pos components.Position, vel components.Velocity, ax, ay float32, accelOK bool, dt float32) (components.Position, components.Velocity) {
	if accelOK {
		vel.X += ax * dt
		vel.Y += (ay - in.gravity) * dt
		vel.X *= in.damping
		vel.Y *= in.damping
	}

	if !IsFinite(vel.X) || !IsFinite(vel.Y) {
		vel.X = 0
		vel.Y = 0
	}

	pos.X += vel.X * dt
	pos.Y += vel.Y * dt
	return pos, vel
}
