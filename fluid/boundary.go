package fluid

import "github.com/pthm-cable/ripple/components"

// Boundary clamps particles to the rectangular domain
// [-halfW, halfW] x [-halfH, halfH] with inelastic velocity reflection.
// It runs after integration so out-of-bound excursions from the same tick are
// corrected before the next tick's density pass.
type Boundary struct {
	halfW   float32
	halfH   float32
	damping float32 // energy retained by the reflected component
}

// NewBoundary creates a boundary enforcer for the centered domain.
func NewBoundary(halfW, halfH, damping float32) *Boundary {
	return &Boundary{halfW: halfW, halfH: halfH, damping: damping}
}

// Enforce clamps the position to the domain, reflecting the corresponding
// velocity component with energy loss. Each axis is handled independently.
// Returns true if either axis was clamped.
func (b *Boundary) Enforce(pos *components.Position, vel *components.Velocity) bool {
	hit := false

	if pos.X < -b.halfW || pos.X > b.halfW {
		vel.X *= -b.damping
		pos.X = clampFloat(pos.X, -b.halfW, b.halfW)
		hit = true
	}
	if pos.Y < -b.halfH || pos.Y > b.halfH {
		vel.Y *= -b.damping
		pos.Y = clampFloat(pos.Y, -b.halfH, b.halfH)
		hit = true
	}

	return hit
}
