// Package components defines ECS components for the simulation.
package components

// Position represents a particle's world position.
// The domain is centered on the origin: x in [-W/2, W/2], y in [-H/2, H/2].
type Position struct {
	X, Y float32
}

// Velocity represents a particle's velocity in world units per second.
type Velocity struct {
	X, Y float32
}

// Particle is a tag component marking fluid particles.
// Mass and contact radius are uniform constants from config, not per-entity state.
type Particle struct{}
