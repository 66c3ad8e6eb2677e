package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ripple/components"
	"github.com/pthm-cable/ripple/fluid"
)

// Particle creation, removal, and drag live outside the physics pipeline: the
// input layer calls into the store between ticks. Drag is a discrete per-tick
// request carrying its own delta — no retained cursor state.

// SpawnAt creates a single particle at rest at the given world position.
func (s *Simulation) SpawnAt(x, y float32) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	tag := components.Particle{}
	e := s.particleMapper.NewEntity(&pos, &vel, &tag)
	s.particleCount++
	return e
}

// SpawnGrid creates a size x size block of particles at rest, centered on the
// origin with the given lattice spacing.
func (s *Simulation) SpawnGrid(size int, spacing float32) {
	offset := float32(size)*spacing/2 - spacing/2
	for ix := 0; ix < size; ix++ {
		for iy := 0; iy < size; iy++ {
			s.SpawnAt(float32(ix)*spacing-offset, float32(iy)*spacing-offset)
		}
	}
}

// SpawnBurst creates n particles jittered around (x, y). Jitter desyncs the
// initial positions so a stream of spawns does not stack coincident particles.
func (s *Simulation) SpawnBurst(x, y float32, n int, jitter float32) {
	for i := 0; i < n; i++ {
		jx := (s.rng.Float32()*2 - 1) * jitter
		jy := (s.rng.Float32()*2 - 1) * jitter
		s.SpawnAt(x+jx, y+jy)
	}
}

// RemoveNear deletes all particles within radius of (x, y) and returns how
// many were removed. Removal is the only way particles leave the store; the
// physics pipeline itself never destroys them.
func (s *Simulation) RemoveNear(x, y, radius float32) int {
	radiusSq := radius * radius
	var doomed []ecs.Entity

	query := s.particleFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		dx := pos.X - x
		dy := pos.Y - y
		if dx*dx+dy*dy <= radiusSq {
			doomed = append(doomed, query.Entity())
		}
	}

	// Removal happens outside the query; mutating the store mid-iteration
	// invalidates it.
	for _, e := range doomed {
		s.world.RemoveEntity(e)
	}
	s.particleCount -= len(doomed)

	return len(doomed)
}

// ApplyDrag adds a velocity impulse to every particle within radius of
// (x, y), proportional to the supplied per-tick drag delta with linear
// falloff from the center. The caller computes the delta; the store keeps no
// cursor history between calls.
func (s *Simulation) ApplyDrag(x, y, dx, dy, radius float32) {
	if radius <= 0 {
		return
	}
	radiusSq := radius * radius

	query := s.particleFilter.Query()
	for query.Next() {
		pos, vel := query.Get()
		ox := pos.X - x
		oy := pos.Y - y
		distSq := ox*ox + oy*oy
		if distSq > radiusSq {
			continue
		}
		falloff := 1 - fluid.Speed(ox, oy)/radius
		vel.X += dx * falloff
		vel.Y += dy * falloff
	}
}
