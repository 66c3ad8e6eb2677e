package fluid

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ripple/components"
)

// CollisionResolver resolves overlapping particle pairs as finite-radius
// rigid-body contacts with restitution. Contact candidates come from the same
// spatial grid the density pass uses, so the scan stays bounded instead of
// visiting all pairs.
//
// Impulses are collected during the pairwise scan and applied in a second
// pass. Applying in place would let an early pair's velocity update leak into
// a later pair's relative-velocity computation within the same tick.
type CollisionResolver struct {
	radius      float32 // per-particle contact radius
	restitution float32
	damping     float32

	impulses map[ecs.Entity]components.Velocity // accumulated velocity deltas
}

// NewCollisionResolver creates a resolver for uniform particles of the given
// contact radius.
func NewCollisionResolver(radius, restitution, damping float32) *CollisionResolver {
	return &CollisionResolver{
		radius:      radius,
		restitution: restitution,
		damping:     damping,
		impulses:    make(map[ecs.Entity]components.Velocity, 64),
	}
}

// Resolve scans the grid for overlapping pairs and applies restitution
// impulses. Returns the number of contacts resolved.
//
// For a pair of equal masses m, the impulse along the contact normal is
// J = -(1+E) * vn / (1/m + 1/m), the standard rigid-body formula with the
// combined inverse mass, so the post-impulse normal velocity is exactly
// -E * vn. Since both velocity deltas are J/m, the mass cancels and the
// resolver never needs the configured mass value.
func (r *CollisionResolver) Resolve(grid *SpatialGrid, velMap *ecs.Map1[components.Velocity]) int {
	clear(r.impulses)
	contacts := 0

	grid.ForEachPair(2*r.radius, func(a, b ecs.Entity, dx, dy, distSq float32) {
		if distSq == 0 || !IsFinite(distSq) {
			// Coincident or degenerate pair: no usable normal.
			return
		}

		va := velMap.Get(a)
		vb := velMap.Get(b)
		if va == nil || vb == nil {
			return
		}

		dist := sqrt32(distSq)
		nx := dx / dist
		ny := dy / dist

		// Normal component of the relative velocity of b with respect to a.
		// Non-negative means the pair is already separating: no pull force.
		vn := (vb.X-va.X)*nx + (vb.Y-va.Y)*ny
		if vn >= 0 {
			return
		}

		// Per-particle velocity change; damping models contact friction loss.
		dv := -(1 + r.restitution) * vn / 2 * r.damping

		imp := r.impulses[a]
		imp.X -= dv * nx
		imp.Y -= dv * ny
		r.impulses[a] = imp

		imp = r.impulses[b]
		imp.X += dv * nx
		imp.Y += dv * ny
		r.impulses[b] = imp

		contacts++
	})

	// Apply pass: one accumulated write per particle.
	for e, dv := range r.impulses {
		vel := velMap.Get(e)
		if vel == nil {
			continue
		}
		vel.X += dv.X
		vel.Y += dv.Y
	}

	return contacts
}
