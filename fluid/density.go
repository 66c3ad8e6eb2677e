package fluid

import (
	"github.com/mlange-42/ark/ecs"
)

// DensityField caches the smoothed density at every particle.
// Entries are valid only within the tick that produced them; Reset clears the
// cache before each recomputation so consumers never read stale values from a
// dropped particle.
type DensityField struct {
	kernel Kernel
	mass   float32
	radius float32
	values map[ecs.Entity]float32
}

// NewDensityField creates a density cache for the given kernel and particle mass.
func NewDensityField(kernel Kernel, mass, radius float32) *DensityField {
	return &DensityField{
		kernel: kernel,
		mass:   mass,
		radius: radius,
		values: make(map[ecs.Entity]float32, 256),
	}
}

// At computes the kernel-weighted density at a point from its neighbors.
// The querying particle contributes full kernel weight at distance zero.
// NaN distances (degenerate positions) contribute nothing.
func (f *DensityField) At(neighbors []Neighbor) float32 {
	radiusSq := f.radius * f.radius

	var density float32
	for i := range neighbors {
		distSq := neighbors[i].DistSq
		if !(distSq < radiusSq) { // also rejects NaN
			continue
		}
		density += f.mass * f.kernel.Weight(f.radius, sqrt32(distSq))
	}
	return density
}

// Reset clears the cache at the start of a tick.
func (f *DensityField) Reset() {
	clear(f.values)
}

// Set stores the density for a particle.
func (f *DensityField) Set(e ecs.Entity, density float32) {
	f.values[e] = density
}

// Get returns the cached density for a particle. The second return value is
// false when the store and cache have diverged; callers treat that as a
// recoverable no-op for the particle, never a failure.
func (f *DensityField) Get(e ecs.Entity) (float32, bool) {
	d, ok := f.values[e]
	return d, ok
}

// Len returns the number of cached entries.
func (f *DensityField) Len() int {
	return len(f.values)
}

// Radius returns the smoothing radius the field was built with.
func (f *DensityField) Radius() float32 {
	return f.radius
}
