package fluid

// PressureSolver converts cached densities into pressure accelerations.
// It reads the density field and spatial grid but never mutates either, so
// per-particle force evaluation is safe to run concurrently — provided the
// whole density pass has committed first.
type PressureSolver struct {
	kernel      Kernel
	mass        float32
	radius      float32
	restDensity float32
	stiffness   float32
}

// NewPressureSolver creates a solver for the given kernel and fluid parameters.
func NewPressureSolver(kernel Kernel, mass, radius, restDensity, stiffness float32) *PressureSolver {
	return &PressureSolver{
		kernel:      kernel,
		mass:        mass,
		radius:      radius,
		restDensity: restDensity,
		stiffness:   stiffness,
	}
}

// Pressure is the linear equation of state (density - rest) * stiffness.
// Negative values are deliberate: sub-rest regions pull particles together.
func (s *PressureSolver) Pressure(density float32) float32 {
	return (density - s.restDensity) * s.stiffness
}

// Acceleration computes the pressure acceleration on a particle with cached
// density rho from its neighbors. Pairs at exactly zero distance, NaN
// distance, or beyond the smoothing radius are skipped: no self-force and no
// unbounded direction vectors. The second return value is false when the
// accumulated result is not finite; the caller must then leave the particle's
// velocity untouched for the tick.
func (s *PressureSolver) Acceleration(rho float32, neighbors []Neighbor) (ax, ay float32, ok bool) {
	if rho < densityFloor {
		rho = densityFloor
	}
	pressure := s.Pressure(rho)
	radiusSq := s.radius * s.radius

	var fx, fy float32
	for i := range neighbors {
		distSq := neighbors[i].DistSq
		if distSq == 0 || !(distSq < radiusSq) { // also rejects NaN
			continue
		}
		dist := sqrt32(distSq)
		slope := s.kernel.Derivative(s.radius, dist)
		scale := -pressure * slope * s.mass / (rho * dist)
		fx += scale * neighbors[i].DX
		fy += scale * neighbors[i].DY
	}

	ax = fx / rho
	ay = fy / rho
	if !IsFinite(ax) || !IsFinite(ay) {
		return 0, 0, false
	}
	return ax, ay, true
}
