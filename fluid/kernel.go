// Package fluid implements the SPH physics kernel: spatial hashing, density
// estimation, pressure forces, integration, boundaries, and contacts.
package fluid

import (
	"fmt"
	"math"
)

// Kernel is a radially symmetric, compactly supported smoothing kernel.
// Weight is zero for dist >= radius and normalized so the integral over the 2D
// support disk is 1. Derivative is the analytic radial derivative of Weight,
// so the pair is always consistent.
type Kernel interface {
	Weight(radius, dist float32) float32
	Derivative(radius, dist float32) float32
}

// KernelByName returns the kernel selected by config.
func KernelByName(name string) (Kernel, error) {
	switch name {
	case "poly6":
		return Poly6{}, nil
	case "spiky":
		return Spiky{}, nil
	default:
		return nil, fmt.Errorf("unknown kernel %q", name)
	}
}

// Poly6 is the sixth-power kernel (r^2 - d^2)^3, normalized for 2D.
// Its derivative vanishes at d=0, so coincident neighbors exert no kick.
type Poly6 struct{}

// Weight returns (r^2 - d^2)^3 / (pi r^8 / 4).
func (Poly6) Weight(radius, dist float32) float32 {
	if dist >= radius {
		return 0
	}
	volume := math.Pi * pow8(radius) / 4
	v := radius*radius - dist*dist
	return v * v * v / volume
}

// Derivative returns -24 d (r^2 - d^2)^2 / (pi r^8).
func (Poly6) Derivative(radius, dist float32) float32 {
	if dist >= radius {
		return 0
	}
	f := radius*radius - dist*dist
	scale := -24 / (math.Pi * pow8(radius))
	return scale * dist * f * f
}

// Spiky is the squared-distance-from-edge kernel (r - d)^2, normalized for 2D.
// Sharper near d=0 than Poly6, which keeps close pairs from clumping.
type Spiky struct{}

// Weight returns 6 (r - d)^2 / (pi r^4).
func (Spiky) Weight(radius, dist float32) float32 {
	if dist >= radius {
		return 0
	}
	v := radius - dist
	return 6 * v * v / (math.Pi * pow4(radius))
}

// Derivative returns -12 (r - d) / (pi r^4).
func (Spiky) Derivative(radius, dist float32) float32 {
	if dist >= radius {
		return 0
	}
	return -12 * (radius - dist) / (math.Pi * pow4(radius))
}

func pow4(x float32) float32 {
	x2 := x * x
	return x2 * x2
}

func pow8(x float32) float32 {
	x4 := pow4(x)
	return x4 * x4
}
