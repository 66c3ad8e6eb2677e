package fluid

import "math"

// densityFloor replaces near-zero densities before division.
const densityFloor = 1e-6

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// sqrt32 returns the square root of a float32.
func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

// Speed returns the magnitude of a velocity vector.
func Speed(vx, vy float32) float32 {
	return sqrt32(vx*vx + vy*vy)
}

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
