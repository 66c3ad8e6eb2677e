package sim

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/fluid"
)

// Draw renders the current particle state.
func (s *Simulation) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(12, 16, 28, 255))

	s.drawDomain()
	s.drawParticles()
	s.drawHUD()

	rl.EndDrawing()
}

// drawParticles renders each particle as a circle, colored by how far its
// cached density sits from the configured target.
func (s *Simulation) drawParticles() {
	d := &config.Cfg().Derived
	radiusPx := d.ParticleRadius * s.camera.Zoom
	if radiusPx < 1 {
		radiusPx = 1
	}

	query := s.particleFilter.Query()
	for query.Next() {
		pos, _ := query.Get()

		if !s.camera.IsVisible(pos.X, pos.Y, d.ParticleRadius) {
			continue
		}

		density, ok := s.density.Get(query.Entity())
		if !ok {
			density = d.TargetDensity
		}

		sx, sy := s.camera.WorldToScreen(pos.X, pos.Y)
		rl.DrawCircle(int32(sx), int32(sy), radiusPx, densityColor(density, d.TargetDensity))
	}
}

// densityColor maps density to a blue-to-white ramp around the target:
// sparse regions render deep blue, compressed regions wash out toward white.
func densityColor(density, target float32) rl.Color {
	t := density / target
	if t > 2 {
		t = 2
	}
	if t < 0 {
		t = 0
	}
	t /= 2

	r := uint8(40 + 200*t)
	g := uint8(90 + 150*t)
	return rl.NewColor(r, g, 255, 255)
}

// drawDomain outlines the boundary rectangle.
func (s *Simulation) drawDomain() {
	d := &config.Cfg().Derived

	x0, y0 := s.camera.WorldToScreen(-d.HalfWidth, d.HalfHeight)
	x1, y1 := s.camera.WorldToScreen(d.HalfWidth, -d.HalfHeight)
	rl.DrawRectangleLines(int32(x0), int32(y0), int32(x1-x0), int32(y1-y0), rl.DarkGray)
}

// meanDensity samples the cache for the HUD readout.
func (s *Simulation) meanDensity() float32 {
	var sum float32
	var n int

	query := s.particleFilter.Query()
	for query.Next() {
		query.Get()
		if d, ok := s.density.Get(query.Entity()); ok && fluid.IsFinite(d) {
			sum += d
			n++
		}
	}

	if n == 0 {
		return 0
	}
	return sum / float32(n)
}
