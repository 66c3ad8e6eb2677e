package sim

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/config"
)

// HandleInput processes keyboard and mouse input between ticks. This is the
// external layer the physics core knows nothing about: it talks to the store
// through discrete spawn/drag/remove requests.
func (s *Simulation) HandleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		s.TogglePause()
	}

	if rl.IsKeyPressed(rl.KeyR) {
		s.Reset()
	}

	s.handleCameraInput()
	s.handleMouse()
}

// handleMouse maps cursor actions onto store mutations.
// Left drag spawns a particle stream, right drag stirs the fluid, middle
// drag erases. The drag delta comes from raylib each frame; nothing about
// the previous cursor position is retained here.
func (s *Simulation) handleMouse() {
	if s.camera == nil {
		return
	}

	mouse := rl.GetMousePosition()
	wx, wy := s.camera.ScreenToWorld(mouse.X, mouse.Y)

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		s.SpawnBurst(wx, wy, 2, 0.5)
	}

	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		// Screen delta to world delta: inverse zoom, flipped y.
		dx := delta.X / s.camera.Zoom
		dy := -delta.Y / s.camera.Zoom
		s.ApplyDrag(wx, wy, dx*dragStrength, dy*dragStrength, dragRadius)
	}

	if rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		s.RemoveNear(wx, wy, dragRadius)
	}
}

const (
	dragStrength = 4.0 // velocity gain per world unit of cursor motion
	dragRadius   = 6.0 // world-unit radius affected by drag and erase
)

// handleCameraInput processes camera pan/zoom controls.
func (s *Simulation) handleCameraInput() {
	if s.camera == nil {
		return
	}

	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0)

	if rl.IsKeyDown(rl.KeyRight) {
		s.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		s.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		s.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		s.camera.Pan(0, -panSpeed)
	}

	wheelMove := rl.GetMouseWheelMove()
	if wheelMove != 0 {
		s.camera.ZoomBy(1 + wheelMove*0.1)
	}
}

// Reset drops every particle and respawns the initial block.
func (s *Simulation) Reset() {
	cfg := config.Cfg()
	d := &cfg.Derived

	// A radius covering the whole domain removes everything, including
	// particles pinned to the boundary.
	s.RemoveNear(0, 0, 2*(d.HalfWidth+d.HalfHeight))
	s.SpawnGrid(cfg.Spawn.GridSize, float32(cfg.Spawn.Spacing))
	s.density.Reset()
	s.tick = 0
}
