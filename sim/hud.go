package sim

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// drawHUD renders the status readout and control buttons.
func (s *Simulation) drawHUD() {
	rl.DrawText("ripple", 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d | Tick: %d | FPS: %d", s.particleCount, s.tick, rl.GetFPS()),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Mean density: %.1f", s.meanDensity()),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if s.paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	pauseLabel := "Pause"
	if s.paused {
		pauseLabel = "Resume"
	}
	if gui.Button(rl.Rectangle{X: 10, Y: 100, Width: 90, Height: 26}, pauseLabel) {
		s.TogglePause()
	}
	if gui.Button(rl.Rectangle{X: 108, Y: 100, Width: 90, Height: 26}, "Reset") {
		s.Reset()
	}

	rl.DrawText(
		"LMB spawn | RMB stir | MMB erase | arrows pan | wheel zoom | space pause | R reset",
		10, int32(rl.GetScreenHeight())-25, 14, rl.Gray,
	)
}
