package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 100, 100)

	// Should be centered on the domain origin
	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected camera at (0, 0), got (%f, %f)", cam.X, cam.Y)
	}
	// Fit zoom is limited by the shorter viewport axis
	if math.Abs(float64(cam.Zoom-7.2)) > 0.01 {
		t.Errorf("expected fit zoom 7.2, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 100, 100)

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(0, 0)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestWorldYUpIsScreenYDown(t *testing.T) {
	cam := New(1280, 720, 100, 100)

	// A point above the camera in world space lands above screen center,
	// which is a smaller screen y.
	_, sy := cam.WorldToScreen(0, 10)
	if sy >= 360 {
		t.Errorf("expected screen y above center (< 360), got %f", sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 100, 100)

	// Test roundtrip at various positions
	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanClamped(t *testing.T) {
	cam := New(1280, 720, 100, 100)

	// Pan far past the domain edge; center must stay inside
	cam.Pan(1e6, 0)
	if cam.X != cam.HalfW {
		t.Errorf("expected pan clamped to %f, got %f", cam.HalfW, cam.X)
	}
}

func TestZoomClamped(t *testing.T) {
	cam := New(1280, 720, 100, 100)

	cam.ZoomBy(1000)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to max %f, got %f", cam.MaxZoom, cam.Zoom)
	}

	cam.ZoomBy(0.000001)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to min %f, got %f", cam.MinZoom, cam.Zoom)
	}
}
