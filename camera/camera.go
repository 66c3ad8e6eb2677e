// Package camera provides a 2D camera system for viewport control.
package camera

// Camera controls the viewport into the simulation domain.
// World coordinates are centered on the origin with y pointing up; screen
// coordinates have y pointing down, so the vertical axis flips in transforms.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom is the screen pixels per world unit
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World half-extents (for pan clamping)
	HalfW, HalfH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the domain, zoomed so the whole domain
// height fits the viewport.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	fit := viewportH / worldH
	if viewportW/worldW < fit {
		fit = viewportW / worldW
	}

	return &Camera{
		X:         0,
		Y:         0,
		Zoom:      fit,
		ViewportW: viewportW,
		ViewportH: viewportH,
		HalfW:     worldW / 2,
		HalfH:     worldH / 2,
		MinZoom:   fit / 4,
		MaxZoom:   fit * 16,
	}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 - (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y - (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius could be
// visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Pan moves the camera by the given delta in screen pixels, clamped so the
// center never leaves the domain.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, -c.HalfW, c.HalfW)
	c.Y = clamp(c.Y-dy/c.Zoom, -c.HalfH, c.HalfH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

func clamp(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
