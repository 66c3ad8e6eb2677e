package telemetry

// Collector accumulates events within time windows and produces WindowStats.
// The simulation records events as they happen; once enough simulated time has
// elapsed it closes the window with a sample of densities and speeds.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	elapsedSec   float64
	totalSimTime float64

	// Event counters for the current window
	contacts     int
	boundaryHits int
	nonFinite    int
	cacheMisses  int
}

// NewCollector creates a stats collector with the given window length in
// simulated seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 5
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// Advance accumulates simulated time.
func (c *Collector) Advance(dt float64) {
	c.elapsedSec += dt
	c.totalSimTime += dt
}

// WindowDone reports whether the current window has run its course.
func (c *Collector) WindowDone() bool {
	return c.elapsedSec >= c.windowDurationSec
}

// RecordContacts adds resolved collision contacts for this tick.
func (c *Collector) RecordContacts(n int) {
	c.contacts += n
}

// RecordBoundaryHit records a particle clamped to the domain boundary.
func (c *Collector) RecordBoundaryHit() {
	c.boundaryHits++
}

// RecordNonFinite records a discarded non-finite pressure result.
func (c *Collector) RecordNonFinite() {
	c.nonFinite++
}

// RecordCacheMiss records a particle missing from the density cache.
func (c *Collector) RecordCacheMiss() {
	c.cacheMisses++
}

// EndWindow closes the current window, producing stats from the counters and
// the supplied end-of-window density and speed samples, then resets for the
// next window.
func (c *Collector) EndWindow(tick int32, particleCount int, densities, speeds []float64) WindowStats {
	stats := WindowStats{
		WindowEndTick: tick,
		SimTimeSec:    c.totalSimTime,
		ParticleCount: particleCount,
		Contacts:      c.contacts,
		BoundaryHits:  c.boundaryHits,
		NonFinite:     c.nonFinite,
		CacheMisses:   c.cacheMisses,
	}

	stats.DensityMean, stats.DensityStd, stats.DensityP10, stats.DensityP50, stats.DensityP90 = DistStats(densities)
	stats.KineticMean, _, _, _, _ = DistStats(speeds)
	stats.MaxSpeed = MaxOf(speeds)

	c.elapsedSec = 0
	c.contacts = 0
	c.boundaryHits = 0
	c.nonFinite = 0
	c.cacheMisses = 0

	return stats
}
