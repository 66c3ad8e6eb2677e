// Package telemetry aggregates simulation statistics over time windows and
// writes them to structured logs and CSV files.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowEndTick int32   `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	// Store size at window end
	ParticleCount int `csv:"particles"`

	// Density distribution (sampled at window end)
	DensityMean float64 `csv:"density_mean"`
	DensityStd  float64 `csv:"density_std"`
	DensityP10  float64 `csv:"density_p10"`
	DensityP50  float64 `csv:"density_p50"`
	DensityP90  float64 `csv:"density_p90"`

	// Motion
	KineticMean float64 `csv:"kinetic_mean"` // mean speed
	MaxSpeed    float64 `csv:"max_speed"`

	// Events during the window
	Contacts     int `csv:"contacts"`
	BoundaryHits int `csv:"boundary_hits"`
	NonFinite    int `csv:"non_finite"` // discarded pressure results
	CacheMisses  int `csv:"cache_misses"`
}

// LogStats emits the window stats via slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"particles", s.ParticleCount,
		"density_mean", s.DensityMean,
		"density_p50", s.DensityP50,
		"kinetic_mean", s.KineticMean,
		"max_speed", s.MaxSpeed,
		"contacts", s.Contacts,
		"boundary_hits", s.BoundaryHits,
		"non_finite", s.NonFinite,
		"cache_misses", s.CacheMisses,
	)
}

// DistStats computes mean, standard deviation, and the 10/50/90 percentiles
// of a sample. Returns zeros for an empty sample.
func DistStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		// StdDev of a single sample is NaN; report zero spread instead.
		std = 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// MaxOf returns the maximum of a sample, or 0 when empty.
func MaxOf(values []float64) float64 {
	var m float64
	for i, v := range values {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}
