package telemetry

import (
	"math"
	"testing"
)

func TestDistStats(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		wantMean float64
		wantStd  float64
	}{
		{"empty", nil, 0, 0},
		{"single sample has zero spread", []float64{5}, 5, 0},
		{"uniform", []float64{2, 2, 2, 2}, 2, 0},
		{"spread", []float64{1, 2, 3, 4, 5}, 3, math.Sqrt(2.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std, p10, p50, p90 := DistStats(tt.values)
			if math.Abs(mean-tt.wantMean) > 1e-9 {
				t.Errorf("mean = %f, want %f", mean, tt.wantMean)
			}
			if math.Abs(std-tt.wantStd) > 1e-9 {
				t.Errorf("std = %f, want %f", std, tt.wantStd)
			}
			if len(tt.values) > 0 {
				if p10 > p50 || p50 > p90 {
					t.Errorf("percentiles not ordered: p10=%f p50=%f p90=%f", p10, p50, p90)
				}
			}
		})
	}
}

func TestMaxOf(t *testing.T) {
	if got := MaxOf(nil); got != 0 {
		t.Errorf("MaxOf(nil) = %f, want 0", got)
	}
	if got := MaxOf([]float64{-3, -1, -2}); got != -1 {
		t.Errorf("MaxOf = %f, want -1", got)
	}
	if got := MaxOf([]float64{1, 9, 4}); got != 9 {
		t.Errorf("MaxOf = %f, want 9", got)
	}
}

func TestCollectorWindowing(t *testing.T) {
	c := NewCollector(1.0)

	c.Advance(0.5)
	if c.WindowDone() {
		t.Error("window reported done at half duration")
	}
	c.RecordContacts(3)
	c.RecordBoundaryHit()
	c.RecordNonFinite()
	c.RecordCacheMiss()

	c.Advance(0.5)
	if !c.WindowDone() {
		t.Fatal("window not done after full duration")
	}

	stats := c.EndWindow(60, 100, []float64{1000, 1010, 990}, []float64{0.5, 1.5})

	if stats.WindowEndTick != 60 || stats.ParticleCount != 100 {
		t.Errorf("window header = tick %d, particles %d; want 60, 100", stats.WindowEndTick, stats.ParticleCount)
	}
	if stats.Contacts != 3 || stats.BoundaryHits != 1 || stats.NonFinite != 1 || stats.CacheMisses != 1 {
		t.Errorf("counters = %d/%d/%d/%d, want 3/1/1/1",
			stats.Contacts, stats.BoundaryHits, stats.NonFinite, stats.CacheMisses)
	}
	if math.Abs(stats.DensityMean-1000) > 1e-9 {
		t.Errorf("DensityMean = %f, want 1000", stats.DensityMean)
	}
	if stats.MaxSpeed != 1.5 {
		t.Errorf("MaxSpeed = %f, want 1.5", stats.MaxSpeed)
	}
	if math.Abs(stats.SimTimeSec-1.0) > 1e-9 {
		t.Errorf("SimTimeSec = %f, want 1.0", stats.SimTimeSec)
	}

	// Counters reset; total sim time keeps accumulating.
	c.Advance(1.0)
	next := c.EndWindow(120, 100, nil, nil)
	if next.Contacts != 0 {
		t.Errorf("Contacts after reset = %d, want 0", next.Contacts)
	}
	if math.Abs(next.SimTimeSec-2.0) > 1e-9 {
		t.Errorf("SimTimeSec = %f, want 2.0", next.SimTimeSec)
	}
}

func TestCollectorDefaultWindow(t *testing.T) {
	c := NewCollector(0)
	c.Advance(4.9)
	if c.WindowDone() {
		t.Error("window done before the 5s default")
	}
	c.Advance(0.2)
	if !c.WindowDone() {
		t.Error("window not done after the 5s default")
	}
}
