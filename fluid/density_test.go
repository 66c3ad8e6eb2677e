package fluid

import (
	"math"
	"testing"
)

// TestDensityIsolatedParticle verifies a lone particle's density is exactly
// mass * W(r, 0): only the self contribution.
func TestDensityIsolatedParticle(t *testing.T) {
	const (
		mass   = float32(1.0)
		radius = float32(1.5)
	)
	kernel := Poly6{}
	field := NewDensityField(kernel, mass, radius)

	neighbors := []Neighbor{{DX: 0, DY: 0, DistSq: 0}}
	got := field.At(neighbors)
	want := mass * kernel.Weight(radius, 0)

	if math.Abs(float64(got-want)) > 1e-7 {
		t.Errorf("isolated density = %f, want %f", got, want)
	}
	if got <= 0 {
		t.Errorf("isolated density = %f, want > 0", got)
	}
}

// TestDensityPositiveAndFinite verifies the density estimate stays positive
// and finite for arbitrary neighbor sets inside the support.
func TestDensityPositiveAndFinite(t *testing.T) {
	const radius = float32(1.5)
	field := NewDensityField(Poly6{}, 1.0, radius)

	tests := []struct {
		name      string
		neighbors []Neighbor
	}{
		{
			name:      "self only",
			neighbors: []Neighbor{{DistSq: 0}},
		},
		{
			name: "dense cluster",
			neighbors: []Neighbor{
				{DistSq: 0},
				{DX: 0.1, DY: 0, DistSq: 0.01},
				{DX: 0, DY: 0.1, DistSq: 0.01},
				{DX: -0.1, DY: -0.1, DistSq: 0.02},
			},
		},
		{
			name: "neighbors at mixed distances",
			neighbors: []Neighbor{
				{DistSq: 0},
				{DX: 0.5, DY: 0, DistSq: 0.25},
				{DX: 1.0, DY: 0.5, DistSq: 1.25},
				{DX: 1.4, DY: 0, DistSq: 1.96},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := field.At(tt.neighbors)
			if got <= 0 {
				t.Errorf("density = %f, want > 0", got)
			}
			if !IsFinite(got) {
				t.Errorf("density = %f, want finite", got)
			}
		})
	}
}

// TestDensityIgnoresOutOfSupport verifies neighbors at or beyond the smoothing
// radius contribute nothing.
func TestDensityIgnoresOutOfSupport(t *testing.T) {
	const radius = float32(1.5)
	kernel := Poly6{}
	field := NewDensityField(kernel, 1.0, radius)

	base := field.At([]Neighbor{{DistSq: 0}})

	withFar := field.At([]Neighbor{
		{DistSq: 0},
		{DX: radius, DY: 0, DistSq: radius * radius},     // exactly at support edge
		{DX: 10, DY: 0, DistSq: 100},                     // far outside
		{DX: float32(math.NaN()), DistSq: float32(math.NaN())}, // degenerate
	})

	if base != withFar {
		t.Errorf("out-of-support neighbors changed density: %f vs %f", base, withFar)
	}
}

// TestDensityCacheLifecycle verifies Set/Get round-trips and Reset clears all
// entries so a dropped particle never yields a stale read.
func TestDensityCacheLifecycle(t *testing.T) {
	_, entities := testStore(t, [][2]float32{{0, 0}, {1, 0}})

	field := NewDensityField(Poly6{}, 1.0, 1.5)

	field.Set(entities[0], 1000)
	field.Set(entities[1], 1050)

	if field.Len() != 2 {
		t.Fatalf("Len = %d, want 2", field.Len())
	}
	if d, ok := field.Get(entities[0]); !ok || d != 1000 {
		t.Errorf("Get(e0) = %f, %v; want 1000, true", d, ok)
	}
	if d, ok := field.Get(entities[1]); !ok || d != 1050 {
		t.Errorf("Get(e1) = %f, %v; want 1050, true", d, ok)
	}

	field.Reset()
	if field.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", field.Len())
	}
	if _, ok := field.Get(entities[0]); ok {
		t.Error("Get after Reset returned a stale entry")
	}
}

// TestDensityMonotoneInCrowding verifies stacking more neighbors at the same
// spot only increases the estimate. Pressure relief depends on this.
func TestDensityMonotoneInCrowding(t *testing.T) {
	field := NewDensityField(Spiky{}, 1.0, 1.5)

	neighbors := []Neighbor{{DistSq: 0}}
	prev := field.At(neighbors)
	for i := 0; i < 8; i++ {
		neighbors = append(neighbors, Neighbor{DX: 0.2, DY: 0, DistSq: 0.04})
		got := field.At(neighbors)
		if got <= prev {
			t.Fatalf("density did not increase with crowding: %f -> %f", prev, got)
		}
		prev = got
	}
}
