package fluid

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ripple/components"
)

// testStore creates a world and spawns particles at the given positions.
func testStore(t *testing.T, positions [][2]float32) (*ecs.World, []ecs.Entity) {
	t.Helper()
	world := ecs.NewWorld()
	mapper := ecs.NewMap2[components.Position, components.Velocity](world)

	entities := make([]ecs.Entity, len(positions))
	for i, p := range positions {
		pos := components.Position{X: p[0], Y: p[1]}
		vel := components.Velocity{}
		entities[i] = mapper.NewEntity(&pos, &vel)
	}
	return world, entities
}

// TestNeighborsComplete verifies the correctness condition for bounded
// neighbor search: with cellSize >= radius, every particle within radius of a
// query point appears in its 3x3 block.
func TestNeighborsComplete(t *testing.T) {
	const (
		width    = 100.0
		height   = 100.0
		cellSize = 1.5
		radius   = 1.5
		n        = 400
	)

	rng := rand.New(rand.NewSource(7))
	positions := make([][2]float32, n)
	for i := range positions {
		positions[i] = [2]float32{
			(rng.Float32() - 0.5) * width,
			(rng.Float32() - 0.5) * height,
		}
	}
	_, entities := testStore(t, positions)

	grid := NewSpatialGrid(width, height, cellSize)
	for i, p := range positions {
		grid.Insert(entities[i], p[0], p[1])
	}

	radiusSq := float32(radius * radius)
	var scratch []Neighbor

	for i, p := range positions {
		// Brute-force reference set
		want := make(map[ecs.Entity]bool)
		for j, q := range positions {
			dx := q[0] - p[0]
			dy := q[1] - p[1]
			if dx*dx+dy*dy < radiusSq {
				want[entities[j]] = true
			}
		}

		scratch = grid.NeighborsInto(scratch[:0], p[0], p[1])
		got := make(map[ecs.Entity]bool)
		for _, nb := range scratch {
			if nb.DistSq < radiusSq {
				if got[nb.E] {
					t.Fatalf("particle %d: neighbor enumerated twice", i)
				}
				got[nb.E] = true
			}
		}

		if len(got) != len(want) {
			t.Fatalf("particle %d: got %d neighbors within radius, want %d", i, len(got), len(want))
		}
		for e := range want {
			if !got[e] {
				t.Fatalf("particle %d: missing neighbor %v", i, e)
			}
		}
	}
}

// TestNeighborsIncludesSelf verifies the querying particle is enumerated at
// distance zero; density sums include the self contribution.
func TestNeighborsIncludesSelf(t *testing.T) {
	_, entities := testStore(t, [][2]float32{{3, -4}})

	grid := NewSpatialGrid(100, 100, 2)
	grid.Insert(entities[0], 3, -4)

	neighbors := grid.NeighborsInto(nil, 3, -4)
	if len(neighbors) != 1 {
		t.Fatalf("got %d neighbors, want 1", len(neighbors))
	}
	if neighbors[0].DistSq != 0 {
		t.Errorf("self neighbor DistSq = %f, want 0", neighbors[0].DistSq)
	}
}

// TestEmptyGrid verifies an empty particle set yields an empty grid.
func TestEmptyGrid(t *testing.T) {
	grid := NewSpatialGrid(100, 100, 2)
	if got := grid.NeighborsInto(nil, 0, 0); len(got) != 0 {
		t.Errorf("got %d neighbors from empty grid, want 0", len(got))
	}
}

// TestGridClear verifies Clear empties every cell for the per-tick rebuild.
func TestGridClear(t *testing.T) {
	_, entities := testStore(t, [][2]float32{{0, 0}, {1, 1}})

	grid := NewSpatialGrid(100, 100, 2)
	grid.Insert(entities[0], 0, 0)
	grid.Insert(entities[1], 1, 1)
	grid.Clear()

	if got := grid.NeighborsInto(nil, 0, 0); len(got) != 0 {
		t.Errorf("got %d neighbors after Clear, want 0", len(got))
	}
}

// TestGridClampsOutOfDomain verifies positions outside the domain land in an
// edge cell instead of being dropped.
func TestGridClampsOutOfDomain(t *testing.T) {
	_, entities := testStore(t, [][2]float32{{1000, 1000}})

	grid := NewSpatialGrid(100, 100, 2)
	grid.Insert(entities[0], 1000, 1000)

	// Query near the domain corner; the escaped particle must still be indexed.
	got := grid.NeighborsInto(nil, 49.9, 49.9)
	if len(got) != 1 {
		t.Errorf("got %d neighbors at corner, want 1", len(got))
	}
}

// TestForEachPairVisitsOnce verifies every close pair is visited exactly once
// regardless of cell layout.
func TestForEachPairVisitsOnce(t *testing.T) {
	const (
		width    = 60.0
		height   = 60.0
		cellSize = 2.0
		maxDist  = 2.0
		n        = 200
	)

	rng := rand.New(rand.NewSource(11))
	positions := make([][2]float32, n)
	for i := range positions {
		positions[i] = [2]float32{
			(rng.Float32() - 0.5) * width,
			(rng.Float32() - 0.5) * height,
		}
	}
	_, entities := testStore(t, positions)

	index := make(map[ecs.Entity]int, n)
	grid := NewSpatialGrid(width, height, cellSize)
	for i, p := range positions {
		grid.Insert(entities[i], p[0], p[1])
		index[entities[i]] = i
	}

	// Brute-force reference pair count
	want := make(map[[2]int]int)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := positions[j][0] - positions[i][0]
			dy := positions[j][1] - positions[i][1]
			if dx*dx+dy*dy < maxDist*maxDist {
				want[[2]int{i, j}] = 0
			}
		}
	}

	grid.ForEachPair(maxDist, func(a, b ecs.Entity, dx, dy, distSq float32) {
		i, j := index[a], index[b]
		if i > j {
			i, j = j, i
		}
		key := [2]int{i, j}
		if _, ok := want[key]; !ok {
			t.Fatalf("unexpected pair (%d, %d) at distSq %f", i, j, distSq)
		}
		want[key]++
	})

	for key, visits := range want {
		if visits != 1 {
			t.Errorf("pair %v visited %d times, want 1", key, visits)
		}
	}
}
