package fluid

import (
	"github.com/mlange-42/ark/ecs"
)

// Neighbor holds a nearby particle with precomputed spatial data.
// This avoids recomputing deltas and distances in the density and force passes.
type Neighbor struct {
	E      ecs.Entity
	DX, DY float32 // delta from query origin to the neighbor
	DistSq float32 // squared distance (avoid sqrt in hot path)
}

// cellEntry records a particle and the position it was inserted at.
type cellEntry struct {
	e    ecs.Entity
	x, y float32
}

// SpatialGrid buckets particles into uniform cells for O(1) neighbor lookups.
// It covers the centered domain [-W/2, W/2] x [-H/2, H/2] and is rebuilt from
// scratch every tick; no incremental mutation is exposed.
//
// Invariant: cellSize >= the query radius of interest, so every particle within
// that radius of a point lies in the 3x3 cell block around the point's cell.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	halfW    float32
	halfH    float32
	cells    [][]cellEntry // flat grid of entries
}

// NewSpatialGrid creates a spatial grid covering a centered domain of the
// given width and height.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]cellEntry, cols*rows)
	for i := range cells {
		cells[i] = make([]cellEntry, 0, 8) // pre-allocate small capacity
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		halfW:    width / 2,
		halfH:    height / 2,
		cells:    cells,
	}
}

// Clear removes all particles from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds a particle to the grid at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float32) {
	idx := g.cellIndex(x, y)
	if idx >= 0 && idx < len(g.cells) {
		g.cells[idx] = append(g.cells[idx], cellEntry{e: e, x: x, y: y})
	}
}

// NeighborsInto appends every particle in the 3x3 cell block around (x, y) to
// dst, including the querying particle itself, and returns the updated slice.
// Reuse dst across calls to avoid allocations. Each Neighbor carries the delta
// from (x, y) and its squared length; callers filter by their own radius.
func (g *SpatialGrid) NeighborsInto(dst []Neighbor, x, y float32) []Neighbor {
	centerCol, centerRow := g.cellCoord(x, y)

	for dr := -1; dr <= 1; dr++ {
		row := centerRow + dr
		if row < 0 || row >= g.rows {
			continue
		}
		for dc := -1; dc <= 1; dc++ {
			col := centerCol + dc
			if col < 0 || col >= g.cols {
				continue
			}
			for _, entry := range g.cells[row*g.cols+col] {
				dx := entry.x - x
				dy := entry.y - y
				dst = append(dst, Neighbor{E: entry.e, DX: dx, DY: dy, DistSq: dx*dx + dy*dy})
			}
		}
	}

	return dst
}

// ForEachPair invokes fn once for every unordered pair of particles closer
// than maxDist. Pairs are enumerated per cell against the forward half of the
// neighborhood, so each pair is visited exactly once regardless of insertion
// order. Requires maxDist <= the grid cell size.
// fn receives both handles and the delta (dx, dy) from a to b with its
// squared length.
func (g *SpatialGrid) ForEachPair(maxDist float32, fn func(a, b ecs.Entity, dx, dy, distSq float32)) {
	maxDistSq := maxDist * maxDist

	// Forward half of the 3x3 neighborhood: right, down-left, down, down-right.
	offsets := [4][2]int{{1, 0}, {-1, 1}, {0, 1}, {1, 1}}

	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			cell := g.cells[row*g.cols+col]
			if len(cell) == 0 {
				continue
			}

			// Pairs within the cell.
			for i := 0; i < len(cell); i++ {
				for j := i + 1; j < len(cell); j++ {
					a, b := cell[i], cell[j]
					dx := b.x - a.x
					dy := b.y - a.y
					distSq := dx*dx + dy*dy
					if distSq < maxDistSq {
						fn(a.e, b.e, dx, dy, distSq)
					}
				}
			}

			// Pairs against forward neighbor cells.
			for _, off := range offsets {
				nc, nr := col+off[0], row+off[1]
				if nc < 0 || nc >= g.cols || nr < 0 || nr >= g.rows {
					continue
				}
				other := g.cells[nr*g.cols+nc]
				for _, a := range cell {
					for _, b := range other {
						dx := b.x - a.x
						dy := b.y - a.y
						distSq := dx*dx + dy*dy
						if distSq < maxDistSq {
							fn(a.e, b.e, dx, dy, distSq)
						}
					}
				}
			}
		}
	}
}

// cellCoord returns the clamped (col, row) for a world position.
func (g *SpatialGrid) cellCoord(x, y float32) (int, int) {
	col := int((x + g.halfW) / g.cellSize)
	row := int((y + g.halfH) / g.cellSize)

	// Clamp to valid range
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}

// cellIndex returns the flat index for a world position.
func (g *SpatialGrid) cellIndex(x, y float32) int {
	col, row := g.cellCoord(x, y)
	return row*g.cols + col
}
