package impulse

import "math"

// DefaultCellSize is the spatial grid cell edge length. Level data mixes
// pixel and physical scales; 100 units keeps typical bodies within a few
// cells either way.
const DefaultCellSize = 100.0

// SpatialGrid is a uniform hash grid over body AABBs, used to prune
// pairwise collision checks. It is cleared and rebuilt from scratch every
// detection pass; there is no incremental update.
type SpatialGrid struct {
	cellSize float64
	cells    map[uint64][]*Body
}

func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[uint64][]*Body),
	}
}

func (g *SpatialGrid) CellSize() float64 { return g.cellSize }

// Clear empties every cell, keeping allocated buckets for reuse.
func (g *SpatialGrid) Clear() {
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
}

// Insert places the body into every cell its AABB spans.
func (g *SpatialGrid) Insert(b *Body) {
	bounds := b.Bounds()
	minX, minY := g.cellIndex(bounds.Min.X), g.cellIndex(bounds.Min.Y)
	maxX, maxY := g.cellIndex(bounds.Max.X), g.cellIndex(bounds.Max.Y)

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			key := g.hashKey(x, y)
			g.cells[key] = append(g.cells[key], b)
		}
	}
}

// Query returns the de-duplicated set of bodies sharing at least one cell
// with the given body's AABB, excluding the body itself. Only bodies
// inserted since the last Clear are visible.
func (g *SpatialGrid) Query(b *Body) []*Body {
	bounds := b.Bounds()
	minX, minY := g.cellIndex(bounds.Min.X), g.cellIndex(bounds.Min.Y)
	maxX, maxY := g.cellIndex(bounds.Max.X), g.cellIndex(bounds.Max.Y)

	seen := make(map[*Body]struct{})
	var results []*Body

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for _, other := range g.cells[g.hashKey(x, y)] {
				if other == b {
					continue
				}
				if _, ok := seen[other]; ok {
					continue
				}
				seen[other] = struct{}{}
				results = append(results, other)
			}
		}
	}
	return results
}

func (g *SpatialGrid) cellIndex(pos float64) int {
	return int(math.Floor(pos / g.cellSize))
}

// hashKey mixes the 2D cell coordinate with large primes.
func (g *SpatialGrid) hashKey(x, y int) uint64 {
	const p1 = 73856093
	const p2 = 19349663
	return uint64(x*p1 ^ y*p2)
}
