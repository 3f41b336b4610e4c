package nav

import "sort"

// WalkableResolver relocates an invalid or unsafe endpoint to the nearest
// acceptable cell. Candidates expand ring by ring around the input cell,
// ordered by Euclidean distance from the center, up to a bounded radius.
type WalkableResolver struct {
	grid      *Grid
	clearance *ClearanceEvaluator
	offsets   []ringOffset
}

type ringOffset struct {
	dx, dy int
	dist2  int
}

func NewWalkableResolver(grid *Grid, clearance *ClearanceEvaluator, maxRadius int) *WalkableResolver {
	if maxRadius < 1 {
		maxRadius = 1
	}
	// Precompute every offset within the radius bound once, sorted by squared
	// Euclidean distance so the closest candidate always wins.
	offsets := make([]ringOffset, 0, (2*maxRadius+1)*(2*maxRadius+1)-1)
	for dy := -maxRadius; dy <= maxRadius; dy++ {
		for dx := -maxRadius; dx <= maxRadius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			offsets = append(offsets, ringOffset{dx: dx, dy: dy, dist2: dx*dx + dy*dy})
		}
	}
	sort.SliceStable(offsets, func(i, j int) bool {
		return offsets[i].dist2 < offsets[j].dist2
	})
	return &WalkableResolver{grid: grid, clearance: clearance, offsets: offsets}
}

// Resolve returns the nearest cell that is walkable and has clearance of at
// least margin. The input cell itself is considered first. ok is false when
// the radius bound is exhausted without a hit.
func (r *WalkableResolver) Resolve(gx, gy, margin int) (*Cell, bool) {
	if r.acceptable(gx, gy, margin) {
		return r.grid.CellAt(gx, gy), true
	}
	for _, off := range r.offsets {
		nx, ny := gx+off.dx, gy+off.dy
		if r.acceptable(nx, ny, margin) {
			return r.grid.CellAt(nx, ny), true
		}
	}
	return nil, false
}

func (r *WalkableResolver) acceptable(x, y, margin int) bool {
	c := r.grid.CellAt(x, y)
	if c == nil || !c.Walkable {
		return false
	}
	return r.clearance.Clearance(x, y) >= margin
}
