package nav

// ClearanceEvaluator measures how far a cell sits from the nearest obstacle
// or grid edge, in cells (Chebyshev distance), within a bounded window. The
// search uses it twice: cells below the agent's safety margin are pruned, and
// cells at minimal clearance get a small cost penalty so routes prefer not to
// hug walls.
type ClearanceEvaluator struct {
	grid   *Grid
	window int
}

func NewClearanceEvaluator(grid *Grid, window int) *ClearanceEvaluator {
	if window < 1 {
		window = 1
	}
	return &ClearanceEvaluator{grid: grid, window: window}
}

// Window returns the bounded search radius.
func (e *ClearanceEvaluator) Window() int { return e.window }

// Clearance returns the Chebyshev distance from the cell to the nearest
// unwalkable cell or grid edge. An unwalkable cell has clearance 0. When
// nothing blocks within the window the window radius itself is returned,
// meaning "at least this clear".
func (e *ClearanceEvaluator) Clearance(gx, gy int) int {
	c := e.grid.CellAt(gx, gy)
	if c == nil || !c.Walkable {
		return 0
	}
	for r := 1; r <= e.window; r++ {
		if e.ringBlocked(gx, gy, r) {
			return r
		}
	}
	return e.window
}

// ringBlocked scans the square ring at Chebyshev radius r. Cells outside the
// grid count as blocked, so clearance degrades toward the map edge.
func (e *ClearanceEvaluator) ringBlocked(gx, gy, r int) bool {
	for dx := -r; dx <= r; dx++ {
		if e.blocked(gx+dx, gy-r) || e.blocked(gx+dx, gy+r) {
			return true
		}
	}
	for dy := -r + 1; dy <= r-1; dy++ {
		if e.blocked(gx-r, gy+dy) || e.blocked(gx+r, gy+dy) {
			return true
		}
	}
	return false
}

func (e *ClearanceEvaluator) blocked(x, y int) bool {
	c := e.grid.CellAt(x, y)
	return c == nil || !c.Walkable
}
