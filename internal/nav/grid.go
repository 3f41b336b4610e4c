package nav

import "math"

// Vec2 is a point on the ground plane in world coordinates.
// The vertical axis is fixed; navigation is strictly 2D.
type Vec2 struct {
	X float64
	Z float64
}

// Path is an ordered list of world-space waypoints. The first element is the
// originally requested start and the last the requested end.
type Path []Vec2

// Obstacle is the single capability every blocking volume exposes: an
// axis-aligned bounding box in world space. Walls, closed doors and
// destructible scenery all implement it uniformly.
type Obstacle interface {
	Bounds() (min, max Vec2)
}

// ObstacleSource supplies the current obstacle set. It is queried on every
// grid rebuild, never cached between rebuilds.
type ObstacleSource interface {
	Obstacles() []Obstacle
}

// FloorTile identifies one walkable grid cell. Sources that know their
// walkable floor area up front can seed the grid with it.
type FloorTile struct {
	X int
	Y int
}

// FloorSource is an optional extension of ObstacleSource. When implemented,
// only the listed tiles start out walkable on a rebuild; otherwise the whole
// grid does.
type FloorSource interface {
	FloorTiles() []FloorTile
}

// Cell is one square of the walkability grid. The gCost/hCost/parent fields
// are per-search scratch, reset before every search; they carry no meaning
// between queries.
type Cell struct {
	X        int
	Y        int
	Walkable bool

	gCost  float64
	hCost  float64
	parent int
}

// Grid owns the walkability state for one level. Dimensions are fixed at
// construction; walkability is replaced wholesale by Rebuild whenever the
// obstacle set changes.
type Grid struct {
	width    int
	height   int
	cellSize float64
	origin   Vec2
	cells    []Cell
}

// NewGrid allocates a grid of width×height cells anchored at origin. All
// cells start walkable.
func NewGrid(width, height int, cellSize float64, origin Vec2) *Grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if cellSize <= 0 {
		cellSize = 1
	}
	g := &Grid{
		width:    width,
		height:   height,
		cellSize: cellSize,
		origin:   origin,
		cells:    make([]Cell, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := &g.cells[y*width+x]
			c.X = x
			c.Y = y
			c.Walkable = true
			c.parent = -1
		}
	}
	return g
}

func (g *Grid) Width() int        { return g.width }
func (g *Grid) Height() int       { return g.height }
func (g *Grid) CellSize() float64 { return g.cellSize }

func (g *Grid) index(x, y int) int {
	return y*g.width + x
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// CellAt returns the cell at grid coordinates, or nil outside the grid.
func (g *Grid) CellAt(x, y int) *Cell {
	if !g.inBounds(x, y) {
		return nil
	}
	return &g.cells[g.index(x, y)]
}

// WorldToGrid maps a world point to the containing cell, clamped to the grid
// bounds. It never fails; callers that need to distinguish out-of-bounds
// points use Locate.
func (g *Grid) WorldToGrid(p Vec2) (int, int) {
	gx := int(math.Floor((p.X - g.origin.X) / g.cellSize))
	gy := int(math.Floor((p.Z - g.origin.Z) / g.cellSize))
	if gx < 0 {
		gx = 0
	} else if gx >= g.width {
		gx = g.width - 1
	}
	if gy < 0 {
		gy = 0
	} else if gy >= g.height {
		gy = g.height - 1
	}
	return gx, gy
}

// Locate maps a world point to grid coordinates without clamping. ok is
// false when the point lies outside the grid.
func (g *Grid) Locate(p Vec2) (int, int, bool) {
	gx := int(math.Floor((p.X - g.origin.X) / g.cellSize))
	gy := int(math.Floor((p.Z - g.origin.Z) / g.cellSize))
	if !g.inBounds(gx, gy) {
		return 0, 0, false
	}
	return gx, gy, true
}

// GridToWorld returns the world-space center of a cell.
func (g *Grid) GridToWorld(x, y int) Vec2 {
	return Vec2{
		X: g.origin.X + (float64(x)+0.5)*g.cellSize,
		Z: g.origin.Z + (float64(y)+0.5)*g.cellSize,
	}
}

// walkableAt reports whether the cell containing the world point is walkable.
// Points outside the grid count as blocked.
func (g *Grid) walkableAt(p Vec2) bool {
	gx, gy, ok := g.Locate(p)
	if !ok {
		return false
	}
	return g.cells[g.index(gx, gy)].Walkable
}

// neighborOffsets covers the 8-connected neighborhood, orthogonals first.
var neighborOffsets = [...]struct {
	dx, dy   int
	diagonal bool
}{
	{0, -1, false},
	{1, 0, false},
	{0, 1, false},
	{-1, 0, false},
	{1, -1, true},
	{1, 1, true},
	{-1, 1, true},
	{-1, -1, true},
}

// Neighbors appends c's walkable 8-connected neighbors to buf and returns
// it. Diagonal neighbors are excluded unless both orthogonally adjacent
// cells are walkable, so routes never cut through a wall corner.
func (g *Grid) Neighbors(c *Cell, buf []*Cell) []*Cell {
	buf = buf[:0]
	for _, off := range neighborOffsets {
		n := g.CellAt(c.X+off.dx, c.Y+off.dy)
		if n == nil || !n.Walkable {
			continue
		}
		if off.diagonal && !g.canStepDiagonal(c.X, c.Y, off.dx, off.dy) {
			continue
		}
		buf = append(buf, n)
	}
	return buf
}

// canStepDiagonal reports whether the diagonal move from (x,y) by (dx,dy) is
// allowed: both orthogonally adjacent cells must be walkable, so routes never
// cut through a wall corner.
func (g *Grid) canStepDiagonal(x, y, dx, dy int) bool {
	side1 := g.CellAt(x+dx, y)
	side2 := g.CellAt(x, y+dy)
	if side1 == nil || side2 == nil {
		return false
	}
	return side1.Walkable && side2.Walkable
}

// Rebuild recomputes walkability from scratch. When floor is non-empty only
// the listed tiles start walkable; every obstacle then marks its covered cell
// range unwalkable. A full rebuild is the only mutation path so that removed
// obstacles (opened doors, destroyed scenery) free their cells again.
func (g *Grid) Rebuild(obstacles []Obstacle, floor []FloorTile) {
	if len(floor) > 0 {
		for i := range g.cells {
			g.cells[i].Walkable = false
		}
		for _, t := range floor {
			if g.inBounds(t.X, t.Y) {
				g.cells[g.index(t.X, t.Y)].Walkable = true
			}
		}
	} else {
		for i := range g.cells {
			g.cells[i].Walkable = true
		}
	}

	maxX := g.origin.X + float64(g.width)*g.cellSize
	maxZ := g.origin.Z + float64(g.height)*g.cellSize
	for _, obs := range obstacles {
		lo, hi := obs.Bounds()
		// Fully outside the grid: skip before WorldToGrid clamps the range
		// onto the border cells.
		if hi.X < g.origin.X || hi.Z < g.origin.Z || lo.X > maxX || lo.Z > maxZ {
			continue
		}
		x0, y0 := g.WorldToGrid(lo)
		x1, y1 := g.WorldToGrid(hi)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				g.cells[g.index(x, y)].Walkable = false
			}
		}
	}
}
