package nav

import "testing"

// boxObs is the test obstacle: a plain AABB.
type boxObs struct {
	minX, minZ, maxX, maxZ float64
}

func (b boxObs) Bounds() (Vec2, Vec2) {
	return Vec2{X: b.minX, Z: b.minZ}, Vec2{X: b.maxX, Z: b.maxZ}
}

// staticSource feeds a fixed obstacle set and counts rebuild pulls.
type staticSource struct {
	obs   []Obstacle
	floor []FloorTile
	pulls int
}

func (s *staticSource) Obstacles() []Obstacle {
	s.pulls++
	return s.obs
}

func (s *staticSource) FloorTiles() []FloorTile { return s.floor }

func TestWorldToGridClampsToBounds(t *testing.T) {
	g := NewGrid(10, 10, 1, Vec2{})

	cases := []struct {
		p      Vec2
		gx, gy int
	}{
		{Vec2{X: 0.5, Z: 0.5}, 0, 0},
		{Vec2{X: 9.9, Z: 9.9}, 9, 9},
		{Vec2{X: -5, Z: 3.2}, 0, 3},
		{Vec2{X: 42, Z: -1}, 9, 0},
		{Vec2{X: 10, Z: 10}, 9, 9},
	}
	for _, c := range cases {
		gx, gy := g.WorldToGrid(c.p)
		if gx != c.gx || gy != c.gy {
			t.Fatalf("WorldToGrid(%v): got (%d,%d), want (%d,%d)", c.p, gx, gy, c.gx, c.gy)
		}
	}
}

func TestGridToWorldReturnsCellCenter(t *testing.T) {
	g := NewGrid(10, 10, 2, Vec2{X: -10, Z: -10})
	p := g.GridToWorld(0, 0)
	if p.X != -9 || p.Z != -9 {
		t.Fatalf("expected cell center (-9,-9), got (%v,%v)", p.X, p.Z)
	}
	p = g.GridToWorld(4, 7)
	if p.X != -1 || p.Z != 5 {
		t.Fatalf("expected cell center (-1,5), got (%v,%v)", p.X, p.Z)
	}
}

func TestCellAtOutsideBoundsIsNil(t *testing.T) {
	g := NewGrid(5, 5, 1, Vec2{})
	if g.CellAt(-1, 0) != nil || g.CellAt(0, -1) != nil || g.CellAt(5, 0) != nil || g.CellAt(0, 5) != nil {
		t.Fatalf("out-of-bounds CellAt must return nil")
	}
	if g.CellAt(4, 4) == nil {
		t.Fatalf("in-bounds CellAt must not return nil")
	}
}

func TestRebuildMarksAndFreesObstacleCells(t *testing.T) {
	g := NewGrid(10, 10, 1, Vec2{})
	g.Rebuild([]Obstacle{boxObs{minX: 2, minZ: 2, maxX: 3.9, maxZ: 3.9}}, nil)

	for y := 2; y <= 3; y++ {
		for x := 2; x <= 3; x++ {
			if g.CellAt(x, y).Walkable {
				t.Fatalf("cell (%d,%d) should be blocked", x, y)
			}
		}
	}
	if !g.CellAt(1, 2).Walkable || !g.CellAt(4, 3).Walkable {
		t.Fatalf("cells outside the obstacle must stay walkable")
	}

	// Obstacle removed: the full rebuild frees its cells again.
	g.Rebuild(nil, nil)
	for i := range g.cells {
		if !g.cells[i].Walkable {
			t.Fatalf("cell %d still blocked after obstacle removal", i)
		}
	}
}

func TestRebuildSkipsObstaclesOutsideGrid(t *testing.T) {
	g := NewGrid(10, 10, 1, Vec2{})
	g.Rebuild([]Obstacle{boxObs{minX: -30, minZ: -30, maxX: -20, maxZ: -20}}, nil)
	for i := range g.cells {
		if !g.cells[i].Walkable {
			t.Fatalf("fully-outside obstacle must not block any cell")
		}
	}
}

func TestRebuildWithFloorSeeds(t *testing.T) {
	g := NewGrid(10, 10, 1, Vec2{})
	floor := []FloorTile{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 1}}
	g.Rebuild(nil, floor)

	if !g.CellAt(1, 1).Walkable || !g.CellAt(1, 2).Walkable || !g.CellAt(2, 1).Walkable {
		t.Fatalf("seeded floor tiles must be walkable")
	}
	if g.CellAt(5, 5).Walkable {
		t.Fatalf("unseeded cells must start unwalkable when floor is given")
	}
}

func TestNeighborsPreventCornerCut(t *testing.T) {
	g := NewGrid(5, 5, 1, Vec2{})
	// Wall corner: (2,1) and (1,2) blocked, diagonal (2,2) open.
	g.CellAt(2, 1).Walkable = false
	g.CellAt(1, 2).Walkable = false

	var buf []*Cell
	buf = g.Neighbors(g.CellAt(1, 1), buf)
	for _, n := range buf {
		if n.X == 2 && n.Y == 2 {
			t.Fatalf("diagonal step through blocked corner must be excluded")
		}
	}

	// One of the two orthogonal cells open again: the diagonal is allowed.
	g.CellAt(2, 1).Walkable = true
	g.CellAt(1, 2).Walkable = true
	buf = g.Neighbors(g.CellAt(1, 1), buf)
	found := false
	for _, n := range buf {
		if n.X == 2 && n.Y == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagonal step with both sides open must be included")
	}
}

func TestNeighborsAtGridCorner(t *testing.T) {
	g := NewGrid(5, 5, 1, Vec2{})
	buf := g.Neighbors(g.CellAt(0, 0), nil)
	if len(buf) != 3 {
		t.Fatalf("corner cell should have 3 neighbors, got %d", len(buf))
	}
}
