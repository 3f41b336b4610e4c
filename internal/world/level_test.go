package world

import (
	"testing"

	"github.com/vampiredungeon/server/internal/data"
)

func testLevelDef() *data.LevelDef {
	return &data.LevelDef{
		Info: data.LevelInfo{
			LevelID:  1,
			Name:     "crypt",
			Width:    20,
			Height:   20,
			CellSize: 1,
		},
		Obstacles: []data.ObstacleDef{
			{Box: data.Box{MinX: 2, MinZ: 2, MaxX: 3.9, MaxZ: 3.9}},
		},
		Doors: []data.DoorDef{
			{ID: 10, Box: data.Box{MinX: 8, MinZ: 0, MaxX: 8.9, MaxZ: 5.9}},
			{ID: 11, Box: data.Box{MinX: 12, MinZ: 0, MaxX: 12.9, MaxZ: 5.9}, Open: true},
		},
		Scenery: []data.SceneryDef{
			{ID: 20, Box: data.Box{MinX: 15, MinZ: 15, MaxX: 16.9, MaxZ: 16.9}, HP: 30},
		},
	}
}

func TestLevelObstacleSet(t *testing.T) {
	lvl := NewLevel(testLevelDef(), nil)

	// One static, one closed door (the open one is excluded), one intact
	// scenery piece.
	if got := len(lvl.Obstacles()); got != 3 {
		t.Fatalf("expected 3 blocking volumes, got %d", got)
	}
}

func TestLevelDoorToggleFiresHook(t *testing.T) {
	lvl := NewLevel(testLevelDef(), nil)
	fired := 0
	lvl.OnObstaclesChanged(func() { fired++ })

	if !lvl.OpenDoor(10) {
		t.Fatalf("closed door must open")
	}
	if fired != 1 {
		t.Fatalf("opening a door must fire the hook once, got %d", fired)
	}
	if got := len(lvl.Obstacles()); got != 2 {
		t.Fatalf("open door must stop blocking, got %d volumes", got)
	}

	if lvl.OpenDoor(10) {
		t.Fatalf("opening an already-open door must be a no-op")
	}
	if lvl.OpenDoor(99) {
		t.Fatalf("unknown door must be a no-op")
	}
	if fired != 1 {
		t.Fatalf("no-ops must not fire the hook, got %d", fired)
	}

	if !lvl.CloseDoor(10) {
		t.Fatalf("open door must close")
	}
	if fired != 2 {
		t.Fatalf("closing a door must fire the hook, got %d", fired)
	}
}

func TestLevelSceneryDestruction(t *testing.T) {
	lvl := NewLevel(testLevelDef(), nil)
	fired := 0
	lvl.OnObstaclesChanged(func() { fired++ })

	if lvl.DamageScenery(20, 10) {
		t.Fatalf("partial damage must not destroy")
	}
	if fired != 0 {
		t.Fatalf("partial damage must not fire the hook")
	}
	if s := lvl.Scenery(20); s.HP != 20 {
		t.Fatalf("expected 20 hp remaining, got %d", s.HP)
	}

	if !lvl.DamageScenery(20, 25) {
		t.Fatalf("lethal damage must destroy")
	}
	if fired != 1 {
		t.Fatalf("destruction must fire the hook once, got %d", fired)
	}
	if s := lvl.Scenery(20); s.HP != 0 || !s.Destroyed {
		t.Fatalf("destroyed scenery must clamp to 0 hp, got %+v", s)
	}
	if got := len(lvl.Obstacles()); got != 2 {
		t.Fatalf("destroyed scenery must stop blocking, got %d volumes", got)
	}

	if lvl.DamageScenery(20, 5) {
		t.Fatalf("damaging destroyed scenery must be a no-op")
	}
	if lvl.DamageScenery(99, 5) {
		t.Fatalf("unknown scenery must be a no-op")
	}
}

func TestLevelGridMatchesDimensions(t *testing.T) {
	def := testLevelDef()
	def.Info.OriginX = -10
	def.Info.OriginZ = -10
	def.Info.CellSize = 2
	lvl := NewLevel(def, nil)

	g := lvl.NewGrid()
	if g.CellAt(19, 19) == nil {
		t.Fatalf("grid must cover the level dimensions")
	}
	if g.CellAt(20, 0) != nil {
		t.Fatalf("grid must not exceed the level width")
	}
	if p := g.GridToWorld(0, 0); p.X != -9 || p.Z != -9 {
		t.Fatalf("grid must honor the level origin, got %v", p)
	}
}
