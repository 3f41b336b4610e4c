package world

import (
	"go.uber.org/zap"

	"github.com/vampiredungeon/server/internal/data"
	"github.com/vampiredungeon/server/internal/nav"
)

// Door is a toggleable obstacle instance. Closed doors block; open doors
// contribute nothing to the grid.
type Door struct {
	ID   int32
	Box  data.Box
	Open bool
}

// Scenery is a destructible obstacle instance (crates, coffins, barricades).
// It stops blocking once destroyed.
type Scenery struct {
	ID        int32
	Box       data.Box
	HP        int32
	Destroyed bool
}

// Level owns the runtime obstacle state for one dungeon level and feeds it to
// the navigation grid. Every mutation that changes the blocking set fires the
// registered changed-hook, which callers wire to the navigation service's
// NotifyObstaclesChanged.
type Level struct {
	info      data.LevelInfo
	obstacles []data.ObstacleDef
	floor     []nav.FloorTile
	doors     map[int32]*Door
	scenery   map[int32]*Scenery

	onChanged func()
	log       *zap.Logger
}

// NewLevel builds the runtime state from a loaded level definition.
func NewLevel(def *data.LevelDef, log *zap.Logger) *Level {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Level{
		info:      def.Info,
		obstacles: def.Obstacles,
		doors:     make(map[int32]*Door, len(def.Doors)),
		scenery:   make(map[int32]*Scenery, len(def.Scenery)),
		log:       log.With(zap.Int16("level", def.Info.LevelID)),
	}
	for _, t := range def.Floor {
		l.floor = append(l.floor, nav.FloorTile{X: t.X, Y: t.Y})
	}
	for _, d := range def.Doors {
		l.doors[d.ID] = &Door{ID: d.ID, Box: d.Box, Open: d.Open}
	}
	for _, s := range def.Scenery {
		l.scenery[s.ID] = &Scenery{ID: s.ID, Box: s.Box, HP: s.HP, Destroyed: s.HP <= 0}
	}
	return l
}

// NewGrid allocates the navigation grid matching this level's dimensions.
func (l *Level) NewGrid() *nav.Grid {
	return nav.NewGrid(l.info.Width, l.info.Height, l.info.CellSize,
		nav.Vec2{X: l.info.OriginX, Z: l.info.OriginZ})
}

// OnObstaclesChanged registers the hook fired after any blocking change.
func (l *Level) OnObstaclesChanged(fn func()) {
	l.onChanged = fn
}

// Obstacles returns the current blocking set: static volumes, closed doors
// and intact scenery.
func (l *Level) Obstacles() []nav.Obstacle {
	out := make([]nav.Obstacle, 0, len(l.obstacles)+len(l.doors)+len(l.scenery))
	for i := range l.obstacles {
		out = append(out, boxObstacle(l.obstacles[i].Box))
	}
	for _, d := range l.doors {
		if !d.Open {
			out = append(out, boxObstacle(d.Box))
		}
	}
	for _, s := range l.scenery {
		if !s.Destroyed {
			out = append(out, boxObstacle(s.Box))
		}
	}
	return out
}

// FloorTiles seeds the grid when the level enumerates its walkable floor.
func (l *Level) FloorTiles() []nav.FloorTile {
	return l.floor
}

// OpenDoor opens a door and invalidates the grid. Reports whether anything
// changed.
func (l *Level) OpenDoor(id int32) bool {
	d := l.doors[id]
	if d == nil || d.Open {
		return false
	}
	d.Open = true
	l.log.Debug("door opened", zap.Int32("door", id))
	l.notifyChanged()
	return true
}

// CloseDoor closes a door and invalidates the grid.
func (l *Level) CloseDoor(id int32) bool {
	d := l.doors[id]
	if d == nil || !d.Open {
		return false
	}
	d.Open = false
	l.log.Debug("door closed", zap.Int32("door", id))
	l.notifyChanged()
	return true
}

// Door returns a door instance, or nil if unknown.
func (l *Level) Door(id int32) *Door {
	return l.doors[id]
}

// DamageScenery applies damage to destructible scenery. The obstacle set
// only changes (and the hook only fires) when the piece is destroyed.
func (l *Level) DamageScenery(id, dmg int32) bool {
	s := l.scenery[id]
	if s == nil || s.Destroyed {
		return false
	}
	s.HP -= dmg
	if s.HP > 0 {
		return false
	}
	s.HP = 0
	s.Destroyed = true
	l.log.Debug("scenery destroyed", zap.Int32("scenery", id))
	l.notifyChanged()
	return true
}

// Scenery returns a scenery instance, or nil if unknown.
func (l *Level) Scenery(id int32) *Scenery {
	return l.scenery[id]
}

func (l *Level) notifyChanged() {
	if l.onChanged != nil {
		l.onChanged()
	}
}

// boxObstacle adapts a data.Box to the nav obstacle capability.
type boxObstacle data.Box

func (b boxObstacle) Bounds() (min, max nav.Vec2) {
	return nav.Vec2{X: b.MinX, Z: b.MinZ}, nav.Vec2{X: b.MaxX, Z: b.MaxZ}
}
