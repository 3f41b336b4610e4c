package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vampiredungeon/server/internal/data"
)

// LevelRepo loads level layouts from Postgres and writes runtime door and
// scenery state back. Computed paths are never persisted; only the obstacle
// layout and its mutable state live here.
type LevelRepo struct {
	db *DB
}

func NewLevelRepo(db *DB) *LevelRepo {
	return &LevelRepo{db: db}
}

// LoadLevel assembles a full level definition from the levels,
// level_obstacles, level_doors and level_scenery tables. Returns nil without
// error when the level id is unknown.
func (r *LevelRepo) LoadLevel(ctx context.Context, levelID int16) (*data.LevelDef, error) {
	var def data.LevelDef
	err := r.db.Pool.QueryRow(ctx,
		`SELECT level_id, name, origin_x, origin_z, width, height, cell_size
		   FROM levels WHERE level_id = $1`,
		levelID,
	).Scan(&def.Info.LevelID, &def.Info.Name, &def.Info.OriginX, &def.Info.OriginZ,
		&def.Info.Width, &def.Info.Height, &def.Info.CellSize)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load level %d: %w", levelID, err)
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, min_x, min_z, max_x, max_z
		   FROM level_obstacles WHERE level_id = $1 ORDER BY id`,
		levelID)
	if err != nil {
		return nil, fmt.Errorf("load obstacles %d: %w", levelID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var o data.ObstacleDef
		if err := rows.Scan(&o.ID, &o.Box.MinX, &o.Box.MinZ, &o.Box.MaxX, &o.Box.MaxZ); err != nil {
			return nil, fmt.Errorf("scan obstacle: %w", err)
		}
		def.Obstacles = append(def.Obstacles, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate obstacles: %w", err)
	}

	doorRows, err := r.db.Pool.Query(ctx,
		`SELECT id, min_x, min_z, max_x, max_z, open
		   FROM level_doors WHERE level_id = $1 ORDER BY id`,
		levelID)
	if err != nil {
		return nil, fmt.Errorf("load doors %d: %w", levelID, err)
	}
	defer doorRows.Close()
	for doorRows.Next() {
		var d data.DoorDef
		if err := doorRows.Scan(&d.ID, &d.Box.MinX, &d.Box.MinZ, &d.Box.MaxX, &d.Box.MaxZ, &d.Open); err != nil {
			return nil, fmt.Errorf("scan door: %w", err)
		}
		def.Doors = append(def.Doors, d)
	}
	if err := doorRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate doors: %w", err)
	}

	sceneryRows, err := r.db.Pool.Query(ctx,
		`SELECT id, min_x, min_z, max_x, max_z, hp
		   FROM level_scenery WHERE level_id = $1 ORDER BY id`,
		levelID)
	if err != nil {
		return nil, fmt.Errorf("load scenery %d: %w", levelID, err)
	}
	defer sceneryRows.Close()
	for sceneryRows.Next() {
		var s data.SceneryDef
		if err := sceneryRows.Scan(&s.ID, &s.Box.MinX, &s.Box.MinZ, &s.Box.MaxX, &s.Box.MaxZ, &s.HP); err != nil {
			return nil, fmt.Errorf("scan scenery: %w", err)
		}
		def.Scenery = append(def.Scenery, s)
	}
	if err := sceneryRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenery: %w", err)
	}

	return &def, nil
}

// SaveDoorState writes a door's open flag back.
func (r *LevelRepo) SaveDoorState(ctx context.Context, levelID int16, doorID int32, open bool) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE level_doors SET open = $3 WHERE level_id = $1 AND id = $2`,
		levelID, doorID, open)
	if err != nil {
		return fmt.Errorf("save door %d/%d: %w", levelID, doorID, err)
	}
	return nil
}

// SaveSceneryState writes a scenery piece's remaining hit points back.
func (r *LevelRepo) SaveSceneryState(ctx context.Context, levelID int16, sceneryID, hp int32) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE level_scenery SET hp = $3 WHERE level_id = $1 AND id = $2`,
		levelID, sceneryID, hp)
	if err != nil {
		return fmt.Errorf("save scenery %d/%d: %w", levelID, sceneryID, err)
	}
	return nil
}
