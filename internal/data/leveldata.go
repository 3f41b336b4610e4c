package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LevelInfo holds metadata for a single dungeon level, loaded from
// level_list.yaml.
type LevelInfo struct {
	LevelID  int16   `yaml:"level_id"`
	Name     string  `yaml:"name"`
	OriginX  float64 `yaml:"origin_x"`
	OriginZ  float64 `yaml:"origin_z"`
	Width    int     `yaml:"width"`  // cells
	Height   int     `yaml:"height"` // cells
	CellSize float64 `yaml:"cell_size"`
}

// Box is an axis-aligned bounding volume on the ground plane.
type Box struct {
	MinX float64 `yaml:"min_x"`
	MinZ float64 `yaml:"min_z"`
	MaxX float64 `yaml:"max_x"`
	MaxZ float64 `yaml:"max_z"`
}

// ObstacleDef is a static blocking volume (wall, pillar, furniture).
type ObstacleDef struct {
	ID  int32 `yaml:"id"`
	Box Box   `yaml:"box"`
}

// DoorDef is a toggleable obstacle. Open doors do not block.
type DoorDef struct {
	ID   int32 `yaml:"id"`
	Box  Box   `yaml:"box"`
	Open bool  `yaml:"open"`
}

// SceneryDef is destructible scenery; it stops blocking once its hit points
// reach zero.
type SceneryDef struct {
	ID  int32 `yaml:"id"`
	Box Box   `yaml:"box"`
	HP  int32 `yaml:"hp"`
}

// FloorTileDef seeds one walkable cell. Levels that enumerate their floor
// start with everything else unwalkable.
type FloorTileDef struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// LevelDef is one level's complete layout.
type LevelDef struct {
	Info      LevelInfo
	Obstacles []ObstacleDef
	Doors     []DoorDef
	Scenery   []SceneryDef
	Floor     []FloorTileDef
}

// LevelTable provides level layout lookups.
type LevelTable struct {
	levels map[int16]*LevelDef
}

type levelListFile struct {
	Levels []LevelInfo `yaml:"levels"`
}

type levelPayloadFile struct {
	Obstacles []ObstacleDef  `yaml:"obstacles"`
	Doors     []DoorDef      `yaml:"doors"`
	Scenery   []SceneryDef   `yaml:"scenery"`
	Floor     []FloorTileDef `yaml:"floor"`
}

// LoadLevelData loads level metadata from YAML and per-level layout files.
// yamlPath: path to level_list.yaml
// levelDir: directory containing {levelid}.yaml layout files
func LoadLevelData(yamlPath, levelDir string) (*LevelTable, error) {
	raw, err := os.ReadFile(yamlPath)
	if err != nil {
		return nil, fmt.Errorf("read level list %s: %w", yamlPath, err)
	}
	var file levelListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse level list: %w", err)
	}

	table := &LevelTable{
		levels: make(map[int16]*LevelDef, len(file.Levels)),
	}

	for _, info := range file.Levels {
		if info.Width <= 0 || info.Height <= 0 {
			continue
		}
		if info.CellSize <= 0 {
			info.CellSize = 1
		}

		payload, err := loadLevelFile(levelDir, int(info.LevelID))
		if err != nil {
			// Layout file missing is non-fatal — skip the level
			continue
		}

		table.levels[info.LevelID] = &LevelDef{
			Info:      info,
			Obstacles: payload.Obstacles,
			Doors:     payload.Doors,
			Scenery:   payload.Scenery,
			Floor:     payload.Floor,
		}
	}

	return table, nil
}

func loadLevelFile(dir string, levelID int) (*levelPayloadFile, error) {
	path := filepath.Join(dir, strconv.Itoa(levelID)+".yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payload levelPayloadFile
	if err := yaml.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse level %d: %w", levelID, err)
	}
	return &payload, nil
}

// Count returns the number of levels loaded with layout data.
func (t *LevelTable) Count() int {
	return len(t.levels)
}

// Get returns a level's layout, or nil if not found.
func (t *LevelTable) Get(levelID int16) *LevelDef {
	return t.levels[levelID]
}
