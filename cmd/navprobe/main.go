// navprobe loads a level and answers path queries from the command line.
// Useful for tuning the navigation parameters against real layouts without
// booting the game.
//
// Usage:
//
//	navprobe -level 1 -from 10,30 -to 50,30 [-radius 0.4]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vampiredungeon/server/internal/config"
	"github.com/vampiredungeon/server/internal/data"
	"github.com/vampiredungeon/server/internal/nav"
	"github.com/vampiredungeon/server/internal/persist"
	"github.com/vampiredungeon/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "config/server.toml", "config file path")
	listPath := flag.String("levels", "levels/level_list.yaml", "level list path")
	levelDir := flag.String("leveldir", "levels", "level layout directory")
	levelID := flag.Int("level", 1, "level id to load")
	useDB := flag.Bool("db", false, "load the level from the database instead of YAML files")
	from := flag.String("from", "", "start point, x,z")
	to := flag.String("to", "", "end point, x,z")
	radius := flag.Float64("radius", 0, "agent radius in map units")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		if !os.IsNotExist(errors.Unwrap(err)) {
			return err
		}
		cfg = config.Default()
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	start, err := parsePoint(*from)
	if err != nil {
		return fmt.Errorf("bad -from: %w", err)
	}
	end, err := parsePoint(*to)
	if err != nil {
		return fmt.Errorf("bad -to: %w", err)
	}

	var def *data.LevelDef
	if *useDB {
		def, err = loadLevelFromDB(cfg, int16(*levelID), log)
		if err != nil {
			return err
		}
	} else {
		table, err := data.LoadLevelData(*listPath, *levelDir)
		if err != nil {
			return err
		}
		def = table.Get(int16(*levelID))
	}
	if def == nil {
		return fmt.Errorf("level %d not loaded", *levelID)
	}
	log.Info("level loaded",
		zap.Int("level", *levelID),
		zap.String("name", def.Info.Name),
		zap.Int("obstacles", len(def.Obstacles)),
		zap.Int("doors", len(def.Doors)),
		zap.Int("scenery", len(def.Scenery)))

	lvl := world.NewLevel(def, log)
	svc := nav.NewService(lvl.NewGrid(), lvl, cfg.Tunables(), log)
	lvl.OnObstaclesChanged(svc.NotifyObstaclesChanged)

	path := svc.FindPath(start, end, *radius)
	for i, p := range path {
		fmt.Printf("%3d  (%.2f, %.2f)\n", i, p.X, p.Z)
	}
	if svc.LastSearchSuccessful() {
		log.Info("route found", zap.Int("waypoints", len(path)))
	} else {
		log.Warn("no route, fallback returned", zap.Int("waypoints", len(path)))
	}
	return nil
}

func loadLevelFromDB(cfg *config.Config, levelID int16, log *zap.Logger) (*data.LevelDef, error) {
	ctx := context.Background()
	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := persist.RunMigrations(ctx, db.Pool, log); err != nil {
		return nil, err
	}
	return persist.NewLevelRepo(db).LoadLevel(ctx, levelID)
}

func parsePoint(s string) (nav.Vec2, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nav.Vec2{}, fmt.Errorf("want x,z, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nav.Vec2{}, err
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nav.Vec2{}, err
	}
	return nav.Vec2{X: x, Z: z}, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
