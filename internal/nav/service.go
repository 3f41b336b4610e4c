package nav

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Service is the public navigation facade. It coordinates grid freshness,
// endpoint resolution, the A* search, fallback generation and path
// post-processing behind three calls: FindPath, NotifyObstaclesChanged and
// LastSearchSuccessful.
//
// A query never fails outward: when no real route exists the caller still
// receives a best-effort fallback path and can react to
// LastSearchSuccessful() == false.
type Service struct {
	mu sync.Mutex

	grid      *Grid
	source    ObstacleSource
	clearance *ClearanceEvaluator
	resolver  *WalkableResolver
	search    *Search
	post      *PostProcessor
	fallback  *FallbackGenerator

	dirty    bool
	failures int
	lastOK   bool

	log *zap.Logger
}

// NewService wires the navigation stack around one grid and one obstacle
// source. The grid is built lazily on the first query.
func NewService(grid *Grid, source ObstacleSource, tun Tunables, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	clearance := NewClearanceEvaluator(grid, tun.ClearanceWindow)
	return &Service{
		grid:      grid,
		source:    source,
		clearance: clearance,
		resolver:  NewWalkableResolver(grid, clearance, tun.ResolveRadius),
		search:    NewSearch(grid, clearance, tun),
		post:      NewPostProcessor(grid, tun),
		fallback:  NewFallbackGenerator(tun.FallbackDetour, rand.New(rand.NewSource(time.Now().UnixNano()))),
		dirty:     true,
		log:       log.With(zap.String("component", "nav")),
	}
}

// NotifyObstaclesChanged marks the grid dirty. The rebuild itself is
// deferred to the next query: obstacle changes are rare relative to queries,
// and a lazy rebuild coalesces bursts of them.
func (s *Service) NotifyObstaclesChanged() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// LastSearchSuccessful reports whether the most recent FindPath found a real
// route (as opposed to returning a fallback).
func (s *Service) LastSearchSuccessful() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOK
}

// FindPath computes a route from start to end for an agent of the given
// radius. The returned path always begins at start and ends at end.
func (s *Service) FindPath(start, end Vec2, agentRadius float64) Path {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dirty {
		s.rebuild()
	}

	// Degenerate query: nothing to search.
	if start == end {
		s.lastOK = true
		s.failures = 0
		return Path{start, end}
	}

	margin := 0
	if agentRadius > 0 {
		margin = int(math.Ceil(agentRadius / s.grid.cellSize))
	}
	// Clearance saturates at the window radius ("at least this clear"), so a
	// larger margin would prune every cell.
	if margin > s.clearance.Window() {
		margin = s.clearance.Window()
	}

	startCell, ok := s.resolveEndpoint(start, margin)
	if !ok {
		return s.fail(start, end, "start")
	}
	goalCell, ok := s.resolveEndpoint(end, margin)
	if !ok {
		return s.fail(start, end, "goal")
	}

	raw := s.search.Run(startCell, goalCell, margin)
	if len(raw) == 0 && margin > 0 {
		// One retry without the safety margin before giving up.
		raw = s.search.Run(startCell, goalCell, 0)
	}
	if len(raw) == 0 {
		return s.fail(start, end, "search")
	}

	s.lastOK = true
	s.failures = 0
	return s.post.Process(raw, start, end)
}

// resolveEndpoint maps a world point to an acceptable cell, relocating it
// through the resolver when the direct cell is unwalkable or under-margin.
func (s *Service) resolveEndpoint(p Vec2, margin int) (*Cell, bool) {
	gx, gy := s.grid.WorldToGrid(p)
	cell := s.grid.CellAt(gx, gy)
	if cell.Walkable && s.clearance.Clearance(gx, gy) >= margin {
		return cell, true
	}
	resolved, ok := s.resolver.Resolve(gx, gy, margin)
	if ok {
		s.log.Debug("endpoint relocated",
			zap.Int("from_x", gx), zap.Int("from_y", gy),
			zap.Int("to_x", resolved.X), zap.Int("to_y", resolved.Y))
	}
	return resolved, ok
}

func (s *Service) fail(start, end Vec2, stage string) Path {
	s.failures++
	s.lastOK = false
	s.log.Debug("falling back",
		zap.String("stage", stage),
		zap.Int("consecutive_failures", s.failures))
	return s.fallback.Generate(start, end, s.failures)
}

// rebuild replaces the grid's walkability from the current obstacle set.
// Always a full rebuild so removed obstacles free their cells.
func (s *Service) rebuild() {
	began := time.Now()
	obstacles := s.source.Obstacles()
	var floor []FloorTile
	if fs, ok := s.source.(FloorSource); ok {
		floor = fs.FloorTiles()
	}
	s.grid.Rebuild(obstacles, floor)
	s.dirty = false
	s.log.Debug("grid rebuilt",
		zap.Int("obstacles", len(obstacles)),
		zap.Int("floor_tiles", len(floor)),
		zap.Duration("took", time.Since(began)))
}
