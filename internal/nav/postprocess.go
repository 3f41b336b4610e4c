package nav

import "math"

// PostProcessor turns the raw cell-aligned route into a short, smooth
// waypoint list. Stages run in fixed order: direct-connect shortcut,
// line-of-sight smoothing, turn filtering, corner rounding, density
// resampling. The first and last points of the result are always forced to
// the true requested endpoints, not cell centers.
type PostProcessor struct {
	grid *Grid

	sampleSpacing float64
	minSamples    int
	turnThreshold float64 // radians
	cornerAngle   float64 // radians
	cornerOffset  float64
	maxSegment    float64
}

func NewPostProcessor(grid *Grid, tun Tunables) *PostProcessor {
	return &PostProcessor{
		grid:          grid,
		sampleSpacing: tun.SampleSpacing,
		minSamples:    tun.MinSamples,
		turnThreshold: tun.TurnThresholdDeg * math.Pi / 180,
		cornerAngle:   tun.CornerThresholdDeg * math.Pi / 180,
		cornerOffset:  tun.CornerOffset,
		maxSegment:    tun.MaxSegmentLength,
	}
}

// Process simplifies raw into the final Path between the true endpoints.
func (p *PostProcessor) Process(raw []Vec2, start, end Vec2) Path {
	if p.segmentClear(start, end) {
		return Path{start, end}
	}

	pts := make([]Vec2, 0, len(raw)+2)
	pts = append(pts, start)
	pts = append(pts, raw...)
	pts = append(pts, end)

	pts = p.stringPull(pts)
	pts = p.filterTurns(pts)
	pts = p.roundCorners(pts)
	pts = p.resample(pts)

	pts[0] = start
	pts[len(pts)-1] = end
	return Path(pts)
}

// segmentClear samples the straight segment at fixed spacing (at least
// minSamples points) and reports whether every sample lands on a walkable
// cell.
func (p *PostProcessor) segmentClear(a, b Vec2) bool {
	length := dist(a, b)
	steps := int(length/p.sampleSpacing) + 1
	if steps < p.minSamples {
		steps = p.minSamples
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		sample := Vec2{
			X: a.X + (b.X-a.X)*t,
			Z: a.Z + (b.Z-a.Z)*t,
		}
		if !p.grid.walkableAt(sample) {
			return false
		}
	}
	return true
}

// stringPull drops every waypoint that a collision-free straight segment can
// skip: from the current point it jumps to the farthest later point still in
// line of sight and repeats from there.
func (p *PostProcessor) stringPull(pts []Vec2) []Vec2 {
	if len(pts) <= 2 {
		return pts
	}
	out := []Vec2{pts[0]}
	i := 0
	for i < len(pts)-1 {
		next := i + 1
		for j := len(pts) - 1; j > next; j-- {
			if p.segmentClear(pts[i], pts[j]) {
				next = j
				break
			}
		}
		out = append(out, pts[next])
		i = next
	}
	return out
}

// filterTurns removes nearly-collinear interior points: a point survives only
// when its incoming and outgoing directions differ by more than the turn
// threshold.
func (p *PostProcessor) filterTurns(pts []Vec2) []Vec2 {
	if len(pts) <= 2 {
		return pts
	}
	out := []Vec2{pts[0]}
	for i := 1; i < len(pts)-1; i++ {
		if turnAngle(out[len(out)-1], pts[i], pts[i+1]) > p.turnThreshold {
			out = append(out, pts[i])
		}
	}
	out = append(out, pts[len(pts)-1])
	return out
}

// roundCorners inserts a lead-in and lead-out point around sharp corners so a
// movement controller can interpolate the turn instead of pivoting in place.
// Purely cosmetic: the corner point itself stays.
func (p *PostProcessor) roundCorners(pts []Vec2) []Vec2 {
	if len(pts) <= 2 || p.cornerOffset <= 0 {
		return pts
	}
	out := make([]Vec2, 0, len(pts))
	out = append(out, pts[0])
	for i := 1; i < len(pts)-1; i++ {
		prev, cur, next := pts[i-1], pts[i], pts[i+1]
		if turnAngle(prev, cur, next) <= p.cornerAngle {
			out = append(out, cur)
			continue
		}
		// Offset is capped at half the adjoining segment so the inserted
		// points never overshoot a neighbor waypoint.
		before := offsetToward(cur, prev, math.Min(p.cornerOffset, dist(cur, prev)*0.5))
		after := offsetToward(cur, next, math.Min(p.cornerOffset, dist(cur, next)*0.5))
		out = append(out, before, cur, after)
	}
	out = append(out, pts[len(pts)-1])
	return out
}

// resample splits any segment longer than the maximum into evenly spaced
// pieces so steering code downstream receives a steady stream of waypoints.
func (p *PostProcessor) resample(pts []Vec2) []Vec2 {
	if len(pts) < 2 || p.maxSegment <= 0 {
		return pts
	}
	out := []Vec2{pts[0]}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		length := dist(a, b)
		if length > p.maxSegment {
			pieces := int(math.Ceil(length / p.maxSegment))
			for k := 1; k < pieces; k++ {
				t := float64(k) / float64(pieces)
				out = append(out, Vec2{X: a.X + (b.X-a.X)*t, Z: a.Z + (b.Z-a.Z)*t})
			}
		}
		out = append(out, b)
	}
	return out
}

func dist(a, b Vec2) float64 {
	return math.Hypot(b.X-a.X, b.Z-a.Z)
}

// turnAngle returns the angle between the incoming and outgoing directions at
// cur, in radians. Degenerate zero-length segments turn by nothing.
func turnAngle(prev, cur, next Vec2) float64 {
	in := Vec2{X: cur.X - prev.X, Z: cur.Z - prev.Z}
	out := Vec2{X: next.X - cur.X, Z: next.Z - cur.Z}
	li := math.Hypot(in.X, in.Z)
	lo := math.Hypot(out.X, out.Z)
	if li == 0 || lo == 0 {
		return 0
	}
	cos := (in.X*out.X + in.Z*out.Z) / (li * lo)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// offsetToward returns the point at the given distance from `from` along the
// direction to `to`.
func offsetToward(from, to Vec2, distance float64) Vec2 {
	d := dist(from, to)
	if d == 0 {
		return from
	}
	t := distance / d
	return Vec2{X: from.X + (to.X-from.X)*t, Z: from.Z + (to.Z-from.Z)*t}
}
