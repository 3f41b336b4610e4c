package nav

import (
	"math"
	"math/rand"
	"testing"
)

func TestFallbackStraightLineOnFirstFailures(t *testing.T) {
	fb := NewFallbackGenerator(5, nil)
	start := Vec2{X: 1, Z: 2}
	end := Vec2{X: 9, Z: 4}

	for _, failures := range []int{0, 1} {
		path := fb.Generate(start, end, failures)
		if len(path) != 2 {
			t.Fatalf("failures=%d: expected direct path, got %v", failures, path)
		}
		if path[0] != start || path[1] != end {
			t.Fatalf("failures=%d: fallback must connect the exact endpoints, got %v", failures, path)
		}
	}
}

func TestFallbackDetoursAfterRepeatedFailures(t *testing.T) {
	fb := NewFallbackGenerator(5, rand.New(rand.NewSource(42)))
	start := Vec2{X: 0, Z: 0}
	end := Vec2{X: 10, Z: 0}

	path := fb.Generate(start, end, 2)
	if len(path) != 3 {
		t.Fatalf("expected a detour waypoint, got %v", path)
	}
	if path[0] != start || path[2] != end {
		t.Fatalf("detour path must keep the exact endpoints, got %v", path)
	}

	mid := path[1]
	offX := mid.X - 5
	offZ := mid.Z - 0
	// The offset is perpendicular to start->end, so it has no component
	// along the segment.
	dot := offX*(end.X-start.X) + offZ*(end.Z-start.Z)
	if math.Abs(dot) > 1e-9 {
		t.Fatalf("detour offset is not perpendicular to the segment: %v", mid)
	}
	if mag := math.Hypot(offX, offZ); mag > 5 {
		t.Fatalf("detour magnitude %v exceeds the configured bound", mag)
	}
}

func TestFallbackDetourIsBoundedOverManyDraws(t *testing.T) {
	fb := NewFallbackGenerator(2, rand.New(rand.NewSource(7)))
	start := Vec2{X: 3, Z: 3}
	end := Vec2{X: 3, Z: 13}

	for i := 0; i < 100; i++ {
		path := fb.Generate(start, end, 5)
		if len(path) != 3 {
			t.Fatalf("expected 3 points, got %v", path)
		}
		mid := path[1]
		if math.Abs(mid.Z-8) > 1e-9 {
			t.Fatalf("offset must stay perpendicular to the vertical segment, got %v", mid)
		}
		if math.Abs(mid.X-3) > 2 {
			t.Fatalf("draw %d: detour %v exceeds bound 2", i, mid)
		}
	}
}

func TestFallbackDegenerateSegment(t *testing.T) {
	fb := NewFallbackGenerator(4, rand.New(rand.NewSource(1)))
	p := Vec2{X: 5, Z: 5}

	path := fb.Generate(p, p, 3)
	if len(path) != 3 {
		t.Fatalf("expected 3 points, got %v", path)
	}
	if path[0] != p || path[2] != p {
		t.Fatalf("endpoints must be preserved, got %v", path)
	}
	// With a zero-length segment the perpendicular defaults to the X axis.
	if path[1].Z != 5 {
		t.Fatalf("degenerate detour should stay on the X axis, got %v", path[1])
	}
}
