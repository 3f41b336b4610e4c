package nav

import (
	"math"
	"math/rand"
)

// FallbackGenerator guarantees a non-empty route when the search fails, so
// navigation never stalls the game loop. The result is not validated against
// the grid and may cross obstacles; callers see the failure through the
// service's succeeded flag.
type FallbackGenerator struct {
	maxDetour float64
	rng       *rand.Rand
}

func NewFallbackGenerator(maxDetour float64, rng *rand.Rand) *FallbackGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &FallbackGenerator{maxDetour: maxDetour, rng: rng}
}

// Generate returns at least [start, end]. After repeated failures for the
// same route it adds a midpoint pushed perpendicular to the start→end
// direction by a bounded random offset, a cheap detour so agents stop
// oscillating against the same obstacle.
func (f *FallbackGenerator) Generate(start, end Vec2, consecutiveFailures int) Path {
	if consecutiveFailures <= 1 || f.maxDetour <= 0 {
		return Path{start, end}
	}

	dx := end.X - start.X
	dz := end.Z - start.Z
	length := math.Hypot(dx, dz)
	var perpX, perpZ float64
	if length == 0 {
		perpX, perpZ = 1, 0
	} else {
		perpX, perpZ = -dz/length, dx/length
	}

	offset := (f.rng.Float64()*2 - 1) * f.maxDetour
	mid := Vec2{
		X: start.X + dx*0.5 + perpX*offset,
		Z: start.Z + dz*0.5 + perpZ*offset,
	}
	return Path{start, mid, end}
}
