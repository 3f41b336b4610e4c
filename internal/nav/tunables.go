package nav

// Tunables collects every constant the navigation stack was ever re-tuned
// on. None of them are hard-coded in the components; the config layer
// populates them and tests pin them explicitly.
type Tunables struct {
	// Clearance window radius, in cells.
	ClearanceWindow int
	// Additive cost for stepping into a cell at or below PenaltyThreshold
	// clearance.
	ClearancePenalty float64
	PenaltyThreshold int
	// HardPrune excludes cells below the agent margin from expansion
	// entirely; when false they are only penalized.
	HardPrune bool

	// Cap on open-set expansions per search, bounding worst-case latency.
	// Zero disables the cap.
	MaxExpansions int

	// Expanding-ring bound for endpoint relocation, in cells.
	ResolveRadius int

	// Straight-segment sampling used by the shortcut and smoothing stages.
	SampleSpacing float64
	MinSamples    int
	// Turn filtering and corner rounding thresholds, in degrees.
	TurnThresholdDeg   float64
	CornerThresholdDeg float64
	CornerOffset       float64
	// Segments longer than this are resampled.
	MaxSegmentLength float64

	// Upper bound on the fallback detour offset, in map units.
	FallbackDetour float64
}

// DefaultTunables returns the values the game shipped with.
func DefaultTunables() Tunables {
	return Tunables{
		ClearanceWindow:    3,
		ClearancePenalty:   0.1,
		PenaltyThreshold:   1,
		HardPrune:          true,
		MaxExpansions:      50000,
		ResolveRadius:      10,
		SampleSpacing:      0.5,
		MinSamples:         3,
		TurnThresholdDeg:   30,
		CornerThresholdDeg: 60,
		CornerOffset:       0.3,
		MaxSegmentLength:   3,
		FallbackDetour:     5,
	}
}
