// Package analysis derives training signals from recorded run data:
// per-unit splits, condition-adjusted fitness index (VDOT), pace and
// heart-rate zone distributions, threshold-pace estimation, and
// best-segment search. All functions are pure and never mutate their
// inputs; identical inputs always produce identical outputs.
package analysis

// Sample is a single raw recording point. Distance and elapsed time are
// cumulative from the start of the workout and must be non-decreasing;
// offending points are skipped, not rejected.
type Sample struct {
	DistanceMeters float64
	ElapsedSeconds float64
	Heartrate      *int     // bpm
	Altitude       *float64 // meters
}

// Lap is a summary of one recorded lap, used when no per-second stream
// is available.
type Lap struct {
	DistanceMeters  float64
	DurationSeconds float64
	AvgHeartrate    *float64
}

// Standard unit distances in meters
const (
	MetersPerMile = 1609.34
	MetersPerKm   = 1000.0
	FeetPerMeter  = 3.28084
)

// HR validation thresholds, shared with the service layer
const (
	MinValidHeartrate = 50
	MaxValidHeartrate = 220
	DefaultMaxHR      = 185
)

// sanitizeSamples drops points whose cumulative distance or time runs
// backwards (GPS glitches, watch restarts). The caller's slice is left
// untouched.
func sanitizeSamples(samples []Sample) []Sample {
	clean := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if len(clean) > 0 {
			prev := clean[len(clean)-1]
			if s.DistanceMeters < prev.DistanceMeters || s.ElapsedSeconds < prev.ElapsedSeconds {
				continue
			}
		}
		clean = append(clean, s)
	}
	return clean
}

// validHeartrate reports whether a sample HR reading is physiologically
// plausible.
func validHeartrate(hr *int) bool {
	return hr != nil && *hr > MinValidHeartrate && *hr < MaxValidHeartrate
}

// ResolveMaxHR picks the max heart rate to build HR bands from:
// the configured value if set, the age formula (220 - age) if age is
// known, and a fixed default otherwise.
func ResolveMaxHR(configured float64, age int) float64 {
	if configured > 0 {
		return configured
	}
	if age > 0 {
		return 220 - float64(age)
	}
	return DefaultMaxHR
}
