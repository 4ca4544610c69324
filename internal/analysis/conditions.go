package analysis

// Weather holds the conditions a workout was recorded under.
type Weather struct {
	TemperatureF float64
	HumidityPct  float64
}

// ConditionAdjustment is the seconds-per-unit pace penalty attributable
// to heat, humidity, and climbing. All components are >= 0 and the
// struct is immutable once computed for a workout.
type ConditionAdjustment struct {
	UnitMeters       float64
	WeatherSeconds   float64
	ElevationSeconds float64
	TotalSeconds     float64
}

// Condition model constants. The heat term is quadratic in degrees above
// the comfort threshold; humidity scales it further once air stops
// evaporating sweat effectively.
const (
	ComfortTempF         = 55.0
	HumidityThresholdPct = 60.0
	heatCoeff            = 0.012 // seconds per unit per (°F above comfort)²
	humidityScalePerPct  = 0.01  // extra scale per % humidity above threshold
	elevSecondsPer100ft  = 12.0  // seconds per unit per 100 ft gain per unit
)

// AdjustForConditions computes the pace penalty for a workout recorded
// over distanceMeters with the given total elevation gain. A nil
// weather means conditions are unknown and only the elevation term
// applies.
func AdjustForConditions(weather *Weather, elevationGainMeters, distanceMeters, unitMeters float64) ConditionAdjustment {
	adj := ConditionAdjustment{UnitMeters: unitMeters}
	if unitMeters <= 0 {
		return adj
	}

	if weather != nil && weather.TemperatureF > ComfortTempF {
		excess := weather.TemperatureF - ComfortTempF
		adj.WeatherSeconds = heatCoeff * excess * excess
		if weather.HumidityPct > HumidityThresholdPct {
			scale := 1 + humidityScalePerPct*(weather.HumidityPct-HumidityThresholdPct)
			adj.WeatherSeconds *= scale
		}
	}

	if elevationGainMeters > 0 && distanceMeters > 0 {
		units := distanceMeters / unitMeters
		gainFeetPerUnit := elevationGainMeters * FeetPerMeter / units
		adj.ElevationSeconds = elevSecondsPer100ft * gainFeetPerUnit / 100
	}

	adj.TotalSeconds = adj.WeatherSeconds + adj.ElevationSeconds
	return adj
}

// TimeCredit returns the total seconds of the adjustment accumulated
// over a given distance.
func (a ConditionAdjustment) TimeCredit(distanceMeters float64) float64 {
	if a.UnitMeters <= 0 || distanceMeters <= 0 {
		return 0
	}
	return a.TotalSeconds * distanceMeters / a.UnitMeters
}

// EffectivePace subtracts the condition-attributable penalty from an
// actual pace. The corrected pace must stay positive and no slower than
// the raw pace; otherwise the adjustment is considered unreliable and
// discarded, reported by ok == false.
func (a ConditionAdjustment) EffectivePace(rawPaceSeconds float64) (pace float64, ok bool) {
	if rawPaceSeconds <= 0 {
		return rawPaceSeconds, false
	}
	effective := rawPaceSeconds - a.TotalSeconds
	if effective <= 0 || effective > rawPaceSeconds {
		return rawPaceSeconds, false
	}
	return effective, true
}
