package analysis

import (
	"errors"
	"math"
)

// Plausible VDOT range. Values outside it indicate bad input data
// (wrong distance, watch left running) and are rejected, never clamped.
const (
	MinVDOT = 15.0
	MaxVDOT = 85.0
)

// ErrVDOTRange is returned when a performance implies a fitness index
// outside the plausible human range.
var ErrVDOTRange = errors.New("fitness index outside plausible range")

// Daniels running economy curve: oxygen cost (ml/kg/min) of running at
// velocity v in meters per minute.
func oxygenCost(v float64) float64 {
	return -4.60 + 0.182258*v + 0.000104*v*v
}

// fractionVO2Max is the fraction of VO2max sustainable for a race
// lasting t minutes.
func fractionVO2Max(t float64) float64 {
	return 0.8 + 0.1894393*math.Exp(-0.012778*t) + 0.2989558*math.Exp(-0.1932605*t)
}

// velocityAtCost inverts the economy curve: the velocity (m/min) whose
// oxygen cost equals vo2.
func velocityAtCost(vo2 float64) float64 {
	// 0.000104 v² + 0.182258 v - (4.60 + vo2) = 0
	const a, b = 0.000104, 0.182258
	c := -(4.60 + vo2)
	return (-b + math.Sqrt(b*b-4*a*c)) / (2 * a)
}

// EstimateVDOT derives the fitness index from a (distance, time)
// performance. When a condition adjustment is supplied, the time is
// credited for the conditions before inversion so that runs recorded in
// heat or over climbs remain comparable to flat, cool efforts.
//
// Results outside [MinVDOT, MaxVDOT] return ErrVDOTRange.
func EstimateVDOT(distanceMeters, seconds float64, adj *ConditionAdjustment) (float64, error) {
	if distanceMeters <= 0 || seconds <= 0 {
		return 0, ErrInsufficientStream
	}

	if adj != nil {
		credit := adj.TimeCredit(distanceMeters)
		if credit > 0 && seconds-credit > 0 {
			seconds -= credit
		}
	}

	minutes := seconds / 60
	velocity := distanceMeters / minutes

	vdot := oxygenCost(velocity) / fractionVO2Max(minutes)
	if vdot < MinVDOT || vdot > MaxVDOT {
		return 0, ErrVDOTRange
	}

	return math.Round(vdot*10) / 10, nil
}

// PaceZone identifies one band of the 7-zone training pace ladder,
// ordered fastest to slowest.
type PaceZone int

const (
	ZoneInterval PaceZone = iota
	ZoneThreshold
	ZoneTempo
	ZoneMarathon
	ZoneSteady
	ZoneEasy
	ZoneRecovery

	PaceZoneCount = 7
)

// String returns the zone's display name.
func (z PaceZone) String() string {
	switch z {
	case ZoneInterval:
		return "Interval"
	case ZoneThreshold:
		return "Threshold"
	case ZoneTempo:
		return "Tempo"
	case ZoneMarathon:
		return "Marathon"
	case ZoneSteady:
		return "Steady"
	case ZoneEasy:
		return "Easy"
	case ZoneRecovery:
		return "Recovery"
	default:
		return "Unknown"
	}
}

// paceZoneFractions is the %VO2max each zone boundary is run at.
// Interval sits near VO2max; recovery is a jog.
var paceZoneFractions = [PaceZoneCount]float64{0.975, 0.88, 0.84, 0.79, 0.72, 0.66, 0.59}

// PaceZones is the 7-element pace ladder in seconds per unit, strictly
// increasing from interval to recovery.
type PaceZones struct {
	UnitMeters float64
	Bounds     [PaceZoneCount]float64
}

// ThresholdFraction is the %VO2max associated with lactate-threshold
// running, used to derive the VDOT-implied threshold pace.
const ThresholdFraction = 0.88

// ZonesFromVDOT derives the pace ladder from a fitness index by solving
// the economy curve at fixed fractions of VO2max.
func ZonesFromVDOT(vdot, unitMeters float64) (PaceZones, error) {
	if vdot < MinVDOT || vdot > MaxVDOT {
		return PaceZones{}, ErrVDOTRange
	}
	if unitMeters <= 0 {
		return PaceZones{}, errors.New("unit distance must be positive")
	}

	zones := PaceZones{UnitMeters: unitMeters}
	for i, frac := range paceZoneFractions {
		v := velocityAtCost(frac * vdot) // m/min
		zones.Bounds[i] = unitMeters / v * 60
	}
	return zones, nil
}

// ThresholdPaceFromVDOT is the VDOT-implied threshold pace in seconds
// per unit, used by the threshold estimator's cross-check.
func ThresholdPaceFromVDOT(vdot, unitMeters float64) (float64, error) {
	if vdot < MinVDOT || vdot > MaxVDOT {
		return 0, ErrVDOTRange
	}
	v := velocityAtCost(ThresholdFraction * vdot)
	return unitMeters / v * 60, nil
}

// ReferencePaces is an explicit pace ladder supplied by the athlete,
// in seconds per unit. Easy is required; the rest default to fixed
// fractions of it.
type ReferencePaces struct {
	Easy      float64
	Marathon  float64
	Tempo     float64
	Threshold float64
	Interval  float64
}

// Fractions of easy pace used to fill in unspecified reference paces.
var referenceFractions = map[PaceZone]float64{
	ZoneInterval:  0.78,
	ZoneThreshold: 0.845,
	ZoneTempo:     0.875,
	ZoneMarathon:  0.91,
	ZoneSteady:    0.95,
	ZoneRecovery:  1.10,
}

// ZonesFromReferencePaces builds the pace ladder from an explicit easy
// pace, honoring any other supplied reference paces. The resulting
// ladder must be strictly increasing.
func ZonesFromReferencePaces(ref ReferencePaces, unitMeters float64) (PaceZones, error) {
	if ref.Easy <= 0 {
		return PaceZones{}, errors.New("reference easy pace is required")
	}
	if unitMeters <= 0 {
		return PaceZones{}, errors.New("unit distance must be positive")
	}

	zones := PaceZones{UnitMeters: unitMeters}
	zones.Bounds[ZoneEasy] = ref.Easy
	zones.Bounds[ZoneInterval] = orDefault(ref.Interval, ref.Easy*referenceFractions[ZoneInterval])
	zones.Bounds[ZoneThreshold] = orDefault(ref.Threshold, ref.Easy*referenceFractions[ZoneThreshold])
	zones.Bounds[ZoneTempo] = orDefault(ref.Tempo, ref.Easy*referenceFractions[ZoneTempo])
	zones.Bounds[ZoneMarathon] = orDefault(ref.Marathon, ref.Easy*referenceFractions[ZoneMarathon])
	zones.Bounds[ZoneSteady] = ref.Easy * referenceFractions[ZoneSteady]
	zones.Bounds[ZoneRecovery] = ref.Easy * referenceFractions[ZoneRecovery]

	for i := 1; i < PaceZoneCount; i++ {
		if zones.Bounds[i] <= zones.Bounds[i-1] {
			return PaceZones{}, errors.New("reference paces must increase from interval to recovery")
		}
	}
	return zones, nil
}

func orDefault(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

// Shift returns a copy of the ladder with every boundary moved by the
// given seconds, the way condition adjustments are applied uniformly to
// all zones.
func (z PaceZones) Shift(seconds float64) PaceZones {
	shifted := z
	for i := range shifted.Bounds {
		shifted.Bounds[i] += seconds
	}
	return shifted
}

// Classify maps a pace (seconds per unit) to its zone: the first zone
// whose boundary is at least as slow as the pace, or recovery for
// anything slower than the whole ladder.
func (z PaceZones) Classify(paceSeconds float64) PaceZone {
	for i := 0; i < PaceZoneCount; i++ {
		if paceSeconds <= z.Bounds[i] {
			return PaceZone(i)
		}
	}
	return ZoneRecovery
}
