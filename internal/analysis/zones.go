package analysis

import "math"

// ZoneSeconds is the time spent in one intensity band.
type ZoneSeconds struct {
	Label   string
	Seconds float64
	Percent float64
}

// ZoneDistribution is the time-in-zone breakdown of a workout, by pace
// or heart rate. TotalSeconds is the classified time only and never
// exceeds the elapsed time of the source.
type ZoneDistribution struct {
	Zones        []ZoneSeconds
	TotalSeconds float64
}

// DistributionOptions tunes sample classification.
type DistributionOptions struct {
	// StoppedPaceCutoff excludes near-stopped motion from zone totals,
	// in seconds per unit. Pairs implying a slower pace are dropped.
	StoppedPaceCutoff float64
	// MaxSampleGap caps the time credited between consecutive samples
	// so recording pauses don't inflate a zone.
	MaxSampleGap float64
}

// DefaultDistributionOptions matches a 15:00/unit stopped cutoff and a
// 10 minute recording-gap cap.
func DefaultDistributionOptions() DistributionOptions {
	return DistributionOptions{
		StoppedPaceCutoff: 15 * 60,
		MaxSampleGap:      10 * 60,
	}
}

// HRBandThresholds defines the upper bound of each heart-rate band as a
// fraction of max HR (5-band model).
var HRBandThresholds = []float64{0.6, 0.7, 0.8, 0.9, 1.0}

// HRBandLabels names the 5 heart-rate bands.
var HRBandLabels = []string{
	"Z1 Recovery",
	"Z2 Endurance",
	"Z3 Tempo",
	"Z4 Threshold",
	"Z5 VO2 Max",
}

// classifyLadder is the single classifier behind every zone mode:
// the index of the first boundary the value does not exceed, or the
// last band for anything beyond the ladder.
func classifyLadder(value float64, bounds []float64) int {
	for i, b := range bounds {
		if value <= b {
			return i
		}
	}
	return len(bounds) - 1
}

// DistributePace classifies each consecutive sample pair by its
// instantaneous pace against the ladder and accumulates the pair's time
// into that zone. Near-stopped pairs are excluded entirely.
func DistributePace(samples []Sample, zones PaceZones, opts DistributionOptions) (ZoneDistribution, error) {
	points := sanitizeSamples(samples)
	if len(points) < 2 {
		return ZoneDistribution{}, ErrInsufficientStream
	}

	seconds := make([]float64, PaceZoneCount)
	var total float64

	for i := 1; i < len(points); i++ {
		dd := points[i].DistanceMeters - points[i-1].DistanceMeters
		dt := points[i].ElapsedSeconds - points[i-1].ElapsedSeconds
		if dd <= 0 || dt <= 0 || dt > opts.MaxSampleGap {
			continue
		}

		pace := dt / dd * zones.UnitMeters
		if opts.StoppedPaceCutoff > 0 && pace > opts.StoppedPaceCutoff {
			continue
		}

		zone := classifyLadder(pace, zones.Bounds[:])
		seconds[zone] += dt
		total += dt
	}

	if total == 0 {
		return ZoneDistribution{}, ErrInsufficientStream
	}
	return buildDistribution(seconds, total, paceZoneLabels()), nil
}

// DistributePaceByLaps classifies each lap's single average pace once
// and attributes the lap's full duration to that zone. Used when no
// per-second stream exists.
func DistributePaceByLaps(laps []Lap, zones PaceZones) (ZoneDistribution, error) {
	if len(laps) == 0 {
		return ZoneDistribution{}, ErrInsufficientStream
	}

	seconds := make([]float64, PaceZoneCount)
	var total float64

	for _, lap := range laps {
		if lap.DistanceMeters <= 0 || lap.DurationSeconds <= 0 {
			continue
		}
		pace := lap.DurationSeconds / lap.DistanceMeters * zones.UnitMeters
		zone := classifyLadder(pace, zones.Bounds[:])
		seconds[zone] += lap.DurationSeconds
		total += lap.DurationSeconds
	}

	if total == 0 {
		return ZoneDistribution{}, ErrInsufficientStream
	}
	return buildDistribution(seconds, total, paceZoneLabels()), nil
}

// DistributeHeartRate accumulates time per heart-rate band, sample
// granularity. Bands are derived from max HR via HRBandThresholds.
func DistributeHeartRate(samples []Sample, maxHR float64, opts DistributionOptions) (ZoneDistribution, error) {
	points := sanitizeSamples(samples)
	if len(points) < 2 || maxHR <= 0 {
		return ZoneDistribution{}, ErrInsufficientStream
	}

	bounds := hrBounds(maxHR)
	seconds := make([]float64, len(bounds))
	var total float64

	for i := 1; i < len(points); i++ {
		if !validHeartrate(points[i].Heartrate) {
			continue
		}
		dt := points[i].ElapsedSeconds - points[i-1].ElapsedSeconds
		if dt <= 0 || dt > opts.MaxSampleGap {
			continue
		}

		band := classifyLadder(float64(*points[i].Heartrate), bounds)
		seconds[band] += dt
		total += dt
	}

	if total == 0 {
		return ZoneDistribution{}, ErrInsufficientStream
	}
	return buildDistribution(seconds, total, HRBandLabels), nil
}

// DistributeHeartRateByLaps classifies each lap's average heart rate
// once, lap granularity.
func DistributeHeartRateByLaps(laps []Lap, maxHR float64) (ZoneDistribution, error) {
	if len(laps) == 0 || maxHR <= 0 {
		return ZoneDistribution{}, ErrInsufficientStream
	}

	bounds := hrBounds(maxHR)
	seconds := make([]float64, len(bounds))
	var total float64

	for _, lap := range laps {
		if lap.AvgHeartrate == nil || *lap.AvgHeartrate <= 0 || lap.DurationSeconds <= 0 {
			continue
		}
		band := classifyLadder(*lap.AvgHeartrate, bounds)
		seconds[band] += lap.DurationSeconds
		total += lap.DurationSeconds
	}

	if total == 0 {
		return ZoneDistribution{}, ErrInsufficientStream
	}
	return buildDistribution(seconds, total, HRBandLabels), nil
}

func hrBounds(maxHR float64) []float64 {
	bounds := make([]float64, len(HRBandThresholds))
	for i, frac := range HRBandThresholds {
		bounds[i] = frac * maxHR
	}
	return bounds
}

func paceZoneLabels() []string {
	labels := make([]string, PaceZoneCount)
	for i := 0; i < PaceZoneCount; i++ {
		labels[i] = PaceZone(i).String()
	}
	return labels
}

// buildDistribution rounds percentages to a tenth; their sum stays
// within rounding tolerance of 100.
func buildDistribution(seconds []float64, total float64, labels []string) ZoneDistribution {
	dist := ZoneDistribution{
		Zones:        make([]ZoneSeconds, len(seconds)),
		TotalSeconds: total,
	}
	for i, sec := range seconds {
		pct := 0.0
		if total > 0 {
			pct = math.Round(sec/total*1000) / 10
		}
		dist.Zones[i] = ZoneSeconds{Label: labels[i], Seconds: sec, Percent: pct}
	}
	return dist
}
