package analysis

import (
	"errors"
	"math"
	"sort"
	"time"
)

// ErrInsufficientData is returned when the workout history carries no
// usable threshold signal at all.
var ErrInsufficientData = errors.New("insufficient workout history")

// HistoryWorkout is the materialized view of a prior workout the
// estimator scans. Samples are optional; their absence only lowers the
// evidentiary tier.
type HistoryWorkout struct {
	Date            time.Time
	Type            string // "easy", "tempo", "interval", "race", ...
	DistanceMeters  float64
	DurationSeconds float64
	HasHeartrate    bool
	Samples         []Sample
}

// RaceResult is a recent qualifying race or time trial used for the
// VDOT cross-check.
type RaceResult struct {
	Date            time.Time
	DistanceMeters  float64
	DurationSeconds float64
}

// ThresholdSettings carries the athlete context the estimator needs.
type ThresholdSettings struct {
	UnitMeters      float64
	EasyPaceSeconds float64 // seconds per unit; derived from history when 0
	BestRace        *RaceResult
}

// ThresholdParams are the empirically tuned constants defining a
// threshold effort. They are configuration, not law; see
// DefaultThresholdParams for the values used in practice.
type ThresholdParams struct {
	MinEffortSeconds float64 // shortest sustained effort that counts
	MaxEffortSeconds float64 // longest; beyond this it's a steady run
	EasyPaceMargin   float64 // candidate pace must be <= easy * margin
	MinWorkouts      int     // analyzable workouts required
	OutlierFence     float64 // fraction around the median candidate pace
	DeflectionDrop   float64 // EF drop fraction marking HR deflection
	DeflectionSlice  float64 // bucket size for deflection scan, seconds
}

// DefaultThresholdParams returns the tuned defaults: 20-40 minute
// efforts at least 8% faster than easy pace.
func DefaultThresholdParams() ThresholdParams {
	return ThresholdParams{
		MinEffortSeconds: 20 * 60,
		MaxEffortSeconds: 40 * 60,
		EasyPaceMargin:   0.92,
		MinWorkouts:      3,
		OutlierFence:     0.12,
		DeflectionDrop:   0.06,
		DeflectionSlice:  120,
	}
}

// ThresholdEffort is one sustained continuous effort found in history.
type ThresholdEffort struct {
	Date            time.Time
	PaceSeconds     float64
	DurationSeconds float64
}

// ThresholdEvidence is everything the estimate was fused from, kept for
// display and diagnostics.
type ThresholdEvidence struct {
	Efforts            []ThresholdEffort
	DeflectionPace     *float64
	SustainabilityPace *float64
	WorkoutsAnalyzed   int
	WorkoutsWithHR     int
}

// VDOT cross-check agreement levels
const (
	AgreementStrong   = "strong"
	AgreementModerate = "moderate"
	AgreementWeak     = "weak"
)

// VDOTValidation compares the empirical estimate against the pace the
// athlete's best recent race implies.
type VDOTValidation struct {
	VDOT              float64
	ThresholdPace     float64
	DifferenceSeconds float64
	Agreement         string
}

// Evidentiary tiers, from weakest to strongest.
const (
	MethodInsufficientData = "insufficient_data"
	MethodPaceOnly         = "pace_only"
	MethodHRAssisted       = "hr_assisted"
	MethodHRValidated      = "hr_validated"
)

// ThresholdEstimate is the fused sustainable-pace estimate.
type ThresholdEstimate struct {
	PaceSeconds float64
	Confidence  float64
	Method      string
	Evidence    ThresholdEvidence
	VDOT        *VDOTValidation
}

// Plausible human threshold paces, seconds per mile; scaled to the unit
// in use. Fused results are clamped here, but individual outliers are
// excluded before fusion, never averaged in.
const (
	minPlausiblePacePerMile = 240
	maxPlausiblePacePerMile = 900
)

// EstimateThreshold fuses workout history, heart-rate drift, and a VDOT
// cross-check into one threshold-pace estimate with a confidence score.
//
// On ErrInsufficientData the returned estimate still carries the
// diagnostic counts (workouts analyzed, workouts with HR) and the
// insufficient_data method tag.
func EstimateThreshold(history []HistoryWorkout, settings ThresholdSettings, params ThresholdParams) (ThresholdEstimate, error) {
	unit := settings.UnitMeters
	if unit <= 0 {
		unit = MetersPerMile
	}

	est := ThresholdEstimate{
		Method: MethodInsufficientData,
		Evidence: ThresholdEvidence{
			WorkoutsAnalyzed: len(history),
		},
	}
	for _, w := range history {
		if w.HasHeartrate {
			est.Evidence.WorkoutsWithHR++
		}
	}

	if len(history) < params.MinWorkouts {
		return est, ErrInsufficientData
	}

	easy := settings.EasyPaceSeconds
	if easy <= 0 {
		easy = medianWorkoutPace(history, unit)
	}
	if easy <= 0 {
		return est, ErrInsufficientData
	}

	// 1. Candidate extraction: sustained 20-40 minute efforts
	// meaningfully faster than easy pace.
	type candidate struct {
		effort  ThresholdEffort
		samples []Sample // the effort window, for deflection analysis
		hasHR   bool
	}
	var candidates []candidate

	for _, w := range history {
		if isIntervalType(w.Type) {
			continue
		}
		if len(w.Samples) >= 2 {
			window, pace, dur, ok := bestSustainedWindow(w.Samples, params.MinEffortSeconds, unit)
			if ok && dur <= params.MaxEffortSeconds*2 && pace <= easy*params.EasyPaceMargin {
				candidates = append(candidates, candidate{
					effort:  ThresholdEffort{Date: w.Date, PaceSeconds: pace, DurationSeconds: dur},
					samples: window,
					hasHR:   w.HasHeartrate,
				})
			}
			continue
		}
		// Summary fallback: the whole workout must itself look like a
		// continuous threshold effort.
		if w.DistanceMeters <= 0 || w.DurationSeconds < params.MinEffortSeconds || w.DurationSeconds > params.MaxEffortSeconds {
			continue
		}
		pace := w.DurationSeconds / w.DistanceMeters * unit
		if pace <= easy*params.EasyPaceMargin {
			candidates = append(candidates, candidate{
				effort: ThresholdEffort{Date: w.Date, PaceSeconds: pace, DurationSeconds: w.DurationSeconds},
				hasHR:  w.HasHeartrate,
			})
		}
	}

	if len(candidates) == 0 {
		return est, ErrInsufficientData
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].effort.Date.Before(candidates[j].effort.Date)
	})
	for _, c := range candidates {
		est.Evidence.Efforts = append(est.Evidence.Efforts, c.effort)
	}

	// 2. HR deflection on the fastest candidate carrying an HR stream.
	// Omitted, not an error, when no clear inflection exists.
	var deflectionSource []Sample
	bestPace := math.Inf(1)
	for _, c := range candidates {
		if c.hasHR && len(c.samples) > 0 && c.effort.PaceSeconds < bestPace {
			bestPace = c.effort.PaceSeconds
			deflectionSource = c.samples
		}
	}
	if deflectionSource != nil {
		est.Evidence.DeflectionPace = detectDeflection(deflectionSource, unit, params)
	}

	// 3. Outlier exclusion, then duration-weighted primary estimate.
	kept := excludeOutliers(est.Evidence.Efforts, params.OutlierFence)
	var weightedSum, weight float64
	for _, e := range kept {
		weightedSum += e.PaceSeconds * e.DurationSeconds
		weight += e.DurationSeconds
	}
	primary := weightedSum / weight

	// 4. Sustainability boundary: the fastest pace continuously held
	// for at least the minimum duration, outliers excluded.
	boundary := math.Inf(1)
	for _, e := range kept {
		if e.DurationSeconds >= params.MinEffortSeconds && e.PaceSeconds < boundary {
			boundary = e.PaceSeconds
		}
	}
	if !math.IsInf(boundary, 1) {
		est.Evidence.SustainabilityPace = &boundary
	}

	// 5. VDOT cross-check against the best recent race.
	if settings.BestRace != nil {
		if vdot, err := EstimateVDOT(settings.BestRace.DistanceMeters, settings.BestRace.DurationSeconds, nil); err == nil {
			if vdotPace, err := ThresholdPaceFromVDOT(vdot, unit); err == nil {
				diff := primary - vdotPace
				est.VDOT = &VDOTValidation{
					VDOT:              vdot,
					ThresholdPace:     vdotPace,
					DifferenceSeconds: diff,
					Agreement:         classifyAgreement(math.Abs(diff) / vdotPace),
				}
			}
		}
	}

	// 6. Fusion: candidate paces are primary; deflection and
	// sustainability pull the estimate toward agreement.
	fused := primary * 0.60
	totalWeight := 0.60
	if est.Evidence.DeflectionPace != nil {
		fused += *est.Evidence.DeflectionPace * 0.25
		totalWeight += 0.25
	}
	if est.Evidence.SustainabilityPace != nil {
		fused += *est.Evidence.SustainabilityPace * 0.15
		totalWeight += 0.15
	}
	fused /= totalWeight

	minPace := minPlausiblePacePerMile * unit / MetersPerMile
	maxPace := maxPlausiblePacePerMile * unit / MetersPerMile
	est.PaceSeconds = math.Round(clampFloat(fused, minPace, maxPace)*10) / 10

	est.Confidence = thresholdConfidence(est)
	est.Method = thresholdMethod(est)
	return est, nil
}

// thresholdConfidence rises with more efforts, HR evidence, and strong
// VDOT agreement, and falls with a conflicting cross-check.
func thresholdConfidence(est ThresholdEstimate) float64 {
	conf := 0.30 + 0.07*math.Min(float64(len(est.Evidence.Efforts)), 5)
	if est.Evidence.DeflectionPace != nil {
		conf += 0.10
	}
	if est.Evidence.SustainabilityPace != nil {
		conf += 0.03
	}
	if est.Evidence.WorkoutsWithHR > 0 {
		conf += 0.04
	}
	if est.VDOT != nil {
		switch est.VDOT.Agreement {
		case AgreementStrong:
			conf += 0.15
		case AgreementModerate:
			conf += 0.05
		case AgreementWeak:
			conf -= 0.10
		}
	}
	return clampFloat(conf, 0.05, 0.98)
}

func thresholdMethod(est ThresholdEstimate) string {
	switch {
	case est.Evidence.DeflectionPace != nil && est.VDOT != nil:
		return MethodHRValidated
	case est.Evidence.WorkoutsWithHR > 0:
		return MethodHRAssisted
	default:
		return MethodPaceOnly
	}
}

func classifyAgreement(relativeDiff float64) string {
	switch {
	case relativeDiff <= 0.05:
		return AgreementStrong
	case relativeDiff <= 0.12:
		return AgreementModerate
	default:
		return AgreementWeak
	}
}

// bestSustainedWindow finds the fastest continuous window of at least
// windowSeconds using a two-pointer sweep over cumulative time.
// Returns the window's samples for further analysis.
func bestSustainedWindow(samples []Sample, windowSeconds, unitMeters float64) (window []Sample, paceSeconds, durationSeconds float64, ok bool) {
	points := sanitizeSamples(samples)
	if len(points) < 2 {
		return nil, 0, 0, false
	}

	bestPace := math.Inf(1)
	bestLeft, bestRight := -1, -1

	right := 0
	for left := 0; left < len(points)-1; left++ {
		if right < left+1 {
			right = left + 1
		}
		for right < len(points) && points[right].ElapsedSeconds-points[left].ElapsedSeconds < windowSeconds {
			right++
		}
		if right >= len(points) {
			break
		}

		dt := points[right].ElapsedSeconds - points[left].ElapsedSeconds
		dd := points[right].DistanceMeters - points[left].DistanceMeters
		if dd <= 0 {
			continue
		}
		pace := dt / dd * unitMeters
		if pace < bestPace {
			bestPace = pace
			bestLeft, bestRight = left, right
		}
	}

	if bestLeft < 0 {
		return nil, 0, 0, false
	}
	dur := points[bestRight].ElapsedSeconds - points[bestLeft].ElapsedSeconds
	return points[bestLeft : bestRight+1], bestPace, dur, true
}

// detectDeflection locates the pace at which the heart-rate-to-pace
// ratio starts decoupling during a sustained effort. The effort is cut
// into fixed time slices; once a slice's efficiency (velocity over HR)
// drops meaningfully below the opening baseline, the previous slice's
// pace is the last coupled pace. Returns nil when no clear inflection
// exists.
func detectDeflection(samples []Sample, unitMeters float64, params ThresholdParams) *float64 {
	type slice struct {
		velocity float64 // m/s
		ratio    float64 // velocity / HR
	}

	points := sanitizeSamples(samples)
	if len(points) < 2 {
		return nil
	}

	var slices []slice
	start := 0
	for i := 1; i < len(points); i++ {
		if points[i].ElapsedSeconds-points[start].ElapsedSeconds < params.DeflectionSlice {
			continue
		}

		dd := points[i].DistanceMeters - points[start].DistanceMeters
		dt := points[i].ElapsedSeconds - points[start].ElapsedSeconds
		hr := averageSliceHR(points[start : i+1])
		if dd > 0 && dt > 0 && hr > 0 {
			v := dd / dt
			slices = append(slices, slice{velocity: v, ratio: v / hr})
		}
		start = i
	}

	if len(slices) < 4 {
		return nil
	}

	baseline := (slices[0].ratio + slices[1].ratio) / 2
	if baseline <= 0 {
		return nil
	}

	for i := 2; i < len(slices); i++ {
		if slices[i].ratio < baseline*(1-params.DeflectionDrop) {
			pace := unitMeters / slices[i-1].velocity
			return &pace
		}
	}
	return nil
}

func averageSliceHR(points []Sample) float64 {
	var sum float64
	var count int
	for _, p := range points {
		if validHeartrate(p.Heartrate) {
			sum += float64(*p.Heartrate)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// excludeOutliers keeps efforts whose pace lies within the fence around
// the median. The median effort itself always survives, so fusion never
// runs on an empty set.
func excludeOutliers(efforts []ThresholdEffort, fence float64) []ThresholdEffort {
	if len(efforts) <= 2 {
		return efforts
	}

	paces := make([]float64, len(efforts))
	for i, e := range efforts {
		paces[i] = e.PaceSeconds
	}
	sort.Float64s(paces)
	median := paces[len(paces)/2]

	var kept []ThresholdEffort
	for _, e := range efforts {
		if math.Abs(e.PaceSeconds-median) <= median*fence {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		for _, e := range efforts {
			if e.PaceSeconds == median {
				kept = append(kept, e)
				break
			}
		}
	}
	return kept
}

// medianWorkoutPace derives a fallback easy-pace baseline from the
// whole-workout paces of the history.
func medianWorkoutPace(history []HistoryWorkout, unitMeters float64) float64 {
	var paces []float64
	for _, w := range history {
		if w.DistanceMeters > 0 && w.DurationSeconds > 0 {
			paces = append(paces, w.DurationSeconds/w.DistanceMeters*unitMeters)
		}
	}
	if len(paces) == 0 {
		return 0
	}
	sort.Float64s(paces)
	return paces[len(paces)/2]
}

func isIntervalType(workoutType string) bool {
	switch workoutType {
	case "interval", "intervals", "repetition", "speed":
		return true
	}
	return false
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
