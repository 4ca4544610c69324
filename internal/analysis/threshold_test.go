package analysis

import (
	"errors"
	"math"
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2026, time.March, 1, 6, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// summaryWorkout builds a no-stream workout whose whole-run pace is
// paceSeconds per mile.
func summaryWorkout(n int, workoutType string, paceSeconds, durationSeconds float64, hasHR bool) HistoryWorkout {
	return HistoryWorkout{
		Date:            day(n),
		Type:            workoutType,
		DistanceMeters:  durationSeconds / paceSeconds * MetersPerMile,
		DurationSeconds: durationSeconds,
		HasHeartrate:    hasHR,
	}
}

// driftStream builds a 20 minute steady effort whose heart rate steps up
// mid-run while pace holds, the signature of crossing threshold.
func driftStream() []Sample {
	hr := func(v int) *int { return &v }

	var samples []Sample
	for t := 0.0; t <= 1200; t += 10 {
		bpm := 150
		if t >= 600 {
			bpm = 180
		}
		samples = append(samples, Sample{
			DistanceMeters: 3.5 * t,
			ElapsedSeconds: t,
			Heartrate:      hr(bpm),
		})
	}
	return samples
}

func mileSettings() ThresholdSettings {
	return ThresholdSettings{UnitMeters: MetersPerMile, EasyPaceSeconds: 540}
}

func TestEstimateThreshold_EmptyHistory(t *testing.T) {
	est, err := EstimateThreshold(nil, mileSettings(), DefaultThresholdParams())
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("EstimateThreshold() error = %v, want ErrInsufficientData", err)
	}
	if est.Method != MethodInsufficientData {
		t.Errorf("Method = %q, want %q", est.Method, MethodInsufficientData)
	}
	if est.Evidence.WorkoutsAnalyzed != 0 {
		t.Errorf("WorkoutsAnalyzed = %d, want 0", est.Evidence.WorkoutsAnalyzed)
	}
}

func TestEstimateThreshold_NoQualifyingEfforts(t *testing.T) {
	// Plenty of running, all of it easy: no threshold signal.
	history := []HistoryWorkout{
		summaryWorkout(0, "easy", 560, 2700, false),
		summaryWorkout(2, "easy", 555, 2700, false),
		summaryWorkout(4, "easy", 565, 2700, false),
		summaryWorkout(6, "easy", 558, 2700, false),
	}

	est, err := EstimateThreshold(history, mileSettings(), DefaultThresholdParams())
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("EstimateThreshold() error = %v, want ErrInsufficientData", err)
	}
	if est.Evidence.WorkoutsAnalyzed != 4 {
		t.Errorf("WorkoutsAnalyzed = %d, want 4", est.Evidence.WorkoutsAnalyzed)
	}
}

func TestEstimateThreshold_PaceOnly(t *testing.T) {
	history := []HistoryWorkout{
		summaryWorkout(0, "easy", 560, 2700, false),
		summaryWorkout(2, "tempo", 480, 1800, false),
		summaryWorkout(5, "tempo", 484, 1800, false),
		summaryWorkout(9, "tempo", 476, 1800, false),
		summaryWorkout(11, "easy", 555, 2700, false),
	}

	est, err := EstimateThreshold(history, mileSettings(), DefaultThresholdParams())
	if err != nil {
		t.Fatalf("EstimateThreshold() error = %v", err)
	}

	if est.Method != MethodPaceOnly {
		t.Errorf("Method = %q, want %q", est.Method, MethodPaceOnly)
	}
	if len(est.Evidence.Efforts) != 3 {
		t.Fatalf("got %d efforts, want 3", len(est.Evidence.Efforts))
	}
	if est.PaceSeconds < 470 || est.PaceSeconds > 490 {
		t.Errorf("PaceSeconds = %v, want near 480", est.PaceSeconds)
	}
	if est.Evidence.SustainabilityPace == nil {
		t.Error("sustainability boundary missing")
	}
	if est.VDOT != nil {
		t.Error("no race supplied, VDOT validation should be nil")
	}
	if est.Confidence <= 0 || est.Confidence >= 1 {
		t.Errorf("Confidence = %v, want in (0, 1)", est.Confidence)
	}
}

func TestEstimateThreshold_HRPresenceRaisesConfidence(t *testing.T) {
	plain := []HistoryWorkout{
		summaryWorkout(0, "tempo", 480, 1800, false),
		summaryWorkout(4, "tempo", 484, 1800, false),
		summaryWorkout(8, "tempo", 476, 1800, false),
	}
	withHR := []HistoryWorkout{
		summaryWorkout(0, "tempo", 480, 1800, true),
		summaryWorkout(4, "tempo", 484, 1800, true),
		summaryWorkout(8, "tempo", 476, 1800, true),
	}

	base, err := EstimateThreshold(plain, mileSettings(), DefaultThresholdParams())
	if err != nil {
		t.Fatalf("EstimateThreshold(plain) error = %v", err)
	}
	hr, err := EstimateThreshold(withHR, mileSettings(), DefaultThresholdParams())
	if err != nil {
		t.Fatalf("EstimateThreshold(withHR) error = %v", err)
	}

	if hr.Confidence < base.Confidence {
		t.Errorf("HR-bearing history confidence %v below HR-free %v", hr.Confidence, base.Confidence)
	}
	if hr.Method != MethodHRAssisted {
		t.Errorf("Method = %q, want %q", hr.Method, MethodHRAssisted)
	}
	if base.Method != MethodPaceOnly {
		t.Errorf("Method = %q, want %q", base.Method, MethodPaceOnly)
	}
}

func TestEstimateThreshold_ExcludesOutlierEfforts(t *testing.T) {
	// One implausibly fast "tempo" (mislabeled stride session) must not
	// drag the estimate.
	history := []HistoryWorkout{
		summaryWorkout(0, "tempo", 480, 1800, false),
		summaryWorkout(3, "tempo", 484, 1800, false),
		summaryWorkout(6, "tempo", 476, 1800, false),
		summaryWorkout(9, "tempo", 380, 1800, false),
	}

	est, err := EstimateThreshold(history, mileSettings(), DefaultThresholdParams())
	if err != nil {
		t.Fatalf("EstimateThreshold() error = %v", err)
	}
	// All four are reported as evidence, but fusion runs without the
	// outlier. Without exclusion the fused pace would sit near 455.
	if len(est.Evidence.Efforts) != 4 {
		t.Fatalf("got %d efforts, want 4", len(est.Evidence.Efforts))
	}
	if est.PaceSeconds < 465 {
		t.Errorf("PaceSeconds = %v: outlier dragged the estimate", est.PaceSeconds)
	}
}

func TestEstimateThreshold_IgnoresIntervalWorkouts(t *testing.T) {
	// Interval sessions have fast summary paces but are rest-broken, so
	// they never count as sustained efforts.
	history := []HistoryWorkout{
		summaryWorkout(0, "interval", 430, 1500, false),
		summaryWorkout(3, "intervals", 425, 1500, false),
		summaryWorkout(6, "interval", 435, 1500, false),
	}

	_, err := EstimateThreshold(history, mileSettings(), DefaultThresholdParams())
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("EstimateThreshold() error = %v, want ErrInsufficientData", err)
	}
}

func TestEstimateThreshold_VDOTValidation(t *testing.T) {
	history := []HistoryWorkout{
		summaryWorkout(0, "tempo", 480, 1800, false),
		summaryWorkout(4, "tempo", 484, 1800, false),
		summaryWorkout(8, "tempo", 476, 1800, false),
	}

	base, err := EstimateThreshold(history, mileSettings(), DefaultThresholdParams())
	if err != nil {
		t.Fatalf("EstimateThreshold(no race) error = %v", err)
	}

	// A 23:30 5K implies a threshold pace right on the empirical 480,
	// so the cross-check should agree strongly and boost confidence.
	agree := mileSettings()
	agree.BestRace = &RaceResult{Date: day(10), DistanceMeters: 5000, DurationSeconds: 1410}

	strong, err := EstimateThreshold(history, agree, DefaultThresholdParams())
	if err != nil {
		t.Fatalf("EstimateThreshold(agreeing race) error = %v", err)
	}
	if strong.VDOT == nil {
		t.Fatal("VDOT validation missing")
	}
	if strong.VDOT.Agreement != AgreementStrong {
		t.Errorf("Agreement = %q, want %q", strong.VDOT.Agreement, AgreementStrong)
	}
	if math.Abs(strong.VDOT.ThresholdPace-480) > 5 {
		t.Errorf("VDOT threshold pace = %v, want ~480", strong.VDOT.ThresholdPace)
	}
	if strong.Confidence <= base.Confidence {
		t.Errorf("agreeing race should raise confidence: %v vs %v", strong.Confidence, base.Confidence)
	}

	// A 19:00 5K implies a much faster threshold than the workouts
	// show: the conflict must lower confidence, not silently average.
	conflict := mileSettings()
	conflict.BestRace = &RaceResult{Date: day(10), DistanceMeters: 5000, DurationSeconds: 1140}

	weak, err := EstimateThreshold(history, conflict, DefaultThresholdParams())
	if err != nil {
		t.Fatalf("EstimateThreshold(conflicting race) error = %v", err)
	}
	if weak.VDOT == nil || weak.VDOT.Agreement != AgreementWeak {
		t.Fatalf("VDOT validation = %+v, want weak agreement", weak.VDOT)
	}
	if weak.Confidence >= base.Confidence {
		t.Errorf("conflicting race should lower confidence: %v vs %v", weak.Confidence, base.Confidence)
	}
}

func TestEstimateThreshold_HRDeflection(t *testing.T) {
	history := []HistoryWorkout{
		{
			Date:            day(0),
			Type:            "tempo",
			DistanceMeters:  4200,
			DurationSeconds: 1200,
			HasHeartrate:    true,
			Samples:         driftStream(),
		},
		summaryWorkout(3, "easy", 560, 2700, false),
		summaryWorkout(6, "easy", 555, 2700, false),
	}

	est, err := EstimateThreshold(history, mileSettings(), DefaultThresholdParams())
	if err != nil {
		t.Fatalf("EstimateThreshold() error = %v", err)
	}

	if est.Evidence.DeflectionPace == nil {
		t.Fatal("deflection not detected in a stream with a clear HR step")
	}
	// The last coupled slice runs at 3.5 m/s.
	wantPace := MetersPerMile / 3.5
	if math.Abs(*est.Evidence.DeflectionPace-wantPace) > 2 {
		t.Errorf("DeflectionPace = %v, want ~%v", *est.Evidence.DeflectionPace, wantPace)
	}
	if est.Method != MethodHRAssisted {
		t.Errorf("Method = %q, want %q", est.Method, MethodHRAssisted)
	}
	if math.Abs(est.PaceSeconds-wantPace) > 3 {
		t.Errorf("PaceSeconds = %v, want ~%v", est.PaceSeconds, wantPace)
	}
	if est.Evidence.WorkoutsWithHR != 1 {
		t.Errorf("WorkoutsWithHR = %d, want 1", est.Evidence.WorkoutsWithHR)
	}
}

func TestEstimateThreshold_EasyPaceFallback(t *testing.T) {
	// No configured easy pace: the median whole-workout pace stands in,
	// and the tempo runs still clear the margin against it.
	settings := ThresholdSettings{UnitMeters: MetersPerMile}
	history := []HistoryWorkout{
		summaryWorkout(0, "easy", 560, 2700, false),
		summaryWorkout(2, "easy", 555, 2700, false),
		summaryWorkout(4, "tempo", 480, 1800, false),
		summaryWorkout(6, "easy", 565, 2700, false),
		summaryWorkout(8, "tempo", 484, 1800, false),
	}

	est, err := EstimateThreshold(history, settings, DefaultThresholdParams())
	if err != nil {
		t.Fatalf("EstimateThreshold() error = %v", err)
	}
	if len(est.Evidence.Efforts) != 2 {
		t.Fatalf("got %d efforts, want 2", len(est.Evidence.Efforts))
	}
	if est.PaceSeconds < 470 || est.PaceSeconds > 492 {
		t.Errorf("PaceSeconds = %v, want near 480", est.PaceSeconds)
	}
}
