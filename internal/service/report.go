package service

import (
	"errors"

	"runlab/internal/analysis"
	"runlab/internal/store"
)

// Zone distribution granularity
const (
	SourceSamples = "samples"
	SourceLaps    = "laps"
)

// WorkoutReport is the full per-workout analysis the report screen
// renders. Sections that cannot be computed from the available data are
// nil rather than zeroed.
type WorkoutReport struct {
	Workout    store.Workout
	UnitMeters float64

	Splits     []analysis.Split
	Adjustment analysis.ConditionAdjustment
	// EffectivePace is the condition-corrected average pace, nil when
	// the correction failed its sanity check.
	EffectivePace *float64

	// VDOT of the whole run, nil when the run implies an implausible
	// value or carries too little data.
	VDOT *float64

	// PaceZones is the training ladder distributions classify against,
	// already shifted by the condition penalty when one applies.
	PaceZones *analysis.PaceZones

	PaceDist       *analysis.ZoneDistribution
	PaceDistSource string
	HRDist         *analysis.ZoneDistribution
	HRDistSource   string

	BestSegment *analysis.BestSegment

	MaxHR float64
}

// WorkoutReport computes every analysis section for one workout. Missing
// inputs degrade sections independently: a summary-only workout still
// gets lap-level distributions, a streamless workout still gets a VDOT.
func (s *ReportService) WorkoutReport(id int64) (*WorkoutReport, error) {
	w, err := s.db.GetWorkout(id)
	if err != nil {
		return nil, err
	}

	unit := s.UnitMeters()
	report := &WorkoutReport{
		Workout:    *w,
		UnitMeters: unit,
		MaxHR:      s.maxHR(),
	}

	var samples []analysis.Sample
	if w.HasSamples {
		points, err := s.db.GetSamples(id)
		if err != nil {
			return nil, err
		}
		samples = toAnalysisSamples(points)
	}

	storeLaps, err := s.db.GetLaps(id)
	if err != nil {
		return nil, err
	}
	laps := toAnalysisLaps(storeLaps)

	// Conditions apply whether or not a stream exists.
	var gain float64
	if w.ElevationGain != nil {
		gain = *w.ElevationGain
	}
	report.Adjustment = analysis.AdjustForConditions(workoutWeather(w), gain, w.Distance, unit)

	if w.Distance > 0 && w.Duration > 0 {
		rawPace := float64(w.Duration) / w.Distance * unit
		if pace, ok := report.Adjustment.EffectivePace(rawPace); ok && report.Adjustment.TotalSeconds > 0 {
			report.EffectivePace = &pace
		}

		if vdot, err := analysis.EstimateVDOT(w.Distance, float64(w.Duration), &report.Adjustment); err == nil {
			report.VDOT = &vdot
		}
	}

	if len(samples) > 0 {
		splits, err := analysis.ComputeSplits(samples, unit)
		if err != nil && !errors.Is(err, analysis.ErrInsufficientStream) {
			return nil, err
		}
		report.Splits = splits

		if seg, err := analysis.FindBestSegment(samples, analysis.DefaultMinSegmentMeters, &report.Adjustment); err == nil {
			report.BestSegment = seg
		}
	}

	report.PaceZones = s.paceZones(report.VDOT, unit)
	// Conditions slow every training pace equally, so the day's penalty
	// shifts the whole ladder before anything classifies against it.
	if report.PaceZones != nil && report.Adjustment.TotalSeconds > 0 {
		shifted := report.PaceZones.Shift(report.Adjustment.TotalSeconds)
		report.PaceZones = &shifted
	}
	s.attachDistributions(report, samples, laps)

	return report, nil
}

// paceZones picks the pace ladder: a known VDOT wins, then configured
// reference paces, then the workout's own VDOT.
func (s *ReportService) paceZones(workoutVDOT *float64, unit float64) *analysis.PaceZones {
	if s.cfg != nil && s.cfg.Athlete.KnownVDOT > 0 {
		if zones, err := analysis.ZonesFromVDOT(s.cfg.Athlete.KnownVDOT, unit); err == nil {
			return &zones
		}
	}
	if s.cfg != nil && s.cfg.Paces.Easy > 0 {
		ref := analysis.ReferencePaces{
			Easy:      s.cfg.Paces.Easy,
			Marathon:  s.cfg.Paces.Marathon,
			Tempo:     s.cfg.Paces.Tempo,
			Threshold: s.cfg.Paces.Threshold,
			Interval:  s.cfg.Paces.Interval,
		}
		if zones, err := analysis.ZonesFromReferencePaces(ref, unit); err == nil {
			return &zones
		}
	}
	if workoutVDOT != nil {
		if zones, err := analysis.ZonesFromVDOT(*workoutVDOT, unit); err == nil {
			return &zones
		}
	}
	return nil
}

// attachDistributions computes time-in-zone at sample granularity,
// falling back to lap granularity when no stream exists.
func (s *ReportService) attachDistributions(report *WorkoutReport, samples []analysis.Sample, laps []analysis.Lap) {
	opts := analysis.DefaultDistributionOptions()

	if report.PaceZones != nil {
		if len(samples) > 0 {
			if dist, err := analysis.DistributePace(samples, *report.PaceZones, opts); err == nil {
				report.PaceDist = &dist
				report.PaceDistSource = SourceSamples
			}
		}
		if report.PaceDist == nil && len(laps) > 0 {
			if dist, err := analysis.DistributePaceByLaps(laps, *report.PaceZones); err == nil {
				report.PaceDist = &dist
				report.PaceDistSource = SourceLaps
			}
		}
	}

	if len(samples) > 0 {
		if dist, err := analysis.DistributeHeartRate(samples, report.MaxHR, opts); err == nil {
			report.HRDist = &dist
			report.HRDistSource = SourceSamples
		}
	}
	if report.HRDist == nil && len(laps) > 0 {
		if dist, err := analysis.DistributeHeartRateByLaps(laps, report.MaxHR); err == nil {
			report.HRDist = &dist
			report.HRDistSource = SourceLaps
		}
	}
}
