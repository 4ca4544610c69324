package service

import (
	"time"

	"runlab/internal/analysis"
	"runlab/internal/store"
)

// ThresholdReport carries the threshold estimate plus the inputs the
// screen shows alongside it.
type ThresholdReport struct {
	Estimate   analysis.ThresholdEstimate
	UnitMeters float64
	// Zones derived from the estimate's VDOT cross-check, when present.
	Zones *analysis.PaceZones
}

// ThresholdEstimate scans recent history and fuses a sustainable-pace
// estimate. The returned report is valid even on ErrInsufficientData:
// the estimate then carries only diagnostics.
func (s *ReportService) ThresholdEstimate() (*ThresholdReport, error) {
	now := time.Now()
	workouts, err := s.db.ListWorkoutsSince(thresholdHistoryCutoff(now))
	if err != nil {
		return nil, err
	}

	unit := s.UnitMeters()
	history := make([]analysis.HistoryWorkout, 0, len(workouts))
	for _, w := range workouts {
		h := analysis.HistoryWorkout{
			Date:            w.StartDate,
			Type:            w.Type,
			DistanceMeters:  w.Distance,
			DurationSeconds: float64(w.Duration),
			HasHeartrate:    w.HasHeartrate,
		}
		if w.HasSamples {
			points, err := s.db.GetSamples(w.ID)
			if err != nil {
				return nil, err
			}
			h.Samples = toAnalysisSamples(points)
		}
		history = append(history, h)
	}

	settings := analysis.ThresholdSettings{
		UnitMeters: unit,
		BestRace:   bestRecentRace(workouts, now),
	}
	if s.cfg != nil {
		settings.EasyPaceSeconds = s.cfg.Paces.Easy
	}

	estimate, estErr := analysis.EstimateThreshold(history, settings, analysis.DefaultThresholdParams())

	report := &ThresholdReport{
		Estimate:   estimate,
		UnitMeters: unit,
	}
	if estimate.VDOT != nil {
		if zones, err := analysis.ZonesFromVDOT(estimate.VDOT.VDOT, unit); err == nil {
			report.Zones = &zones
		}
	}

	return report, estErr
}

// bestRecentRace picks the fastest race-typed workout inside the
// freshness window to anchor the VDOT cross-check.
func bestRecentRace(workouts []store.Workout, now time.Time) *analysis.RaceResult {
	cutoff := now.AddDate(0, 0, -RaceFreshnessDays)

	var best *analysis.RaceResult
	var bestVDOT float64
	for _, w := range workouts {
		if w.Type != "race" || w.StartDate.Before(cutoff) {
			continue
		}
		if w.Distance <= 0 || w.Duration <= 0 {
			continue
		}
		vdot, err := analysis.EstimateVDOT(w.Distance, float64(w.Duration), nil)
		if err != nil {
			continue
		}
		if best == nil || vdot > bestVDOT {
			bestVDOT = vdot
			best = &analysis.RaceResult{
				Date:            w.StartDate,
				DistanceMeters:  w.Distance,
				DurationSeconds: float64(w.Duration),
			}
		}
	}
	return best
}
