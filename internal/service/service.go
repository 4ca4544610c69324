package service

import (
	"runlab/internal/analysis"
	"runlab/internal/config"
	"runlab/internal/store"
)

// ReportService assembles analysis reports for the TUI
type ReportService struct {
	db  *store.DB
	cfg *config.Config
}

// NewReportService creates a new report service
func NewReportService(db *store.DB, cfg *config.Config) *ReportService {
	return &ReportService{db: db, cfg: cfg}
}

// UnitMeters returns the split/pace unit implied by the display config.
func (s *ReportService) UnitMeters() float64 {
	if s.cfg != nil && s.cfg.Display.DistanceUnit == "km" {
		return analysis.MetersPerKm
	}
	return analysis.MetersPerMile
}

// maxHR resolves the max heart rate used for HR bands.
func (s *ReportService) maxHR() float64 {
	if s.cfg == nil {
		return analysis.ResolveMaxHR(0, 0)
	}
	return analysis.ResolveMaxHR(s.cfg.Athlete.MaxHR, s.cfg.Athlete.Age)
}

// ListWorkouts returns recent workouts for the workout list screen.
func (s *ReportService) ListWorkouts(limit, offset int) ([]store.Workout, error) {
	return s.db.ListWorkouts(limit, offset)
}

// CountWorkouts returns the total number of stored workouts.
func (s *ReportService) CountWorkouts() (int, error) {
	return s.db.CountWorkouts()
}

// toAnalysisSamples converts stored sample points to analysis samples.
func toAnalysisSamples(points []store.SamplePoint) []analysis.Sample {
	samples := make([]analysis.Sample, len(points))
	for i, p := range points {
		samples[i] = analysis.Sample{
			DistanceMeters: p.Distance,
			ElapsedSeconds: float64(p.TimeOffset),
			Heartrate:      p.Heartrate,
			Altitude:       p.Altitude,
		}
	}
	return samples
}

// toAnalysisLaps converts stored laps to analysis laps.
func toAnalysisLaps(laps []store.Lap) []analysis.Lap {
	out := make([]analysis.Lap, len(laps))
	for i, l := range laps {
		out[i] = analysis.Lap{
			DistanceMeters:  l.Distance,
			DurationSeconds: float64(l.Duration),
			AvgHeartrate:    l.AvgHeartrate,
		}
	}
	return out
}

// workoutWeather extracts the recorded conditions, nil when unknown.
func workoutWeather(w *store.Workout) *analysis.Weather {
	if w.TemperatureF == nil {
		return nil
	}
	weather := analysis.Weather{TemperatureF: *w.TemperatureF}
	if w.HumidityPct != nil {
		weather.HumidityPct = *w.HumidityPct
	}
	return &weather
}
