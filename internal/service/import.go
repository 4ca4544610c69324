package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"runlab/internal/analysis"
	"runlab/internal/store"
)

// workoutFile is the JSON shape `runlab import` accepts. Distance and
// duration may be omitted when a stream is present; they are then
// derived from the final stream point.
type workoutFile struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	StartDate     string   `json:"start_date"` // RFC 3339
	Distance      float64  `json:"distance"`   // meters
	Duration      int      `json:"duration"`   // seconds
	ElevationGain *float64 `json:"elevation_gain"`
	AvgHeartrate  *float64 `json:"avg_heartrate"`
	MaxHeartrate  *float64 `json:"max_heartrate"`
	TemperatureF  *float64 `json:"temperature_f"`
	HumidityPct   *float64 `json:"humidity_pct"`

	Stream *streamFile `json:"stream"`
	Laps   []lapFile   `json:"laps"`
}

// streamFile holds parallel arrays keyed by sample index, the common
// export shape of recording platforms.
type streamFile struct {
	Time      []int     `json:"time"`     // seconds from start
	Distance  []float64 `json:"distance"` // cumulative meters
	Heartrate []int     `json:"heartrate"`
	Altitude  []float64 `json:"altitude"`
}

type lapFile struct {
	Distance     float64  `json:"distance"` // meters
	Duration     int      `json:"duration"` // seconds
	AvgHeartrate *float64 `json:"avg_heartrate"`
}

// ImportFile parses a workout JSON file and stores it. Returns the new
// workout's ID.
func (s *ReportService) ImportFile(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading workout file: %w", err)
	}

	var wf workoutFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return 0, fmt.Errorf("parsing workout file: %w", err)
	}

	w, points, laps, err := wf.toModels()
	if err != nil {
		return 0, err
	}

	id, err := s.db.ImportWorkout(w, points, laps)
	if err != nil {
		return 0, fmt.Errorf("storing workout: %w", err)
	}
	return id, nil
}

func (wf *workoutFile) toModels() (*store.Workout, []store.SamplePoint, []store.Lap, error) {
	if wf.Name == "" {
		return nil, nil, nil, errors.New("workout name is required")
	}
	startDate, err := time.Parse(time.RFC3339, wf.StartDate)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parsing start_date %q: %w", wf.StartDate, err)
	}

	workoutType := wf.Type
	if workoutType == "" {
		workoutType = "easy"
	}

	points, err := wf.streamPoints()
	if err != nil {
		return nil, nil, nil, err
	}

	w := &store.Workout{
		Name:          wf.Name,
		Type:          workoutType,
		StartDate:     startDate,
		Distance:      wf.Distance,
		Duration:      wf.Duration,
		ElevationGain: wf.ElevationGain,
		AvgHeartrate:  wf.AvgHeartrate,
		MaxHeartrate:  wf.MaxHeartrate,
		TemperatureF:  wf.TemperatureF,
		HumidityPct:   wf.HumidityPct,
	}

	// Derive summary figures from the stream when absent.
	if len(points) > 0 {
		last := points[len(points)-1]
		if w.Distance == 0 {
			w.Distance = last.Distance
		}
		if w.Duration == 0 {
			w.Duration = last.TimeOffset
		}
	}
	if w.Distance <= 0 || w.Duration <= 0 {
		return nil, nil, nil, errors.New("workout needs a positive distance and duration, or a stream to derive them")
	}

	w.HasHeartrate = wf.AvgHeartrate != nil
	for _, p := range points {
		if p.Heartrate != nil {
			w.HasHeartrate = true
			break
		}
	}

	var laps []store.Lap
	for i, l := range wf.Laps {
		if l.Distance <= 0 || l.Duration <= 0 {
			return nil, nil, nil, fmt.Errorf("lap %d needs a positive distance and duration", i)
		}
		laps = append(laps, store.Lap{
			Distance:     l.Distance,
			Duration:     l.Duration,
			AvgHeartrate: l.AvgHeartrate,
		})
	}

	return w, points, laps, nil
}

// streamPoints zips the parallel stream arrays into sample points.
// Optional arrays must either be empty or match the time array's length.
func (wf *workoutFile) streamPoints() ([]store.SamplePoint, error) {
	if wf.Stream == nil {
		return nil, nil
	}
	st := wf.Stream

	n := len(st.Time)
	if n == 0 {
		return nil, nil
	}
	if len(st.Distance) != n {
		return nil, fmt.Errorf("stream arrays disagree: %d time points, %d distance points", n, len(st.Distance))
	}
	if len(st.Heartrate) != 0 && len(st.Heartrate) != n {
		return nil, fmt.Errorf("stream arrays disagree: %d time points, %d heartrate points", n, len(st.Heartrate))
	}
	if len(st.Altitude) != 0 && len(st.Altitude) != n {
		return nil, fmt.Errorf("stream arrays disagree: %d time points, %d altitude points", n, len(st.Altitude))
	}

	points := make([]store.SamplePoint, n)
	for i := 0; i < n; i++ {
		p := store.SamplePoint{
			TimeOffset: st.Time[i],
			Distance:   st.Distance[i],
		}
		if len(st.Heartrate) == n {
			hr := st.Heartrate[i]
			if hr > analysis.MinValidHeartrate && hr < analysis.MaxValidHeartrate {
				p.Heartrate = &hr
			}
		}
		if len(st.Altitude) == n {
			alt := st.Altitude[i]
			p.Altitude = &alt
		}
		points[i] = p
	}
	return points, nil
}
