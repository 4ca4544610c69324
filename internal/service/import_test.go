package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleWorkoutJSON = `{
  "name": "Tuesday Tempo",
  "type": "tempo",
  "start_date": "2026-04-07T06:15:00Z",
  "temperature_f": 68,
  "humidity_pct": 55,
  "stream": {
    "time": [0, 10, 20, 30],
    "distance": [0, 33, 67, 100],
    "heartrate": [120, 140, 152, 155],
    "altitude": [12.0, 12.5, 13.0, 13.5]
  },
  "laps": [
    {"distance": 50, "duration": 15, "avg_heartrate": 140},
    {"distance": 50, "duration": 15}
  ]
}`

func writeWorkoutFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestImportFile(t *testing.T) {
	svc, db := setupService(t, nil)

	id, err := svc.ImportFile(writeWorkoutFile(t, sampleWorkoutJSON))
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}

	w, err := db.GetWorkout(id)
	if err != nil {
		t.Fatalf("GetWorkout() error = %v", err)
	}
	if w.Name != "Tuesday Tempo" || w.Type != "tempo" {
		t.Errorf("workout = %q/%q", w.Name, w.Type)
	}
	// Summary figures derive from the final stream point.
	if w.Distance != 100 || w.Duration != 30 {
		t.Errorf("distance/duration = %v/%v, want 100/30", w.Distance, w.Duration)
	}
	if !w.HasHeartrate || !w.HasSamples {
		t.Errorf("HasHeartrate/HasSamples = %v/%v, want true/true", w.HasHeartrate, w.HasSamples)
	}
	if w.TemperatureF == nil || *w.TemperatureF != 68 {
		t.Errorf("TemperatureF = %v, want 68", w.TemperatureF)
	}

	points, err := db.GetSamples(id)
	if err != nil {
		t.Fatalf("GetSamples() error = %v", err)
	}
	if len(points) != 4 {
		t.Fatalf("got %d samples, want 4", len(points))
	}
	if points[2].Heartrate == nil || *points[2].Heartrate != 152 {
		t.Errorf("sample 2 HR = %v, want 152", points[2].Heartrate)
	}

	laps, err := db.GetLaps(id)
	if err != nil {
		t.Fatalf("GetLaps() error = %v", err)
	}
	if len(laps) != 2 {
		t.Fatalf("got %d laps, want 2", len(laps))
	}
}

func TestImportFile_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		json        string
		errContains string
	}{
		{
			name:        "missing name",
			json:        `{"type": "easy", "start_date": "2026-04-07T06:15:00Z", "distance": 5000, "duration": 1500}`,
			errContains: "name",
		},
		{
			name:        "bad start date",
			json:        `{"name": "Run", "start_date": "yesterday", "distance": 5000, "duration": 1500}`,
			errContains: "start_date",
		},
		{
			name:        "no distance and no stream",
			json:        `{"name": "Run", "start_date": "2026-04-07T06:15:00Z"}`,
			errContains: "distance",
		},
		{
			name: "mismatched stream arrays",
			json: `{"name": "Run", "start_date": "2026-04-07T06:15:00Z",
				"stream": {"time": [0, 10, 20], "distance": [0, 33]}}`,
			errContains: "disagree",
		},
		{
			name: "zero-distance lap",
			json: `{"name": "Run", "start_date": "2026-04-07T06:15:00Z", "distance": 5000, "duration": 1500,
				"laps": [{"distance": 0, "duration": 300}]}`,
			errContains: "lap",
		},
		{
			name:        "not json",
			json:        `not json at all`,
			errContains: "parsing",
		},
	}

	svc, _ := setupService(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ImportFile(writeWorkoutFile(t, tt.json))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q should mention %q", err, tt.errContains)
			}
		})
	}
}

func TestImportFile_FiltersImplausibleHeartrates(t *testing.T) {
	svc, db := setupService(t, nil)

	json := `{"name": "Run", "start_date": "2026-04-07T06:15:00Z",
		"stream": {"time": [0, 10, 20], "distance": [0, 33, 67], "heartrate": [140, 30, 250]}}`

	id, err := svc.ImportFile(writeWorkoutFile(t, json))
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}

	points, err := db.GetSamples(id)
	if err != nil {
		t.Fatalf("GetSamples() error = %v", err)
	}
	if points[0].Heartrate == nil {
		t.Error("plausible HR dropped")
	}
	if points[1].Heartrate != nil || points[2].Heartrate != nil {
		t.Error("implausible HR readings should be stored as null")
	}
}
