package store

import (
	"errors"
	"testing"
	"time"
)

// setupTestDB creates an in-memory database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func ptr[T any](v T) *T { return &v }

func testWorkout(name string, start time.Time) *Workout {
	return &Workout{
		Name:         name,
		Type:         "easy",
		StartDate:    start,
		Distance:     8046.7,
		Duration:     2700,
		AvgHeartrate: ptr(142.0),
		HasHeartrate: true,
	}
}

func TestImportWorkout_RoundTrip(t *testing.T) {
	db := setupTestDB(t)

	start := time.Date(2026, 3, 15, 6, 30, 0, 0, time.UTC)
	w := testWorkout("Morning Run", start)
	w.TemperatureF = ptr(72.0)
	w.HumidityPct = ptr(65.0)

	points := []SamplePoint{
		{TimeOffset: 0, Distance: 0, Heartrate: ptr(120), Altitude: ptr(100.0)},
		{TimeOffset: 10, Distance: 30, Heartrate: ptr(135), Altitude: ptr(101.0)},
		{TimeOffset: 20, Distance: 62, Heartrate: ptr(141)},
	}
	laps := []Lap{
		{Distance: 1609.34, Duration: 540, AvgHeartrate: ptr(138.0)},
		{Distance: 1609.34, Duration: 535},
	}

	id, err := db.ImportWorkout(w, points, laps)
	if err != nil {
		t.Fatalf("ImportWorkout() error = %v", err)
	}
	if id == 0 {
		t.Fatal("ImportWorkout() returned zero id")
	}

	got, err := db.GetWorkout(id)
	if err != nil {
		t.Fatalf("GetWorkout() error = %v", err)
	}
	if got.Name != "Morning Run" || got.Type != "easy" {
		t.Errorf("workout = %q/%q, want Morning Run/easy", got.Name, got.Type)
	}
	if !got.StartDate.Equal(start) {
		t.Errorf("StartDate = %v, want %v", got.StartDate, start)
	}
	if got.TemperatureF == nil || *got.TemperatureF != 72 {
		t.Errorf("TemperatureF = %v, want 72", got.TemperatureF)
	}
	if !got.HasSamples {
		t.Error("HasSamples should be set when points are imported")
	}

	gotPoints, err := db.GetSamples(id)
	if err != nil {
		t.Fatalf("GetSamples() error = %v", err)
	}
	if len(gotPoints) != 3 {
		t.Fatalf("got %d samples, want 3", len(gotPoints))
	}
	if gotPoints[1].Distance != 30 || *gotPoints[1].Heartrate != 135 {
		t.Errorf("sample 1 = %+v", gotPoints[1])
	}
	if gotPoints[2].Altitude != nil {
		t.Errorf("sample 2 altitude = %v, want nil", gotPoints[2].Altitude)
	}

	gotLaps, err := db.GetLaps(id)
	if err != nil {
		t.Fatalf("GetLaps() error = %v", err)
	}
	if len(gotLaps) != 2 {
		t.Fatalf("got %d laps, want 2", len(gotLaps))
	}
	if gotLaps[0].LapIndex != 0 || gotLaps[1].LapIndex != 1 {
		t.Errorf("lap order wrong: %+v", gotLaps)
	}
	if gotLaps[1].AvgHeartrate != nil {
		t.Errorf("lap 1 avg HR = %v, want nil", gotLaps[1].AvgHeartrate)
	}
}

func TestImportWorkout_SummaryOnly(t *testing.T) {
	db := setupTestDB(t)

	id, err := db.ImportWorkout(testWorkout("Track Day", time.Now().UTC().Truncate(time.Second)), nil, nil)
	if err != nil {
		t.Fatalf("ImportWorkout() error = %v", err)
	}

	got, err := db.GetWorkout(id)
	if err != nil {
		t.Fatalf("GetWorkout() error = %v", err)
	}
	if got.HasSamples {
		t.Error("HasSamples should be false without points")
	}

	has, err := db.HasSamples(id)
	if err != nil {
		t.Fatalf("HasSamples() error = %v", err)
	}
	if has {
		t.Error("HasSamples() = true for a summary-only workout")
	}
}

func TestGetWorkout_NotFound(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.GetWorkout(9999); !errors.Is(err, ErrWorkoutNotFound) {
		t.Errorf("GetWorkout() error = %v, want ErrWorkoutNotFound", err)
	}
}

func TestListWorkouts_Order(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := db.ImportWorkout(testWorkout("Run", base.AddDate(0, 0, i)), nil, nil); err != nil {
			t.Fatalf("ImportWorkout() error = %v", err)
		}
	}

	workouts, err := db.ListWorkouts(3, 0)
	if err != nil {
		t.Fatalf("ListWorkouts() error = %v", err)
	}
	if len(workouts) != 3 {
		t.Fatalf("got %d workouts, want 3", len(workouts))
	}
	for i := 1; i < len(workouts); i++ {
		if workouts[i].StartDate.After(workouts[i-1].StartDate) {
			t.Error("workouts not ordered most recent first")
		}
	}

	count, err := db.CountWorkouts()
	if err != nil {
		t.Fatalf("CountWorkouts() error = %v", err)
	}
	if count != 5 {
		t.Errorf("CountWorkouts() = %d, want 5", count)
	}
}

func TestListWorkoutsSince(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		if _, err := db.ImportWorkout(testWorkout("Run", base.AddDate(0, 0, i*7)), nil, nil); err != nil {
			t.Fatalf("ImportWorkout() error = %v", err)
		}
	}

	since := base.AddDate(0, 0, 30)
	workouts, err := db.ListWorkoutsSince(since)
	if err != nil {
		t.Fatalf("ListWorkoutsSince() error = %v", err)
	}
	for _, w := range workouts {
		if w.StartDate.Before(since) {
			t.Errorf("workout at %v predates cutoff %v", w.StartDate, since)
		}
	}
	if len(workouts) != 5 {
		t.Errorf("got %d workouts, want 5", len(workouts))
	}
}

func TestDeleteWorkout_Cascades(t *testing.T) {
	db := setupTestDB(t)

	points := []SamplePoint{
		{TimeOffset: 0, Distance: 0},
		{TimeOffset: 10, Distance: 30},
	}
	id, err := db.ImportWorkout(testWorkout("Run", time.Now().UTC()), points, nil)
	if err != nil {
		t.Fatalf("ImportWorkout() error = %v", err)
	}

	if err := db.DeleteWorkout(id); err != nil {
		t.Fatalf("DeleteWorkout() error = %v", err)
	}

	if _, err := db.GetWorkout(id); !errors.Is(err, ErrWorkoutNotFound) {
		t.Errorf("GetWorkout() after delete error = %v, want ErrWorkoutNotFound", err)
	}
	count, err := db.GetSampleCount(id)
	if err != nil {
		t.Fatalf("GetSampleCount() error = %v", err)
	}
	if count != 0 {
		t.Errorf("samples survived workout deletion: %d", count)
	}

	if err := db.DeleteWorkout(id); !errors.Is(err, ErrWorkoutNotFound) {
		t.Errorf("second DeleteWorkout() error = %v, want ErrWorkoutNotFound", err)
	}
}
