package store

import "time"

// Workout represents an imported run summary
type Workout struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	Type          string    `db:"type"`
	StartDate     time.Time `db:"start_date"`
	Distance      float64   `db:"distance"` // meters
	Duration      int       `db:"duration"` // seconds
	ElevationGain *float64  `db:"elevation_gain"`
	AvgHeartrate  *float64  `db:"avg_heartrate"` // nullable
	MaxHeartrate  *float64  `db:"max_heartrate"` // nullable
	TemperatureF  *float64  `db:"temperature_f"` // nullable
	HumidityPct   *float64  `db:"humidity_pct"`  // nullable
	HasHeartrate  bool      `db:"has_heartrate"`
	HasSamples    bool      `db:"has_samples"`
}

// SamplePoint represents a single data point from a workout recording
type SamplePoint struct {
	WorkoutID  int64    `db:"workout_id"`
	TimeOffset int      `db:"time_offset"` // seconds
	Distance   float64  `db:"distance"`    // cumulative meters
	Heartrate  *int     `db:"heartrate"`   // bpm
	Altitude   *float64 `db:"altitude"`    // meters
}

// Lap represents a device lap marker within a workout
type Lap struct {
	WorkoutID    int64    `db:"workout_id"`
	LapIndex     int      `db:"lap_index"`
	Distance     float64  `db:"distance"` // meters
	Duration     int      `db:"duration"` // seconds
	AvgHeartrate *float64 `db:"avg_heartrate"`
}
