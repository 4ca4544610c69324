package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Workouts (summary data, one row per imported run)
		`CREATE TABLE IF NOT EXISTS workouts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			start_date TEXT NOT NULL,
			distance REAL NOT NULL,
			duration INTEGER NOT NULL,
			elevation_gain REAL,
			avg_heartrate REAL,
			max_heartrate REAL,
			temperature_f REAL,
			humidity_pct REAL,
			has_heartrate INTEGER NOT NULL DEFAULT 0,
			has_samples INTEGER NOT NULL DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_workouts_start_date ON workouts(start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_workouts_type ON workouts(type)`,

		// Samples (second-by-second recording data)
		`CREATE TABLE IF NOT EXISTS samples (
			workout_id INTEGER NOT NULL,
			time_offset INTEGER NOT NULL,
			distance REAL NOT NULL,
			heartrate INTEGER,
			altitude REAL,
			PRIMARY KEY (workout_id, time_offset),
			FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_samples_workout ON samples(workout_id)`,

		// Laps (device lap markers, the fallback when samples are absent)
		`CREATE TABLE IF NOT EXISTS laps (
			workout_id INTEGER NOT NULL,
			lap_index INTEGER NOT NULL,
			distance REAL NOT NULL,
			duration INTEGER NOT NULL,
			avg_heartrate REAL,
			PRIMARY KEY (workout_id, lap_index),
			FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
