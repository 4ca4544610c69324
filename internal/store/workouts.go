package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ImportWorkout inserts a workout with its samples and laps in one
// transaction and returns the new workout ID.
func (db *DB) ImportWorkout(w *Workout, points []SamplePoint, laps []Lap) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	w.HasSamples = len(points) > 0

	res, err := tx.Exec(`
		INSERT INTO workouts (
			name, type, start_date, distance, duration, elevation_gain,
			avg_heartrate, max_heartrate, temperature_f, humidity_pct,
			has_heartrate, has_samples
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		w.Name, w.Type, w.StartDate.Format(time.RFC3339), w.Distance, w.Duration,
		w.ElevationGain, w.AvgHeartrate, w.MaxHeartrate, w.TemperatureF, w.HumidityPct,
		boolToInt(w.HasHeartrate), boolToInt(w.HasSamples),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting workout: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading workout id: %w", err)
	}

	if len(points) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO samples (workout_id, time_offset, distance, heartrate, altitude)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return 0, fmt.Errorf("preparing sample statement: %w", err)
		}
		defer stmt.Close()

		for _, p := range points {
			if _, err := stmt.Exec(id, p.TimeOffset, p.Distance, p.Heartrate, p.Altitude); err != nil {
				return 0, fmt.Errorf("inserting sample: %w", err)
			}
		}
	}

	if len(laps) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO laps (workout_id, lap_index, distance, duration, avg_heartrate)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return 0, fmt.Errorf("preparing lap statement: %w", err)
		}
		defer stmt.Close()

		for i, l := range laps {
			if _, err := stmt.Exec(id, i, l.Distance, l.Duration, l.AvgHeartrate); err != nil {
				return 0, fmt.Errorf("inserting lap: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	w.ID = id
	return id, nil
}

const workoutColumns = `id, name, type, start_date, distance, duration, elevation_gain,
	avg_heartrate, max_heartrate, temperature_f, humidity_pct, has_heartrate, has_samples`

// GetWorkout retrieves a workout by ID
func (db *DB) GetWorkout(id int64) (*Workout, error) {
	row := db.QueryRow(`SELECT `+workoutColumns+` FROM workouts WHERE id = ?`, id)

	w, err := scanWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ListWorkouts returns workouts ordered by start date descending
func (db *DB) ListWorkouts(limit, offset int) ([]Workout, error) {
	rows, err := db.Query(`
		SELECT `+workoutColumns+`
		FROM workouts
		ORDER BY start_date DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// ListWorkoutsSince returns workouts on or after the given time, most
// recent first. Used to assemble the history the threshold estimator
// scans.
func (db *DB) ListWorkoutsSince(since time.Time) ([]Workout, error) {
	rows, err := db.Query(`
		SELECT `+workoutColumns+`
		FROM workouts
		WHERE start_date >= ?
		ORDER BY start_date DESC
	`, since.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// CountWorkouts returns the total number of workouts
func (db *DB) CountWorkouts() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM workouts").Scan(&count)
	return count, err
}

// DeleteWorkout removes a workout and, via cascade, its samples and laps
func (db *DB) DeleteWorkout(id int64) error {
	res, err := db.Exec("DELETE FROM workouts WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row rowScanner) (*Workout, error) {
	var w Workout
	var startDate string
	var hasHR, hasSamples int

	err := row.Scan(
		&w.ID, &w.Name, &w.Type, &startDate, &w.Distance, &w.Duration,
		&w.ElevationGain, &w.AvgHeartrate, &w.MaxHeartrate,
		&w.TemperatureF, &w.HumidityPct, &hasHR, &hasSamples,
	)
	if err != nil {
		return nil, err
	}

	w.StartDate, err = time.Parse(time.RFC3339, startDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date %q: %w", startDate, err)
	}
	w.HasHeartrate = hasHR == 1
	w.HasSamples = hasSamples == 1
	return &w, nil
}

func scanWorkouts(rows *sql.Rows) ([]Workout, error) {
	var workouts []Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *w)
	}
	return workouts, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
