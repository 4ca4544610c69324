package store

import "database/sql"

// GetSamples retrieves all sample points for a workout, ordered by time
func (db *DB) GetSamples(workoutID int64) ([]SamplePoint, error) {
	rows, err := db.Query(`
		SELECT workout_id, time_offset, distance, heartrate, altitude
		FROM samples
		WHERE workout_id = ?
		ORDER BY time_offset
	`, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []SamplePoint
	for rows.Next() {
		var p SamplePoint
		if err := rows.Scan(&p.WorkoutID, &p.TimeOffset, &p.Distance, &p.Heartrate, &p.Altitude); err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	return points, rows.Err()
}

// GetSampleCount returns the number of sample points for a workout
func (db *DB) GetSampleCount(workoutID int64) (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM samples WHERE workout_id = ?", workoutID).Scan(&count)
	return count, err
}

// HasSamples checks if a workout has recorded sample data
func (db *DB) HasSamples(workoutID int64) (bool, error) {
	var exists int
	err := db.QueryRow(`
		SELECT 1 FROM samples WHERE workout_id = ? LIMIT 1
	`, workoutID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
