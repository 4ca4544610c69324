package store

// GetLaps retrieves the lap markers for a workout, in lap order
func (db *DB) GetLaps(workoutID int64) ([]Lap, error) {
	rows, err := db.Query(`
		SELECT workout_id, lap_index, distance, duration, avg_heartrate
		FROM laps
		WHERE workout_id = ?
		ORDER BY lap_index
	`, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var laps []Lap
	for rows.Next() {
		var l Lap
		if err := rows.Scan(&l.WorkoutID, &l.LapIndex, &l.Distance, &l.Duration, &l.AvgHeartrate); err != nil {
			return nil, err
		}
		laps = append(laps, l)
	}

	return laps, rows.Err()
}
