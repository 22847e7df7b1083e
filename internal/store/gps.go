package store

import "fmt"

// ReplaceGPSPoints saves the track for an activity, replacing any stored points,
// and marks the activity as GPS-synced.
func (db *DB) ReplaceGPSPoints(activityID ActivityID, points []GPSPoint) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow("SELECT COUNT(*) FROM activities WHERE id = ?", activityID).Scan(&exists); err != nil {
		return fmt.Errorf("checking activity: %w", err)
	}
	if exists == 0 {
		return ErrActivityNotFound
	}

	if _, err := tx.Exec("DELETE FROM gps_points WHERE activity_id = ?", activityID); err != nil {
		return fmt.Errorf("deleting existing gps points: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO gps_points (activity_id, seq, lat, lng)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, p := range points {
		if _, err := stmt.Exec(activityID, i, p.Lat, p.Lng); err != nil {
			return fmt.Errorf("inserting gps point: %w", err)
		}
	}

	if _, err := tx.Exec(`
		UPDATE activities
		SET gps_synced = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, activityID); err != nil {
		return fmt.Errorf("marking gps synced: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetGPSPoints retrieves the track of an activity in recorded order
func (db *DB) GetGPSPoints(activityID ActivityID) ([]GPSPoint, error) {
	rows, err := db.Query(`
		SELECT activity_id, seq, lat, lng
		FROM gps_points
		WHERE activity_id = ?
		ORDER BY seq
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []GPSPoint
	for rows.Next() {
		var p GPSPoint
		if err := rows.Scan(&p.ActivityID, &p.Seq, &p.Lat, &p.Lng); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// CountGPSPoints returns how many track points are stored for an activity
func (db *DB) CountGPSPoints(activityID ActivityID) (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM gps_points WHERE activity_id = ?", activityID).Scan(&count)
	return count, err
}
