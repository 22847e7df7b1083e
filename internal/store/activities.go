package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// timeLayout is fixed width so stored timestamps sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const activityColumns = `id, sport, location_name, start_time, elapsed_time,
	distance, avg_speed, max_speed, calories, avg_hr, max_hr, steps,
	training_effect, training_load, vo2_max, gps_synced`

// UpsertActivity inserts or updates an activity.
// The GPS sync flag of an existing row is left alone.
func (db *DB) UpsertActivity(a *Activity) error {
	return upsertActivity(db.DB, a)
}

// UpsertActivities stores a batch of activities in one transaction
func (db *DB) UpsertActivities(activities []Activity) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range activities {
		if err := upsertActivity(tx, &activities[i]); err != nil {
			return fmt.Errorf("upserting activity %s: %w", activities[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func upsertActivity(e execer, a *Activity) error {
	if a.ID == "" {
		return errors.New("activity without id")
	}
	_, err := e.Exec(`
		INSERT INTO activities (`+activityColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			sport = excluded.sport,
			location_name = excluded.location_name,
			start_time = excluded.start_time,
			elapsed_time = excluded.elapsed_time,
			distance = excluded.distance,
			avg_speed = excluded.avg_speed,
			max_speed = excluded.max_speed,
			calories = excluded.calories,
			avg_hr = excluded.avg_hr,
			max_hr = excluded.max_hr,
			steps = excluded.steps,
			training_effect = excluded.training_effect,
			training_load = excluded.training_load,
			vo2_max = excluded.vo2_max,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.Sport, a.LocationName, a.StartTime.UTC().Format(timeLayout), a.ElapsedTime,
		a.Distance, a.AvgSpeed, a.MaxSpeed, a.Calories, a.AvgHR, a.MaxHR, a.Steps,
		a.TrainingEffect, a.TrainingLoad, a.VO2Max, boolToInt(a.GPSSynced),
	)
	return err
}

// GetActivity retrieves an activity by ID
func (db *DB) GetActivity(id ActivityID) (*Activity, error) {
	row := db.QueryRow(`SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)

	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListActivities returns activities ordered by start time, newest first
func (db *DB) ListActivities(limit, offset int) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		ORDER BY start_time DESC, id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// AllActivities returns every stored activity, newest first
func (db *DB) AllActivities() ([]Activity, error) {
	return db.ListActivities(-1, 0)
}

// ActivitiesNeedingGPS returns activities whose track hasn't been fetched yet,
// those with the fewest failed fetches first, then newest first
func (db *DB) ActivitiesNeedingGPS(limit int) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE gps_synced = 0
		ORDER BY gps_failures ASC, start_time DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// RecordGPSFailure counts a failed track fetch so the activity yields its
// place in the next batch
func (db *DB) RecordGPSFailure(id ActivityID) error {
	result, err := db.Exec(`
		UPDATE activities
		SET gps_failures = gps_failures + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("recording gps failure: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// MarkGPSSynced marks an activity's GPS track as fetched
func (db *DB) MarkGPSSynced(id ActivityID) error {
	result, err := db.Exec(`
		UPDATE activities
		SET gps_synced = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// CountActivities returns the total number of activities
func (db *DB) CountActivities() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM activities").Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...any) error
}

// scanActivity scans a single activity from a row
func scanActivity(row scanner) (*Activity, error) {
	var a Activity
	var startTime string
	var gpsSynced int

	err := row.Scan(
		&a.ID, &a.Sport, &a.LocationName, &startTime, &a.ElapsedTime,
		&a.Distance, &a.AvgSpeed, &a.MaxSpeed, &a.Calories, &a.AvgHR, &a.MaxHR, &a.Steps,
		&a.TrainingEffect, &a.TrainingLoad, &a.VO2Max, &gpsSynced,
	)
	if err != nil {
		return nil, err
	}

	a.StartTime, err = time.Parse(timeLayout, startTime)
	if err != nil {
		return nil, fmt.Errorf("parsing start_time %q: %w", startTime, err)
	}
	a.GPSSynced = gpsSynced == 1

	return &a, nil
}

// scanActivities scans multiple activities from rows
func scanActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity

	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}

	return activities, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
