package store

import (
	"fmt"
	"time"
)

// SavePersonalBests replaces the stored personal-best snapshot
func (db *DB) SavePersonalBests(values map[string]float64, computedAt time.Time) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM personal_bests"); err != nil {
		return fmt.Errorf("clearing personal bests: %w", err)
	}

	at := computedAt.UTC().Format(timeLayout)
	for metric, value := range values {
		if _, err := tx.Exec(`
			INSERT INTO personal_bests (metric, value, computed_at)
			VALUES (?, ?, ?)
		`, metric, value, at); err != nil {
			return fmt.Errorf("inserting personal best %q: %w", metric, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// LoadPersonalBests returns the stored snapshot, or ErrNoPersonalBests
func (db *DB) LoadPersonalBests() (*PersonalBestsSnapshot, error) {
	rows, err := db.Query(`SELECT metric, value, computed_at FROM personal_bests`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snap := &PersonalBestsSnapshot{Values: make(map[string]float64)}
	for rows.Next() {
		var metric, computedAt string
		var value float64
		if err := rows.Scan(&metric, &value, &computedAt); err != nil {
			return nil, err
		}
		snap.Values[metric] = value

		at, err := time.Parse(timeLayout, computedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing computed_at %q: %w", computedAt, err)
		}
		if at.After(snap.ComputedAt) {
			snap.ComputedAt = at
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(snap.Values) == 0 {
		return nil, ErrNoPersonalBests
	}
	return snap, nil
}

// DeletePersonalBests drops the stored snapshot
func (db *DB) DeletePersonalBests() error {
	_, err := db.Exec("DELETE FROM personal_bests")
	return err
}
