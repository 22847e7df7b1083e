package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ReplaceRecordHolders makes holders the complete set of stored record holders
// in one transaction. Categories missing from holders are dropped. It returns,
// in input order, the categories whose holding activity changed or that had
// no holder before.
func (db *DB) ReplaceRecordHolders(holders []RecordHolder) (changed []string, err error) {
	previous, err := db.ListRecordHolders()
	if err != nil {
		return nil, fmt.Errorf("loading record holders: %w", err)
	}
	before := make(map[string]ActivityID, len(previous))
	for _, r := range previous {
		before[r.Category] = r.ActivityID
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM record_holders"); err != nil {
		return nil, fmt.Errorf("clearing record holders: %w", err)
	}

	now := time.Now().UTC().Format(timeLayout)
	for _, r := range holders {
		_, err := tx.Exec(`
			INSERT INTO record_holders (category, activity_id, value, achieved_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`,
			r.Category, r.ActivityID, r.Value,
			r.AchievedAt.UTC().Format(timeLayout), now,
		)
		if err != nil {
			return nil, fmt.Errorf("storing %s holder: %w", r.Category, err)
		}

		if prev, ok := before[r.Category]; !ok || prev != r.ActivityID {
			changed = append(changed, r.Category)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return changed, nil
}

// GetRecordHolder retrieves the holder of a category
func (db *DB) GetRecordHolder(category string) (*RecordHolder, error) {
	row := db.QueryRow(`
		SELECT category, activity_id, value, achieved_at, updated_at
		FROM record_holders
		WHERE category = ?
	`, category)

	r, err := scanRecordHolder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	return r, err
}

// ListRecordHolders retrieves all stored holders
func (db *DB) ListRecordHolders() ([]RecordHolder, error) {
	rows, err := db.Query(`
		SELECT category, activity_id, value, achieved_at, updated_at
		FROM record_holders
		ORDER BY category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RecordHolder
	for rows.Next() {
		r, err := scanRecordHolder(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// DeleteRecordHolders removes every stored holder
func (db *DB) DeleteRecordHolders() error {
	_, err := db.Exec("DELETE FROM record_holders")
	return err
}

func scanRecordHolder(row scanner) (*RecordHolder, error) {
	var r RecordHolder
	var achievedAt, updatedAt string

	if err := row.Scan(&r.Category, &r.ActivityID, &r.Value, &achievedAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	r.AchievedAt, err = time.Parse(timeLayout, achievedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing achieved_at %q: %w", achievedAt, err)
	}
	r.UpdatedAt, err = time.Parse(timeLayout, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at %q: %w", updatedAt, err)
	}
	return &r, nil
}
