package store

import (
	"database/sql"
	"fmt"
)

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Activities (as returned by GET /api/activities)
		`CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			sport TEXT NOT NULL DEFAULT '',
			location_name TEXT NOT NULL DEFAULT '',
			start_time TEXT NOT NULL,
			elapsed_time TEXT NOT NULL DEFAULT '',
			distance REAL,
			avg_speed REAL,
			max_speed REAL,
			calories REAL,
			avg_hr REAL,
			max_hr REAL,
			steps INTEGER,
			training_effect REAL,
			training_load REAL,
			vo2_max REAL,
			gps_synced INTEGER DEFAULT 0,
			gps_failures INTEGER NOT NULL DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_start_time ON activities(start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_sport ON activities(sport)`,

		// GPS track points (GET /api/activities/{id}/gps)
		`CREATE TABLE IF NOT EXISTS gps_points (
			activity_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			lat REAL NOT NULL,
			lng REAL NOT NULL,
			PRIMARY KEY (activity_id, seq),
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,

		// Personal-best snapshot, one row per canonical metric name
		`CREATE TABLE IF NOT EXISTS personal_bests (
			metric TEXT PRIMARY KEY,
			value REAL NOT NULL,
			computed_at TEXT NOT NULL
		)`,

		// Current holder of each achievement category
		`CREATE TABLE IF NOT EXISTS record_holders (
			category TEXT PRIMARY KEY,
			activity_id TEXT NOT NULL,
			value REAL NOT NULL,
			achieved_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_record_holders_activity ON record_holders(activity_id)`,

		// Sync State (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	// columns added after the first release
	return addColumnIfMissing(db, "activities", "gps_failures", "INTEGER NOT NULL DEFAULT 0")
}

func addColumnIfMissing(db *sql.DB, table, column, def string) error {
	exists, err := hasColumn(db, table, column)
	if err != nil || exists {
		return err
	}
	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, def))
	return err
}

func hasColumn(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return false, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
