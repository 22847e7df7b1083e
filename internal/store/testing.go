package store

// OpenInMemory opens a migrated in-memory database.
// Every call gets its own database, so it is meant for tests.
func OpenInMemory() (*DB, error) {
	db, err := open(":memory:")
	if err != nil {
		return nil, err
	}
	// each pooled connection would otherwise see a different empty database
	db.SetMaxOpenConns(1)
	return db, nil
}
