package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// setupTestDB creates an in-memory database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func floatPtr(f float64) *float64 {
	return &f
}

func intPtr(i int) *int {
	return &i
}

func testActivity(id string, start time.Time) Activity {
	return Activity{
		ID:             ActivityID(id),
		Sport:          "running",
		LocationName:   "Zagreb",
		StartTime:      start,
		ElapsedTime:    "00:30:00",
		Distance:       floatPtr(5.2),
		AvgSpeed:       floatPtr(10.4),
		MaxSpeed:       floatPtr(14.1),
		Calories:       floatPtr(380),
		AvgHR:          floatPtr(151),
		MaxHR:          floatPtr(176),
		Steps:          intPtr(5200),
		TrainingEffect: floatPtr(3.1),
		TrainingLoad:   floatPtr(98),
		VO2Max:         floatPtr(51),
	}
}

func TestUpsertActivity_RoundTrip(t *testing.T) {
	db := setupTestDB(t)

	start := time.Date(2024, 1, 15, 7, 30, 12, 500000000, time.UTC)
	a := testActivity("1001", start)
	a.AvgHR = nil
	a.Steps = nil

	if err := db.UpsertActivity(&a); err != nil {
		t.Fatalf("UpsertActivity failed: %v", err)
	}

	got, err := db.GetActivity("1001")
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}

	if !got.StartTime.Equal(start) {
		t.Errorf("StartTime = %v, want %v", got.StartTime, start)
	}
	if got.AvgHR != nil {
		t.Errorf("AvgHR = %v, want nil", *got.AvgHR)
	}
	if got.Steps != nil {
		t.Errorf("Steps = %v, want nil", *got.Steps)
	}
	if got.Distance == nil || *got.Distance != 5.2 {
		t.Errorf("Distance = %v, want 5.2", got.Distance)
	}
	if got.ElapsedTime != "00:30:00" {
		t.Errorf("ElapsedTime = %q, want 00:30:00", got.ElapsedTime)
	}
	if got.LocationName != "Zagreb" || got.Sport != "running" {
		t.Errorf("got %q/%q, want Zagreb/running", got.LocationName, got.Sport)
	}
}

func TestUpsertActivity_UpdateKeepsGPSFlag(t *testing.T) {
	db := setupTestDB(t)

	a := testActivity("1", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	if err := db.UpsertActivity(&a); err != nil {
		t.Fatalf("UpsertActivity failed: %v", err)
	}
	if err := db.MarkGPSSynced("1"); err != nil {
		t.Fatalf("MarkGPSSynced failed: %v", err)
	}

	a.Calories = floatPtr(999)
	a.GPSSynced = false
	if err := db.UpsertActivity(&a); err != nil {
		t.Fatalf("UpsertActivity (update) failed: %v", err)
	}

	got, err := db.GetActivity("1")
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}
	if *got.Calories != 999 {
		t.Errorf("Calories = %v, want 999", *got.Calories)
	}
	if !got.GPSSynced {
		t.Error("GPSSynced should survive an update")
	}

	count, _ := db.CountActivities()
	if count != 1 {
		t.Errorf("CountActivities = %d, want 1", count)
	}
}

func TestUpsertActivity_RequiresID(t *testing.T) {
	db := setupTestDB(t)

	a := testActivity("", time.Now())
	if err := db.UpsertActivity(&a); err == nil {
		t.Error("expected an error for an activity without id")
	}
}

func TestGetActivity_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetActivity("missing")
	if !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("GetActivity error = %v, want ErrActivityNotFound", err)
	}
	if err := db.MarkGPSSynced("missing"); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("MarkGPSSynced error = %v, want ErrActivityNotFound", err)
	}
}

func TestListActivities_NewestFirst(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	batch := []Activity{
		testActivity("a", base),
		testActivity("b", base.Add(72*time.Hour)),
		testActivity("c", base.Add(24*time.Hour)),
		// non-UTC zones still sort by instant
		testActivity("d", base.Add(36*time.Hour).In(time.FixedZone("CEST", 2*3600))),
	}
	if err := db.UpsertActivities(batch); err != nil {
		t.Fatalf("UpsertActivities failed: %v", err)
	}

	all, err := db.AllActivities()
	if err != nil {
		t.Fatalf("AllActivities failed: %v", err)
	}

	want := []ActivityID{"b", "d", "c", "a"}
	if len(all) != len(want) {
		t.Fatalf("AllActivities returned %d activities, want %d", len(all), len(want))
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Errorf("AllActivities[%d] = %s, want %s", i, all[i].ID, id)
		}
	}

	page, err := db.ListActivities(2, 1)
	if err != nil {
		t.Fatalf("ListActivities failed: %v", err)
	}
	if len(page) != 2 || page[0].ID != "d" || page[1].ID != "c" {
		t.Errorf("ListActivities(2, 1) = %v, want [d c]", page)
	}
}

func TestActivitiesNeedingGPS(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	if err := db.UpsertActivities([]Activity{testActivity("a", base), testActivity("b", base.Add(time.Hour))}); err != nil {
		t.Fatalf("UpsertActivities failed: %v", err)
	}
	if err := db.MarkGPSSynced("b"); err != nil {
		t.Fatalf("MarkGPSSynced failed: %v", err)
	}

	pending, err := db.ActivitiesNeedingGPS(10)
	if err != nil {
		t.Fatalf("ActivitiesNeedingGPS failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "a" {
		t.Errorf("ActivitiesNeedingGPS = %v, want [a]", pending)
	}
}

func TestActivitiesNeedingGPS_FailedFetchesGoLast(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	if err := db.UpsertActivities([]Activity{
		testActivity("old", base),
		testActivity("mid", base.Add(time.Hour)),
		testActivity("new", base.Add(2*time.Hour)),
	}); err != nil {
		t.Fatalf("UpsertActivities failed: %v", err)
	}

	if err := db.RecordGPSFailure("new"); err != nil {
		t.Fatalf("RecordGPSFailure failed: %v", err)
	}

	pending, err := db.ActivitiesNeedingGPS(2)
	if err != nil {
		t.Fatalf("ActivitiesNeedingGPS failed: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "mid" || pending[1].ID != "old" {
		t.Errorf("ActivitiesNeedingGPS(2) = %v, want [mid old]", pending)
	}

	// a re-sync of the activity keeps its failure count
	if err := db.UpsertActivity(&Activity{ID: "new", StartTime: base.Add(2 * time.Hour)}); err != nil {
		t.Fatalf("UpsertActivity failed: %v", err)
	}
	pending, _ = db.ActivitiesNeedingGPS(3)
	if len(pending) != 3 || pending[2].ID != "new" {
		t.Errorf("ActivitiesNeedingGPS(3) = %v, want new last", pending)
	}

	if err := db.RecordGPSFailure("missing"); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("RecordGPSFailure(missing) error = %v, want ErrActivityNotFound", err)
	}
}

func TestSyncState(t *testing.T) {
	db := setupTestDB(t)

	v, err := db.GetSyncState("missing")
	if err != nil || v != "" {
		t.Errorf("GetSyncState(missing) = %q, %v; want empty, nil", v, err)
	}

	last, err := db.LastSync()
	if err != nil || !last.IsZero() {
		t.Errorf("LastSync() = %v, %v; want zero, nil", last, err)
	}

	at := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	if err := db.SetLastSync(at); err != nil {
		t.Fatalf("SetLastSync failed: %v", err)
	}
	if err := db.SetLastSync(at.Add(time.Hour)); err != nil {
		t.Fatalf("SetLastSync failed: %v", err)
	}

	last, err = db.LastSync()
	if err != nil {
		t.Fatalf("LastSync failed: %v", err)
	}
	if !last.Equal(at.Add(time.Hour)) {
		t.Errorf("LastSync() = %v, want %v", last, at.Add(time.Hour))
	}
}

func TestOpen_AddsColumnsToOldDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")

	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	if _, err := raw.Exec(`CREATE TABLE activities (
		id TEXT PRIMARY KEY, sport TEXT NOT NULL DEFAULT '', location_name TEXT NOT NULL DEFAULT '',
		start_time TEXT NOT NULL, elapsed_time TEXT NOT NULL DEFAULT '',
		distance REAL, avg_speed REAL, max_speed REAL, calories REAL, avg_hr REAL, max_hr REAL,
		steps INTEGER, training_effect REAL, training_load REAL, vo2_max REAL,
		gps_synced INTEGER DEFAULT 0,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		t.Fatalf("creating old schema failed: %v", err)
	}
	raw.Close()

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	exists, err := hasColumn(db.DB, "activities", "gps_failures")
	if err != nil || !exists {
		t.Fatalf("hasColumn(gps_failures) = %v, %v; want true", exists, err)
	}

	// running migrations again is a no-op
	if err := migrate(db.DB); err != nil {
		t.Errorf("second migrate failed: %v", err)
	}
}
