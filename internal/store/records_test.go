package store

import (
	"errors"
	"testing"
	"time"
)

func setupRecordsDB(t *testing.T) *DB {
	t.Helper()
	db := setupTestDB(t)

	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	if err := db.UpsertActivities([]Activity{testActivity("1", base), testActivity("2", base.Add(120*time.Hour))}); err != nil {
		t.Fatalf("Failed to insert test activities: %v", err)
	}
	return db
}

func TestReplaceRecordHolders_FirstRun(t *testing.T) {
	db := setupRecordsDB(t)

	changed, err := db.ReplaceRecordHolders([]RecordHolder{
		{Category: "pace", ActivityID: "2", Value: 5.5, AchievedAt: time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)},
		{Category: "calories", ActivityID: "1", Value: 380, AchievedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		t.Fatalf("ReplaceRecordHolders failed: %v", err)
	}
	if len(changed) != 2 || changed[0] != "pace" || changed[1] != "calories" {
		t.Errorf("changed = %v, want [pace calories]", changed)
	}

	fetched, err := db.GetRecordHolder("calories")
	if err != nil {
		t.Fatalf("GetRecordHolder failed: %v", err)
	}
	if fetched.Value != 380 || fetched.ActivityID != "1" {
		t.Errorf("got %+v, want activity 1 with 380", fetched)
	}
}

func TestReplaceRecordHolders_Changes(t *testing.T) {
	tests := []struct {
		name        string
		next        RecordHolder
		wantChanged bool
	}{
		{"same holder, same value", RecordHolder{Category: "calories", ActivityID: "1", Value: 380}, false},
		{"same holder, corrected down", RecordHolder{Category: "calories", ActivityID: "1", Value: 350}, false},
		{"new holder", RecordHolder{Category: "calories", ActivityID: "2", Value: 420}, true},
		{"new holder with a lower value", RecordHolder{Category: "calories", ActivityID: "2", Value: 300}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupRecordsDB(t)

			if _, err := db.ReplaceRecordHolders([]RecordHolder{{Category: "calories", ActivityID: "1", Value: 380}}); err != nil {
				t.Fatalf("ReplaceRecordHolders failed: %v", err)
			}
			changed, err := db.ReplaceRecordHolders([]RecordHolder{tt.next})
			if err != nil {
				t.Fatalf("ReplaceRecordHolders failed: %v", err)
			}
			if got := len(changed) == 1; got != tt.wantChanged {
				t.Errorf("changed = %v, want changed=%v", changed, tt.wantChanged)
			}

			// the stored holder always follows the latest input
			fetched, err := db.GetRecordHolder("calories")
			if err != nil {
				t.Fatalf("GetRecordHolder failed: %v", err)
			}
			if fetched.ActivityID != tt.next.ActivityID || fetched.Value != tt.next.Value {
				t.Errorf("holder = %s/%v, want %s/%v", fetched.ActivityID, fetched.Value, tt.next.ActivityID, tt.next.Value)
			}
		})
	}
}

func TestReplaceRecordHolders_DropsMissingCategories(t *testing.T) {
	db := setupRecordsDB(t)

	if _, err := db.ReplaceRecordHolders([]RecordHolder{
		{Category: "pace", ActivityID: "1", Value: 5.8},
		{Category: "heart_rate", ActivityID: "2", Value: 188},
	}); err != nil {
		t.Fatalf("ReplaceRecordHolders failed: %v", err)
	}
	if _, err := db.ReplaceRecordHolders([]RecordHolder{{Category: "pace", ActivityID: "1", Value: 5.8}}); err != nil {
		t.Fatalf("ReplaceRecordHolders failed: %v", err)
	}

	if _, err := db.GetRecordHolder("heart_rate"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("GetRecordHolder(heart_rate) error = %v, want ErrRecordNotFound", err)
	}
}

func TestListRecordHolders(t *testing.T) {
	db := setupRecordsDB(t)

	if _, err := db.ReplaceRecordHolders([]RecordHolder{
		{Category: "pace", ActivityID: "1", Value: 5.8},
		{Category: "calories", ActivityID: "2", Value: 640},
		{Category: "heart_rate", ActivityID: "2", Value: 188},
	}); err != nil {
		t.Fatalf("ReplaceRecordHolders failed: %v", err)
	}

	all, err := db.ListRecordHolders()
	if err != nil {
		t.Fatalf("ListRecordHolders failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(all))
	}
	if all[0].Category != "calories" {
		t.Errorf("records should be ordered by category, first = %s", all[0].Category)
	}

	if err := db.DeleteRecordHolders(); err != nil {
		t.Fatalf("DeleteRecordHolders failed: %v", err)
	}
	if _, err := db.GetRecordHolder("pace"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("GetRecordHolder after delete error = %v, want ErrRecordNotFound", err)
	}
}
