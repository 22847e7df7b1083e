package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"garmin-dashboard/internal/api"
	"garmin-dashboard/internal/store"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func floatPtr(v float64) *float64 { return &v }

func seedActivities(t *testing.T, db *store.DB, activities ...store.Activity) {
	t.Helper()
	require.NoError(t, db.UpsertActivities(activities))
}

// fixtures: a long run, a short fast run and a ride without HR
func fixtureActivities() []store.Activity {
	return []store.Activity{
		{
			ID: "1", Sport: "running", LocationName: "Zagreb",
			StartTime:   testNow.AddDate(0, 0, -2),
			ElapsedTime: "1:30:00",
			Distance:    floatPtr(15), AvgSpeed: floatPtr(10), Calories: floatPtr(1100),
			AvgHR: floatPtr(150), MaxHR: floatPtr(178), TrainingEffect: floatPtr(3.9), VO2Max: floatPtr(51),
		},
		{
			ID: "2", Sport: "running", LocationName: "Split",
			StartTime:   testNow.AddDate(0, 0, -5),
			ElapsedTime: "0:20:00",
			Distance:    floatPtr(5), AvgSpeed: floatPtr(15), Calories: floatPtr(400),
			AvgHR: floatPtr(170), MaxHR: floatPtr(191), TrainingEffect: floatPtr(4.2), VO2Max: floatPtr(52),
		},
		{
			ID: "3", Sport: "cycling",
			StartTime:   testNow.AddDate(0, 0, -20),
			ElapsedTime: "2:00:00",
			Distance:    floatPtr(60), AvgSpeed: floatPtr(30), Calories: floatPtr(1500),
		},
	}
}

// fakeBackend serves the activity API from memory
type fakeBackend struct {
	mu         sync.Mutex
	activities []api.Activity
	tracks     map[string][]api.GPSPoint
	maxValues  map[string]float64
	syncStatus int
	syncCalls  int
	gpsCalls   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		tracks:     make(map[string][]api.GPSPoint),
		maxValues:  make(map[string]float64),
		syncStatus: http.StatusOK,
	}
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	path := r.URL.Path
	switch {
	case path == "/api/activities/sync" && r.Method == http.MethodPost:
		b.syncCalls++
		w.WriteHeader(b.syncStatus)
		if b.syncStatus == http.StatusOK {
			w.Write([]byte(`{"message": "Activities synced successfully", "status": "success"}`))
		} else {
			w.Write([]byte(`{"message": "Failed to sync activities", "status": "error"}`))
		}
	case path == "/api/activities/max_values":
		json.NewEncoder(w).Encode(b.maxValues)
	case path == "/api/activities":
		json.NewEncoder(w).Encode(b.activities)
	case strings.HasSuffix(path, "/gps"):
		b.gpsCalls++
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/api/activities/"), "/gps")
		track, ok := b.tracks[id]
		if !ok {
			http.Error(w, `{"error": "not found"}`, http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(track)
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, backend http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return api.NewClient(api.Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

// wireActivity is the backend's JSON form of a stored activity
func wireActivity(a store.Activity) api.Activity {
	strPtr := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	return api.Activity{
		ID:             api.ActivityID(a.ID),
		LocationName:   strPtr(a.LocationName),
		StartTime:      api.Timestamp{Time: a.StartTime},
		Sport:          strPtr(a.Sport),
		Distance:       a.Distance,
		ElapsedTime:    strPtr(a.ElapsedTime),
		AvgSpeed:       a.AvgSpeed,
		Calories:       a.Calories,
		AvgHR:          a.AvgHR,
		MaxHR:          a.MaxHR,
		TrainingEffect: a.TrainingEffect,
		VO2Max:         a.VO2Max,
	}
}
