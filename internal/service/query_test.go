package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garmin-dashboard/internal/analysis"
	"garmin-dashboard/internal/api"
	"garmin-dashboard/internal/store"
)

func newTestQueryService(t *testing.T, db *store.DB, client *api.Client, perPage int) *QueryService {
	t.Helper()
	q := NewQueryService(db, client, NewBestsCache(db), perPage)
	q.now = func() time.Time { return testNow }
	return q
}

func TestGetDashboardData(t *testing.T) {
	db := setupTestDB(t)
	seedActivities(t, db, fixtureActivities()...)
	require.NoError(t, db.SetLastSync(testNow.Add(-time.Hour)))
	q := newTestQueryService(t, db, nil, 0)

	data, err := q.GetDashboardData(analysis.PeriodWeek)
	require.NoError(t, err)

	assert.Equal(t, 3, data.TotalActivities)
	require.Len(t, data.Summary.Activities, 2, "the ride is outside the week")
	assert.Equal(t, store.ActivityID("2"), data.Summary.Activities[0].ID, "oldest first")
	assert.Equal(t, 20.0, data.Summary.TotalDistance)
	assert.Equal(t, 1500.0, data.Summary.TotalCalories)
	assert.Equal(t, 160.0, data.Summary.AvgHeartRate)
	assert.Equal(t, []float64{5, 15}, data.DistanceSeries)
	assert.Equal(t, []float64{191, 178}, data.MaxHRSeries)
	require.NotNil(t, data.Summary.LastActivity)
	assert.Equal(t, store.ActivityID("1"), data.Summary.LastActivity.ID)
	assert.Len(t, data.QuickStats, 5)
	assert.True(t, data.LastSync.Equal(testNow.Add(-time.Hour)))

	month, err := q.GetDashboardData(analysis.PeriodMonth)
	require.NoError(t, err)
	assert.Len(t, month.Summary.Activities, 3)
}

func TestGetDashboardData_Empty(t *testing.T) {
	q := newTestQueryService(t, setupTestDB(t), nil, 0)

	data, err := q.GetDashboardData(analysis.PeriodQuarter)
	require.NoError(t, err)
	assert.Empty(t, data.Summary.Activities)
	assert.Nil(t, data.Summary.LastActivity)
	assert.True(t, data.LastSync.IsZero())
}

func TestGetActivityPage(t *testing.T) {
	db := setupTestDB(t)
	seedActivities(t, db, fixtureActivities()...)
	q := newTestQueryService(t, db, nil, 2)

	page, err := q.GetActivityPage(analysis.SortByDistance, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Activities, 2)
	assert.Equal(t, store.ActivityID("3"), page.Activities[0].ID)
	assert.Equal(t, store.ActivityID("1"), page.Activities[1].ID)

	// out of range pages clamp to the last one
	page, err = q.GetActivityPage(analysis.SortByDistance, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Activities, 1)
	assert.Equal(t, store.ActivityID("2"), page.Activities[0].ID)

	page, err = q.GetActivityPage(analysis.SortByDate, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, store.ActivityID("1"), page.Activities[0].ID, "newest first")
}

func TestGetAchievements(t *testing.T) {
	db := setupTestDB(t)
	seedActivities(t, db, fixtureActivities()...)
	q := newTestQueryService(t, db, nil, 0)

	achievements, err := q.GetAchievements()
	require.NoError(t, err)

	holders := make(map[analysis.Category]store.ActivityID)
	for _, a := range achievements {
		holders[a.Category] = a.Activity.ID
	}
	assert.Equal(t, store.ActivityID("3"), holders[analysis.CategoryPace], "2 min/km beats 4 and 6")
	assert.Equal(t, store.ActivityID("2"), holders[analysis.CategoryTrainingEffect])
	assert.Equal(t, store.ActivityID("3"), holders[analysis.CategoryCalories])
	assert.Equal(t, store.ActivityID("2"), holders[analysis.CategoryHeartRate])
	assert.Equal(t, store.ActivityID("2"), holders[analysis.CategoryVO2Max])
}

func TestGetActivityDetail(t *testing.T) {
	db := setupTestDB(t)
	seedActivities(t, db, fixtureActivities()...)
	require.NoError(t, db.ReplaceGPSPoints("1", []store.GPSPoint{
		{Lat: 45.0, Lng: 16.0},
		{Lat: 45.1, Lng: 16.1},
	}))
	q := newTestQueryService(t, db, nil, 0)

	detail, err := q.GetActivityDetail(context.Background(), "1")
	require.NoError(t, err)

	assert.Equal(t, "Zagreb - running", detail.Title)
	assert.Equal(t, "6:00/km", detail.Pace)
	assert.Equal(t, 2, detail.GPS.Points)
	assert.Empty(t, detail.Achievements)

	require.Len(t, detail.Percentages, len(analysis.Subjects))
	assert.Equal(t, analysis.SubjectDistance, detail.Percentages[0].Subject)
	assert.Equal(t, 25, detail.Percentages[0].Percent, "15 of 60 km")

	_, err = q.GetActivityDetail(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrActivityNotFound)
}

func TestGetActivityDetail_FetchesMissingTrack(t *testing.T) {
	db := setupTestDB(t)
	seedActivities(t, db, fixtureActivities()...)

	backend := newFakeBackend()
	backend.tracks["2"] = []api.GPSPoint{{43.5, 16.4}, {43.51, 16.41}, {43.52, 16.42}}
	q := newTestQueryService(t, db, newTestClient(t, backend), 0)

	detail, err := q.GetActivityDetail(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, 3, detail.GPS.Points)
	assert.Len(t, detail.Achievements, 3)

	stored, err := db.GetActivity("2")
	require.NoError(t, err)
	assert.True(t, stored.GPSSynced)

	// a backend without the track still yields a detail
	detail, err = q.GetActivityDetail(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, detail.GPS.HasTrack())
}

func TestGetRecordHolders(t *testing.T) {
	db := setupTestDB(t)
	seedActivities(t, db, fixtureActivities()...)
	q := newTestQueryService(t, db, nil, 0)

	_, err := db.ReplaceRecordHolders([]store.RecordHolder{
		{Category: "calories", ActivityID: "3", Value: 1500, AchievedAt: testNow.AddDate(0, 0, -20)},
		{Category: "pace", ActivityID: "2", Value: 4, AchievedAt: testNow.AddDate(0, 0, -5)},
		{Category: "cadence", ActivityID: "1", Value: 180},
	})
	require.NoError(t, err)

	records, err := q.GetRecordHolders()
	require.NoError(t, err)
	require.Len(t, records, 2, "unknown categories are skipped")

	assert.Equal(t, analysis.CategoryPace, records[0].Category)
	assert.Equal(t, "4:00/km", records[0].Value)
	assert.Equal(t, "Split - running", records[0].ActivityName)
	assert.Equal(t, "Mar 05, 2024", records[0].Date)

	assert.Equal(t, analysis.CategoryCalories, records[1].Category)
	assert.Equal(t, "1500", records[1].Value)
	assert.Equal(t, analysis.CategoryCalories.HexColor(), records[1].HexColor)
}

func TestPersonalBests_ComputesOnMiss(t *testing.T) {
	db := setupTestDB(t)
	seedActivities(t, db, fixtureActivities()...)
	q := newTestQueryService(t, db, nil, 0)

	bests, err := q.PersonalBests()
	require.NoError(t, err)
	assert.Equal(t, 30.0, bests.AvgSpeed)

	snapshot, err := db.LoadPersonalBests()
	require.NoError(t, err)
	assert.Equal(t, 30.0, snapshot.Values["Avg Speed"])
}
