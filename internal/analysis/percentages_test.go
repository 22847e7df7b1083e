package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garmin-dashboard/internal/store"
)

func TestComputePercentages(t *testing.T) {
	bests := PersonalBests{Distance: 10, Duration: 3600, AvgSpeed: 12, Calories: 800, MaxHR: 190}
	a := store.Activity{
		ID:          "x",
		ElapsedTime: "00:30:00",
		Distance:    floatPtr(5),
		AvgSpeed:    floatPtr(12.0000001),
		Calories:    nil,
		MaxHR:       floatPtr(171),
	}

	got := ComputePercentages(a, bests)
	require.Len(t, got, len(Subjects))

	tests := []struct {
		subject Subject
		percent int
		display string
	}{
		{SubjectDistance, 50, "5.00 km"},
		{SubjectDuration, 50, "00:30:00"},
		{SubjectSpeed, 100, "12.00 km/h"},
		{SubjectCalories, 0, "N/A"},
		{SubjectPeakHR, 90, "171 bpm"},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.subject, got[i].Subject)
		assert.Equal(t, tt.percent, got[i].Percent, "%s", tt.subject)
		assert.Equal(t, tt.display, got[i].Display(), "%s", tt.subject)
	}
	assert.Equal(t, 1800.0, *got[1].Value)
	assert.Equal(t, "190 bpm", got[4].DisplayBest())
}

func TestComputePercentages_ZeroBests(t *testing.T) {
	a := store.Activity{ElapsedTime: "00:30:00", Distance: floatPtr(5), AvgSpeed: floatPtr(10), Calories: floatPtr(300), MaxHR: floatPtr(150)}

	for _, p := range ComputePercentages(a, PersonalBests{}) {
		assert.Zero(t, p.Percent, "%s", p.Subject)
		assert.Equal(t, NotAvailable, p.DisplayBest())
	}
}

func TestComputePercentages_StaleBestsAreCapped(t *testing.T) {
	stale := PersonalBests{Distance: 3, Duration: 600, AvgSpeed: 5, Calories: 100, MaxHR: 120}
	a := store.Activity{ElapsedTime: "01:00:00", Distance: floatPtr(21), AvgSpeed: floatPtr(14), Calories: floatPtr(1200), MaxHR: floatPtr(185)}

	for _, p := range ComputePercentages(a, stale) {
		assert.Equal(t, 100, p.Percent, "%s", p.Subject)
	}
}

func TestComputePercentages_AlwaysInRange(t *testing.T) {
	activities := fakeActivities(2024, 250)
	bests := ComputePersonalBests(activities[:100])

	for _, a := range activities {
		for _, p := range ComputePercentages(a, bests) {
			assert.GreaterOrEqual(t, p.Percent, 0)
			assert.LessOrEqual(t, p.Percent, 100)
		}
	}
}

func TestSubject_Metric(t *testing.T) {
	assert.Equal(t, MetricAvgSpeed, SubjectSpeed.Metric())
	assert.Equal(t, MetricMaxHR, SubjectPeakHR.Metric())
	assert.Equal(t, "Peak HR", SubjectPeakHR.String())
	assert.Equal(t, MetricUnknown, Subject(9).Metric())
}
