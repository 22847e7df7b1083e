package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garmin-dashboard/internal/store"
)

func TestComputePersonalBests(t *testing.T) {
	activities := []store.Activity{
		{ID: "1", ElapsedTime: "00:30:00", Distance: floatPtr(5), AvgSpeed: floatPtr(10), Calories: floatPtr(300), MaxHR: floatPtr(150)},
		{ID: "2", ElapsedTime: "01:10:00.5", Distance: floatPtr(12.4), AvgSpeed: floatPtr(9.1), Calories: nil, MaxHR: floatPtr(181)},
		{ID: "3", ElapsedTime: "garbage", Distance: nil, AvgSpeed: floatPtr(math.NaN()), Calories: floatPtr(640), MaxHR: nil},
	}

	got := ComputePersonalBests(activities)
	want := PersonalBests{Distance: 12.4, Duration: 4200, AvgSpeed: 10, Calories: 640, MaxHR: 181}
	assert.Equal(t, want, got)
}

func TestComputePersonalBests_Empty(t *testing.T) {
	got := ComputePersonalBests(nil)
	assert.True(t, got.IsZero())

	m := got.Map()
	require.Len(t, m, len(BestMetrics))
	for _, metric := range BestMetrics {
		v, ok := m[metric.String()]
		assert.True(t, ok, "missing %s", metric)
		assert.Zero(t, v, "%s", metric)
	}
}

func TestComputePersonalBests_OrderIndependent(t *testing.T) {
	activities := fakeActivities(42, 200)
	want := ComputePersonalBests(activities)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := make([]store.Activity, len(activities))
		copy(shuffled, activities)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		assert.Equal(t, want, ComputePersonalBests(shuffled), "shuffle %d", i)
	}
}

func TestPersonalBests_Get(t *testing.T) {
	b := PersonalBests{Distance: 1, Duration: 2, AvgSpeed: 3, Calories: 4, MaxHR: 5}

	for i, metric := range BestMetrics {
		v, ok := b.Get(metric)
		assert.True(t, ok)
		assert.Equal(t, float64(i+1), v, "%s", metric)
	}

	_, ok := b.Get(MetricVO2Max)
	assert.False(t, ok)
}

func TestPersonalBestsFromMap(t *testing.T) {
	b := PersonalBests{Distance: 21.1, Duration: 7200, AvgSpeed: 11.2, Calories: 1500, MaxHR: 190}
	assert.Equal(t, b, PersonalBestsFromMap(b.Map()))

	partial := PersonalBestsFromMap(map[string]float64{"Distance": 5, "Cadence": 90, "Max HR": math.NaN()})
	assert.Equal(t, PersonalBests{Distance: 5}, partial)
}
