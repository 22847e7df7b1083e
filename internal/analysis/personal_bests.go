package analysis

import (
	"math"

	"garmin-dashboard/internal/store"
)

// BestMetrics lists the personal-best categories in display order
var BestMetrics = []Metric{MetricDistance, MetricDuration, MetricAvgSpeed, MetricCalories, MetricMaxHR}

// PersonalBests holds the all-time maximum per category.
// A category no activity reported stays at 0.
type PersonalBests struct {
	Distance float64 // km
	Duration float64 // seconds
	AvgSpeed float64 // km/h
	Calories float64
	MaxHR    float64 // bpm
}

// ComputePersonalBests reduces the activities to a running maximum per category.
// Missing, zero or malformed values contribute 0, so the result does not
// depend on the order of activities.
func ComputePersonalBests(activities []store.Activity) PersonalBests {
	var b PersonalBests
	for _, a := range activities {
		b.Distance = math.Max(b.Distance, orZero(a.Distance))
		secs, _ := durationSeconds(a.ElapsedTime)
		b.Duration = math.Max(b.Duration, float64(secs))
		b.AvgSpeed = math.Max(b.AvgSpeed, orZero(a.AvgSpeed))
		b.Calories = math.Max(b.Calories, orZero(a.Calories))
		b.MaxHR = math.Max(b.MaxHR, orZero(a.MaxHR))
	}
	return b
}

// Get returns the best for a metric, and false for metrics that aren't tracked
func (b PersonalBests) Get(m Metric) (float64, bool) {
	switch m {
	case MetricDistance:
		return b.Distance, true
	case MetricDuration:
		return b.Duration, true
	case MetricAvgSpeed:
		return b.AvgSpeed, true
	case MetricCalories:
		return b.Calories, true
	case MetricMaxHR:
		return b.MaxHR, true
	}
	return 0, false
}

// Map returns the bests keyed by canonical metric name
func (b PersonalBests) Map() map[string]float64 {
	m := make(map[string]float64, len(BestMetrics))
	for _, metric := range BestMetrics {
		m[metric.String()], _ = b.Get(metric)
	}
	return m
}

// PersonalBestsFromMap rebuilds bests from their canonical-name form.
// Unknown keys are ignored and missing keys stay 0.
func PersonalBestsFromMap(m map[string]float64) PersonalBests {
	return PersonalBests{
		Distance: sanitize(m[MetricDistance.String()]),
		Duration: sanitize(m[MetricDuration.String()]),
		AvgSpeed: sanitize(m[MetricAvgSpeed.String()]),
		Calories: sanitize(m[MetricCalories.String()]),
		MaxHR:    sanitize(m[MetricMaxHR.String()]),
	}
}

// IsZero reports whether no category has a best
func (b PersonalBests) IsZero() bool {
	return b == PersonalBests{}
}

// orZero treats nil and NaN as 0, matching the "missing contributes nothing" rule
func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return sanitize(*v)
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// truthy reports whether a nullable field counts as present.
// Zero is treated like a missing value.
func truthy(v *float64) (float64, bool) {
	if v == nil || *v == 0 || math.IsNaN(*v) {
		return 0, false
	}
	return *v, true
}
