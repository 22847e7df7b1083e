package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"garmin-dashboard/internal/store"
)

// Period is a dashboard time window
type Period int

const (
	PeriodWeek Period = iota
	PeriodMonth
	PeriodQuarter
)

// Periods lists the windows in cycling order
var Periods = []Period{PeriodWeek, PeriodMonth, PeriodQuarter}

// Days returns the window length
func (p Period) Days() int {
	switch p {
	case PeriodMonth:
		return 30
	case PeriodQuarter:
		return 90
	default:
		return 7
	}
}

// Label returns the display label, e.g. "Last 7 Days"
func (p Period) Label() string {
	return fmt.Sprintf("Last %d Days", p.Days())
}

// String returns the config key for the period
func (p Period) String() string {
	switch p {
	case PeriodMonth:
		return "month"
	case PeriodQuarter:
		return "quarter"
	default:
		return "week"
	}
}

// Next returns the following period, wrapping around
func (p Period) Next() Period {
	return Periods[(int(p)+1)%len(Periods)]
}

// ParsePeriod accepts a config key or a day count ("30")
func ParsePeriod(s string) (Period, error) {
	for _, p := range Periods {
		if s == p.String() || s == fmt.Sprint(p.Days()) {
			return p, nil
		}
	}
	return PeriodWeek, fmt.Errorf("unknown period %q", s)
}

// PeriodSummary aggregates the activities inside a period
type PeriodSummary struct {
	Period        Period
	Activities    []store.Activity // oldest first
	TotalDistance float64          // km, rounded
	TotalCalories float64          // rounded
	TotalSeconds  int
	AvgHeartRate  float64 // rounded mean of avg_hr, missing counted as 0
	LastActivity  *store.Activity
}

// SummarizePeriod keeps activities that started after now minus the period and totals them
func SummarizePeriod(activities []store.Activity, period Period, now time.Time) PeriodSummary {
	cutoff := now.AddDate(0, 0, -period.Days())

	var recent []store.Activity
	for _, a := range activities {
		if a.StartTime.After(cutoff) {
			recent = append(recent, a)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].StartTime.Before(recent[j].StartTime)
	})

	s := PeriodSummary{Period: period, Activities: recent}
	if len(recent) == 0 {
		return s
	}

	var distance, calories, hr float64
	for _, a := range recent {
		distance += orZero(a.Distance)
		calories += orZero(a.Calories)
		hr += orZero(a.AvgHR)
		secs, _ := durationSeconds(a.ElapsedTime)
		s.TotalSeconds += secs
	}
	s.TotalDistance = roundHalfUp(distance)
	s.TotalCalories = roundHalfUp(calories)
	s.AvgHeartRate = roundHalfUp(hr / float64(len(recent)))
	last := recent[len(recent)-1]
	s.LastActivity = &last
	return s
}

// Series returns one value per activity in the window, in chronological order.
// Missing values are 0.
func (s PeriodSummary) Series(m Metric) []float64 {
	out := make([]float64, len(s.Activities))
	for i, a := range s.Activities {
		switch m {
		case MetricDistance:
			out[i] = orZero(a.Distance)
		case MetricDuration:
			out[i] = DurationMinutes(a.ElapsedTime)
		case MetricAvgHR, MetricHR, MetricHeartRate:
			out[i] = orZero(a.AvgHR)
		case MetricMaxHR:
			out[i] = orZero(a.MaxHR)
		case MetricCalories:
			out[i] = orZero(a.Calories)
		case MetricAvgSpeed, MetricSpeed:
			out[i] = orZero(a.AvgSpeed)
		}
	}
	return out
}

// QuickStat is one bar of the last-activity overview, scaled to 0..100
type QuickStat struct {
	Name   string
	Score  float64
	Actual string
}

// QuickStats scores the headline metrics of one activity for the dashboard overview
func QuickStats(a *store.Activity) []QuickStat {
	var act store.Activity
	if a != nil {
		act = *a
	}
	speed := orZero(act.AvgSpeed)
	distance := orZero(act.Distance)
	hr := orZero(act.AvgHR)
	calories := orZero(act.Calories)
	vo2 := orZero(act.VO2Max)

	return []QuickStat{
		{Name: "Average Speed", Score: capScore(speed * 10), Actual: compact(speed) + " km/h"},
		{Name: "Total Distance", Score: capScore(distance * 5), Actual: compact(distance) + " km"},
		{Name: "Average Heart Rate", Score: capScore(hr / 2), Actual: compact(hr) + " BPM"},
		{Name: "Calories Burned", Score: capScore(calories / 10), Actual: compact(calories) + " kcal"},
		{Name: "VO2 Max", Score: capScore(vo2), Actual: compact(vo2)},
	}
}

func capScore(v float64) float64 {
	return math.Min(100, v)
}
