package analysis

import (
	"math"

	"garmin-dashboard/internal/store"
)

// Subject is one axis of the percent-of-best comparison
type Subject int

const (
	SubjectDistance Subject = iota
	SubjectDuration
	SubjectSpeed
	SubjectCalories
	SubjectPeakHR
)

// Subjects is the fixed axis order
var Subjects = []Subject{SubjectDistance, SubjectDuration, SubjectSpeed, SubjectCalories, SubjectPeakHR}

var subjectNames = [...]string{
	SubjectDistance: "Distance",
	SubjectDuration: "Duration",
	SubjectSpeed:    "Speed",
	SubjectCalories: "Calories",
	SubjectPeakHR:   "Peak HR",
}

// subjectMetrics maps each subject to the personal-best metric it is compared against
var subjectMetrics = [...]Metric{
	SubjectDistance: MetricDistance,
	SubjectDuration: MetricDuration,
	SubjectSpeed:    MetricAvgSpeed,
	SubjectCalories: MetricCalories,
	SubjectPeakHR:   MetricMaxHR,
}

func (s Subject) String() string {
	if s < 0 || int(s) >= len(subjectNames) {
		return "Unknown"
	}
	return subjectNames[s]
}

// Metric returns the metric used for the subject's best and formatting
func (s Subject) Metric() Metric {
	if s < 0 || int(s) >= len(subjectMetrics) {
		return MetricUnknown
	}
	return subjectMetrics[s]
}

// Percentage is an activity's value as a share of the personal best
type Percentage struct {
	Subject  Subject
	Value    *float64 // seconds for Duration
	MaxValue float64
	Percent  int // 0..100
}

// ComputePercentages compares one activity to the personal bests on every subject.
// A missing or zero value or best yields 0; results never exceed 100.
func ComputePercentages(a store.Activity, bests PersonalBests) []Percentage {
	out := make([]Percentage, 0, len(Subjects))
	for _, s := range Subjects {
		value := subjectValue(a, s)
		maxValue, _ := bests.Get(s.Metric())
		out = append(out, Percentage{
			Subject:  s,
			Value:    value,
			MaxValue: maxValue,
			Percent:  percentOf(value, maxValue),
		})
	}
	return out
}

func subjectValue(a store.Activity, s Subject) *float64 {
	switch s {
	case SubjectDistance:
		return a.Distance
	case SubjectDuration:
		secs, ok := durationSeconds(a.ElapsedTime)
		if !ok {
			return nil
		}
		v := float64(secs)
		return &v
	case SubjectSpeed:
		return a.AvgSpeed
	case SubjectCalories:
		return a.Calories
	case SubjectPeakHR:
		return a.MaxHR
	}
	return nil
}

func percentOf(value *float64, maxValue float64) int {
	v, ok := truthy(value)
	if !ok || maxValue == 0 || math.IsNaN(maxValue) || math.IsInf(maxValue, 0) || math.IsInf(v, 0) {
		return 0
	}
	p := roundHalfUp(100 * v / maxValue)
	switch {
	case p > 100:
		return 100
	case p < 0:
		return 0
	}
	return int(p)
}

// Display formats the activity's value with the subject's units
func (p Percentage) Display() string {
	if p.Value == nil {
		return NotAvailable
	}
	return p.Subject.Metric().Format(Number(*p.Value))
}

// DisplayBest formats the personal best, "N/A" when no activity set one
func (p Percentage) DisplayBest() string {
	if p.MaxValue == 0 {
		return NotAvailable
	}
	return p.Subject.Metric().Format(Number(p.MaxValue))
}
