package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NotAvailable is shown for values that are absent or can't be interpreted
const NotAvailable = "N/A"

// Metric identifies a display metric. Canonical names are only used at the
// boundary, through ParseMetric and String.
type Metric int

const (
	MetricUnknown Metric = iota
	MetricDuration
	MetricDistance
	MetricSpeed
	MetricAvgSpeed
	MetricMaxSpeed
	MetricCalories
	MetricSteps
	MetricVO2Max
	MetricHR
	MetricHeartRate
	MetricAvgHR
	MetricMaxHR
	MetricTrainingEffect
	MetricTrainingLoad
)

var metricNames = map[Metric]string{
	MetricDuration:       "Duration",
	MetricDistance:       "Distance",
	MetricSpeed:          "Speed",
	MetricAvgSpeed:       "Avg Speed",
	MetricMaxSpeed:       "Max Speed",
	MetricCalories:       "Calories",
	MetricSteps:          "Steps",
	MetricVO2Max:         "VO2 Max",
	MetricHR:             "HR",
	MetricHeartRate:      "Heart Rate",
	MetricAvgHR:          "Avg HR",
	MetricMaxHR:          "Max HR",
	MetricTrainingEffect: "Training Effect",
	MetricTrainingLoad:   "Training Load",
}

// metricsByName also accepts "VO2", which older screens used for VO2 Max
var metricsByName = func() map[string]Metric {
	m := make(map[string]Metric, len(metricNames)+1)
	for metric, name := range metricNames {
		m[name] = metric
	}
	m["VO2"] = MetricVO2Max
	return m
}()

// String returns the canonical metric name
func (m Metric) String() string {
	if name, ok := metricNames[m]; ok {
		return name
	}
	return "Unknown"
}

// ParseMetric maps an exact canonical name to its Metric
func ParseMetric(name string) Metric {
	if m, ok := metricsByName[name]; ok {
		return m
	}
	return MetricUnknown
}

// subjectAliases maps lowercased, whitespace-free names to canonical names
var subjectAliases = map[string]string{
	"hr":        "HR",
	"heartrate": "HR",
	"avghr":     "HR",
	"maxhr":     "HR",
	"speed":     "Speed",
	"avgspeed":  "Speed",
	"maxspeed":  "Speed",
	"vo2max":    "VO2 Max",
	"vo2":       "VO2 Max",
}

// NormalizeMetricName collapses known aliases to a canonical name.
// Unknown names are returned exactly as given.
func NormalizeMetricName(name string) string {
	key := strings.ToLower(strings.Join(strings.Fields(name), ""))
	if canonical, ok := subjectAliases[key]; ok {
		return canonical
	}
	return name
}

// Value is a raw metric value: absent, numeric, or text (such as "01:02:03")
type Value struct {
	present bool
	num     float64
	text    string
	isText  bool
}

// Absent is the zero Value
var Absent = Value{}

// Number wraps a numeric value
func Number(v float64) Value {
	return Value{present: true, num: v}
}

// Text wraps a textual value
func Text(s string) Value {
	return Value{present: true, text: s, isText: true}
}

// OptionalNumber wraps a nullable numeric field
func OptionalNumber(v *float64) Value {
	if v == nil {
		return Absent
	}
	return Number(*v)
}

// ValueOf converts a loosely typed value into a Value
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Absent
	case Value:
		return x
	case string:
		return Text(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case *float64:
		return OptionalNumber(x)
	case *int:
		if x == nil {
			return Absent
		}
		return Number(float64(*x))
	default:
		return Text(fmt.Sprint(x))
	}
}

// IsAbsent reports whether the value is missing
func (v Value) IsAbsent() bool {
	return !v.present
}

// float returns the numeric interpretation of the value
func (v Value) float() (float64, bool) {
	if !v.present {
		return 0, false
	}
	if !v.isText {
		return v.num, !math.IsNaN(v.num)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Format renders a value for display according to the metric
func (m Metric) Format(v Value) string {
	if v.IsAbsent() {
		return NotAvailable
	}

	if m == MetricDuration {
		if v.isText && strings.Contains(v.text, ":") {
			return v.text
		}
		secs, ok := v.float()
		if !ok || math.IsInf(secs, 0) {
			return NotAvailable
		}
		return FormatDuration(int(math.Floor(secs)))
	}

	n, ok := v.float()
	if !ok || math.IsInf(n, 0) {
		return NotAvailable
	}

	switch m {
	case MetricDistance:
		return fixed(n, 2) + " km"
	case MetricSpeed, MetricAvgSpeed, MetricMaxSpeed:
		return fixed(n, 2) + " km/h"
	case MetricCalories, MetricSteps:
		return fixed(roundHalfUp(n), 0)
	case MetricVO2Max:
		return fixed(n, 1) + " ml/kg/min"
	case MetricHR, MetricHeartRate, MetricAvgHR, MetricMaxHR:
		return fixed(roundHalfUp(n), 0) + " bpm"
	case MetricTrainingEffect, MetricTrainingLoad:
		return fixed(n, 2)
	default:
		return fixed(n, 2)
	}
}

// FormatMetricValue formats a loosely typed value for a metric given by name.
// Unknown metric names fall back to two decimals.
func FormatMetricValue(value any, name string) string {
	return ParseMetric(name).Format(ValueOf(value))
}

// FormatActivityTitle builds the "Location - sport" card title
func FormatActivityTitle(location, sport string) string {
	if location == "" {
		location = "Unknown Location"
	}
	return location + " - " + sport
}

// roundHalfUp rounds to the nearest integer with .5 going towards +Inf
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func fixed(x float64, decimals int) string {
	s := strconv.FormatFloat(x, 'f', decimals, 64)
	if s == "-0" || strings.HasPrefix(s, "-0.") && strings.Trim(s[1:], "0.") == "" {
		return s[1:]
	}
	return s
}
