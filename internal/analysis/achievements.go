package analysis

import (
	"fmt"
	"math"

	"garmin-dashboard/internal/store"
)

// Category is a personal-record category
type Category int

const (
	CategoryPace Category = iota
	CategoryTrainingEffect
	CategoryCalories
	CategoryHeartRate
	CategoryVO2Max
)

// Categories lists all categories in the order achievements are reported
var Categories = []Category{
	CategoryPace,
	CategoryTrainingEffect,
	CategoryCalories,
	CategoryHeartRate,
	CategoryVO2Max,
}

type categoryInfo struct {
	key        string
	title      string
	themeColor string // css rgb()
	hexColor   string // same color for terminal rendering
}

var categoryTable = [...]categoryInfo{
	CategoryPace:           {"pace", "Fastest Pace", "rgb(59, 130, 246)", "#3B82F6"},
	CategoryTrainingEffect: {"training_effect", "Peak Training Effect", "rgb(139, 92, 246)", "#8B5CF6"},
	CategoryCalories:       {"calories", "Maximum Calorie Burn", "rgb(249, 115, 22)", "#F97316"},
	CategoryHeartRate:      {"heart_rate", "Highest Heart Rate", "rgb(239, 68, 68)", "#EF4444"},
	CategoryVO2Max:         {"vo2max", "Best VO2 Max", "rgb(34, 197, 94)", "#22C55E"},
}

func (c Category) info() categoryInfo {
	if c < 0 || int(c) >= len(categoryTable) {
		return categoryInfo{key: "unknown", title: "Unknown", themeColor: "rgb(107, 114, 128)", hexColor: "#6B7280"}
	}
	return categoryTable[c]
}

// String returns the category key used at the boundary ("pace", "heart_rate", ...)
func (c Category) String() string { return c.info().key }

// Title returns the fixed display title
func (c Category) Title() string { return c.info().title }

// ThemeColor returns the css color of the category
func (c Category) ThemeColor() string { return c.info().themeColor }

// HexColor returns the category color as hex
func (c Category) HexColor() string { return c.info().hexColor }

// ParseCategory maps a boundary key back to its Category
func ParseCategory(key string) (Category, bool) {
	for _, c := range Categories {
		if c.String() == key {
			return c, true
		}
	}
	return 0, false
}

// Achievement is the activity holding the record for one category
type Achievement struct {
	Category   Category
	Activity   store.Activity
	Title      string
	ThemeColor string
	Value      float64 // min/km for pace, the record field otherwise
}

// Key identifies an achievement by activity and category
func (a Achievement) Key() string {
	return fmt.Sprintf("%s-%s", a.Activity.ID, a.Category)
}

// DetectAchievements finds, per category, the activity that set the record.
// Categories nobody qualifies for are left out. Ties keep the activity seen first.
func DetectAchievements(activities []store.Activity) []Achievement {
	var best [len(categoryTable)]*Achievement

	consider := func(c Category, a store.Activity, value float64, better func(candidate, current float64) bool) {
		if best[c] != nil && !better(value, best[c].Value) {
			return
		}
		best[c] = &Achievement{
			Category:   c,
			Activity:   a,
			Title:      c.Title(),
			ThemeColor: c.ThemeColor(),
			Value:      value,
		}
	}
	lower := func(candidate, current float64) bool { return candidate < current }
	higher := func(candidate, current float64) bool { return candidate > current }

	for _, a := range activities {
		if pace, ok := paceMinutesPerKm(a); ok {
			consider(CategoryPace, a, pace, lower)
		}
		if v, ok := truthy(a.TrainingEffect); ok {
			consider(CategoryTrainingEffect, a, v, higher)
		}
		if v, ok := truthy(a.Calories); ok {
			consider(CategoryCalories, a, v, higher)
		}
		if v, ok := truthy(a.MaxHR); ok {
			consider(CategoryHeartRate, a, v, higher)
		}
		if v, ok := truthy(a.VO2Max); ok {
			consider(CategoryVO2Max, a, v, higher)
		}
	}

	achievements := make([]Achievement, 0, len(Categories))
	for _, c := range Categories {
		if best[c] != nil {
			achievements = append(achievements, *best[c])
		}
	}
	return achievements
}

// paceMinutesPerKm returns the whole-activity pace in minutes per km
func paceMinutesPerKm(a store.Activity) (float64, bool) {
	if a.Distance == nil || !(*a.Distance > 0) || math.IsInf(*a.Distance, 1) {
		return 0, false
	}
	secs, ok := durationSeconds(a.ElapsedTime)
	if !ok {
		return 0, false
	}
	return (float64(secs) / secondsPerMinute) / *a.Distance, true
}

// DisplayValue is the headline value shown on the achievement card
func (a Achievement) DisplayValue() string {
	act := a.Activity
	switch a.Category {
	case CategoryPace:
		secs, ok := durationSeconds(act.ElapsedTime)
		if !ok || act.Distance == nil || *act.Distance == 0 {
			return NotAvailable
		}
		paceSeconds := int(roundHalfUp(float64(secs) / *act.Distance))
		return fmt.Sprintf("%d:%02d/km", paceSeconds/60, paceSeconds%60)
	case CategoryTrainingEffect:
		return fixed(orZero(act.TrainingEffect), 1)
	case CategoryCalories:
		return fixed(orZero(act.Calories), 0)
	case CategoryHeartRate:
		return fixed(orZero(act.MaxHR), 0)
	case CategoryVO2Max:
		return fixed(orZero(act.VO2Max), 1)
	}
	return NotAvailable
}

// Detail is the secondary line shown under the headline value
func (a Achievement) Detail() string {
	act := a.Activity
	switch a.Category {
	case CategoryPace:
		return fmt.Sprintf("%s km in %s", fixed(orZero(act.Distance), 2), act.ElapsedTime)
	case CategoryTrainingEffect:
		return "Training Load: " + compact(orZero(act.TrainingLoad))
	case CategoryCalories:
		return "kcal"
	case CategoryHeartRate:
		return fmt.Sprintf("Avg HR: %s bpm", compact(orZero(act.AvgHR)))
	case CategoryVO2Max:
		return "ml/kg/min"
	}
	return ""
}

// compact prints a number without trailing zeros
func compact(v float64) string {
	return fmt.Sprint(v)
}
