package analysis

import (
	"fmt"
	"sort"

	"garmin-dashboard/internal/store"
)

// ActivitiesPerPage is the activity list page size
const ActivitiesPerPage = 9

// SortOption orders the activity list
type SortOption int

const (
	SortByDate SortOption = iota
	SortByDuration
	SortByDistance
	SortByCalories
	SortByAvgSpeed
)

// SortChoice is a sort option with its menu label
type SortChoice struct {
	Option SortOption
	Label  string
}

var sortChoices = []SortChoice{
	{SortByDate, "Date"},
	{SortByDuration, "Duration"},
	{SortByDistance, "Distance"},
	{SortByCalories, "Calories"},
	{SortByAvgSpeed, "Average Speed"},
}

var sortKeys = map[SortOption]string{
	SortByDate:     "date",
	SortByDuration: "duration",
	SortByDistance: "distance",
	SortByCalories: "calories",
	SortByAvgSpeed: "avgSpeed",
}

// SortOptions lists the options in menu order
func SortOptions() []SortChoice {
	out := make([]SortChoice, len(sortChoices))
	copy(out, sortChoices)
	return out
}

func (o SortOption) String() string {
	if k, ok := sortKeys[o]; ok {
		return k
	}
	return "date"
}

// Label returns the menu label
func (o SortOption) Label() string {
	for _, c := range sortChoices {
		if c.Option == o {
			return c.Label
		}
	}
	return "Date"
}

// Next returns the following option, wrapping around
func (o SortOption) Next() SortOption {
	return sortChoices[(int(o)+1)%len(sortChoices)].Option
}

// ParseSortOption maps a config key ("avgSpeed") to its option
func ParseSortOption(s string) (SortOption, error) {
	for o, k := range sortKeys {
		if k == s {
			return o, nil
		}
	}
	return SortByDate, fmt.Errorf("unknown sort option %q", s)
}

// SortActivities returns a sorted copy, largest (or newest) first.
// Missing values sort as 0 and equal keys keep their input order.
func SortActivities(activities []store.Activity, opt SortOption) []store.Activity {
	out := make([]store.Activity, len(activities))
	copy(out, activities)

	if opt == SortByDate {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].StartTime.After(out[j].StartTime)
		})
		return out
	}
	key := sortKey(opt)
	sort.SliceStable(out, func(i, j int) bool {
		return key(out[i]) > key(out[j])
	})
	return out
}

func sortKey(opt SortOption) func(store.Activity) float64 {
	switch opt {
	case SortByDuration:
		return func(a store.Activity) float64 {
			secs, _ := durationSeconds(a.ElapsedTime)
			return float64(secs)
		}
	case SortByDistance:
		return func(a store.Activity) float64 { return orZero(a.Distance) }
	case SortByCalories:
		return func(a store.Activity) float64 { return orZero(a.Calories) }
	default:
		return func(a store.Activity) float64 { return orZero(a.AvgSpeed) }
	}
}

// TotalPages returns how many pages n items fill, at least 1
func TotalPages(n, perPage int) int {
	if perPage <= 0 {
		perPage = ActivitiesPerPage
	}
	pages := (n + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate returns the items on a 1-based page. Out-of-range pages are empty.
func Paginate[T any](items []T, page, perPage int) []T {
	if perPage <= 0 {
		perPage = ActivitiesPerPage
	}
	if page < 1 {
		return nil
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
