package service

import (
	"fmt"
	"time"

	"garmin-dashboard/internal/analysis"
	"garmin-dashboard/internal/api"
	"garmin-dashboard/internal/store"
)

// QueryService provides read-only queries for the TUI
type QueryService struct {
	store   *store.DB
	client  *api.Client // optional, fetches tracks the store doesn't have yet
	bests   *BestsCache
	perPage int
	now     func() time.Time
}

// NewQueryService creates a new query service. client may be nil.
func NewQueryService(db *store.DB, client *api.Client, bests *BestsCache, perPage int) *QueryService {
	if perPage <= 0 {
		perPage = analysis.ActivitiesPerPage
	}
	return &QueryService{
		store:   db,
		client:  client,
		bests:   bests,
		perPage: perPage,
		now:     time.Now,
	}
}

// ActivityPage is one page of the sorted activity list
type ActivityPage struct {
	Activities []store.Activity
	Sort       analysis.SortOption
	Page       int // 1-based
	TotalPages int
	Total      int
}

// GetActivityPage sorts every stored activity and returns the requested page.
// Pages outside the valid range are clamped.
func (q *QueryService) GetActivityPage(sort analysis.SortOption, page int) (*ActivityPage, error) {
	activities, err := q.store.AllActivities()
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}

	totalPages := analysis.TotalPages(len(activities), q.perPage)
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	sorted := analysis.SortActivities(activities, sort)
	return &ActivityPage{
		Activities: analysis.Paginate(sorted, page, q.perPage),
		Sort:       sort,
		Page:       page,
		TotalPages: totalPages,
		Total:      len(activities),
	}, nil
}

// GetAchievements detects the current record holder of every category
func (q *QueryService) GetAchievements() ([]analysis.Achievement, error) {
	activities, err := q.store.AllActivities()
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}
	return analysis.DetectAchievements(activities), nil
}

// PersonalBests returns the cached bests, computing them if the cache is empty
func (q *QueryService) PersonalBests() (analysis.PersonalBests, error) {
	if bests, ok := q.bests.Get(); ok {
		return bests, nil
	}

	activities, err := q.store.AllActivities()
	if err != nil {
		return analysis.PersonalBests{}, fmt.Errorf("loading activities: %w", err)
	}
	return q.bests.Refresh(activities)
}

// GetActivity returns a stored activity by ID
func (q *QueryService) GetActivity(id store.ActivityID) (*store.Activity, error) {
	return q.store.GetActivity(id)
}
