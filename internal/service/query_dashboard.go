package service

import (
	"fmt"
	"time"

	"garmin-dashboard/internal/analysis"
)

// DashboardData contains all data needed for the dashboard
type DashboardData struct {
	Summary    analysis.PeriodSummary
	QuickStats []analysis.QuickStat

	// For charts, chronological
	DistanceSeries []float64
	MaxHRSeries    []float64

	TotalActivities int
	LastSync        time.Time // zero if never synced
}

// GetDashboardData summarizes the activities of the given period
func (q *QueryService) GetDashboardData(period analysis.Period) (*DashboardData, error) {
	activities, err := q.store.AllActivities()
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}

	summary := analysis.SummarizePeriod(activities, period, q.now())
	data := &DashboardData{
		Summary:         summary,
		QuickStats:      analysis.QuickStats(summary.LastActivity),
		DistanceSeries:  summary.Series(analysis.MetricDistance),
		MaxHRSeries:     summary.Series(analysis.MetricMaxHR),
		TotalActivities: len(activities),
	}

	lastSync, err := q.store.LastSync()
	if err != nil {
		return nil, fmt.Errorf("reading last sync: %w", err)
	}
	data.LastSync = lastSync

	return data, nil
}
