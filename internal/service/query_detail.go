package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"garmin-dashboard/internal/analysis"
	"garmin-dashboard/internal/store"
)

// ActivityDetail contains detailed info for a single activity
type ActivityDetail struct {
	Activity     store.Activity
	Title        string
	Pace         string // "M:SS/km" or N/A
	Percentages  []analysis.Percentage
	Bests        analysis.PersonalBests
	Achievements []analysis.Achievement // records this activity holds
	GPS          GPSSummary
}

// GetActivityDetail returns the detail view of an activity. When the track
// hasn't been synced yet and a client is configured it is fetched and stored.
func (q *QueryService) GetActivityDetail(ctx context.Context, id store.ActivityID) (*ActivityDetail, error) {
	activity, err := q.store.GetActivity(id)
	if err != nil {
		return nil, err
	}

	bests, err := q.PersonalBests()
	if err != nil {
		return nil, err
	}

	achievements, err := q.GetAchievements()
	if err != nil {
		return nil, err
	}

	detail := &ActivityDetail{
		Activity:    *activity,
		Title:       analysis.FormatActivityTitle(activity.LocationName, activity.Sport),
		Pace:        analysis.FormatPace(activity.ElapsedTime, activity.Distance),
		Percentages: analysis.ComputePercentages(*activity, bests),
		Bests:       bests,
	}
	for _, a := range achievements {
		if a.Activity.ID == activity.ID {
			detail.Achievements = append(detail.Achievements, a)
		}
	}

	if !activity.GPSSynced && q.client != nil {
		if err := q.fetchTrack(ctx, activity.ID); err != nil {
			// the rest of the detail is still worth showing
			log.Warnf("fetching track for %s: %s", activity.ID, err)
		}
	}

	points, err := q.store.GetGPSPoints(activity.ID)
	if err != nil {
		return nil, fmt.Errorf("loading track: %w", err)
	}
	detail.GPS = SummarizeGPS(points)

	return detail, nil
}

func (q *QueryService) fetchTrack(ctx context.Context, id store.ActivityID) error {
	track, err := q.client.GetGPS(ctx, string(id))
	if err != nil {
		return err
	}
	return q.store.ReplaceGPSPoints(id, toStorePoints(id, track))
}
