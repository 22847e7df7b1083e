package service

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"garmin-dashboard/internal/analysis"
	"garmin-dashboard/internal/store"
)

// RecordDisplay is a stored record holder ready for display
type RecordDisplay struct {
	Category     analysis.Category
	Title        string
	Value        string
	Detail       string
	HexColor     string
	ActivityID   store.ActivityID
	ActivityName string
	Date         string
}

// GetRecordHolders returns the stored record holders in category order.
// Holders with an unknown category or a vanished activity are skipped.
func (q *QueryService) GetRecordHolders() ([]RecordDisplay, error) {
	holders, err := q.store.ListRecordHolders()
	if err != nil {
		return nil, fmt.Errorf("loading record holders: %w", err)
	}

	byCategory := make(map[analysis.Category]store.RecordHolder, len(holders))
	for _, h := range holders {
		c, ok := analysis.ParseCategory(h.Category)
		if !ok {
			log.Warnf("ignoring record holder with unknown category %q", h.Category)
			continue
		}
		byCategory[c] = h
	}

	var out []RecordDisplay
	for _, c := range analysis.Categories {
		h, ok := byCategory[c]
		if !ok {
			continue
		}

		activity, err := q.store.GetActivity(h.ActivityID)
		if errors.Is(err, store.ErrActivityNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		a := analysis.Achievement{
			Category:   c,
			Activity:   *activity,
			Title:      c.Title(),
			ThemeColor: c.ThemeColor(),
			Value:      h.Value,
		}
		out = append(out, RecordDisplay{
			Category:     c,
			Title:        a.Title,
			Value:        a.DisplayValue(),
			Detail:       a.Detail(),
			HexColor:     c.HexColor(),
			ActivityID:   activity.ID,
			ActivityName: analysis.FormatActivityTitle(activity.LocationName, activity.Sport),
			Date:         h.AchievedAt.Format("Jan 02, 2006"),
		})
	}

	return out, nil
}
