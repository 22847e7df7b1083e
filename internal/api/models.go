package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"garmin-dashboard/internal/store"
)

// Activity is an activity as served by GET /api/activities
type Activity struct {
	ID             ActivityID `json:"activity_id"`
	LocationName   *string    `json:"locationName"`
	StartTime      Timestamp  `json:"start_time"`
	Sport          *string    `json:"sport"`
	Distance       *float64   `json:"distance"`     // km
	ElapsedTime    *string    `json:"elapsed_time"` // H:MM:SS[.ffffff]
	AvgSpeed       *float64   `json:"avg_speed"`    // km/h
	MaxSpeed       *float64   `json:"max_speed"`    // km/h
	Calories       *float64   `json:"calories"`
	AvgHR          *float64   `json:"avg_hr"`
	MaxHR          *float64   `json:"max_hr"`
	Steps          *int       `json:"steps"`
	TrainingEffect *float64   `json:"training_effect"`
	TrainingLoad   *float64   `json:"training_load"`
	VO2Max         *float64   `json:"vO2MaxValue"`
}

// ActivityID accepts both JSON strings and numbers
type ActivityID string

func (id *ActivityID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ActivityID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("activity id: %w", err)
	}
	*id = ActivityID(n.String())
	return nil
}

// Timestamp decodes ISO-8601 timestamps with or without a zone.
// Times without a zone are taken as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ParseTimestamp parses the timestamp formats the backend emits
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// ToStore converts the wire form to the stored activity
func (a Activity) ToStore() store.Activity {
	return store.Activity{
		ID:             store.ActivityID(a.ID),
		Sport:          deref(a.Sport),
		LocationName:   deref(a.LocationName),
		StartTime:      a.StartTime.Time,
		ElapsedTime:    deref(a.ElapsedTime),
		Distance:       a.Distance,
		AvgSpeed:       a.AvgSpeed,
		MaxSpeed:       a.MaxSpeed,
		Calories:       a.Calories,
		AvgHR:          a.AvgHR,
		MaxHR:          a.MaxHR,
		Steps:          a.Steps,
		TrainingEffect: a.TrainingEffect,
		TrainingLoad:   a.TrainingLoad,
		VO2Max:         a.VO2Max,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GPSPoint is one [lat, lng] pair from GET /api/activities/{id}/gps
type GPSPoint [2]float64

func (p GPSPoint) Lat() float64 { return p[0] }
func (p GPSPoint) Lng() float64 { return p[1] }

// SyncResponse is the body of POST /api/activities/sync
type SyncResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// Succeeded reports whether the backend considered the sync successful
func (r SyncResponse) Succeeded() bool {
	return r.Status == "success"
}
