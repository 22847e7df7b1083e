package store

import "time"

// ActivityID is the backend's opaque activity identifier
type ActivityID string

// Activity represents one recorded exercise session.
// Nil pointers mean the backend did not report the field.
type Activity struct {
	ID             ActivityID `db:"id"`
	Sport          string     `db:"sport"`
	LocationName   string     `db:"location_name"`
	StartTime      time.Time  `db:"start_time"`
	ElapsedTime    string     `db:"elapsed_time"`    // HH:MM:SS, may carry fractional seconds
	Distance       *float64   `db:"distance"`        // km
	AvgSpeed       *float64   `db:"avg_speed"`       // km/h
	MaxSpeed       *float64   `db:"max_speed"`       // km/h
	Calories       *float64   `db:"calories"`
	AvgHR          *float64   `db:"avg_hr"`          // bpm
	MaxHR          *float64   `db:"max_hr"`          // bpm
	Steps          *int       `db:"steps"`
	TrainingEffect *float64   `db:"training_effect"`
	TrainingLoad   *float64   `db:"training_load"`
	VO2Max         *float64   `db:"vo2_max"`         // ml/kg/min
	GPSSynced      bool       `db:"gps_synced"`
}

// GPSPoint is a single track point of an activity
type GPSPoint struct {
	ActivityID ActivityID `db:"activity_id"`
	Seq        int        `db:"seq"`
	Lat        float64    `db:"lat"`
	Lng        float64    `db:"lng"`
}

// PersonalBestsSnapshot is the persisted form of the personal-best cache
type PersonalBestsSnapshot struct {
	Values     map[string]float64 // canonical metric name -> best value
	ComputedAt time.Time
}

// RecordHolder is the stored holder of an achievement category.
// Sync compares fresh detections against it to report new records.
type RecordHolder struct {
	Category   string     `db:"category"`
	ActivityID ActivityID `db:"activity_id"`
	Value      float64    `db:"value"`
	AchievedAt time.Time  `db:"achieved_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}
