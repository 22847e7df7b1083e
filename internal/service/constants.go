package service

const (
	// Tracks fetched per sync run, least-failed then newest first. The rest wait for the next run.
	GPSBatchSize = 50

	// Relative difference tolerated between local bests and the backend's max values
	MaxValuesTolerance = 0.01

	// Sync phases reported through SyncProgress
	PhaseTrigger    = "trigger"
	PhaseActivities = "activities"
	PhaseGPS        = "gps"
	PhaseRecords    = "records"
	PhaseBests      = "bests"
)
