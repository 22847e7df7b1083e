package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"garmin-dashboard/internal/analysis"
	"garmin-dashboard/internal/api"
	"garmin-dashboard/internal/store"
)

// SyncService pulls activities from the backend into the local store
type SyncService struct {
	client *api.Client
	store  *store.DB
	bests  *BestsCache
	now    func() time.Time
}

// NewSyncService creates a new sync service
func NewSyncService(client *api.Client, db *store.DB, bests *BestsCache) *SyncService {
	return &SyncService{
		client: client,
		store:  db,
		bests:  bests,
		now:    time.Now,
	}
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase           string // one of the Phase constants
	Total           int
	Completed       int
	CurrentActivity string
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	ID                string
	BackendMessage    string
	ActivitiesFetched int
	ActivitiesStored  int
	TracksFetched     int
	NewRecords        []string // titles of categories with a new holder
	Bests             analysis.PersonalBests
	BestsMismatches   int // categories where the backend disagrees
	Duration          time.Duration

	// Err combines the failures sync stepped over
	Err error
}

// SyncAll runs a full sync: backend refresh, activities, tracks, records, bests.
// It closes progress when done. Per-item failures end up in SyncResult.Err;
// the returned error means the sync stopped early.
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	start := s.now()
	result := &SyncResult{ID: uuid.NewString()}
	logger := log.WithField("sync_id", result.ID)
	logger.Info("sync started")

	s.triggerBackend(ctx, progress, result, logger)

	activities, err := s.syncActivities(ctx, progress, result)
	if err != nil {
		logger.Errorf("sync failed: %s", err)
		return result, fmt.Errorf("syncing activities: %w", err)
	}

	if err := s.syncTracks(ctx, progress, result, logger); err != nil {
		logger.Errorf("sync failed: %s", err)
		return result, fmt.Errorf("syncing tracks: %w", err)
	}

	s.updateRecords(ctx, progress, result, activities)

	if err := s.refreshBests(ctx, progress, result, logger); err != nil {
		logger.Errorf("sync failed: %s", err)
		return result, fmt.Errorf("refreshing personal bests: %w", err)
	}

	finished := s.now()
	if err := s.store.SetLastSync(finished); err != nil {
		result.Err = multierr.Append(result.Err, fmt.Errorf("recording sync time: %w", err))
	}
	if err := s.store.SetSyncState(store.SyncKeyLastSyncID, result.ID); err != nil {
		result.Err = multierr.Append(result.Err, fmt.Errorf("recording sync id: %w", err))
	}
	result.Duration = finished.Sub(start)

	logger.WithFields(log.Fields{
		"fetched":     result.ActivitiesFetched,
		"stored":      result.ActivitiesStored,
		"tracks":      result.TracksFetched,
		"new_records": len(result.NewRecords),
		"errors":      len(multierr.Errors(result.Err)),
	}).Info("sync finished")

	return result, nil
}

// triggerBackend asks the backend to refresh from its upstream. A failure is
// recorded but the pull continues with whatever the backend already has.
func (s *SyncService) triggerBackend(ctx context.Context, progress chan<- SyncProgress, result *SyncResult, logger *log.Entry) {
	s.report(ctx, progress, SyncProgress{Phase: PhaseTrigger})

	resp, err := s.client.TriggerSync(ctx)
	switch {
	case err != nil:
		logger.Warnf("backend sync failed: %s", err)
		result.Err = multierr.Append(result.Err, fmt.Errorf("backend sync: %w", err))
	case !resp.Succeeded():
		logger.Warnf("backend sync reported %q: %s", resp.Status, resp.Message)
		result.BackendMessage = resp.Message
		result.Err = multierr.Append(result.Err, fmt.Errorf("backend sync: %s", resp.Message))
	default:
		result.BackendMessage = resp.Message
	}

	s.report(ctx, progress, SyncProgress{Phase: PhaseTrigger, Total: 1, Completed: 1})
}

// syncActivities fetches the activity list and stores it, returning everything stored
func (s *SyncService) syncActivities(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) ([]store.Activity, error) {
	s.report(ctx, progress, SyncProgress{Phase: PhaseActivities})

	fetched, err := s.client.ListActivities(ctx)
	if err != nil {
		return nil, err
	}
	result.ActivitiesFetched = len(fetched)

	activities := make([]store.Activity, len(fetched))
	for i, a := range fetched {
		activities[i] = a.ToStore()
	}

	if err := s.store.UpsertActivities(activities); err != nil {
		return nil, fmt.Errorf("storing activities: %w", err)
	}
	result.ActivitiesStored = len(activities)

	s.report(ctx, progress, SyncProgress{
		Phase:     PhaseActivities,
		Total:     result.ActivitiesFetched,
		Completed: result.ActivitiesStored,
	})

	return s.store.AllActivities()
}

// syncTracks fetches GPS tracks for activities that don't have one yet
func (s *SyncService) syncTracks(ctx context.Context, progress chan<- SyncProgress, result *SyncResult, logger *log.Entry) error {
	pending, err := s.store.ActivitiesNeedingGPS(GPSBatchSize)
	if err != nil {
		return fmt.Errorf("getting activities needing tracks: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	// tracks may have changed upstream
	s.client.InvalidateGPS()

	for i, activity := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.report(ctx, progress, SyncProgress{
			Phase:           PhaseGPS,
			Total:           len(pending),
			Completed:       i,
			CurrentActivity: analysis.FormatActivityTitle(activity.LocationName, activity.Sport),
		})

		track, err := s.client.GetGPS(ctx, string(activity.ID))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			// some activities have no track on the backend; try again next run,
			// behind the ones that haven't failed yet
			logger.Debugf("no track for %s: %s", activity.ID, err)
			result.Err = multierr.Append(result.Err, fmt.Errorf("track for %s: %w", activity.ID, err))
			if err := s.store.RecordGPSFailure(activity.ID); err != nil {
				result.Err = multierr.Append(result.Err, fmt.Errorf("recording track failure for %s: %w", activity.ID, err))
			}
			continue
		}

		if err := s.store.ReplaceGPSPoints(activity.ID, toStorePoints(activity.ID, track)); err != nil {
			result.Err = multierr.Append(result.Err, fmt.Errorf("saving track for %s: %w", activity.ID, err))
			continue
		}
		result.TracksFetched++
	}

	s.report(ctx, progress, SyncProgress{Phase: PhaseGPS, Total: len(pending), Completed: len(pending)})
	return nil
}

// updateRecords stores the current holder of every achievement category and
// notes the categories whose holding activity changed
func (s *SyncService) updateRecords(ctx context.Context, progress chan<- SyncProgress, result *SyncResult, activities []store.Activity) {
	achievements := analysis.DetectAchievements(activities)
	s.report(ctx, progress, SyncProgress{Phase: PhaseRecords, Total: len(achievements)})

	holders := make([]store.RecordHolder, len(achievements))
	for i, a := range achievements {
		holders[i] = store.RecordHolder{
			Category:   a.Category.String(),
			ActivityID: a.Activity.ID,
			Value:      a.Value,
			AchievedAt: a.Activity.StartTime,
		}
	}

	changed, err := s.store.ReplaceRecordHolders(holders)
	if err != nil {
		result.Err = multierr.Append(result.Err, fmt.Errorf("saving records: %w", err))
		return
	}
	for _, key := range changed {
		if c, ok := analysis.ParseCategory(key); ok {
			result.NewRecords = append(result.NewRecords, c.Title())
		}
	}

	s.report(ctx, progress, SyncProgress{Phase: PhaseRecords, Total: len(achievements), Completed: len(achievements)})
}

// refreshBests replaces the personal-best cache and cross-checks it against
// the backend's own maxima
func (s *SyncService) refreshBests(ctx context.Context, progress chan<- SyncProgress, result *SyncResult, logger *log.Entry) error {
	s.report(ctx, progress, SyncProgress{Phase: PhaseBests})

	if err := s.bests.Invalidate(); err != nil {
		return err
	}

	activities, err := s.store.AllActivities()
	if err != nil {
		return fmt.Errorf("loading activities: %w", err)
	}

	bests, err := s.bests.Refresh(activities)
	if err != nil {
		return err
	}
	result.Bests = bests

	remote, err := s.client.GetMaxValues(ctx)
	if err != nil {
		logger.Warnf("skipping max values cross-check: %s", err)
	} else {
		for _, m := range CompareMaxValues(bests, remote) {
			logger.Warnf("backend reports %s %v, local best is %v", m.Metric, m.Remote, m.Local)
			result.BestsMismatches++
		}
	}

	s.report(ctx, progress, SyncProgress{Phase: PhaseBests, Total: 1, Completed: 1})
	return nil
}

// MaxValueMismatch is a category where the backend's max differs from the local best
type MaxValueMismatch struct {
	Metric analysis.Metric
	Local  float64
	Remote float64
}

// CompareMaxValues checks the backend's max values against the local bests.
// Keys the bests don't track (the backend sends "Avg HR") are ignored.
func CompareMaxValues(bests analysis.PersonalBests, remote map[string]float64) []MaxValueMismatch {
	var out []MaxValueMismatch
	for _, m := range analysis.BestMetrics {
		r, ok := remote[m.String()]
		if !ok {
			continue
		}
		local, _ := bests.Get(m)
		if !withinTolerance(local, r) {
			out = append(out, MaxValueMismatch{Metric: m, Local: local, Remote: r})
		}
	}
	return out
}

func withinTolerance(a, b float64) bool {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return true
	}
	return math.Abs(a-b)/scale <= MaxValuesTolerance
}

// RateLimitStatus returns the requests left in the client's window, -1 if unlimited
func (s *SyncService) RateLimitStatus() int {
	return s.client.RateLimitStatus()
}

// report sends p unless the channel is nil or ctx is done
func (s *SyncService) report(ctx context.Context, progress chan<- SyncProgress, p SyncProgress) {
	if progress == nil {
		return
	}
	select {
	case progress <- p:
	case <-ctx.Done():
	}
}
