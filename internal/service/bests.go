package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"garmin-dashboard/internal/analysis"
	"garmin-dashboard/internal/store"
)

// BestsCache holds the personal bests of the current activity collection.
// The snapshot is persisted so a restart doesn't need a full recompute.
type BestsCache struct {
	mu         sync.RWMutex
	store      *store.DB
	bests      analysis.PersonalBests
	computedAt time.Time
	present    bool
	loaded     bool // store was consulted
	now        func() time.Time
}

// NewBestsCache creates an empty cache backed by db
func NewBestsCache(db *store.DB) *BestsCache {
	return &BestsCache{store: db, now: time.Now}
}

// Get returns the cached bests and whether there are any. The persisted
// snapshot is read on first use.
func (c *BestsCache) Get() (analysis.PersonalBests, bool) {
	c.mu.RLock()
	if c.loaded {
		defer c.mu.RUnlock()
		return c.bests, c.present
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.load()
	}
	return c.bests, c.present
}

// load must be called with the write lock held
func (c *BestsCache) load() {
	c.loaded = true

	snapshot, err := c.store.LoadPersonalBests()
	if errors.Is(err, store.ErrNoPersonalBests) {
		return
	}
	if err != nil {
		log.Errorf("loading personal bests: %s", err)
		return
	}

	c.bests = analysis.PersonalBestsFromMap(snapshot.Values)
	c.computedAt = snapshot.ComputedAt
	c.present = true
}

// ComputedAt returns when the cached bests were computed, zero if absent
func (c *BestsCache) ComputedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.computedAt
}

// Refresh recomputes the bests from activities and persists them
func (c *BestsCache) Refresh(activities []store.Activity) (analysis.PersonalBests, error) {
	bests := analysis.ComputePersonalBests(activities)
	at := c.now().UTC()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.SavePersonalBests(bests.Map(), at); err != nil {
		return bests, fmt.Errorf("saving personal bests: %w", err)
	}

	c.bests = bests
	c.computedAt = at
	c.present = true
	c.loaded = true

	log.Debugf("personal bests refreshed from %d activities", len(activities))
	return bests, nil
}

// Invalidate drops the cached and persisted bests
func (c *BestsCache) Invalidate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bests = analysis.PersonalBests{}
	c.computedAt = time.Time{}
	c.present = false
	c.loaded = true

	if err := c.store.DeletePersonalBests(); err != nil {
		return fmt.Errorf("deleting personal bests: %w", err)
	}
	return nil
}
