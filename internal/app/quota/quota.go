// Package quota guards the daily budget of external search-provider calls.
package quota

import (
	"log/slog"
	"sync"
	"time"
)

// Tracker is a process-wide counter with a rolling 24h reset window. One
// Tracker is shared by every concurrently running query executor; Acquire is
// atomic with respect to concurrent callers, so acquisitions can never race
// past the limit.
type Tracker struct {
	mu        sync.Mutex
	limit     int
	used      int
	warnRatio float64
	warned    bool
	resetTime time.Time

	logger *slog.Logger
	now    func() time.Time
}

// New returns a tracker allowing limit acquisitions per rolling 24h window.
// warnRatio is the fraction of the limit at which a warning is logged.
func New(limit int, warnRatio float64, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tracker{
		limit:     limit,
		warnRatio: warnRatio,
		logger:    logger,
		now:       time.Now,
	}
	t.resetTime = t.now().Add(24 * time.Hour)
	return t
}

// Acquire consumes one unit of quota. It returns false when the budget is
// exhausted; callers treat that as a fetch failure for the query at hand.
func (t *Tracker) Acquire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if !now.Before(t.resetTime) {
		t.used = 0
		t.warned = false
		t.resetTime = now.Add(24 * time.Hour)
	}

	if t.used >= t.limit {
		t.logger.Error("quota exhausted", "used", t.used, "limit", t.limit)
		return false
	}

	t.used++
	if !t.warned && float64(t.used) >= float64(t.limit)*t.warnRatio {
		t.logger.Warn("quota warning", "used", t.used, "limit", t.limit)
		t.warned = true
	}
	return true
}

// Used returns the number of acquisitions in the current window.
func (t *Tracker) Used() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.used
}

// Remaining returns the unused budget, floored at zero.
func (t *Tracker) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.used >= t.limit {
		return 0
	}
	return t.limit - t.used
}
