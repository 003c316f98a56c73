package store

import (
	"context"
	"log/slog"
	"time"
)

// DayLayout is the format of Key.Date.
const DayLayout = "2006-01-02"

// DefaultRetention is how long past days are kept before pruning.
const DefaultRetention = 7 * 24 * time.Hour

// Key identifies one user's record for one calendar day.
type Key struct {
	UserID string
	Date   string
}

// Day formats t as a calendar day in loc. A nil loc means UTC.
func Day(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}

// cutoffDay returns the oldest day still retained at now. Keys with an earlier
// date are prunable. Retention below one day still keeps today.
func cutoffDay(now time.Time, retention time.Duration, loc *time.Location) string {
	if retention < 24*time.Hour {
		retention = 24 * time.Hour
	}
	return Day(now.Add(-retention+24*time.Hour), loc)
}

// pruneLoop calls prune at half the retention interval (minimum 1 second)
// until ctx is cancelled.
func pruneLoop(ctx context.Context, retention time.Duration, prune func(time.Time) (int, error)) {
	interval := retention / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := prune(now)
			if err != nil {
				slog.Warn("store: prune failed", "err", err)
				continue
			}
			if n > 0 {
				slog.Debug("store: pruned past days", "count", n)
			}
		}
	}
}
