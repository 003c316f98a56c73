package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// entry is the state held for one Key.
type entry struct {
	count     int
	missions  map[int]struct{}
	updatedAt time.Time
}

// Memory is a thread-safe in-memory store of daily usage counts and mission
// completions.
type Memory struct {
	mu        sync.RWMutex
	data      map[Key]*entry
	retention time.Duration
	loc       *time.Location
	now       func() time.Time // injectable for deterministic tests
}

// NewMemory creates a Memory that keeps past days for retention.
// A nil loc means UTC.
func NewMemory(retention time.Duration, loc *time.Location) *Memory {
	if loc == nil {
		loc = time.UTC
	}
	return &Memory{
		data:      make(map[Key]*entry),
		retention: retention,
		loc:       loc,
		now:       time.Now,
	}
}

// Count returns the usage count for key, or 0 if nothing was recorded.
func (m *Memory) Count(_ context.Context, key Key) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if e, ok := m.data[key]; ok {
		return e.count, nil
	}
	return 0, nil
}

// SetCount stores n as the usage count for key.
func (m *Memory) SetCount(_ context.Context, key Key, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entryLocked(key)
	e.count = n
	e.updatedAt = m.now()
	return nil
}

// Completed returns the mission ids completed under key in ascending order.
func (m *Memory) Completed(_ context.Context, key Key) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok {
		return []int{}, nil
	}
	ids := make([]int, 0, len(e.missions))
	for id := range e.missions {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// Complete marks missionID done under key. Completing twice is a no-op.
func (m *Memory) Complete(_ context.Context, key Key, missionID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entryLocked(key)
	e.missions[missionID] = struct{}{}
	e.updatedAt = m.now()
	return nil
}

// Len returns the number of keys currently held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Prune removes every key whose day falls outside the retention window at now.
// Returns the number of keys removed.
func (m *Memory) Prune(now time.Time) int {
	cutoff := cutoffDay(now, m.retention, m.loc)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k := range m.data {
		if k.Date < cutoff {
			delete(m.data, k)
			removed++
		}
	}
	return removed
}

// Run prunes past days periodically until ctx is cancelled.
// Call in a dedicated goroutine.
func (m *Memory) Run(ctx context.Context) {
	pruneLoop(ctx, m.retention, func(now time.Time) (int, error) {
		return m.Prune(now), nil
	})
}

func (m *Memory) entryLocked(key Key) *entry {
	e, ok := m.data[key]
	if !ok {
		e = &entry{missions: make(map[int]struct{})}
		m.data[key] = e
	}
	return e
}
