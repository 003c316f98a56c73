package quota

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fairwaylab/golfcoach/server/internal/store"
)

// ErrInvalidInput is returned for negative counts or empty user ids.
var ErrInvalidInput = errors.New("quota: invalid input")

// Tier is a user's service level for quota purposes.
type Tier string

// TierFree is the only limited tier. Every other tier is unlimited.
const TierFree Tier = "free"

// DefaultFreeDailyLimit is the number of analyses a free user may run per day.
const DefaultFreeDailyLimit = 3

// TierForLevel maps a roster level to its quota tier. Levels "1" and "Starter"
// are free; any other level name is its own unlimited tier.
func TierForLevel(level string) Tier {
	switch level {
	case "", "1", "Starter":
		return TierFree
	default:
		return Tier(level)
	}
}

// Decision is the outcome of one quota check.
type Decision struct {
	Allowed  bool `json:"allowed"`
	NewCount int  `json:"new_count"`
}

// Policy holds the per-tier limits.
type Policy struct {
	FreeDailyLimit int
}

// DefaultPolicy is the policy used by CheckAndIncrement.
var DefaultPolicy = Policy{FreeDailyLimit: DefaultFreeDailyLimit}

// Limit returns the daily limit for tier and whether the tier is limited at all.
func (p Policy) Limit(tier Tier) (int, bool) {
	if tier == TierFree {
		return p.FreeDailyLimit, true
	}
	return 0, false
}

// Check decides whether one more analysis is allowed given today's count.
// A denied decision leaves the count unchanged.
func (p Policy) Check(tier Tier, current int) (Decision, error) {
	if current < 0 {
		return Decision{}, fmt.Errorf("%w: current count %d is negative", ErrInvalidInput, current)
	}
	if limit, limited := p.Limit(tier); limited && current >= limit {
		return Decision{Allowed: false, NewCount: current}, nil
	}
	return Decision{Allowed: true, NewCount: current + 1}, nil
}

// CheckAndIncrement applies DefaultPolicy: free users get 3 analyses per day,
// every other tier is unlimited. It is pure; the caller owns the counter.
func CheckAndIncrement(tier Tier, current int) (Decision, error) {
	return DefaultPolicy.Check(tier, current)
}

// Counter is the durable per-(user, day) usage counter the Gate reads and writes.
type Counter interface {
	Count(ctx context.Context, key store.Key) (int, error)
	SetCount(ctx context.Context, key store.Key, n int) error
}

// Usage reports today's consumption for one user.
type Usage struct {
	Date      string `json:"date"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Unlimited bool   `json:"unlimited"`
}

// Gate applies a Policy against a Counter keyed by (user id, calendar day).
// The day is computed in loc so quotas reset at local midnight.
type Gate struct {
	counter Counter
	policy  Policy
	loc     *time.Location
	now     func() time.Time // injectable for deterministic tests

	mu    sync.Mutex
	locks map[store.Key]*keyLock
}

// keyLock serialises Admit calls for one key. refs counts holders and
// waiters so the entry can be dropped when the last one leaves.
type keyLock struct {
	mu   sync.Mutex
	refs int
}

func (g *Gate) lock(key store.Key) func() {
	g.mu.Lock()
	l, ok := g.locks[key]
	if !ok {
		l = &keyLock{}
		g.locks[key] = l
	}
	l.refs++
	g.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		g.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(g.locks, key)
		}
		g.mu.Unlock()
	}
}

// NewGate creates a Gate. A nil loc means UTC.
func NewGate(c Counter, p Policy, loc *time.Location) *Gate {
	if loc == nil {
		loc = time.UTC
	}
	return &Gate{counter: c, policy: p, loc: loc, now: time.Now, locks: make(map[store.Key]*keyLock)}
}

// Today returns the counter key for userID on the current day.
func (g *Gate) Today(userID string) store.Key {
	return store.Key{UserID: userID, Date: store.Day(g.now(), g.loc)}
}

// Admit checks and, when allowed, records one analysis for userID.
// A denied decision writes nothing. The read and write for one key happen
// under a lock, so concurrent calls for the same user cannot overshoot the
// limit.
func (g *Gate) Admit(ctx context.Context, userID string, tier Tier) (Decision, error) {
	if userID == "" {
		return Decision{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	key := g.Today(userID)
	unlock := g.lock(key)
	defer unlock()

	current, err := g.counter.Count(ctx, key)
	if err != nil {
		return Decision{}, fmt.Errorf("quota: read count: %w", err)
	}

	dec, err := g.policy.Check(tier, current)
	if err != nil {
		return Decision{}, err
	}
	if !dec.Allowed {
		return dec, nil
	}

	if err := g.counter.SetCount(ctx, key, dec.NewCount); err != nil {
		return Decision{}, fmt.Errorf("quota: write count: %w", err)
	}
	return dec, nil
}

// Usage reports today's count for userID without changing it.
func (g *Gate) Usage(ctx context.Context, userID string, tier Tier) (Usage, error) {
	key := g.Today(userID)
	n, err := g.counter.Count(ctx, key)
	if err != nil {
		return Usage{}, fmt.Errorf("quota: read count: %w", err)
	}

	return g.Report(userID, tier, n), nil
}

// Report builds today's Usage for a known count, such as Decision.NewCount,
// without touching the counter.
func (g *Gate) Report(userID string, tier Tier, used int) Usage {
	u := Usage{Date: g.Today(userID).Date, Used: used}
	limit, limited := g.policy.Limit(tier)
	if !limited {
		u.Unlimited = true
		return u
	}
	u.Limit = limit
	u.Remaining = max(0, limit-used)
	return u
}
