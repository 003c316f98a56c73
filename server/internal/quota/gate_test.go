package quota

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fairwaylab/golfcoach/server/internal/store"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

// countingStore wraps store.Memory and records writes.
type countingStore struct {
	*store.Memory
	writes int
	err    error
}

func (c *countingStore) SetCount(ctx context.Context, k store.Key, n int) error {
	c.writes++
	return c.Memory.SetCount(ctx, k, n)
}

func (c *countingStore) Count(ctx context.Context, k store.Key) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	return c.Memory.Count(ctx, k)
}

func TestCheckAndIncrement(t *testing.T) {
	tests := []struct {
		tier    Tier
		current int
		want    Decision
	}{
		{TierFree, 0, Decision{Allowed: true, NewCount: 1}},
		{TierFree, 2, Decision{Allowed: true, NewCount: 3}},
		{TierFree, 3, Decision{Allowed: false, NewCount: 3}},
		{TierFree, 7, Decision{Allowed: false, NewCount: 7}},
		{"pro", 999, Decision{Allowed: true, NewCount: 1000}},
		{"Elite", 0, Decision{Allowed: true, NewCount: 1}},
	}
	for _, tt := range tests {
		got, err := CheckAndIncrement(tt.tier, tt.current)
		if err != nil {
			t.Errorf("%s/%d: unexpected error %v", tt.tier, tt.current, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s/%d: got %+v, want %+v", tt.tier, tt.current, got, tt.want)
		}
	}
}

func TestCheckAndIncrement_NegativeCount(t *testing.T) {
	_, err := CheckAndIncrement(TierFree, -1)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestPolicy_CustomLimit(t *testing.T) {
	p := Policy{FreeDailyLimit: 5}
	if d, _ := p.Check(TierFree, 4); !d.Allowed {
		t.Errorf("limit 5, current 4: got denied, want allowed")
	}
	if d, _ := p.Check(TierFree, 5); d.Allowed {
		t.Errorf("limit 5, current 5: got allowed, want denied")
	}
}

func TestTierForLevel(t *testing.T) {
	for level, want := range map[string]Tier{
		"":        TierFree,
		"1":       TierFree,
		"Starter": TierFree,
		"Pro":     "Pro",
		"Elite":   "Elite",
	} {
		if got := TierForLevel(level); got != want {
			t.Errorf("TierForLevel(%q): got %q, want %q", level, got, want)
		}
	}
}

func newTestGate(now time.Time) (*Gate, *countingStore) {
	cs := &countingStore{Memory: store.NewMemory(store.DefaultRetention, nil)}
	g := NewGate(cs, DefaultPolicy, nil)
	g.now = fixedClock(now)
	return g, cs
}

func TestGate_AdmitUntilLimit(t *testing.T) {
	ctx := context.Background()
	g, cs := newTestGate(time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC))

	for i := 1; i <= 3; i++ {
		d, err := g.Admit(ctx, "u1", TierFree)
		if err != nil {
			t.Fatalf("Admit %d: %v", i, err)
		}
		if !d.Allowed || d.NewCount != i {
			t.Errorf("Admit %d: got %+v, want allowed with count %d", i, d, i)
		}
	}

	d, err := g.Admit(ctx, "u1", TierFree)
	if err != nil {
		t.Fatalf("Admit 4: %v", err)
	}
	if d.Allowed || d.NewCount != 3 {
		t.Errorf("Admit 4: got %+v, want denied at 3", d)
	}
	if cs.writes != 3 {
		t.Errorf("writes: got %d, want 3 (denial must not write)", cs.writes)
	}
}

func TestGate_NewDayResets(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGate(time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC))
	for i := 0; i < 3; i++ {
		_, _ = g.Admit(ctx, "u1", TierFree)
	}

	g.now = fixedClock(time.Date(2026, 3, 10, 0, 1, 0, 0, time.UTC))
	d, err := g.Admit(ctx, "u1", TierFree)
	if err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if !d.Allowed || d.NewCount != 1 {
		t.Errorf("next day: got %+v, want allowed with count 1", d)
	}
}

func TestGate_UnlimitedTier(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGate(time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC))
	for i := 0; i < 10; i++ {
		d, _ := g.Admit(ctx, "u2", "Pro")
		if !d.Allowed {
			t.Fatalf("Pro admit %d: denied", i)
		}
	}
	u, err := g.Usage(ctx, "u2", "Pro")
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if !u.Unlimited || u.Used != 10 {
		t.Errorf("Usage: got %+v, want unlimited with 10 used", u)
	}
}

func TestGate_Usage(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGate(time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC))
	_, _ = g.Admit(ctx, "u1", TierFree)

	u, err := g.Usage(ctx, "u1", TierFree)
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	want := Usage{Date: "2026-03-09", Used: 1, Limit: 3, Remaining: 2}
	if u != want {
		t.Errorf("Usage: got %+v, want %+v", u, want)
	}
}

func TestGate_EmptyUserID(t *testing.T) {
	g, _ := newTestGate(time.Now())
	if _, err := g.Admit(context.Background(), "", TierFree); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestGate_CounterError(t *testing.T) {
	g, cs := newTestGate(time.Now())
	cs.err = errors.New("disk on fire")
	if _, err := g.Admit(context.Background(), "u1", TierFree); err == nil {
		t.Fatal("expected error from failing counter, got nil")
	}
	if cs.writes != 0 {
		t.Errorf("writes: got %d, want 0", cs.writes)
	}
}

func TestGate_Report(t *testing.T) {
	g, cs := newTestGate(time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC))

	if got, want := g.Report("u1", TierFree, 5), (Usage{Date: "2026-03-09", Used: 5, Limit: 3}); got != want {
		t.Errorf("Report over limit: got %+v, want %+v", got, want)
	}
	if got := g.Report("u1", "Pro", 2); !got.Unlimited || got.Limit != 0 {
		t.Errorf("Report Pro: got %+v, want unlimited", got)
	}
	if cs.writes != 0 {
		t.Errorf("writes: got %d, want 0", cs.writes)
	}
}

// slowCounter delays reads so concurrent Admit calls overlap.
type slowCounter struct {
	*store.Memory
	delay time.Duration
}

func (c slowCounter) Count(ctx context.Context, k store.Key) (int, error) {
	time.Sleep(c.delay)
	return c.Memory.Count(ctx, k)
}

func TestGate_ConcurrentAdmitHoldsLimit(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory(store.DefaultRetention, nil)
	g := NewGate(slowCounter{Memory: mem, delay: 5 * time.Millisecond}, DefaultPolicy, nil)
	g.now = fixedClock(time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC))

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := g.Admit(ctx, "u1", TierFree)
			if err != nil {
				t.Errorf("Admit: %v", err)
				return
			}
			if d.Allowed {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := admitted.Load(); got != DefaultFreeDailyLimit {
		t.Errorf("admitted: got %d, want %d", got, DefaultFreeDailyLimit)
	}
	n, _ := mem.Count(ctx, g.Today("u1"))
	if n != DefaultFreeDailyLimit {
		t.Errorf("stored count: got %d, want %d", n, DefaultFreeDailyLimit)
	}
	if len(g.locks) != 0 {
		t.Errorf("key locks: got %d left, want 0", len(g.locks))
	}
}
