package notify

import (
	"net/http"
	"sync"
	"time"

	"github.com/fairwaylab/golfcoach/server/internal/config"
)

// Event names.
const (
	EventUserSignup     = "user_signup"
	EventLevelChanged   = "level_changed"
	EventQuotaExhausted = "quota_exhausted"
)

const maxHistoryLen = 200

// Event is one notification.
type Event struct {
	Type     string    `json:"type"`
	UserID   string    `json:"user_id"`
	UserName string    `json:"user_name,omitempty"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

// Notifier fans events out to webhook targets.
//
// Notifier is safe for concurrent use.
type Notifier struct {
	webhooks []config.WebhookConfig
	client   *http.Client
	now      func() time.Time

	mu      sync.Mutex
	history []Event
	wg      sync.WaitGroup
}

// New creates a Notifier. A Notifier with no webhooks still keeps history.
func New(cfg config.NotifyConfig) *Notifier {
	return &Notifier{
		webhooks: cfg.Webhooks,
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
}

// Emit records e and starts asynchronous delivery. A zero At is set to now.
func (n *Notifier) Emit(e Event) {
	if e.At.IsZero() {
		e.At = n.now()
	}

	n.mu.Lock()
	n.history = append(n.history, e)
	if len(n.history) > maxHistoryLen {
		n.history = n.history[len(n.history)-maxHistoryLen:]
	}
	n.mu.Unlock()

	if len(n.webhooks) == 0 {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.deliver(e)
	}()
}

// Recent returns up to limit events, newest first. limit <= 0 returns all.
func (n *Notifier) Recent(limit int) []Event {
	n.mu.Lock()
	defer n.mu.Unlock()

	if limit <= 0 || limit > len(n.history) {
		limit = len(n.history)
	}
	out := make([]Event, 0, limit)
	for i := len(n.history) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, n.history[i])
	}
	return out
}

// Wait blocks until every in-flight delivery has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
