package chat

import (
	"context"
	"strings"
	"sync"
	"time"
)

// FallbackRule is the rule name reported when no rule matches.
const FallbackRule = "fallback"

// Rule maps a set of keywords to a reply. A message matches when it
// contains any keyword, compared in lower case.
type Rule struct {
	Name     string
	Keywords []string
	Reply    string
}

// Answer is the reply to one message.
type Answer struct {
	Rule  string `json:"rule"`
	Reply string `json:"reply"`
}

// Responder answers coaching questions from an ordered rule list.
// It is safe for concurrent use; SetRules may be called while Reply runs.
type Responder struct {
	mu       sync.RWMutex
	rules    []Rule
	fallback string
	delay    time.Duration
}

// NewResponder returns a Responder. delay is slept before every reply.
func NewResponder(rules []Rule, fallback string, delay time.Duration) *Responder {
	r := &Responder{delay: delay}
	r.SetRules(rules, fallback)
	return r
}

// SetRules replaces the rule list and fallback reply.
func (r *Responder) SetRules(rules []Rule, fallback string) {
	normalized := make([]Rule, len(rules))
	for i, rule := range rules {
		kws := make([]string, 0, len(rule.Keywords))
		for _, k := range rule.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				kws = append(kws, k)
			}
		}
		normalized[i] = Rule{Name: rule.Name, Keywords: kws, Reply: rule.Reply}
	}

	r.mu.Lock()
	r.rules = normalized
	r.fallback = fallback
	r.mu.Unlock()
}

// Match returns the answer for msg without delay.
func (r *Responder) Match(msg string) Answer {
	lower := strings.ToLower(msg)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rule := range r.rules {
		for _, k := range rule.Keywords {
			if strings.Contains(lower, k) {
				return Answer{Rule: rule.Name, Reply: rule.Reply}
			}
		}
	}
	return Answer{Rule: FallbackRule, Reply: r.fallback}
}

// Reply waits for the configured delay and answers msg. It returns ctx.Err()
// if ctx ends first.
func (r *Responder) Reply(ctx context.Context, msg string) (Answer, error) {
	ans := r.Match(msg)
	if r.delay <= 0 {
		return ans, nil
	}

	t := time.NewTimer(r.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return Answer{}, ctx.Err()
	case <-t.C:
		return ans, nil
	}
}
