package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMatch_DefaultRules(t *testing.T) {
	rules, fallback := DefaultRules("ko")
	r := NewResponder(rules, fallback, 0)

	tests := []struct {
		msg  string
		want string
	}{
		{"슬라이스가 너무 나요", "slice"},
		{"공이 자꾸 오른쪽으로 가요", "slice"},
		{"비거리 늘리는 법", "distance"},
		{"How do I fix my SHANK?", "shank"},
		{"퍼팅 연습", "putting"},
		{"안녕하세요", "greeting"},
		{"Hello coach", "greeting"},
		{"my slice and my putting", "slice"}, // first rule wins
		{"날씨 어때요", FallbackRule},
	}
	for _, tt := range tests {
		if got := r.Match(tt.msg); got.Rule != tt.want {
			t.Errorf("Match(%q): got rule %q, want %q", tt.msg, got.Rule, tt.want)
		}
	}
}

func TestMatch_FallbackReply(t *testing.T) {
	rules, fallback := DefaultRules("en")
	r := NewResponder(rules, fallback, 0)
	got := r.Match("what's the weather")
	if got.Reply != fallback {
		t.Errorf("reply: got %q, want fallback %q", got.Reply, fallback)
	}
}

func TestDefaultRules_LocalesShareKeywords(t *testing.T) {
	ko, _ := DefaultRules("ko")
	en, _ := DefaultRules("en")
	if len(ko) != len(en) {
		t.Fatalf("rule count: ko %d, en %d", len(ko), len(en))
	}
	for i := range ko {
		if ko[i].Name != en[i].Name {
			t.Errorf("rule %d: ko %q, en %q", i, ko[i].Name, en[i].Name)
		}
		if ko[i].Reply == en[i].Reply {
			t.Errorf("rule %s: replies should differ by locale", ko[i].Name)
		}
	}
}

func TestSetRules_NormalizesKeywords(t *testing.T) {
	r := NewResponder([]Rule{{Name: "grip", Keywords: []string{"  GRIP ", ""}, Reply: "hold it lightly"}}, "?", 0)
	if got := r.Match("my grip hurts"); got.Rule != "grip" {
		t.Errorf("got rule %q, want grip", got.Rule)
	}

	r.SetRules(nil, "nothing")
	if got := r.Match("my grip hurts"); got.Rule != FallbackRule || got.Reply != "nothing" {
		t.Errorf("after SetRules: got %+v, want fallback 'nothing'", got)
	}
}

func TestReply_Delay(t *testing.T) {
	r := NewResponder(nil, "ok", 20*time.Millisecond)
	start := time.Now()
	ans, err := r.Reply(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if ans.Reply != "ok" {
		t.Errorf("reply: got %q, want ok", ans.Reply)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("elapsed %v, want at least 20ms", elapsed)
	}
}

func TestReply_ContextCancelled(t *testing.T) {
	r := NewResponder(nil, "ok", time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Reply(ctx, "hi"); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestConcurrentSetRulesAndMatch(t *testing.T) {
	rules, fallback := DefaultRules("en")
	r := NewResponder(rules, fallback, 0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); r.SetRules(rules, fallback) }()
		go func() { defer wg.Done(); _ = r.Match("slice") }()
	}
	wg.Wait()
}
