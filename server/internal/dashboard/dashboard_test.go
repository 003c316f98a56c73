package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/fairwaylab/golfcoach/server/internal/store"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func newTestService(now time.Time, locale string) *Service {
	s := NewService(store.NewMemory(store.DefaultRetention, nil), nil, locale)
	s.now = fixedClock(now)
	return s
}

func TestBoard_FreshDay(t *testing.T) {
	s := newTestService(time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), "en")
	b, err := s.Board(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Board: %v", err)
	}

	want := Board{
		Date: "2026-03-09",
		Missions: []Mission{
			{ID: 1, Text: "Run one swing analysis in the studio"},
			{ID: 2, Text: "Ask the AI coach a question"},
			{ID: 3, Text: "Check in after login", Completed: true},
		},
		CompletionRate: 100.0 / 3,
	}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("Board mismatch (-want +got):\n%s", diff)
	}
}

func TestComplete_UpdatesBoard(t *testing.T) {
	ctx := context.Background()
	s := newTestService(time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), "en")

	if err := s.Complete(ctx, "u1", MissionAnalyze); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := s.Complete(ctx, "u1", MissionAskCoach); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	b, _ := s.Board(ctx, "u1")
	if b.CompletionRate != 100 {
		t.Errorf("CompletionRate: got %v, want 100", b.CompletionRate)
	}

	other, _ := s.Board(ctx, "u2")
	if other.Missions[0].Completed {
		t.Error("u2 mission 1: got completed, want untouched")
	}
}

func TestComplete_ResetsNextDay(t *testing.T) {
	ctx := context.Background()
	s := newTestService(time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), "en")
	_ = s.Complete(ctx, "u1", MissionAnalyze)

	s.now = fixedClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	b, _ := s.Board(ctx, "u1")
	if b.Missions[0].Completed {
		t.Error("mission 1 on next day: got completed, want reset")
	}
}

func TestComplete_UnknownMission(t *testing.T) {
	s := newTestService(time.Now(), "en")
	if err := s.Complete(context.Background(), "u1", 9); !errors.Is(err, ErrUnknownMission) {
		t.Errorf("got %v, want ErrUnknownMission", err)
	}
}

func TestBoard_KoreanText(t *testing.T) {
	s := newTestService(time.Now(), "ko")
	b, _ := s.Board(context.Background(), "u1")
	if b.Missions[2].Text != "로그인 후 출석체크" {
		t.Errorf("mission 3 text: got %q", b.Missions[2].Text)
	}
}

func TestComputeRadar(t *testing.T) {
	tests := []struct {
		growth float64
		want   Radar
	}{
		{0, Radar{Power: 50, Accuracy: 35, Tempo: 45, Balance: 40, Mental: 42}},
		{50, Radar{Power: 80, Accuracy: 65, Tempo: 75, Balance: 70, Mental: 72}},
		{100, Radar{Power: 100, Accuracy: 95, Tempo: 100, Balance: 100, Mental: 100}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ComputeRadar(tt.growth)); diff != "" {
			t.Errorf("ComputeRadar(%v) (-want +got):\n%s", tt.growth, diff)
		}
	}
}

func TestEliteInsight(t *testing.T) {
	if in := EliteInsight("Elite", "en"); in.Locked || in.Message == "" {
		t.Errorf("Elite: got %+v, want unlocked message", in)
	}
	for _, level := range []string{"1", "Starter", "Pro"} {
		if in := EliteInsight(level, "ko"); !in.Locked {
			t.Errorf("%s: got unlocked, want locked", level)
		}
	}
}

func TestSetLocale(t *testing.T) {
	s := newTestService(time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC), "en")
	s.SetLocale("ko")

	b, err := s.Board(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if got := b.Missions[2].Text; got != "로그인 후 출석체크" {
		t.Errorf("mission 3 after SetLocale: got %q", got)
	}
}
