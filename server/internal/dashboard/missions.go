package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fairwaylab/golfcoach/server/internal/store"
)

// ErrUnknownMission is returned for a mission id outside the catalog.
var ErrUnknownMission = errors.New("dashboard: unknown mission")

// Mission ids.
const (
	MissionAnalyze  = 1
	MissionAskCoach = 2
	MissionCheckIn  = 3
)

// Tracker persists mission completions per (user, day).
type Tracker interface {
	Completed(ctx context.Context, key store.Key) ([]int, error)
	Complete(ctx context.Context, key store.Key, missionID int) error
}

// Mission is one entry on the daily board.
type Mission struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Board is a user's mission list for one day.
type Board struct {
	Date           string    `json:"date"`
	Missions       []Mission `json:"missions"`
	CompletionRate float64   `json:"completion_rate"` // percent, 0-100
}

type catalogEntry struct {
	id          int
	en, ko      string
	defaultDone bool
}

var catalog = []catalogEntry{
	{MissionAnalyze, "Run one swing analysis in the studio", "스윙 스튜디오에서 1회 분석하기", false},
	{MissionAskCoach, "Ask the AI coach a question", "AI 코치에게 '슬라이스' 질문하기", false},
	{MissionCheckIn, "Check in after login", "로그인 후 출석체크", true},
}

// Service builds mission boards and records completions.
type Service struct {
	tracker Tracker
	loc     *time.Location
	now     func() time.Time // injectable for deterministic tests

	mu     sync.RWMutex
	locale string
}

// NewService returns a Service. A nil loc means UTC; locale "ko" selects
// Korean mission text.
func NewService(t Tracker, loc *time.Location, locale string) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{tracker: t, loc: loc, locale: locale, now: time.Now}
}

func (s *Service) today(userID string) store.Key {
	return store.Key{UserID: userID, Date: store.Day(s.now(), s.loc)}
}

// SetLocale switches the language of mission text.
func (s *Service) SetLocale(locale string) {
	s.mu.Lock()
	s.locale = locale
	s.mu.Unlock()
}

// Board returns today's missions for userID.
func (s *Service) Board(ctx context.Context, userID string) (Board, error) {
	key := s.today(userID)
	done, err := s.tracker.Completed(ctx, key)
	if err != nil {
		return Board{}, fmt.Errorf("dashboard: read missions: %w", err)
	}
	doneSet := make(map[int]bool, len(done))
	for _, id := range done {
		doneSet[id] = true
	}

	s.mu.RLock()
	korean := s.locale == "ko"
	s.mu.RUnlock()

	b := Board{Date: key.Date, Missions: make([]Mission, len(catalog))}
	completed := 0
	for i, c := range catalog {
		text := c.en
		if korean {
			text = c.ko
		}
		m := Mission{ID: c.id, Text: text, Completed: c.defaultDone || doneSet[c.id]}
		if m.Completed {
			completed++
		}
		b.Missions[i] = m
	}
	b.CompletionRate = float64(completed*100) / float64(len(catalog))
	return b, nil
}

// Complete marks missionID done today for userID.
func (s *Service) Complete(ctx context.Context, userID string, missionID int) error {
	if !known(missionID) {
		return fmt.Errorf("%w: %d", ErrUnknownMission, missionID)
	}
	if err := s.tracker.Complete(ctx, s.today(userID), missionID); err != nil {
		return fmt.Errorf("dashboard: complete mission: %w", err)
	}
	return nil
}

func known(id int) bool {
	for _, c := range catalog {
		if c.id == id {
			return true
		}
	}
	return false
}
