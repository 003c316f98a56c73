package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/fairwaylab/golfcoach/pkg/types"
)

// Memory implements UserRepository and AnalysisRepository in process memory.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]types.User
	analyses []types.AnalysisRecord
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{users: make(map[string]types.User)}
}

func (m *Memory) List(_ context.Context) ([]types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) Get(_ context.Context, id string) (types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return types.User{}, ErrUserNotFound
	}
	return u, nil
}

func (m *Memory) FindByName(_ context.Context, name string) (types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Name, name) {
			return u, nil
		}
	}
	return types.User{}, ErrUserNotFound
}

func (m *Memory) Create(_ context.Context, name string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := types.User{
		ID:     uuid.NewString(),
		Name:   name,
		Level:  types.LevelDefault,
		Status: types.StatusInProgress,
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *Memory) UpdateLevel(_ context.Context, id, level string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return types.User{}, ErrUserNotFound
	}
	u.Level = level
	m.users[id] = u
	return u, nil
}

// SaveAnalysis stores rec under a fresh id. The user must exist.
func (m *Memory) SaveAnalysis(_ context.Context, rec types.AnalysisRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[rec.UserID]; !ok {
		return "", ErrUserNotFound
	}
	rec.ID = uuid.NewString()
	m.analyses = append(m.analyses, rec)
	return rec.ID, nil
}

// Analyses returns a copy of every saved analysis for userID, oldest first.
func (m *Memory) Analyses(userID string) []types.AnalysisRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []types.AnalysisRecord
	for _, a := range m.analyses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out
}
