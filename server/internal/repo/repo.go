package repo

import (
	"context"
	"errors"

	"github.com/fairwaylab/golfcoach/pkg/types"
)

// ErrUserNotFound is returned when a user id or name has no roster entry.
var ErrUserNotFound = errors.New("repo: user not found")

// UserRepository reads and writes the roster.
type UserRepository interface {
	// List returns every user sorted by name ascending.
	List(ctx context.Context) ([]types.User, error)
	Get(ctx context.Context, id string) (types.User, error)
	// FindByName matches names case-insensitively.
	FindByName(ctx context.Context, name string) (types.User, error)
	// Create adds a user with level "1", status IN_PROGRESS and growth 0.
	Create(ctx context.Context, name string) (types.User, error)
	UpdateLevel(ctx context.Context, id, level string) (types.User, error)
}

// AnalysisRepository persists analysis results.
type AnalysisRepository interface {
	SaveAnalysis(ctx context.Context, rec types.AnalysisRecord) (string, error)
}
