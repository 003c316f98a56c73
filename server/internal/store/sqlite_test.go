package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, retention time.Duration) *SQLite {
	t.Helper()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "golfcoach.db"), retention, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_CountAndSetCount(t *testing.T) {
	s := openTestDB(t, DefaultRetention)
	k := Key{UserID: "u1", Date: "2026-03-09"}

	n, err := s.Count(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, s.SetCount(ctx, k, 1))
	require.NoError(t, s.SetCount(ctx, k, 2))

	n, err = s.Count(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	other, err := s.Count(ctx, Key{UserID: "u1", Date: "2026-03-10"})
	require.NoError(t, err)
	assert.Zero(t, other)
}

func TestSQLite_Missions(t *testing.T) {
	s := openTestDB(t, DefaultRetention)
	k := Key{UserID: "u1", Date: "2026-03-09"}

	ids, err := s.Completed(ctx, k)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)

	require.NoError(t, s.Complete(ctx, k, 2))
	require.NoError(t, s.Complete(ctx, k, 1))
	require.NoError(t, s.Complete(ctx, k, 2))

	ids, err = s.Completed(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids)
}

func TestSQLite_Prune(t *testing.T) {
	s := openTestDB(t, 2*24*time.Hour)
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	for _, d := range []string{"2026-03-06", "2026-03-07", "2026-03-08", "2026-03-09"} {
		require.NoError(t, s.SetCount(ctx, Key{UserID: "u1", Date: d}, 1))
	}
	require.NoError(t, s.Complete(ctx, Key{UserID: "u1", Date: "2026-03-06"}, 1))

	removed, err := s.Prune(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, removed, "two old counts plus one old mission")

	n, err := s.Count(ctx, Key{UserID: "u1", Date: "2026-03-08"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golfcoach.db")
	k := Key{UserID: "u1", Date: "2026-03-09"}

	s, err := OpenSQLite(ctx, path, DefaultRetention, nil)
	require.NoError(t, err)
	require.NoError(t, s.SetCount(ctx, k, 3))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path, DefaultRetention, nil)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Count(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
