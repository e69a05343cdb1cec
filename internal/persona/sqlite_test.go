package persona

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "persona.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_EmptyReturnsNotFound(t *testing.T) {
	store := newTestSQLiteStore(t)

	_, err := store.GetProfile()
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetProgress()
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetPattern()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_ProfileRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	in := DefaultProfile(now)
	in.Name = "Ananya"
	in.FavoriteSubjects = []string{"physics", "history"}
	in.StressTriggers = []string{"math"}
	require.NoError(t, store.SaveProfile(in))

	out, err := store.GetProfile()
	require.NoError(t, err)
	assert.Equal(t, "Ananya", out.Name)
	assert.Equal(t, []string{"physics", "history"}, out.FavoriteSubjects)
	assert.Equal(t, []string{"math"}, out.StressTriggers)
	assert.Equal(t, StyleMixed, out.LearningStyle)

	// Save again with a change: single-row upsert, not a second row.
	in.Name = "A"
	require.NoError(t, store.SaveProfile(in))
	out, err = store.GetProfile()
	require.NoError(t, err)
	assert.Equal(t, "A", out.Name)
}

func TestSQLiteStore_ProgressWithAchievements(t *testing.T) {
	store := newTestSQLiteStore(t)

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	in := DefaultProgress()
	in.TotalStudySessions = 3
	in.WellnessPoints = 25
	in.Achievements = []Achievement{{
		ID: "first_session", Title: "First Steps! 🎉",
		Description: "Completed your first study session",
		UnlockedDate: now, Icon: "🎉",
	}}
	require.NoError(t, store.SaveProgress(in))

	// Saving the same achievement again is a no-op.
	require.NoError(t, store.SaveProgress(in))

	out, err := store.GetProgress()
	require.NoError(t, err)
	assert.Equal(t, 3, out.TotalStudySessions)
	assert.Equal(t, 25, out.WellnessPoints)
	require.Len(t, out.Achievements, 1)
	assert.Equal(t, "first_session", out.Achievements[0].ID)
}

func TestSQLiteStore_MemoryRingEviction(t *testing.T) {
	store := newTestSQLiteStore(t)

	for i := 0; i < MemoryCap+2; i++ {
		require.NoError(t, store.AppendMemory(Memory{
			ID:    fmt.Sprintf("m-%d", i),
			Date:  time.Now(),
			Topic: fmt.Sprintf("topic-%d", i),
		}))
	}

	memories, err := store.Memories()
	require.NoError(t, err)
	require.Len(t, memories, MemoryCap)
	assert.Equal(t, "topic-2", memories[0].Topic)
}

func TestSQLiteStore_PatternRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	in := DefaultPattern(now)
	in.ClickSpeed = 12
	in.PauseFrequency = 2
	require.NoError(t, store.SavePattern(in))

	out, err := store.GetPattern()
	require.NoError(t, err)
	assert.Equal(t, 12, out.ClickSpeed)
	assert.Equal(t, 2, out.PauseFrequency)
	assert.Equal(t, "evening", out.PreferredStudyTime)
}
