package records

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minegrid/internal/mines"
	"github.com/vancomm/minegrid/internal/session"
)

func setupTestBook(t *testing.T) *Book {
	t.Helper()
	b, err := Open(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

var epoch = time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)

func entry(won bool, params mines.Params, playtime time.Duration, ended int) Entry {
	end := epoch.Add(time.Duration(ended) * time.Minute)
	return Entry{
		GameID:      uuid.New(),
		Round:       1,
		Params:      params,
		HazardCount: params.HazardCount(),
		Won:         won,
		StartedAt:   end.Add(-playtime),
		EndedAt:     end,
	}
}

func TestNewBookRejectsBadNames(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	defer db.Close()

	for _, name := range []string{"", "drop table", "a;b", "name1"} {
		_, err := NewBook(db, name)
		assert.ErrorIs(t, err, ErrBadName, name)
	}
	_, err = NewBook(db, "best_times")
	assert.NoError(t, err)
}

func TestBookReadEmpty(t *testing.T) {
	b := setupTestBook(t)

	_, err := b.Get(uuid.New(), 1)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := b.Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	entries, err := b.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBookPutGetDelete(t *testing.T) {
	b := setupTestBook(t)
	e := entry(true, mines.Params{Size: 9, Density: 0.125}, 42*time.Second, 0)
	e.Revealed, e.Flagged = 71, 10

	require.NoError(t, b.Put(e))
	got, err := b.Get(e.GameID, e.Round)
	require.NoError(t, err)
	assert.Equal(t, e.GameID, got.GameID)
	assert.Equal(t, e.Params, got.Params)
	assert.Equal(t, 71, got.Revealed)
	assert.True(t, got.EndedAt.Equal(e.EndedAt))
	assert.Equal(t, 42*time.Second, got.Playtime())

	_, err = b.Get(e.GameID, 2)
	assert.ErrorIs(t, err, ErrNotFound, "rounds are separate records")

	// same game and round overwrites
	e.Won = false
	require.NoError(t, b.Put(e))
	n, err := b.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err = b.Get(e.GameID, e.Round)
	require.NoError(t, err)
	assert.False(t, got.Won)

	require.NoError(t, b.Delete(e.GameID, e.Round))
	require.NoError(t, b.Delete(e.GameID, e.Round))
	_, err = b.Get(e.GameID, e.Round)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookBest(t *testing.T) {
	b := setupTestBook(t)
	small := mines.Params{Size: 9, Density: 0.125}
	big := mines.Params{Size: 16, Density: 0.16}

	entries := []Entry{
		entry(true, small, 30*time.Second, 3),
		entry(true, small, 10*time.Second, 1),
		entry(false, small, 5*time.Second, 2),
		entry(true, big, 1*time.Second, 4),
		entry(true, small, 20*time.Second, 5),
	}
	for _, e := range entries {
		require.NoError(t, b.Put(e))
	}

	all, err := b.Entries()
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].EndedAt.Before(all[i-1].EndedAt))
	}

	best, err := b.Best(small, 2)
	require.NoError(t, err)
	require.Len(t, best, 2)
	assert.Equal(t, entries[1].GameID, best[0].GameID)
	assert.Equal(t, entries[4].GameID, best[1].GameID)

	best, err = b.Best(big, 0)
	require.NoError(t, err)
	assert.Len(t, best, 1)

	assert.Contains(t, String(best), "16:0.16")
}

func TestNewEntry(t *testing.T) {
	ended := epoch.Add(time.Minute)
	s := session.Snapshot{
		ID:           uuid.New(),
		Round:        3,
		Params:       mines.Params{Size: 4, Density: 0.125},
		TotalHazards: 2,
		Revealed:     14,
		Flagged:      2,
		Status:       mines.Won,
		StartedAt:    epoch,
		EndedAt:      &ended,
	}

	e, ok := NewEntry(s)
	require.True(t, ok)
	assert.True(t, e.Won)
	assert.Equal(t, 3, e.Round)
	assert.Equal(t, time.Minute, e.Playtime())

	s.Status = mines.InProgress
	s.EndedAt = nil
	_, ok = NewEntry(s)
	assert.False(t, ok)
}
