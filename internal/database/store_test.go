package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanickcuello/linkedin-people-scrapper/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RunLifecycle(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Runs.StartRun("run-1", 2, "data/out.csv"))
	require.NoError(t, store.Runs.FinishRun("run-1", 7, "completed"))
}

func TestStore_InsertAndCountProfiles(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Runs.StartRun("run-1", 1, "data/out.csv"))

	rec := models.ProfileRecord{
		Name:       "Jane Doe",
		Title:      "Software Engineer at Initech",
		ProfileURL: "https://www.linkedin.com/in/jane-doe",
	}
	require.NoError(t, store.Profiles.Insert("run-1", "Software Engineer", rec))
	require.NoError(t, store.Profiles.Insert("run-1", "Software Engineer", rec))

	count, err := store.Profiles.CountByRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	other, err := store.Profiles.CountByRun("run-2")
	require.NoError(t, err)
	assert.Equal(t, 0, other)
}
