package memory

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteService_MergePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.db")

	svc, err := OpenSQLiteService(path)
	require.NoError(t, err)

	snap := svc.Merge(MemoryDelta{
		StatePatch: map[string]any{"goal": "ship it"},
		TodoAdd:    []TodoItem{{Title: "write tests", Status: "open"}},
	})
	require.Equal(t, "ship it", snap.State["goal"])
	require.NoError(t, svc.Close())

	reopened, err := OpenSQLiteService(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded := reopened.Load()
	require.Equal(t, "ship it", loaded.State["goal"])
	require.Len(t, loaded.Todo, 1)
	require.Equal(t, "write tests", loaded.Todo[0].Title)
}

func TestSQLiteService_OpenWithNoExistingDataStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.db")

	svc, err := OpenSQLiteService(path)
	require.NoError(t, err)
	defer svc.Close()

	snap := svc.Load()
	require.Empty(t, snap.Todo)
	require.NotNil(t, snap.State)
}

func TestSQLiteService_SaveOverwritesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.db")

	svc, err := OpenSQLiteService(path)
	require.NoError(t, err)

	svc.Save(MemorySnapshot{State: map[string]any{"overwritten": true}})
	require.NoError(t, svc.Close())

	reopened, err := OpenSQLiteService(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded := reopened.Load()
	require.Equal(t, true, loaded.State["overwritten"])
}
