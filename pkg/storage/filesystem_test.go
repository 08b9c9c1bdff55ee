package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStorageSaveAndOpen(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("tickets/feedback-1.json", []byte(`{"subject":"bug"}`))
	require.NoError(t, err)
	assert.Equal(t, "tickets/feedback-1.json", name)

	f, err := store.Open(name)
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"subject":"bug"}`, string(data))
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("old.json", []byte("{}"))
	require.NoError(t, err)
	_, err = store.Save("fresh.json", []byte("{}"))
	require.NoError(t, err)

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.json"), stale, stale))

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.json"}, deleted)

	_, err = os.Stat(filepath.Join(dir, "fresh.json"))
	assert.NoError(t, err)
}

func TestAsyncArchiveWritesInBackground(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	archive := NewAsyncArchive(store, zap.NewNop())
	archive.Start(context.Background())
	defer archive.Stop()

	name, err := archive.Save("feedback-abc.json", []byte(`{"kind":"feedback"}`))
	require.NoError(t, err)
	assert.Equal(t, "feedback-abc.json", name)

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "feedback-abc.json"))
		return err == nil
	}, time.Second, 10*time.Millisecond)
}

func TestAsyncArchiveRejectsSaveBeforeStart(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	archive := NewAsyncArchive(store, zap.NewNop())
	_, err = archive.Save("never.json", []byte("{}"))
	assert.Error(t, err)
}
