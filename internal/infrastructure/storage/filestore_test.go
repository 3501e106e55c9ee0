package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub/backend/domain"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	root := t.TempDir()
	return NewFileStore(filepath.Join(root, "events"), filepath.Join(root, "requests"))
}

func TestSaveRequestImage(t *testing.T) {
	store := newTestStore(t)

	stored, err := store.SaveRequestImage("req-1", "photo.png", strings.NewReader("payload"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stored, "-photo.png"))

	path, err := store.RequestImagePath("req-1", stored)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestSaveStripsDirectoryComponents(t *testing.T) {
	store := newTestStore(t)

	stored, err := store.SaveRequestImage("req-1", "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stored, "-passwd"))
	assert.NotContains(t, stored, "..")
}

func TestMoveRequestToEvent(t *testing.T) {
	store := newTestStore(t)

	stored, err := store.SaveRequestImage("req-1", "photo.png", strings.NewReader("payload"))
	require.NoError(t, err)

	require.NoError(t, store.MoveRequestToEvent("req-1", "ev-1", stored))

	_, err = store.RequestImagePath("req-1", stored)
	assert.ErrorIs(t, err, domain.ErrImageNotFound)

	path, err := store.EventImagePath("ev-1", stored)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestMoveRequestToEventIdempotent(t *testing.T) {
	store := newTestStore(t)

	stored, err := store.SaveRequestImage("req-1", "photo.png", strings.NewReader("payload"))
	require.NoError(t, err)

	require.NoError(t, store.MoveRequestToEvent("req-1", "ev-1", stored))
	// Replaying the same move must succeed: source gone, destination present.
	require.NoError(t, store.MoveRequestToEvent("req-1", "ev-1", stored))

	_, err = store.EventImagePath("ev-1", stored)
	assert.NoError(t, err)
}

func TestMoveMissingFileFails(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.MoveRequestToEvent("req-1", "ev-1", "never-saved.png"))
}

func TestDeleteEventImageTolerant(t *testing.T) {
	store := newTestStore(t)

	stored, err := store.SaveEventImage("ev-1", "photo.png", strings.NewReader("payload"))
	require.NoError(t, err)

	require.NoError(t, store.DeleteEventImage("ev-1", stored))
	// Deleting a file that is already gone is not an error.
	require.NoError(t, store.DeleteEventImage("ev-1", stored))
}

func TestRemoveRequestDir(t *testing.T) {
	store := newTestStore(t)

	stored, err := store.SaveRequestImage("req-1", "photo.png", strings.NewReader("payload"))
	require.NoError(t, err)

	require.NoError(t, store.RemoveRequestDir("req-1"))
	_, err = store.RequestImagePath("req-1", stored)
	assert.ErrorIs(t, err, domain.ErrImageNotFound)
}
